package env

import (
	"time"

	"github.com/kelseyhightower/envconfig"
	"github.com/neurosim-cloud/neurosim/pkg/log"
	"github.com/pkg/errors"
)

var variables = new(Environment)

// Process the environment variables set for neurosim.
func Process() error {
	if err := envconfig.Process("neurosim", variables); err != nil {
		return errors.Wrap(err, "failed to process environment variables")
	}

	// set the log level
	if err := log.SetLevel(variables.LogLevel); err != nil {
		return errors.Wrap(err, "failed to set log level")
	}

	return nil
}

// Variables returns the processed environment variables.
func Variables() Environment {
	return *variables
}

// Environment defines the environment variables used
// by neurosim.
type Environment struct {
	LogLevel          string        `default:"info"`
	Host              string        `default:""`
	Port              int           `default:"8080"`
	WorkerConcurrency int           `default:"4"`
	RequestTimeout    time.Duration `default:"30s"`
	ExecutionTimeout  time.Duration `default:"1h"`
	PollInterval      time.Duration `default:"2s"`
	CorsOrigins       []string      `default:"*"`
	GqlEnable         bool          `default:"false"`
	GqlHost           string        `default:""`
	GqlPort           int           `default:"8081"`
	ModelPath         string        `default:"/var/lib/neurosim/models"`
	ResultPath        string        `default:"/var/lib/neurosim/results"`
	DatabaseType      string        `default:"sqlite"`
	DatabaseDSN       string        `default:"file:neurosim.db?_journal_mode=WAL&_busy_timeout=5000"`
	RetentionAge      time.Duration `default:"0s"`
	RetentionSchedule string        `default:"@hourly"`
}
