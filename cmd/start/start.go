package start

import (
	"context"
	"os"
	"os/signal"
	"runtime/pprof"
	"syscall"
	"time"

	"github.com/neurosim-cloud/neurosim/api"
	modelsvc "github.com/neurosim-cloud/neurosim/api/rest/service/model"
	simsvc "github.com/neurosim-cloud/neurosim/api/rest/service/simulation"
	"github.com/neurosim-cloud/neurosim/internal/engine"
	"github.com/neurosim-cloud/neurosim/internal/event"
	"github.com/neurosim-cloud/neurosim/internal/job"
	"github.com/neurosim-cloud/neurosim/internal/metrics"
	"github.com/neurosim-cloud/neurosim/internal/registry"
	"github.com/neurosim-cloud/neurosim/internal/results"
	"github.com/neurosim-cloud/neurosim/internal/retention"
	"github.com/neurosim-cloud/neurosim/internal/scheduler"
	"github.com/neurosim-cloud/neurosim/pkg/db"
	"github.com/neurosim-cloud/neurosim/pkg/env"
	"github.com/neurosim-cloud/neurosim/pkg/log"
	"github.com/spf13/cobra"
)

const (
	usage   = "start"
	short   = "Start a neurosim orchestration instance"
	long    = "This command starts a neurosim orchestration instance"
	example = "neurosim start"
)

var (
	// Cmd is the start command.
	Cmd = &cobra.Command{
		Use:        usage,
		Short:      short,
		Long:       long,
		Aliases:    []string{"s"},
		SuggestFor: []string{"launch", "boot", "up", "run", "begin"},
		Example:    example,
		RunE:       start,
	}
)

var (
	cancel  context.CancelFunc
	service *api.API
)

func start(cmd *cobra.Command, args []string) error {
	signalChan := make(chan os.Signal, 1)

	go func() {
		for s := range signalChan {
			switch s {
			case syscall.SIGUSR1:
				log.Info("dumping stack traces due to SIGUSR1 signal")
				if profile := pprof.Lookup("goroutine"); profile != nil {
					if err := profile.WriteTo(os.Stdout, 1); err != nil {
						log.Error("write goroutine profile", "error", err)
					}
				}
			case syscall.SIGINT, syscall.SIGTERM:
				log.Info("gracefully shutting down", "signal", s.String())
				shutdown()
				os.Exit(0)
			}
		}
	}()

	signal.Notify(signalChan, syscall.SIGUSR1, syscall.SIGINT, syscall.SIGTERM)

	var errs = make(chan error)
	ctx, cancelFunc := context.WithCancel(context.Background())
	cancel = cancelFunc

	log.Info("migrating database")
	if err := db.Migrate(); err != nil {
		log.Fatal("database migration failure", "error", err)
	}

	metrics.Register()

	vars := env.Variables()

	bus := event.New()
	jobs := job.NewStore(db.Connection())
	res := results.NewStore(vars.ResultPath)
	reg := registry.New(db.Connection(), vars.ModelPath, jobs)

	sched := scheduler.New(jobs, res, reg, engine.NewAnalytic(), bus, scheduler.Config{
		Concurrency:      vars.WorkerConcurrency,
		PollInterval:     vars.PollInterval,
		ExecutionTimeout: vars.ExecutionTimeout,
	})

	service = api.New(
		modelsvc.New(reg, bus),
		simsvc.New(jobs, res, sched),
		bus,
	)

	if vars.RetentionAge > 0 {
		sweeper, err := retention.New(jobs, res, vars.RetentionAge, vars.RetentionSchedule)
		if err != nil {
			log.Fatal("retention configuration failure", "error", err)
		}

		go sweeper.Run(ctx)
	}

	go func() {
		log.Info("spinning up api")
		errs <- service.Start()
	}()

	go func() {
		log.Info("launching scheduler")
		errs <- sched.Run(ctx)
	}()

	defer shutdown()

	return <-errs
}

func shutdown() {
	if cancel != nil {
		cancel()
	}
	if service != nil {
		ctx, done := context.WithTimeout(context.Background(), 10*time.Second)
		defer done()

		if err := service.Shutdown(ctx); err != nil {
			log.Error("api shutdown failure", "error", err)
		}
	}
}
