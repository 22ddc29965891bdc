package db

import (
	"sync"

	"github.com/neurosim-cloud/neurosim/internal/models"
	"github.com/neurosim-cloud/neurosim/pkg/env"
	"github.com/neurosim-cloud/neurosim/pkg/log"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var (
	conn     *gorm.DB
	connOnce sync.Once
)

// Connection returns the process-wide database handle, opening
// it on first use according to the configured DatabaseType.
func Connection() *gorm.DB {
	connOnce.Do(func() {
		var err error

		switch env.Variables().DatabaseType {
		case "postgres":
			conn, err = gorm.Open(
				postgres.Open(env.Variables().DatabaseDSN),
				&gorm.Config{Logger: logger.Discard},
			)
		case "sqlite":
			fallthrough
		default:
			conn, err = gorm.Open(
				sqlite.Open(env.Variables().DatabaseDSN),
				&gorm.Config{Logger: logger.Discard},
			)
		}

		if err != nil {
			log.Fatal("failed to connect to database", "error", err)
		}
	})

	return conn
}

// Migrate creates or updates the neurosim tables.
func Migrate() error {
	return Connection().AutoMigrate(
		&models.Model{},
		&models.Job{},
	)
}
