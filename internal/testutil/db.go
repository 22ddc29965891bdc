// Package testutil provides shared test fixtures.
package testutil

import (
	"path/filepath"
	"testing"

	"github.com/neurosim-cloud/neurosim/internal/models"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// DB opens a throwaway sqlite database with the neurosim schema
// migrated, scoped to the test's temp directory.
func DB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := filepath.Join(t.TempDir(), "neurosim.db") + "?_busy_timeout=5000"

	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: logger.Discard})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	if err := db.AutoMigrate(&models.Model{}, &models.Job{}); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}

	return db
}
