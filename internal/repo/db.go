// Package repo implements the data persistence layer, backed by GORM. This
// file contains database bootstrapping helpers for SQLite (pure Go driver) and
// PostgreSQL, plus schema migrations.
package repo

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	sqlite "github.com/glebarez/sqlite"
	"github.com/rs/zerolog/log"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	"gorm.io/plugin/opentelemetry/tracing"

	"github.com/tbourn/go-med-tracker/internal/domain"
)

// Open connects to PostgreSQL when databaseURL is set and to the SQLite file
// at sqlitePath otherwise, registers the OpenTelemetry plugin, and migrates
// the schema.
func Open(sqlitePath, databaseURL string) (*gorm.DB, error) {
	var (
		db  *gorm.DB
		err error
	)
	if strings.TrimSpace(databaseURL) != "" {
		db, err = OpenPostgres(databaseURL)
	} else {
		db, err = OpenSQLite(sqlitePath)
	}
	if err != nil {
		return nil, err
	}

	if err := db.Use(tracing.NewPlugin()); err != nil {
		return nil, err
	}
	if err := AutoMigrate(db); err != nil {
		return nil, err
	}

	log.Info().Str("dialect", db.Dialector.Name()).Msg("database ready")
	return db, nil
}

// sqlitePragmas run on every new SQLite handle. WAL lets the reminder job
// read while a dose is being written; busy_timeout covers the remaining
// writer contention.
var sqlitePragmas = []string{
	"PRAGMA journal_mode=WAL",
	"PRAGMA synchronous=NORMAL",
	"PRAGMA foreign_keys=ON",
	"PRAGMA busy_timeout=5000",
}

// OpenSQLite opens (or creates) the SQLite file at path. The parent directory
// must exist; the pure-Go driver otherwise reports a misleading
// "out of memory (14)".
func OpenSQLite(path string) (*gorm.DB, error) {
	if dir := filepath.Dir(path); dir != "." {
		if _, err := os.Stat(dir); err != nil {
			return nil, err
		}
	}

	db, err := gorm.Open(sqlite.Open(path), gormConfig())
	if err != nil {
		return nil, err
	}
	for _, p := range sqlitePragmas {
		if err := db.Exec(p).Error; err != nil {
			return nil, fmt.Errorf("%s: %w", p, err)
		}
	}
	tunePool(db, 10)
	return db, nil
}

// OpenPostgres connects using a DSN or postgres:// URL.
func OpenPostgres(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), gormConfig())
	if err != nil {
		return nil, err
	}
	tunePool(db, 10)
	return db, nil
}

func gormConfig() *gorm.Config {
	return &gorm.Config{Logger: logger.Default.LogMode(logger.Warn)}
}

// tunePool caps connections; the tracker is a single-user service, so a
// small pool with recycled connections is enough for either dialect.
func tunePool(db *gorm.DB, maxOpen int) {
	sqlDB, err := db.DB()
	if err != nil {
		return
	}
	sqlDB.SetMaxOpenConns(maxOpen)
	sqlDB.SetMaxIdleConns(maxOpen)
	sqlDB.SetConnMaxIdleTime(5 * time.Minute)
	sqlDB.SetConnMaxLifetime(30 * time.Minute)
}

// AutoMigrate creates or updates the key-value and idempotency tables.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&domain.StateEntry{},
		&domain.Idempotency{},
	)
}
