package database

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"gorm.io/driver/postgres"
	gormsqlite "gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	_ "modernc.org/sqlite"

	"foodgram/internal/domain"
)

// IsPostgres reports whether the DSN points at PostgreSQL rather than a SQLite file.
func IsPostgres(dsn string) bool {
	return strings.HasPrefix(dsn, "postgres://") || strings.HasPrefix(dsn, "postgresql://")
}

func Connect(dsn string) (*gorm.DB, error) {
	cfg := &gorm.Config{
		Logger: logger.New(
			slog.NewLogLogger(slog.Default().Handler(), slog.LevelWarn),
			logger.Config{
				SlowThreshold:             200 * time.Millisecond,
				LogLevel:                  logger.Warn,
				IgnoreRecordNotFoundError: true,
			},
		),
	}

	if IsPostgres(dsn) {
		slog.Info("connecting to PostgreSQL")
		return gorm.Open(postgres.Open(dsn), cfg)
	}

	slog.Info("using SQLite for local development", "dsn", dsn)
	db, err := gorm.Open(
		gormsqlite.New(gormsqlite.Config{
			DriverName: "sqlite",
			DSN:        dsn,
		}),
		cfg,
	)
	if err != nil {
		return nil, err
	}

	// A single connection keeps ":memory:" databases shared and the pragma below in effect.
	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(1)
	if err := db.Exec("PRAGMA foreign_keys = ON").Error; err != nil {
		return nil, fmt.Errorf("enable sqlite foreign keys: %w", err)
	}
	return db, nil
}

// Migrate creates or updates every table the service owns.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(domain.Models()...); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	if err := backfillIngredientNameLower(db); err != nil {
		return fmt.Errorf("backfill ingredients.name_lower: %w", err)
	}
	return nil
}

// backfillIngredientNameLower fills the search column for rows stored before it existed.
func backfillIngredientNameLower(db *gorm.DB) error {
	var stale []domain.Ingredient
	if err := db.Where("name_lower = '' AND name <> ''").Find(&stale).Error; err != nil {
		return err
	}
	for _, in := range stale {
		if err := db.Model(&domain.Ingredient{ID: in.ID}).
			UpdateColumn("name_lower", strings.ToLower(in.Name)).Error; err != nil {
			return err
		}
	}
	if len(stale) > 0 {
		slog.Info("backfilled ingredient search names", "rows", len(stale))
	}
	return nil
}
