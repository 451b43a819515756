package database

import (
	"fmt"
	"strings"

	"foodgram/internal/config"
	"foodgram/internal/domain"
	"foodgram/internal/logging"

	"gorm.io/driver/postgres"
	gormsqlite "gorm.io/driver/sqlite"
	"gorm.io/gorm"

	_ "modernc.org/sqlite"
)

// Connect opens a database with quiet SQL logging. Used by tests and tools.
func Connect(dsn string) (*gorm.DB, error) {
	return Open(config.DatabaseConfig{DSN: dsn, LogLevel: "silent"})
}

// Open picks postgres for postgres:// DSNs and the pure-Go sqlite driver otherwise.
func Open(cfg config.DatabaseConfig) (*gorm.DB, error) {
	gormCfg := &gorm.Config{
		Logger:         logging.NewGormLogger(cfg.LogLevel),
		TranslateError: true,
	}

	var (
		db  *gorm.DB
		err error
	)
	if isPostgres(cfg.DSN) {
		logging.Info().Msg("connecting to PostgreSQL")
		db, err = gorm.Open(postgres.Open(cfg.DSN), gormCfg)
	} else {
		logging.Info().Str("dsn", cfg.DSN).Msg("using SQLite")
		db, err = gorm.Open(
			gormsqlite.New(gormsqlite.Config{
				DriverName: "sqlite",
				DSN:        sqliteDSN(cfg.DSN),
			}),
			gormCfg,
		)
	}
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("get sql.DB: %w", err)
	}
	switch {
	case strings.Contains(cfg.DSN, ":memory:"):
		// every new connection to :memory: is a fresh, empty database
		sqlDB.SetMaxOpenConns(1)
	case isPostgres(cfg.DSN):
		if cfg.MaxOpenConns > 0 {
			sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
		}
		if cfg.MaxIdleConns > 0 {
			sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
		}
		if cfg.MaxLifetime > 0 {
			sqlDB.SetConnMaxLifetime(cfg.MaxLifetime)
		}
	}

	return db, nil
}

// Migrate creates or updates every table.
func Migrate(db *gorm.DB) error {
	if err := db.SetupJoinTable(&domain.Recipe{}, "Tags", &domain.RecipeTag{}); err != nil {
		return fmt.Errorf("setup recipe_tags: %w", err)
	}
	if err := db.AutoMigrate(domain.Models()...); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	return nil
}

// sqliteDSN turns on foreign key enforcement, which sqlite leaves off per connection.
func sqliteDSN(dsn string) string {
	if strings.Contains(dsn, "foreign_keys") {
		return dsn
	}
	sep := "?"
	if strings.Contains(dsn, "?") {
		sep = "&"
	}
	return dsn + sep + "_pragma=foreign_keys(1)"
}

func isPostgres(dsn string) bool {
	return strings.HasPrefix(dsn, "postgres://") || strings.HasPrefix(dsn, "postgresql://")
}
