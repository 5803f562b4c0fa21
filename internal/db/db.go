package db

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"boo-display-backend/config"
	"boo-display-backend/internal/logger"
	"boo-display-backend/internal/model"
)

// Init opens the database and runs migrations. Postgres is used when a DSN is
// configured, SQLite at cfg.Path otherwise.
func Init(cfg *config.DatabaseConfig, log *logger.Logger) (*gorm.DB, error) {
	gormCfg := &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Warn),
	}

	var (
		db  *gorm.DB
		err error
	)
	if cfg.DSN != "" {
		log.Infow("opening postgres database")
		db, err = gorm.Open(postgres.Open(cfg.DSN), gormCfg)
	} else {
		log.Infow("opening sqlite database", "path", cfg.Path)
		if err := ensureDir(cfg.Path); err != nil {
			return nil, err
		}
		db, err = gorm.Open(sqlite.Open(cfg.Path), gormCfg)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get sql.DB: %w", err)
	}

	if cfg.DSN == "" {
		// One connection serialises writers, which keeps id assignment and the
		// unique url index free of SQLITE_BUSY races.
		sqlDB.SetMaxOpenConns(1)
		sqlDB.SetMaxIdleConns(1)
		if err := applySQLitePragmas(db); err != nil {
			return nil, err
		}
	} else {
		if cfg.MaxOpenConns > 0 {
			sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
		}
		if cfg.MaxIdleConns > 0 {
			sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
		}
		if cfg.ConnMaxLifetimeMinutes > 0 {
			sqlDB.SetConnMaxLifetime(time.Duration(cfg.ConnMaxLifetimeMinutes) * time.Minute)
		}
	}

	if err := Migrate(db); err != nil {
		return nil, err
	}

	log.Infow("database initialization complete")
	return db, nil
}

// Migrate creates or updates the webhook and text history tables.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&model.Webhook{},
		&model.TextEntry{},
	); err != nil {
		return fmt.Errorf("automigrate failed: %w", err)
	}
	return nil
}

func ensureDir(path string) error {
	dir := filepath.Dir(path)
	if dir == "" || dir == "." {
		return nil
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create database directory %q: %w", dir, err)
	}
	return nil
}

func applySQLitePragmas(db *gorm.DB) error {
	for _, pragma := range []string{
		"PRAGMA journal_mode = WAL;",
		"PRAGMA busy_timeout = 5000;",
	} {
		if err := db.Exec(pragma).Error; err != nil {
			return fmt.Errorf("%s: %w", pragma, err)
		}
	}
	return nil
}
