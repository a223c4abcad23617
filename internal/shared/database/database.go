package database

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// DB wraps both GORM and the underlying sql.DB
type DB struct {
	*sql.DB
	GORM *gorm.DB
	log  zerolog.Logger
}

// NewDB opens a postgres connection through GORM and verifies it
func NewDB(connStr string, verbose bool, log zerolog.Logger) (*DB, error) {
	if connStr == "" {
		return nil, errors.New("DATABASE_URL is empty")
	}

	logMode := logger.Warn
	if verbose {
		logMode = logger.Info
	}

	gormDB, err := gorm.Open(postgres.Open(connStr), &gorm.Config{
		Logger: logger.Default.LogMode(logMode),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	sqlDB, err := gormDB.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get sql.DB: %w", err)
	}

	// Connection pool settings
	sqlDB.SetMaxOpenConns(25)
	sqlDB.SetMaxIdleConns(5)
	sqlDB.SetConnMaxLifetime(time.Hour)

	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	log.Info().Msg("✅ Database connected (GORM)!")
	return &DB{DB: sqlDB, GORM: gormDB, log: log}, nil
}

func (db *DB) Close() error {
	db.log.Info().Msg("🔌 Closing database connection...")
	return db.DB.Close()
}
