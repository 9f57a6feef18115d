package database

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// PostgresOptions controls the submission store connection.
type PostgresOptions struct {
	DSN             string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	// SlowQuery is the threshold above which gorm logs a statement. Zero silences gorm.
	SlowQuery time.Duration
	Logger    zerolog.Logger
}

// ConnectPostgres opens the submission store, applies the pool limits and
// verifies the server answers before returning.
func ConnectPostgres(ctx context.Context, opts PostgresOptions) (*gorm.DB, error) {
	if opts.DSN == "" {
		return nil, fmt.Errorf("postgres dsn must not be empty")
	}

	db, err := gorm.Open(postgres.Open(opts.DSN), &gorm.Config{Logger: gormLogger(opts)})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to postgres: %w", err)
	}

	if err := ConfigurePool(db, opts); err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to access postgres pool: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := sqlDB.PingContext(pingCtx); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("unable to reach postgres: %w", err)
	}

	return db, nil
}

// ConfigurePool applies the non-zero pool limits of opts to db.
func ConfigurePool(db *gorm.DB, opts PostgresOptions) error {
	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("failed to access connection pool: %w", err)
	}

	if opts.MaxOpenConns > 0 {
		sqlDB.SetMaxOpenConns(opts.MaxOpenConns)
	}
	if opts.MaxIdleConns > 0 {
		sqlDB.SetMaxIdleConns(opts.MaxIdleConns)
	}
	if opts.ConnMaxLifetime > 0 {
		sqlDB.SetConnMaxLifetime(opts.ConnMaxLifetime)
	}

	return nil
}

func gormLogger(opts PostgresOptions) gormlogger.Interface {
	if opts.SlowQuery <= 0 {
		return gormlogger.Default.LogMode(gormlogger.Silent)
	}

	return gormlogger.New(gormWriter{logger: opts.Logger}, gormlogger.Config{
		SlowThreshold:             opts.SlowQuery,
		LogLevel:                  gormlogger.Warn,
		IgnoreRecordNotFoundError: true,
	})
}

// gormWriter forwards gorm's printf-style output to zerolog.
type gormWriter struct {
	logger zerolog.Logger
}

func (w gormWriter) Printf(format string, args ...interface{}) {
	w.logger.Warn().Str("component", "gorm").Msgf(format, args...)
}
