package database

import (
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// Options controls the connection retry loop and pool.
type Options struct {
	Attempts     int
	MaxOpenConns int
	MaxIdleConns int
	MaxLifetime  time.Duration
	LogLevel     gormlogger.LogLevel
}

// DefaultOptions matches what the service runs with.
func DefaultOptions() Options {
	return Options{
		Attempts:     10,
		MaxOpenConns: 25,
		MaxIdleConns: 5,
		MaxLifetime:  5 * time.Minute,
		LogLevel:     gormlogger.Warn,
	}
}

// ConnectPostgres opens the database, retrying while Postgres starts up, and
// migrates the given models.
func ConnectPostgres(dsn string, logger *zap.Logger, opts Options, autoMigrateModels ...interface{}) (*gorm.DB, error) {
	if opts.Attempts <= 0 {
		opts.Attempts = 1
	}

	var (
		db  *gorm.DB
		err error
	)
	for i := 0; i < opts.Attempts; i++ {
		db, err = gorm.Open(postgres.Open(dsn), &gorm.Config{
			Logger:         gormlogger.Default.LogMode(opts.LogLevel),
			TranslateError: true,
		})
		if err == nil {
			break
		}
		logger.Warn("DB connection failed, retrying",
			zap.Int("attempt", i+1),
			zap.Error(err),
		)
		time.Sleep(time.Duration(i+1) * 2 * time.Second)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to connect to PostgreSQL after retries: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("get sql.DB: %w", err)
	}
	sqlDB.SetMaxOpenConns(opts.MaxOpenConns)
	sqlDB.SetMaxIdleConns(opts.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(opts.MaxLifetime)

	logger.Info("Connected to PostgreSQL successfully")

	if len(autoMigrateModels) > 0 {
		if err := db.AutoMigrate(autoMigrateModels...); err != nil {
			return nil, fmt.Errorf("AutoMigrate failed: %w", err)
		}
	}
	return db, nil
}

// Close closes the underlying connection pool.
func Close(db *gorm.DB) error {
	if db == nil {
		return nil
	}
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
