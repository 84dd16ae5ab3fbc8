// Package db opens the GORM connection and provides the generic soft-delete repository.
package db

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"log"
	"time"

	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"planning_backend/internal/config"
	"planning_backend/internal/platform/logger"
)

// retryInterval is the pause between connection attempts.
var retryInterval = 3 * time.Second

// Opener opens a GORM connection for a DSN. Tests replace it.
type Opener func(dsn string) (*gorm.DB, error)

// Pinger exposes the health check surface.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Dialector returns the GORM dialector for the configured driver.
func Dialector(driver, dsn string) (gorm.Dialector, error) {
	switch driver {
	case config.DriverPostgres:
		return postgres.New(postgres.Config{DSN: dsn, PreferSimpleProtocol: true}), nil
	case config.DriverMySQL:
		return mysql.Open(dsn), nil
	case config.DriverSQLite:
		return sqlite.Open(dsn), nil
	default:
		return nil, fmt.Errorf("unsupported driver %q", driver)
	}
}

// GormConfig is the shared GORM configuration. Driver errors are translated so
// unique violations surface as gorm.ErrDuplicatedKey.
func GormConfig() *gorm.Config {
	return &gorm.Config{
		Logger: gormlogger.New(
			log.New(io.Discard, "", log.LstdFlags),
			gormlogger.Config{LogLevel: gormlogger.Silent},
		),
		TranslateError: true,
		NowFunc:        func() time.Time { return time.Now().UTC() },
	}
}

// ConnectWithRetry calls opener until it succeeds or timeout elapses.
func ConnectWithRetry(dsn string, timeout time.Duration, opener Opener) (*gorm.DB, error) {
	deadline := time.Now().Add(timeout)
	for {
		db, err := opener(dsn)
		if err == nil {
			return db, nil
		}
		if time.Now().After(deadline) {
			return nil, fmt.Errorf("db connect failed after %s: %w", timeout, err)
		}
		time.Sleep(retryInterval)
	}
}

// Open connects using cfg, retrying until cfg.ConnectTimeout, and applies pool settings.
func Open(ctx context.Context, cfg config.DataConfig, logg *logger.Logger) (*gorm.DB, error) {
	if logg == nil {
		logg = logger.Nop()
	}
	dialector, err := Dialector(cfg.Driver, cfg.ConnectionString)
	if err != nil {
		return nil, err
	}

	attempt := 0
	opener := func(string) (*gorm.DB, error) {
		attempt++
		conn, err := gorm.Open(dialector, GormConfig())
		if err == nil {
			if err = Ping(ctx, conn); err != nil {
				_ = Close(conn)
			}
		}
		if err != nil {
			logg.Error(logg.WithField(ctx, "attempt", attempt), "db connect failed, retrying", err)
			return nil, err
		}
		return conn, nil
	}

	conn, err := ConnectWithRetry(cfg.ConnectionString, cfg.ConnectTimeout, opener)
	if err != nil {
		return nil, err
	}

	sqlDB, err := conn.DB()
	if err != nil {
		return nil, fmt.Errorf("getting sql db handle: %w", err)
	}
	applyPoolSettings(sqlDB, cfg)

	logg.Info(logg.WithField(ctx, "driver", cfg.Driver), "database connection established")
	return conn, nil
}

func applyPoolSettings(sqlDB *sql.DB, cfg config.DataConfig) {
	// sqlite in-memory databases are per connection.
	if cfg.Driver == config.DriverSQLite {
		sqlDB.SetMaxOpenConns(1)
		return
	}
	if cfg.MaxOpenConns > 0 {
		sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	}
	if cfg.MaxIdleConns > 0 {
		sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	}
	if cfg.ConnMaxLifetime > 0 {
		sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	}
}

// Ping verifies the datasource is reachable.
func Ping(ctx context.Context, conn *gorm.DB) error {
	sqlDB, err := conn.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

// Close shuts down the pooled connections.
func Close(conn *gorm.DB) error {
	sqlDB, err := conn.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// HealthChecker adapts a *gorm.DB to Pinger.
type HealthChecker struct {
	DB *gorm.DB
}

func (h HealthChecker) Ping(ctx context.Context) error {
	return Ping(ctx, h.DB)
}

// WithTx executes fn inside a transaction, rolling back on error.
func WithTx(ctx context.Context, conn *gorm.DB, fn func(tx *gorm.DB) error) error {
	return conn.WithContext(ctx).Transaction(fn)
}
