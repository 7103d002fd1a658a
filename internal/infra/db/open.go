package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	_ "modernc.org/sqlite"
)

// Driver names a supported database backend.
type Driver string

const (
	DriverPostgres Driver = "postgres"
	DriverSQLite   Driver = "sqlite"
)

// ErrUnsupportedDriver is returned for a DB_DRIVER value other than postgres or sqlite.
var ErrUnsupportedDriver = errors.New("unsupported database driver")

// Valid reports whether d is a supported driver.
func (d Driver) Valid() bool {
	return d == DriverPostgres || d == DriverSQLite
}

// sqlDriverName maps a Driver to the name registered with database/sql.
func (d Driver) sqlDriverName() string {
	if d == DriverPostgres {
		return "pgx"
	}
	return "sqlite"
}

// ParseDriver normalizes a DB_DRIVER value. Empty selects postgres.
func ParseDriver(raw string) (Driver, error) {
	d := Driver(strings.ToLower(strings.TrimSpace(raw)))
	switch d {
	case "", "pgx", "postgresql":
		return DriverPostgres, nil
	case "sqlite3":
		return DriverSQLite, nil
	}
	if !d.Valid() {
		return "", fmt.Errorf("%w: %q", ErrUnsupportedDriver, raw)
	}
	return d, nil
}

// ConnectionConfig holds database connection pool configuration.
type ConnectionConfig struct {
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	ConnMaxIdleTime time.Duration
}

// DefaultConnectionConfig returns the default connection pool configuration.
func DefaultConnectionConfig() ConnectionConfig {
	return ConnectionConfig{
		MaxOpenConns:    25,               // Maximum number of open connections
		MaxIdleConns:    10,               // Maximum number of idle connections
		ConnMaxLifetime: 1 * time.Hour,    // Maximum lifetime of a connection
		ConnMaxIdleTime: 30 * time.Minute, // Maximum idle time of a connection
	}
}

// Open reads DB_DRIVER and DATABASE_URL from the environment, opens the pool
// and verifies it with a ping.
func Open(ctx context.Context) (*sql.DB, Driver, error) {
	driver, err := ParseDriver(os.Getenv("DB_DRIVER"))
	if err != nil {
		return nil, "", err
	}
	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		if driver != DriverSQLite {
			return nil, "", errors.New("DATABASE_URL not set")
		}
		dsn = "file:newshub.db?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"
	}
	db, err := OpenWith(ctx, driver, dsn, getConnectionConfigFromEnv(driver))
	if err != nil {
		return nil, "", err
	}
	return db, driver, nil
}

// OpenWith opens a pool for driver and dsn with the given pool settings.
func OpenWith(ctx context.Context, driver Driver, dsn string, cfg ConnectionConfig) (*sql.DB, error) {
	if !driver.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedDriver, driver)
	}
	db, err := sql.Open(driver.sqlDriverName(), dsn)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", driver, err)
	}

	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	db.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)

	slog.Info("database connection pool configured",
		slog.String("driver", string(driver)),
		slog.Int("max_open_conns", cfg.MaxOpenConns),
		slog.Int("max_idle_conns", cfg.MaxIdleConns),
		slog.Duration("conn_max_lifetime", cfg.ConnMaxLifetime),
		slog.Duration("conn_max_idle_time", cfg.ConnMaxIdleTime))

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	slog.Info("database connection established successfully", slog.String("driver", string(driver)))
	return db, nil
}

// getConnectionConfigFromEnv reads connection pool configuration from environment variables.
// Falls back to default values if not set. SQLite is limited to one writer connection.
func getConnectionConfigFromEnv(driver Driver) ConnectionConfig {
	cfg := DefaultConnectionConfig()
	if driver == DriverSQLite {
		cfg.MaxOpenConns = 1
		cfg.MaxIdleConns = 1
	}

	if maxOpen := os.Getenv("DB_MAX_OPEN_CONNS"); maxOpen != "" {
		if val, err := strconv.Atoi(maxOpen); err == nil && val > 0 {
			cfg.MaxOpenConns = val
		}
	}

	if maxIdle := os.Getenv("DB_MAX_IDLE_CONNS"); maxIdle != "" {
		if val, err := strconv.Atoi(maxIdle); err == nil && val > 0 {
			cfg.MaxIdleConns = val
		}
	}

	if lifetime := os.Getenv("DB_CONN_MAX_LIFETIME"); lifetime != "" {
		if val, err := time.ParseDuration(lifetime); err == nil && val > 0 {
			cfg.ConnMaxLifetime = val
		}
	}

	if idleTime := os.Getenv("DB_CONN_MAX_IDLE_TIME"); idleTime != "" {
		if val, err := time.ParseDuration(idleTime); err == nil && val > 0 {
			cfg.ConnMaxIdleTime = val
		}
	}

	return cfg
}
