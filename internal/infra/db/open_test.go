package db

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConnectionConfig(t *testing.T) {
	cfg := DefaultConnectionConfig()

	assert.Equal(t, 25, cfg.MaxOpenConns)
	assert.Equal(t, 10, cfg.MaxIdleConns)
	assert.Equal(t, 1*time.Hour, cfg.ConnMaxLifetime)
	assert.Equal(t, 30*time.Minute, cfg.ConnMaxIdleTime)
}

func TestParseDriver(t *testing.T) {
	tests := []struct {
		raw     string
		want    Driver
		wantErr bool
	}{
		{raw: "", want: DriverPostgres},
		{raw: "postgres", want: DriverPostgres},
		{raw: "PGX", want: DriverPostgres},
		{raw: "sqlite", want: DriverSQLite},
		{raw: " sqlite3 ", want: DriverSQLite},
		{raw: "mysql", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			got, err := ParseDriver(tt.raw)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrUnsupportedDriver)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

/* ──────────────────────────────── Pool configuration from env ──────────────────────────────── */

func TestGetConnectionConfigFromEnv_Defaults(t *testing.T) {
	t.Setenv("DB_MAX_OPEN_CONNS", "")
	t.Setenv("DB_MAX_IDLE_CONNS", "")
	t.Setenv("DB_CONN_MAX_LIFETIME", "")
	t.Setenv("DB_CONN_MAX_IDLE_TIME", "")

	assert.Equal(t, DefaultConnectionConfig(), getConnectionConfigFromEnv(DriverPostgres))

	sqliteCfg := getConnectionConfigFromEnv(DriverSQLite)
	assert.Equal(t, 1, sqliteCfg.MaxOpenConns)
	assert.Equal(t, 1, sqliteCfg.MaxIdleConns)
}

func TestGetConnectionConfigFromEnv_MaxOpenConns(t *testing.T) {
	tests := []struct {
		name     string
		envValue string
		expected int
	}{
		{name: "valid value", envValue: "50", expected: 50},
		{name: "invalid value - non-numeric", envValue: "invalid", expected: 25},
		{name: "invalid value - zero", envValue: "0", expected: 25},
		{name: "invalid value - negative", envValue: "-10", expected: 25},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("DB_MAX_OPEN_CONNS", tt.envValue)
			cfg := getConnectionConfigFromEnv(DriverPostgres)
			assert.Equal(t, tt.expected, cfg.MaxOpenConns)
		})
	}
}

func TestGetConnectionConfigFromEnv_Durations(t *testing.T) {
	tests := []struct {
		name         string
		lifetime     string
		idle         string
		wantLifetime time.Duration
		wantIdle     time.Duration
	}{
		{"valid", "2h", "15m", 2 * time.Hour, 15 * time.Minute},
		{"unparseable", "soon", "later", time.Hour, 30 * time.Minute},
		{"negative", "-1h", "-5m", time.Hour, 30 * time.Minute},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("DB_CONN_MAX_LIFETIME", tt.lifetime)
			t.Setenv("DB_CONN_MAX_IDLE_TIME", tt.idle)
			cfg := getConnectionConfigFromEnv(DriverPostgres)
			assert.Equal(t, tt.wantLifetime, cfg.ConnMaxLifetime)
			assert.Equal(t, tt.wantIdle, cfg.ConnMaxIdleTime)
		})
	}
}

func TestGetConnectionConfigFromEnv_SQLiteOverride(t *testing.T) {
	t.Setenv("DB_MAX_OPEN_CONNS", "4")
	cfg := getConnectionConfigFromEnv(DriverSQLite)
	assert.Equal(t, 4, cfg.MaxOpenConns)
	assert.Equal(t, 1, cfg.MaxIdleConns)
}

/* ──────────────────────────────── Open ──────────────────────────────── */

func TestOpen_RequiresDatabaseURLForPostgres(t *testing.T) {
	t.Setenv("DB_DRIVER", "postgres")
	t.Setenv("DATABASE_URL", "")

	_, _, err := Open(context.Background())
	assert.EqualError(t, err, "DATABASE_URL not set")
}

func TestOpen_UnsupportedDriver(t *testing.T) {
	t.Setenv("DB_DRIVER", "oracle")
	_, _, err := Open(context.Background())
	assert.ErrorIs(t, err, ErrUnsupportedDriver)
}

func TestOpen_SQLiteFile(t *testing.T) {
	t.Setenv("DB_DRIVER", "sqlite")
	t.Setenv("DATABASE_URL", "file:"+filepath.Join(t.TempDir(), "news.db"))

	db, driver, err := Open(context.Background())
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	assert.Equal(t, DriverSQLite, driver)
	assert.Equal(t, 1, db.Stats().MaxOpenConnections)
}

// TestOpen_Postgres runs only when a real database is available.
func TestOpen_Postgres(t *testing.T) {
	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" || os.Getenv("DB_DRIVER") == "sqlite" {
		t.Skip("DATABASE_URL not set, skipping integration test")
	}

	db, err := OpenWith(context.Background(), DriverPostgres, dsn, DefaultConnectionConfig())
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	assert.NoError(t, db.PingContext(ctx))
}
