// Package persistence picks the repository implementation a binary runs on.
package persistence

import (
	"cmp"
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"strings"

	"newshub/internal/infra/adapter/persistence/memory"
	"newshub/internal/infra/adapter/persistence/postgres"
	"newshub/internal/infra/adapter/persistence/sqlite"
	"newshub/internal/infra/db"
	"newshub/internal/repository"
	"newshub/pkg/config"
)

// DriverMemory selects the seeded in-memory store.
const DriverMemory = "memory"

// Stores bundles the three repositories of one backend.
type Stores struct {
	Articles    repository.ArticleRepository
	LiveUpdates repository.LiveUpdateRepository
	Categories  repository.CategoryRepository

	// DB is nil for the in-memory backend.
	DB     *sql.DB
	Driver string
}

func (s *Stores) Close() error {
	if s.DB == nil {
		return nil
	}
	return s.DB.Close()
}

// ForDB wraps an open pool with the adapters for driver.
func ForDB(conn *sql.DB, driver db.Driver) *Stores {
	s := &Stores{DB: conn, Driver: string(driver)}
	if driver == db.DriverSQLite {
		s.Articles = sqlite.NewArticleRepo(conn)
		s.LiveUpdates = sqlite.NewLiveUpdateRepo(conn)
		s.Categories = sqlite.NewCategoryRepo(conn)
		return s
	}
	s.Articles = postgres.NewArticleRepo(conn)
	s.LiveUpdates = postgres.NewLiveUpdateRepo(conn)
	s.Categories = postgres.NewCategoryRepo(conn)
	return s
}

// InMemory returns a store seeded with the built-in newsroom fixture.
func InMemory(opts ...memory.Option) (*Stores, error) {
	return InMemoryFrom(memory.DefaultFixture(), opts...)
}

// InMemoryFrom returns a store seeded with f.
func InMemoryFrom(f *memory.Fixture, opts ...memory.Option) (*Stores, error) {
	store := memory.New(opts...)
	if err := store.Seed(f); err != nil {
		return nil, fmt.Errorf("seed memory store: %w", err)
	}
	return &Stores{
		Articles:    store.Articles(),
		LiveUpdates: store.LiveUpdates(),
		Categories:  store.Categories(),
		Driver:      DriverMemory,
	}, nil
}

// Open reads DB_DRIVER. memory, or no driver and no DATABASE_URL, gives the
// in-memory store seeded from MEMORY_SEED_PATH or the bundled newsroom;
// otherwise the database is opened and, when migrate
// is set, brought up to date.
func Open(ctx context.Context, migrate bool, logger *slog.Logger) (*Stores, error) {
	if logger == nil {
		logger = slog.Default()
	}
	driver := strings.ToLower(strings.TrimSpace(config.GetEnvString("DB_DRIVER", "")))
	if driver == DriverMemory || (driver == "" && config.GetEnvString("DATABASE_URL", "") == "") {
		var opts []memory.Option
		d := config.GetEnvDuration("MEMORY_STORE_DELAY", 0)
		if d > 0 {
			opts = append(opts, memory.WithDelay(d))
		}
		fixture := memory.DefaultFixture()
		seed := config.GetEnvString("MEMORY_SEED_PATH", "")
		if seed != "" {
			f, err := memory.LoadFixture(seed)
			if err != nil {
				return nil, err
			}
			fixture = f
		}
		logger.Info("using in-memory store",
			slog.String("seed", cmp.Or(seed, "bundled")),
			slog.Duration("delay", d))
		return InMemoryFrom(fixture, opts...)
	}

	conn, d, err := db.Open(ctx)
	if err != nil {
		return nil, err
	}
	if migrate {
		status, err := db.MigrateUp(conn, d)
		if err != nil {
			_ = conn.Close()
			return nil, fmt.Errorf("migrate: %w", err)
		}
		logger.Info("database migrated",
			slog.String("driver", string(d)),
			slog.Uint64("version", uint64(status.Version)))
	}
	return ForDB(conn, d), nil
}
