package persistence_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"newshub/internal/infra/adapter/persistence"
	"newshub/internal/infra/adapter/persistence/postgres"
	"newshub/internal/infra/adapter/persistence/sqlite"
	"newshub/internal/infra/db"
	"newshub/internal/repository"
)

func TestInMemory_Seeded(t *testing.T) {
	s, err := persistence.InMemory()
	require.NoError(t, err)
	assert.Equal(t, persistence.DriverMemory, s.Driver)
	assert.Nil(t, s.DB)
	assert.NoError(t, s.Close())

	a, err := s.Articles.Get(context.Background(), 2)
	require.NoError(t, err)
	require.NotNil(t, a)
	assert.True(t, a.IsLive)

	articleID := int64(2)
	updates, err := s.LiveUpdates.List(context.Background(), repository.LiveUpdateFilter{ArticleID: &articleID})
	require.NoError(t, err)
	assert.Len(t, updates, 3)
}

func TestOpen_DefaultsToMemory(t *testing.T) {
	t.Setenv("DB_DRIVER", "")
	t.Setenv("DATABASE_URL", "")

	s, err := persistence.Open(context.Background(), true, nil)
	require.NoError(t, err)
	assert.Equal(t, persistence.DriverMemory, s.Driver)
}

func TestOpen_MemorySeedPath(t *testing.T) {
	t.Setenv("DB_DRIVER", "memory")
	path := filepath.Join(t.TempDir(), "seed.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
articles:
  - id: 42
    title: Harbour reopens
    content: Ships are moving again.
    published_at: 2025-03-12T08:00:00Z
`), 0o600))
	t.Setenv("MEMORY_SEED_PATH", path)

	s, err := persistence.Open(context.Background(), false, nil)
	require.NoError(t, err)
	a, err := s.Articles.Get(context.Background(), 42)
	require.NoError(t, err)
	require.NotNil(t, a)
	assert.Equal(t, "Harbour reopens", a.Title)

	n, err := s.Articles.Count(context.Background(), repository.ArticleFilter{IncludeDrafts: true})
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	t.Setenv("MEMORY_SEED_PATH", filepath.Join(t.TempDir(), "missing.yaml"))
	_, err = persistence.Open(context.Background(), false, nil)
	assert.Error(t, err)
}

func TestForDB_PicksAdapters(t *testing.T) {
	conn, _, err := sqlmock.New()
	require.NoError(t, err)
	defer conn.Close()

	pg := persistence.ForDB(conn, db.DriverPostgres)
	assert.IsType(t, postgres.NewArticleRepo(conn), pg.Articles)
	assert.Equal(t, "postgres", pg.Driver)

	lite := persistence.ForDB(conn, db.DriverSQLite)
	assert.IsType(t, sqlite.NewArticleRepo(conn), lite.Articles)
	assert.IsType(t, sqlite.NewLiveUpdateRepo(conn), lite.LiveUpdates)
}
