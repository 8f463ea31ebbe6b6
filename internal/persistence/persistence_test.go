package persistence

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/spec-kit/blog-service/internal/config"
)

func TestMigrationFiles(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"002_blogs.sql", "001_users.sql", "README.md"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("SELECT 1;"), 0o600))
	}
	require.NoError(t, os.Mkdir(filepath.Join(dir, "003_dir.sql"), 0o700))

	files, err := MigrationFiles(dir)
	require.NoError(t, err)
	assert.Equal(t, []string{"001_users.sql", "002_blogs.sql"}, files)

	_, err = MigrationFiles(filepath.Join(dir, "missing"))
	assert.Error(t, err)
}

func TestRepositoryMigrationsPresent(t *testing.T) {
	files, err := MigrationFiles(filepath.Join("..", "..", "migrations"))
	require.NoError(t, err)
	assert.Contains(t, files, "001_init.sql")
}

func TestUnconfiguredBackends(t *testing.T) {
	ctx := context.Background()
	logger := zap.NewNop()

	pg, err := NewPostgres(ctx, config.PostgresConfig{}, logger)
	require.NoError(t, err)
	assert.False(t, pg.Configured())
	assert.Nil(t, pg.PoolHandle())
	assert.Error(t, pg.Ping(ctx))
	assert.NoError(t, RunMigrations(ctx, pg.PoolHandle(), "migrations", logger))
	pg.Close()

	r := NewRedis(ctx, config.RedisConfig{}, logger)
	assert.False(t, r.Configured())
	assert.Nil(t, r.Handle())
	assert.Error(t, r.Ping(ctx))
	r.Close()
}
