package persistence

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestMigrationNamesEmbedded(t *testing.T) {
	names, err := MigrationNames()
	require.NoError(t, err)
	require.NotEmpty(t, names)
	assert.Equal(t, "0001_init.sql", names[0])

	content, err := migrationFiles.ReadFile("migrations/0001_init.sql")
	require.NoError(t, err)
	assert.Contains(t, string(content), "ON DELETE SET NULL")
	assert.Contains(t, string(content), "'new', 'contacted', 'converted', 'rejected'")
}

func TestRunMigrationsWithoutPool(t *testing.T) {
	assert.NoError(t, RunMigrations(context.Background(), nil, zap.NewNop()))
}

func TestNilHandlesAreSafe(t *testing.T) {
	var pg *Postgres
	assert.Nil(t, pg.PoolHandle())
	assert.Error(t, pg.Ping(context.Background()))
	pg.Close()

	var r *Redis
	assert.Nil(t, r.ClientHandle())
	assert.Error(t, r.Ping(context.Background()))
	r.Close()
}
