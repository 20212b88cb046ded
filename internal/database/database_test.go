package database

import (
	"context"
	"testing"
	"time"

	"todoTracker/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMigrateURL(t *testing.T) {
	assert.Equal(t, "pgx5://u:p@h:5432/db", migrateURL("postgres://u:p@h:5432/db"))
	assert.Equal(t, "pgx5://u:p@h/db", migrateURL("postgresql://u:p@h/db"))
	assert.Equal(t, "pgx5://h/db", migrateURL("pgx5://h/db"))
}

func TestOpenSQLite(t *testing.T) {
	db, err := Open(context.Background(), &config.Config{
		Database:   config.DatabaseConfig{SlowQuery: time.Second},
		Repository: config.RepositoryConfig{Type: config.RepositorySQLite, SQLitePath: ":memory:"},
	})
	require.NoError(t, err)
	defer db.Close()

	assert.Equal(t, config.RepositorySQLite, db.Kind())
	assert.NoError(t, db.HealthCheck(context.Background()))
	assert.True(t, db.Gorm.Migrator().HasTable("tasks"))
}

func TestMigrationsEmbedded(t *testing.T) {
	entries, err := migrationsFS.ReadDir("migrations")
	require.NoError(t, err)
	assert.Len(t, entries, 2)
}
