package postgres_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/fluxa-api/internal/infrastructure/postgres"
	"github.com/jhoicas/fluxa-api/migrations"
)

func TestMigrateURL(t *testing.T) {
	got, err := postgres.MigrateURL("postgres://fluxa:secreto@db:5432/fluxa?sslmode=disable")
	require.NoError(t, err)
	assert.Equal(t, "pgx5://fluxa:secreto@db:5432/fluxa?sslmode=disable", got)

	got, err = postgres.MigrateURL("postgresql://db/fluxa")
	require.NoError(t, err)
	assert.Equal(t, "pgx5://db/fluxa", got)

	_, err = postgres.MigrateURL("mysql://db/fluxa")
	assert.Error(t, err)
}

func TestMigraciones_EmbebidasEnParesUpDown(t *testing.T) {
	up, err := migrations.FS.ReadFile("000001_create_schema.up.sql")
	require.NoError(t, err)
	assert.Contains(t, string(up), "CREATE TABLE IF NOT EXISTS stock_movements")
	assert.Contains(t, string(up), "ON DELETE CASCADE")

	_, err = migrations.FS.ReadFile("000001_create_schema.down.sql")
	require.NoError(t, err)
}
