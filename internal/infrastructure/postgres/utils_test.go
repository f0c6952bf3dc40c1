package postgres

import (
	"errors"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/inventario-bodegas/internal/domain"
	"github.com/jhoicas/inventario-bodegas/pkg/config"
)

func TestMapWriteError(t *testing.T) {
	assert.ErrorIs(t, mapWriteError("op", &pgconn.PgError{Code: "23505"}), domain.ErrDuplicate)
	assert.ErrorIs(t, mapWriteError("op", &pgconn.PgError{Code: "23503"}), domain.ErrConflict)
	assert.ErrorIs(t, mapWriteError("op", &pgconn.PgError{Code: "23514"}), domain.ErrInvalidInput)

	boom := errors.New("conexión cerrada")
	err := mapWriteError("insert movement", boom)
	assert.ErrorIs(t, err, boom)
	assert.EqualError(t, err, "insert movement: conexión cerrada")
}

func TestRedactedURL(t *testing.T) {
	assert.Equal(t, "postgres://app@db:5432/inv", redactedURL("postgres://app:secreto@db:5432/inv"))
	assert.Equal(t, "host=db", redactedURL("host=db"))
}

func TestPoolConfig(t *testing.T) {
	cfg, err := poolConfig(config.DBConfig{Host: "db", Port: 5432, User: "app", Password: "x", DBName: "inv", SSLMode: "disable"})
	require.NoError(t, err)
	assert.Equal(t, int32(25), cfg.MaxConns)
	assert.Equal(t, "inv", cfg.ConnConfig.Database)
	assert.NotNil(t, cfg.AfterConnect)
}

func TestMigrationNames(t *testing.T) {
	names, err := migrationNames()
	require.NoError(t, err)
	require.NotEmpty(t, names)
	assert.Equal(t, "migrations/001_init.sql", names[0])
}
