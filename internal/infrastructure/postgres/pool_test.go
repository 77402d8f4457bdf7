package postgres

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Merenda-api/pkg/config"
)

func TestPoolConfigFrom_TimeoutsYConexiones(t *testing.T) {
	cfg := config.DBConfig{
		Host: "db", Port: 5432, User: "app", Password: "secret", DBName: "merenda", SSLMode: "disable",
		MaxConns: 8, MinConns: 3, StatementTimeoutMs: 30000, LockTimeoutMs: 5000,
	}
	pc, err := poolConfigFrom(cfg)
	require.NoError(t, err)

	assert.Equal(t, int32(8), pc.MaxConns)
	assert.Equal(t, int32(3), pc.MinConns)
	assert.Equal(t, "30000", pc.ConnConfig.RuntimeParams["statement_timeout"])
	assert.Equal(t, "5000", pc.ConnConfig.RuntimeParams["lock_timeout"])
	assert.Equal(t, "db", pc.ConnConfig.Host)
	assert.NotNil(t, pc.AfterConnect)
}

func TestPoolConfigFrom_Defaults(t *testing.T) {
	pc, err := poolConfigFrom(config.DBConfig{DatabaseURL: "postgres://app@localhost:5432/merenda?sslmode=disable", MaxConns: 1})
	require.NoError(t, err)

	assert.Equal(t, int32(1), pc.MaxConns)
	assert.Equal(t, int32(1), pc.MinConns)
	_, ok := pc.ConnConfig.RuntimeParams["lock_timeout"]
	assert.False(t, ok)
}

func TestPoolConfigFrom_DSNInvalido(t *testing.T) {
	_, err := poolConfigFrom(config.DBConfig{DatabaseURL: "postgres://%zz"})
	assert.Error(t, err)
}
