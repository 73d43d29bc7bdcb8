package persistence

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"

	"github.com/spec-kit/enquiry-console/internal/config"
)

func TestNewPostgresRequiresDSN(t *testing.T) {
	_, err := NewPostgres(context.Background(), config.PostgresConfig{}, zap.NewNop())
	assert.ErrorIs(t, err, ErrNoDSN)

	_, err = NewPostgres(context.Background(), config.PostgresConfig{DSN: "::not a dsn::"}, zap.NewNop())
	assert.Error(t, err)
}

func TestNilHandlesFailPing(t *testing.T) {
	var pg *Postgres
	assert.Error(t, pg.Ping(context.Background()))
	assert.Nil(t, pg.PoolHandle())

	var rd *Redis
	assert.Error(t, rd.Ping(context.Background()))
}

func TestRunMigrationsWithoutPool(t *testing.T) {
	assert.Error(t, RunMigrations(context.Background(), nil, "", zap.NewNop()))
}
