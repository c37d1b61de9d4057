package database

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"

	"github.com/cenety/twofactor-service/internal/infrastructure/config"
)

func TestNewPostgres_UnreachableHost(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	cfg := config.NewConfig()
	cfg.DBHost = "invalid-host"
	cfg.DBUser = "postgres"
	cfg.DBPassword = "postgres"
	cfg.DBName = "twofactor_test"

	db, err := NewPostgres(ctx, cfg, zap.NewNop())
	assert.Error(t, err)
	assert.Nil(t, db)
}
