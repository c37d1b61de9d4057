package integration

import (
	"context"
	"os"
	"path/filepath"
	"sort"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
	"go.uber.org/zap"

	"github.com/cenety/twofactor-service/internal/infrastructure/config"
	"github.com/cenety/twofactor-service/internal/infrastructure/database"
)

// setupTestContainerWithMigrations creates a new PostgreSQL container for testing and runs all migrations
func setupTestContainerWithMigrations(t *testing.T) (testcontainers.Container, *config.Config) {
	ctx := context.Background()

	req := testcontainers.ContainerRequest{
		Image:        "postgres:15-alpine",
		ExposedPorts: []string{"5432/tcp"},
		Env: map[string]string{
			"POSTGRES_USER":     "test",
			"POSTGRES_PASSWORD": "test",
			"POSTGRES_DB":       "test",
		},
		WaitingFor: wait.ForAll(
			wait.ForLog("database system is ready to accept connections"),
			wait.ForListeningPort("5432/tcp"),
		),
	}

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	require.NoError(t, err)

	host, err := container.Host(ctx)
	require.NoError(t, err)

	port, err := container.MappedPort(ctx, "5432")
	require.NoError(t, err)

	cfg := config.NewConfig()
	cfg.DBHost = host
	cfg.DBPort = port.Int()
	cfg.DBUser = "test"
	cfg.DBPassword = "test"
	cfg.DBName = "test"

	// Setup database and run migrations
	var db *database.Postgres
	for i := 0; i < 10; i++ {
		db, err = database.NewPostgres(ctx, cfg, zap.NewNop())
		if err == nil {
			break
		}
		time.Sleep(1 * time.Second)
	}
	require.NoError(t, err)

	// Read and execute migrations
	migrationsDir := "../../migrations/up"
	entries, err := os.ReadDir(migrationsDir)
	require.NoError(t, err)

	// Sort files to ensure migrations run in order
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Name() < entries[j].Name()
	})

	for _, entry := range entries {
		if !entry.IsDir() && filepath.Ext(entry.Name()) == ".sql" {
			content, err := os.ReadFile(filepath.Join(migrationsDir, entry.Name()))
			require.NoError(t, err)

			err = db.Exec(ctx, string(content))
			require.NoError(t, err)
		}
	}

	// Close the database connection after migrations
	db.Close()

	return container, cfg
}
