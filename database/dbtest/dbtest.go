//go:build integration

// Package dbtest starts throwaway Postgres and Redis containers for store tests.
package dbtest

import (
	"context"
	"database/sql"
	"fmt"
	"path/filepath"
	"runtime"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
	"go.uber.org/zap"

	"fundingnl/backend/database"
	"fundingnl/backend/models"
)

const (
	postgresImage = "postgres:16-alpine"
	redisImage    = "redis:7-alpine"
)

// TestDB is a migrated database shared by every test in the package.
type TestDB struct {
	DB  *sql.DB
	URL string
}

var (
	sharedDB     *TestDB
	sharedDBOnce sync.Once
	sharedDBErr  error

	sharedRedis     *redis.Client
	sharedRedisOnce sync.Once
	sharedRedisErr  error
)

func migrationsPath() string {
	_, file, _, _ := runtime.Caller(0)
	return filepath.Join(filepath.Dir(file), "..", "..", "migrations")
}

// Postgres returns the shared database with all tables emptied.
func Postgres(t *testing.T) *TestDB {
	t.Helper()

	if testing.Short() {
		t.Skip("Skipping integration test in short mode (requires Docker)")
	}

	sharedDBOnce.Do(func() {
		sharedDB, sharedDBErr = startPostgres()
	})
	if sharedDBErr != nil {
		t.Fatalf("Failed to set up test database: %v", sharedDBErr)
	}

	truncate(t, sharedDB.DB)
	return sharedDB
}

func startPostgres() (*TestDB, error) {
	ctx := context.Background()

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        postgresImage,
			ExposedPorts: []string{"5432/tcp"},
			Env: map[string]string{
				"POSTGRES_DB":       "fundingnl_test",
				"POSTGRES_USER":     "fundingnl",
				"POSTGRES_PASSWORD": "test_password",
			},
			// The entrypoint restarts the server once after init.
			WaitingFor: wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60 * time.Second),
		},
		Started: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to start postgres container: %w", err)
	}

	host, err := container.Host(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get container host: %w", err)
	}
	port, err := container.MappedPort(ctx, "5432")
	if err != nil {
		return nil, fmt.Errorf("failed to get container port: %w", err)
	}

	url := fmt.Sprintf("postgres://fundingnl:test_password@%s:%s/fundingnl_test?sslmode=disable", host, port.Port())
	db, err := database.Open(ctx, url)
	if err != nil {
		return nil, err
	}
	if err := database.RunMigrations(db, migrationsPath(), zap.NewNop()); err != nil {
		return nil, err
	}
	return &TestDB{DB: db, URL: url}, nil
}

func truncate(t *testing.T, db *sql.DB) {
	t.Helper()
	_, err := db.Exec(`TRUNCATE users, funding_opportunities RESTART IDENTITY CASCADE`)
	if err != nil {
		t.Fatalf("Failed to truncate tables: %v", err)
	}
}

// Redis returns the shared client with an empty keyspace.
func Redis(t *testing.T) *redis.Client {
	t.Helper()

	if testing.Short() {
		t.Skip("Skipping integration test in short mode (requires Docker)")
	}

	sharedRedisOnce.Do(func() {
		sharedRedis, sharedRedisErr = startRedis()
	})
	if sharedRedisErr != nil {
		t.Fatalf("Failed to set up redis: %v", sharedRedisErr)
	}

	if err := sharedRedis.FlushDB(context.Background()).Err(); err != nil {
		t.Fatalf("Failed to flush redis: %v", err)
	}
	return sharedRedis
}

func startRedis() (*redis.Client, error) {
	ctx := context.Background()

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        redisImage,
			ExposedPorts: []string{"6379/tcp"},
			WaitingFor:   wait.ForLog("Ready to accept connections").WithStartupTimeout(30 * time.Second),
		},
		Started: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to start redis container: %w", err)
	}

	endpoint, err := container.Endpoint(ctx, "")
	if err != nil {
		return nil, fmt.Errorf("failed to get redis endpoint: %w", err)
	}
	return database.NewRedisClient(ctx, endpoint, "", 0)
}

// CreateProfile inserts a user with a profile of the given role and returns its id.
func CreateProfile(t *testing.T, db *sql.DB, name string, role models.UserType) uuid.UUID {
	t.Helper()

	var id uuid.UUID
	err := db.QueryRow(`INSERT INTO users (email, password_hash) VALUES ($1, 'x') RETURNING id`,
		uuid.NewString()+"@example.nl").Scan(&id)
	if err != nil {
		t.Fatalf("Failed to insert user: %v", err)
	}
	if _, err := db.Exec(`INSERT INTO profiles (id, full_name, user_type) VALUES ($1, $2, $3)`, id, name, role); err != nil {
		t.Fatalf("Failed to insert profile: %v", err)
	}
	return id
}
