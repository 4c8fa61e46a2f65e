//go:build integration

// Package testinfra starts throwaway PostgreSQL and Redis containers for
// integration tests.
//
// Usage:
//
//	go test -tags integration ./internal/...
package testinfra

import (
	"context"
	"fmt"
	"os/exec"
	"testing"
	"time"

	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

const (
	postgresPort = "5432/tcp"
	redisPort    = "6379/tcp"

	PostgresDatabase = "storefront"
	PostgresUser     = "storefront_user"
	PostgresPassword = "storefront_pass"
)

// SkipIfNoDocker skips the test if Docker is not available.
func SkipIfNoDocker(t *testing.T) {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if exec.CommandContext(ctx, "docker", "info").Run() != nil {
		t.Skip("Skipping test: Docker not available")
	}
}

// Endpoint is a started container and the address it is reachable on.
type Endpoint struct {
	Container testcontainers.Container
	Host      string
	Port      int
}

// StartPostgres starts PostgreSQL and terminates it when the test ends.
func StartPostgres(t *testing.T, ctx context.Context) *Endpoint {
	t.Helper()

	container := start(t, ctx, testcontainers.ContainerRequest{
		Image:        "postgres:16-alpine",
		ExposedPorts: []string{postgresPort},
		Env: map[string]string{
			"POSTGRES_DB":       PostgresDatabase,
			"POSTGRES_USER":     PostgresUser,
			"POSTGRES_PASSWORD": PostgresPassword,
		},
		// The server restarts once after initdb
		WaitingFor: wait.ForLog("database system is ready to accept connections").
			WithOccurrence(2).
			WithStartupTimeout(90 * time.Second),
	})

	mapped, err := container.MappedPort(ctx, postgresPort)
	if err != nil {
		t.Fatalf("get mapped port: %v", err)
	}
	return endpoint(t, ctx, container, mapped.Int())
}

// StartRedis starts Redis and terminates it when the test ends.
func StartRedis(t *testing.T, ctx context.Context) *Endpoint {
	t.Helper()

	container := start(t, ctx, testcontainers.ContainerRequest{
		Image:        "redis:7-alpine",
		ExposedPorts: []string{redisPort},
		WaitingFor:   wait.ForLog("Ready to accept connections").WithStartupTimeout(60 * time.Second),
	})

	mapped, err := container.MappedPort(ctx, redisPort)
	if err != nil {
		t.Fatalf("get mapped port: %v", err)
	}
	return endpoint(t, ctx, container, mapped.Int())
}

func start(t *testing.T, ctx context.Context, req testcontainers.ContainerRequest) testcontainers.Container {
	t.Helper()
	SkipIfNoDocker(t)

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		t.Skipf("Skipping: could not start %s: %v", req.Image, err)
	}
	t.Cleanup(func() {
		if err := container.Terminate(context.Background()); err != nil {
			t.Logf("Warning: failed to terminate container: %v", err)
		}
	})

	return container
}

func endpoint(t *testing.T, ctx context.Context, container testcontainers.Container, port int) *Endpoint {
	t.Helper()

	host, err := container.Host(ctx)
	if err != nil {
		t.Fatalf("get container host: %v", err)
	}

	return &Endpoint{
		Container: container,
		Host:      host,
		Port:      port,
	}
}

// Addr returns host:port.
func (e *Endpoint) Addr() string {
	return fmt.Sprintf("%s:%d", e.Host, e.Port)
}
