//go:build e2e

package e2e

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/docker/go-connections/nat"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

const (
	pgUser     = "test"
	pgPassword = "testpass"
)

// Endpoint is a container port as seen from the test process.
type Endpoint struct {
	Host string
	Port nat.Port
}

func (e Endpoint) Addr() string { return e.Host + ":" + e.Port.Port() }

// sharedContainer starts once per test binary and is reused by every suite.
// The testcontainers reaper removes it when the binary exits.
type sharedContainer struct {
	name    string
	port    nat.Port
	timeout time.Duration
	request func() testcontainers.ContainerRequest

	once      sync.Once
	container testcontainers.Container
	err       error
}

func (c *sharedContainer) endpoint(t *testing.T) Endpoint {
	t.Helper()
	c.once.Do(func() {
		ctx, cancel := context.WithTimeout(context.Background(), c.timeout)
		defer cancel()

		c.container, c.err = testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
			ContainerRequest: c.request(),
			Started:          true,
		})
		if c.err == nil {
			slog.Info("container started", "container", c.name)
		}
	})
	require.NoError(t, c.err, "failed to start %s container", c.name)

	ctx := context.Background()
	host, err := c.container.Host(ctx)
	require.NoError(t, err, "%s host", c.name)
	mapped, err := c.container.MappedPort(ctx, c.port)
	require.NoError(t, err, "%s port", c.name)
	return Endpoint{Host: host, Port: mapped}
}

func pgDSN(host string, port nat.Port, database string) string {
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable", pgUser, pgPassword, host, port.Port(), database)
}

var postgresContainer = &sharedContainer{
	name:    "postgres",
	port:    "5432/tcp",
	timeout: 3 * time.Minute,
	request: func() testcontainers.ContainerRequest {
		return testcontainers.ContainerRequest{
			Image:        "postgres:17",
			ExposedPorts: []string{"5432/tcp"},
			Env: map[string]string{
				"POSTGRES_USER":     pgUser,
				"POSTGRES_PASSWORD": pgPassword,
				"POSTGRES_DB":       "postgres",
			},
			Tmpfs: map[string]string{"/var/lib/postgresql/data": "rw,size=512m"},
			Cmd: []string{
				"postgres",
				"-c", "fsync=off",
				"-c", "synchronous_commit=off",
				"-c", "full_page_writes=off",
				"-c", "max_connections=200",
			},
			WaitingFor: wait.ForSQL("5432/tcp", "pgx", func(host string, port nat.Port) string {
				return pgDSN(host, port, "postgres")
			}).WithStartupTimeout(time.Minute),
			Labels: map[string]string{"purpose": "washday-e2e"},
		}
	},
}

var redisContainer = &sharedContainer{
	name:    "redis",
	port:    "6379/tcp",
	timeout: 2 * time.Minute,
	request: func() testcontainers.ContainerRequest {
		return testcontainers.ContainerRequest{
			Image:        "redis:7-alpine",
			ExposedPorts: []string{"6379/tcp"},
			Cmd:          []string{"redis-server", "--save", "", "--appendonly", "no"},
			WaitingFor:   wait.ForLog("Ready to accept connections").WithStartupTimeout(time.Minute),
			Labels:       map[string]string{"purpose": "washday-e2e"},
		}
	},
}
