package pgcontainer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/joho/godotenv"
	"github.com/ory/dockertest/v3"
	"github.com/ory/dockertest/v3/docker"

	"github.com/talx-hub/points-ledger/internal/model"
)

var ErrDockerUnavailable = errors.New("docker daemon is unavailable")

const (
	defaultTag       = "17-alpine"
	testDBName       = "test"
	testUserName     = "test"
	testUserPassword = "test"
	pgPort           = "5432/tcp"
)

type PGContainer struct {
	log      *slog.Logger
	pool     *dockertest.Pool
	resource *dockertest.Resource
	dsn      string
}

func New(log *slog.Logger) *PGContainer {
	return &PGContainer{log: log}
}

func loadImageTag() string {
	if err := godotenv.Load(".env"); err != nil && !errors.Is(err, os.ErrNotExist) {
		return defaultTag
	}
	if tag := os.Getenv("POSTGRES_TAG"); tag != "" {
		return tag
	}
	return defaultTag
}

func (c *PGContainer) RunContainer() error {
	pool, err := dockertest.NewPool("")
	if err != nil {
		return fmt.Errorf("%w: %w", ErrDockerUnavailable, err)
	}
	if err = pool.Client.Ping(); err != nil {
		return fmt.Errorf("%w: %w", ErrDockerUnavailable, err)
	}
	c.pool = pool

	resource, err := pool.RunWithOptions(
		&dockertest.RunOptions{
			Repository: "postgres",
			Tag:        loadImageTag(),
			Env: []string{
				"POSTGRES_USER=" + testUserName,
				"POSTGRES_PASSWORD=" + testUserPassword,
				"POSTGRES_DB=" + testDBName,
			},
			ExposedPorts: []string{pgPort},
		},
		func(config *docker.HostConfig) {
			config.AutoRemove = true
			config.RestartPolicy = docker.RestartPolicy{Name: "no"}
		},
	)
	if err != nil {
		return fmt.Errorf("failed to run postgres container: %w", err)
	}
	c.resource = resource
	c.dsn = fmt.Sprintf(
		"postgres://%s:%s@%s/%s?sslmode=disable",
		testUserName,
		testUserPassword,
		resource.GetHostPort(pgPort),
		testDBName,
	)

	pool.MaxWait = 30 * time.Second
	if err = pool.Retry(func() error {
		conn, err := pgx.Connect(context.Background(), c.dsn)
		if err != nil {
			return fmt.Errorf("failed to connect to the DB: %w", err)
		}
		return conn.Close(context.Background()) //nolint: wrapcheck // retry loop
	}); err != nil {
		return fmt.Errorf("postgres container is not ready: %w", err)
	}
	return nil
}

func (c *PGContainer) GetDSN() string {
	return c.dsn
}

func (c *PGContainer) Close() {
	if c.pool == nil || c.resource == nil {
		return
	}
	if err := c.pool.Purge(c.resource); err != nil {
		c.log.LogAttrs(context.TODO(),
			slog.LevelError,
			"failed to purge the postgres container",
			slog.Any(model.KeyLoggerError, err),
		)
	}
}
