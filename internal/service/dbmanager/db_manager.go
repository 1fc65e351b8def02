package dbmanager

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/pgx/v5" // registers pgx5:// driver
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/talx-hub/points-ledger/internal/model"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

type DBManager struct {
	log  *slog.Logger
	pool *pgxpool.Pool
	err  error
	dsn  string
}

func New(dsn string, log *slog.Logger) *DBManager {
	return &DBManager{
		log: log,
		dsn: dsn,
	}
}

func (m *DBManager) Connect(ctx context.Context) *DBManager {
	if m.err != nil {
		return m
	}

	cfg, err := pgxpool.ParseConfig(m.dsn)
	if err != nil {
		m.fail(ctx, "failed to parse DSN", err)
		return m
	}
	cfg.MinConns = 1
	cfg.MaxConns = 10
	cfg.ConnConfig.Tracer = &queryTracer{m.log}

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		m.fail(ctx, "failed to init pgxpool", err)
		return m
	}

	m.pool = pool
	return m
}

func (m *DBManager) ApplyMigrations(ctx context.Context) *DBManager {
	if m.err != nil {
		return m
	}

	src, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		m.fail(ctx, "failed to open embedded migrations", err)
		return m
	}
	mg, err := migrate.NewWithSourceInstance("iofs", src, migrationURL(m.dsn))
	if err != nil {
		m.fail(ctx, "failed to init migrations", err)
		return m
	}
	defer func() {
		srcErr, dbErr := mg.Close()
		if err := errors.Join(srcErr, dbErr); err != nil {
			m.log.LogAttrs(ctx,
				slog.LevelError,
				"failed to close migrator",
				slog.Any(model.KeyLoggerError, err),
			)
		}
	}()

	if err = mg.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		m.fail(ctx, "failed to apply migrations", err)
		return m
	}

	m.log.LogAttrs(ctx, slog.LevelInfo, "migrations applied")
	return m
}

func (m *DBManager) Ping(ctx context.Context) *DBManager {
	if m.err != nil {
		return m
	}
	if m.pool == nil {
		m.err = errors.New("failed to ping the DB: not connected")
		return m
	}
	if err := m.pool.Ping(ctx); err != nil {
		m.fail(ctx, "failed to ping the DB", err)
	}
	return m
}

// Alive checks the connection without touching the builder error.
func (m *DBManager) Alive(ctx context.Context) error {
	if m.pool == nil {
		return errors.New("not connected")
	}
	if err := m.pool.Ping(ctx); err != nil {
		return fmt.Errorf("failed to ping the DB: %w", err)
	}
	return nil
}

func (m *DBManager) Error() error {
	return m.err
}

func (m *DBManager) GetPool(_ context.Context) (*pgxpool.Pool, error) {
	if m.err != nil {
		return nil, m.err
	}
	if m.pool == nil {
		return nil, errors.New("connection pool is not initialised")
	}
	return m.pool, nil
}

func (m *DBManager) Close() {
	if m.pool == nil {
		return
	}

	m.pool.Close()
	m.log.LogAttrs(context.TODO(),
		slog.LevelInfo,
		"connection to DB closed",
	)
}

func (m *DBManager) fail(ctx context.Context, msg string, err error) {
	m.log.LogAttrs(ctx,
		slog.LevelError,
		msg,
		slog.Any(model.KeyLoggerError, err),
	)
	m.err = fmt.Errorf("%s: %w", msg, err)
}

func migrationURL(dsn string) string {
	for _, prefix := range []string{"postgresql://", "postgres://"} {
		if strings.HasPrefix(dsn, prefix) {
			return "pgx5://" + strings.TrimPrefix(dsn, prefix)
		}
	}
	return dsn
}
