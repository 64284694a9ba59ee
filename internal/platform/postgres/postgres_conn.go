package postgres

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/Guizzs26/gymkey/internal/platform/config"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Postgres struct {
	Pool *pgxpool.Pool
}

// NewPostgresConnection opens and pings a pgx pool tuned from cfg.Postgres
func NewPostgresConnection(ctx context.Context, cfg config.Config) (*Postgres, error) {
	parsedCfg, err := pgxpool.ParseConfig(cfg.PostgresDSN())
	if err != nil {
		return nil, fmt.Errorf("failed to parse pgx config: %w", err)
	}

	parsedCfg.MaxConns = cfg.Postgres.MaxConns
	parsedCfg.MinConns = cfg.Postgres.MinConns
	parsedCfg.MaxConnLifetime = cfg.Postgres.MaxConnLifetime
	parsedCfg.MaxConnIdleTime = cfg.Postgres.MaxConnIdleTime
	parsedCfg.HealthCheckPeriod = cfg.Postgres.HealthCheckPeriod
	parsedCfg.ConnConfig.ConnectTimeout = cfg.Postgres.ConnectTimeout

	pool, err := pgxpool.NewWithConfig(ctx, parsedCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create postgres connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping postgres: %w", err)
	}

	slog.Info("postgres connection pool established",
		slog.String("host", parsedCfg.ConnConfig.Host),
		slog.String("database", parsedCfg.ConnConfig.Database),
		slog.Int("max_conns", int(parsedCfg.MaxConns)),
	)
	return &Postgres{Pool: pool}, nil
}

func (p *Postgres) Close() {
	if p.Pool != nil {
		p.Pool.Close()
		slog.Info("postgres connection pool closed")
	}
}
