// Package postgres implements the catalog entity store (C2) and log store
// (C6) against PostgreSQL, grounded on the connection-pool, transaction
// and row-scanning idioms of the catalog's reference metadata store.
package postgres

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/cea-hpc/phobos-dss/internal/logger"
	"github.com/cea-hpc/phobos-dss/pkg/dss"
)

// Config configures the PostgreSQL-backed Store. ConnString is the single
// opaque connection descriptor named dss.connect_string in the external
// configuration surface; the pool tuning knobs below default the way the
// reference metadata store's own config does.
type Config struct {
	ConnString        string        `mapstructure:"connect_string" validate:"required"`
	MaxConns          int32         `mapstructure:"max_conns"`
	MinConns          int32         `mapstructure:"min_conns"`
	MaxConnLifetime   time.Duration `mapstructure:"max_conn_lifetime"`
	MaxConnIdleTime   time.Duration `mapstructure:"max_conn_idle_time"`
	HealthCheckPeriod time.Duration `mapstructure:"health_check_period"`
	ConnectTimeout    time.Duration `mapstructure:"connect_timeout"`
	AutoMigrate       bool          `mapstructure:"auto_migrate"`
}

// ApplyDefaults fills unset pool-tuning fields with conservative defaults.
func (c *Config) ApplyDefaults() {
	if c.MaxConns == 0 {
		c.MaxConns = 10
	}
	if c.MinConns == 0 {
		c.MinConns = 2
	}
	if c.MaxConnLifetime == 0 {
		c.MaxConnLifetime = time.Hour
	}
	if c.MaxConnIdleTime == 0 {
		c.MaxConnIdleTime = 30 * time.Minute
	}
	if c.HealthCheckPeriod == 0 {
		c.HealthCheckPeriod = time.Minute
	}
	if c.ConnectTimeout == 0 {
		c.ConnectTimeout = 5 * time.Second
	}
}

// Store is the PostgreSQL-backed implementation of store.Store.
type Store struct {
	pool   *pgxpool.Pool
	logger *slog.Logger
}

// New opens a connection pool against cfg.ConnString and, if
// cfg.AutoMigrate is set, brings the schema up to date before returning.
func New(ctx context.Context, cfg Config) (*Store, error) {
	cfg.ApplyDefaults()

	poolCfg, err := pgxpool.ParseConfig(cfg.ConnString)
	if err != nil {
		return nil, dss.Wrap(dss.NewInvalid("invalid connect string"), err)
	}
	poolCfg.MaxConns = cfg.MaxConns
	poolCfg.MinConns = cfg.MinConns
	poolCfg.MaxConnLifetime = cfg.MaxConnLifetime
	poolCfg.MaxConnIdleTime = cfg.MaxConnIdleTime
	poolCfg.HealthCheckPeriod = cfg.HealthCheckPeriod

	connectCtx, cancel := context.WithTimeout(ctx, cfg.ConnectTimeout)
	defer cancel()

	pool, err := pgxpool.NewWithConfig(connectCtx, poolCfg)
	if err != nil {
		return nil, dss.NewTransport(fmt.Errorf("opening catalog pool: %w", err))
	}

	if err := pool.Ping(connectCtx); err != nil {
		pool.Close()
		return nil, dss.NewTransport(fmt.Errorf("pinging catalog: %w", err))
	}

	s := &Store{pool: pool, logger: logger.With(slog.String("component", "store/postgres"))}

	if cfg.AutoMigrate {
		if err := runMigrations(ctx, cfg.ConnString, s.logger); err != nil {
			pool.Close()
			return nil, err
		}
	}

	return s, nil
}

// Healthcheck verifies the PostgreSQL connection is usable.
func (s *Store) Healthcheck(ctx context.Context) error {
	if err := s.pool.Ping(ctx); err != nil {
		return dss.NewTransport(fmt.Errorf("catalog healthcheck: %w", err))
	}
	return nil
}

// Close releases the connection pool.
func (s *Store) Close() {
	s.pool.Close()
}
