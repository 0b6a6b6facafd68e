package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	_ "github.com/jackc/pgx/v5/stdlib"

	dsslogger "github.com/cea-hpc/phobos-dss/internal/logger"
	"github.com/cea-hpc/phobos-dss/pkg/dss"
	"github.com/cea-hpc/phobos-dss/pkg/dss/store/postgres/migrations"
)

func runMigrations(ctx context.Context, connString string, log *slog.Logger) error {
	db, err := sql.Open("pgx", connString)
	if err != nil {
		return dss.NewTransport(fmt.Errorf("opening migration connection: %w", err))
	}
	defer db.Close()

	if err := db.PingContext(ctx); err != nil {
		return dss.NewTransport(fmt.Errorf("pinging migration connection: %w", err))
	}

	driver, err := postgres.WithInstance(db, &postgres.Config{
		MigrationsTable: "schema_migrations",
		DatabaseName:    "phobos_dss",
	})
	if err != nil {
		return dss.NewTransport(fmt.Errorf("building migration driver: %w", err))
	}

	sourceDriver, err := iofs.New(migrations.FS, ".")
	if err != nil {
		return dss.NewTransport(fmt.Errorf("opening embedded migrations: %w", err))
	}

	m, err := migrate.NewWithInstance("iofs", sourceDriver, "postgres", driver)
	if err != nil {
		return dss.NewTransport(fmt.Errorf("building migrator: %w", err))
	}

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return dss.NewTransport(fmt.Errorf("applying migrations: %w", err))
	}

	version, dirty, err := m.Version()
	if err != nil && !errors.Is(err, migrate.ErrNilVersion) {
		return dss.NewTransport(fmt.Errorf("reading schema version: %w", err))
	}
	log.Info("catalog schema up to date", dsslogger.Operation("store.migrate"), slog.Uint64("schema_version", uint64(version)), slog.Bool("dirty", dirty))

	return nil
}
