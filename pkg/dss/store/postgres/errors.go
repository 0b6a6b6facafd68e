package postgres

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/cea-hpc/phobos-dss/pkg/dss"
)

// mapPgError translates a pgx/pgconn error into the dss.Kind taxonomy,
// the way the reference metadata store's own mapPgError does for its
// StoreError/ErrorCode pairing.
func mapPgError(err error, entity dss.EntityKind, identity string) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return dss.NewNotFound(entity, identity)
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return mapPgErrorCode(pgErr, entity, identity)
	}

	return dss.Wrap(dss.NewTransport(err), err)
}

func mapPgErrorCode(pgErr *pgconn.PgError, entity dss.EntityKind, identity string) error {
	switch pgErr.Code {
	case "23505": // unique_violation
		return dss.Wrap(dss.NewAlreadyExists(entity, identity), pgErr)
	case "23503": // foreign_key_violation
		return dss.Wrap(dss.NewNotFound(entity, identity), pgErr)
	case "23514", "23502": // check_violation, not_null_violation
		return dss.Wrap(dss.NewInvalid(fmt.Sprintf("constraint violation: %s", pgErr.Message)), pgErr)
	case "40001", "40P01": // serialization_failure, deadlock_detected
		return dss.Wrap(dss.NewConflict(entity, identity, "concurrent update conflict, retry"), pgErr)
	case "53100", "53200", "53300": // disk full, out of memory, too many connections
		return dss.Wrap(dss.NewTransport(pgErr), pgErr)
	case "57014": // query_canceled
		return dss.Wrap(dss.NewTransport(pgErr), pgErr)
	case "08000", "08003", "08006": // connection_exception family
		return dss.Wrap(dss.NewTransport(pgErr), pgErr)
	default:
		return dss.Wrap(dss.NewTransport(pgErr), pgErr)
	}
}
