package postgres

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/cea-hpc/phobos-dss/pkg/dss"
	"github.com/cea-hpc/phobos-dss/pkg/dss/filter"
	"github.com/cea-hpc/phobos-dss/pkg/dss/store"
)

func scanObject(row pgx.Row) (*dss.Object, error) {
	var o dss.Object
	if err := row.Scan(&o.OID, &o.UUID, &o.Version, &o.UserMD, &o.CreatedAt); err != nil {
		return nil, err
	}
	return &o, nil
}

func scanObjects(rows pgx.Rows) ([]*dss.Object, error) {
	var out []*dss.Object
	for rows.Next() {
		o, err := scanObject(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, o)
	}
	return out, rows.Err()
}

// GetObject returns the live object entry for oid.
func (s *Store) GetObject(ctx context.Context, oid string) (*dss.Object, error) {
	row := s.pool.QueryRow(ctx, `SELECT oid, uuid, version, user_md, created_at FROM object WHERE oid = $1`, oid)
	obj, err := scanObject(row)
	if err != nil {
		return nil, mapPgError(err, dss.KindObject, oid)
	}
	return obj, nil
}

// ListObjects returns live objects matching pred.
func (s *Store) ListObjects(ctx context.Context, pred filter.Predicate) ([]*dss.Object, error) {
	sql := `SELECT oid, uuid, version, user_md, created_at FROM object`
	var args []any
	if pred != nil {
		c, err := filter.Compile(pred, filter.ObjectFields, 0)
		if err != nil {
			return nil, err
		}
		sql += " WHERE " + c.SQL
		args = c.Args
	}
	rows, err := s.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, mapPgError(err, dss.KindObject, "")
	}
	defer rows.Close()
	objs, err := scanObjects(rows)
	if err != nil {
		return nil, mapPgError(err, dss.KindObject, "")
	}
	return objs, nil
}

// InsertObject atomically creates a new live object entry.
func (s *Store) InsertObject(ctx context.Context, obj *dss.Object, mode store.InsertMode) error {
	if obj.UUID == uuid.Nil {
		return dss.NewInvalid("object uuid must be set")
	}
	if mode == store.InsertDefault && obj.CreatedAt.IsZero() {
		obj.CreatedAt = time.Now()
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return mapPgError(err, dss.KindObject, obj.OID)
	}
	defer tx.Rollback(ctx)

	_, err = tx.Exec(ctx,
		`INSERT INTO object (oid, uuid, version, user_md, created_at) VALUES ($1, $2, $3, $4, $5)`,
		obj.OID, obj.UUID, obj.Version, obj.UserMD, obj.CreatedAt,
	)
	if err != nil {
		return mapPgError(err, dss.KindObject, obj.OID)
	}

	if err := tx.Commit(ctx); err != nil {
		return mapPgError(err, dss.KindObject, obj.OID)
	}
	return nil
}

// DeleteObject removes the live object entry for oid.
func (s *Store) DeleteObject(ctx context.Context, oid string) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM object WHERE oid = $1`, oid)
	if err != nil {
		return mapPgError(err, dss.KindObject, oid)
	}
	if tag.RowsAffected() == 0 {
		return dss.NewNotFound(dss.KindObject, oid)
	}
	return nil
}

// MoveObjectToDeprecated moves the (oid, uuid, version) generation from
// the live object table into deprecated_object, in a single transaction
// so the row is never visible in neither or both tables.
func (s *Store) MoveObjectToDeprecated(ctx context.Context, oid string, objUUID uuid.UUID, version int) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return mapPgError(err, dss.KindObject, oid)
	}
	defer tx.Rollback(ctx)

	row := tx.QueryRow(ctx,
		`SELECT oid, uuid, version, user_md, created_at FROM object WHERE oid = $1 AND uuid = $2 AND version = $3 FOR UPDATE`,
		oid, objUUID, version,
	)
	obj, err := scanObject(row)
	if err != nil {
		return mapPgError(err, dss.KindObject, oid)
	}

	if _, err := tx.Exec(ctx,
		`INSERT INTO deprecated_object (oid, uuid, version, user_md, created_at) VALUES ($1, $2, $3, $4, $5)`,
		obj.OID, obj.UUID, obj.Version, obj.UserMD, obj.CreatedAt,
	); err != nil {
		return mapPgError(err, dss.KindDeprecatedObject, oid)
	}

	if _, err := tx.Exec(ctx, `DELETE FROM object WHERE oid = $1 AND uuid = $2 AND version = $3`, oid, objUUID, version); err != nil {
		return mapPgError(err, dss.KindObject, oid)
	}

	if err := tx.Commit(ctx); err != nil {
		return mapPgError(err, dss.KindObject, oid)
	}
	return nil
}

// MoveDeprecatedObjectToLive moves the (oid, uuid, version) generation
// from deprecated_object back into the live object table, the reverse of
// MoveObjectToDeprecated. The insert's oid primary key fails the whole
// transaction with dss.KindAlreadyExists if a live object under oid
// already exists.
func (s *Store) MoveDeprecatedObjectToLive(ctx context.Context, oid string, objUUID uuid.UUID, version int) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return mapPgError(err, dss.KindDeprecatedObject, oid)
	}
	defer tx.Rollback(ctx)

	row := tx.QueryRow(ctx,
		`SELECT oid, uuid, version, user_md, created_at, deprecated_at FROM deprecated_object WHERE oid = $1 AND uuid = $2 AND version = $3 FOR UPDATE`,
		oid, objUUID, version,
	)
	dep, err := scanDeprecatedObject(row)
	if err != nil {
		return mapPgError(err, dss.KindDeprecatedObject, oid)
	}

	if _, err := tx.Exec(ctx,
		`INSERT INTO object (oid, uuid, version, user_md, created_at) VALUES ($1, $2, $3, $4, $5)`,
		dep.OID, dep.UUID, dep.Version, dep.UserMD, dep.CreatedAt,
	); err != nil {
		return mapPgError(err, dss.KindObject, oid)
	}

	if _, err := tx.Exec(ctx, `DELETE FROM deprecated_object WHERE oid = $1 AND uuid = $2 AND version = $3`, oid, objUUID, version); err != nil {
		return mapPgError(err, dss.KindDeprecatedObject, oid)
	}

	if err := tx.Commit(ctx); err != nil {
		return mapPgError(err, dss.KindObject, oid)
	}
	return nil
}

func scanDeprecatedObject(row pgx.Row) (*dss.DeprecatedObject, error) {
	var o dss.DeprecatedObject
	if err := row.Scan(&o.OID, &o.UUID, &o.Version, &o.UserMD, &o.CreatedAt, &o.DeprecatedAt); err != nil {
		return nil, err
	}
	return &o, nil
}

func scanDeprecatedObjects(rows pgx.Rows) ([]*dss.DeprecatedObject, error) {
	var out []*dss.DeprecatedObject
	for rows.Next() {
		o, err := scanDeprecatedObject(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, o)
	}
	return out, rows.Err()
}

// GetDeprecatedObject returns a specific deprecated generation.
func (s *Store) GetDeprecatedObject(ctx context.Context, oid string, objUUID uuid.UUID, version int) (*dss.DeprecatedObject, error) {
	row := s.pool.QueryRow(ctx,
		`SELECT oid, uuid, version, user_md, created_at, deprecated_at FROM deprecated_object WHERE oid = $1 AND uuid = $2 AND version = $3`,
		oid, objUUID, version,
	)
	obj, err := scanDeprecatedObject(row)
	if err != nil {
		return nil, mapPgError(err, dss.KindDeprecatedObject, oid)
	}
	return obj, nil
}

// ListDeprecatedObjects returns deprecated generations matching pred.
func (s *Store) ListDeprecatedObjects(ctx context.Context, pred filter.Predicate) ([]*dss.DeprecatedObject, error) {
	sql := `SELECT oid, uuid, version, user_md, created_at, deprecated_at FROM deprecated_object`
	var args []any
	if pred != nil {
		c, err := filter.Compile(pred, filter.DeprecatedObjectFields, 0)
		if err != nil {
			return nil, err
		}
		sql += " WHERE " + c.SQL
		args = c.Args
	}
	rows, err := s.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, mapPgError(err, dss.KindDeprecatedObject, "")
	}
	defer rows.Close()
	objs, err := scanDeprecatedObjects(rows)
	if err != nil {
		return nil, mapPgError(err, dss.KindDeprecatedObject, "")
	}
	return objs, nil
}

// DeleteDeprecatedObject removes a specific deprecated generation.
func (s *Store) DeleteDeprecatedObject(ctx context.Context, oid string, objUUID uuid.UUID, version int) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM deprecated_object WHERE oid = $1 AND uuid = $2 AND version = $3`, oid, objUUID, version)
	if err != nil {
		return mapPgError(err, dss.KindDeprecatedObject, oid)
	}
	if tag.RowsAffected() == 0 {
		return dss.NewNotFound(dss.KindDeprecatedObject, oid)
	}
	return nil
}
