package postgres

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/cea-hpc/phobos-dss/pkg/dss"
	"github.com/cea-hpc/phobos-dss/pkg/dss/filter"
)

// LockBackend adapts Store's connection pool to the lock.Backend
// contract, reusing the same pgx pool and error-mapping as the catalog
// tables.
type LockBackend struct {
	store *Store
}

// NewLockBackend returns a lock.Backend backed by s's connection pool.
func NewLockBackend(s *Store) *LockBackend {
	return &LockBackend{store: s}
}

func scanLock(row pgx.Row) (*dss.Lock, error) {
	var l dss.Lock
	var kind string
	var lastLocate *time.Time
	if err := row.Scan(&kind, &l.Identity, &l.Owner.Hostname, &l.Owner.PID, &l.AcquiredAt, &lastLocate); err != nil {
		return nil, err
	}
	l.EntityKind = dss.EntityKind(kind)
	if lastLocate != nil {
		l.LastLocate = *lastLocate
	}
	return &l, nil
}

// TryAcquire inserts a new lock row, relying on the (entity_kind,
// identity) primary key to reject a second acquire as AlreadyExists.
func (b *LockBackend) TryAcquire(ctx context.Context, kind dss.EntityKind, identity string, owner dss.LockOwner) error {
	_, err := b.store.pool.Exec(ctx,
		`INSERT INTO lock (entity_kind, identity, hostname, pid) VALUES ($1, $2, $3, $4)`,
		string(kind), identity, owner.Hostname, owner.PID,
	)
	if err != nil {
		return mapPgError(err, kind, identity)
	}
	return nil
}

// Get returns the current lock row for (kind, identity).
func (b *LockBackend) Get(ctx context.Context, kind dss.EntityKind, identity string) (*dss.Lock, error) {
	row := b.store.pool.QueryRow(ctx,
		`SELECT entity_kind, identity, hostname, pid, acquired_at, last_locate FROM lock WHERE entity_kind = $1 AND identity = $2`,
		string(kind), identity,
	)
	l, err := scanLock(row)
	if err != nil {
		return nil, mapPgError(err, kind, identity)
	}
	return l, nil
}

// Refresh bumps acquired_at (and last_locate, if requested) for a row
// owned by owner. The ownership check and the update happen in the same
// statement, so a concurrent force-release/re-acquire can never land
// between a check and a mutation: the row either matches owner and is
// refreshed, or it doesn't and nothing changes.
func (b *LockBackend) Refresh(ctx context.Context, kind dss.EntityKind, identity string, owner dss.LockOwner, updateLastLocate bool) error {
	sql := `UPDATE lock SET acquired_at = now() WHERE entity_kind = $1 AND identity = $2 AND hostname = $3 AND pid = $4`
	if updateLastLocate {
		sql = `UPDATE lock SET acquired_at = now(), last_locate = now() WHERE entity_kind = $1 AND identity = $2 AND hostname = $3 AND pid = $4`
	}
	tag, err := b.store.pool.Exec(ctx, sql, string(kind), identity, owner.Hostname, owner.PID)
	if err != nil {
		return mapPgError(err, kind, identity)
	}
	if tag.RowsAffected() == 0 {
		return b.classifyNoMatch(ctx, kind, identity)
	}
	return nil
}

// Release deletes a lock row owned by owner, or any owner when force is
// set. As with Refresh, the ownership predicate is folded into the
// DELETE itself instead of a preceding SELECT, closing the TOCTOU
// window between checking ownership and removing the row.
func (b *LockBackend) Release(ctx context.Context, kind dss.EntityKind, identity string, owner dss.LockOwner, force bool) error {
	var tag pgconn.CommandTag
	var err error
	if force {
		tag, err = b.store.pool.Exec(ctx, `DELETE FROM lock WHERE entity_kind = $1 AND identity = $2`, string(kind), identity)
	} else {
		tag, err = b.store.pool.Exec(ctx,
			`DELETE FROM lock WHERE entity_kind = $1 AND identity = $2 AND hostname = $3 AND pid = $4`,
			string(kind), identity, owner.Hostname, owner.PID,
		)
	}
	if err != nil {
		return mapPgError(err, kind, identity)
	}
	if tag.RowsAffected() == 0 {
		if force {
			return dss.NewNotLocked(kind, identity)
		}
		return b.classifyNoMatch(ctx, kind, identity)
	}
	return nil
}

// classifyNoMatch distinguishes NotLocked from PermissionDenied after a
// conditional UPDATE/DELETE affects zero rows: it only runs on that
// failure path, so it never reintroduces the TOCTOU window the caller's
// atomic statement just closed, only explains why that statement matched
// nothing.
func (b *LockBackend) classifyNoMatch(ctx context.Context, kind dss.EntityKind, identity string) error {
	var exists bool
	err := b.store.pool.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM lock WHERE entity_kind = $1 AND identity = $2)`,
		string(kind), identity,
	).Scan(&exists)
	if err != nil {
		return mapPgError(err, kind, identity)
	}
	if !exists {
		return dss.NewNotLocked(kind, identity)
	}
	return dss.NewPermissionDenied(kind, identity, "lock held by a different owner")
}

// List returns lock rows matching pred.
func (b *LockBackend) List(ctx context.Context, pred filter.Predicate) ([]*dss.Lock, error) {
	sql := `SELECT entity_kind, identity, hostname, pid, acquired_at, last_locate FROM lock`
	var args []any
	if pred != nil {
		c, err := filter.Compile(pred, filter.LockFields, 0)
		if err != nil {
			return nil, err
		}
		sql += " WHERE " + c.SQL
		args = c.Args
	}

	rows, err := b.store.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, mapPgError(err, "", "")
	}
	defer rows.Close()

	var out []*dss.Lock
	for rows.Next() {
		l, err := scanLock(rows)
		if err != nil {
			return nil, mapPgError(err, "", "")
		}
		out = append(out, l)
	}
	return out, mapPgError(rows.Err(), "", "")
}

// Delete unconditionally removes a lock row.
func (b *LockBackend) Delete(ctx context.Context, kind dss.EntityKind, identity string) error {
	_, err := b.store.pool.Exec(ctx, `DELETE FROM lock WHERE entity_kind = $1 AND identity = $2`, string(kind), identity)
	if err != nil {
		return mapPgError(err, kind, identity)
	}
	return nil
}
