package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"

	"github.com/cea-hpc/phobos-dss/pkg/dss"
	"github.com/cea-hpc/phobos-dss/pkg/dss/filter"
)

func scanLog(row pgx.Row) (*dss.Log, error) {
	var l dss.Log
	var family string
	if err := row.Scan(&l.ID, &family, &l.DeviceID, &l.MediumID, &l.UserMD, &l.Errno, &l.CreatedAt); err != nil {
		return nil, err
	}
	l.Family = dss.Family(family)
	return &l, nil
}

// AppendLog records one journal entry. The log table is append-only; no
// update path exists.
func (s *Store) AppendLog(ctx context.Context, entry *dss.Log) error {
	err := s.pool.QueryRow(ctx,
		`INSERT INTO log (family, device_id, medium_id, user_md, errno) VALUES ($1, $2, $3, $4, $5) RETURNING id, created_at`,
		string(entry.Family), entry.DeviceID, entry.MediumID, entry.UserMD, entry.Errno,
	).Scan(&entry.ID, &entry.CreatedAt)
	if err != nil {
		return mapPgError(err, dss.KindLog, "")
	}
	return nil
}

// ListLogs returns journal entries matching pred.
func (s *Store) ListLogs(ctx context.Context, pred filter.Predicate) ([]*dss.Log, error) {
	sql := `SELECT id, family, device_id, medium_id, user_md, errno, created_at FROM log`
	var args []any
	if pred != nil {
		c, err := filter.Compile(pred, filter.LogFields, 0)
		if err != nil {
			return nil, err
		}
		sql += " WHERE " + c.SQL
		args = c.Args
	}
	sql += " ORDER BY id"

	rows, err := s.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, mapPgError(err, dss.KindLog, "")
	}
	defer rows.Close()

	var out []*dss.Log
	for rows.Next() {
		l, err := scanLog(rows)
		if err != nil {
			return nil, mapPgError(err, dss.KindLog, "")
		}
		out = append(out, l)
	}
	return out, mapPgError(rows.Err(), dss.KindLog, "")
}

// DeleteLogs deletes journal entries matching pred and returns the count removed.
func (s *Store) DeleteLogs(ctx context.Context, pred filter.Predicate) (int, error) {
	sql := `DELETE FROM log`
	var args []any
	if pred != nil {
		c, err := filter.Compile(pred, filter.LogFields, 0)
		if err != nil {
			return 0, err
		}
		sql += " WHERE " + c.SQL
		args = c.Args
	} else {
		return 0, dss.NewInvalid("DeleteLogs requires a predicate; use an explicit always-true filter to delete everything")
	}

	tag, err := s.pool.Exec(ctx, sql, args...)
	if err != nil {
		return 0, mapPgError(err, dss.KindLog, "")
	}
	return int(tag.RowsAffected()), nil
}
