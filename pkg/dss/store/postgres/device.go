package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"

	"github.com/cea-hpc/phobos-dss/pkg/dss"
	"github.com/cea-hpc/phobos-dss/pkg/dss/filter"
	"github.com/cea-hpc/phobos-dss/pkg/dss/store"
)

func scanDevice(row pgx.Row) (*dss.Device, error) {
	var d dss.Device
	var family, admStatus string
	if err := row.Scan(&family, &d.ID.Name, &d.ID.Library, &d.Host, &admStatus, &d.Model); err != nil {
		return nil, err
	}
	d.ID.Family = dss.Family(family)
	d.AdmStatus = dss.AdminStatus(admStatus)
	return &d, nil
}

// GetDevice returns a device by its identity.
func (s *Store) GetDevice(ctx context.Context, id dss.PhoID) (*dss.Device, error) {
	row := s.pool.QueryRow(ctx,
		`SELECT family, name, library, host, adm_status, model FROM device WHERE family = $1 AND name = $2 AND library = $3`,
		string(id.Family), id.Name, id.Library,
	)
	dev, err := scanDevice(row)
	if err != nil {
		return nil, mapPgError(err, dss.KindDevice, id.String())
	}
	return dev, nil
}

// ListDevices returns devices matching pred.
func (s *Store) ListDevices(ctx context.Context, pred filter.Predicate) ([]*dss.Device, error) {
	sql := `SELECT family, name, library, host, adm_status, model FROM device`
	var args []any
	if pred != nil {
		c, err := filter.Compile(pred, filter.DeviceFields, 0)
		if err != nil {
			return nil, err
		}
		sql += " WHERE " + c.SQL
		args = c.Args
	}
	rows, err := s.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, mapPgError(err, dss.KindDevice, "")
	}
	defer rows.Close()

	var out []*dss.Device
	for rows.Next() {
		d, err := scanDevice(rows)
		if err != nil {
			return nil, mapPgError(err, dss.KindDevice, "")
		}
		out = append(out, d)
	}
	return out, mapPgError(rows.Err(), dss.KindDevice, "")
}

// InsertDevice creates a new device entry.
func (s *Store) InsertDevice(ctx context.Context, dev *dss.Device, mode store.InsertMode) error {
	if dev.AdmStatus == "" {
		dev.AdmStatus = dss.AdminStatusUnlocked
	}
	_, err := s.pool.Exec(ctx,
		`INSERT INTO device (family, name, library, host, adm_status, model) VALUES ($1, $2, $3, $4, $5, $6)`,
		string(dev.ID.Family), dev.ID.Name, dev.ID.Library, dev.Host, string(dev.AdmStatus), dev.Model,
	)
	if err != nil {
		return mapPgError(err, dss.KindDevice, dev.ID.String())
	}
	return nil
}

// UpdateDeviceAdmStatus is the narrow contract for admin status changes,
// kept separate from a general update to make the lock/admin boundary
// explicit: only operator tooling calls this, never a catalog write path.
func (s *Store) UpdateDeviceAdmStatus(ctx context.Context, id dss.PhoID, status dss.AdminStatus) error {
	tag, err := s.pool.Exec(ctx,
		`UPDATE device SET adm_status = $4 WHERE family = $1 AND name = $2 AND library = $3`,
		string(id.Family), id.Name, id.Library, string(status),
	)
	if err != nil {
		return mapPgError(err, dss.KindDevice, id.String())
	}
	if tag.RowsAffected() == 0 {
		return dss.NewNotFound(dss.KindDevice, id.String())
	}
	return nil
}

// UpdateDeviceHost is the narrow contract for host reassignment, for use
// when a device's owning daemon changes.
func (s *Store) UpdateDeviceHost(ctx context.Context, id dss.PhoID, host string) error {
	tag, err := s.pool.Exec(ctx,
		`UPDATE device SET host = $4 WHERE family = $1 AND name = $2 AND library = $3`,
		string(id.Family), id.Name, id.Library, host,
	)
	if err != nil {
		return mapPgError(err, dss.KindDevice, id.String())
	}
	if tag.RowsAffected() == 0 {
		return dss.NewNotFound(dss.KindDevice, id.String())
	}
	return nil
}

// DeleteDevice removes a device entry.
func (s *Store) DeleteDevice(ctx context.Context, id dss.PhoID) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM device WHERE family = $1 AND name = $2 AND library = $3`, string(id.Family), id.Name, id.Library)
	if err != nil {
		return mapPgError(err, dss.KindDevice, id.String())
	}
	if tag.RowsAffected() == 0 {
		return dss.NewNotFound(dss.KindDevice, id.String())
	}
	return nil
}
