package postgres

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/cea-hpc/phobos-dss/pkg/dss"
	"github.com/cea-hpc/phobos-dss/pkg/dss/filter"
	"github.com/cea-hpc/phobos-dss/pkg/dss/store"
)

func scanMedium(row pgx.Row) (*dss.Medium, error) {
	var m dss.Medium
	var family, admStatus, fsStatus string
	var lastLocate *time.Time
	if err := row.Scan(
		&family, &m.ID.Name, &m.ID.Library, &admStatus, &fsStatus, &m.FSLabel,
		&m.NbObj, &m.LogicalSpcUsed, &m.PhysSpcUsed, &m.PhysSpcFree,
		&m.Tags, &m.Groupings, &m.PutAccess, &m.GetAccess, &m.DeleteAccess, &lastLocate,
	); err != nil {
		return nil, err
	}
	m.ID.Family = dss.Family(family)
	m.AdmStatus = dss.AdminStatus(admStatus)
	m.FSStatus = dss.FSStatus(fsStatus)
	if lastLocate != nil {
		m.LastLocate = *lastLocate
	}
	return &m, nil
}

const mediumColumns = `family, name, library, adm_status, fs_status, fs_label,
	nb_obj, logc_spc_used, phys_spc_used, phys_spc_free,
	tags, groupings, put_access, get_access, delete_access, last_locate`

// GetMedium returns a medium by its identity.
func (s *Store) GetMedium(ctx context.Context, id dss.PhoID) (*dss.Medium, error) {
	row := s.pool.QueryRow(ctx,
		`SELECT `+mediumColumns+` FROM medium WHERE family = $1 AND name = $2 AND library = $3`,
		string(id.Family), id.Name, id.Library,
	)
	m, err := scanMedium(row)
	if err != nil {
		return nil, mapPgError(err, dss.KindMedium, id.String())
	}
	return m, nil
}

// ListMedia returns media matching pred.
func (s *Store) ListMedia(ctx context.Context, pred filter.Predicate) ([]*dss.Medium, error) {
	sql := `SELECT ` + mediumColumns + ` FROM medium`
	var args []any
	if pred != nil {
		c, err := filter.Compile(pred, filter.MediumFields, 0)
		if err != nil {
			return nil, err
		}
		sql += " WHERE " + c.SQL
		args = c.Args
	}
	rows, err := s.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, mapPgError(err, dss.KindMedium, "")
	}
	defer rows.Close()

	var out []*dss.Medium
	for rows.Next() {
		m, err := scanMedium(rows)
		if err != nil {
			return nil, mapPgError(err, dss.KindMedium, "")
		}
		out = append(out, m)
	}
	return out, mapPgError(rows.Err(), dss.KindMedium, "")
}

// InsertMedium creates a new medium entry.
func (s *Store) InsertMedium(ctx context.Context, m *dss.Medium, mode store.InsertMode) error {
	if m.AdmStatus == "" {
		m.AdmStatus = dss.AdminStatusUnlocked
	}
	if m.FSStatus == "" {
		m.FSStatus = dss.FSStatusBlank
	}
	_, err := s.pool.Exec(ctx,
		`INSERT INTO medium (family, name, library, adm_status, fs_status, fs_label,
			nb_obj, logc_spc_used, phys_spc_used, phys_spc_free, tags, groupings,
			put_access, get_access, delete_access)
		 VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15)`,
		string(m.ID.Family), m.ID.Name, m.ID.Library, string(m.AdmStatus), string(m.FSStatus), m.FSLabel,
		m.NbObj, m.LogicalSpcUsed, m.PhysSpcUsed, m.PhysSpcFree, m.Tags, m.Groupings,
		m.PutAccess, m.GetAccess, m.DeleteAccess,
	)
	if err != nil {
		return mapPgError(err, dss.KindMedium, m.ID.String())
	}
	return nil
}

// UpdateMedium applies an atomic, typed set of field updates (see
// store.MediaUpdateMask), replacing what the original bitmask contract
// described as an all-or-nothing single-row write.
func (s *Store) UpdateMedium(ctx context.Context, id dss.PhoID, mask store.MediaUpdateMask) error {
	if len(mask) == 0 {
		return dss.NewInvalid("empty media update mask")
	}

	var sets []string
	var args []any
	bind := func(v any) string {
		args = append(args, v)
		return "$" + strconv.Itoa(len(args))
	}

	for _, u := range mask {
		switch u.Field {
		case store.FieldAdmStatus:
			sets = append(sets, "adm_status = "+bind(u.Value))
		case store.FieldFSStatus:
			sets = append(sets, "fs_status = "+bind(u.Value))
		case store.FieldFSLabel:
			sets = append(sets, "fs_label = "+bind(u.Value))
		case store.FieldNbObj:
			sets = append(sets, "nb_obj = "+bind(u.Value))
		case store.FieldNbObjAdd:
			sets = append(sets, "nb_obj = nb_obj + "+bind(u.Value))
		case store.FieldLogicalSpcUsed:
			sets = append(sets, "logc_spc_used = "+bind(u.Value))
		case store.FieldLogicalSpcAdd:
			sets = append(sets, "logc_spc_used = logc_spc_used + "+bind(u.Value))
		case store.FieldPhysSpcUsed:
			sets = append(sets, "phys_spc_used = "+bind(u.Value))
		case store.FieldPhysSpcFree:
			sets = append(sets, "phys_spc_free = "+bind(u.Value))
		case store.FieldTags:
			sets = append(sets, "tags = "+bind(u.Value))
		case store.FieldGroupings:
			sets = append(sets, "groupings = "+bind(u.Value))
		case store.FieldPutAccess:
			sets = append(sets, "put_access = "+bind(u.Value))
		case store.FieldGetAccess:
			sets = append(sets, "get_access = "+bind(u.Value))
		case store.FieldDeleteAccess:
			sets = append(sets, "delete_access = "+bind(u.Value))
		default:
			return dss.NewInvalidf("unknown media field tag %d", u.Field)
		}
	}

	famArg := bind(string(id.Family))
	nameArg := bind(id.Name)
	libArg := bind(id.Library)

	sql := "UPDATE medium SET " + strings.Join(sets, ", ") +
		" WHERE family = " + famArg + " AND name = " + nameArg + " AND library = " + libArg

	tag, err := s.pool.Exec(ctx, sql, args...)
	if err != nil {
		return mapPgError(err, dss.KindMedium, id.String())
	}
	if tag.RowsAffected() == 0 {
		return dss.NewNotFound(dss.KindMedium, id.String())
	}
	return nil
}

// DeleteMedium removes a medium entry.
func (s *Store) DeleteMedium(ctx context.Context, id dss.PhoID) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM medium WHERE family = $1 AND name = $2 AND library = $3`, string(id.Family), id.Name, id.Library)
	if err != nil {
		return mapPgError(err, dss.KindMedium, id.String())
	}
	if tag.RowsAffected() == 0 {
		return dss.NewNotFound(dss.KindMedium, id.String())
	}
	return nil
}
