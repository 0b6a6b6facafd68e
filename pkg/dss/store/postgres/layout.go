package postgres

import (
	"context"

	"github.com/google/uuid"

	"github.com/cea-hpc/phobos-dss/pkg/dss"
)

// GetLayout returns the layout and its extents for one object generation.
func (s *Store) GetLayout(ctx context.Context, objUUID uuid.UUID, version int) (*dss.Layout, []dss.Extent, error) {
	row := s.pool.QueryRow(ctx,
		`SELECT object_uuid, version, type, params FROM layout WHERE object_uuid = $1 AND version = $2`,
		objUUID, version,
	)
	var layout dss.Layout
	var layoutType string
	if err := row.Scan(&layout.ObjectUUID, &layout.Version, &layoutType, &layout.Params); err != nil {
		return nil, nil, mapPgError(err, dss.KindLayout, objUUID.String())
	}
	layout.Type = dss.LayoutType(layoutType)

	rows, err := s.pool.Query(ctx,
		`SELECT layout_object_uuid, layout_version, rank, medium_family, medium_name, medium_library, offset_bytes, size_bytes
		 FROM extent WHERE layout_object_uuid = $1 AND layout_version = $2 ORDER BY rank`,
		objUUID, version,
	)
	if err != nil {
		return nil, nil, mapPgError(err, dss.KindExtent, objUUID.String())
	}
	defer rows.Close()

	var extents []dss.Extent
	for rows.Next() {
		var e dss.Extent
		var family string
		if err := rows.Scan(&e.LayoutObjectUUID, &e.LayoutVersion, &e.Rank, &family, &e.MediumID.Name, &e.MediumID.Library, &e.Offset, &e.Size); err != nil {
			return nil, nil, mapPgError(err, dss.KindExtent, objUUID.String())
		}
		e.MediumID.Family = dss.Family(family)
		extents = append(extents, e)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, mapPgError(err, dss.KindExtent, objUUID.String())
	}

	return &layout, extents, nil
}

// InsertLayout atomically creates a layout and its extents.
func (s *Store) InsertLayout(ctx context.Context, layout *dss.Layout, extents []dss.Extent) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return mapPgError(err, dss.KindLayout, layout.ObjectUUID.String())
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx,
		`INSERT INTO layout (object_uuid, version, type, params) VALUES ($1, $2, $3, $4)`,
		layout.ObjectUUID, layout.Version, string(layout.Type), layout.Params,
	); err != nil {
		return mapPgError(err, dss.KindLayout, layout.ObjectUUID.String())
	}

	for _, e := range extents {
		if _, err := tx.Exec(ctx,
			`INSERT INTO extent (layout_object_uuid, layout_version, rank, medium_family, medium_name, medium_library, offset_bytes, size_bytes)
			 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
			e.LayoutObjectUUID, e.LayoutVersion, e.Rank, string(e.MediumID.Family), e.MediumID.Name, e.MediumID.Library, e.Offset, e.Size,
		); err != nil {
			return mapPgError(err, dss.KindExtent, layout.ObjectUUID.String())
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return mapPgError(err, dss.KindLayout, layout.ObjectUUID.String())
	}
	return nil
}

// DeleteLayout removes a layout and, via cascade, its extents.
func (s *Store) DeleteLayout(ctx context.Context, objUUID uuid.UUID, version int) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM layout WHERE object_uuid = $1 AND version = $2`, objUUID, version)
	if err != nil {
		return mapPgError(err, dss.KindLayout, objUUID.String())
	}
	if tag.RowsAffected() == 0 {
		return dss.NewNotFound(dss.KindLayout, objUUID.String())
	}
	return nil
}
