package memory

import (
	"context"

	"github.com/google/uuid"

	"github.com/cea-hpc/phobos-dss/pkg/dss"
)

// GetLayout returns the layout and its extents for one object generation.
func (s *Store) GetLayout(ctx context.Context, objUUID uuid.UUID, version int) (*dss.Layout, []dss.Extent, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	key := layoutKey{uuid: objUUID, version: version}
	layout, ok := s.layouts[key]
	if !ok {
		return nil, nil, dss.NewNotFound(dss.KindLayout, objUUID.String())
	}
	extents := append([]dss.Extent(nil), s.extents[key]...)
	return clone(*layout), extents, nil
}

// InsertLayout atomically creates a layout and its extents.
func (s *Store) InsertLayout(ctx context.Context, layout *dss.Layout, extents []dss.Extent) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := layoutKey{uuid: layout.ObjectUUID, version: layout.Version}
	if _, exists := s.layouts[key]; exists {
		return dss.NewAlreadyExists(dss.KindLayout, layout.ObjectUUID.String())
	}
	s.layouts[key] = clone(*layout)
	s.extents[key] = append([]dss.Extent(nil), extents...)
	return nil
}

// DeleteLayout removes a layout and its extents.
func (s *Store) DeleteLayout(ctx context.Context, objUUID uuid.UUID, version int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := layoutKey{uuid: objUUID, version: version}
	if _, exists := s.layouts[key]; !exists {
		return dss.NewNotFound(dss.KindLayout, objUUID.String())
	}
	delete(s.layouts, key)
	delete(s.extents, key)
	return nil
}
