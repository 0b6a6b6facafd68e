package memory

import (
	"context"

	"github.com/cea-hpc/phobos-dss/pkg/dss"
	"github.com/cea-hpc/phobos-dss/pkg/dss/filter"
	"github.com/cea-hpc/phobos-dss/pkg/dss/store"
)

// GetMedium returns a medium by its identity.
func (s *Store) GetMedium(ctx context.Context, id dss.PhoID) (*dss.Medium, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	m, ok := s.media[id]
	if !ok {
		return nil, dss.NewNotFound(dss.KindMedium, id.String())
	}
	return clone(*m), nil
}

// ListMedia returns media matching pred.
func (s *Store) ListMedia(ctx context.Context, pred filter.Predicate) ([]*dss.Medium, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []*dss.Medium
	for _, m := range s.media {
		ok, err := matches(pred, filter.MediumFields, toRecord(m))
		if err != nil {
			return nil, err
		}
		if ok {
			out = append(out, clone(*m))
		}
	}
	return out, nil
}

// InsertMedium creates a new medium entry.
func (s *Store) InsertMedium(ctx context.Context, m *dss.Medium, mode store.InsertMode) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.media[m.ID]; exists {
		return dss.NewAlreadyExists(dss.KindMedium, m.ID.String())
	}
	stored := clone(*m)
	if stored.AdmStatus == "" {
		stored.AdmStatus = dss.AdminStatusUnlocked
	}
	if stored.FSStatus == "" {
		stored.FSStatus = dss.FSStatusBlank
	}
	s.media[m.ID] = stored
	return nil
}

// UpdateMedium applies a typed set of field updates atomically, mirroring
// the postgres backend's UpdateMedium semantics in memory.
func (s *Store) UpdateMedium(ctx context.Context, id dss.PhoID, mask store.MediaUpdateMask) error {
	if len(mask) == 0 {
		return dss.NewInvalid("empty media update mask")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	m, ok := s.media[id]
	if !ok {
		return dss.NewNotFound(dss.KindMedium, id.String())
	}

	for _, u := range mask {
		switch u.Field {
		case store.FieldAdmStatus:
			m.AdmStatus = dss.AdminStatus(u.Value.(string))
		case store.FieldFSStatus:
			m.FSStatus = dss.FSStatus(u.Value.(string))
		case store.FieldFSLabel:
			m.FSLabel = u.Value.(string)
		case store.FieldNbObj:
			m.NbObj = toInt64(u.Value)
		case store.FieldNbObjAdd:
			m.NbObj += toInt64(u.Value)
		case store.FieldLogicalSpcUsed:
			m.LogicalSpcUsed = toUint64(u.Value)
		case store.FieldLogicalSpcAdd:
			m.LogicalSpcUsed += toUint64(u.Value)
		case store.FieldPhysSpcUsed:
			m.PhysSpcUsed = toUint64(u.Value)
		case store.FieldPhysSpcFree:
			m.PhysSpcFree = toUint64(u.Value)
		case store.FieldTags:
			m.Tags = u.Value.([]string)
		case store.FieldGroupings:
			m.Groupings = u.Value.([]string)
		case store.FieldPutAccess:
			m.PutAccess = u.Value.(bool)
		case store.FieldGetAccess:
			m.GetAccess = u.Value.(bool)
		case store.FieldDeleteAccess:
			m.DeleteAccess = u.Value.(bool)
		default:
			return dss.NewInvalidf("unknown media field tag %d", u.Field)
		}
	}
	return nil
}

func toInt64(v any) int64 {
	switch n := v.(type) {
	case int64:
		return n
	case int:
		return int64(n)
	default:
		return 0
	}
}

func toUint64(v any) uint64 {
	switch n := v.(type) {
	case uint64:
		return n
	case int:
		return uint64(n)
	case int64:
		return uint64(n)
	default:
		return 0
	}
}

// DeleteMedium removes a medium entry.
func (s *Store) DeleteMedium(ctx context.Context, id dss.PhoID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.media[id]; !exists {
		return dss.NewNotFound(dss.KindMedium, id.String())
	}
	delete(s.media, id)
	return nil
}
