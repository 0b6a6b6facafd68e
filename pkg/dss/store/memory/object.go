package memory

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/cea-hpc/phobos-dss/pkg/dss"
	"github.com/cea-hpc/phobos-dss/pkg/dss/filter"
	"github.com/cea-hpc/phobos-dss/pkg/dss/store"
)

// GetObject returns the live object with the given oid.
func (s *Store) GetObject(ctx context.Context, oid string) (*dss.Object, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	obj, ok := s.objects[oid]
	if !ok {
		return nil, dss.NewNotFound(dss.KindObject, oid)
	}
	return clone(*obj), nil
}

// ListObjects returns live objects matching pred.
func (s *Store) ListObjects(ctx context.Context, pred filter.Predicate) ([]*dss.Object, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []*dss.Object
	for _, obj := range s.objects {
		ok, err := matches(pred, filter.ObjectFields, toRecord(obj))
		if err != nil {
			return nil, err
		}
		if ok {
			out = append(out, clone(*obj))
		}
	}
	return out, nil
}

// InsertObject creates a new live object entry.
func (s *Store) InsertObject(ctx context.Context, obj *dss.Object, mode store.InsertMode) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.objects[obj.OID]; exists {
		return dss.NewAlreadyExists(dss.KindObject, obj.OID)
	}
	stored := clone(*obj)
	if stored.CreatedAt.IsZero() {
		stored.CreatedAt = time.Now()
	}
	s.objects[obj.OID] = stored
	return nil
}

// DeleteObject removes a live object entry.
func (s *Store) DeleteObject(ctx context.Context, oid string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.objects[oid]; !exists {
		return dss.NewNotFound(dss.KindObject, oid)
	}
	delete(s.objects, oid)
	return nil
}

// MoveObjectToDeprecated atomically removes a generation from the live
// object table and records it as a deprecated one.
func (s *Store) MoveObjectToDeprecated(ctx context.Context, oid string, objUUID uuid.UUID, version int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	obj, exists := s.objects[oid]
	if !exists || obj.UUID != objUUID || obj.Version != version {
		return dss.NewNotFound(dss.KindObject, oid)
	}

	key := deprecatedKey{uuid: objUUID, version: version}
	if _, exists := s.deprecated[key]; exists {
		return dss.NewAlreadyExists(dss.KindDeprecatedObject, oid)
	}

	s.deprecated[key] = &dss.DeprecatedObject{
		OID: obj.OID, UUID: obj.UUID, Version: obj.Version,
		UserMD: obj.UserMD, CreatedAt: obj.CreatedAt, DeprecatedAt: time.Now(),
	}
	delete(s.objects, oid)
	return nil
}

// MoveDeprecatedObjectToLive moves the (oid, uuid, version) generation from
// deprecated back into the live object table, the reverse of
// MoveObjectToDeprecated. Fails with dss.KindAlreadyExists if a live object
// already exists under oid.
func (s *Store) MoveDeprecatedObjectToLive(ctx context.Context, oid string, objUUID uuid.UUID, version int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := deprecatedKey{uuid: objUUID, version: version}
	dep, exists := s.deprecated[key]
	if !exists || dep.OID != oid {
		return dss.NewNotFound(dss.KindDeprecatedObject, oid)
	}

	if _, exists := s.objects[oid]; exists {
		return dss.NewAlreadyExists(dss.KindObject, oid)
	}

	s.objects[oid] = &dss.Object{
		OID: dep.OID, UUID: dep.UUID, Version: dep.Version,
		UserMD: dep.UserMD, CreatedAt: dep.CreatedAt,
	}
	delete(s.deprecated, key)
	return nil
}

// GetDeprecatedObject returns one deprecated generation by its full identity.
func (s *Store) GetDeprecatedObject(ctx context.Context, oid string, objUUID uuid.UUID, version int) (*dss.DeprecatedObject, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	dep, ok := s.deprecated[deprecatedKey{uuid: objUUID, version: version}]
	if !ok || dep.OID != oid {
		return nil, dss.NewNotFound(dss.KindDeprecatedObject, oid)
	}
	return clone(*dep), nil
}

// ListDeprecatedObjects returns deprecated generations matching pred.
func (s *Store) ListDeprecatedObjects(ctx context.Context, pred filter.Predicate) ([]*dss.DeprecatedObject, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []*dss.DeprecatedObject
	for _, dep := range s.deprecated {
		ok, err := matches(pred, filter.DeprecatedObjectFields, toRecord(dep))
		if err != nil {
			return nil, err
		}
		if ok {
			out = append(out, clone(*dep))
		}
	}
	return out, nil
}

// DeleteDeprecatedObject removes one deprecated generation.
func (s *Store) DeleteDeprecatedObject(ctx context.Context, oid string, objUUID uuid.UUID, version int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := deprecatedKey{uuid: objUUID, version: version}
	dep, ok := s.deprecated[key]
	if !ok || dep.OID != oid {
		return dss.NewNotFound(dss.KindDeprecatedObject, oid)
	}
	delete(s.deprecated, key)
	return nil
}
