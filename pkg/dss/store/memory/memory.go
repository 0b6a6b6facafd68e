// Package memory implements the entity store contract (store.Store)
// backed by plain Go maps, grounded on the teacher's in-memory metadata
// store: one RWMutex guarding a handful of per-kind maps, no persistence.
// It exists to back fast unit tests of the lock manager, resolver, and
// locator without a database.
package memory

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/cea-hpc/phobos-dss/pkg/dss"
	"github.com/cea-hpc/phobos-dss/pkg/dss/filter"
	"github.com/cea-hpc/phobos-dss/pkg/dss/store"
)

type objectKey = string

type deprecatedKey struct {
	uuid    uuid.UUID
	version int
}

type layoutKey struct {
	uuid    uuid.UUID
	version int
}

// Store is an in-memory implementation of store.Store.
type Store struct {
	mu sync.RWMutex

	objects      map[objectKey]*dss.Object
	deprecated   map[deprecatedKey]*dss.DeprecatedObject
	layouts      map[layoutKey]*dss.Layout
	extents      map[layoutKey][]dss.Extent
	devices      map[dss.PhoID]*dss.Device
	media        map[dss.PhoID]*dss.Medium
	logs         []*dss.Log
	nextLogID    int64
}

// New returns an empty in-memory store.
func New() *Store {
	return &Store{
		objects:    make(map[objectKey]*dss.Object),
		deprecated: make(map[deprecatedKey]*dss.DeprecatedObject),
		layouts:    make(map[layoutKey]*dss.Layout),
		extents:    make(map[layoutKey][]dss.Extent),
		devices:    make(map[dss.PhoID]*dss.Device),
		media:      make(map[dss.PhoID]*dss.Medium),
		nextLogID:  1,
	}
}

func clone[T any](v T) *T {
	c := v
	return &c
}

// Healthcheck always succeeds; there is no external connection to probe.
func (s *Store) Healthcheck(ctx context.Context) error { return nil }

// Close is a no-op; the store holds no external resources.
func (s *Store) Close() {}

var _ store.Store = (*Store)(nil)

func toRecord(v any) map[string]any {
	switch t := v.(type) {
	case *dss.Object:
		return map[string]any{
			"oid": t.OID, "uuid": t.UUID.String(), "version": t.Version,
			"user_md": map[string]any(t.UserMD), "created_at": t.CreatedAt,
		}
	case *dss.DeprecatedObject:
		return map[string]any{
			"oid": t.OID, "uuid": t.UUID.String(), "version": t.Version,
			"user_md": map[string]any(t.UserMD), "created_at": t.CreatedAt,
			"deprecated_at": t.DeprecatedAt,
		}
	case *dss.Device:
		return map[string]any{
			"family": string(t.ID.Family), "name": t.ID.Name, "library": t.ID.Library,
			"host": t.Host, "adm_status": string(t.AdmStatus), "model": t.Model,
		}
	case *dss.Medium:
		return map[string]any{
			"family": string(t.ID.Family), "name": t.ID.Name, "library": t.ID.Library,
			"adm_status": string(t.AdmStatus), "fs_status": string(t.FSStatus), "fs_label": t.FSLabel,
			"nb_obj": t.NbObj, "logc_spc_used": t.LogicalSpcUsed, "phys_spc_used": t.PhysSpcUsed,
			"phys_spc_free": t.PhysSpcFree, "tags": t.Tags, "groupings": t.Groupings,
			"put_access": t.PutAccess, "get_access": t.GetAccess, "delete_access": t.DeleteAccess,
			"last_locate": t.LastLocate,
		}
	case *dss.Log:
		return map[string]any{
			"family": string(t.Family), "device_id": t.DeviceID, "medium_id": t.MediumID,
			"user_md": map[string]any(t.UserMD), "errno": t.Errno, "created_at": t.CreatedAt,
		}
	default:
		return nil
	}
}

func matches(pred filter.Predicate, dict filter.FieldDictionary, record map[string]any) (bool, error) {
	if pred == nil {
		return true, nil
	}
	return filter.Match(pred, dict, record)
}
