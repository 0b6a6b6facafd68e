// Package resolver implements the version resolver (C4): resolving a
// caller-supplied (oid, uuid, version) triple to a single generation of
// an object, live or deprecated. The resolver takes no locks and holds
// no state; every call is a fresh set of reads through a store.Store.
package resolver

import (
	"context"

	"github.com/google/uuid"

	"github.com/cea-hpc/phobos-dss/pkg/dss"
	"github.com/cea-hpc/phobos-dss/pkg/dss/filter"
	"github.com/cea-hpc/phobos-dss/pkg/dss/store"
)

// Resolver resolves object generations against an entity store. It is
// safe for concurrent use; it holds no locks across its own reads, so a
// concurrent mutation between two lookups can surface as NotFound where
// a retry would have succeeded.
type Resolver struct {
	store store.Store
}

// New returns a Resolver reading through s.
func New(s store.Store) *Resolver {
	return &Resolver{store: s}
}

// Generation is a resolved object generation, either the live row or a
// deprecated one. Exactly one of Object or Deprecated is non-nil.
type Generation struct {
	Object     *dss.Object
	Deprecated *dss.DeprecatedObject
}

// UUID returns the generation's identifying uuid regardless of which
// table it came from.
func (g Generation) UUID() uuid.UUID {
	if g.Object != nil {
		return g.Object.UUID
	}
	return g.Deprecated.UUID
}

// Version returns the generation's version number.
func (g Generation) Version() int {
	if g.Object != nil {
		return g.Object.Version
	}
	return g.Deprecated.Version
}

// nilUUID is the zero uuid.UUID, used as a "not supplied" sentinel by
// Resolve's callers the way the catalog represents an absent uuid.
var nilUUID uuid.UUID

// Resolve implements lazy_find_object: given at least one of oid or
// uuid (nilUUID meaning "not supplied"), and an optional version (0
// meaning "latest" when only a uuid anchors the search, or "either
// generation" when only an oid anchors it), returns the unique
// generation the inputs identify.
func (r *Resolver) Resolve(ctx context.Context, oid string, id uuid.UUID, version int) (*Generation, error) {
	if oid == "" && id == nilUUID {
		return nil, dss.NewInvalid("lazy_find_object requires at least one of oid or uuid")
	}

	switch {
	case oid != "" && id != nilUUID:
		return r.resolveByOIDAndUUID(ctx, oid, id, version)
	case oid != "":
		return r.resolveByOID(ctx, oid, version)
	default:
		return r.resolveByUUID(ctx, id, version)
	}
}

// resolveByOID implements case 1: oid only.
func (r *Resolver) resolveByOID(ctx context.Context, oid string, version int) (*Generation, error) {
	live, err := r.store.GetObject(ctx, oid)
	if err == nil {
		if version == 0 || live.Version == version {
			return &Generation{Object: live}, nil
		}
		// Live row exists but at a different version: the requested
		// generation may still be archived, so fall through to
		// Deprecated instead of failing here.
	} else if !dss.Is(err, dss.KindNotFound) {
		return nil, err
	}

	rows, err := r.store.ListDeprecatedObjects(ctx, filter.Predicate{"oid": oid})
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, dss.NewNotFound(dss.KindObject, oid)
	}

	if version != 0 {
		for _, row := range rows {
			if row.Version == version {
				return &Generation{Deprecated: row}, nil
			}
		}
		return nil, dss.NewNotFound(dss.KindDeprecatedObject, oid)
	}

	target := rows[0].UUID
	for _, row := range rows[1:] {
		if row.UUID != target {
			return nil, dss.NewInvalid("oid " + oid + " is ambiguous across deprecated generations; a version or uuid is required")
		}
	}
	return r.resolveByUUID(ctx, target, 0)
}

// resolveByUUID implements case 2: uuid only.
func (r *Resolver) resolveByUUID(ctx context.Context, id uuid.UUID, version int) (*Generation, error) {
	liveRows, err := r.store.ListObjects(ctx, filter.Predicate{"uuid": id.String()})
	if err != nil {
		return nil, err
	}
	for _, row := range liveRows {
		if version == 0 || row.Version == version {
			return &Generation{Object: row}, nil
		}
	}

	depRows, err := r.store.ListDeprecatedObjects(ctx, filter.Predicate{"uuid": id.String()})
	if err != nil {
		return nil, err
	}
	if len(depRows) == 0 {
		return nil, dss.NewNotFound(dss.KindDeprecatedObject, id.String())
	}

	if version != 0 {
		for _, row := range depRows {
			if row.Version == version {
				return &Generation{Deprecated: row}, nil
			}
		}
		return nil, dss.NewNotFound(dss.KindDeprecatedObject, id.String())
	}

	best := depRows[0]
	for _, row := range depRows[1:] {
		if row.Version > best.Version {
			best = row
		}
	}
	return &Generation{Deprecated: best}, nil
}

// resolveByOIDAndUUID implements case 3: both oid and uuid must
// identify the same row, live preferred then deprecated.
func (r *Resolver) resolveByOIDAndUUID(ctx context.Context, oid string, id uuid.UUID, version int) (*Generation, error) {
	live, err := r.store.GetObject(ctx, oid)
	if err == nil {
		if live.UUID == id && (version == 0 || live.Version == version) {
			return &Generation{Object: live}, nil
		}
		// Live row exists but doesn't satisfy the full (uuid[,version])
		// match, either because the uuid differs or because the
		// version does: the requested generation may still be
		// archived, so fall through to Deprecated.
		return r.resolveDeprecatedByOIDAndUUID(ctx, oid, id, version)
	}
	if !dss.Is(err, dss.KindNotFound) {
		return nil, err
	}

	return r.resolveDeprecatedByOIDAndUUID(ctx, oid, id, version)
}

func (r *Resolver) resolveDeprecatedByOIDAndUUID(ctx context.Context, oid string, id uuid.UUID, version int) (*Generation, error) {
	rows, err := r.store.ListDeprecatedObjects(ctx, filter.Predicate{"$AND": []filter.Predicate{
		{"oid": oid},
		{"uuid": id.String()},
	}})
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, dss.NewNotFound(dss.KindDeprecatedObject, oid)
	}
	if version == 0 {
		best := rows[0]
		for _, row := range rows[1:] {
			if row.Version > best.Version {
				best = row
			}
		}
		return &Generation{Deprecated: best}, nil
	}
	for _, row := range rows {
		if row.Version == version {
			return &Generation{Deprecated: row}, nil
		}
	}
	return nil, dss.NewNotFound(dss.KindDeprecatedObject, oid)
}
