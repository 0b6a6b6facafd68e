// Package lock implements the cluster-wide advisory lock manager (C3):
// acquisition, refresh, release and administrative cleanup of per-entity
// locks keyed by (entity kind, entity identity), owned by a
// (hostname, pid) pair. The manager holds no in-process state of its
// own; every decision is made against the Backend, so concurrent
// managers on different hosts agree through the same catalog row.
package lock

import (
	"context"
	"os"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/cea-hpc/phobos-dss/pkg/dss"
	"github.com/cea-hpc/phobos-dss/pkg/dss/filter"
)

// Item identifies one lockable entity: its kind and the canonical string
// derived from its primary-key tuple (a PhoID.String() for a device or
// medium, an oid for an object).
type Item struct {
	Kind     dss.EntityKind
	Identity string
}

// Backend is the per-row lock storage contract, implemented by the
// postgres and memory packages. It is deliberately narrow: the policy
// decisions (all-or-nothing acquire, as-much-as-possible refresh) live
// in Manager, not here.
type Backend interface {
	// TryAcquire creates a lock row for (kind, identity) owned by owner.
	// Returns dss.KindAlreadyExists if a row already exists.
	TryAcquire(ctx context.Context, kind dss.EntityKind, identity string, owner dss.LockOwner) error
	// Get returns the current lock row, or dss.KindNotFound if absent.
	Get(ctx context.Context, kind dss.EntityKind, identity string) (*dss.Lock, error)
	// Refresh bumps acquired_at (and last_locate, if requested) for a row
	// owned by owner. Returns dss.KindNotLocked if absent,
	// dss.KindPermissionDenied on ownership mismatch.
	Refresh(ctx context.Context, kind dss.EntityKind, identity string, owner dss.LockOwner, updateLastLocate bool) error
	// Release deletes a lock row owned by owner, or any owner when force
	// is set. Returns dss.KindNotLocked if absent,
	// dss.KindPermissionDenied on ownership mismatch when !force.
	Release(ctx context.Context, kind dss.EntityKind, identity string, owner dss.LockOwner, force bool) error
	// List returns lock rows matching pred (nil matches all).
	List(ctx context.Context, pred filter.Predicate) ([]*dss.Lock, error)
	// Delete unconditionally removes a lock row, used by Clean*
	// operations that bypass ownership checks by design.
	Delete(ctx context.Context, kind dss.EntityKind, identity string) error
}

// Manager implements the C3 policies (all-or-nothing acquire,
// as-much-as-possible refresh/release/status/clean) over a Backend.
type Manager struct {
	backend Backend
}

// New returns a Manager backed by b.
func New(b Backend) *Manager {
	return &Manager{backend: b}
}

// localOwner substitutes the current hostname and pid when a caller does
// not supply ownership explicitly.
func localOwner() (dss.LockOwner, error) {
	host, err := os.Hostname()
	if err != nil {
		return dss.LockOwner{}, dss.NewTransport(err)
	}
	return dss.LockOwner{Hostname: host, PID: os.Getpid()}, nil
}

// Acquire takes every lock in items or none: on the first conflict every
// lock taken earlier in this call is rolled back and AlreadyExists is
// returned. Ownership defaults to the local hostname and pid.
func (m *Manager) Acquire(ctx context.Context, items []Item) error {
	owner, err := localOwner()
	if err != nil {
		return err
	}
	return m.acquireAs(ctx, items, owner)
}

// AcquireAs is Acquire with an explicit hostname and pid, used when a
// coordinator pre-places a lock for a different host. The pid is stored
// as given; later ownership checks compare it exactly, including pid 0.
func (m *Manager) AcquireAs(ctx context.Context, items []Item, hostname string, pid int) error {
	return m.acquireAs(ctx, items, dss.LockOwner{Hostname: hostname, PID: pid})
}

func (m *Manager) acquireAs(ctx context.Context, items []Item, owner dss.LockOwner) error {
	if len(items) == 0 {
		return dss.NewInvalid("acquire requires at least one item")
	}

	acquired := make([]Item, 0, len(items))
	for _, it := range items {
		if err := m.backend.TryAcquire(ctx, it.Kind, it.Identity, owner); err != nil {
			for _, done := range acquired {
				_ = m.backend.Release(ctx, done.Kind, done.Identity, owner, true)
			}
			return err
		}
		acquired = append(acquired, it)
	}
	return nil
}

// Refresh bumps the timestamp (and optionally last_locate) of every item
// in items, attempting all of them and returning the first error seen.
func (m *Manager) Refresh(ctx context.Context, items []Item, owner dss.LockOwner, updateLastLocate bool) error {
	return m.forEach(ctx, items, func(it Item) error {
		return m.backend.Refresh(ctx, it.Kind, it.Identity, owner, updateLastLocate)
	})
}

// Release removes every item's lock, attempting all of them and
// returning the first error seen. When force is set, ownership is not
// checked.
func (m *Manager) Release(ctx context.Context, items []Item, owner dss.LockOwner, force bool) error {
	return m.forEach(ctx, items, func(it Item) error {
		return m.backend.Release(ctx, it.Kind, it.Identity, owner, force)
	})
}

// Status returns one lock (or nil for a missing item) per entry of
// items, in the same order, attempting all lookups and returning the
// first error seen alongside the partial results.
func (m *Manager) Status(ctx context.Context, items []Item) ([]*dss.Lock, error) {
	out := make([]*dss.Lock, len(items))
	var g errgroup.Group
	var firstErr error
	var mu sync.Mutex

	for i, it := range items {
		i, it := i, it
		g.Go(func() error {
			l, err := m.backend.Get(ctx, it.Kind, it.Identity)
			if err != nil {
				if dss.Is(err, dss.KindNotFound) {
					return nil
				}
				mu.Lock()
				if firstErr == nil {
					firstErr = err
				}
				mu.Unlock()
				return nil
			}
			out[i] = l
			return nil
		})
	}
	_ = g.Wait()
	return out, firstErr
}

// forEach runs fn over items concurrently, attempting every item and
// returning the first error observed (if any) after all complete.
func (m *Manager) forEach(ctx context.Context, items []Item, fn func(Item) error) error {
	var g errgroup.Group
	var mu sync.Mutex
	var firstErr error

	for _, it := range items {
		it := it
		g.Go(func() error {
			if err := fn(it); err != nil {
				mu.Lock()
				if firstErr == nil {
					firstErr = err
				}
				mu.Unlock()
			}
			return nil
		})
	}
	_ = g.Wait()
	return firstErr
}

// CleanDevices removes device-kind locks of the given family (any family
// when empty) not held by (hostname, owner), used on daemon restart to
// drop stale ownership from a previous run.
func (m *Manager) CleanDevices(ctx context.Context, family dss.Family, hostname string, pid int) (int, error) {
	pred := filter.Predicate{"$AND": []filter.Predicate{
		{"entity_kind": string(dss.KindDevice)},
		{"$NOR": []filter.Predicate{
			{"$AND": []filter.Predicate{{"hostname": hostname}, {"pid": pid}}},
		}},
	}}
	locks, err := m.backend.List(ctx, pred)
	if err != nil {
		return 0, err
	}
	removed := 0
	for _, l := range locks {
		if family != "" && !matchesFamily(l.Identity, family) {
			continue
		}
		if err := m.backend.Delete(ctx, l.EntityKind, l.Identity); err != nil {
			return removed, err
		}
		removed++
	}
	return removed, nil
}

// CleanMedia removes media-kind locks held by (hostname, owner) whose
// identity is not in keep.
func (m *Manager) CleanMedia(ctx context.Context, keep []string, hostname string, pid int) (int, error) {
	locks, err := m.backend.List(ctx, filter.Predicate{"$AND": []filter.Predicate{
		{"entity_kind": string(dss.KindMedium)},
		{"hostname": hostname},
		{"pid": pid},
	}})
	if err != nil {
		return 0, err
	}

	keepSet := make(map[string]bool, len(keep))
	for _, k := range keep {
		keepSet[k] = true
	}

	removed := 0
	for _, l := range locks {
		if keepSet[l.Identity] {
			continue
		}
		if err := m.backend.Delete(ctx, l.EntityKind, l.Identity); err != nil {
			return removed, err
		}
		removed++
	}
	return removed, nil
}

// SelectFilter narrows CleanSelect to locks matching every non-empty
// field; an empty field is a wildcard.
type SelectFilter struct {
	Hostname string
	Kind     dss.EntityKind
	Family   dss.Family
	IDs      []string
}

// CleanSelect removes locks matching f, a generic best-effort clean.
// An unset Kind makes Family ignored, since family-scoping only makes
// sense once the kind (device/medium) is known.
func (m *Manager) CleanSelect(ctx context.Context, f SelectFilter) (int, error) {
	var clauses []filter.Predicate
	if f.Hostname != "" {
		clauses = append(clauses, filter.Predicate{"hostname": f.Hostname})
	}
	if f.Kind != "" {
		clauses = append(clauses, filter.Predicate{"entity_kind": string(f.Kind)})
	}

	var pred filter.Predicate
	if len(clauses) == 0 {
		pred = nil
	} else if len(clauses) == 1 {
		pred = clauses[0]
	} else {
		pred = filter.Predicate{"$AND": clauses}
	}

	locks, err := m.backend.List(ctx, pred)
	if err != nil {
		return 0, err
	}

	idSet := map[string]bool(nil)
	if len(f.IDs) > 0 {
		idSet = make(map[string]bool, len(f.IDs))
		for _, id := range f.IDs {
			idSet[id] = true
		}
	}

	removed := 0
	for _, l := range locks {
		if f.Kind != "" && f.Family != "" && !matchesFamily(l.Identity, f.Family) {
			continue
		}
		if idSet != nil && !idSet[l.Identity] {
			continue
		}
		if err := m.backend.Delete(ctx, l.EntityKind, l.Identity); err != nil {
			return removed, err
		}
		removed++
	}
	return removed, nil
}

// matchesFamily reports whether identity (a PhoID.String(), of the form
// "family:library:name") names the given family.
func matchesFamily(identity string, family dss.Family) bool {
	prefix := string(family) + ":"
	return len(identity) > len(prefix) && identity[:len(prefix)] == prefix
}

func (m *Manager) cleanMatching(ctx context.Context, pred filter.Predicate) (int, error) {
	locks, err := m.backend.List(ctx, pred)
	if err != nil {
		return 0, err
	}
	removed := 0
	for _, l := range locks {
		if err := m.backend.Delete(ctx, l.EntityKind, l.Identity); err != nil {
			return removed, err
		}
		removed++
	}
	return removed, nil
}

// CleanAll removes every lock row; a disaster-recovery admin operation.
func (m *Manager) CleanAll(ctx context.Context) (int, error) {
	return m.cleanMatching(ctx, nil)
}
