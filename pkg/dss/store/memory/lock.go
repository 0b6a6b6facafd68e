package memory

import (
	"context"
	"sync"
	"time"

	"github.com/cea-hpc/phobos-dss/pkg/dss"
	"github.com/cea-hpc/phobos-dss/pkg/dss/filter"
)

type lockKey struct {
	kind     dss.EntityKind
	identity string
}

// LockBackend is an in-memory lock.Backend implementation, grounded on
// the same map+mutex style as Store.
type LockBackend struct {
	mu    sync.Mutex
	locks map[lockKey]*dss.Lock
}

// NewLockBackend returns an empty in-memory lock backend.
func NewLockBackend() *LockBackend {
	return &LockBackend{locks: make(map[lockKey]*dss.Lock)}
}

func (b *LockBackend) TryAcquire(ctx context.Context, kind dss.EntityKind, identity string, owner dss.LockOwner) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	key := lockKey{kind: kind, identity: identity}
	if _, exists := b.locks[key]; exists {
		return dss.NewAlreadyExists(kind, identity)
	}
	b.locks[key] = &dss.Lock{EntityKind: kind, Identity: identity, Owner: owner, AcquiredAt: time.Now()}
	return nil
}

func (b *LockBackend) Get(ctx context.Context, kind dss.EntityKind, identity string) (*dss.Lock, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	l, ok := b.locks[lockKey{kind: kind, identity: identity}]
	if !ok {
		return nil, dss.NewNotFound(kind, identity)
	}
	return clone(*l), nil
}

func (b *LockBackend) Refresh(ctx context.Context, kind dss.EntityKind, identity string, owner dss.LockOwner, updateLastLocate bool) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	l, ok := b.locks[lockKey{kind: kind, identity: identity}]
	if !ok {
		return dss.NewNotLocked(kind, identity)
	}
	if l.Owner != owner {
		return dss.NewPermissionDenied(kind, identity, "lock held by a different owner")
	}
	l.AcquiredAt = time.Now()
	if updateLastLocate {
		l.LastLocate = time.Now()
	}
	return nil
}

func (b *LockBackend) Release(ctx context.Context, kind dss.EntityKind, identity string, owner dss.LockOwner, force bool) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	key := lockKey{kind: kind, identity: identity}
	l, ok := b.locks[key]
	if !ok {
		return dss.NewNotLocked(kind, identity)
	}
	if !force && l.Owner != owner {
		return dss.NewPermissionDenied(kind, identity, "lock held by a different owner")
	}
	delete(b.locks, key)
	return nil
}

func (b *LockBackend) List(ctx context.Context, pred filter.Predicate) ([]*dss.Lock, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	var out []*dss.Lock
	for _, l := range b.locks {
		ok, err := matches(pred, filter.LockFields, lockRecord(l))
		if err != nil {
			return nil, err
		}
		if ok {
			out = append(out, clone(*l))
		}
	}
	return out, nil
}

func (b *LockBackend) Delete(ctx context.Context, kind dss.EntityKind, identity string) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	delete(b.locks, lockKey{kind: kind, identity: identity})
	return nil
}

func lockRecord(l *dss.Lock) map[string]any {
	return map[string]any{
		"entity_kind": string(l.EntityKind), "identity": l.Identity,
		"hostname": l.Owner.Hostname, "pid": l.Owner.PID,
		"acquired_at": l.AcquiredAt, "last_locate": l.LastLocate,
	}
}
