// Package locator implements the medium locator (C5): given a medium
// id, decides which host (if any) currently has authority to perform
// I/O against it, by combining the medium's administrative state with
// the cluster lock manager's current holder.
package locator

import (
	"context"

	"github.com/cea-hpc/phobos-dss/internal/logger"
	"github.com/cea-hpc/phobos-dss/pkg/dss"
	"github.com/cea-hpc/phobos-dss/pkg/dss/lock"
	"github.com/cea-hpc/phobos-dss/pkg/dss/store"
)

// Locator resolves medium locate requests against a store and a lock
// manager. It never mutates placement; it only reports current
// authority, refreshing the lock's last_locate as a side effect.
type Locator struct {
	store store.Store
	locks *lock.Manager
}

// New returns a Locator backed by s and lm.
func New(s store.Store, lm *lock.Manager) *Locator {
	return &Locator{store: s, locks: lm}
}

// Result is the outcome of a successful Locate.
type Result struct {
	// Hostname is the host holding the medium's lock, or "" when the
	// medium is unlocked and any host may acquire it.
	Hostname string
	Medium   *dss.Medium
}

// Locate implements the C5 decision procedure for a single medium.
func (l *Locator) Locate(ctx context.Context, id dss.PhoID) (*Result, error) {
	med, err := l.store.GetMedium(ctx, id)
	if err != nil {
		return nil, err
	}

	if med.AdmStatus == dss.AdminStatusLocked {
		return nil, dss.NewPermissionDenied(dss.KindMedium, id.String(), "medium is administratively locked")
	}
	if !med.GetAccess {
		return nil, dss.NewOperationNotPermitted(dss.KindMedium, id.String(), "medium is not readable")
	}

	item := lock.Item{Kind: dss.KindMedium, Identity: id.String()}
	status, err := l.locks.Status(ctx, []lock.Item{item})
	if err != nil {
		return nil, err
	}

	held := status[0]
	if held != nil {
		l.refreshLastLocate(ctx, item, held.Owner)
		return &Result{Hostname: held.Owner.Hostname, Medium: med}, nil
	}

	if id.Family.IsDirFamily() {
		return nil, dss.NewNoDevice(dss.KindMedium, id.String())
	}
	return &Result{Hostname: "", Medium: med}, nil
}

// refreshLastLocate best-effort bumps last_locate on the medium's lock
// row; a failure here does not fail the Locate call.
func (l *Locator) refreshLastLocate(ctx context.Context, item lock.Item, owner dss.LockOwner) {
	if err := l.locks.Refresh(ctx, []lock.Item{item}, owner, true); err != nil {
		logger.WarnCtx(ctx, "locate: failed to refresh last_locate", "identity", item.Identity, "error", err)
	}
}
