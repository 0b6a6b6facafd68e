// Package cmdutil provides the shared state and helpers phobosctl's
// subcommands build on: catalog wiring, daemon-liveness detection, and
// flag plumbing synced from cobra's PersistentPreRun.
package cmdutil

import (
	"context"
	"fmt"
	"os"

	"github.com/cea-hpc/phobos-dss/config"
	"github.com/cea-hpc/phobos-dss/pkg/dss"
	"github.com/cea-hpc/phobos-dss/pkg/dss/lock"
	"github.com/cea-hpc/phobos-dss/pkg/dss/locator"
	"github.com/cea-hpc/phobos-dss/pkg/dss/store"
	"github.com/cea-hpc/phobos-dss/pkg/dss/store/postgres"
)

// Flags holds global flag values synced from the root command's
// PersistentPreRun, read by every subcommand.
var Flags = struct {
	ConfigPath string
	Output     string
	Force      bool
	SocketPath string
}{Output: "table"}

// App bundles the backend handles a subcommand needs to do its work.
type App struct {
	Store   store.Store
	Locks   *lock.Manager
	Locator *locator.Locator
}

// Open loads configuration and connects to the catalog backend named by
// dss.connect_string.
func Open(ctx context.Context) (*App, error) {
	cfg, err := config.Load(Flags.ConfigPath)
	if err != nil {
		return nil, fmt.Errorf("loading configuration: %w", err)
	}

	st, err := postgres.New(ctx, postgres.Config{ConnString: cfg.DSS.ConnectString})
	if err != nil {
		return nil, fmt.Errorf("connecting to catalog: %w", err)
	}

	locks := lock.New(postgres.NewLockBackend(st))
	loc := locator.New(st, locks)

	return &App{Store: st, Locks: locks, Locator: loc}, nil
}

// Close releases the catalog connection.
func (a *App) Close() {
	a.Store.Close()
}

// DefaultSocketPath returns the control socket phobosctl checks for
// daemon liveness when --socket is not given.
func DefaultSocketPath() string {
	if v := os.Getenv("PHOBOS_LRS_SOCKET"); v != "" {
		return v
	}
	return "/run/phobos_lrs/lrs.sock"
}

// DaemonIsOnline reports whether a local LRS daemon appears to be
// running. The on-wire daemon protocol is an external collaborator;
// this is a best-effort liveness check against its control socket, not
// a handshake.
func DaemonIsOnline() bool {
	path := Flags.SocketPath
	if path == "" {
		path = DefaultSocketPath()
	}
	info, err := os.Stat(path)
	return err == nil && info.Mode()&os.ModeSocket != 0
}

// GuardDestructive returns PermissionDenied if a local daemon is online
// and the caller has not passed --force, per the admin library's
// destructive-operation gate.
func GuardDestructive(entity dss.EntityKind) error {
	if Flags.Force {
		return nil
	}
	if DaemonIsOnline() {
		return dss.NewPermissionDenied(entity, "", "local daemon is online; pass --force to proceed")
	}
	return nil
}
