// Command phobosctl is the administration client for the Phobos
// distributed state service catalog: lock status and cleanup, medium
// location, and log maintenance.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/cea-hpc/phobos-dss/cmd/phobosctl/commands"
	"github.com/cea-hpc/phobos-dss/internal/logger"
	"github.com/cea-hpc/phobos-dss/pkg/dss"

	// Registers the Prometheus implementations behind pkg/metrics.
	_ "github.com/cea-hpc/phobos-dss/pkg/metrics/prometheus"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	commands.Version = version
	commands.Commit = commit
	commands.Date = date

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := runWithContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "phobosctl:", err)
		os.Exit(exitCode(err))
	}
}

// runWithContext plumbs ctx through cobra's command tree via the root
// command's ExecuteContext, mirroring the daemon's signal-driven
// shutdown without requiring a long-running process here.
func runWithContext(ctx context.Context) error {
	root := commands.GetRootCmd()
	return root.ExecuteContext(ctx)
}

// exitCode maps the error taxonomy to process exit codes, per the
// admin library's contract that exit codes are propagated from error
// kinds.
func exitCode(err error) int {
	var derr *dss.Error
	if !errors.As(err, &derr) {
		return 1
	}
	switch derr.Kind {
	case dss.KindNotFound:
		return 2
	case dss.KindAlreadyExists, dss.KindConflict:
		return 3
	case dss.KindInvalid, dss.KindUnsupported:
		return 4
	case dss.KindPermissionDenied, dss.KindOperationNotPermitted:
		return 5
	case dss.KindNotLocked:
		return 6
	case dss.KindNoDevice:
		return 7
	case dss.KindTransport:
		return 8
	default:
		return 1
	}
}

func init() {
	logger.Init(logger.Config{Level: "INFO", Format: "text", Output: "stderr"})
}
