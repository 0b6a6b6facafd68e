package commands

import (
	"context"
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/cea-hpc/phobos-dss/cmd/phobosctl/cmdutil"
	"github.com/cea-hpc/phobos-dss/pkg/dss"
	"github.com/cea-hpc/phobos-dss/pkg/dss/lock"
)

var lockCmd = &cobra.Command{
	Use:   "lock",
	Short: "Inspect and administer cluster locks",
}

func init() {
	lockCmd.AddCommand(lockStatusCmd)
	lockCmd.AddCommand(lockCleanDevicesCmd)
	lockCmd.AddCommand(lockCleanMediaCmd)
	lockCmd.AddCommand(lockCleanSelectCmd)
	lockCmd.AddCommand(lockCleanAllCmd)

	lockStatusCmd.Flags().String("kind", "", "Entity kind of the ids given (object|device|medium)")

	lockCleanDevicesCmd.Flags().String("family", "", "Device family to clean (required)")
	lockCleanDevicesCmd.Flags().String("hostname", "", "Hostname to keep locks for (required)")
	lockCleanDevicesCmd.Flags().Int("pid", 0, "Pid to keep locks for")
	_ = lockCleanDevicesCmd.MarkFlagRequired("family")
	_ = lockCleanDevicesCmd.MarkFlagRequired("hostname")

	lockCleanMediaCmd.Flags().String("hostname", "", "Hostname whose media locks are swept (required)")
	lockCleanMediaCmd.Flags().Int("pid", 0, "Pid whose media locks are swept")
	_ = lockCleanMediaCmd.MarkFlagRequired("hostname")

	lockCleanSelectCmd.Flags().String("hostname", "", "Restrict to locks held by this hostname")
	lockCleanSelectCmd.Flags().String("kind", "", "Restrict to this entity kind (device|medium)")
	lockCleanSelectCmd.Flags().String("family", "", "Restrict to this family (requires --kind)")
}

type lockRow struct {
	Kind       string `json:"kind"`
	Identity   string `json:"identity"`
	Hostname   string `json:"hostname"`
	PID        int    `json:"pid"`
	AcquiredAt string `json:"acquired_at"`
	LastLocate string `json:"last_locate"`
}

func lockRows(locks []*dss.Lock) []lockRow {
	rows := make([]lockRow, 0, len(locks))
	for _, l := range locks {
		if l == nil {
			continue
		}
		rows = append(rows, lockRow{
			Kind:       string(l.EntityKind),
			Identity:   l.Identity,
			Hostname:   l.Owner.Hostname,
			PID:        l.Owner.PID,
			AcquiredAt: l.AcquiredAt.Format("2006-01-02T15:04:05Z07:00"),
			LastLocate: l.LastLocate.Format("2006-01-02T15:04:05Z07:00"),
		})
	}
	return rows
}

func renderLockRows(rows []lockRow) error {
	table := cmdutil.NewTableData("KIND", "IDENTITY", "HOSTNAME", "PID", "ACQUIRED_AT", "LAST_LOCATE")
	for _, r := range rows {
		table.AddRow(r.Kind, r.Identity, r.Hostname, strconv.Itoa(r.PID), r.AcquiredAt, r.LastLocate)
	}
	return cmdutil.Render(os.Stdout, table, rows)
}

var lockStatusCmd = &cobra.Command{
	Use:   "status <identity>...",
	Short: "Show lock status for one or more entity identities",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		kind, _ := cmd.Flags().GetString("kind")
		if kind == "" {
			kind = string(dss.KindMedium)
		}

		app, err := cmdutil.Open(cmd.Context())
		if err != nil {
			return err
		}
		defer app.Close()

		items := make([]lock.Item, len(args))
		for i, id := range args {
			items[i] = lock.Item{Kind: dss.EntityKind(kind), Identity: id}
		}

		status, err := app.Locks.Status(cmd.Context(), items)
		if err != nil {
			return err
		}
		return renderLockRows(lockRows(status))
	},
}

func runClean(ctx context.Context, entity dss.EntityKind, cleanFn func(*cmdutil.App) (int, error)) error {
	if err := cmdutil.GuardDestructive(entity); err != nil {
		return err
	}
	app, err := cmdutil.Open(ctx)
	if err != nil {
		return err
	}
	defer app.Close()

	removed, err := cleanFn(app)
	if err != nil {
		return err
	}
	fmt.Fprintf(os.Stdout, "removed %d lock(s)\n", removed)
	return nil
}

var lockCleanDevicesCmd = &cobra.Command{
	Use:   "clean-devices",
	Short: "Drop stale device locks not held by the given (hostname, pid)",
	RunE: func(cmd *cobra.Command, args []string) error {
		family, _ := cmd.Flags().GetString("family")
		hostname, _ := cmd.Flags().GetString("hostname")
		pid, _ := cmd.Flags().GetInt("pid")

		return runClean(cmd.Context(), dss.KindDevice, func(app *cmdutil.App) (int, error) {
			return app.Locks.CleanDevices(cmd.Context(), dss.Family(family), hostname, pid)
		})
	},
}

var lockCleanMediaCmd = &cobra.Command{
	Use:   "clean-media [keep-id...]",
	Short: "Drop media locks held by (hostname, pid) except the ids listed",
	RunE: func(cmd *cobra.Command, args []string) error {
		hostname, _ := cmd.Flags().GetString("hostname")
		pid, _ := cmd.Flags().GetInt("pid")

		return runClean(cmd.Context(), dss.KindMedium, func(app *cmdutil.App) (int, error) {
			return app.Locks.CleanMedia(cmd.Context(), args, hostname, pid)
		})
	},
}

var lockCleanSelectCmd = &cobra.Command{
	Use:   "clean-select [id...]",
	Short: "Drop locks matching hostname/kind/family and, optionally, a set of identities",
	RunE: func(cmd *cobra.Command, args []string) error {
		hostname, _ := cmd.Flags().GetString("hostname")
		kind, _ := cmd.Flags().GetString("kind")
		family, _ := cmd.Flags().GetString("family")

		f := lock.SelectFilter{
			Hostname: hostname,
			Kind:     dss.EntityKind(kind),
			Family:   dss.Family(family),
			IDs:      args,
		}

		return runClean(cmd.Context(), dss.EntityKind(kind), func(app *cmdutil.App) (int, error) {
			return app.Locks.CleanSelect(cmd.Context(), f)
		})
	},
}

var lockCleanAllCmd = &cobra.Command{
	Use:   "clean-all",
	Short: "Drop every lock row in the catalog (disaster recovery)",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runClean(cmd.Context(), "", func(app *cmdutil.App) (int, error) {
			return app.Locks.CleanAll(cmd.Context())
		})
	},
}
