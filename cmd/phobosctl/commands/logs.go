package commands

import (
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/cea-hpc/phobos-dss/cmd/phobosctl/cmdutil"
	"github.com/cea-hpc/phobos-dss/pkg/dss"
	"github.com/cea-hpc/phobos-dss/pkg/dss/filter"
)

var logsCmd = &cobra.Command{
	Use:   "logs",
	Short: "Inspect and purge the append-only device/medium action log",
}

func init() {
	logsCmd.AddCommand(logsDumpCmd)
	logsCmd.AddCommand(logsPurgeCmd)

	logsDumpCmd.Flags().String("device", "", "Restrict to this device id")
	logsDumpCmd.Flags().String("medium", "", "Restrict to this medium id")
	logsDumpCmd.Flags().String("family", "", "Restrict to this family")
	logsDumpCmd.Flags().Bool("errors-only", false, "Show only entries with a non-zero errno")

	logsPurgeCmd.Flags().String("device", "", "Restrict to this device id")
	logsPurgeCmd.Flags().String("medium", "", "Restrict to this medium id")
	logsPurgeCmd.Flags().String("family", "", "Restrict to this family")
}

func logPredicate(cmd *cobra.Command) filter.Predicate {
	device, _ := cmd.Flags().GetString("device")
	medium, _ := cmd.Flags().GetString("medium")
	family, _ := cmd.Flags().GetString("family")

	var clauses []filter.Predicate
	if device != "" {
		clauses = append(clauses, filter.Predicate{"device_id": device})
	}
	if medium != "" {
		clauses = append(clauses, filter.Predicate{"medium_id": medium})
	}
	if family != "" {
		clauses = append(clauses, filter.Predicate{"family": family})
	}

	switch len(clauses) {
	case 0:
		return nil
	case 1:
		return clauses[0]
	default:
		return filter.Predicate{"$AND": clauses}
	}
}

var logsDumpCmd = &cobra.Command{
	Use:   "dump",
	Short: "List log entries, optionally filtered by device, medium or family",
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := cmdutil.Open(cmd.Context())
		if err != nil {
			return err
		}
		defer app.Close()

		errorsOnly, _ := cmd.Flags().GetBool("errors-only")

		entries, err := app.Store.ListLogs(cmd.Context(), logPredicate(cmd))
		if err != nil {
			return err
		}

		table := cmdutil.NewTableData("ID", "FAMILY", "DEVICE", "MEDIUM", "ERRNO", "CREATED_AT")
		kept := make([]*dss.Log, 0, len(entries))
		for _, e := range entries {
			if errorsOnly && e.Errno == 0 {
				continue
			}
			kept = append(kept, e)
			table.AddRow(
				strconv.FormatInt(e.ID, 10),
				string(e.Family),
				e.DeviceID,
				e.MediumID,
				strconv.Itoa(e.Errno),
				e.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
			)
		}
		return cmdutil.Render(os.Stdout, table, kept)
	},
}

var logsPurgeCmd = &cobra.Command{
	Use:   "purge",
	Short: "Delete log entries matching the given filters",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := cmdutil.GuardDestructive(""); err != nil {
			return err
		}

		app, err := cmdutil.Open(cmd.Context())
		if err != nil {
			return err
		}
		defer app.Close()

		n, err := app.Store.DeleteLogs(cmd.Context(), logPredicate(cmd))
		if err != nil {
			return err
		}
		fmt.Fprintf(os.Stdout, "deleted %d log entr%s\n", n, plural(n))
		return nil
	},
}

func plural(n int) string {
	if n == 1 {
		return "y"
	}
	return "ies"
}
