// Package commands implements the phobosctl command tree: lock
// administration, medium location, and log maintenance over the DSS
// catalog.
package commands

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/cea-hpc/phobos-dss/cmd/phobosctl/cmdutil"
)

var (
	// Version information injected at build time.
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)

var rootCmd = &cobra.Command{
	Use:   "phobosctl",
	Short: "Phobos DSS administration tool",
	Long: `phobosctl is the administration client for the Phobos distributed
state service catalog: cluster lock status and cleanup, medium location,
and log maintenance.

Destructive lock-clean operations refuse to run while a local LRS daemon
appears to be online unless --force is given.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		cmdutil.Flags.ConfigPath, _ = cmd.Flags().GetString("config")
		cmdutil.Flags.Output, _ = cmd.Flags().GetString("output")
		cmdutil.Flags.Force, _ = cmd.Flags().GetBool("force")
		cmdutil.Flags.SocketPath, _ = cmd.Flags().GetString("socket")
	},
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// GetRootCmd returns the root command, for testing.
func GetRootCmd() *cobra.Command {
	return rootCmd
}

func init() {
	rootCmd.PersistentFlags().String("config", "", "Path to config file (default: $XDG_CONFIG_HOME/phobos-dss/config.yaml)")
	rootCmd.PersistentFlags().StringP("output", "o", "table", "Output format (table|json)")
	rootCmd.PersistentFlags().Bool("force", false, "Bypass the daemon-online guard on destructive operations")
	rootCmd.PersistentFlags().String("socket", "", "LRS daemon control socket used for the daemon-online check")

	rootCmd.AddCommand(lockCmd)
	rootCmd.AddCommand(locateCmd)
	rootCmd.AddCommand(logsCmd)
	rootCmd.AddCommand(versionCmd)

	rootCmd.CompletionOptions.DisableDefaultCmd = true
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print phobosctl version information",
	RunE: func(cmd *cobra.Command, args []string) error {
		cmd.Printf("phobosctl %s (commit %s, built %s)\n", Version, Commit, Date)
		return nil
	},
}

// PrintErr prints an error message to stderr.
func PrintErr(format string, args ...any) {
	rootCmd.PrintErrf(format+"\n", args...)
}

// Exit prints an error and exits with code 1.
func Exit(format string, args ...any) {
	PrintErr(format, args...)
	os.Exit(1)
}
