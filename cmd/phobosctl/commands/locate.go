package commands

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/cea-hpc/phobos-dss/cmd/phobosctl/cmdutil"
)

var locateCmd = &cobra.Command{
	Use:   "locate <family:name|family:library:name>",
	Short: "Resolve a medium to the host currently holding it",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := cmdutil.ParsePhoID(args[0])
		if err != nil {
			return err
		}

		app, err := cmdutil.Open(cmd.Context())
		if err != nil {
			return err
		}
		defer app.Close()

		res, err := app.Locator.Locate(cmd.Context(), id)
		if err != nil {
			return err
		}

		hostname := res.Hostname
		if hostname == "" {
			hostname = "-"
		}

		table := cmdutil.NewTableData("MEDIUM", "HOSTNAME", "ADM_STATUS", "FS_STATUS")
		table.AddRow(id.String(), hostname, string(res.Medium.AdmStatus), string(res.Medium.FSStatus))

		out := struct {
			Medium    string `json:"medium"`
			Hostname  string `json:"hostname"`
			AdmStatus string `json:"adm_status"`
			FSStatus  string `json:"fs_status"`
		}{id.String(), res.Hostname, string(res.Medium.AdmStatus), string(res.Medium.FSStatus)}

		return cmdutil.Render(os.Stdout, table, out)
	},
}
