package commands

import "github.com/spf13/cobra"

// MigrateCmd groups the schema migration commands
func MigrateCmd(open DBOpener) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Manage the database schema",
	}

	cmd.AddCommand(
		InitCmd(open),
		UpCmd(open),
		DownCmd(open),
		StatusCmd(open),
		HistoryCmd(open),
		ValidateCmd(open),
	)

	return cmd
}
