package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

func InitCmd(open DBOpener) *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Initialize migration tracking table in the database",
		RunE: func(cmd *cobra.Command, args []string) error {
			migrator, err := getMigrator(open)
			if err != nil {
				return err
			}

			if err := migrator.EnsureVersionTable(cmd.Context()); err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), "Migration system initialized successfully")
			return nil
		},
	}
}
