package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

func DownCmd(open DBOpener) *cobra.Command {
	return &cobra.Command{
		Use:   "down",
		Short: "Revert the last migration",
		RunE: func(cmd *cobra.Command, args []string) error {
			migrator, err := getMigrator(open)
			if err != nil {
				return err
			}

			reverted, err := migrator.Down(cmd.Context())
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Successfully reverted migration: %s (%s)\n", reverted.Name, reverted.Version)
			return nil
		},
	}
}
