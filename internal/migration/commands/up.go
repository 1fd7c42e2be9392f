package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

func UpCmd(open DBOpener) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "up",
		Short: "Apply all pending migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			dryRun, _ := cmd.Flags().GetBool("dry-run")
			out := cmd.OutOrStdout()

			migrator, err := getMigrator(open)
			if err != nil {
				return err
			}

			pending, err := migrator.Pending(cmd.Context())
			if err != nil {
				return err
			}

			if len(pending) == 0 {
				fmt.Fprintln(out, "No pending migrations.")
				return nil
			}

			if dryRun {
				fmt.Fprintln(out, "Pending migrations:")
				for _, mr := range pending {
					fmt.Fprintf(out, "- %s (%s)\n", mr.Name, mr.Version)
				}
				return nil
			}

			applied, err := migrator.Up(cmd.Context())
			for _, mr := range applied {
				fmt.Fprintf(out, "Successfully applied migration: %s (%s)\n", mr.Name, mr.Version)
			}
			return err
		},
	}

	cmd.Flags().Bool("dry-run", false, "Show pending migrations without executing them")

	return cmd
}
