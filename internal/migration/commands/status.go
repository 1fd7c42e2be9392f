package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

func StatusCmd(open DBOpener) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show status of all migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			migrator, err := getMigrator(open)
			if err != nil {
				return err
			}

			statuses, err := migrator.Status(cmd.Context())
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%-16s  %-30s  %-8s\n", "Version", "Name", "Status")
			for _, s := range statuses {
				status := "Pending"
				if s.Applied {
					status = "Applied"
				}
				fmt.Fprintf(out, "%-16s  %-30s  %-8s\n", s.Migration.Version, s.Migration.Name, status)
			}

			return nil
		},
	}
}
