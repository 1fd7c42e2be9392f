package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"property-desk/internal/models"
)

func ValidateCmd(open DBOpener) *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Validate all migrations",
		Long:  `Checks that the registered migrations are well formed and, once they are all applied, that every model maps onto an existing table and column.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			migrator, err := getMigrator(open)
			if err != nil {
				return err
			}

			if err := migrator.Validate(); err != nil {
				return fmt.Errorf("validation failed: %w", err)
			}

			pending, err := migrator.Pending(cmd.Context())
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if len(pending) > 0 {
				fmt.Fprintf(out, "All migrations are valid (%d pending, schema not checked)\n", len(pending))
				return nil
			}

			drift, err := migrator.VerifySchema(cmd.Context(), models.ModelTypeRegistry)
			if err != nil {
				return err
			}
			if len(drift) > 0 {
				return fmt.Errorf("schema does not match models:\n  %s", strings.Join(drift, "\n  "))
			}

			fmt.Fprintln(out, "All migrations are valid")
			return nil
		},
	}
}
