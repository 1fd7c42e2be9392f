package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"property-desk/internal/config"
	"property-desk/internal/migration/commands"
)

func main() {
	// Load .env file if present
	_ = godotenv.Load()

	rootCmd := &cobra.Command{
		Use:   "property-desk",
		Short: "Tenant directory and maintenance request service",
	}

	rootCmd.AddCommand(
		serveCmd(),
		commands.MigrateCmd(openDB),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// openDB connects using the environment configuration
func openDB() (*gorm.DB, error) {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return config.OpenDB(cfg)
}
