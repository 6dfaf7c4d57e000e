package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/plura/dashboard/internal/config"
)

var rootCmd = &cobra.Command{
	Use:   "plura-admin",
	Short: "Operator tasks for the Plura dashboard database",
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if err := godotenv.Overload(); err != nil {
			fmt.Fprintln(os.Stderr, "no .env file loaded, using the environment")
		}
	},
	SilenceUsage: true,
}

func main() {
	rootCmd.AddCommand(migrateCmd(), seedCmd(), tokenCmd())
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// databaseURL returns DATABASE_URL or an error naming it.
func databaseURL() (string, error) {
	cfg, err := config.Load()
	if err != nil {
		return "", err
	}
	if cfg.DatabaseURL == "" {
		return "", fmt.Errorf("missing required config: DATABASE_URL")
	}
	return cfg.DatabaseURL, nil
}
