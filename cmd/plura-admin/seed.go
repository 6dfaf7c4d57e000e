package main

import (
	"github.com/spf13/cobra"

	"github.com/plura/dashboard/internal/config"
	"github.com/plura/dashboard/internal/core"
	"github.com/plura/dashboard/internal/db"
	"github.com/plura/dashboard/internal/logging"
	"github.com/plura/dashboard/internal/seed"
)

func seedCmd() *cobra.Command {
	var file string
	var migrate bool

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Load a development fixture into the database",
		Long: "Creates the agencies, users, sub-accounts, access grants and invitations\n" +
			"described in a YAML file. Users are written to the database only; the\n" +
			"identity provider is not contacted.",
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := seed.Load(file)
			if err != nil {
				return err
			}

			cfg, err := config.Load()
			if err != nil {
				return err
			}
			url, err := databaseURL()
			if err != nil {
				return err
			}
			if migrate {
				if err := db.RunMigrations(url); err != nil {
					return err
				}
			}

			logger := logging.NewLogger(cfg)
			ctx := logger.WithContext(cmd.Context())

			pool, err := db.NewPool(ctx, url)
			if err != nil {
				return err
			}
			defer pool.Close()

			svcs := core.NewServices(pool, seed.Offline{}, cfg.InvitationRedirectURL())
			return seed.Apply(ctx, svcs, f)
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "seeds/dev.yaml", "Seed definition YAML file")
	cmd.Flags().BoolVar(&migrate, "migrate", false, "Apply pending migrations first")
	return cmd
}
