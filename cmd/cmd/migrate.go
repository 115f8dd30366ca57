package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"careerly/internal/config"
	"careerly/internal/persistence"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or update the Postgres schema",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}
		if cfg.Database.URL == "" {
			return fmt.Errorf("database.url is not configured; the local SQLite store migrates itself on open")
		}

		db, err := persistence.NewPostgresDB(cfg.Database.URL)
		if err != nil {
			return err
		}
		defer db.Close()

		if err := db.Migrate(context.Background()); err != nil {
			return err
		}
		fmt.Println("migrations applied")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(migrateCmd)
}
