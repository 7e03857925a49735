package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/rupeeledger/rupeeledger/internal/config"
	"github.com/rupeeledger/rupeeledger/internal/storage"
)

func migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Run database migrations",
		Long: `Bring the database schema up to the current version. Other commands
migrate automatically on startup; this exists for explicit upgrades and
scripting.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			dbPath := viper.GetString("database.path")
			if dbPath == "" {
				dbPath = config.DefaultDBPath
			}
			dbPath = config.ExpandPath(dbPath)

			store, err := storage.NewSQLiteStorage(dbPath)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			if err := store.Migrate(ctx); err != nil {
				return fmt.Errorf("migration failed: %w", err)
			}
			if err := store.SeedDefaultCategories(ctx); err != nil {
				return fmt.Errorf("failed to seed default categories: %w", err)
			}

			fmt.Printf("Database at %s is at schema version %d.\n", dbPath, storage.ExpectedSchemaVersion)
			return nil
		},
	}
}
