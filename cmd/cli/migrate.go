package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/smartbasket/basket-service/internal/catalog"
	"github.com/smartbasket/basket-service/internal/database"
)

var migrateSeed string

// migrateCmd represents the migrate command
var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create the catalog tables",
	Long: `Apply the catalog schema to the configured database. With --seed the
stores, reference items and store items of a JSON fixture are upserted afterwards.`,
	Example: `  basket-service migrate
  basket-service migrate --seed ./testdata/catalog.json`,
	RunE: runMigrate,
}

func init() {
	rootCmd.AddCommand(migrateCmd)

	migrateCmd.Flags().StringVar(&migrateSeed, "seed", "", "JSON fixture to load after migrating")
}

func runMigrate(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	if err := initDatabase(ctx); err != nil {
		return fmt.Errorf("database initialization failed: %w", err)
	}
	defer database.Close()

	if err := database.Migrate(ctx, database.Pool()); err != nil {
		return err
	}
	logger.Info().Msg("Schema applied")

	if migrateSeed == "" {
		return nil
	}

	fixture, err := catalog.LoadFixtureFile(migrateSeed)
	if err != nil {
		return err
	}
	if err := database.NewCatalogRepository(database.Pool()).SeedFixture(ctx, fixture); err != nil {
		return err
	}

	logger.Info().
		Int("stores", len(fixture.Stores)).
		Int("reference_items", len(fixture.ReferenceItems)).
		Int("store_items", len(fixture.StoreItems)).
		Msg("Catalog seeded")
	return nil
}
