package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"

	"github.com/smartbasket/basket-service/config"
	"github.com/smartbasket/basket-service/internal/cache"
	"github.com/smartbasket/basket-service/internal/importer"
	"github.com/smartbasket/basket-service/internal/pricing"
)

var (
	importFile   string
	importSheet  string
	importDryRun bool
)

// cacheInvalidator bumps the shared comparison cache version.
type cacheInvalidator struct {
	client *redis.Client
}

func (c cacheInvalidator) Invalidate(ctx context.Context) error {
	return cache.InvalidateCatalog(ctx, c.client)
}

// importCmd represents the import-prices command
var importCmd = &cobra.Command{
	Use:   "import-prices",
	Short: "Import store item prices from an XLSX sheet",
	Long: `Read a price sheet with the columns store_item_id, price, original_price,
currency and is_promotion (header names are case-insensitive) and record every
row as a price update.`,
	Example: `  basket-service import-prices --file ./prices.xlsx
  basket-service import-prices --file ./prices.xlsx --sheet March --dry-run`,
	RunE: runImport,
}

func init() {
	rootCmd.AddCommand(importCmd)

	importCmd.Flags().StringVar(&importFile, "file", "", "XLSX file to import (required)")
	importCmd.Flags().StringVar(&importSheet, "sheet", "", "Sheet name (default: first sheet)")
	importCmd.Flags().BoolVar(&importDryRun, "dry-run", false, "Parse and validate without writing")
	importCmd.MarkFlagRequired("file")
}

func runImport(cmd *cobra.Command, args []string) error {
	file, err := os.Open(importFile)
	if err != nil {
		return fmt.Errorf("failed to open price sheet: %w", err)
	}
	defer file.Close()

	opts := importer.DefaultOptions()
	opts.Sheet = importSheet
	parsed, err := importer.NewParser(opts).Parse(file)
	if err != nil {
		return err
	}

	logger.Info().
		Str("sheet", parsed.Sheet).
		Int("rows", parsed.TotalRows).
		Int("valid", parsed.ValidRows).
		Int("errors", len(parsed.Errors)).
		Msg("Price sheet parsed")
	for _, rowErr := range parsed.Errors {
		logger.Warn().Int("row", rowErr.RowNumber).Str("column", rowErr.Column).Msg(rowErr.Message)
	}

	if importDryRun {
		return printJSON(cmd, parsed)
	}
	if cfg.Catalog.Source == config.CatalogSourceFile {
		return fmt.Errorf("import-prices writes to the database; file catalogs are read-only")
	}

	ctx := cmd.Context()
	store, closeCatalog, err := openCatalog(ctx)
	if err != nil {
		return err
	}
	defer closeCatalog()

	var invalidator pricing.Invalidator
	if client := openRedis(); client != nil {
		defer client.Close()
		invalidator = cacheInvalidator{client: client}
	}

	service := pricing.NewService(store, invalidator, cfg.Comparison.DefaultCurrency)
	result := service.BatchUpdate(ctx, parsed.Updates)

	logger.Info().
		Int("success", result.SuccessCount).
		Int("failed", result.FailureCount).
		Msg("Import complete")

	if err := printJSON(cmd, result); err != nil {
		return err
	}
	if result.FailureCount > 0 {
		return fmt.Errorf("%d price update(s) failed", result.FailureCount)
	}
	return nil
}

func printJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
