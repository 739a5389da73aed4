package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/smartbasket/basket-service/internal/comparison"
)

var compareOutput string

// compareCmd represents the compare command
var compareCmd = &cobra.Command{
	Use:   "compare <referenceItemId>...",
	Short: "Compare a basket across all active stores",
	Long: `Price the given reference items at every active store and print the stores
ranked by missing items, then by total price.`,
	Example: `  basket-service compare milk bread eggs
  basket-service compare milk bread --output json
  basket-service compare milk --catalog-file ./testdata/catalog.json`,
	Args: cobra.MinimumNArgs(1),
	RunE: runCompare,
}

func init() {
	rootCmd.AddCommand(compareCmd)

	compareCmd.Flags().StringVar(&compareOutput, "output", "table", "Output format: table or json")
}

func runCompare(cmd *cobra.Command, args []string) error {
	if len(args) > cfg.Comparison.MaxBasketItems {
		return fmt.Errorf("basket exceeds %d items", cfg.Comparison.MaxBasketItems)
	}

	ctx := cmd.Context()
	store, closeCatalog, err := openCatalog(ctx)
	if err != nil {
		return err
	}
	defer closeCatalog()

	comparator := comparison.NewComparator(store, &cfg.Comparison, nil)
	resp, err := comparator.CompareBasket(ctx, args)
	if err != nil {
		return fmt.Errorf("comparison failed: %w", err)
	}

	switch compareOutput {
	case "json":
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(resp)
	case "table":
		return printComparison(cmd.OutOrStdout(), resp)
	default:
		fmt.Fprintf(os.Stderr, "unknown output format %q, using table\n", compareOutput)
		return printComparison(cmd.OutOrStdout(), resp)
	}
}

func printComparison(out io.Writer, resp *comparison.BasketComparisonResponse) error {
	fmt.Fprintf(out, "Basket: %d item(s)\n\n", len(resp.BasketItems))

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "RANK\tSTORE\tTOTAL\tAVAILABLE\tMISSING")
	for i, r := range resp.StoreComparisons {
		fmt.Fprintf(w, "%d\t%s\t%.2f %s\t%d/%d\t%v\n",
			i+1, r.StoreName, r.TotalPrice, r.Currency, r.AvailableItemCount, r.TotalItemCount, r.MissingItems)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	fmt.Fprintln(out)
	if resp.CheapestStoreName != nil {
		fmt.Fprintf(out, "Cheapest complete basket: %s (%.2f)\n", *resp.CheapestStoreName, resp.LowestTotal)
		fmt.Fprintf(out, "Potential savings: %.2f\n", resp.PotentialSavings)
	} else {
		fmt.Fprintln(out, "No store carries the whole basket")
	}
	return nil
}
