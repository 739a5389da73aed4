// Schema Generator
//
// Generates JSON Schema files from the Go API types so clients can validate
// requests and responses.
//
// Usage:
//
//	go run ./cmd/schema-gen [output-dir]
//
// Output:
//
//	schemas/basket.json
//	schemas/prices.json
//	schemas/catalog.json
package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/invopop/jsonschema"

	"github.com/smartbasket/basket-service/internal/catalog"
	"github.com/smartbasket/basket-service/internal/comparison"
	"github.com/smartbasket/basket-service/internal/handlers"
	"github.com/smartbasket/basket-service/internal/pricing"
)

// SchemaGroup represents a group of related schemas
type SchemaGroup struct {
	Name   string
	Types  []any
	Output string
}

func schemaGroups() []SchemaGroup {
	return []SchemaGroup{
		{
			Name: "basket",
			Types: []any{
				handlers.CompareRequest{},
				comparison.BasketItemInfo{},
				comparison.StoreItemPriceInfo{},
				comparison.StoreComparisonResult{},
				comparison.BasketComparisonResponse{},
			},
			Output: "basket.json",
		},
		{
			Name: "prices",
			Types: []any{
				pricing.PriceUpdate{},
				handlers.BatchPriceRequest{},
				pricing.BatchEntry{},
				pricing.BatchResult{},
				catalog.StorePrice{},
				handlers.PriceHistoryResponse{},
			},
			Output: "prices.json",
		},
		{
			Name: "catalog",
			Types: []any{
				handlers.StoreListResponse{},
				handlers.ReferenceItemListResponse{},
				handlers.StoreItemListResponse{},
			},
			Output: "catalog.json",
		},
	}
}

func main() {
	outputDir := "schemas"
	if len(os.Args) > 1 {
		outputDir = os.Args[1]
	}

	if err := os.MkdirAll(outputDir, 0755); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create output directory: %v\n", err)
		os.Exit(1)
	}

	for _, group := range schemaGroups() {
		schema := generateGroupSchema(group)
		outputPath := filepath.Join(outputDir, group.Output)

		if err := writeSchema(schema, outputPath); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to write %s: %v\n", group.Output, err)
			os.Exit(1)
		}

		fmt.Printf("Generated %s\n", outputPath)
	}

	fmt.Println("Schema generation complete!")
}

// generateGroupSchema creates a combined schema with all types in a group
func generateGroupSchema(group SchemaGroup) map[string]any {
	reflector := &jsonschema.Reflector{}

	definitions := make(map[string]any)
	for _, t := range group.Types {
		schema := reflector.Reflect(t)
		for name, def := range schema.Definitions {
			definitions[name] = def
		}
	}

	return map[string]any{
		"$schema":     "https://json-schema.org/draft/2020-12/schema",
		"$id":         fmt.Sprintf("https://smartbasket.app/schemas/%s.json", group.Name),
		"title":       fmt.Sprintf("%s API Types", capitalize(group.Name)),
		"description": fmt.Sprintf("JSON Schema for %s API types generated from Go structs", group.Name),
		"$defs":       definitions,
	}
}

// writeSchema writes a schema to a JSON file
func writeSchema(schema map[string]any, path string) error {
	data, err := json.MarshalIndent(schema, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal schema: %w", err)
	}

	return os.WriteFile(path, data, 0644)
}

func capitalize(s string) string {
	if len(s) == 0 {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
