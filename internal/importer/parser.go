package importer

import (
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/xuri/excelize/v2"

	"github.com/smartbasket/basket-service/internal/pricing"
)

// Parser reads price updates from XLSX workbooks.
type Parser struct {
	options Options
}

// NewParser creates a new XLSX price sheet parser.
func NewParser(options Options) *Parser {
	return &Parser{options: options}
}

// Parse reads the configured sheet. Row level problems are collected in the
// result; only unreadable workbooks and missing required columns are errors.
func (p *Parser) Parse(r io.Reader) (*Result, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	sheet, err := p.selectSheet(f)
	if err != nil {
		return nil, err
	}

	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("failed to read worksheet %q: %w", sheet, err)
	}

	result := &Result{
		Sheet:   sheet,
		Updates: make([]pricing.PriceUpdate, 0),
		Errors:  make([]RowError, 0),
	}
	if len(rows) == 0 {
		return result, nil
	}

	indices, err := buildColumnIndices(rows[0])
	if err != nil {
		return nil, err
	}

	for i := 1; i < len(rows); i++ {
		row := rows[i]
		rowNumber := i + 1

		if p.options.SkipEmptyRows && isEmptyRow(row) {
			continue
		}
		result.TotalRows++

		update, rowErr := mapRow(row, rowNumber, indices)
		if rowErr != nil {
			result.Errors = append(result.Errors, *rowErr)
			continue
		}
		result.Updates = append(result.Updates, *update)
	}
	result.ValidRows = len(result.Updates)

	log.Debug().
		Str("sheet", sheet).
		Int("total_rows", result.TotalRows).
		Int("valid_rows", result.ValidRows).
		Msg("Parsed price sheet")

	return result, nil
}

func (p *Parser) selectSheet(f *excelize.File) (string, error) {
	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return "", fmt.Errorf("workbook has no sheets")
	}
	if p.options.Sheet == "" {
		return sheets[0], nil
	}
	for _, name := range sheets {
		if name == p.options.Sheet {
			return name, nil
		}
	}
	return "", fmt.Errorf("sheet %q not found. Available sheets: %s", p.options.Sheet, strings.Join(sheets, ", "))
}

func buildColumnIndices(headers []string) (*columnIndices, error) {
	indices := &columnIndices{storeItemID: -1, price: -1, originalPrice: -1, currency: -1, isPromotion: -1}

	for i, h := range headers {
		switch strings.ToLower(strings.TrimSpace(h)) {
		case ColumnStoreItemID:
			indices.storeItemID = i
		case ColumnPrice:
			indices.price = i
		case ColumnOriginalPrice:
			indices.originalPrice = i
		case ColumnCurrency:
			indices.currency = i
		case ColumnIsPromotion:
			indices.isPromotion = i
		}
	}

	if indices.storeItemID < 0 {
		return nil, fmt.Errorf("required column %q not found in header", ColumnStoreItemID)
	}
	if indices.price < 0 {
		return nil, fmt.Errorf("required column %q not found in header", ColumnPrice)
	}
	return indices, nil
}

func mapRow(row []string, rowNumber int, idx *columnIndices) (*pricing.PriceUpdate, *RowError) {
	update := &pricing.PriceUpdate{
		StoreItemID: cell(row, idx.storeItemID),
		Currency:    strings.ToUpper(cell(row, idx.currency)),
	}
	if update.StoreItemID == "" {
		return nil, &RowError{RowNumber: rowNumber, Column: ColumnStoreItemID, Message: "missing store item id"}
	}

	price, err := ParsePrice(cell(row, idx.price))
	if err != nil {
		return nil, &RowError{RowNumber: rowNumber, Column: ColumnPrice, Message: err.Error()}
	}
	update.Price = &price

	if raw := cell(row, idx.originalPrice); raw != "" {
		original, err := ParsePrice(raw)
		if err != nil {
			return nil, &RowError{RowNumber: rowNumber, Column: ColumnOriginalPrice, Message: err.Error()}
		}
		update.OriginalPrice = &original
	}

	if raw := cell(row, idx.isPromotion); raw != "" {
		promo, err := parseBool(raw)
		if err != nil {
			return nil, &RowError{RowNumber: rowNumber, Column: ColumnIsPromotion, Message: err.Error()}
		}
		update.IsPromotion = promo
	}

	return update, nil
}

func cell(row []string, index int) string {
	if index < 0 || index >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[index])
}

func isEmptyRow(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

func parseBool(value string) (bool, error) {
	switch strings.ToLower(value) {
	case "1", "true", "yes", "y":
		return true, nil
	case "0", "false", "no", "n":
		return false, nil
	}
	return false, fmt.Errorf("invalid boolean %q", value)
}

// ParsePrice parses a decimal amount. Both "1,234.50" and "1.234,50" are
// accepted; the right-most separator is taken as the decimal point.
func ParsePrice(value string) (float64, error) {
	cleaned := strings.TrimSpace(value)
	if cleaned == "" {
		return 0, fmt.Errorf("empty price value")
	}

	cleaned = strings.Map(func(r rune) rune {
		if r == ' ' || r == '\u00A0' {
			return -1
		}
		return r
	}, cleaned)

	lastDot := strings.LastIndex(cleaned, ".")
	lastComma := strings.LastIndex(cleaned, ",")
	if lastComma > lastDot {
		cleaned = strings.ReplaceAll(cleaned, ".", "")
		cleaned = strings.ReplaceAll(cleaned, ",", ".")
	} else {
		cleaned = strings.ReplaceAll(cleaned, ",", "")
	}

	f, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid price format %q", value)
	}
	if math.IsInf(f, 0) || math.IsNaN(f) {
		return 0, fmt.Errorf("price %q is not a finite number", value)
	}
	return f, nil
}
