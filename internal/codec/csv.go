// Package codec serializes the product collection to and from the two flat
// CSV layouts the back office exchanges with spreadsheets. Fields are joined
// and split by bare commas: the dialect does not escape delimiters embedded
// in text fields, preserving the behavior of the format already in
// circulation. Rows with embedded commas will shift columns on re-import.
package codec

import (
	"strconv"
	"strings"
	"time"

	"kasir-backoffice/internal/domain"

	"github.com/shopspring/decimal"
)

// Download filenames offered for each export variant.
const (
	DataFileName  = "data_barang.csv"
	StockFileName = "stok_barang.csv"
)

// StockHeader is the first line of a variant B file.
const StockHeader = "PhotoRef,Name,CategoryID,Price,Stock"

// ExportData renders variant A: one unquoted, headerless row per product in
// the order Name, CategoryID, Price, CostPrice, Stock, Discount.
func ExportData(products []domain.Product) string {
	rows := make([]string, len(products))
	for i, p := range products {
		rows[i] = strings.Join([]string{
			p.Name,
			p.CategoryID,
			p.Price.String(),
			p.CostPrice.String(),
			strconv.Itoa(p.Stock),
			p.Discount.String(),
		}, ",")
	}
	return strings.Join(rows, "\n")
}

// ImportData parses variant A content. Every non-blank line is a data row;
// each row gets a fresh temporary local ID and numeric columns fall back to
// zero when they do not parse. The result is meant to replace the collection
// wholesale; no remote call is involved.
func ImportData(content string) []domain.Product {
	lines := strings.Split(content, "\n")

	products := make([]domain.Product, 0, len(lines))
	for _, line := range lines {
		if strings.TrimSpace(line) == "" {
			continue
		}
		cols := strings.Split(line, ",")

		products = append(products, domain.Product{
			ID:         domain.NewLocalID(),
			Name:       col(cols, 0),
			CategoryID: col(cols, 1),
			Price:      parseDecimal(col(cols, 2)),
			CostPrice:  parseDecimal(col(cols, 3)),
			Stock:      parseInt(col(cols, 4)),
			Discount:   parseDecimal(col(cols, 5)),
		})
	}
	return products
}

// ExportStock renders variant B: a header line followed by one row per
// product in the order PhotoRef, Name, CategoryID, Price, Stock. Text
// columns are wrapped in double quotes; the quotes are decoration, not
// escaping.
func ExportStock(products []domain.Product) string {
	rows := make([]string, 0, len(products)+1)
	rows = append(rows, StockHeader)
	for _, p := range products {
		rows = append(rows, strings.Join([]string{
			quote(p.PhotoRef),
			quote(p.Name),
			quote(p.CategoryID),
			p.Price.String(),
			strconv.Itoa(p.Stock),
		}, ","))
	}
	return strings.Join(rows, "\n")
}

// ImportStock parses variant B content: blank lines are dropped, the first
// remaining line is treated as the header and skipped, surrounding quotes are
// stripped from text columns, and every row is stamped with a fresh local ID
// and the current time.
func ImportStock(content string) []domain.Product {
	lines := make([]string, 0)
	for _, line := range strings.Split(content, "\n") {
		if strings.TrimSpace(line) != "" {
			lines = append(lines, line)
		}
	}
	if len(lines) > 0 {
		lines = lines[1:]
	}

	now := time.Now()
	products := make([]domain.Product, 0, len(lines))
	for _, line := range lines {
		cols := strings.Split(line, ",")

		products = append(products, domain.Product{
			ID:          domain.NewLocalID(),
			PhotoRef:    unquote(col(cols, 0)),
			Name:        unquote(col(cols, 1)),
			CategoryID:  unquote(col(cols, 2)),
			Price:       parseDecimal(col(cols, 3)),
			Stock:       parseInt(col(cols, 4)),
			LastUpdated: now,
		})
	}
	return products
}

func col(cols []string, i int) string {
	if i < len(cols) {
		return cols[i]
	}
	return ""
}

func parseDecimal(s string) decimal.Decimal {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return decimal.Zero
	}
	return d
}

func parseInt(s string) int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0
	}
	return n
}

func quote(s string) string {
	return `"` + s + `"`
}

func unquote(s string) string {
	return strings.ReplaceAll(s, `"`, "")
}
