// Package report builds human-readable views of the catalog: per-product
// rows with resolved category labels and rupiah formatting, and the
// aggregate inventory summary.
package report

import (
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"

	"kasir-backoffice/internal/domain"
	"kasir-backoffice/internal/finance"
)

// Row is one rendered product line. Monetary columns are preformatted
// strings so templates and CSV writers do not repeat locale logic.
type Row struct {
	ID              string `json:"id"`
	Name            string `json:"name"`
	Category        string `json:"category"`
	Price           string `json:"price"`
	DiscountedPrice string `json:"discounted_price"`
	Profit          string `json:"profit"`
	Stock           int    `json:"stock"`
	Status          string `json:"status"`
}

// Summary aggregates the whole collection.
type Summary struct {
	TotalItems          int    `json:"total_items"`
	TotalInventoryValue string `json:"total_inventory_value"`
	LowStockCount       int    `json:"low_stock_count"`
}

// Renderer turns prepared rows into a printable artifact. The core only
// supplies the rows; formatting lives behind this seam.
type Renderer interface {
	Render(rows []Row, summary Summary) ([]byte, error)
}

var idPrinter = message.NewPrinter(language.Indonesian)

// FormatIDR renders an amount the way the cashier screens show it,
// e.g. "Rp12.000". Fractions are dropped; prices are whole rupiah.
func FormatIDR(amount decimal.Decimal) string {
	return idPrinter.Sprintf("Rp%v", number.Decimal(amount.IntPart()))
}

// Rows renders every product against the known categories. Products whose
// category is missing from the list keep the raw category ID as the label.
func Rows(products []domain.Product, categories []domain.Category) []Row {
	labels := make(map[string]string, len(categories))
	for _, c := range categories {
		labels[c.ID] = c.Name
	}

	rows := make([]Row, 0, len(products))
	for _, p := range products {
		label, ok := labels[p.CategoryID]
		if !ok {
			label = p.CategoryID
		}

		rows = append(rows, Row{
			ID:              p.ID,
			Name:            p.Name,
			Category:        label,
			Price:           FormatIDR(p.Price),
			DiscountedPrice: FormatIDR(finance.DiscountedPrice(p.Price, p.Discount)),
			Profit:          FormatIDR(finance.Profit(p.Price, p.CostPrice, p.Discount)),
			Stock:           p.Stock,
			Status:          string(finance.StockStatus(p.Stock)),
		})
	}

	return rows
}

// Summarize computes the aggregate counters shown on the dashboard header.
// Inventory value is price times stock summed over all products. The low
// stock counter uses a strict threshold, so exactly 10 does not count.
func Summarize(products []domain.Product) Summary {
	total := decimal.Zero
	lowStock := 0

	for _, p := range products {
		total = total.Add(p.Price.Mul(decimal.NewFromInt(int64(p.Stock))))
		if p.Stock < finance.LowStockThreshold {
			lowStock++
		}
	}

	return Summary{
		TotalItems:          len(products),
		TotalInventoryValue: FormatIDR(total),
		LowStockCount:       lowStock,
	}
}
