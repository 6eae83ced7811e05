package report

import (
	"fmt"
	"strings"
)

// rowsPerPage matches the listing page size used across the back office.
const rowsPerPage = 10

// TextRenderer produces the plain-text inventory report handed to operators
// for printing. Rows are laid out in pages with a repeated column header.
type TextRenderer struct {
	Title string
}

func NewTextRenderer() *TextRenderer {
	return &TextRenderer{Title: "Laporan Data Barang"}
}

func (r *TextRenderer) Render(rows []Row, summary Summary) ([]byte, error) {
	var b strings.Builder

	totalPages := (len(rows) + rowsPerPage - 1) / rowsPerPage
	if totalPages == 0 {
		totalPages = 1
	}

	for page := 0; page < totalPages; page++ {
		start := page * rowsPerPage
		end := start + rowsPerPage
		if end > len(rows) {
			end = len(rows)
		}

		fmt.Fprintf(&b, "%s\n", r.Title)
		fmt.Fprintf(&b, "Halaman %d dari %d\n\n", page+1, totalPages)
		fmt.Fprintf(&b, "%-30s %-20s %15s %15s %8s %-12s\n",
			"Nama", "Kategori", "Harga", "Harga Jual", "Stok", "Status")
		fmt.Fprintln(&b, strings.Repeat("-", 104))

		for _, row := range rows[start:end] {
			fmt.Fprintf(&b, "%-30s %-20s %15s %15s %8d %-12s\n",
				truncate(row.Name, 30),
				truncate(row.Category, 20),
				row.Price,
				row.DiscountedPrice,
				row.Stock,
				row.Status,
			)
		}

		b.WriteString("\n")
	}

	fmt.Fprintf(&b, "Total barang: %d\n", summary.TotalItems)
	fmt.Fprintf(&b, "Nilai persediaan: %s\n", summary.TotalInventoryValue)
	fmt.Fprintf(&b, "Stok menipis: %d\n", summary.LowStockCount)

	return []byte(b.String()), nil
}

func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max])
}
