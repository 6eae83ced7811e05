package report

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func manyRows(n int) []Row {
	rows := make([]Row, 0, n)
	for i := 0; i < n; i++ {
		rows = append(rows, Row{
			Name:            "Produk",
			Category:        "Minuman",
			Price:           "Rp1.000",
			DiscountedPrice: "Rp900",
			Stock:           5,
			Status:          "LowStock",
		})
	}
	return rows
}

func TestTextRendererPaginates(t *testing.T) {
	renderer := NewTextRenderer()

	document, err := renderer.Render(manyRows(23), Summary{TotalItems: 23, TotalInventoryValue: "Rp23.000", LowStockCount: 23})
	require.NoError(t, err)

	text := string(document)
	assert.Equal(t, 3, strings.Count(text, "Laporan Data Barang"))
	assert.Contains(t, text, "Halaman 1 dari 3")
	assert.Contains(t, text, "Halaman 3 dari 3")
	assert.Contains(t, text, "Total barang: 23")
	assert.Contains(t, text, "Nilai persediaan: Rp23.000")
}

func TestTextRendererEmpty(t *testing.T) {
	renderer := NewTextRenderer()

	document, err := renderer.Render(nil, Summary{TotalInventoryValue: "Rp0"})
	require.NoError(t, err)

	text := string(document)
	assert.Contains(t, text, "Halaman 1 dari 1")
	assert.Contains(t, text, "Total barang: 0")
}

func TestTextRendererTruncatesLongNames(t *testing.T) {
	renderer := NewTextRenderer()

	rows := []Row{{Name: strings.Repeat("x", 50), Category: "C", Price: "Rp1", DiscountedPrice: "Rp1"}}
	document, err := renderer.Render(rows, Summary{TotalInventoryValue: "Rp0"})
	require.NoError(t, err)

	assert.NotContains(t, string(document), strings.Repeat("x", 31))
	assert.Contains(t, string(document), strings.Repeat("x", 30))
}
