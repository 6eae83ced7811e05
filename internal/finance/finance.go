package finance

import "github.com/shopspring/decimal"

// Status classifies a stock level for display
type Status string

const (
	StatusOutOfStock Status = "OutOfStock"
	StatusLowStock   Status = "LowStock"
	StatusInStock    Status = "InStock"
)

// LowStockThreshold is the inclusive upper bound for the LowStock status.
const LowStockThreshold = 10

var hundred = decimal.NewFromInt(100)

// DiscountedPrice returns the price after applying a percentage discount:
// price - price * discountPct / 100.
func DiscountedPrice(price, discountPct decimal.Decimal) decimal.Decimal {
	return price.Sub(price.Mul(discountPct).Div(hundred))
}

// Profit returns the margin left after the discount and the cost price.
func Profit(price, costPrice, discountPct decimal.Decimal) decimal.Decimal {
	return DiscountedPrice(price, discountPct).Sub(costPrice)
}

// StockStatus classifies a stock count. Thresholds are fixed: zero is out of
// stock, anything up to LowStockThreshold is low.
func StockStatus(stock int) Status {
	switch {
	case stock == 0:
		return StatusOutOfStock
	case stock <= LowStockThreshold:
		return StatusLowStock
	default:
		return StatusInStock
	}
}
