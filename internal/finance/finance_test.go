package finance

import (
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/shopspring/decimal"
)

func TestDiscountedPrice(t *testing.T) {
	got := DiscountedPrice(decimal.NewFromInt(100), decimal.NewFromInt(20))
	if !got.Equal(decimal.NewFromInt(80)) {
		t.Errorf("DiscountedPrice(100, 20) = %s, want 80", got)
	}

	// Zero discount leaves the price untouched
	got = DiscountedPrice(decimal.NewFromInt(150), decimal.Zero)
	if !got.Equal(decimal.NewFromInt(150)) {
		t.Errorf("DiscountedPrice(150, 0) = %s, want 150", got)
	}

	// Full discount brings the price to zero
	got = DiscountedPrice(decimal.NewFromInt(150), decimal.NewFromInt(100))
	if !got.Equal(decimal.Zero) {
		t.Errorf("DiscountedPrice(150, 100) = %s, want 0", got)
	}
}

func TestProfit(t *testing.T) {
	got := Profit(decimal.NewFromInt(100), decimal.NewFromInt(60), decimal.NewFromInt(20))
	if !got.Equal(decimal.NewFromInt(20)) {
		t.Errorf("Profit(100, 60, 20) = %s, want 20", got)
	}

	// Selling below cost yields a negative margin
	got = Profit(decimal.NewFromInt(50), decimal.NewFromInt(60), decimal.Zero)
	if !got.Equal(decimal.NewFromInt(-10)) {
		t.Errorf("Profit(50, 60, 0) = %s, want -10", got)
	}
}

func TestStockStatus(t *testing.T) {
	cases := []struct {
		stock int
		want  Status
	}{
		{0, StatusOutOfStock},
		{1, StatusLowStock},
		{5, StatusLowStock},
		{10, StatusLowStock},
		{11, StatusInStock},
		{500, StatusInStock},
	}

	for _, tc := range cases {
		if got := StockStatus(tc.stock); got != tc.want {
			t.Errorf("StockStatus(%d) = %s, want %s", tc.stock, got, tc.want)
		}
	}
}

func TestProperty_ProfitNeverExceedsDiscountedPrice(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("profit equals discounted price minus cost for any inputs", prop.ForAll(
		func(price int64, cost int64, discount int64) bool {
			p := decimal.NewFromInt(price)
			c := decimal.NewFromInt(cost)
			d := decimal.NewFromInt(discount)

			want := DiscountedPrice(p, d).Sub(c)
			return Profit(p, c, d).Equal(want)
		},
		gen.Int64Range(0, 1_000_000),
		gen.Int64Range(0, 1_000_000),
		gen.Int64Range(0, 100),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}
