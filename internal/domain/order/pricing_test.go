package order

import (
	"fmt"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func line(productID int64, qty int, unitPrice string) Line {
	return Line{
		ProductID: productID,
		Quantity:  qty,
		UnitPrice: decimal.RequireFromString(unitPrice),
	}
}

// sameProductLines builds n lines for the same product.
func sameProductLines(qty int, unitPrice string) []Line {
	return []Line{line(1, qty, unitPrice)}
}

// distinctLines builds one line each for n distinct products.
func distinctLines(n int, qty int, unitPrice string) []Line {
	lines := make([]Line, n)
	for i := range lines {
		lines[i] = line(int64(i+1), qty, unitPrice)
	}
	return lines
}

func TestPrice_DiscountTiers(t *testing.T) {
	tests := []struct {
		name     string
		lines    []Line
		subtotal string
		rate     string
		total    string
	}{
		{
			name:     "below both thresholds",
			lines:    sameProductLines(5, "100.00"),
			subtotal: "500.00",
			rate:     "0",
			total:    "500.00",
		},
		{
			name:     "subtotal over 500",
			lines:    sameProductLines(6, "100.00"),
			subtotal: "600.00",
			rate:     "0.10",
			total:    "540.00",
		},
		{
			name:     "exactly five distinct products",
			lines:    distinctLines(5, 1, "10.00"),
			subtotal: "50.00",
			rate:     "0",
			total:    "50.00",
		},
		{
			name:     "more than five distinct products",
			lines:    distinctLines(6, 1, "10.00"),
			subtotal: "60.00",
			rate:     "0.05",
			total:    "57.00",
		},
		{
			name:     "both tiers combined",
			lines:    distinctLines(6, 1, "100.00"),
			subtotal: "600.00",
			rate:     "0.15",
			total:    "510.00",
		},
		{
			name: "550 subtotal gets 10 percent off",
			lines: []Line{
				line(1, 3, "100.00"),
				line(2, 1, "250.00"),
			},
			subtotal: "550.00",
			rate:     "0.10",
			total:    "495.00",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := price(tt.lines)
			assert.True(t, decimal.RequireFromString(tt.subtotal).Equal(p.Subtotal),
				"subtotal: got %s", p.Subtotal)
			assert.True(t, decimal.RequireFromString(tt.rate).Equal(p.DiscountRate),
				"rate: got %s", p.DiscountRate)
			assert.True(t, decimal.RequireFromString(tt.total).Equal(p.Total),
				"total: got %s", p.Total)
		})
	}
}

func TestPrice_RepeatedProductCountsOnce(t *testing.T) {
	// Six lines but only two distinct products: no variety discount.
	lines := []Line{
		line(1, 1, "10.00"), line(1, 1, "10.00"), line(1, 1, "10.00"),
		line(2, 1, "10.00"), line(2, 1, "10.00"), line(2, 1, "10.00"),
	}
	p := price(lines)
	assert.True(t, decimal.Zero.Equal(p.DiscountRate))
	assert.True(t, decimal.RequireFromString("60.00").Equal(p.Total))
}

func TestPrice_ExactDecimalArithmetic(t *testing.T) {
	// 3 × 0.10 must be exactly 0.30, not a float approximation.
	p := price(sameProductLines(3, "0.10"))
	assert.Equal(t, "0.30", p.Total.StringFixed(2))
}

func TestPrice_TotalRoundedToCents(t *testing.T) {
	// 501.01 × 0.90 = 450.909 → 450.91.
	p := price(sameProductLines(1, "501.01"))
	assert.Equal(t, "450.91", p.Total.StringFixed(2))
}

func TestPrice_RateNeverExceedsCap(t *testing.T) {
	for n := 6; n <= 30; n += 6 {
		p := price(distinctLines(n, 10, "100.00"))
		assert.True(t, p.DiscountRate.LessThanOrEqual(decimal.RequireFromString("0.15")),
			fmt.Sprintf("rate for %d products: %s", n, p.DiscountRate))
	}
}
