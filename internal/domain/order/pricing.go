package order

import "github.com/shopspring/decimal"

// Discount policy: two additive tiers, 0.15 combined at most.
var (
	subtotalThreshold = decimal.NewFromInt(500)
	subtotalDiscount  = decimal.RequireFromString("0.10")
	distinctDiscount  = decimal.RequireFromString("0.05")
)

// distinctProductThreshold is the number of distinct products a line set
// must exceed to earn the variety discount.
const distinctProductThreshold = 5

// Pricing is the outcome of pricing a line set.
type Pricing struct {
	Subtotal     decimal.Decimal
	DiscountRate decimal.Decimal
	Total        decimal.Decimal
}

// price computes the order total for an already-resolved line set. The
// subtotal is exact decimal arithmetic over quantity × snapshotted unit
// price; the discount rate adds 0.10 when the subtotal exceeds 500 and a
// further 0.05 when more than five distinct products appear. The total is
// rounded to 2 decimal places to match the NUMERIC(18,2) columns.
func price(lines []Line) Pricing {
	subtotal := decimal.Zero
	distinct := make(map[int64]struct{}, len(lines))
	for _, l := range lines {
		qty := decimal.NewFromInt(int64(l.Quantity))
		subtotal = subtotal.Add(l.UnitPrice.Mul(qty))
		distinct[l.ProductID] = struct{}{}
	}

	rate := decimal.Zero
	if subtotal.GreaterThan(subtotalThreshold) {
		rate = rate.Add(subtotalDiscount)
	}
	if len(distinct) > distinctProductThreshold {
		rate = rate.Add(distinctDiscount)
	}

	total := subtotal.Mul(decimal.NewFromInt(1).Sub(rate)).Round(2)

	return Pricing{
		Subtotal:     subtotal,
		DiscountRate: rate,
		Total:        total,
	}
}
