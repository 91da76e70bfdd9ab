package pricing

import (
	"velora/models"

	"github.com/shopspring/decimal"
)

// LineSubtotal is unit price times quantity, rounded to two places.
func LineSubtotal(unitPrice float64, quantity int) float64 {
	return round2(decimal.NewFromFloat(unitPrice).Mul(decimal.NewFromInt(int64(quantity))))
}

// CartSubtotal sums the line subtotals of the given items.
func CartSubtotal(items []models.LineItem) float64 {
	sum := decimal.Zero
	for _, it := range items {
		sum = sum.Add(decimal.NewFromFloat(it.Subtotal))
	}
	return round2(sum)
}

// Totals is the computed money breakdown of an order.
type Totals struct {
	Subtotal    float64
	DeliveryFee float64
	Tax         float64
	Discount    float64
	Total       float64
}

// OrderTotals computes subtotal from the line items, tax as a percentage of
// the subtotal, and total = subtotal + delivery fee + tax - discount,
// floored at zero.
func OrderTotals(items []models.LineItem, deliveryFee, taxRate, discount float64) Totals {
	subtotal := decimal.NewFromFloat(CartSubtotal(items))
	fee := decimal.NewFromFloat(deliveryFee)
	tax := subtotal.Mul(decimal.NewFromFloat(taxRate)).Div(decimal.NewFromInt(100)).Round(2)
	disc := decimal.NewFromFloat(discount)

	total := subtotal.Add(fee).Add(tax).Sub(disc)
	if total.IsNegative() {
		total = decimal.Zero
	}

	return Totals{
		Subtotal:    round2(subtotal),
		DeliveryFee: round2(fee),
		Tax:         round2(tax),
		Discount:    round2(disc),
		Total:       round2(total),
	}
}
