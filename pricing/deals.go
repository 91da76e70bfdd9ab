package pricing

import (
	"time"

	"velora/models"

	"github.com/shopspring/decimal"
)

// DealPrice applies a live flash deal to a unit price. Deals outside their
// window, inactive deals and deals not covering the product are inert and
// return the price unchanged. The result never goes below zero.
func DealPrice(unitPrice float64, productID string, deal models.Deal, now time.Time) float64 {
	if !deal.Live(now) || !covers(deal, productID) {
		return unitPrice
	}

	price := decimal.NewFromFloat(unitPrice)
	switch deal.Type {
	case models.DiscountPercentage:
		off := price.Mul(decimal.NewFromFloat(deal.Value)).Div(decimal.NewFromInt(100))
		price = price.Sub(off)
	case models.DiscountFixed:
		price = price.Sub(decimal.NewFromFloat(deal.Value))
	default:
		return unitPrice
	}

	if price.IsNegative() {
		price = decimal.Zero
	}
	return round2(price)
}

func covers(deal models.Deal, productID string) bool {
	for _, id := range deal.ProductIDs {
		if id == productID {
			return true
		}
	}
	return false
}
