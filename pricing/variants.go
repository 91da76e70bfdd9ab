// Package pricing holds the money arithmetic for the storefront: variant
// price resolution, cart subtotals, flash-deal pricing and order totals.
// Amounts cross package boundaries as float64 (the wire format) but all
// arithmetic runs on decimals rounded to two places.
package pricing

import (
	"velora/models"

	"github.com/shopspring/decimal"
)

// ResolveUnitPrice returns base price plus the modifiers of the selected
// options. The selection maps attribute id to option id. Unknown attributes
// or options, and options with no modifier, contribute zero. A product with
// no attributes resolves to its base price. Selection order is irrelevant:
// the attributes slice drives the walk.
func ResolveUnitPrice(base float64, attrs []models.VariantAttribute, selected map[string]string) float64 {
	price := decimal.NewFromFloat(base)
	if len(attrs) == 0 || len(selected) == 0 {
		return round2(price)
	}
	for _, attr := range attrs {
		optionID, ok := selected[attr.AttributeID]
		if !ok {
			continue
		}
		for _, opt := range attr.Options {
			if opt.OptionID == optionID {
				price = price.Add(decimal.NewFromFloat(opt.PriceModifier))
				break
			}
		}
	}
	return round2(price)
}

// Selectable reports whether an option can be chosen. Zero-stock options are
// rendered but not selectable.
func Selectable(opt models.VariantOption) bool {
	return opt.Stock > 0
}

func round2(d decimal.Decimal) float64 {
	f, _ := d.Round(2).Float64()
	return f
}
