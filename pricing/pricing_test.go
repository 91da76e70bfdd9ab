package pricing

import (
	"testing"
	"time"

	"velora/models"

	"github.com/stretchr/testify/assert"
)

func testAttrs() []models.VariantAttribute {
	return []models.VariantAttribute{
		{
			AttributeID: "storage",
			Name:        "Storage",
			Options: []models.VariantOption{
				{OptionID: "128gb", Label: "128 GB", PriceModifier: 0, Stock: 5},
				{OptionID: "256gb", Label: "256 GB", PriceModifier: 100, Stock: 3},
				{OptionID: "512gb", Label: "512 GB", PriceModifier: 250, Stock: 0},
			},
		},
		{
			AttributeID: "color",
			Name:        "Color",
			Options: []models.VariantOption{
				{OptionID: "black", Label: "Black", Stock: 10},
				{OptionID: "gold", Label: "Gold", PriceModifier: 20.50, Stock: 2},
			},
		},
	}
}

func TestResolveUnitPrice(t *testing.T) {
	attrs := testAttrs()

	tests := []struct {
		name     string
		base     float64
		attrs    []models.VariantAttribute
		selected map[string]string
		want     float64
	}{
		{"no selection returns base", 499.99, attrs, nil, 499.99},
		{"no attributes is a no-op", 499.99, nil, map[string]string{"storage": "256gb"}, 499.99},
		{"single modifier", 499.99, attrs, map[string]string{"storage": "256gb"}, 599.99},
		{"sums all selected modifiers", 499.99, attrs, map[string]string{"storage": "256gb", "color": "gold"}, 620.49},
		{"zero-modifier option", 499.99, attrs, map[string]string{"color": "black"}, 499.99},
		{"unknown attribute ignored", 499.99, attrs, map[string]string{"engraving": "yes"}, 499.99},
		{"unknown option ignored", 499.99, attrs, map[string]string{"storage": "1tb"}, 499.99},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ResolveUnitPrice(tt.base, tt.attrs, tt.selected)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestResolveUnitPriceOrderIndependent(t *testing.T) {
	attrs := testAttrs()
	// two maps built in different insertion orders resolve identically
	selA := map[string]string{}
	selA["storage"] = "512gb"
	selA["color"] = "gold"
	selB := map[string]string{}
	selB["color"] = "gold"
	selB["storage"] = "512gb"

	assert.Equal(t, ResolveUnitPrice(1000, attrs, selA), ResolveUnitPrice(1000, attrs, selB))
	assert.Equal(t, 1270.50, ResolveUnitPrice(1000, attrs, selA))
}

func TestSelectable(t *testing.T) {
	assert.True(t, Selectable(models.VariantOption{Stock: 1}))
	assert.False(t, Selectable(models.VariantOption{Stock: 0}))
}

func TestLineAndCartSubtotal(t *testing.T) {
	assert.Equal(t, 59.97, LineSubtotal(19.99, 3))

	items := []models.LineItem{
		{ProductID: "p1", Quantity: 2, UnitPrice: 25.00, Subtotal: 50.00},
		{ProductID: "p2", Quantity: 3, UnitPrice: 25.00, Subtotal: 75.00},
	}
	assert.Equal(t, 125.00, CartSubtotal(items))
	assert.Equal(t, 0.00, CartSubtotal(nil))
}

func TestOrderTotals(t *testing.T) {
	items := []models.LineItem{
		{ProductID: "p1", Subtotal: 50.00},
		{ProductID: "p2", Subtotal: 75.00},
	}

	got := OrderTotals(items, 15.00, 0, 0)
	assert.Equal(t, 125.00, got.Subtotal)
	assert.Equal(t, 0.00, got.Tax)
	assert.Equal(t, 140.00, got.Total)

	// discount larger than the order floors at zero
	got = OrderTotals(items, 0, 0, 500)
	assert.Equal(t, 0.00, got.Total)

	// non-zero tax rate
	got = OrderTotals(items, 10.00, 10, 0)
	assert.Equal(t, 12.50, got.Tax)
	assert.Equal(t, 147.50, got.Total)
}

func TestDealPrice(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	deal := models.Deal{
		DealID:     "d1",
		ProductIDs: []string{"p1"},
		Type:       models.DiscountPercentage,
		Value:      25,
		StartsAt:   now.Add(-time.Hour),
		EndsAt:     now.Add(time.Hour),
		Active:     true,
	}

	assert.Equal(t, 75.00, DealPrice(100, "p1", deal, now))
	assert.Equal(t, 100.00, DealPrice(100, "p2", deal, now), "deal does not cover p2")
	assert.Equal(t, 100.00, DealPrice(100, "p1", deal, now.Add(2*time.Hour)), "expired")
	assert.Equal(t, 100.00, DealPrice(100, "p1", deal, now.Add(-2*time.Hour)), "not started")

	deal.Active = false
	assert.Equal(t, 100.00, DealPrice(100, "p1", deal, now))

	fixed := models.Deal{
		ProductIDs: []string{"p1"},
		Type:       models.DiscountFixed,
		Value:      120,
		StartsAt:   now.Add(-time.Hour),
		EndsAt:     now.Add(time.Hour),
		Active:     true,
	}
	assert.Equal(t, 0.00, DealPrice(100, "p1", fixed, now), "fixed discount floors at zero")
}
