package discounts

import (
	"testing"
	"time"

	"velora/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var now = time.Date(2026, 5, 1, 10, 0, 0, 0, time.UTC)

func snapshot() models.ApplyRequest {
	return models.ApplyRequest{
		Code:        "SAVE10",
		Subtotal:    200.00,
		DeliveryFee: 20.00,
		Items: []models.LineItem{
			{ProductID: "p1", ProductName: "Phone", Quantity: 1, UnitPrice: 150.00, Subtotal: 150.00},
			{ProductID: "p2", ProductName: "Case", Quantity: 2, UnitPrice: 25.00, Subtotal: 50.00},
		},
	}
}

func TestDecidePercentage(t *testing.T) {
	d := models.Discount{
		DiscountID: "d1",
		Code:       "SAVE10",
		Type:       models.DiscountPercentage,
		AppliesTo:  models.AppliesToTotal,
		Value:      10,
		Active:     true,
	}

	res, err := Decide(d, snapshot(), 0, now)
	require.NoError(t, err)
	assert.Equal(t, 20.00, res.DiscountAmount)
	assert.Equal(t, 20.00, res.AdjustedDeliveryFee, "delivery fee untouched")

	// displayed total per the storefront: subtotal + fee - discount
	assert.Equal(t, 200.00, snapshot().Subtotal+res.AdjustedDeliveryFee-res.DiscountAmount)
}

func TestDecideIdempotentReapply(t *testing.T) {
	d := models.Discount{Code: "SAVE10", Type: models.DiscountPercentage, AppliesTo: models.AppliesToAll, Value: 10, Active: true}

	first, err := Decide(d, snapshot(), 0, now)
	require.NoError(t, err)
	second, err := Decide(d, snapshot(), 0, now)
	require.NoError(t, err)
	assert.Equal(t, first, second, "same code and cart yields the same discount")
}

func TestDecideProductScope(t *testing.T) {
	d := models.Discount{
		Code:       "CASE50",
		Type:       models.DiscountPercentage,
		AppliesTo:  models.AppliesToProducts,
		ProductIDs: []string{"p2"},
		Value:      50,
		Active:     true,
	}

	res, err := Decide(d, snapshot(), 0, now)
	require.NoError(t, err)
	assert.Equal(t, 25.00, res.DiscountAmount, "half of the p2 line only")
}

func TestDecideFixed(t *testing.T) {
	d := models.Discount{Code: "FLAT30", Type: models.DiscountFixed, AppliesTo: models.AppliesToAll, Value: 30, Active: true}

	res, err := Decide(d, snapshot(), 0, now)
	require.NoError(t, err)
	assert.Equal(t, 30.00, res.DiscountAmount)

	// fixed amount never exceeds the scoped base
	d.Value = 10_000
	res, err = Decide(d, snapshot(), 0, now)
	require.NoError(t, err)
	assert.Equal(t, 200.00, res.DiscountAmount)
}

func TestDecideFreeShipping(t *testing.T) {
	d := models.Discount{Code: "SHIPFREE", Type: models.DiscountFreeShipping, AppliesTo: models.AppliesToShipping, Active: true}

	res, err := Decide(d, snapshot(), 0, now)
	require.NoError(t, err)
	assert.Equal(t, 0.00, res.DiscountAmount)
	assert.Equal(t, 0.00, res.AdjustedDeliveryFee)
}

func TestDecidePercentageShippingScope(t *testing.T) {
	d := models.Discount{Code: "HALFSHIP", Type: models.DiscountPercentage, AppliesTo: models.AppliesToShipping, Value: 50, Active: true}

	res, err := Decide(d, snapshot(), 0, now)
	require.NoError(t, err)
	assert.Equal(t, 0.00, res.DiscountAmount)
	assert.Equal(t, 10.00, res.AdjustedDeliveryFee)
}

func TestDecideEligibility(t *testing.T) {
	from := now.Add(time.Hour)
	to := now.Add(-time.Hour)

	tests := []struct {
		name    string
		mutate  func(*models.Discount)
		usage   int64
		wantErr error
	}{
		{"inactive", func(d *models.Discount) { d.Active = false }, 0, ErrInactive},
		{"not started", func(d *models.Discount) { d.ValidFrom = &from }, 0, ErrNotStarted},
		{"expired", func(d *models.Discount) { d.ValidTo = &to }, 0, ErrExpired},
		{"below minimum", func(d *models.Discount) { d.MinOrderValue = 500 }, 0, ErrMinOrderValue},
		{"usage limit hit", func(d *models.Discount) { d.UsageLimit = 3 }, 3, ErrUsageLimit},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := models.Discount{Code: "X", Type: models.DiscountPercentage, AppliesTo: models.AppliesToAll, Value: 10, Active: true}
			tt.mutate(&d)
			_, err := Decide(d, snapshot(), tt.usage, now)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestDescribe(t *testing.T) {
	tests := []struct {
		name        string
		res         models.ApplyResult
		originalFee float64
		want        string
	}{
		{
			"zero amount but zeroed fee is still a win",
			models.ApplyResult{DiscountAmount: 0, AdjustedDeliveryFee: 0},
			20.00,
			"Free delivery applied",
		},
		{
			"plain amount",
			models.ApplyResult{DiscountAmount: 15, AdjustedDeliveryFee: 20},
			20.00,
			"Discount of 15.00 applied",
		},
		{
			"amount plus free delivery",
			models.ApplyResult{DiscountAmount: 15, AdjustedDeliveryFee: 0},
			20.00,
			"Discount of 15.00 applied, free delivery included",
		},
		{
			"reduced fee",
			models.ApplyResult{DiscountAmount: 0, AdjustedDeliveryFee: 10},
			20.00,
			"Delivery fee reduced to 10.00",
		},
		{
			"nothing changed",
			models.ApplyResult{DiscountAmount: 0, AdjustedDeliveryFee: 20},
			20.00,
			"No discount",
		},
		{
			"zero fee cart gets no free-delivery claim",
			models.ApplyResult{DiscountAmount: 0, AdjustedDeliveryFee: 0},
			0,
			"No discount",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Describe(tt.res, tt.originalFee))
		})
	}
}

func TestValidate(t *testing.T) {
	good := models.Discount{Code: "OK", Type: models.DiscountPercentage, AppliesTo: models.AppliesToAll, Value: 10}
	assert.Empty(t, validate(good))

	tests := []struct {
		name   string
		mutate func(*models.Discount)
	}{
		{"missing code", func(d *models.Discount) { d.Code = "" }},
		{"percentage over 100", func(d *models.Discount) { d.Value = 120 }},
		{"percentage zero", func(d *models.Discount) { d.Value = 0 }},
		{"unknown type", func(d *models.Discount) { d.Type = "bogo" }},
		{"unknown scope", func(d *models.Discount) { d.AppliesTo = "everything" }},
		{"product scope without products", func(d *models.Discount) {
			d.AppliesTo = models.AppliesToProducts
			d.ProductIDs = nil
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := good
			tt.mutate(&d)
			assert.NotEmpty(t, validate(d))
		})
	}
}
