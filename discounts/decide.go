package discounts

import (
	"errors"
	"fmt"
	"time"

	"velora/models"

	"github.com/shopspring/decimal"
)

var (
	ErrEmptyCode     = errors.New("coupon code is required")
	ErrNotFound      = errors.New("coupon not found")
	ErrInactive      = errors.New("coupon is not active")
	ErrNotStarted    = errors.New("coupon is not valid yet")
	ErrExpired       = errors.New("coupon has expired")
	ErrMinOrderValue = errors.New("order value below coupon minimum")
	ErrUsageLimit    = errors.New("coupon usage limit reached")
)

// Decide computes the discount a coupon yields against a cart snapshot.
// It is pure: eligibility (window, minimum, usage) is checked here from the
// passed-in state, and the arithmetic runs on decimals. On any error the
// caller leaves cart state untouched; there is no partial application.
func Decide(d models.Discount, req models.ApplyRequest, usage int64, now time.Time) (models.ApplyResult, error) {
	res := models.ApplyResult{
		DiscountID:          d.DiscountID,
		Code:                d.Code,
		Type:                d.Type,
		AppliesTo:           d.AppliesTo,
		AdjustedDeliveryFee: req.DeliveryFee,
	}

	if !d.Active {
		return res, ErrInactive
	}
	if d.ValidFrom != nil && now.Before(*d.ValidFrom) {
		return res, ErrNotStarted
	}
	if d.ValidTo != nil && now.After(*d.ValidTo) {
		return res, ErrExpired
	}
	if d.MinOrderValue > 0 && req.Subtotal < d.MinOrderValue {
		return res, ErrMinOrderValue
	}
	if d.UsageLimit > 0 && usage >= d.UsageLimit {
		return res, ErrUsageLimit
	}

	base := scopedBase(d, req)

	switch d.Type {
	case models.DiscountPercentage:
		if d.AppliesTo == models.AppliesToShipping {
			fee := decimal.NewFromFloat(req.DeliveryFee)
			off := fee.Mul(decimal.NewFromFloat(d.Value)).Div(decimal.NewFromInt(100))
			res.AdjustedDeliveryFee = round2(fee.Sub(off))
			return res, nil
		}
		off := base.Mul(decimal.NewFromFloat(d.Value)).Div(decimal.NewFromInt(100))
		res.DiscountAmount = round2(off)
	case models.DiscountFixed:
		off := decimal.NewFromFloat(d.Value)
		if off.GreaterThan(base) {
			off = base
		}
		res.DiscountAmount = round2(off)
	case models.DiscountFreeShipping:
		// Amount stays zero; the zeroed fee is the whole benefit. Clients
		// must render this as "free delivery applied", not "no discount".
		res.AdjustedDeliveryFee = 0
	default:
		return res, fmt.Errorf("unknown discount type %q", d.Type)
	}

	return res, nil
}

// scopedBase returns the amount the discount applies to: the full subtotal
// for all/total scope, or only the matching line subtotals for product scope.
func scopedBase(d models.Discount, req models.ApplyRequest) decimal.Decimal {
	if d.AppliesTo != models.AppliesToProducts {
		return decimal.NewFromFloat(req.Subtotal)
	}
	covered := make(map[string]bool, len(d.ProductIDs))
	for _, id := range d.ProductIDs {
		covered[id] = true
	}
	sum := decimal.Zero
	for _, it := range req.Items {
		if covered[it.ProductID] {
			sum = sum.Add(decimal.NewFromFloat(it.Subtotal))
		}
	}
	return sum
}

// Describe renders the storefront message for an applied discount. A result
// with a zero amount but a zeroed delivery fee still earned the shopper free
// delivery, and the message must say so.
func Describe(res models.ApplyResult, originalFee float64) string {
	switch {
	case res.DiscountAmount > 0 && res.AdjustedDeliveryFee == 0 && originalFee > 0:
		return fmt.Sprintf("Discount of %.2f applied, free delivery included", res.DiscountAmount)
	case res.DiscountAmount > 0:
		return fmt.Sprintf("Discount of %.2f applied", res.DiscountAmount)
	case res.AdjustedDeliveryFee == 0 && originalFee > 0:
		return "Free delivery applied"
	case res.AdjustedDeliveryFee < originalFee:
		return fmt.Sprintf("Delivery fee reduced to %.2f", res.AdjustedDeliveryFee)
	default:
		return "No discount"
	}
}

func round2(d decimal.Decimal) float64 {
	f, _ := d.Round(2).Float64()
	return f
}
