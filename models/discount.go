package models

import "time"

// Discount types.
const (
	DiscountPercentage   = "percentage"
	DiscountFixed        = "fixed"
	DiscountFreeShipping = "free_shipping"
)

// Applicability scopes.
const (
	AppliesToAll      = "all"
	AppliesToProducts = "products"
	AppliesToShipping = "shipping"
	AppliesToTotal    = "total"
)

type Discount struct {
	DiscountID    string     `json:"discountId" bson:"discountId"`
	Code          string     `json:"code" bson:"code"` // stored uppercase
	Type          string     `json:"type" bson:"type"`
	AppliesTo     string     `json:"appliesTo" bson:"appliesTo"`
	Value         float64    `json:"value" bson:"value"` // percent or fixed amount
	ProductIDs    []string   `json:"productIds,omitempty" bson:"productIds,omitempty"`
	MinOrderValue float64    `json:"minOrderValue,omitempty" bson:"minOrderValue,omitempty"`
	UsageLimit    int64      `json:"usageLimit,omitempty" bson:"usageLimit,omitempty"` // 0 = unlimited
	ValidFrom     *time.Time `json:"validFrom,omitempty" bson:"validFrom,omitempty"`
	ValidTo       *time.Time `json:"validTo,omitempty" bson:"validTo,omitempty"`
	Active        bool       `json:"active" bson:"active"`
	CreatedAt     time.Time  `json:"createdAt" bson:"createdAt"`
	UpdatedAt     time.Time  `json:"updatedAt,omitempty" bson:"updatedAt,omitempty"`
}

// ApplyRequest is the POST /api/discounts/apply body: a cart snapshot.
type ApplyRequest struct {
	Code        string     `json:"code"`
	Subtotal    float64    `json:"subtotal"`
	DeliveryFee float64    `json:"deliveryFee"`
	Items       []LineItem `json:"items"`
}

// ApplyResult is the discount decision merged into the displayed total.
type ApplyResult struct {
	DiscountID          string  `json:"discountId"`
	Code                string  `json:"code"`
	Type                string  `json:"type"`
	AppliesTo           string  `json:"appliesTo"`
	DiscountAmount      float64 `json:"discountAmount"`
	AdjustedDeliveryFee float64 `json:"adjustedDeliveryFee"`
}

// Deal is a time-boxed discount on specific products.
type Deal struct {
	DealID     string    `json:"dealId" bson:"dealId"`
	Title      string    `json:"title" bson:"title"`
	ProductIDs []string  `json:"productIds" bson:"productIds"`
	Type       string    `json:"type" bson:"type"`   // percentage | fixed
	Value      float64   `json:"value" bson:"value"` // percent or amount off
	Units      int       `json:"units,omitempty" bson:"units,omitempty"`
	StartsAt   time.Time `json:"startsAt" bson:"startsAt"`
	EndsAt     time.Time `json:"endsAt" bson:"endsAt"`
	Active     bool      `json:"active" bson:"active"`
	CreatedAt  time.Time `json:"createdAt" bson:"createdAt"`
}

// Live reports whether the deal window covers now.
func (d Deal) Live(now time.Time) bool {
	return d.Active && !now.Before(d.StartsAt) && now.Before(d.EndsAt)
}
