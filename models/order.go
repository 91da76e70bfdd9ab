package models

import "time"

// Order status values. Transitions are validated in the orders package.
const (
	OrderPending    = "pending"
	OrderProcessing = "processing"
	OrderShipped    = "shipped"
	OrderDelivered  = "delivered"
	OrderCancelled  = "cancelled"
)

// Payment status values, an independent axis from order status.
const (
	PaymentPending  = "pending"
	PaymentPaid     = "paid"
	PaymentFailed   = "failed"
	PaymentRefunded = "refunded"
)

type OrderItem struct {
	ProductID        string            `json:"product_id" bson:"productId"`
	ProductName      string            `json:"product_name" bson:"productName"`
	Quantity         int               `json:"quantity" bson:"quantity"`
	UnitPrice        float64           `json:"unit_price" bson:"unitPrice"`
	Subtotal         float64           `json:"subtotal" bson:"subtotal"`
	SelectedVariants map[string]string `json:"selected_variants,omitempty" bson:"selectedVariants,omitempty"`
}

type Address struct {
	FullName string `json:"fullName" bson:"fullName"`
	Line1    string `json:"line1" bson:"line1"`
	Line2    string `json:"line2,omitempty" bson:"line2,omitempty"`
	City     string `json:"city" bson:"city"`
	Region   string `json:"region,omitempty" bson:"region,omitempty"`
	Postcode string `json:"postcode" bson:"postcode"`
	Country  string `json:"country" bson:"country"`
	Phone    string `json:"phone,omitempty" bson:"phone,omitempty"`
}

// Order is immutable after creation except for the status and payment
// status fields, which only the backend/admin mutate.
type Order struct {
	OrderID          string      `json:"orderId" bson:"orderId"`
	UserID           string      `json:"userId" bson:"userId"`
	Items            []OrderItem `json:"order_items" bson:"items"`
	Address          Address     `json:"address" bson:"address"`
	DeliveryOptionID string      `json:"deliveryOptionId" bson:"deliveryOptionId"`
	PaymentMethod    string      `json:"paymentMethod" bson:"paymentMethod"`
	PaymentRef       string      `json:"paymentRef,omitempty" bson:"paymentRef,omitempty"`
	Notes            string      `json:"notes,omitempty" bson:"notes,omitempty"`
	CouponCode       string      `json:"couponCode,omitempty" bson:"couponCode,omitempty"`
	Subtotal         float64     `json:"subtotal" bson:"subtotal"`
	DeliveryFee      float64     `json:"deliveryFee" bson:"deliveryFee"`
	Tax              float64     `json:"tax" bson:"tax"`
	Discount         float64     `json:"discount" bson:"discount"`
	Total            float64     `json:"total" bson:"total"`
	Status           string      `json:"status" bson:"status"`
	PaymentStatus    string      `json:"paymentStatus" bson:"paymentStatus"`
	CreatedAt        time.Time   `json:"createdAt" bson:"createdAt"`
	UpdatedAt        time.Time   `json:"updatedAt,omitempty" bson:"updatedAt,omitempty"`
}

type DeliveryOption struct {
	OptionID  string    `json:"optionId" bson:"optionId"`
	Name      string    `json:"name" bson:"name"`
	Fee       float64   `json:"fee" bson:"fee"`
	ETA       string    `json:"eta,omitempty" bson:"eta,omitempty"`
	Active    bool      `json:"active" bson:"active"`
	CreatedAt time.Time `json:"createdAt" bson:"createdAt"`
}

type Tax struct {
	TaxID     string    `json:"taxId" bson:"taxId"`
	Name      string    `json:"name" bson:"name"`
	Rate      float64   `json:"rate" bson:"rate"` // percentage, 0-100
	Active    bool      `json:"active" bson:"active"`
	CreatedAt time.Time `json:"createdAt" bson:"createdAt"`
}
