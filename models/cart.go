package models

import "time"

// CartLine is a server-persisted cart entry. Only the inputs are stored:
// product id, quantity and the per-attribute selection. Prices are
// recomputed from the catalog on every read.
type CartLine struct {
	ProductID        string            `json:"product_id" bson:"productId"`
	Quantity         int               `json:"quantity" bson:"quantity"`
	SelectedVariants map[string]string `json:"selected_variants,omitempty" bson:"selectedVariants,omitempty"`
}

// Cart is the per-user server copy, replaced wholesale on every push.
type Cart struct {
	UserID    string     `json:"userId" bson:"userId"`
	Items     []CartLine `json:"items" bson:"items"`
	UpdatedAt time.Time  `json:"updatedAt" bson:"updatedAt"`
}

// CartEntry is the shape GET /api/cart returns: the stored line plus the
// freshest product document resolved inline so clients can recompute prices.
type CartEntry struct {
	Product          Product           `json:"product"`
	Quantity         int               `json:"quantity"`
	SelectedVariants map[string]string `json:"selected_variants,omitempty"`
}

// LineItem is a locally held cart line with computed prices, the shape the
// checkout and discount flows exchange.
type LineItem struct {
	ProductID        string            `json:"product_id"`
	ProductName      string            `json:"product_name"`
	Quantity         int               `json:"quantity"`
	UnitPrice        float64           `json:"unit_price"`
	Subtotal         float64           `json:"subtotal"`
	SelectedVariants map[string]string `json:"selected_variants,omitempty"`
}
