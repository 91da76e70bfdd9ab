package models

import "time"

// VariantOption is one selectable value of a product attribute. The price
// modifier is a signed delta applied on top of the base price.
type VariantOption struct {
	OptionID      string  `json:"optionId" bson:"optionId"`
	Label         string  `json:"label" bson:"label"`
	PriceModifier float64 `json:"priceModifier" bson:"priceModifier"`
	Stock         int     `json:"stock" bson:"stock"`
}

// VariantAttribute is a configurable product dimension, e.g. "Storage".
type VariantAttribute struct {
	AttributeID string          `json:"attributeId" bson:"attributeId"`
	Name        string          `json:"name" bson:"name"`
	Options     []VariantOption `json:"options" bson:"options"`
}

type Product struct {
	ProductID   string             `json:"productId" bson:"productId"`
	Name        string             `json:"name" bson:"name"`
	Description string             `json:"description,omitempty" bson:"description,omitempty"`
	CategoryID  string             `json:"categoryId,omitempty" bson:"categoryId,omitempty"`
	BrandID     string             `json:"brandId,omitempty" bson:"brandId,omitempty"`
	Price       float64            `json:"price" bson:"price"`
	Stock       int                `json:"stock" bson:"stock"`
	Attributes  []VariantAttribute `json:"attributes,omitempty" bson:"attributes,omitempty"`
	Images      []string           `json:"images,omitempty" bson:"images,omitempty"`
	Published   bool               `json:"published" bson:"published"`
	CreatedAt   time.Time          `json:"createdAt" bson:"createdAt"`
	UpdatedAt   time.Time          `json:"updatedAt,omitempty" bson:"updatedAt,omitempty"`
}

// ImageURL returns the first product image, or the storefront placeholder
// when none is set.
func (p Product) ImageURL() string {
	if len(p.Images) > 0 && p.Images[0] != "" {
		return p.Images[0]
	}
	return "/static/productpic/placeholder.png"
}

type Category struct {
	CategoryID   string    `json:"categoryId" bson:"categoryId"`
	Name         string    `json:"name" bson:"name"`
	Slug         string    `json:"slug" bson:"slug"`
	ParentID     string    `json:"parentId,omitempty" bson:"parentId,omitempty"`
	ProductCount int64     `json:"productCount" bson:"-"`
	CreatedAt    time.Time `json:"createdAt" bson:"createdAt"`
}

type Brand struct {
	BrandID      string    `json:"brandId" bson:"brandId"`
	Name         string    `json:"name" bson:"name"`
	Slug         string    `json:"slug" bson:"slug"`
	LogoURL      string    `json:"logoUrl,omitempty" bson:"logoUrl,omitempty"`
	ProductCount int64     `json:"productCount" bson:"-"`
	CreatedAt    time.Time `json:"createdAt" bson:"createdAt"`
}
