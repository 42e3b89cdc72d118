package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product represents a product in the catalog.
type Product struct {
	ID           string          `json:"id" gorm:"primaryKey;type:varchar(36)"`
	ProductName  string          `json:"product_name" gorm:"type:varchar(255);not null;uniqueIndex"`
	Description  *string         `json:"description" gorm:"type:text"`
	ProductPrice decimal.Decimal `json:"product_price" gorm:"type:decimal(12,2);not null"`
	Stock        int             `json:"stock" gorm:"not null;default:0"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
}

// TableName keeps the table name stable regardless of naming strategy.
func (Product) TableName() string { return "products" }

// ProductInput is the validated, normalized field set of a create or update
// request.
type ProductInput struct {
	ProductName  string
	Description  *string
	ProductPrice decimal.Decimal
	Stock        int

	// HasDescription reports whether the request carried the description
	// field at all. An absent description leaves the stored value untouched.
	HasDescription bool
}

// Apply merges the input into p.
func (in ProductInput) Apply(p *Product) {
	p.ProductName = in.ProductName
	if in.HasDescription {
		p.Description = in.Description
	}
	p.ProductPrice = in.ProductPrice
	p.Stock = in.Stock
}

// NewProduct builds an unsaved product from the input.
func (in ProductInput) NewProduct() *Product {
	p := &Product{}
	in.Apply(p)
	return p
}
