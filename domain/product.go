package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product is a catalog entry. Category is loaded by the same query that loads
// the product, so its fields always reflect the current category row.
type Product struct {
	ID           string          `db:"id" json:"id"`
	Name         string          `db:"name" json:"name"`
	Description  string          `db:"description" json:"description"`
	Price        decimal.Decimal `db:"price" json:"price"`
	CategoryID   string          `db:"category_id" json:"category_id"`
	Image        *string         `db:"image" json:"image"`
	IsBestSeller bool            `db:"is_best_seller" json:"is_best_seller"`
	Stock        int             `db:"stock" json:"stock"`
	CreatedAt    time.Time       `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time       `db:"updated_at" json:"updated_at"`

	Category Category `db:"category" json:"-"`
}

// HasImage reports whether the product references a stored image.
func (p Product) HasImage() bool {
	return p.Image != nil && *p.Image != ""
}

// ProductFilter narrows a product listing. Zero value lists everything.
type ProductFilter struct {
	CategoryCode    string
	BestSellersOnly bool
}
