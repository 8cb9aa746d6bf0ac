package app

import (
	"storefront/app/category"
	"storefront/app/order"
	"storefront/app/product"
)

// Repository is everything the HTTP API reads from and writes to the store.
type Repository interface {
	category.Repository
	product.Repository
	order.Repository
	Close() error
	GetPoolStats() map[string]any
}
