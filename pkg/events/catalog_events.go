package events

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	CatalogDomain   = "catalog"
	CatalogExchange = "storefront.catalog"
)

const (
	ProductCreatedEvent       = "product.created"
	ProductUpdatedEvent       = "product.updated"
	ProductDeletedEvent       = "product.deleted"
	ProductImageUploadedEvent = "product.image.uploaded"
)

const (
	EventVersionV1 = "v1"
)

// ProductPayload is shared by product.created and product.updated.
type ProductPayload struct {
	ID           string          `json:"id"`
	Name         string          `json:"name"`
	CategoryID   string          `json:"categoryId"`
	CategoryCode string          `json:"categoryCode"`
	Price        decimal.Decimal `json:"price"`
	Stock        int             `json:"stock"`
	IsBestSeller bool            `json:"isBestSeller"`
	UpdatedAt    time.Time       `json:"updatedAt"`
}

type ProductDeletedPayload struct {
	ID        string    `json:"id"`
	DeletedBy string    `json:"deletedBy"`
	DeletedAt time.Time `json:"deletedAt"`
}

type ProductImageUploadedPayload struct {
	ProductID  string    `json:"productId"`
	ImageKey   string    `json:"imageKey"`
	UploadedBy string    `json:"uploadedBy"`
	CreatedAt  time.Time `json:"createdAt"`
}
