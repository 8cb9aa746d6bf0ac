package product

import (
	"storefront/domain"
	"storefront/pkg/events"
)

func productPayload(p domain.Product) events.ProductPayload {
	return events.ProductPayload{
		ID:           p.ID,
		Name:         p.Name,
		CategoryID:   p.CategoryID,
		CategoryCode: p.Category.Code,
		Price:        p.Price,
		Stock:        p.Stock,
		IsBestSeller: p.IsBestSeller,
		UpdatedAt:    p.UpdatedAt,
	}
}
