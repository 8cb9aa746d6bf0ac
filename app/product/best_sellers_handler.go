package product

import (
	"context"
	"storefront/domain"
	"storefront/pkg/httperror"
	"storefront/pkg/media"
)

type BestSellersHandler struct {
	repository Repository
	serializer Serializer
}

func NewBestSellersHandler(repository Repository, serializer Serializer) *BestSellersHandler {
	return &BestSellersHandler{
		repository: repository,
		serializer: serializer,
	}
}

type BestSellersRequest struct{}

type BestSellersResponse []ProductList

func (h BestSellersHandler) Handle(ctx context.Context, _ *BestSellersRequest) (*BestSellersResponse, error) {
	products, err := h.repository.GetProducts(ctx, domain.ProductFilter{BestSellersOnly: true})
	if err != nil {
		return nil, httperror.InternalServerError(
			"product.bestsellers.failed",
			"Failed to retrieve best sellers",
			nil,
		).Wrap(err)
	}

	res := BestSellersResponse(h.serializer.ListMany(products, media.BaseURLFrom(ctx)))
	return &res, nil
}
