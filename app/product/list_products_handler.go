package product

import (
	"context"
	"storefront/domain"
	"storefront/pkg/httperror"
	"storefront/pkg/media"
)

type ListProductsHandler struct {
	repository Repository
	serializer Serializer
}

func NewListProductsHandler(repository Repository, serializer Serializer) *ListProductsHandler {
	return &ListProductsHandler{
		repository: repository,
		serializer: serializer,
	}
}

type ListProductsRequest struct {
	Category string `query:"category"`
	Shape    Shape  `query:"-"`
}

type ListProductsResponse = Products

func (h ListProductsHandler) Handle(ctx context.Context, req *ListProductsRequest) (*ListProductsResponse, error) {
	products, err := h.repository.GetProducts(ctx, domain.ProductFilter{
		CategoryCode: req.Category,
	})
	if err != nil {
		return nil, httperror.InternalServerError(
			"product.index.failed",
			"Failed to retrieve products",
			nil,
		).Wrap(err)
	}

	res := h.serializer.Many(products, req.Shape, media.BaseURLFrom(ctx))
	return &res, nil
}
