package product

import (
	"context"
	"errors"
	"storefront/domain"
	"storefront/pkg/httperror"
	"storefront/pkg/media"
)

type GetProductHandler struct {
	repository Repository
	serializer Serializer
}

func NewGetProductHandler(repository Repository, serializer Serializer) *GetProductHandler {
	return &GetProductHandler{
		repository: repository,
		serializer: serializer,
	}
}

type GetProductRequest struct {
	ID string `params:"id"`
}

type GetProductResponse = ProductDetail

func (h GetProductHandler) Handle(ctx context.Context, req *GetProductRequest) (*GetProductResponse, error) {
	product, err := h.repository.GetProduct(ctx, req.ID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, httperror.NotFound(
				"product.show.not_found",
				"Product not found",
				nil,
			)
		}

		return nil, httperror.InternalServerError(
			"product.show.failed",
			"Failed to retrieve product",
			nil,
		).Wrap(err)
	}

	res := h.serializer.Detail(product, media.BaseURLFrom(ctx))
	return &res, nil
}
