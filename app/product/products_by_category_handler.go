package product

import (
	"context"
	"net/http"
	"storefront/domain"
	"storefront/pkg/httperror"
	"storefront/pkg/media"
)

// CategoryRequiredMessage is returned to clients when the category filter
// is missing.
const CategoryRequiredMessage = "Category parameter is required"

type ProductsByCategoryHandler struct {
	repository Repository
	serializer Serializer
}

func NewProductsByCategoryHandler(repository Repository, serializer Serializer) *ProductsByCategoryHandler {
	return &ProductsByCategoryHandler{
		repository: repository,
		serializer: serializer,
	}
}

type ProductsByCategoryRequest struct {
	Category string `query:"category"`
}

type ProductsByCategoryResponse []ProductList

func (h ProductsByCategoryHandler) Handle(ctx context.Context, req *ProductsByCategoryRequest) (*ProductsByCategoryResponse, error) {
	// Only an absent or empty value is missing; whitespace is a code like any other.
	code := req.Category
	if code == "" {
		return nil, httperror.Compact(http.StatusBadRequest, CategoryRequiredMessage)
	}

	products, err := h.repository.GetProducts(ctx, domain.ProductFilter{CategoryCode: code})
	if err != nil {
		return nil, httperror.InternalServerError(
			"product.by_category.failed",
			"Failed to retrieve products",
			nil,
		).Wrap(err)
	}

	res := ProductsByCategoryResponse(h.serializer.ListMany(products, media.BaseURLFrom(ctx)))
	return &res, nil
}
