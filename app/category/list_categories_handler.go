package category

import (
	"context"
	"storefront/pkg/httperror"
)

type ListCategoriesHandler struct {
	repository Repository
}

func NewListCategoriesHandler(repository Repository) *ListCategoriesHandler {
	return &ListCategoriesHandler{
		repository: repository,
	}
}

type ListCategoriesRequest struct{}

type ListCategoriesResponse []Category

func (h ListCategoriesHandler) Handle(ctx context.Context, _ *ListCategoriesRequest) (*ListCategoriesResponse, error) {
	categories, err := h.repository.GetCategories(ctx)
	if err != nil {
		return nil, httperror.InternalServerError(
			"category.index.failed",
			"Failed to retrieve categories",
			nil,
		).Wrap(err)
	}

	res := make(ListCategoriesResponse, len(categories))
	for i, c := range categories {
		res[i] = Serialize(c)
	}

	return &res, nil
}
