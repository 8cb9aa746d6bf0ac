package category

import (
	"context"
	"errors"
	"storefront/domain"
	"storefront/pkg/httperror"

	"github.com/go-playground/validator/v10"
)

type CreateCategoryHandler struct {
	repository Repository
}

type CreateCategoryRequest struct {
	Name string `json:"name" validate:"required,max=100" db:"name"`
	Slug string `json:"slug" validate:"required,max=100" db:"slug"`
	Code string `json:"code" validate:"required,max=20" db:"code"`
}

type CreateCategoryResponse = Category

func NewCreateCategoryHandler(repository Repository) *CreateCategoryHandler {
	return &CreateCategoryHandler{
		repository: repository,
	}
}

func (h CreateCategoryHandler) Handle(ctx context.Context, req *CreateCategoryRequest) (*CreateCategoryResponse, error) {
	validate := validator.New(validator.WithRequiredStructEnabled())

	if err := validate.Struct(req); err != nil {
		if ve, ok := err.(validator.ValidationErrors); ok {
			return nil, httperror.BadRequest(
				"category.create.validation_failed",
				"Validation failed for the request",
				ve.Error(),
			)
		}

		return nil, httperror.InternalServerError(
			"category.create.validation_error",
			"An unexpected validation error occurred",
			nil,
		).Wrap(err)
	}

	category, err := h.repository.CreateCategory(ctx, req)
	if err != nil {
		if errors.Is(err, domain.ErrConflict) {
			return nil, httperror.Conflict(
				"category.create.conflict",
				"A category with this slug or code already exists",
				nil,
			)
		}

		return nil, httperror.InternalServerError(
			"category.create.create_failed",
			"An error occurred while creating the category",
			nil,
		).Wrap(err)
	}

	res := Serialize(category)
	return &res, nil
}
