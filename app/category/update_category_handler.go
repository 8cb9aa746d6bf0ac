package category

import (
	"context"
	"errors"
	"storefront/domain"
	"storefront/pkg/httperror"

	"github.com/go-playground/validator/v10"
)

type UpdateCategoryHandler struct {
	repository Repository
}

type UpdateCategoryRequest struct {
	Slug    string  `params:"slug" json:"-"`
	Name    *string `json:"name,omitempty" validate:"omitempty,min=1,max=100"`
	NewSlug *string `json:"slug,omitempty" validate:"omitempty,min=1,max=100"`
	Code    *string `json:"code,omitempty" validate:"omitempty,min=1,max=20"`
}

type UpdateCategoryResponse = Category

func NewUpdateCategoryHandler(repository Repository) *UpdateCategoryHandler {
	return &UpdateCategoryHandler{
		repository: repository,
	}
}

func (h UpdateCategoryHandler) Handle(ctx context.Context, req *UpdateCategoryRequest) (*UpdateCategoryResponse, error) {
	validate := validator.New(validator.WithRequiredStructEnabled())

	if err := validate.Struct(req); err != nil {
		if ve, ok := err.(validator.ValidationErrors); ok {
			return nil, httperror.BadRequest(
				"category.update.validation_failed",
				"Validation failed for the request",
				ve.Error(),
			)
		}

		return nil, httperror.InternalServerError(
			"category.update.validation_error",
			"An unexpected validation error occurred",
			nil,
		).Wrap(err)
	}

	category, err := h.repository.GetCategoryBySlug(ctx, req.Slug)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, httperror.NotFound(
				"category.update.not_found",
				"Category not found",
				nil,
			)
		}

		return nil, httperror.InternalServerError(
			"category.update.failed",
			"Failed to get category",
			nil,
		).Wrap(err)
	}

	if req.Name != nil {
		category.Name = *req.Name
	}
	if req.NewSlug != nil {
		category.Slug = *req.NewSlug
	}
	if req.Code != nil {
		category.Code = *req.Code
	}

	updated, err := h.repository.UpdateCategory(ctx, category)
	if err != nil {
		if errors.Is(err, domain.ErrConflict) {
			return nil, httperror.Conflict(
				"category.update.conflict",
				"A category with this slug or code already exists",
				nil,
			)
		}

		return nil, httperror.InternalServerError(
			"category.update.update_failed",
			"An error occurred while updating the category",
			nil,
		).Wrap(err)
	}

	res := Serialize(updated)
	return &res, nil
}
