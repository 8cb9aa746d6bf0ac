package product

import (
	"context"
	"errors"
	"storefront/domain"
	"storefront/pkg/events"
	"storefront/pkg/httperror"
	"storefront/pkg/media"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

type UpdateProductHandler struct {
	repository     Repository
	serializer     Serializer
	eventPublisher events.Publisher
	service        string
}

// UpdateProductRequest serves both PUT and PATCH; absent fields are kept.
type UpdateProductRequest struct {
	ID           string           `params:"id" json:"-"`
	Name         *string          `json:"name,omitempty" validate:"omitempty,min=1,max=200"`
	Description  *string          `json:"description,omitempty"`
	Price        *decimal.Decimal `json:"price,omitempty" validate:"omitempty,gte=0"`
	CategoryID   *string          `json:"category,omitempty" validate:"omitempty,uuid"`
	IsBestSeller *bool            `json:"is_best_seller,omitempty"`
	Stock        *int             `json:"stock,omitempty" validate:"omitempty,gte=0"`
}

type UpdateProductResponse = ProductDetail

func NewUpdateProductHandler(repository Repository, serializer Serializer, eventPublisher events.Publisher, service string) *UpdateProductHandler {
	return &UpdateProductHandler{
		repository:     repository,
		serializer:     serializer,
		eventPublisher: eventPublisher,
		service:        service,
	}
}

func (h UpdateProductHandler) Handle(ctx context.Context, req *UpdateProductRequest) (*UpdateProductResponse, error) {
	validate := newValidator()

	if err := validate.Struct(req); err != nil {
		if ve, ok := err.(validator.ValidationErrors); ok {
			return nil, httperror.BadRequest(
				"product.update.validation_failed",
				"Validation failed for the request",
				ve.Error(),
			)
		}

		return nil, httperror.InternalServerError(
			"product.update.validation_error",
			"An unexpected validation error occurred",
			nil,
		).Wrap(err)
	}

	product, err := h.repository.GetProduct(ctx, req.ID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, httperror.NotFound(
				"product.update.not_found",
				"Product not found",
				nil,
			)
		}

		return nil, httperror.InternalServerError(
			"product.update.failed",
			"Failed to get product",
			nil,
		).Wrap(err)
	}

	if req.CategoryID != nil && *req.CategoryID != product.CategoryID {
		category, err := h.repository.GetCategoryByID(ctx, *req.CategoryID)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return nil, httperror.BadRequest(
					"product.update.invalid_category",
					"Category does not exist",
					nil,
				)
			}

			return nil, httperror.InternalServerError(
				"product.update.category_lookup_failed",
				"Failed to verify the category",
				nil,
			).Wrap(err)
		}
		product.CategoryID = category.ID
		product.Category = category
	}

	if req.Name != nil {
		product.Name = *req.Name
	}
	if req.Description != nil {
		product.Description = *req.Description
	}
	if req.Price != nil {
		product.Price = *req.Price
	}
	if req.IsBestSeller != nil {
		product.IsBestSeller = *req.IsBestSeller
	}
	if req.Stock != nil {
		product.Stock = *req.Stock
	}

	updated, err := h.repository.UpdateProduct(ctx, product)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, httperror.NotFound(
				"product.update.not_found",
				"Product not found",
				nil,
			)
		}
		if errors.Is(err, domain.ErrInvalidReference) {
			return nil, httperror.BadRequest(
				"product.update.invalid_category",
				"Category does not exist",
				nil,
			)
		}

		return nil, httperror.InternalServerError(
			"product.update.update_failed",
			"An error occurred while updating the product",
			nil,
		).Wrap(err)
	}

	events.Emit(ctx, h.eventPublisher, events.CatalogExchange, events.ProductUpdatedEvent, h.service, productPayload(updated))

	res := h.serializer.Detail(updated, media.BaseURLFrom(ctx))
	return &res, nil
}
