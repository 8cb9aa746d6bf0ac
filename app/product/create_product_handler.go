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

type CreateProductHandler struct {
	repository     Repository
	serializer     Serializer
	eventPublisher events.Publisher
	service        string
}

type CreateProductRequest struct {
	Name         string           `json:"name" validate:"required,max=200" db:"name"`
	Description  string           `json:"description" db:"description"`
	Price        *decimal.Decimal `json:"price" validate:"required,gte=0" db:"price"`
	CategoryID   string           `json:"category" validate:"required,uuid" db:"category_id"`
	Image        *string          `json:"image,omitempty" validate:"omitempty,url" db:"image"`
	IsBestSeller bool             `json:"is_best_seller" db:"is_best_seller"`
	Stock        int              `json:"stock" validate:"gte=0" db:"stock"`
}

type CreateProductResponse = ProductDetail

func NewCreateProductHandler(repository Repository, serializer Serializer, eventPublisher events.Publisher, service string) *CreateProductHandler {
	return &CreateProductHandler{
		repository:     repository,
		serializer:     serializer,
		eventPublisher: eventPublisher,
		service:        service,
	}
}

func (h CreateProductHandler) Handle(ctx context.Context, req *CreateProductRequest) (*CreateProductResponse, error) {
	validate := newValidator()

	if err := validate.Struct(req); err != nil {
		if ve, ok := err.(validator.ValidationErrors); ok {
			return nil, httperror.BadRequest(
				"product.create.validation_failed",
				"Validation failed for the request",
				ve.Error(),
			)
		}

		return nil, httperror.InternalServerError(
			"product.create.validation_error",
			"An unexpected validation error occurred",
			nil,
		).Wrap(err)
	}

	if _, err := h.repository.GetCategoryByID(ctx, req.CategoryID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, httperror.BadRequest(
				"product.create.invalid_category",
				"Category does not exist",
				nil,
			)
		}

		return nil, httperror.InternalServerError(
			"product.create.category_lookup_failed",
			"Failed to verify the category",
			nil,
		).Wrap(err)
	}

	product, err := h.repository.CreateProduct(ctx, req)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidReference) {
			return nil, httperror.BadRequest(
				"product.create.invalid_category",
				"Category does not exist",
				nil,
			)
		}

		return nil, httperror.InternalServerError(
			"product.create.create_failed",
			"An error occurred while creating the product",
			nil,
		).Wrap(err)
	}

	events.Emit(ctx, h.eventPublisher, events.CatalogExchange, events.ProductCreatedEvent, h.service, productPayload(product))

	res := h.serializer.Detail(product, media.BaseURLFrom(ctx))
	return &res, nil
}
