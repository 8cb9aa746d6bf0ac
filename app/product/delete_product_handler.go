package product

import (
	"context"
	"errors"
	"storefront/domain"
	"storefront/pkg/auth"
	"storefront/pkg/events"
	"storefront/pkg/httperror"
	"time"

	"go.uber.org/zap"
)

type DeleteProductHandler struct {
	repository     Repository
	storage        ImageStorage
	eventPublisher events.Publisher
	service        string
}

func NewDeleteProductHandler(repository Repository, storage ImageStorage, eventPublisher events.Publisher, service string) *DeleteProductHandler {
	return &DeleteProductHandler{
		repository:     repository,
		storage:        storage,
		eventPublisher: eventPublisher,
		service:        service,
	}
}

type DeleteProductRequest struct {
	ID string `params:"id"`
}

type DeleteProductResponse struct{}

func (h DeleteProductHandler) Handle(ctx context.Context, req *DeleteProductRequest) (*DeleteProductResponse, error) {
	product, err := h.repository.GetProduct(ctx, req.ID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, httperror.NotFound(
				"product.destroy.not_found",
				"Product not found",
				nil,
			)
		}

		return nil, httperror.InternalServerError(
			"product.destroy.failed",
			"Failed to retrieve product",
			nil,
		).Wrap(err)
	}

	if err := h.repository.DeleteProduct(ctx, product.ID); err != nil {
		if errors.Is(err, domain.ErrConflict) {
			return nil, httperror.Conflict(
				"product.destroy.referenced",
				"Product is referenced by existing orders",
				nil,
			)
		}

		return nil, httperror.InternalServerError(
			"product.destroy.failed",
			"Failed to delete product",
			nil,
		).Wrap(err)
	}

	removeStoredImage(h.storage, product.Image)

	events.Emit(ctx, h.eventPublisher, events.CatalogExchange, events.ProductDeletedEvent, h.service, events.ProductDeletedPayload{
		ID:        product.ID,
		DeletedBy: auth.UserID(ctx),
		DeletedAt: time.Now().UTC(),
	})

	return nil, httperror.NoContent(
		"product.destroy.success",
		"Product deleted successfully",
		nil,
	)
}

// removeStoredImage deletes an uploaded image object. External URLs are not
// ours to delete.
func removeStoredImage(storage ImageStorage, image *string) {
	if storage == nil || image == nil || *image == "" || isExternal(*image) {
		return
	}

	if err := storage.Delete(*image); err != nil {
		zap.L().Warn("Failed to delete product image", zap.String("key", *image), zap.Error(err))
	}
}
