package order

import (
	"context"
	"errors"
	"storefront/domain"
	"storefront/pkg/auth"
	"storefront/pkg/events"
	"storefront/pkg/httperror"
	"time"

	"github.com/go-playground/validator/v10"
)

type UpdateOrderStatusHandler struct {
	repository     Repository
	eventPublisher events.Publisher
	service        string
}

func NewUpdateOrderStatusHandler(repository Repository, eventPublisher events.Publisher, service string) *UpdateOrderStatusHandler {
	return &UpdateOrderStatusHandler{
		repository:     repository,
		eventPublisher: eventPublisher,
		service:        service,
	}
}

type UpdateOrderStatusRequest struct {
	ID     string `params:"id" json:"-"`
	Status string `json:"status" validate:"required,oneof=pending processing shipped delivered canceled"`
}

type UpdateOrderStatusResponse = OrderDetail

func (h UpdateOrderStatusHandler) Handle(ctx context.Context, req *UpdateOrderStatusRequest) (*UpdateOrderStatusResponse, error) {
	validate := validator.New(validator.WithRequiredStructEnabled())

	if err := validate.Struct(req); err != nil {
		if ve, ok := err.(validator.ValidationErrors); ok {
			return nil, httperror.BadRequest(
				"order.update.validation_failed",
				"Validation failed for the request",
				ve.Error(),
			)
		}

		return nil, httperror.InternalServerError(
			"order.update.validation_error",
			"An unexpected validation error occurred",
			nil,
		).Wrap(err)
	}

	order, err := h.repository.GetOrder(ctx, req.ID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, httperror.NotFound(
				"order.update.not_found",
				"Order not found",
				nil,
			)
		}

		return nil, httperror.InternalServerError(
			"order.update.failed",
			"Failed to get order",
			nil,
		).Wrap(err)
	}

	oldStatus := order.Status
	if oldStatus != req.Status {
		order, err = h.repository.UpdateOrderStatus(ctx, order.ID, req.Status)
		if err != nil {
			return nil, httperror.InternalServerError(
				"order.update.update_failed",
				"An error occurred while updating the order",
				nil,
			).Wrap(err)
		}

		events.Emit(ctx, h.eventPublisher, events.OrderExchange, events.OrderStatusChangedEvent, h.service, events.OrderStatusChangedPayload{
			ID:        order.ID,
			OldStatus: oldStatus,
			NewStatus: order.Status,
			ChangedBy: auth.UserID(ctx),
			ChangedAt: time.Now().UTC(),
		})
	}

	items, err := h.repository.GetOrderItems(ctx, order.ID)
	if err != nil {
		return nil, httperror.InternalServerError(
			"order.update.items_failed",
			"Failed to retrieve order items",
			nil,
		).Wrap(err)
	}

	res := serializeDetail(order, items)
	return &res, nil
}
