package order

import (
	"context"
	"errors"
	"storefront/domain"
	"storefront/pkg/httperror"
)

type GetOrderHandler struct {
	repository Repository
}

func NewGetOrderHandler(repository Repository) *GetOrderHandler {
	return &GetOrderHandler{
		repository: repository,
	}
}

type GetOrderRequest struct {
	ID string `params:"id"`
}

type GetOrderResponse = OrderDetail

func (h GetOrderHandler) Handle(ctx context.Context, req *GetOrderRequest) (*GetOrderResponse, error) {
	order, err := h.repository.GetOrder(ctx, req.ID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, httperror.NotFound(
				"order.show.not_found",
				"Order not found",
				nil,
			)
		}

		return nil, httperror.InternalServerError(
			"order.show.failed",
			"Failed to retrieve order",
			nil,
		).Wrap(err)
	}

	items, err := h.repository.GetOrderItems(ctx, order.ID)
	if err != nil {
		return nil, httperror.InternalServerError(
			"order.show.items_failed",
			"Failed to retrieve order items",
			nil,
		).Wrap(err)
	}

	res := serializeDetail(order, items)
	return &res, nil
}
