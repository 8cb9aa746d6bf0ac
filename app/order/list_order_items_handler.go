package order

import (
	"context"
	"storefront/domain"
	"storefront/pkg/httperror"
	"strings"
)

type ListOrderItemsHandler struct {
	repository Repository
}

func NewListOrderItemsHandler(repository Repository) *ListOrderItemsHandler {
	return &ListOrderItemsHandler{
		repository: repository,
	}
}

type ListOrderItemsRequest struct {
	Page     int    `query:"page"`
	PageSize int    `query:"pageSize"`
	Product  string `query:"product"`
	Search   string `query:"search"`
}

type ListOrderItemsResponse struct {
	Items []OrderItemRow `json:"items"`
	Pagination
}

func (h ListOrderItemsHandler) Handle(ctx context.Context, req *ListOrderItemsRequest) (*ListOrderItemsResponse, error) {
	filter := domain.OrderItemFilter{
		ProductID: strings.TrimSpace(req.Product),
		Search:    strings.TrimSpace(req.Search),
	}

	page, pageSize, offset := pageBounds(req.Page, req.PageSize)

	items, err := h.repository.ListOrderItems(ctx, filter, pageSize, offset)
	if err != nil {
		return nil, httperror.InternalServerError(
			"order_item.index.failed",
			"Failed to retrieve order items",
			nil,
		).Wrap(err)
	}

	totalItems, err := h.repository.CountOrderItems(ctx, filter)
	if err != nil {
		return nil, httperror.InternalServerError(
			"order_item.count_items.failed",
			"Failed to count order items",
			nil,
		).Wrap(err)
	}

	rows := make([]OrderItemRow, len(items))
	for i, item := range items {
		rows[i] = serializeItemRow(item)
	}

	return &ListOrderItemsResponse{
		Items:      rows,
		Pagination: newPagination(page, pageSize, totalItems),
	}, nil
}
