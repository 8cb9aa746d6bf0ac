package order

import (
	"context"
	"storefront/domain"
	"storefront/pkg/httperror"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

type ListOrdersHandler struct {
	repository Repository
}

func NewListOrdersHandler(repository Repository) *ListOrdersHandler {
	return &ListOrdersHandler{
		repository: repository,
	}
}

type ListOrdersRequest struct {
	Page          int    `query:"page"`
	PageSize      int    `query:"pageSize"`
	Status        string `query:"status" validate:"omitempty,oneof=pending processing shipped delivered canceled"`
	PaymentMethod string `query:"payment_method" validate:"omitempty,oneof=paypal cod"`
	CreatedAfter  string `query:"created_after"`
	CreatedBefore string `query:"created_before"`
	Search        string `query:"search"`
}

type ListOrdersResponse struct {
	Orders []OrderRow `json:"orders"`
	Pagination
}

func (h ListOrdersHandler) Handle(ctx context.Context, req *ListOrdersRequest) (*ListOrdersResponse, error) {
	validate := validator.New(validator.WithRequiredStructEnabled())

	if err := validate.Struct(req); err != nil {
		if ve, ok := err.(validator.ValidationErrors); ok {
			return nil, httperror.BadRequest(
				"order.index.validation_failed",
				"Validation failed for the request",
				ve.Error(),
			)
		}

		return nil, httperror.InternalServerError(
			"order.index.validation_error",
			"An unexpected validation error occurred",
			nil,
		).Wrap(err)
	}

	filter := domain.OrderFilter{
		Status:        req.Status,
		PaymentMethod: req.PaymentMethod,
		Search:        strings.TrimSpace(req.Search),
	}

	var err error
	if filter.CreatedAfter, err = parseDate(req.CreatedAfter, false); err != nil {
		return nil, httperror.BadRequest("order.index.invalid_created_after", "created_after must be a date (YYYY-MM-DD) or RFC3339 time", nil)
	}
	if filter.CreatedBefore, err = parseDate(req.CreatedBefore, true); err != nil {
		return nil, httperror.BadRequest("order.index.invalid_created_before", "created_before must be a date (YYYY-MM-DD) or RFC3339 time", nil)
	}

	page, pageSize, offset := pageBounds(req.Page, req.PageSize)

	orders, err := h.repository.GetOrders(ctx, filter, pageSize, offset)
	if err != nil {
		return nil, httperror.InternalServerError(
			"order.index.failed",
			"Failed to retrieve orders",
			nil,
		).Wrap(err)
	}

	totalItems, err := h.repository.CountOrders(ctx, filter)
	if err != nil {
		return nil, httperror.InternalServerError(
			"order.count_orders.failed",
			"Failed to count orders",
			nil,
		).Wrap(err)
	}

	rows := make([]OrderRow, len(orders))
	for i, o := range orders {
		rows[i] = serializeRow(o)
	}

	return &ListOrdersResponse{
		Orders:     rows,
		Pagination: newPagination(page, pageSize, totalItems),
	}, nil
}

// parseDate accepts a calendar date or an RFC3339 timestamp. A bare date used
// as an upper bound covers the whole day.
func parseDate(value string, endOfDay bool) (*time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil, nil
	}

	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return &t, nil
	}

	t, err := time.Parse(time.DateOnly, value)
	if err != nil {
		return nil, err
	}
	if endOfDay {
		t = t.Add(24*time.Hour - time.Nanosecond)
	}
	return &t, nil
}
