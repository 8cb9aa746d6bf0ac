package order

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"storefront/domain"
	"storefront/pkg/events"
	"storefront/pkg/httperror"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRepository struct {
	orders     []domain.Order
	items      []domain.OrderItem
	lastFilter domain.OrderFilter
	lastLimit  int
	lastOffset int
	err        error
}

func (r *fakeRepository) GetOrders(_ context.Context, filter domain.OrderFilter, limit, offset int) ([]domain.Order, error) {
	r.lastFilter, r.lastLimit, r.lastOffset = filter, limit, offset
	if r.err != nil {
		return nil, r.err
	}
	return r.filter(filter), nil
}

func (r *fakeRepository) filter(filter domain.OrderFilter) []domain.Order {
	var out []domain.Order
	for _, o := range r.orders {
		if filter.Status != "" && o.Status != filter.Status {
			continue
		}
		out = append(out, o)
	}
	return out
}

func (r *fakeRepository) CountOrders(_ context.Context, filter domain.OrderFilter) (int, error) {
	return len(r.filter(filter)), nil
}

func (r *fakeRepository) GetOrder(_ context.Context, id string) (domain.Order, error) {
	for _, o := range r.orders {
		if o.ID == id {
			return o, nil
		}
	}
	return domain.Order{}, domain.ErrNotFound
}

func (r *fakeRepository) GetOrderItems(_ context.Context, orderID string) ([]domain.OrderItem, error) {
	var out []domain.OrderItem
	for _, item := range r.items {
		if item.OrderID == orderID {
			out = append(out, item)
		}
	}
	return out, nil
}

func (r *fakeRepository) UpdateOrderStatus(_ context.Context, id, status string) (domain.Order, error) {
	for i, o := range r.orders {
		if o.ID == id {
			r.orders[i].Status = status
			r.orders[i].UpdatedAt = time.Now().UTC()
			return r.orders[i], nil
		}
	}
	return domain.Order{}, domain.ErrNotFound
}

func (r *fakeRepository) ListOrderItems(_ context.Context, filter domain.OrderItemFilter, _, _ int) ([]domain.OrderItem, error) {
	var out []domain.OrderItem
	for _, item := range r.items {
		if filter.ProductID != "" && item.ProductID != filter.ProductID {
			continue
		}
		out = append(out, item)
	}
	return out, nil
}

func (r *fakeRepository) CountOrderItems(ctx context.Context, filter domain.OrderItemFilter) (int, error) {
	items, _ := r.ListOrderItems(ctx, filter, 0, 0)
	return len(items), nil
}

type recordingPublisher struct {
	events []*events.Event
}

func (p *recordingPublisher) Publish(_ context.Context, _ string, event *events.Event, _ events.Headers) error {
	p.events = append(p.events, event)
	return nil
}

func (p *recordingPublisher) Close() error { return nil }

func seeded() *fakeRepository {
	return &fakeRepository{
		orders: []domain.Order{
			{ID: "o1", UserEmail: "ann@example.com", Status: domain.OrderStatusPending, PaymentMethod: domain.PaymentMethodPaypal, TotalAmount: decimal.RequireFromString("39.98")},
			{ID: "o2", UserEmail: "bob@example.com", Status: domain.OrderStatusShipped, PaymentMethod: domain.PaymentMethodCOD, TotalAmount: decimal.RequireFromString("5")},
		},
		items: []domain.OrderItem{
			{ID: "i1", OrderID: "o1", ProductID: "p1", ProductName: "Tee", Quantity: 2, Price: decimal.RequireFromString("19.99")},
			{ID: "i2", OrderID: "o2", ProductID: "p2", ProductName: "Cap", Quantity: 1, Price: decimal.RequireFromString("5")},
		},
	}
}

func statusOf(t *testing.T, err error) int {
	t.Helper()

	var httpErr *httperror.Error
	require.True(t, errors.As(err, &httpErr), "expected *httperror.Error, got %v", err)
	return httpErr.Status
}

func TestListOrders(t *testing.T) {
	repo := seeded()
	handler := NewListOrdersHandler(repo)

	res, err := handler.Handle(context.Background(), &ListOrdersRequest{})
	require.NoError(t, err)
	assert.Len(t, res.Orders, 2)
	assert.Equal(t, Pagination{Page: 1, PageSize: defaultPageSize, TotalItems: 2, TotalPages: 1}, res.Pagination)
	assert.Equal(t, "ann@example.com", res.Orders[0].User)

	res, err = handler.Handle(context.Background(), &ListOrdersRequest{
		Status:        domain.OrderStatusShipped,
		Page:          2,
		PageSize:      500,
		CreatedAfter:  "2026-01-01",
		CreatedBefore: "2026-01-31",
		Search:        "  bob ",
	})
	require.NoError(t, err)
	assert.Len(t, res.Orders, 1)
	assert.Equal(t, maxPageSize, repo.lastLimit)
	assert.Equal(t, maxPageSize, repo.lastOffset)
	assert.Equal(t, "bob", repo.lastFilter.Search)
	require.NotNil(t, repo.lastFilter.CreatedAfter)
	require.NotNil(t, repo.lastFilter.CreatedBefore)
	assert.Equal(t, time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC), *repo.lastFilter.CreatedAfter)
	assert.True(t, repo.lastFilter.CreatedBefore.After(time.Date(2026, 1, 31, 23, 59, 59, 0, time.UTC)))

	_, err = handler.Handle(context.Background(), &ListOrdersRequest{Status: "lost"})
	assert.Equal(t, http.StatusBadRequest, statusOf(t, err))

	_, err = handler.Handle(context.Background(), &ListOrdersRequest{CreatedAfter: "yesterday"})
	assert.Equal(t, http.StatusBadRequest, statusOf(t, err))

	res, err = handler.Handle(context.Background(), &ListOrdersRequest{Page: 1 << 62, PageSize: maxPageSize})
	require.NoError(t, err)
	assert.Equal(t, maxPage, res.Pagination.Page)
	assert.GreaterOrEqual(t, repo.lastOffset, 0)
}

func TestListOrders_RepositoryFailure(t *testing.T) {
	repo := seeded()
	cause := errors.New("pq: canceling statement due to statement timeout")
	repo.err = cause

	_, err := NewListOrdersHandler(repo).Handle(context.Background(), &ListOrdersRequest{})
	assert.Equal(t, http.StatusInternalServerError, statusOf(t, err))
	assert.ErrorIs(t, err, cause)
}

func TestGetOrder(t *testing.T) {
	handler := NewGetOrderHandler(seeded())

	res, err := handler.Handle(context.Background(), &GetOrderRequest{ID: "o1"})
	require.NoError(t, err)
	assert.Equal(t, json.Number("39.98"), res.TotalAmount)
	require.Len(t, res.Items, 1)
	assert.Equal(t, "Tee", res.Items[0].ProductName)
	assert.Equal(t, json.Number("19.99"), res.Items[0].Price)

	_, err = handler.Handle(context.Background(), &GetOrderRequest{ID: "o9"})
	assert.Equal(t, http.StatusNotFound, statusOf(t, err))
}

func TestUpdateOrderStatus(t *testing.T) {
	repo := seeded()
	pub := &recordingPublisher{}
	handler := NewUpdateOrderStatusHandler(repo, pub, "storefront")

	res, err := handler.Handle(context.Background(), &UpdateOrderStatusRequest{ID: "o1", Status: domain.OrderStatusProcessing})
	require.NoError(t, err)
	assert.Equal(t, domain.OrderStatusProcessing, res.Status)
	require.Len(t, pub.events, 1)
	assert.Equal(t, events.OrderStatusChangedEvent, pub.events[0].Event)

	// Same status is accepted without a new event.
	_, err = handler.Handle(context.Background(), &UpdateOrderStatusRequest{ID: "o1", Status: domain.OrderStatusProcessing})
	require.NoError(t, err)
	assert.Len(t, pub.events, 1)

	_, err = handler.Handle(context.Background(), &UpdateOrderStatusRequest{ID: "o1", Status: "returned"})
	assert.Equal(t, http.StatusBadRequest, statusOf(t, err))

	_, err = handler.Handle(context.Background(), &UpdateOrderStatusRequest{ID: "o9", Status: domain.OrderStatusShipped})
	assert.Equal(t, http.StatusNotFound, statusOf(t, err))
}

func TestListOrderItems(t *testing.T) {
	res, err := NewListOrderItemsHandler(seeded()).Handle(context.Background(), &ListOrderItemsRequest{Product: "p2"})
	require.NoError(t, err)
	require.Len(t, res.Items, 1)
	assert.Equal(t, "o2", res.Items[0].Order)
	assert.Equal(t, 1, res.TotalItems)
}

func TestPageBounds(t *testing.T) {
	page, size, offset := pageBounds(0, 0)
	assert.Equal(t, []int{1, defaultPageSize, 0}, []int{page, size, offset})

	page, size, offset = pageBounds(3, 10)
	assert.Equal(t, []int{3, 10, 20}, []int{page, size, offset})

	page, size, offset = pageBounds(1<<62, 500)
	assert.Equal(t, maxPage, page)
	assert.Equal(t, maxPageSize, size)
	assert.Positive(t, offset)

	assert.Equal(t, 3, newPagination(1, 10, 21).TotalPages)
	assert.Equal(t, 0, newPagination(1, 10, 0).TotalPages)
}
