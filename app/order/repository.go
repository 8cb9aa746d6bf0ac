package order

import (
	"context"
	"storefront/domain"
)

type Repository interface {
	GetOrders(ctx context.Context, filter domain.OrderFilter, limit, offset int) ([]domain.Order, error)
	CountOrders(ctx context.Context, filter domain.OrderFilter) (int, error)
	GetOrder(ctx context.Context, id string) (domain.Order, error)
	GetOrderItems(ctx context.Context, orderID string) ([]domain.OrderItem, error)
	UpdateOrderStatus(ctx context.Context, id, status string) (domain.Order, error)
	ListOrderItems(ctx context.Context, filter domain.OrderItemFilter, limit, offset int) ([]domain.OrderItem, error)
	CountOrderItems(ctx context.Context, filter domain.OrderItemFilter) (int, error)
}
