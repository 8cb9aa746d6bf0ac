package postgres

import (
	"context"
	"storefront/domain"
)

const selectOrderItems = `
	SELECT
		oi.id, oi.order_id, oi.product_id, p.name AS product_name,
		o.user_email, oi.quantity, oi.price, oi.created_at
	FROM order_items oi
	JOIN orders o ON o.id = oi.order_id
	JOIN products p ON p.id = oi.product_id`

func orderConditions(filter domain.OrderFilter) conditions {
	var where conditions
	if filter.Status != "" {
		where.add("status = ?", filter.Status)
	}
	if filter.PaymentMethod != "" {
		where.add("payment_method = ?", filter.PaymentMethod)
	}
	if filter.CreatedAfter != nil {
		where.add("created_at >= ?", *filter.CreatedAfter)
	}
	if filter.CreatedBefore != nil {
		where.add("created_at <= ?", *filter.CreatedBefore)
	}
	if filter.Search != "" {
		where.add("(user_email ILIKE ? OR shipping_first_name ILIKE ? OR shipping_last_name ILIKE ?)", contains(filter.Search))
	}
	return where
}

func (r *PgRepository) GetOrders(ctx context.Context, filter domain.OrderFilter, limit, offset int) ([]domain.Order, error) {
	where := orderConditions(filter)
	page, args := where.page(limit, offset)

	orders := make([]domain.Order, 0)
	query := `SELECT * FROM orders` + where.where() + ` ORDER BY created_at DESC, id` + page

	if err := r.db.SelectContext(ctx, &orders, query, args...); err != nil {
		return nil, translate("get orders", err)
	}

	return orders, nil
}

func (r *PgRepository) CountOrders(ctx context.Context, filter domain.OrderFilter) (int, error) {
	where := orderConditions(filter)

	var count int
	if err := r.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM orders`+where.where(), where.args...); err != nil {
		return 0, translate("count orders", err)
	}

	return count, nil
}

func (r *PgRepository) GetOrder(ctx context.Context, id string) (domain.Order, error) {
	var o domain.Order
	err := r.db.GetContext(ctx, &o, `SELECT * FROM orders WHERE id = $1`, id)
	return o, translate("get order", err)
}

func (r *PgRepository) GetOrderItems(ctx context.Context, orderID string) ([]domain.OrderItem, error) {
	items := make([]domain.OrderItem, 0)
	query := selectOrderItems + ` WHERE oi.order_id = $1 ORDER BY oi.created_at, oi.id`

	if err := r.db.SelectContext(ctx, &items, query, orderID); err != nil {
		return nil, translate("get order items", err)
	}

	return items, nil
}

func (r *PgRepository) UpdateOrderStatus(ctx context.Context, id, status string) (domain.Order, error) {
	var o domain.Order
	query := `UPDATE orders SET status = $1, updated_at = now() WHERE id = $2 RETURNING *`

	err := r.db.GetContext(ctx, &o, query, status, id)
	return o, translate("update order status", err)
}

func orderItemConditions(filter domain.OrderItemFilter) conditions {
	var where conditions
	if filter.ProductID != "" {
		where.add("oi.product_id::text = ?", filter.ProductID)
	}
	if filter.Search != "" {
		where.add("(oi.order_id::text ILIKE ? OR p.name ILIKE ? OR o.user_email ILIKE ?)", contains(filter.Search))
	}
	return where
}

func (r *PgRepository) ListOrderItems(ctx context.Context, filter domain.OrderItemFilter, limit, offset int) ([]domain.OrderItem, error) {
	where := orderItemConditions(filter)
	page, args := where.page(limit, offset)

	items := make([]domain.OrderItem, 0)
	query := selectOrderItems + where.where() + ` ORDER BY oi.created_at DESC, oi.id` + page

	if err := r.db.SelectContext(ctx, &items, query, args...); err != nil {
		return nil, translate("list order items", err)
	}

	return items, nil
}

func (r *PgRepository) CountOrderItems(ctx context.Context, filter domain.OrderItemFilter) (int, error) {
	where := orderItemConditions(filter)
	query := `
		SELECT COUNT(*)
		FROM order_items oi
		JOIN orders o ON o.id = oi.order_id
		JOIN products p ON p.id = oi.product_id` + where.where()

	var count int
	if err := r.db.GetContext(ctx, &count, query, where.args...); err != nil {
		return 0, translate("count order items", err)
	}

	return count, nil
}
