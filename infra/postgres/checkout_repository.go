package postgres

import (
	"context"
	"fmt"
	"storefront/domain"

	"github.com/jmoiron/sqlx"
)

// CreateOrder stores an order with its items and takes the ordered quantities
// out of stock. Nothing is written when any product lacks stock.
func (r *PgRepository) CreateOrder(ctx context.Context, order domain.Order, items []domain.OrderItem) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("create order: begin: %w", err)
	}
	defer tx.Rollback()

	query := `
		INSERT INTO orders (
			id, user_id, user_email, status, payment_method, total_amount,
			shipping_first_name, shipping_last_name, shipping_address,
			shipping_city, shipping_state, shipping_zip, shipping_phone
		) VALUES (
			:id, :user_id, :user_email, :status, :payment_method, :total_amount,
			:shipping_first_name, :shipping_last_name, :shipping_address,
			:shipping_city, :shipping_state, :shipping_zip, :shipping_phone
		)`

	if _, err := tx.NamedExecContext(ctx, query, order); err != nil {
		return translate("create order", err)
	}

	for _, item := range items {
		if err := takeStock(ctx, tx, item.ProductID, item.Quantity); err != nil {
			return err
		}

		_, err := tx.ExecContext(ctx,
			`INSERT INTO order_items (order_id, product_id, quantity, price) VALUES ($1, $2, $3, $4)`,
			order.ID, item.ProductID, item.Quantity, item.Price,
		)
		if err != nil {
			return translate("create order item", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("create order: commit: %w", err)
	}
	return nil
}

// takeStock decrements stock only while enough units remain, so concurrent
// orders can never drive it below zero.
func takeStock(ctx context.Context, tx *sqlx.Tx, productID string, quantity int) error {
	res, err := tx.ExecContext(ctx,
		`UPDATE products SET stock = stock - $1, updated_at = now() WHERE id = $2 AND stock >= $1`,
		quantity, productID,
	)
	if err != nil {
		return translate("take stock", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("take stock: %w", err)
	}
	if n > 0 {
		return nil
	}

	var exists bool
	if err := tx.GetContext(ctx, &exists, `SELECT EXISTS (SELECT 1 FROM products WHERE id = $1)`, productID); err != nil {
		return translate("take stock", err)
	}
	if !exists {
		return fmt.Errorf("take stock: product %s: %w", productID, domain.ErrInvalidReference)
	}
	return fmt.Errorf("take stock: product %s: %w", productID, domain.ErrInsufficientStock)
}

// CancelOrder marks an order canceled and puts its items back in stock. It
// reports false when the order was already canceled.
func (r *PgRepository) CancelOrder(ctx context.Context, id string) (bool, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return false, fmt.Errorf("cancel order: begin: %w", err)
	}
	defer tx.Rollback()

	var status string
	if err := tx.GetContext(ctx, &status, `SELECT status FROM orders WHERE id = $1 FOR UPDATE`, id); err != nil {
		return false, translate("cancel order", err)
	}
	if status == domain.OrderStatusCanceled {
		return false, nil
	}

	if _, err := tx.ExecContext(ctx, `UPDATE orders SET status = $1, updated_at = now() WHERE id = $2`, domain.OrderStatusCanceled, id); err != nil {
		return false, translate("cancel order", err)
	}

	restock := `
		UPDATE products p
		SET stock = p.stock + q.quantity, updated_at = now()
		FROM (
			SELECT product_id, SUM(quantity) AS quantity
			FROM order_items
			WHERE order_id = $1
			GROUP BY product_id
		) q
		WHERE p.id = q.product_id`

	if _, err := tx.ExecContext(ctx, restock, id); err != nil {
		return false, translate("restock order", err)
	}

	if err := tx.Commit(); err != nil {
		return false, fmt.Errorf("cancel order: commit: %w", err)
	}
	return true, nil
}
