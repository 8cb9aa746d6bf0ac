package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type OrderItem struct {
	ID          string          `db:"id" json:"id"`
	OrderID     string          `db:"order_id" json:"order"`
	ProductID   string          `db:"product_id" json:"product"`
	ProductName string          `db:"product_name" json:"product_name"`
	UserEmail   string          `db:"user_email" json:"user_email"`
	Quantity    int             `db:"quantity" json:"quantity"`
	Price       decimal.Decimal `db:"price" json:"price"`
	CreatedAt   time.Time       `db:"created_at" json:"created_at"`
}

type OrderItemFilter struct {
	ProductID string
	Search    string
}
