package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	OrderStatusPending    = "pending"
	OrderStatusProcessing = "processing"
	OrderStatusShipped    = "shipped"
	OrderStatusDelivered  = "delivered"
	OrderStatusCanceled   = "canceled"
)

const (
	PaymentMethodPaypal = "paypal"
	PaymentMethodCOD    = "cod"
)

// OrderStatuses lists the status choices in workflow order.
var OrderStatuses = []string{
	OrderStatusPending,
	OrderStatusProcessing,
	OrderStatusShipped,
	OrderStatusDelivered,
	OrderStatusCanceled,
}

type Order struct {
	ID                string          `db:"id" json:"id"`
	UserID            string          `db:"user_id" json:"user_id"`
	UserEmail         string          `db:"user_email" json:"user_email"`
	Status            string          `db:"status" json:"status"`
	PaymentMethod     string          `db:"payment_method" json:"payment_method"`
	TotalAmount       decimal.Decimal `db:"total_amount" json:"total_amount"`
	ShippingFirstName string          `db:"shipping_first_name" json:"shipping_first_name"`
	ShippingLastName  string          `db:"shipping_last_name" json:"shipping_last_name"`
	ShippingAddress   string          `db:"shipping_address" json:"shipping_address"`
	ShippingCity      string          `db:"shipping_city" json:"shipping_city"`
	ShippingState     string          `db:"shipping_state" json:"shipping_state"`
	ShippingZip       string          `db:"shipping_zip" json:"shipping_zip"`
	ShippingPhone     string          `db:"shipping_phone" json:"shipping_phone"`
	CreatedAt         time.Time       `db:"created_at" json:"created_at"`
	UpdatedAt         time.Time       `db:"updated_at" json:"updated_at"`
}

type OrderFilter struct {
	Status        string
	PaymentMethod string
	CreatedAfter  *time.Time
	CreatedBefore *time.Time
	Search        string
}
