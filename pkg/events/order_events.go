package events

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	OrderExchange    = "storefront.order"
	CheckoutExchange = "storefront.checkout"
)

const (
	OrderCreatedEvent       = "order.created"
	OrderCanceledEvent      = "order.canceled"
	OrderStatusChangedEvent = "order.status.changed"
)

// OrderCreatedPayload is published by checkout once an order is paid for or
// confirmed as cash on delivery.
type OrderCreatedPayload struct {
	ID                string             `json:"id"`
	UserID            string             `json:"userId"`
	UserEmail         string             `json:"userEmail"`
	PaymentMethod     string             `json:"paymentMethod"`
	TotalAmount       decimal.Decimal    `json:"totalAmount"`
	ShippingFirstName string             `json:"shippingFirstName"`
	ShippingLastName  string             `json:"shippingLastName"`
	ShippingAddress   string             `json:"shippingAddress"`
	ShippingCity      string             `json:"shippingCity"`
	ShippingState     string             `json:"shippingState"`
	ShippingZip       string             `json:"shippingZip"`
	ShippingPhone     string             `json:"shippingPhone"`
	Items             []OrderItemPayload `json:"items"`
	CreatedAt         time.Time          `json:"createdAt"`
}

type OrderItemPayload struct {
	ProductID string          `json:"productId"`
	Quantity  int             `json:"quantity"`
	Price     decimal.Decimal `json:"price"`
}

type OrderCanceledPayload struct {
	ID         string    `json:"id"`
	CanceledAt time.Time `json:"canceledAt"`
}

type OrderStatusChangedPayload struct {
	ID        string    `json:"id"`
	OldStatus string    `json:"oldStatus"`
	NewStatus string    `json:"newStatus"`
	ChangedBy string    `json:"changedBy"`
	ChangedAt time.Time `json:"changedAt"`
}
