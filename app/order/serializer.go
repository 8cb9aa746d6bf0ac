package order

import (
	"encoding/json"
	"storefront/domain"
	"time"

	"github.com/shopspring/decimal"
)

// OrderRow is one line of the order table view.
type OrderRow struct {
	ID            string    `json:"id"`
	User          string    `json:"user"`
	Status        string    `json:"status"`
	PaymentMethod string    `json:"payment_method"`
	CreatedAt     time.Time `json:"created_at"`
}

type OrderDetail struct {
	ID                string          `json:"id"`
	UserID            string          `json:"user_id"`
	User              string          `json:"user"`
	Status            string          `json:"status"`
	PaymentMethod     string          `json:"payment_method"`
	TotalAmount       json.Number     `json:"total_amount"`
	ShippingFirstName string          `json:"shipping_first_name"`
	ShippingLastName  string          `json:"shipping_last_name"`
	ShippingAddress   string          `json:"shipping_address"`
	ShippingCity      string          `json:"shipping_city"`
	ShippingState     string          `json:"shipping_state"`
	ShippingZip       string          `json:"shipping_zip"`
	ShippingPhone     string          `json:"shipping_phone"`
	Items             []OrderItemLine `json:"items"`
	CreatedAt         time.Time       `json:"created_at"`
	UpdatedAt         time.Time       `json:"updated_at"`
}

// OrderItemLine is an item shown inline, read-only, under its order.
type OrderItemLine struct {
	ID          string      `json:"id"`
	Product     string      `json:"product"`
	ProductName string      `json:"product_name"`
	Quantity    int         `json:"quantity"`
	Price       json.Number `json:"price"`
}

// OrderItemRow is one line of the order item table view.
type OrderItemRow struct {
	ID          string      `json:"id"`
	Order       string      `json:"order"`
	UserEmail   string      `json:"user_email"`
	Product     string      `json:"product"`
	ProductName string      `json:"product_name"`
	Quantity    int         `json:"quantity"`
	Price       json.Number `json:"price"`
}

func serializeRow(o domain.Order) OrderRow {
	return OrderRow{
		ID:            o.ID,
		User:          o.UserEmail,
		Status:        o.Status,
		PaymentMethod: o.PaymentMethod,
		CreatedAt:     o.CreatedAt,
	}
}

func serializeDetail(o domain.Order, items []domain.OrderItem) OrderDetail {
	lines := make([]OrderItemLine, len(items))
	for i, item := range items {
		lines[i] = OrderItemLine{
			ID:          item.ID,
			Product:     item.ProductID,
			ProductName: item.ProductName,
			Quantity:    item.Quantity,
			Price:       amount(item.Price),
		}
	}

	return OrderDetail{
		ID:                o.ID,
		UserID:            o.UserID,
		User:              o.UserEmail,
		Status:            o.Status,
		PaymentMethod:     o.PaymentMethod,
		TotalAmount:       amount(o.TotalAmount),
		ShippingFirstName: o.ShippingFirstName,
		ShippingLastName:  o.ShippingLastName,
		ShippingAddress:   o.ShippingAddress,
		ShippingCity:      o.ShippingCity,
		ShippingState:     o.ShippingState,
		ShippingZip:       o.ShippingZip,
		ShippingPhone:     o.ShippingPhone,
		Items:             lines,
		CreatedAt:         o.CreatedAt,
		UpdatedAt:         o.UpdatedAt,
	}
}

func serializeItemRow(item domain.OrderItem) OrderItemRow {
	return OrderItemRow{
		ID:          item.ID,
		Order:       item.OrderID,
		UserEmail:   item.UserEmail,
		Product:     item.ProductID,
		ProductName: item.ProductName,
		Quantity:    item.Quantity,
		Price:       amount(item.Price),
	}
}

func amount(d decimal.Decimal) json.Number {
	return json.Number(d.StringFixed(2))
}
