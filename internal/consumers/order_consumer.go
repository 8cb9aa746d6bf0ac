package consumers

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"storefront/domain"
	"storefront/pkg/events"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// OrderStore is the part of the store the checkout consumer writes to.
type OrderStore interface {
	CreateOrder(ctx context.Context, order domain.Order, items []domain.OrderItem) error
	CancelOrder(ctx context.Context, id string) (bool, error)
}

// OrderEventHandler ingests orders placed by checkout and keeps product
// stock in step with them.
type OrderEventHandler struct {
	repository OrderStore
	logger     *zap.Logger
}

func NewOrderEventHandler(repository OrderStore, logger *zap.Logger) *OrderEventHandler {
	return &OrderEventHandler{
		repository: repository,
		logger:     logger,
	}
}

func (h *OrderEventHandler) HandleEvent(ctx context.Context, event *events.Event) error {
	h.logger.Info("Order event received",
		zap.String("event", event.Event),
		zap.String("version", event.Version),
		zap.String("traceId", event.TraceID),
	)

	switch event.Event {
	case events.OrderCreatedEvent:
		return h.handleOrderCreated(ctx, event)
	case events.OrderCanceledEvent:
		return h.handleOrderCanceled(ctx, event)
	default:
		h.logger.Warn("Unknown order event type", zap.String("event", event.Event))
		return nil
	}
}

func (h *OrderEventHandler) handleOrderCreated(ctx context.Context, event *events.Event) error {
	var payload events.OrderCreatedPayload
	if err := event.DecodePayload(&payload); err != nil {
		return err
	}

	order, items, err := orderFromPayload(payload)
	if err != nil {
		return err
	}

	err = h.repository.CreateOrder(ctx, order, items)
	switch {
	case errors.Is(err, domain.ErrConflict):
		// Redelivery of an order that is already stored.
		h.logger.Info("Order already recorded", zap.String("orderId", order.ID), zap.String("traceId", event.TraceID))
		return nil
	case err != nil:
		return fmt.Errorf("failed to record order %s: %w", order.ID, err)
	}

	h.logger.Info("Order recorded",
		zap.String("orderId", order.ID),
		zap.Int("items", len(items)),
		zap.String("total", order.TotalAmount.StringFixed(2)),
		zap.String("traceId", event.TraceID),
	)
	return nil
}

func (h *OrderEventHandler) handleOrderCanceled(ctx context.Context, event *events.Event) error {
	var payload events.OrderCanceledPayload
	if err := event.DecodePayload(&payload); err != nil {
		return err
	}
	if _, err := uuid.Parse(payload.ID); err != nil {
		return fmt.Errorf("malformed payload - id missing or invalid")
	}

	canceled, err := h.repository.CancelOrder(ctx, payload.ID)
	if err != nil {
		return fmt.Errorf("failed to cancel order %s: %w", payload.ID, err)
	}

	if !canceled {
		h.logger.Info("Order already canceled", zap.String("orderId", payload.ID), zap.String("traceId", event.TraceID))
		return nil
	}

	h.logger.Info("Order canceled and restocked", zap.String("orderId", payload.ID), zap.String("traceId", event.TraceID))
	return nil
}

// orderFromPayload validates a checkout payload. The total is derived from
// the items when checkout did not send one.
func orderFromPayload(payload events.OrderCreatedPayload) (domain.Order, []domain.OrderItem, error) {
	if _, err := uuid.Parse(payload.ID); err != nil {
		return domain.Order{}, nil, fmt.Errorf("malformed payload - id missing or invalid")
	}
	if payload.UserID == "" {
		return domain.Order{}, nil, fmt.Errorf("malformed payload - userId missing")
	}
	if !slices.Contains([]string{domain.PaymentMethodPaypal, domain.PaymentMethodCOD}, payload.PaymentMethod) {
		return domain.Order{}, nil, fmt.Errorf("malformed payload - unknown payment method %q", payload.PaymentMethod)
	}
	if len(payload.Items) == 0 {
		return domain.Order{}, nil, fmt.Errorf("malformed payload - order has no items")
	}

	total := decimal.Zero
	items := make([]domain.OrderItem, len(payload.Items))
	for i, item := range payload.Items {
		if item.ProductID == "" || item.Quantity <= 0 || item.Price.IsNegative() {
			return domain.Order{}, nil, fmt.Errorf("malformed payload - invalid item at position %d", i)
		}
		items[i] = domain.OrderItem{
			OrderID:   payload.ID,
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			Price:     item.Price,
		}
		total = total.Add(item.Price.Mul(decimal.NewFromInt(int64(item.Quantity))))
	}

	if !payload.TotalAmount.IsZero() {
		total = payload.TotalAmount
	}

	return domain.Order{
		ID:                payload.ID,
		UserID:            payload.UserID,
		UserEmail:         payload.UserEmail,
		Status:            domain.OrderStatusPending,
		PaymentMethod:     payload.PaymentMethod,
		TotalAmount:       total,
		ShippingFirstName: payload.ShippingFirstName,
		ShippingLastName:  payload.ShippingLastName,
		ShippingAddress:   payload.ShippingAddress,
		ShippingCity:      payload.ShippingCity,
		ShippingState:     payload.ShippingState,
		ShippingZip:       payload.ShippingZip,
		ShippingPhone:     payload.ShippingPhone,
	}, items, nil
}
