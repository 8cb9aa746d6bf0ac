package rabbitmq

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"storefront/pkg/events"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"
)

const (
	defaultPrefetch = 10
	handleTimeout   = 30 * time.Second
)

var ErrDeliveriesClosed = errors.New("delivery channel closed")

// EventHandler processes one consumed event. A returned error dead-letters
// the message.
type EventHandler func(ctx context.Context, event *events.Event) error

type ConsumerConfig struct {
	Exchange      string
	QueueName     string
	RoutingKeys   []string
	ServiceName   string
	PrefetchCount int
}

// deadLetterNames returns the DLX and DLQ paired with the configured queue.
func (c ConsumerConfig) deadLetterNames() (string, string) {
	return c.Exchange + ".dlx", c.QueueName + ".dlq"
}

type Consumer struct {
	conn    *amqp.Connection
	channel *amqp.Channel
	config  ConsumerConfig
}

func NewConsumer(url string, config ConsumerConfig) (*Consumer, error) {
	conn, err := dial(url)
	if err != nil {
		return nil, err
	}

	ch, err := conn.Channel()
	if err != nil {
		closeAll(nil, conn)
		return nil, fmt.Errorf("failed to open channel: %w", err)
	}

	if config.PrefetchCount <= 0 {
		config.PrefetchCount = defaultPrefetch
	}
	if err := ch.Qos(config.PrefetchCount, 0, false); err != nil {
		closeAll(ch, conn)
		return nil, fmt.Errorf("failed to set QoS: %w", err)
	}

	if err := declareTopology(ch, config); err != nil {
		closeAll(ch, conn)
		return nil, err
	}

	zap.L().Info("RabbitMQ consumer ready",
		zap.String("queue", config.QueueName),
		zap.String("exchange", config.Exchange),
		zap.Strings("routingKeys", config.RoutingKeys),
	)

	return &Consumer{conn: conn, channel: ch, config: config}, nil
}

// declareTopology sets up the exchange, the queue and its dead-letter pair,
// and binds every routing key on both sides.
func declareTopology(ch *amqp.Channel, config ConsumerConfig) error {
	dlx, dlq := config.deadLetterNames()

	for _, exchange := range []string{config.Exchange, dlx} {
		if err := declareTopicExchange(ch, exchange); err != nil {
			return fmt.Errorf("failed to declare exchange %s: %w", exchange, err)
		}
	}

	if _, err := ch.QueueDeclare(config.QueueName, true, false, false, false, amqp.Table{
		"x-dead-letter-exchange": dlx,
	}); err != nil {
		return fmt.Errorf("failed to declare queue %s: %w", config.QueueName, err)
	}
	if _, err := ch.QueueDeclare(dlq, true, false, false, false, nil); err != nil {
		return fmt.Errorf("failed to declare queue %s: %w", dlq, err)
	}

	for _, key := range config.RoutingKeys {
		if err := ch.QueueBind(config.QueueName, key, config.Exchange, false, nil); err != nil {
			return fmt.Errorf("failed to bind %s to %s: %w", key, config.QueueName, err)
		}
		if err := ch.QueueBind(dlq, key, dlx, false, nil); err != nil {
			return fmt.Errorf("failed to bind %s to %s: %w", key, dlq, err)
		}
	}
	return nil
}

// Consume blocks, handing each delivery to handler until ctx is canceled or
// the broker closes the channel.
func (c *Consumer) Consume(ctx context.Context, handler EventHandler) error {
	deliveries, err := c.channel.Consume(c.config.QueueName, c.config.ServiceName, false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("failed to register consumer: %w", err)
	}

	zap.L().Info("Started consuming messages", zap.String("queue", c.config.QueueName))

	for {
		select {
		case <-ctx.Done():
			zap.L().Info("Consumer stopping", zap.String("queue", c.config.QueueName))
			return ctx.Err()
		case msg, ok := <-deliveries:
			if !ok {
				return ErrDeliveriesClosed
			}
			settle(msg, process(ctx, msg.Body, msg.Headers, handler))
		}
	}
}

// process decodes a message body and runs handler on it.
func process(ctx context.Context, body []byte, headers amqp.Table, handler EventHandler) error {
	traceID := headerString(headers, "x-trace-id")
	logger := zap.L().With(
		zap.String("traceId", traceID),
		zap.String("sourceService", headerString(headers, "x-service")),
	)

	var event events.Event
	if err := json.Unmarshal(body, &event); err != nil {
		logger.Error("Malformed event", zap.Error(err))
		return fmt.Errorf("malformed event: %w", err)
	}

	handleCtx, cancel := context.WithTimeout(ctx, handleTimeout)
	defer cancel()

	if err := handler(handleCtx, &event); err != nil {
		logger.Error("Failed to process event", zap.String("event", event.Event), zap.Error(err))
		return err
	}

	logger.Info("Processed event", zap.String("event", event.Event))
	return nil
}

// settle acks a handled message; failures go to the dead-letter queue
// without requeueing.
func settle(msg amqp.Delivery, err error) {
	if err != nil {
		if nackErr := msg.Nack(false, false); nackErr != nil {
			zap.L().Error("Failed to nack message", zap.Error(nackErr))
		}
		return
	}
	if ackErr := msg.Ack(false); ackErr != nil {
		zap.L().Error("Failed to ack message", zap.Error(ackErr))
	}
}

func headerString(headers amqp.Table, key string) string {
	value, _ := headers[key].(string)
	return value
}

func (c *Consumer) Close() error {
	if c.channel != nil {
		if err := c.channel.Close(); err != nil {
			zap.L().Error("Failed to close channel", zap.Error(err))
		}
	}
	if c.conn != nil {
		if err := c.conn.Close(); err != nil {
			zap.L().Error("Failed to close connection", zap.Error(err))
			return err
		}
	}
	zap.L().Info("RabbitMQ consumer closed")
	return nil
}
