package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"storefront/infra/postgres"
	"storefront/infra/rabbitmq"
	"storefront/internal/consumers"
	"storefront/pkg/config"
	"storefront/pkg/events"
	"storefront/pkg/logging"
	"syscall"
	"time"

	"go.uber.org/zap"
)

const (
	orderQueue        = "storefront.checkout.order.v1"
	poolStatsInterval = 30 * time.Second
)

func main() {
	appConfig := config.Read()
	logger := logging.Init(appConfig)
	defer logger.Sync()

	zap.L().Info("storefront worker starting...",
		zap.String("serviceName", appConfig.ServiceName),
	)

	if appConfig.RabbitMQURL == "" {
		zap.L().Fatal("RABBITMQ_URL is required for worker service")
	}

	pgRepository := postgres.NewPgRepository(appConfig.PostgresDSN())
	defer pgRepository.Close()

	orderHandler := consumers.NewOrderEventHandler(pgRepository, zap.L())

	orderConsumer, err := rabbitmq.NewConsumer(appConfig.RabbitMQURL, rabbitmq.ConsumerConfig{
		Exchange:  events.CheckoutExchange,
		QueueName: orderQueue,
		RoutingKeys: []string{
			events.OrderCreatedEvent + "." + events.EventVersionV1,
			events.OrderCanceledEvent + "." + events.EventVersionV1,
		},
		ServiceName:   appConfig.ServiceName,
		PrefetchCount: 10,
	})
	if err != nil {
		zap.L().Fatal("Failed to create order consumer", zap.Error(err))
	}
	defer orderConsumer.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		if err := orderConsumer.Consume(ctx, orderHandler.HandleEvent); err != nil && !errors.Is(err, context.Canceled) {
			zap.L().Error("Order consumer stopped", zap.Error(err))
			stop()
		}
	}()

	go logPoolStats(ctx, pgRepository)

	zap.L().Info("Worker started, waiting for events",
		zap.String("exchange", events.CheckoutExchange),
		zap.String("queue", orderQueue),
	)

	<-ctx.Done()
	zap.L().Info("Worker service stopped")
}

func logPoolStats(ctx context.Context, repository *postgres.PgRepository) {
	ticker := time.NewTicker(poolStatsInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			stats := repository.GetPoolStats()
			zap.L().Info("Connection pool stats",
				zap.Int("max_open", stats["max_open_connections"].(int)),
				zap.Int("open", stats["open_connections"].(int)),
				zap.Int("in_use", stats["in_use"].(int)),
				zap.Int("idle", stats["idle"].(int)),
				zap.Int64("wait_count", stats["wait_count"].(int64)),
				zap.Int64("wait_duration_ms", stats["wait_duration_ms"].(int64)),
			)
		}
	}
}
