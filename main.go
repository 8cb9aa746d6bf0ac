package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"storefront/infra/postgres"
	"storefront/infra/rabbitmq"
	"storefront/pkg/auth"
	"storefront/pkg/aws"
	"storefront/pkg/config"
	"storefront/pkg/events"
	"storefront/pkg/httperror"
	"storefront/pkg/logging"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

type Request any
type Response any

type HandlerInterface[R Request, Res Response] interface {
	Handle(ctx context.Context, req *R) (*Res, error)
}

func handle[R Request, Res Response](handler HandlerInterface[R, Res]) fiber.Handler {
	return handleWithStatus(fiber.StatusOK, handler)
}

func handleCreated[R Request, Res Response](handler HandlerInterface[R, Res]) fiber.Handler {
	return handleWithStatus(fiber.StatusCreated, handler)
}

func handleWithStatus[R Request, Res Response](status int, handler HandlerInterface[R, Res]) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req R

		if err := c.BodyParser(&req); err != nil && !errors.Is(err, fiber.ErrUnprocessableEntity) {
			return writeError(c, httperror.BadRequest(
				"request.invalid_body",
				"Invalid body",
				fiber.Map{"error": err.Error()},
			))
		}

		if err := c.ParamsParser(&req); err != nil {
			return writeError(c, httperror.BadRequest(
				"request.invalid_path_params",
				"Invalid path params",
				fiber.Map{"error": err.Error()},
			))
		}

		if err := c.QueryParser(&req); err != nil {
			return writeError(c, httperror.BadRequest(
				"request.invalid_query_params",
				"Invalid query params",
				fiber.Map{"error": err.Error()},
			))
		}

		if err := c.ReqHeaderParser(&req); err != nil {
			return writeError(c, httperror.BadRequest(
				"request.invalid_headers",
				"Invalid headers",
				fiber.Map{"error": err.Error()},
			))
		}

		res, err := handler.Handle(c.UserContext(), &req)
		if err != nil {
			return writeError(c, err)
		}

		return c.Status(status).JSON(res)
	}
}

func main() {
	appConfig := config.Read()
	logger := logging.Init(appConfig)
	defer logger.Sync()

	zap.L().Info("storefront API starting...",
		zap.String("serviceName", appConfig.ServiceName),
		zap.String("port", appConfig.Port),
		zap.Bool("debug", appConfig.Debug),
	)

	verifier, err := auth.NewVerifier(appConfig.SecretKey)
	if err != nil {
		zap.L().Fatal("SECRET_KEY must be set", zap.Error(err))
	}

	pgRepository := postgres.NewPgRepository(appConfig.PostgresDSN())
	defer pgRepository.Close()

	migrateCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	if err := pgRepository.Migrate(migrateCtx); err != nil {
		cancel()
		zap.L().Fatal("Failed to apply database schema", zap.Error(err))
	}
	cancel()

	storage := aws.NewS3Bucket(appConfig)
	defer storage.Close()

	// Events are best effort; without a broker the API still serves.
	var publisher events.Publisher
	if appConfig.RabbitMQURL != "" {
		rabbitPublisher, err := rabbitmq.NewPublisher(appConfig.RabbitMQURL, appConfig.ServiceName)
		if err != nil {
			zap.L().Error("Event publishing disabled", zap.Error(err))
		} else {
			publisher = rabbitPublisher
			defer rabbitPublisher.Close()
		}
	}

	app := newApp(appConfig, dependencies{
		repository: pgRepository,
		storage:    storage,
		publisher:  publisher,
		verifier:   verifier,
	})

	go func() {
		if err := app.Listen(fmt.Sprintf("0.0.0.0:%s", appConfig.Port)); err != nil {
			zap.L().Error("Failed to start server", zap.Error(err))
			os.Exit(1)
		}
	}()

	zap.L().Info("Server started on port", zap.String("port", appConfig.Port))

	gracefulShutdown(app)
}

func gracefulShutdown(app *fiber.App) {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	<-sigChan
	zap.L().Info("Shutting down server...")

	if err := app.ShutdownWithTimeout(5 * time.Second); err != nil {
		zap.L().Error("Error during server shutdown", zap.Error(err))
	}

	zap.L().Info("Server gracefully stopped")
}

func writeError(c *fiber.Ctx, err error) error {
	var httpErr *httperror.Error
	if errors.As(err, &httpErr) {
		if httpErr.Status == fiber.StatusNoContent {
			return c.SendStatus(fiber.StatusNoContent)
		}

		if httpErr.Status >= fiber.StatusInternalServerError {
			zap.L().Error("Handler returned server error", zap.String("code", httpErr.Code), zap.Error(httpErr), zap.NamedError("cause", httpErr.Cause))
		} else {
			zap.L().Warn("Handler returned client error", zap.String("code", httpErr.Code), zap.Error(httpErr), zap.NamedError("cause", httpErr.Cause))
		}

		return c.Status(httpErr.Status).JSON(httpErr.Payload())
	}

	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		zap.L().Warn("Fiber error", zap.String("message", fiberErr.Message), zap.Error(err))
		return c.Status(fiberErr.Code).JSON(fiber.Map{
			"code":    "request.invalid",
			"message": fiberErr.Message,
		})
	}

	zap.L().Error("Unhandled error", zap.Error(err))
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
		"code":    "internal_server_error",
		"message": "Internal server error.",
	})
}
