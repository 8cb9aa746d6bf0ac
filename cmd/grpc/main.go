package main

import (
	"os"
	"os/signal"
	"storefront/app/product"
	"storefront/infra/grpc"
	"storefront/infra/postgres"
	"storefront/pkg/config"
	"storefront/pkg/logging"
	"storefront/pkg/media"
	"syscall"

	"go.uber.org/zap"
)

func main() {
	appConfig := config.Read()
	logger := logging.Init(appConfig)
	defer logger.Sync()

	zap.L().Info("storefront gRPC service starting...")

	grpcServer, err := grpc.NewServer(appConfig)
	if err != nil {
		zap.L().Error("failed to create grpc server", zap.Error(err))
		os.Exit(1)
	}

	pgRepository := postgres.NewPgRepository(appConfig.PostgresDSN())
	defer pgRepository.Close()

	serializer := product.NewSerializer(media.NewResolver(appConfig.MediaURL, appConfig.PlaceholderImage))
	grpcServer.RegisterCatalog(grpc.NewCatalogService(pgRepository, serializer))

	zap.L().Info("starting gRPC server...", zap.String("port", appConfig.GRPCPort))
	go func() {
		if err := grpcServer.Start(); err != nil {
			zap.L().Error("failed to start grpc server", zap.Error(err))
			os.Exit(1)
		}
	}()

	gracefulShutdown(grpcServer)
}

func gracefulShutdown(grpcServer *grpc.Server) {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	<-sigChan
	zap.L().Info("Shutting down server...")

	grpcServer.GracefulStop()

	zap.L().Info("Server gracefully stopped")
}
