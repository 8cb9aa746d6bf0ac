package main

import (
	"mime"
	"path/filepath"
	"storefront/app"
	"storefront/app/category"
	"storefront/app/order"
	"storefront/app/product"
	"storefront/internal/middleware"
	"storefront/pkg/auth"
	"storefront/pkg/config"
	"storefront/pkg/events"
	"storefront/pkg/httperror"
	"storefront/pkg/media"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"go.uber.org/zap"
)

// MediaStorage is the object store behind product images and /media.
type MediaStorage interface {
	product.ImageStorage
	Download(key string) ([]byte, error)
}

type dependencies struct {
	repository app.Repository
	storage    MediaStorage
	publisher  events.Publisher
	verifier   *auth.Verifier
}

func newApp(cfg *config.AppConfig, deps dependencies) *fiber.App {
	app := fiber.New(fiber.Config{
		IdleTimeout:  5 * time.Second,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		Concurrency:  256 * 1024,
		BodyLimit:    6 * 1024 * 1024,
		ErrorHandler: writeError,
	})

	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(middleware.Logger(zap.L()))
	app.Use(corsMiddleware(cfg))
	app.Use(middleware.RequestOrigin())

	registerRoutes(app, cfg, deps)
	return app
}

func corsMiddleware(cfg *config.AppConfig) fiber.Handler {
	origins := cfg.AllowedOrigins()
	if len(origins) == 0 {
		return cors.New()
	}

	return cors.New(cors.Config{
		AllowOrigins:     strings.Join(origins, ","),
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
		AllowMethods:     "GET,POST,PUT,PATCH,DELETE,OPTIONS",
		AllowCredentials: true,
	})
}

func registerRoutes(app *fiber.App, cfg *config.AppConfig, deps dependencies) {
	resolver := media.NewResolver(cfg.MediaURL, cfg.PlaceholderImage)
	serializer := product.NewSerializer(resolver)
	repo := deps.repository
	service := cfg.ServiceName

	listCategoriesHandler := category.NewListCategoriesHandler(repo)
	getCategoryHandler := category.NewGetCategoryHandler(repo)
	createCategoryHandler := category.NewCreateCategoryHandler(repo)
	updateCategoryHandler := category.NewUpdateCategoryHandler(repo)

	listProductsHandler := product.NewListProductsHandler(repo, serializer)
	bestSellersHandler := product.NewBestSellersHandler(repo, serializer)
	productsByCategoryHandler := product.NewProductsByCategoryHandler(repo, serializer)
	getProductHandler := product.NewGetProductHandler(repo, serializer)
	createProductHandler := product.NewCreateProductHandler(repo, serializer, deps.publisher, service)
	updateProductHandler := product.NewUpdateProductHandler(repo, serializer, deps.publisher, service)
	deleteProductHandler := product.NewDeleteProductHandler(repo, deps.storage, deps.publisher, service)
	uploadProductImageHandler := product.NewUploadProductImageHandler(repo, deps.storage, resolver, deps.publisher, service)

	listOrdersHandler := order.NewListOrdersHandler(repo)
	getOrderHandler := order.NewGetOrderHandler(repo)
	updateOrderStatusHandler := order.NewUpdateOrderStatusHandler(repo, deps.publisher, service)
	listOrderItemsHandler := order.NewListOrderItemsHandler(repo)

	app.Get("/healthz", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status": "ok",
			"db":     repo.GetPoolStats(),
		})
	})
	app.Get("/media/*", serveMedia(deps.storage, resolver))

	api := app.Group("/api", middleware.Authenticate(deps.verifier))

	api.Get("/categories", middleware.AllowAny(), handle[category.ListCategoriesRequest, category.ListCategoriesResponse](listCategoriesHandler))
	api.Get("/categories/:slug", middleware.AllowAny(), handle[category.GetCategoryRequest, category.GetCategoryResponse](getCategoryHandler))
	api.Post("/categories", middleware.IsAdmin(), handleCreated[category.CreateCategoryRequest, category.CreateCategoryResponse](createCategoryHandler))
	api.Put("/categories/:slug", middleware.IsAdmin(), handle[category.UpdateCategoryRequest, category.UpdateCategoryResponse](updateCategoryHandler))
	api.Patch("/categories/:slug", middleware.IsAdmin(), handle[category.UpdateCategoryRequest, category.UpdateCategoryResponse](updateCategoryHandler))

	// Fixed paths go before /products/:id.
	api.Get("/products", middleware.AllowAny(), handle[product.ListProductsRequest, product.ListProductsResponse](listProductsHandler))
	api.Get("/products/bestsellers", middleware.AllowAny(), handle[product.BestSellersRequest, product.BestSellersResponse](bestSellersHandler))
	api.Get("/products/by_category", middleware.AllowAny(), handle[product.ProductsByCategoryRequest, product.ProductsByCategoryResponse](productsByCategoryHandler))
	api.Get("/products/:id", middleware.AllowAny(), handle[product.GetProductRequest, product.GetProductResponse](getProductHandler))
	api.Post("/products", middleware.IsAuthenticated(), handleCreated[product.CreateProductRequest, product.CreateProductResponse](createProductHandler))
	api.Put("/products/:id", middleware.IsAuthenticated(), handle[product.UpdateProductRequest, product.UpdateProductResponse](updateProductHandler))
	api.Patch("/products/:id", middleware.IsAuthenticated(), handle[product.UpdateProductRequest, product.UpdateProductResponse](updateProductHandler))
	api.Delete("/products/:id", middleware.IsAuthenticated(), handle[product.DeleteProductRequest, product.DeleteProductResponse](deleteProductHandler))
	api.Post("/products/:id/image", middleware.IsAuthenticated(), handleImageUpload(uploadProductImageHandler))

	admin := api.Group("/admin", middleware.IsAdmin())
	admin.Get("/orders", handle[order.ListOrdersRequest, order.ListOrdersResponse](listOrdersHandler))
	admin.Get("/orders/:id", handle[order.GetOrderRequest, order.GetOrderResponse](getOrderHandler))
	admin.Patch("/orders/:id", handle[order.UpdateOrderStatusRequest, order.UpdateOrderStatusResponse](updateOrderStatusHandler))
	admin.Get("/order-items", handle[order.ListOrderItemsRequest, order.ListOrderItemsResponse](listOrderItemsHandler))
}

// handleImageUpload reads the multipart "image" field, which the generic
// parsers do not bind.
func handleImageUpload(handler *product.UploadProductImageHandler) fiber.Handler {
	return func(c *fiber.Ctx) error {
		req := product.UploadProductImageRequest{ProductID: c.Params("id")}
		if file, err := c.FormFile("image"); err == nil {
			req.File = file
		}

		res, err := handler.Handle(c.UserContext(), &req)
		if err != nil {
			return writeError(c, err)
		}

		return c.Status(fiber.StatusCreated).JSON(res)
	}
}

func serveMedia(storage MediaStorage, resolver media.Resolver) fiber.Handler {
	return func(c *fiber.Ctx) error {
		key, ok := resolver.Key(c.Path())
		if !ok || strings.Contains(key, "..") {
			return writeError(c, httperror.NotFound("media.not_found", "Media not found", nil))
		}

		data, err := storage.Download(key)
		if err != nil {
			return writeError(c, httperror.InternalServerError("media.download_failed", "Failed to load media", nil).Wrap(err))
		}
		if data == nil {
			return writeError(c, httperror.NotFound("media.not_found", "Media not found", nil))
		}

		if contentType := mime.TypeByExtension(filepath.Ext(key)); contentType != "" {
			c.Set(fiber.HeaderContentType, contentType)
		}
		c.Set(fiber.HeaderCacheControl, "public, max-age=86400")
		return c.Send(data)
	}
}
