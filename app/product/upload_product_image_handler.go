package product

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"storefront/domain"
	"storefront/pkg/auth"
	"storefront/pkg/events"
	"storefront/pkg/httperror"
	"storefront/pkg/media"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

const maxImageSize = 5 * 1024 * 1024

var allowedImageTypes = map[string]string{
	"image/png":  ".png",
	"image/jpeg": ".jpg",
	"image/jpg":  ".jpg",
}

type UploadProductImageHandler struct {
	repository     Repository
	storage        ImageStorage
	resolver       media.Resolver
	eventPublisher events.Publisher
	service        string
}

func NewUploadProductImageHandler(repository Repository, storage ImageStorage, resolver media.Resolver, eventPublisher events.Publisher, service string) *UploadProductImageHandler {
	return &UploadProductImageHandler{
		repository:     repository,
		storage:        storage,
		resolver:       resolver,
		eventPublisher: eventPublisher,
		service:        service,
	}
}

// UploadProductImageRequest is filled from the multipart form field "image".
type UploadProductImageRequest struct {
	ProductID string                `params:"id"`
	File      *multipart.FileHeader `json:"-" query:"-"`
}

type UploadProductImageResponse struct {
	ProductID string `json:"product_id"`
	ImageKey  string `json:"image_key"`
	Image     string `json:"image"`
}

func (h *UploadProductImageHandler) Handle(ctx context.Context, req *UploadProductImageRequest) (*UploadProductImageResponse, error) {
	product, err := h.repository.GetProduct(ctx, req.ProductID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, httperror.NotFound("product.image.not_found", "Product not found.", nil)
		}
		return nil, httperror.InternalServerError("product.image.lookup_failed", "Failed to retrieve product.", nil).Wrap(err)
	}

	if req.File == nil {
		return nil, httperror.BadRequest("product.image.missing_file", "Image file is required (use 'image' field)", nil)
	}

	if req.File.Size > maxImageSize {
		return nil, httperror.BadRequest("product.image.file_too_large", "File size must not exceed 5MB",
			fiber.Map{
				"size_mb": float64(req.File.Size) / 1024 / 1024,
				"max_mb":  5,
			})
	}

	contentType := req.File.Header.Get("Content-Type")
	if _, ok := allowedImageTypes[contentType]; !ok {
		return nil, httperror.BadRequest("product.image.invalid_content_type", "Only PNG, JPEG/JPG images are allowed",
			fiber.Map{
				"received": contentType,
				"allowed":  []string{"image/png", "image/jpeg", "image/jpg"},
			})
	}

	fileReader, err := req.File.Open()
	if err != nil {
		return nil, httperror.InternalServerError("product.image.file_open_error", "Failed to open uploaded file", nil).Wrap(err)
	}
	defer fileReader.Close()

	fileBytes, err := io.ReadAll(fileReader)
	if err != nil {
		return nil, httperror.InternalServerError("product.image.file_read_error", "Failed to read file content", nil).Wrap(err)
	}

	// The declared type is client controlled; the stored extension follows the bytes.
	detected := mimetype.Detect(fileBytes)
	extension, ok := allowedImageTypes[detected.String()]
	if !ok {
		return nil, httperror.BadRequest("product.image.content_mismatch", "File content is not a PNG or JPEG image",
			fiber.Map{
				"declared": contentType,
				"detected": detected.String(),
			})
	}

	key := fmt.Sprintf("products/%s/%s%s", product.ID, uuid.New().String(), extension)

	if err := h.storage.Upload(key, fileBytes); err != nil {
		return nil, httperror.InternalServerError("product.image.upload_failed", "Failed to upload image to storage", nil).Wrap(err)
	}

	if err := h.repository.SetProductImage(ctx, product.ID, &key); err != nil {
		_ = h.storage.Delete(key)
		return nil, httperror.InternalServerError("product.image.store_failed", "Failed to save image metadata", nil).Wrap(err)
	}

	removeStoredImage(h.storage, product.Image)

	events.Emit(ctx, h.eventPublisher, events.CatalogExchange, events.ProductImageUploadedEvent, h.service, events.ProductImageUploadedPayload{
		ProductID:  product.ID,
		ImageKey:   key,
		UploadedBy: auth.UserID(ctx),
		CreatedAt:  time.Now().UTC(),
	})

	return &UploadProductImageResponse{
		ProductID: product.ID,
		ImageKey:  key,
		Image:     h.resolver.ImageURL(&key, media.BaseURLFrom(ctx)),
	}, nil
}

func isExternal(image string) bool {
	return strings.HasPrefix(image, "http://") || strings.HasPrefix(image, "https://")
}
