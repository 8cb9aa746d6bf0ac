package product

import (
	"context"
	"storefront/domain"
)

type Repository interface {
	GetProducts(ctx context.Context, filter domain.ProductFilter) ([]domain.Product, error)
	GetProduct(ctx context.Context, id string) (domain.Product, error)
	GetCategoryByID(ctx context.Context, id string) (domain.Category, error)
	CreateProduct(ctx context.Context, req *CreateProductRequest) (domain.Product, error)
	UpdateProduct(ctx context.Context, product domain.Product) (domain.Product, error)
	DeleteProduct(ctx context.Context, id string) error
	SetProductImage(ctx context.Context, id string, image *string) error
}

// ImageStorage is the object store holding uploaded product images.
type ImageStorage interface {
	Upload(key string, data []byte) error
	Delete(key string) error
}
