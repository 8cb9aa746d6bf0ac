package product

import (
	"encoding/json"
	"storefront/domain"
	"storefront/pkg/media"
	"time"
)

// Shape selects which representation a listing returns.
type Shape string

const (
	ShapeList   Shape = "list"
	ShapeDetail Shape = "detail"
)

type ProductDetail struct {
	ID           string      `json:"id"`
	Name         string      `json:"name"`
	Description  string      `json:"description"`
	Price        json.Number `json:"price"`
	Category     string      `json:"category"`
	CategoryName string      `json:"category_name"`
	CategoryCode string      `json:"category_code"`
	Image        string      `json:"image"`
	IsBestSeller bool        `json:"is_best_seller"`
	Stock        int         `json:"stock"`
	CreatedAt    time.Time   `json:"created_at"`
	UpdatedAt    time.Time   `json:"updated_at"`
}

// ProductList is the lighter payload used by listing endpoints. Category
// carries the category code rather than its id.
type ProductList struct {
	ID           string      `json:"id"`
	Name         string      `json:"name"`
	Price        json.Number `json:"price"`
	Category     string      `json:"category"`
	Image        string      `json:"image"`
	IsBestSeller bool        `json:"is_best_seller"`
}

// Products holds a listing in one of the two shapes and encodes as a plain
// JSON array.
type Products struct {
	Shape   Shape
	List    []ProductList
	Details []ProductDetail
}

func (p Products) MarshalJSON() ([]byte, error) {
	if p.Shape == ShapeDetail {
		return json.Marshal(p.Details)
	}
	return json.Marshal(p.List)
}

func (p Products) Len() int {
	if p.Shape == ShapeDetail {
		return len(p.Details)
	}
	return len(p.List)
}

type Serializer struct {
	resolver media.Resolver
}

func NewSerializer(resolver media.Resolver) Serializer {
	return Serializer{resolver: resolver}
}

func (s Serializer) Detail(p domain.Product, baseURL string) ProductDetail {
	return ProductDetail{
		ID:           p.ID,
		Name:         p.Name,
		Description:  p.Description,
		Price:        price(p),
		Category:     p.CategoryID,
		CategoryName: p.Category.Name,
		CategoryCode: p.Category.Code,
		Image:        s.resolver.Resolve(p, baseURL),
		IsBestSeller: p.IsBestSeller,
		Stock:        p.Stock,
		CreatedAt:    p.CreatedAt,
		UpdatedAt:    p.UpdatedAt,
	}
}

func (s Serializer) List(p domain.Product, baseURL string) ProductList {
	return ProductList{
		ID:           p.ID,
		Name:         p.Name,
		Price:        price(p),
		Category:     p.Category.Code,
		Image:        s.resolver.Resolve(p, baseURL),
		IsBestSeller: p.IsBestSeller,
	}
}

func (s Serializer) ListMany(products []domain.Product, baseURL string) []ProductList {
	out := make([]ProductList, len(products))
	for i, p := range products {
		out[i] = s.List(p, baseURL)
	}
	return out
}

func (s Serializer) Many(products []domain.Product, shape Shape, baseURL string) Products {
	if shape != ShapeDetail {
		return Products{Shape: ShapeList, List: s.ListMany(products, baseURL)}
	}

	details := make([]ProductDetail, len(products))
	for i, p := range products {
		details[i] = s.Detail(p, baseURL)
	}
	return Products{Shape: ShapeDetail, Details: details}
}

func price(p domain.Product) json.Number {
	return json.Number(p.Price.StringFixed(2))
}
