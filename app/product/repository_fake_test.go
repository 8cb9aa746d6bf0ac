package product

import (
	"context"
	"errors"
	"storefront/domain"
	"storefront/pkg/events"
	"time"

	"github.com/google/uuid"
)

type fakeRepository struct {
	categories map[string]domain.Category
	products   []domain.Product
	err        error
}

func newFakeRepository(categories ...domain.Category) *fakeRepository {
	repo := &fakeRepository{categories: map[string]domain.Category{}}
	for _, c := range categories {
		repo.categories[c.ID] = c
	}
	return repo
}

func (r *fakeRepository) add(p domain.Product) domain.Product {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	p.Category = r.categories[p.CategoryID]
	r.products = append(r.products, p)
	return p
}

func (r *fakeRepository) GetProducts(_ context.Context, filter domain.ProductFilter) ([]domain.Product, error) {
	if r.err != nil {
		return nil, r.err
	}
	var out []domain.Product
	for _, p := range r.products {
		if filter.CategoryCode != "" && r.categories[p.CategoryID].Code != filter.CategoryCode {
			continue
		}
		if filter.BestSellersOnly && !p.IsBestSeller {
			continue
		}
		p.Category = r.categories[p.CategoryID]
		out = append(out, p)
	}
	return out, nil
}

func (r *fakeRepository) GetProduct(_ context.Context, id string) (domain.Product, error) {
	if r.err != nil {
		return domain.Product{}, r.err
	}
	for _, p := range r.products {
		if p.ID == id {
			p.Category = r.categories[p.CategoryID]
			return p, nil
		}
	}
	return domain.Product{}, domain.ErrNotFound
}

func (r *fakeRepository) GetCategoryByID(_ context.Context, id string) (domain.Category, error) {
	c, ok := r.categories[id]
	if !ok {
		return domain.Category{}, domain.ErrNotFound
	}
	return c, nil
}

func (r *fakeRepository) CreateProduct(_ context.Context, req *CreateProductRequest) (domain.Product, error) {
	if r.err != nil {
		return domain.Product{}, r.err
	}
	now := time.Now().UTC()
	return r.add(domain.Product{
		Name:         req.Name,
		Description:  req.Description,
		Price:        *req.Price,
		CategoryID:   req.CategoryID,
		Image:        req.Image,
		IsBestSeller: req.IsBestSeller,
		Stock:        req.Stock,
		CreatedAt:    now,
		UpdatedAt:    now,
	}), nil
}

func (r *fakeRepository) UpdateProduct(_ context.Context, product domain.Product) (domain.Product, error) {
	for i, p := range r.products {
		if p.ID == product.ID {
			product.UpdatedAt = time.Now().UTC()
			product.Category = r.categories[product.CategoryID]
			r.products[i] = product
			return product, nil
		}
	}
	return domain.Product{}, domain.ErrNotFound
}

func (r *fakeRepository) DeleteProduct(_ context.Context, id string) error {
	if r.err != nil {
		return r.err
	}
	for i, p := range r.products {
		if p.ID == id {
			r.products = append(r.products[:i], r.products[i+1:]...)
			return nil
		}
	}
	return domain.ErrNotFound
}

func (r *fakeRepository) SetProductImage(_ context.Context, id string, image *string) error {
	for i, p := range r.products {
		if p.ID == id {
			r.products[i].Image = image
			return nil
		}
	}
	return domain.ErrNotFound
}

type memoryStorage struct {
	objects map[string][]byte
	deleted []string
	failPut bool
}

func newMemoryStorage() *memoryStorage {
	return &memoryStorage{objects: map[string][]byte{}}
}

func (s *memoryStorage) Upload(key string, data []byte) error {
	if s.failPut {
		return errors.New("bucket unavailable")
	}
	s.objects[key] = data
	return nil
}

func (s *memoryStorage) Delete(key string) error {
	delete(s.objects, key)
	s.deleted = append(s.deleted, key)
	return nil
}

type recordingPublisher struct {
	events []*events.Event
}

func (p *recordingPublisher) Publish(_ context.Context, _ string, event *events.Event, _ events.Headers) error {
	p.events = append(p.events, event)
	return nil
}

func (p *recordingPublisher) Close() error { return nil }

func (p *recordingPublisher) names() []string {
	names := make([]string, len(p.events))
	for i, e := range p.events {
		names[i] = e.Event
	}
	return names
}
