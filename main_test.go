package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"storefront/app"
	"storefront/app/product"
	"storefront/domain"
	"storefront/pkg/auth"
	"storefront/pkg/config"
	"storefront/pkg/httperror"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

var shirts = domain.Category{ID: "3f1c2a58-7a4e-4c55-9d6e-1d2f3a4b5c6d", Name: "Shirts", Slug: "shirts", Code: "SHIRTS"}

// stubRepository serves the catalog routes; the embedded interface is left
// nil so unexpected calls fail loudly.
type stubRepository struct {
	app.Repository
	products []domain.Product
}

func (r *stubRepository) GetPoolStats() map[string]any {
	return map[string]any{"open_connections": 1}
}

func (r *stubRepository) GetCategories(context.Context) ([]domain.Category, error) {
	return []domain.Category{shirts}, nil
}

func (r *stubRepository) GetCategoryByID(_ context.Context, id string) (domain.Category, error) {
	if id == shirts.ID {
		return shirts, nil
	}
	return domain.Category{}, domain.ErrNotFound
}

func (r *stubRepository) GetProducts(_ context.Context, filter domain.ProductFilter) ([]domain.Product, error) {
	var out []domain.Product
	for _, p := range r.products {
		if filter.BestSellersOnly && !p.IsBestSeller {
			continue
		}
		if filter.CategoryCode != "" && p.Category.Code != filter.CategoryCode {
			continue
		}
		out = append(out, p)
	}
	return out, nil
}

func (r *stubRepository) GetProduct(_ context.Context, id string) (domain.Product, error) {
	for _, p := range r.products {
		if p.ID == id {
			return p, nil
		}
	}
	return domain.Product{}, domain.ErrNotFound
}

func (r *stubRepository) CreateProduct(_ context.Context, req *product.CreateProductRequest) (domain.Product, error) {
	p := domain.Product{
		ID:         "new-product",
		Name:       req.Name,
		Price:      *req.Price,
		CategoryID: req.CategoryID,
		Stock:      req.Stock,
		Category:   shirts,
	}
	r.products = append(r.products, p)
	return p, nil
}

func (r *stubRepository) DeleteProduct(_ context.Context, id string) error {
	for i, p := range r.products {
		if p.ID == id {
			r.products = append(r.products[:i], r.products[i+1:]...)
			return nil
		}
	}
	return domain.ErrNotFound
}

type stubStorage struct {
	objects map[string][]byte
	err     error
}

func (s *stubStorage) Upload(key string, data []byte) error {
	s.objects[key] = data
	return nil
}

// Download mirrors the S3 wrapper: a missing key is nil data and no error.
func (s *stubStorage) Download(key string) ([]byte, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.objects[key], nil
}

func (s *stubStorage) Delete(key string) error {
	delete(s.objects, key)
	return nil
}

type testServer struct {
	repo     *stubRepository
	verifier *auth.Verifier
	app      *fiber.App
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	cfg := &config.AppConfig{
		ServiceName:      "storefront",
		MediaURL:         "/media/",
		PlaceholderImage: "placeholder.jpg",
	}
	repo := &stubRepository{products: []domain.Product{{
		ID:           "tee",
		Name:         "Tee",
		Price:        decimal.RequireFromString("19.99"),
		CategoryID:   shirts.ID,
		IsBestSeller: true,
		Category:     shirts,
	}}}
	verifier, err := auth.NewVerifier("test-secret")
	require.NoError(t, err)

	application := newApp(cfg, dependencies{
		repository: repo,
		storage:    &stubStorage{objects: map[string][]byte{"products/tee.png": []byte("png")}},
		verifier:   verifier,
	})

	return &testServer{repo: repo, verifier: verifier, app: application}
}

func (s *testServer) do(t *testing.T, method, path string, body any, staff, authenticated bool) (*http.Response, []byte) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if authenticated {
		token, err := s.verifier.Sign(auth.Claims{
			UserID:           "u1",
			IsStaff:          staff,
			RegisteredClaims: jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour))},
		})
		require.NoError(t, err)
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := s.app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, data
}

func TestCatalogRoutes(t *testing.T) {
	server := newTestServer(t)

	t.Run("best sellers", func(t *testing.T) {
		resp, body := server.do(t, http.MethodGet, "/api/products/bestsellers", nil, false, false)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.JSONEq(t, `[{
			"id": "tee",
			"name": "Tee",
			"price": 19.99,
			"category": "SHIRTS",
			"image": "http://example.com/media/placeholder.jpg",
			"is_best_seller": true
		}]`, string(body))
	})

	t.Run("by category requires the parameter", func(t *testing.T) {
		for _, path := range []string{"/api/products/by_category", "/api/products/by_category/?category="} {
			resp, body := server.do(t, http.MethodGet, path, nil, false, false)
			assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
			assert.JSONEq(t, `{"error": "Category parameter is required"}`, string(body))
		}
	})

	t.Run("by category", func(t *testing.T) {
		resp, body := server.do(t, http.MethodGet, "/api/products/by_category?category=SHIRTS", nil, false, false)
		assert.Equal(t, http.StatusOK, resp.StatusCode)

		var list []map[string]any
		require.NoError(t, json.Unmarshal(body, &list))
		require.Len(t, list, 1)
		assert.Equal(t, "SHIRTS", list[0]["category"])
	})

	t.Run("product list uses the list shape", func(t *testing.T) {
		resp, body := server.do(t, http.MethodGet, "/api/products/", nil, false, false)
		assert.Equal(t, http.StatusOK, resp.StatusCode)

		var list []map[string]any
		require.NoError(t, json.Unmarshal(body, &list))
		require.Len(t, list, 1)
		assert.NotContains(t, list[0], "description")
	})

	t.Run("product detail", func(t *testing.T) {
		resp, body := server.do(t, http.MethodGet, "/api/products/tee", nil, false, false)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Contains(t, string(body), `"category_name":"Shirts"`)

		resp, _ = server.do(t, http.MethodGet, "/api/products/missing", nil, false, false)
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})

	t.Run("categories", func(t *testing.T) {
		resp, body := server.do(t, http.MethodGet, "/api/categories", nil, false, false)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.JSONEq(t, `[{"id": "`+shirts.ID+`", "name": "Shirts", "slug": "shirts", "code": "SHIRTS"}]`, string(body))
	})
}

func TestProductWriteRoutes(t *testing.T) {
	server := newTestServer(t)
	body := map[string]any{"name": "Polo", "price": "25.00", "category": shirts.ID, "stock": 2}

	resp, _ := server.do(t, http.MethodPost, "/api/products", body, false, false)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp, data := server.do(t, http.MethodPost, "/api/products", body, false, true)
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(data))
	assert.Contains(t, string(data), `"price":25.00`)

	invalid := map[string]any{"name": "Polo", "price": -1, "category": shirts.ID}
	resp, _ = server.do(t, http.MethodPost, "/api/products", invalid, false, true)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, data = server.do(t, http.MethodDelete, "/api/products/new-product", nil, false, true)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	assert.Empty(t, data)
}

func TestAdminRoutesRequireStaff(t *testing.T) {
	server := newTestServer(t)

	resp, _ := server.do(t, http.MethodGet, "/api/admin/orders", nil, false, false)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp, _ = server.do(t, http.MethodGet, "/api/admin/orders", nil, false, true)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp, _ = server.do(t, http.MethodPost, "/api/categories", map[string]any{"name": "Hats"}, false, true)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}

func TestMediaAndHealth(t *testing.T) {
	server := newTestServer(t)

	resp, body := server.do(t, http.MethodGet, "/media/products/tee.png", nil, false, false)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "image/png", resp.Header.Get("Content-Type"))
	assert.Equal(t, "png", string(body))

	resp, _ = server.do(t, http.MethodGet, "/media/products/none.png", nil, false, false)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp, body = server.do(t, http.MethodGet, "/healthz", nil, false, false)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), `"status":"ok"`)
}

func TestMediaMissingAndFailingObjects(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	restore := zap.ReplaceGlobals(zap.New(core))
	defer restore()

	storage := &stubStorage{objects: map[string][]byte{}}
	application := newApp(&config.AppConfig{ServiceName: "storefront", MediaURL: "/media/"}, dependencies{
		repository: &stubRepository{},
		storage:    storage,
	})

	resp, err := application.Test(httptest.NewRequest(http.MethodGet, "/media/products/gone.png", nil), -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	cause := errors.New("operation error S3: GetObject, https response error StatusCode: 503")
	storage.err = cause

	resp, err = application.Test(httptest.NewRequest(http.MethodGet, "/media/products/tee.png", nil), -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.NotContains(t, string(body), "503")

	entries := logs.FilterField(zap.NamedError("cause", cause)).All()
	require.Len(t, entries, 1)
	assert.Equal(t, "media.download_failed", entries[0].ContextMap()["code"])
}

func TestWriteError_LogsCause(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	restore := zap.ReplaceGlobals(zap.New(core))
	defer restore()

	cause := errors.New("dial tcp 127.0.0.1:5432: connect: connection refused")
	app := fiber.New()
	app.Get("/", func(c *fiber.Ctx) error {
		return writeError(c, httperror.InternalServerError("product.bestsellers.failed", "Failed to retrieve best sellers", nil).Wrap(cause))
	})

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/", nil))
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.JSONEq(t, `{"code": "product.bestsellers.failed", "message": "Failed to retrieve best sellers"}`, string(body))

	entries := logs.FilterField(zap.NamedError("cause", cause)).All()
	require.Len(t, entries, 1)
	assert.Equal(t, zap.ErrorLevel, entries[0].Level)
}
