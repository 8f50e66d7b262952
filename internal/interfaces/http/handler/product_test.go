package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	appcatalog "github.com/stockroom/backend/internal/application/catalog"
	"github.com/stockroom/backend/internal/domain/catalog"
	"github.com/stockroom/backend/internal/domain/shared"
	"github.com/stockroom/backend/internal/interfaces/http/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeProductRepository struct {
	products map[uuid.UUID]*catalog.Product
}

func newFakeProductRepository() *fakeProductRepository {
	return &fakeProductRepository{products: make(map[uuid.UUID]*catalog.Product)}
}

func (f *fakeProductRepository) FindByIDForTenant(_ context.Context, tenantID, id uuid.UUID) (*catalog.Product, error) {
	p, ok := f.products[id]
	if !ok || p.TenantID != tenantID {
		return nil, shared.ErrNotFound
	}
	return p, nil
}

func (f *fakeProductRepository) FindBySKUForTenant(_ context.Context, tenantID uuid.UUID, sku string) (*catalog.Product, error) {
	for _, p := range f.products {
		if p.TenantID == tenantID && p.SKU == sku {
			return p, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (f *fakeProductRepository) FindAllForTenant(_ context.Context, tenantID uuid.UUID, _ shared.Filter) ([]*catalog.Product, error) {
	var out []*catalog.Product
	for _, p := range f.products {
		if p.TenantID == tenantID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (f *fakeProductRepository) CountForTenant(_ context.Context, tenantID uuid.UUID, _ shared.Filter) (int64, error) {
	var n int64
	for _, p := range f.products {
		if p.TenantID == tenantID {
			n++
		}
	}
	return n, nil
}

func (f *fakeProductRepository) Save(_ context.Context, product *catalog.Product) error {
	f.products[product.ID] = product
	return nil
}

func (f *fakeProductRepository) Delete(_ context.Context, tenantID, id uuid.UUID) error {
	p, ok := f.products[id]
	if !ok || p.TenantID != tenantID {
		return shared.ErrNotFound
	}
	delete(f.products, id)
	return nil
}

var _ catalog.ProductRepository = (*fakeProductRepository)(nil)

func newProductTestRouter(tenantID uuid.UUID, repo *fakeProductRepository) *gin.Engine {
	gin.SetMode(gin.TestMode)
	engine := gin.New()
	engine.Use(middleware.RequestID())
	engine.Use(func(c *gin.Context) {
		c.Set(middleware.TenantIDKey, tenantID)
		c.Next()
	})

	h := NewProductHandler(appcatalog.NewProductService(repo))
	h.RegisterRoutes(engine.Group("/api/v1"))
	return engine
}

func performRequest(router *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	var reader *bytes.Reader
	if body != nil {
		payload, _ := json.Marshal(body)
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decodeResponse(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func TestProductHandler_Create(t *testing.T) {
	tenantID := uuid.New()
	repo := newFakeProductRepository()
	router := newProductTestRouter(tenantID, repo)

	t.Run("creates a product", func(t *testing.T) {
		w := performRequest(router, http.MethodPost, "/api/v1/products", gin.H{
			"sku":  "WIDGET-1",
			"name": "Widget",
			"unit": "EA",
		})

		require.Equal(t, http.StatusCreated, w.Code)
		body := decodeResponse(t, w)
		assert.Equal(t, true, body["success"])
		data := body["data"].(map[string]any)
		assert.Equal(t, "WIDGET-1", data["sku"])
		assert.Equal(t, true, data["is_active"])
	})

	t.Run("rejects a duplicate SKU with 409", func(t *testing.T) {
		w := performRequest(router, http.MethodPost, "/api/v1/products", gin.H{
			"sku":  "WIDGET-1",
			"name": "Widget Again",
		})

		require.Equal(t, http.StatusConflict, w.Code)
		body := decodeResponse(t, w)
		assert.Equal(t, false, body["success"])
		errInfo := body["error"].(map[string]any)
		assert.Equal(t, "SKU_EXISTS", errInfo["code"])
	})

	t.Run("rejects a body without required fields", func(t *testing.T) {
		w := performRequest(router, http.MethodPost, "/api/v1/products", gin.H{
			"name": "No SKU",
		})

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestProductHandler_GetByID(t *testing.T) {
	tenantID := uuid.New()
	repo := newFakeProductRepository()
	router := newProductTestRouter(tenantID, repo)

	product, err := catalog.NewProduct(tenantID, "SKU-100", "Gadget", "EA")
	require.NoError(t, err)
	require.NoError(t, repo.Save(context.Background(), product))

	t.Run("returns the product", func(t *testing.T) {
		w := performRequest(router, http.MethodGet, "/api/v1/products/"+product.ID.String(), nil)

		require.Equal(t, http.StatusOK, w.Code)
		data := decodeResponse(t, w)["data"].(map[string]any)
		assert.Equal(t, "SKU-100", data["sku"])
	})

	t.Run("returns 404 for an unknown ID", func(t *testing.T) {
		w := performRequest(router, http.MethodGet, "/api/v1/products/"+uuid.NewString(), nil)

		require.Equal(t, http.StatusNotFound, w.Code)
		errInfo := decodeResponse(t, w)["error"].(map[string]any)
		assert.Equal(t, "NOT_FOUND", errInfo["code"])
	})

	t.Run("returns 400 for a malformed ID", func(t *testing.T) {
		w := performRequest(router, http.MethodGet, "/api/v1/products/not-a-uuid", nil)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestProductHandler_List(t *testing.T) {
	tenantID := uuid.New()
	repo := newFakeProductRepository()
	router := newProductTestRouter(tenantID, repo)

	for _, sku := range []string{"SKU-A", "SKU-B"} {
		product, err := catalog.NewProduct(tenantID, sku, "Product "+sku, "EA")
		require.NoError(t, err)
		require.NoError(t, repo.Save(context.Background(), product))
	}

	w := performRequest(router, http.MethodGet, "/api/v1/products?page=1&page_size=10", nil)

	require.Equal(t, http.StatusOK, w.Code)
	body := decodeResponse(t, w)
	meta := body["meta"].(map[string]any)
	assert.Equal(t, float64(2), meta["total"])
	assert.Len(t, body["data"].([]any), 2)
}

func TestProductHandler_Deactivate(t *testing.T) {
	tenantID := uuid.New()
	repo := newFakeProductRepository()
	router := newProductTestRouter(tenantID, repo)

	product, err := catalog.NewProduct(tenantID, "SKU-200", "Doohickey", "EA")
	require.NoError(t, err)
	require.NoError(t, repo.Save(context.Background(), product))

	w := performRequest(router, http.MethodPost, "/api/v1/products/"+product.ID.String()+"/deactivate", nil)

	require.Equal(t, http.StatusOK, w.Code)
	data := decodeResponse(t, w)["data"].(map[string]any)
	assert.Equal(t, false, data["is_active"])
}
