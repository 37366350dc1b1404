package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/your-org/storefront-backend/internal/config"
	"github.com/your-org/storefront-backend/internal/domain/cart"
	"github.com/your-org/storefront-backend/internal/domain/catalog"
	"github.com/your-org/storefront-backend/internal/pkg/keyvalue"
)

func testCatalogProduct(id, title string, price float64) catalog.Product {
	return catalog.Product{ID: id, Title: title, Price: price}
}

type cartFixture struct {
	router *gin.Engine
	carts  *cart.Service
}

func newCartFixture(t *testing.T) *cartFixture {
	t.Helper()
	gin.SetMode(gin.TestMode)

	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		products := []catalog.Product{
			{
				ID:    "1",
				Title: "Enchanted Forest Print",
				Price: 12.99,
				Variations: []catalog.Variation{
					{ID: "1-a4", Size: "A4", Price: 14.99},
					{ID: "1-a3", Size: "A3", Price: 19.99},
				},
			},
			{ID: "3", Title: "Bookmark Set", Price: 4.99},
		}
		w.Header().Set("Content-Type", "application/json")
		require.NoError(t, json.NewEncoder(w).Encode(products))
	}))
	t.Cleanup(upstream.Close)

	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)

	cfg := &config.Config{
		Catalog: config.CatalogConfig{
			URL:            upstream.URL,
			CacheTTL:       time.Minute,
			RequestTimeout: 2 * time.Second,
		},
	}

	kv := keyvalue.NewMemoryStore()
	catalogService := catalog.NewService(cfg, kv, logger)
	cartService := cart.NewService(kv, logger)
	handler := NewCartHandler(cartService, catalogService)

	router := gin.New()
	router.Use(func(c *gin.Context) {
		c.Set("session_id", "s1")
		c.Next()
	})
	router.GET("/api/cart", handler.GetCart)
	router.DELETE("/api/cart", handler.ClearCart)
	router.GET("/api/cart/count", handler.GetCartCount)
	router.POST("/api/cart/items", handler.AddToCart)
	router.PUT("/api/cart/items/:id", handler.UpdateCartItem)
	router.DELETE("/api/cart/items/:id", handler.RemoveFromCart)

	return &cartFixture{
		router: router,
		carts:  cartService,
	}
}

func (f *cartFixture) do(t *testing.T, method, path string, payload interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var req *http.Request
	if payload != nil {
		body, err := json.Marshal(payload)
		require.NoError(t, err)
		req = httptest.NewRequest(method, path, bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}

	recorder := httptest.NewRecorder()
	f.router.ServeHTTP(recorder, req)
	return recorder
}

func cartData(t *testing.T, recorder *httptest.ResponseRecorder) cart.Cart {
	t.Helper()

	var body struct {
		Data cart.Cart `json:"data"`
	}
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &body))
	return body.Data
}

func TestAddToCart_ResolvesVariationPrice(t *testing.T) {
	fixture := newCartFixture(t)

	recorder := fixture.do(t, http.MethodPost, "/api/cart/items", gin.H{
		"product_id":    "1",
		"selected_size": "A3",
	})
	require.Equal(t, http.StatusOK, recorder.Code)

	data := cartData(t, recorder)
	require.Len(t, data.Items, 1)
	assert.Equal(t, "A3", data.Items[0].Variation)
	assert.Equal(t, 19.99, data.Items[0].EffectivePrice())
}

func TestAddToCart_UnknownProduct(t *testing.T) {
	fixture := newCartFixture(t)

	recorder := fixture.do(t, http.MethodPost, "/api/cart/items", gin.H{
		"product_id": "999",
	})
	require.Equal(t, http.StatusNotFound, recorder.Code)
}

func TestAddToCart_UnknownVariation(t *testing.T) {
	fixture := newCartFixture(t)

	recorder := fixture.do(t, http.MethodPost, "/api/cart/items", gin.H{
		"product_id":    "1",
		"selected_size": "A2",
	})
	require.Equal(t, http.StatusBadRequest, recorder.Code)
}

func TestAddToCart_MissingProductID(t *testing.T) {
	fixture := newCartFixture(t)

	recorder := fixture.do(t, http.MethodPost, "/api/cart/items", gin.H{})
	require.Equal(t, http.StatusBadRequest, recorder.Code)
}

func TestUpdateCartItem_ClampsQuantity(t *testing.T) {
	fixture := newCartFixture(t)

	recorder := fixture.do(t, http.MethodPost, "/api/cart/items", gin.H{
		"product_id": "3",
	})
	require.Equal(t, http.StatusOK, recorder.Code)

	// Above the storefront maximum
	recorder = fixture.do(t, http.MethodPut, "/api/cart/items/3", gin.H{
		"quantity": 25,
	})
	require.Equal(t, http.StatusOK, recorder.Code)
	data := cartData(t, recorder)
	require.Len(t, data.Items, 1)
	assert.Equal(t, 10, data.Items[0].Quantity)
}

func TestRemoveFromCart(t *testing.T) {
	fixture := newCartFixture(t)

	recorder := fixture.do(t, http.MethodPost, "/api/cart/items", gin.H{
		"product_id":    "1",
		"selected_size": "A4",
	})
	require.Equal(t, http.StatusOK, recorder.Code)

	recorder = fixture.do(t, http.MethodDelete, "/api/cart/items/1?selected_size=A4", nil)
	require.Equal(t, http.StatusOK, recorder.Code)
	assert.Empty(t, cartData(t, recorder).Items)
}

func TestClearCartAndCount(t *testing.T) {
	fixture := newCartFixture(t)

	for i := 0; i < 3; i++ {
		recorder := fixture.do(t, http.MethodPost, "/api/cart/items", gin.H{
			"product_id": "3",
		})
		require.Equal(t, http.StatusOK, recorder.Code)
	}

	recorder := fixture.do(t, http.MethodGet, "/api/cart/count", nil)
	require.Equal(t, http.StatusOK, recorder.Code)
	var countBody struct {
		Data struct {
			Count int `json:"count"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &countBody))
	assert.Equal(t, 3, countBody.Data.Count)

	recorder = fixture.do(t, http.MethodDelete, "/api/cart", nil)
	require.Equal(t, http.StatusOK, recorder.Code)

	recorder = fixture.do(t, http.MethodGet, "/api/cart", nil)
	require.Equal(t, http.StatusOK, recorder.Code)
	assert.Empty(t, cartData(t, recorder).Items)
}
