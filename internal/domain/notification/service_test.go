package notification

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/your-org/storefront-backend/internal/config"
	"github.com/your-org/storefront-backend/internal/domain/cart"
	"github.com/your-org/storefront-backend/internal/domain/catalog"
)

func newTestService(webhookURL string) *Service {
	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)

	return NewService(&config.Config{
		External: config.ExternalConfig{
			Webhook: config.WebhookConfig{
				OrderURL: webhookURL,
				Timeout:  2 * time.Second,
			},
		},
	}, logger)
}

func testOrder() Order {
	return Order{
		ID:    "cs_test_123",
		Email: "reader@example.com",
		Items: []cart.Item{
			{
				Product:   catalog.Product{ID: "1", Title: "Enchanted Forest Print"},
				Quantity:  2,
				Variation: "A4",
				UnitPrice: 14.99,
			},
			{
				Product:  catalog.Product{ID: "3", Title: "Bookmark Set", Price: 4.99},
				Quantity: 1,
			},
		},
		Total: 34.97,
	}
}

func TestNotify_PostsEmbed(t *testing.T) {
	var received webhookPayload
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		body, err := io.ReadAll(r.Body)
		require.NoError(t, err)
		require.NoError(t, json.Unmarshal(body, &received))
		w.WriteHeader(http.StatusNoContent)
	}))
	defer server.Close()

	service := newTestService(server.URL)
	require.NoError(t, service.Notify(context.Background(), testOrder()))

	require.Len(t, received.Embeds, 1)
	embed := received.Embeds[0]
	assert.Equal(t, "🛍️ New Stripe checkout session created!", embed.Title)
	assert.Equal(t, 0x7b3f00, embed.Color)

	require.Len(t, embed.Fields, 4)
	assert.Equal(t, "cs_test_123", embed.Fields[0].Value)
	assert.Equal(t, "reader@example.com", embed.Fields[1].Value)
	// Per-line amounts are line totals, price times quantity
	assert.Contains(t, embed.Fields[2].Value, "• Enchanted Forest Print (A4) - Quantity: 2 - £29.98")
	assert.Contains(t, embed.Fields[2].Value, "• Bookmark Set - Quantity: 1 - £4.99")
	assert.Equal(t, "£34.97", embed.Fields[3].Value)
}

func TestNotify_SkipsWithoutURL(t *testing.T) {
	service := newTestService("")
	require.NoError(t, service.Notify(context.Background(), testOrder()))
}

func TestNotify_ErrorOnWebhookFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	service := newTestService(server.URL)
	err := service.Notify(context.Background(), testOrder())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 500")
}
