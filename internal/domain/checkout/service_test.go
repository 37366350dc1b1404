package checkout

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/your-org/storefront-backend/internal/config"
	"github.com/your-org/storefront-backend/internal/domain/cart"
	"github.com/your-org/storefront-backend/internal/domain/catalog"
	"github.com/your-org/storefront-backend/internal/domain/notification"
	"github.com/your-org/storefront-backend/internal/domain/payment"
)

type mockCreator struct {
	mu      sync.Mutex
	calls   []payment.SessionParams
	session *payment.Session
	err     error
}

func (m *mockCreator) CreateSession(ctx context.Context, params payment.SessionParams) (*payment.Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, params)
	if m.err != nil {
		return nil, m.err
	}
	return m.session, nil
}

func (m *mockCreator) callCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.calls)
}

type mockNotifier struct {
	mu     sync.Mutex
	orders []notification.Order
}

func (m *mockNotifier) Notify(ctx context.Context, order notification.Order) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.orders = append(m.orders, order)
	return nil
}

func (m *mockNotifier) orderCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.orders)
}

func testConfig() *config.Config {
	return &config.Config{
		App: config.AppConfig{
			BaseURL: "https://shop.example.com",
		},
		External: config.ExternalConfig{
			Stripe:  config.StripeConfig{SecretKey: "sk_test_123"},
			Webhook: config.WebhookConfig{Timeout: 2 * time.Second},
		},
	}
}

func newTestSetup(cfg *config.Config) (*Service, *mockCreator, *mockNotifier) {
	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)

	creator := &mockCreator{session: &payment.Session{ID: "cs_test_123", URL: "https://checkout.stripe.com/pay/cs_test_123"}}
	notifier := &mockNotifier{}
	return NewService(cfg, creator, notifier, logger), creator, notifier
}

func testItems() []cart.Item {
	return []cart.Item{
		{
			Product:   catalog.Product{ID: "1", Title: "Enchanted Forest Print", Image: "/images/forest.jpg"},
			Quantity:  1,
			Variation: "A4",
			UnitPrice: 14.99,
		},
		{
			Product:  catalog.Product{ID: "3", Title: "Bookmark Set", Price: 4.99, Image: "https://cdn.example.com/bookmarks.jpg"},
			Quantity: 2,
		},
	}
}

func TestCreateSession(t *testing.T) {
	service, creator, _ := newTestSetup(testConfig())

	session, err := service.CreateSession(context.Background(), Payload{
		Items: testItems(),
		Email: "reader@example.com",
	})
	require.NoError(t, err)
	assert.Equal(t, "cs_test_123", session.ID)

	require.Equal(t, 1, creator.callCount())
	params := creator.calls[0]
	assert.Equal(t, "reader@example.com", params.Email)
	assert.Equal(t, "https://shop.example.com/checkout/success?session_id={CHECKOUT_SESSION_ID}", params.SuccessURL)
	assert.Equal(t, "https://shop.example.com/checkout", params.CancelURL)

	require.Len(t, params.LineItems, 2)
	assert.Equal(t, "Enchanted Forest Print — A4", params.LineItems[0].Name)
	assert.Equal(t, int64(1499), params.LineItems[0].UnitAmount)
	assert.Equal(t, "https://shop.example.com/images/forest.jpg", params.LineItems[0].ImageURL)
	assert.Equal(t, "Bookmark Set", params.LineItems[1].Name)
	assert.Equal(t, int64(499), params.LineItems[1].UnitAmount)
	assert.Equal(t, "https://cdn.example.com/bookmarks.jpg", params.LineItems[1].ImageURL)
	assert.Equal(t, int64(2), params.LineItems[1].Quantity)
}

func TestCreateSession_ValidationErrors(t *testing.T) {
	service, creator, _ := newTestSetup(testConfig())
	ctx := context.Background()

	tests := []struct {
		name    string
		payload Payload
		message string
	}{
		{
			name:    "missing email",
			payload: Payload{Items: testItems()},
			message: "Email is required",
		},
		{
			name:    "empty cart",
			payload: Payload{Email: "reader@example.com"},
			message: "Cart is empty",
		},
		{
			name: "zero quantity",
			payload: Payload{
				Email: "reader@example.com",
				Items: []cart.Item{{Product: catalog.Product{ID: "1", Title: "Print", Price: 9.99}, Quantity: 0}},
			},
			message: "Invalid item data",
		},
		{
			name: "missing price",
			payload: Payload{
				Email: "reader@example.com",
				Items: []cart.Item{{Product: catalog.Product{ID: "1", Title: "Print"}, Quantity: 1}},
			},
			message: "Invalid item data",
		},
		{
			name: "missing id",
			payload: Payload{
				Email: "reader@example.com",
				Items: []cart.Item{{Product: catalog.Product{Title: "Print", Price: 9.99}, Quantity: 1}},
			},
			message: "Invalid item data",
		},
		{
			name: "missing title",
			payload: Payload{
				Email: "reader@example.com",
				Items: []cart.Item{{Product: catalog.Product{ID: "1", Price: 9.99}, Quantity: 1}},
			},
			message: "Invalid item data",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := service.CreateSession(ctx, tt.payload)

			var validationErr *ValidationError
			require.ErrorAs(t, err, &validationErr)
			assert.Equal(t, tt.message, validationErr.Message)
		})
	}

	// Validation failures never reach the payment processor
	assert.Zero(t, creator.callCount())
}

func TestCreateSession_NotConfigured(t *testing.T) {
	cfg := testConfig()
	cfg.External.Stripe.SecretKey = ""
	service, creator, _ := newTestSetup(cfg)

	_, err := service.CreateSession(context.Background(), Payload{
		Items: testItems(),
		Email: "reader@example.com",
	})
	require.ErrorIs(t, err, ErrNotConfigured)
	assert.Zero(t, creator.callCount())
}

func TestCreateSession_ProcessorFailure(t *testing.T) {
	service, creator, notifier := newTestSetup(testConfig())
	creator.err = errors.New("stripe: rate limited")

	_, err := service.CreateSession(context.Background(), Payload{
		Items: testItems(),
		Email: "reader@example.com",
	})
	require.ErrorIs(t, err, ErrSessionCreation)

	service.Wait()
	assert.Zero(t, notifier.orderCount())
}

func TestCreateSession_FiresExactlyOneNotification(t *testing.T) {
	service, _, notifier := newTestSetup(testConfig())

	_, err := service.CreateSession(context.Background(), Payload{
		Items: testItems(),
		Email: "reader@example.com",
	})
	require.NoError(t, err)

	require.Eventually(t, func() bool {
		return notifier.orderCount() == 1
	}, time.Second, 10*time.Millisecond, "notification was not delivered")

	service.Wait()
	require.Equal(t, 1, notifier.orderCount())

	order := notifier.orders[0]
	assert.Equal(t, "cs_test_123", order.ID)
	assert.Equal(t, "reader@example.com", order.Email)
	assert.InDelta(t, 24.97, order.Total, 0.001)
}

func TestToMinorUnits(t *testing.T) {
	assert.Equal(t, int64(1499), toMinorUnits(14.99))
	assert.Equal(t, int64(1000), toMinorUnits(10))
	// 19.99 * 100 is 1998.9999... in floats; rounding keeps it exact
	assert.Equal(t, int64(1999), toMinorUnits(19.99))
}
