// internal/domain/checkout/service.go
package checkout

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/your-org/storefront-backend/internal/config"
	"github.com/your-org/storefront-backend/internal/domain/cart"
	"github.com/your-org/storefront-backend/internal/domain/notification"
	"github.com/your-org/storefront-backend/internal/domain/payment"
)

var (
	// ErrNotConfigured is returned when no payment secret key is set
	ErrNotConfigured = errors.New("payment processor not configured")
	// ErrSessionCreation wraps failures from the payment processor
	ErrSessionCreation = errors.New("failed to create checkout session")
)

// ValidationError marks a checkout payload the shopper can fix
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// SessionCreator creates hosted checkout sessions
type SessionCreator interface {
	CreateSession(ctx context.Context, params payment.SessionParams) (*payment.Session, error)
}

// OrderNotifier delivers new-order notifications
type OrderNotifier interface {
	Notify(ctx context.Context, order notification.Order) error
}

// Payload is the checkout request body: the cart snapshot to charge for
// and the shopper's email.
type Payload struct {
	Items []cart.Item `json:"items"`
	Email string      `json:"email"`
}

// Service turns a validated cart into a hosted checkout session and
// fires the order notification. Notifications run in the background; the
// shopper's redirect never waits on the webhook.
type Service struct {
	config   *config.Config
	creator  SessionCreator
	notifier OrderNotifier
	logger   *logrus.Logger
	wg       sync.WaitGroup
}

// NewService creates a new checkout service
func NewService(cfg *config.Config, creator SessionCreator, notifier OrderNotifier, logger *logrus.Logger) *Service {
	return &Service{
		config:   cfg,
		creator:  creator,
		notifier: notifier,
		logger:   logger,
	}
}

// CreateSession validates the payload, creates a checkout session and
// schedules exactly one order notification for it.
func (s *Service) CreateSession(ctx context.Context, payload Payload) (*payment.Session, error) {
	if err := validatePayload(payload); err != nil {
		return nil, err
	}

	if s.config.External.Stripe.SecretKey == "" {
		return nil, ErrNotConfigured
	}

	lineItems := make([]payment.LineItem, 0, len(payload.Items))
	total := 0.0
	for _, item := range payload.Items {
		total += item.LineTotal()
		lineItems = append(lineItems, payment.LineItem{
			Name:       lineItemName(item),
			ImageURL:   absoluteImageURL(s.config.App.BaseURL, item.Image),
			UnitAmount: toMinorUnits(item.EffectivePrice()),
			Quantity:   int64(item.Quantity),
		})
	}

	session, err := s.creator.CreateSession(ctx, payment.SessionParams{
		Email:      payload.Email,
		LineItems:  lineItems,
		SuccessURL: s.config.App.BaseURL + "/checkout/success?session_id={CHECKOUT_SESSION_ID}",
		CancelURL:  s.config.App.BaseURL + "/checkout",
		Metadata: map[string]string{
			"customer_email": payload.Email,
		},
	})
	if err != nil {
		s.logger.WithError(err).Error("Checkout session creation failed")
		return nil, fmt.Errorf("%w: %v", ErrSessionCreation, err)
	}

	s.notifyAsync(notification.Order{
		ID:    session.ID,
		Email: payload.Email,
		Items: payload.Items,
		Total: total,
	})

	return session, nil
}

// Wait blocks until all in-flight notifications have finished. Called
// during shutdown so background deliveries are not cut off.
func (s *Service) Wait() {
	s.wg.Wait()
}

func (s *Service) notifyAsync(order notification.Order) {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		ctx, cancel := context.WithTimeout(context.Background(), s.config.External.Webhook.Timeout)
		defer cancel()

		if err := s.notifier.Notify(ctx, order); err != nil {
			s.logger.WithError(err).WithField("order_id", order.ID).Warn("Order notification failed")
		}
	}()
}

func validatePayload(payload Payload) error {
	if strings.TrimSpace(payload.Email) == "" {
		return &ValidationError{Message: "Email is required"}
	}
	if len(payload.Items) == 0 {
		return &ValidationError{Message: "Cart is empty"}
	}
	for _, item := range payload.Items {
		if item.ID == "" || item.Title == "" || item.EffectivePrice() <= 0 || item.Quantity <= 0 {
			return &ValidationError{Message: "Invalid item data"}
		}
	}
	return nil
}

func lineItemName(item cart.Item) string {
	if item.Variation != "" {
		return fmt.Sprintf("%s — %s", item.Title, item.Variation)
	}
	return item.Title
}

// toMinorUnits converts a decimal price to the currency's minor unit
func toMinorUnits(price float64) int64 {
	return int64(math.Round(price * 100))
}

// absoluteImageURL makes relative catalog image paths absolute since the
// payment processor only accepts fully qualified URLs
func absoluteImageURL(baseURL, image string) string {
	if image == "" {
		return ""
	}
	if strings.HasPrefix(image, "http://") || strings.HasPrefix(image, "https://") {
		return image
	}
	return baseURL + "/" + strings.TrimPrefix(image, "/")
}
