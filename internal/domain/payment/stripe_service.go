// internal/domain/payment/stripe_service.go
package payment

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/stripe/stripe-go/v82"
	"github.com/stripe/stripe-go/v82/checkout/session"

	"github.com/your-org/storefront-backend/internal/config"
)

// LineItem is one purchasable line in a checkout session. UnitAmount is
// in the currency's minor unit (pence for GBP).
type LineItem struct {
	Name       string
	ImageURL   string
	UnitAmount int64
	Quantity   int64
}

// SessionParams describes the hosted checkout session to create
type SessionParams struct {
	Email      string
	LineItems  []LineItem
	SuccessURL string
	CancelURL  string
	Metadata   map[string]string
}

// Session is the created checkout session the shopper gets redirected to
type Session struct {
	ID  string `json:"id"`
	URL string `json:"url"`
}

// StripeService creates hosted checkout sessions via the Stripe API
type StripeService struct {
	config *config.Config
	logger *logrus.Logger
}

// NewStripeService creates a new Stripe payment service
func NewStripeService(cfg *config.Config, logger *logrus.Logger) *StripeService {
	stripe.Key = cfg.External.Stripe.SecretKey
	return &StripeService{
		config: cfg,
		logger: logger,
	}
}

// CreateSession creates a hosted checkout session with the configured
// currency, shipping countries and shipping rates.
func (s *StripeService) CreateSession(ctx context.Context, params SessionParams) (*Session, error) {
	shipping := s.config.Shipping

	lineItems := make([]*stripe.CheckoutSessionLineItemParams, 0, len(params.LineItems))
	for _, item := range params.LineItems {
		productData := &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
			Name: stripe.String(item.Name),
		}
		if item.ImageURL != "" {
			productData.Images = stripe.StringSlice([]string{item.ImageURL})
		}

		lineItems = append(lineItems, &stripe.CheckoutSessionLineItemParams{
			PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
				Currency:    stripe.String(shipping.Currency),
				ProductData: productData,
				UnitAmount:  stripe.Int64(item.UnitAmount),
			},
			Quantity: stripe.Int64(item.Quantity),
		})
	}

	shippingOptions := make([]*stripe.CheckoutSessionShippingOptionParams, 0, len(shipping.Options))
	for _, option := range shipping.Options {
		shippingOptions = append(shippingOptions, &stripe.CheckoutSessionShippingOptionParams{
			ShippingRateData: &stripe.CheckoutSessionShippingOptionShippingRateDataParams{
				Type:        stripe.String("fixed_amount"),
				DisplayName: stripe.String(option.Name),
				FixedAmount: &stripe.CheckoutSessionShippingOptionShippingRateDataFixedAmountParams{
					Amount:   stripe.Int64(option.Amount),
					Currency: stripe.String(shipping.Currency),
				},
				DeliveryEstimate: &stripe.CheckoutSessionShippingOptionShippingRateDataDeliveryEstimateParams{
					Minimum: &stripe.CheckoutSessionShippingOptionShippingRateDataDeliveryEstimateMinimumParams{
						Unit:  stripe.String("business_day"),
						Value: stripe.Int64(option.MinDays),
					},
					Maximum: &stripe.CheckoutSessionShippingOptionShippingRateDataDeliveryEstimateMaximumParams{
						Unit:  stripe.String("business_day"),
						Value: stripe.Int64(option.MaxDays),
					},
				},
			},
		})
	}

	sessionParams := &stripe.CheckoutSessionParams{
		Mode:               stripe.String(string(stripe.CheckoutSessionModePayment)),
		PaymentMethodTypes: stripe.StringSlice([]string{"card"}),
		CustomerEmail:      stripe.String(params.Email),
		LineItems:          lineItems,
		SuccessURL:         stripe.String(params.SuccessURL),
		CancelURL:          stripe.String(params.CancelURL),
		ShippingAddressCollection: &stripe.CheckoutSessionShippingAddressCollectionParams{
			AllowedCountries: stripe.StringSlice(shipping.AllowedCountries),
		},
		ShippingOptions: shippingOptions,
	}
	sessionParams.Context = ctx
	for key, value := range params.Metadata {
		sessionParams.AddMetadata(key, value)
	}

	created, err := session.New(sessionParams)
	if err != nil {
		return nil, fmt.Errorf("failed to create checkout session: %w", err)
	}

	s.logger.WithFields(logrus.Fields{
		"session_id": created.ID,
		"line_items": len(params.LineItems),
	}).Info("Checkout session created")

	return &Session{
		ID:  created.ID,
		URL: created.URL,
	}, nil
}
