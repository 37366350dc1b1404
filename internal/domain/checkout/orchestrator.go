// internal/domain/checkout/orchestrator.go
package checkout

import (
	"context"
	"regexp"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/your-org/storefront-backend/internal/domain/cart"
)

// State names the phases a checkout submission moves through
type State string

const (
	StateIdle        State = "idle"
	StateValidating  State = "validating"
	StateSubmitting  State = "submitting"
	StateRedirecting State = "redirecting"
)

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// DetailsRequest carries the shopper's checkout form
type DetailsRequest struct {
	Email          string `json:"email"`
	FullName       string `json:"full_name"`
	Country        string `json:"country"`
	AddressLine1   string `json:"address_line1"`
	AddressLine2   string `json:"address_line2,omitempty"`
	City           string `json:"city"`
	StateRegion    string `json:"state_region,omitempty"`
	Postcode       string `json:"postcode"`
	IsGift         bool   `json:"is_gift,omitempty"`
	GiftMessage    string `json:"gift_message,omitempty"`
	ShippingMethod string `json:"shipping_method,omitempty"`
}

// Result reports how far a submission got. FieldErrors is non-empty only
// when the flow stopped in the validating state.
type Result struct {
	State       State             `json:"state"`
	SessionID   string            `json:"session_id,omitempty"`
	RedirectURL string            `json:"redirect_url,omitempty"`
	FieldErrors map[string]string `json:"field_errors,omitempty"`
}

// CartReader exposes the cart operations the orchestrator needs
type CartReader interface {
	Get(ctx context.Context, sessionID string) (cart.Cart, error)
	Clear(ctx context.Context, sessionID string) error
}

// Orchestrator drives the full checkout flow: validate the shopper's
// details, read the session's cart and hand it to the checkout service.
// It replaces per-request state for what used to be tracked globally;
// each Submit call is independent.
type Orchestrator struct {
	service *Service
	carts   CartReader
	logger  *logrus.Logger
}

// NewOrchestrator creates a new checkout orchestrator
func NewOrchestrator(service *Service, carts CartReader, logger *logrus.Logger) *Orchestrator {
	return &Orchestrator{
		service: service,
		carts:   carts,
		logger:  logger,
	}
}

// Submit validates details, then creates a checkout session from the
// shopper's stored cart. The returned state tells the caller where the
// flow stopped.
func (o *Orchestrator) Submit(ctx context.Context, sessionID string, details DetailsRequest) (Result, error) {
	fieldErrors := ValidateDetails(details)
	if len(fieldErrors) > 0 {
		return Result{State: StateValidating, FieldErrors: fieldErrors}, nil
	}

	shopperCart, err := o.carts.Get(ctx, sessionID)
	if err != nil {
		return Result{State: StateValidating}, err
	}

	session, err := o.service.CreateSession(ctx, Payload{
		Items: shopperCart.Items,
		Email: details.Email,
	})
	if err != nil {
		return Result{State: StateSubmitting}, err
	}

	o.logger.WithFields(logrus.Fields{
		"session_id":     sessionID,
		"checkout_id":    session.ID,
		"total_quantity": shopperCart.Totals.TotalQuantity,
	}).Info("Checkout submitted")

	return Result{
		State:       StateRedirecting,
		SessionID:   session.ID,
		RedirectURL: session.URL,
	}, nil
}

// ConfirmSuccess handles the return from the payment processor. The cart
// is cleared only when a checkout session id is present; landing on the
// success page without one leaves the cart alone. Returns whether the
// cart was cleared.
func (o *Orchestrator) ConfirmSuccess(ctx context.Context, sessionID, checkoutSessionID string) (bool, error) {
	if checkoutSessionID == "" {
		return false, nil
	}

	if err := o.carts.Clear(ctx, sessionID); err != nil {
		return false, err
	}

	o.logger.WithFields(logrus.Fields{
		"session_id":  sessionID,
		"checkout_id": checkoutSessionID,
	}).Info("Checkout completed, cart cleared")
	return true, nil
}

// ValidateDetails checks the checkout form and returns one message per
// invalid field, keyed by the JSON field name.
func ValidateDetails(details DetailsRequest) map[string]string {
	fieldErrors := make(map[string]string)

	if !emailPattern.MatchString(strings.TrimSpace(details.Email)) {
		fieldErrors["email"] = "Please enter a valid email address"
	}
	if strings.TrimSpace(details.FullName) == "" {
		fieldErrors["full_name"] = "Full name is required"
	}
	if strings.TrimSpace(details.Country) == "" {
		fieldErrors["country"] = "Country is required"
	}
	if strings.TrimSpace(details.AddressLine1) == "" {
		fieldErrors["address_line1"] = "Address is required"
	}
	if strings.TrimSpace(details.City) == "" {
		fieldErrors["city"] = "City is required"
	}
	if strings.TrimSpace(details.Postcode) == "" {
		fieldErrors["postcode"] = "Postcode/ZIP is required"
	}

	if len(fieldErrors) == 0 {
		return nil
	}
	return fieldErrors
}
