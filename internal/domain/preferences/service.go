// internal/domain/preferences/service.go
package preferences

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/your-org/storefront-backend/internal/pkg/keyvalue"
)

var (
	// ErrUnsupportedCurrency is returned for currency codes not on offer
	ErrUnsupportedCurrency = errors.New("unsupported currency")
	// ErrInvalidConsent is returned for consent values other than
	// accepted or rejected
	ErrInvalidConsent = errors.New("invalid consent value")
)

// Currency describes a display currency with its conversion rate from
// the base currency (GBP)
type Currency struct {
	Code   string  `json:"code"`
	Symbol string  `json:"symbol"`
	Rate   float64 `json:"rate"`
}

// Currencies lists the supported display currencies. Prices are stored
// in GBP and converted for display only; checkout always charges GBP.
var Currencies = []Currency{
	{Code: "GBP", Symbol: "£", Rate: 1},
	{Code: "USD", Symbol: "$", Rate: 1.27},
	{Code: "EUR", Symbol: "€", Rate: 1.17},
	{Code: "AUD", Symbol: "A$", Rate: 1.95},
}

const (
	DefaultCurrency = "GBP"

	ConsentAccepted = "accepted"
	ConsentRejected = "rejected"

	preferencesTTL = 365 * 24 * time.Hour
)

type stored struct {
	Currency string `json:"currency,omitempty"`
	Consent  string `json:"consent,omitempty"`
}

// Service persists per-session display preferences
type Service struct {
	kv     keyvalue.Store
	logger *logrus.Logger
}

// NewService creates a new preferences service
func NewService(kv keyvalue.Store, logger *logrus.Logger) *Service {
	return &Service{
		kv:     kv,
		logger: logger,
	}
}

func preferencesKey(sessionID string) string {
	return fmt.Sprintf("preferences:session:%s", sessionID)
}

// CurrencyByCode looks up a supported currency
func CurrencyByCode(code string) (Currency, bool) {
	for _, c := range Currencies {
		if c.Code == code {
			return c, true
		}
	}
	return Currency{}, false
}

// Convert converts a GBP amount into the given currency
func Convert(amount float64, currency Currency) float64 {
	return amount * currency.Rate
}

// Format renders an amount in the given currency with its symbol
func Format(amount float64, currency Currency) string {
	return fmt.Sprintf("%s%.2f", currency.Symbol, Convert(amount, currency))
}

// GetCurrency returns the session's display currency, defaulting to GBP
func (s *Service) GetCurrency(ctx context.Context, sessionID string) (Currency, error) {
	prefs := s.load(ctx, sessionID)
	if prefs.Currency == "" {
		currency, _ := CurrencyByCode(DefaultCurrency)
		return currency, nil
	}

	currency, ok := CurrencyByCode(prefs.Currency)
	if !ok {
		// A currency removed from the lineup falls back to the default
		currency, _ = CurrencyByCode(DefaultCurrency)
	}
	return currency, nil
}

// SetCurrency stores the session's display currency
func (s *Service) SetCurrency(ctx context.Context, sessionID, code string) error {
	if _, ok := CurrencyByCode(code); !ok {
		return fmt.Errorf("%w: %s", ErrUnsupportedCurrency, code)
	}

	prefs := s.load(ctx, sessionID)
	prefs.Currency = code
	return s.save(ctx, sessionID, prefs)
}

// GetConsent returns the session's cookie consent choice, empty when the
// shopper has not decided yet
func (s *Service) GetConsent(ctx context.Context, sessionID string) (string, error) {
	return s.load(ctx, sessionID).Consent, nil
}

// SetConsent stores the session's cookie consent choice
func (s *Service) SetConsent(ctx context.Context, sessionID, consent string) error {
	if consent != ConsentAccepted && consent != ConsentRejected {
		return fmt.Errorf("%w: %s", ErrInvalidConsent, consent)
	}

	prefs := s.load(ctx, sessionID)
	prefs.Consent = consent
	return s.save(ctx, sessionID, prefs)
}

func (s *Service) load(ctx context.Context, sessionID string) stored {
	data, found, err := s.kv.Load(ctx, preferencesKey(sessionID))
	if err != nil || !found {
		if err != nil {
			s.logger.WithError(err).WithField("session_id", sessionID).Warn("Failed to load preferences")
		}
		return stored{}
	}

	var prefs stored
	if err := json.Unmarshal(data, &prefs); err != nil {
		s.logger.WithError(err).WithField("session_id", sessionID).Warn("Discarding corrupt preferences")
		return stored{}
	}
	return prefs
}

func (s *Service) save(ctx context.Context, sessionID string, prefs stored) error {
	data, err := json.Marshal(prefs)
	if err != nil {
		return fmt.Errorf("failed to encode preferences: %w", err)
	}
	if err := s.kv.Save(ctx, preferencesKey(sessionID), data, preferencesTTL); err != nil {
		return fmt.Errorf("failed to persist preferences: %w", err)
	}
	return nil
}
