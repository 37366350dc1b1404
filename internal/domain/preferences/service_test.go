package preferences

import (
	"context"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/your-org/storefront-backend/internal/pkg/keyvalue"
)

func newTestService() *Service {
	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)
	return NewService(keyvalue.NewMemoryStore(), logger)
}

func TestGetCurrency_DefaultsToGBP(t *testing.T) {
	service := newTestService()

	currency, err := service.GetCurrency(context.Background(), "s1")
	require.NoError(t, err)
	assert.Equal(t, "GBP", currency.Code)
	assert.Equal(t, 1.0, currency.Rate)
}

func TestSetCurrency(t *testing.T) {
	service := newTestService()
	ctx := context.Background()

	require.NoError(t, service.SetCurrency(ctx, "s1", "USD"))

	currency, err := service.GetCurrency(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, "USD", currency.Code)
	assert.Equal(t, 1.27, currency.Rate)
}

func TestSetCurrency_Unsupported(t *testing.T) {
	service := newTestService()

	err := service.SetCurrency(context.Background(), "s1", "JPY")
	require.ErrorIs(t, err, ErrUnsupportedCurrency)
}

func TestConsent(t *testing.T) {
	service := newTestService()
	ctx := context.Background()

	consent, err := service.GetConsent(ctx, "s1")
	require.NoError(t, err)
	assert.Empty(t, consent)

	require.NoError(t, service.SetConsent(ctx, "s1", ConsentAccepted))

	consent, err = service.GetConsent(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, ConsentAccepted, consent)

	require.ErrorIs(t, service.SetConsent(ctx, "s1", "maybe"), ErrInvalidConsent)
}

func TestConsentDoesNotClobberCurrency(t *testing.T) {
	service := newTestService()
	ctx := context.Background()

	require.NoError(t, service.SetCurrency(ctx, "s1", "EUR"))
	require.NoError(t, service.SetConsent(ctx, "s1", ConsentRejected))

	currency, err := service.GetCurrency(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, "EUR", currency.Code)
}

func TestConvertAndFormat(t *testing.T) {
	usd, ok := CurrencyByCode("USD")
	require.True(t, ok)

	assert.InDelta(t, 12.7, Convert(10, usd), 0.001)
	assert.Equal(t, "$12.70", Format(10, usd))

	gbp, _ := CurrencyByCode("GBP")
	assert.Equal(t, "£14.99", Format(14.99, gbp))
}
