// internal/domain/notification/service.go
package notification

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/your-org/storefront-backend/internal/config"
	"github.com/your-org/storefront-backend/internal/domain/cart"
)

// Order is the subset of a checkout the order webhook gets told about
type Order struct {
	ID    string
	Email string
	Items []cart.Item
	Total float64
}

type webhookField struct {
	Name   string `json:"name"`
	Value  string `json:"value"`
	Inline bool   `json:"inline,omitempty"`
}

type webhookEmbed struct {
	Title     string         `json:"title"`
	Color     int            `json:"color"`
	Fields    []webhookField `json:"fields"`
	Timestamp string         `json:"timestamp"`
}

type webhookPayload struct {
	Embeds []webhookEmbed `json:"embeds"`
}

// Service posts new-order notifications to the configured webhook.
// With no webhook URL configured, notifications are silently skipped.
type Service struct {
	config     *config.Config
	httpClient *http.Client
	logger     *logrus.Logger
}

// NewService creates a new notification service
func NewService(cfg *config.Config, logger *logrus.Logger) *Service {
	return &Service{
		config: cfg,
		httpClient: &http.Client{
			Timeout: cfg.External.Webhook.Timeout,
		},
		logger: logger,
	}
}

// Notify posts one notification for the order. Callers decide whether to
// run it synchronously or in the background.
func (s *Service) Notify(ctx context.Context, order Order) error {
	if s.config.External.Webhook.OrderURL == "" {
		s.logger.Debug("Order webhook not configured, skipping notification")
		return nil
	}

	payload := webhookPayload{
		Embeds: []webhookEmbed{{
			Title: "🛍️ New Stripe checkout session created!",
			Color: 0x7b3f00,
			Fields: []webhookField{
				{Name: "Order ID", Value: order.ID, Inline: true},
				{Name: "Customer Email", Value: order.Email, Inline: true},
				{Name: "Items", Value: formatItems(order.Items)},
				{Name: "Total", Value: fmt.Sprintf("£%.2f", order.Total), Inline: true},
			},
			Timestamp: time.Now().UTC().Format(time.RFC3339),
		}},
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to encode order notification: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.config.External.Webhook.OrderURL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to build order notification request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to deliver order notification: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		return fmt.Errorf("order webhook returned status %d", resp.StatusCode)
	}

	s.logger.WithField("order_id", order.ID).Info("Order notification delivered")
	return nil
}

func formatItems(items []cart.Item) string {
	if len(items) == 0 {
		return "(none)"
	}

	lines := make([]string, 0, len(items))
	for _, item := range items {
		if item.Variation != "" {
			lines = append(lines, fmt.Sprintf("• %s (%s) - Quantity: %d - £%.2f",
				item.Title, item.Variation, item.Quantity, item.LineTotal()))
		} else {
			lines = append(lines, fmt.Sprintf("• %s - Quantity: %d - £%.2f",
				item.Title, item.Quantity, item.LineTotal()))
		}
	}
	return strings.Join(lines, "\n")
}
