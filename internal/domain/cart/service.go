// internal/domain/cart/service.go
package cart

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/your-org/storefront-backend/internal/domain/catalog"
	"github.com/your-org/storefront-backend/internal/pkg/keyvalue"
)

// cartTTL matches the session cookie lifetime; an abandoned cart
// outliving its session is unreachable anyway
const cartTTL = 30 * 24 * time.Hour

// Service manages per-session shopping carts backed by a key-value
// store. Load failures degrade to an empty cart so a storage hiccup
// never breaks browsing; save failures are logged and swallowed for the
// same reason.
type Service struct {
	kv     keyvalue.Store
	logger *logrus.Logger
}

// NewService creates a new cart service
func NewService(kv keyvalue.Store, logger *logrus.Logger) *Service {
	return &Service{
		kv:     kv,
		logger: logger,
	}
}

func cartKey(sessionID string) string {
	return fmt.Sprintf("cart:session:%s", sessionID)
}

// Add puts a product in the cart. If a line with the same product and
// variation already exists its quantity is incremented by one, otherwise
// a new line with quantity one is appended. A positive price overrides
// the product's base price for the line.
func (s *Service) Add(ctx context.Context, sessionID string, product catalog.Product, variation string, price float64) (Cart, error) {
	items := s.load(ctx, sessionID)

	merged := false
	for i := range items {
		if items[i].Matches(product.ID, variation) {
			items[i].Quantity++
			merged = true
			break
		}
	}
	if !merged {
		items = append(items, Item{
			Product:   product,
			Quantity:  1,
			Variation: variation,
			UnitPrice: price,
		})
	}

	s.save(ctx, sessionID, items)
	return s.toCart(items), nil
}

// UpdateQuantity sets the quantity of an existing line. Quantities of
// zero or less remove the line. Unknown lines are a no-op.
func (s *Service) UpdateQuantity(ctx context.Context, sessionID, productID, variation string, quantity int) (Cart, error) {
	items := s.load(ctx, sessionID)

	if quantity <= 0 {
		return s.removeLine(ctx, sessionID, items, productID, variation), nil
	}

	for i := range items {
		if items[i].Matches(productID, variation) {
			items[i].Quantity = quantity
			s.save(ctx, sessionID, items)
			break
		}
	}
	return s.toCart(items), nil
}

// Remove deletes a line from the cart. Unknown lines are a no-op.
func (s *Service) Remove(ctx context.Context, sessionID, productID, variation string) (Cart, error) {
	items := s.load(ctx, sessionID)
	return s.removeLine(ctx, sessionID, items, productID, variation), nil
}

// Clear empties the cart
func (s *Service) Clear(ctx context.Context, sessionID string) error {
	if err := s.kv.Delete(ctx, cartKey(sessionID)); err != nil {
		return fmt.Errorf("failed to clear cart: %w", err)
	}
	return nil
}

// Get returns the cart with freshly computed totals
func (s *Service) Get(ctx context.Context, sessionID string) (Cart, error) {
	return s.toCart(s.load(ctx, sessionID)), nil
}

// Count returns the total quantity across all lines
func (s *Service) Count(ctx context.Context, sessionID string) (int, error) {
	cart, err := s.Get(ctx, sessionID)
	if err != nil {
		return 0, err
	}
	return cart.Totals.TotalQuantity, nil
}

func (s *Service) removeLine(ctx context.Context, sessionID string, items []Item, productID, variation string) Cart {
	kept := items[:0]
	removed := false
	for _, item := range items {
		if item.Matches(productID, variation) {
			removed = true
			continue
		}
		kept = append(kept, item)
	}
	if removed {
		s.save(ctx, sessionID, kept)
	}
	return s.toCart(kept)
}

func (s *Service) load(ctx context.Context, sessionID string) []Item {
	data, found, err := s.kv.Load(ctx, cartKey(sessionID))
	if err != nil {
		s.logger.WithError(err).WithField("session_id", sessionID).Warn("Failed to load cart, starting empty")
		return nil
	}
	if !found {
		return nil
	}

	var items []Item
	if err := json.Unmarshal(data, &items); err != nil {
		s.logger.WithError(err).WithField("session_id", sessionID).Warn("Discarding corrupt cart data")
		return nil
	}
	return items
}

func (s *Service) save(ctx context.Context, sessionID string, items []Item) {
	data, err := json.Marshal(items)
	if err != nil {
		s.logger.WithError(err).WithField("session_id", sessionID).Error("Failed to encode cart")
		return
	}
	if err := s.kv.Save(ctx, cartKey(sessionID), data, cartTTL); err != nil {
		s.logger.WithError(err).WithField("session_id", sessionID).Error("Failed to persist cart")
	}
}

func (s *Service) toCart(items []Item) Cart {
	if items == nil {
		items = []Item{}
	}
	return Cart{
		Items:  items,
		Totals: ComputeTotals(items),
	}
}
