// internal/domain/catalog/service.go
package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sort"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/singleflight"

	"github.com/your-org/storefront-backend/internal/config"
	"github.com/your-org/storefront-backend/internal/pkg/keyvalue"
)

var (
	// ErrProductNotFound is returned when no product matches the lookup
	ErrProductNotFound = errors.New("product not found")
	// ErrCatalogUnavailable is returned when the product API cannot be
	// reached and no cached catalog exists
	ErrCatalogUnavailable = errors.New("catalog unavailable")
)

const (
	catalogCacheKey = "catalog:products"
	// catalogStaleKey holds the last successful fetch without a TTL so we
	// can serve a stale catalog when the product API is down
	catalogStaleKey = "catalog:products:last_good"
)

// Sort orders accepted by the product listing
const (
	SortPriceAsc    = "price-asc"
	SortPriceDesc   = "price-desc"
	SortBestSellers = "best-sellers"
)

// Service fetches and caches the product catalog from the external
// product API. The catalog is read-only; all mutation happens upstream.
type Service struct {
	config     *config.Config
	kv         keyvalue.Store
	httpClient *http.Client
	logger     *logrus.Logger
	group      singleflight.Group
}

// NewService creates a new catalog service
func NewService(cfg *config.Config, kv keyvalue.Store, logger *logrus.Logger) *Service {
	return &Service{
		config: cfg,
		kv:     kv,
		httpClient: &http.Client{
			Timeout: cfg.Catalog.RequestTimeout,
		},
		logger: logger,
	}
}

// List returns the full catalog, enriched with derived ratings. The
// result comes from the cache when fresh, otherwise a single upstream
// fetch is shared between concurrent callers.
func (s *Service) List(ctx context.Context) ([]Product, error) {
	if products, ok := s.loadCached(ctx, catalogCacheKey); ok {
		return products, nil
	}

	result, err, _ := s.group.Do(catalogCacheKey, func() (interface{}, error) {
		// Re-check under the flight in case another caller just refreshed
		if products, ok := s.loadCached(context.Background(), catalogCacheKey); ok {
			return products, nil
		}
		return s.refresh(context.Background())
	})
	if err != nil {
		// Fall back to the last successful fetch, however old
		if products, ok := s.loadCached(ctx, catalogStaleKey); ok {
			s.logger.WithError(err).Warn("Serving stale catalog after fetch failure")
			return products, nil
		}
		return nil, err
	}

	return result.([]Product), nil
}

// ByID returns a single product by id
func (s *Service) ByID(ctx context.Context, id string) (Product, error) {
	products, err := s.List(ctx)
	if err != nil {
		return Product{}, err
	}

	for _, p := range products {
		if p.ID == id {
			return p, nil
		}
	}
	return Product{}, ErrProductNotFound
}

// BySlug returns a single product by its URL slug
func (s *Service) BySlug(ctx context.Context, slug string) (Product, error) {
	products, err := s.List(ctx)
	if err != nil {
		return Product{}, err
	}

	for _, p := range products {
		if p.Slug() == slug {
			return p, nil
		}
	}
	return Product{}, ErrProductNotFound
}

// FilterByCategory returns the products in the given category. An empty
// category returns everything.
func FilterByCategory(products []Product, category string) []Product {
	if category == "" {
		return products
	}

	filtered := make([]Product, 0, len(products))
	for _, p := range products {
		if p.Category == category {
			filtered = append(filtered, p)
		}
	}
	return filtered
}

// SortProducts orders a product list in place by the given sort key.
// Unknown keys leave the list untouched.
func SortProducts(products []Product, order string) {
	switch order {
	case SortPriceAsc:
		sort.SliceStable(products, func(i, j int) bool {
			return products[i].LowestPrice() < products[j].LowestPrice()
		})
	case SortPriceDesc:
		sort.SliceStable(products, func(i, j int) bool {
			return products[i].LowestPrice() > products[j].LowestPrice()
		})
	case SortBestSellers:
		sort.SliceStable(products, func(i, j int) bool {
			return products[i].IsTopSeller && !products[j].IsTopSeller
		})
	}
}

func (s *Service) loadCached(ctx context.Context, key string) ([]Product, bool) {
	data, found, err := s.kv.Load(ctx, key)
	if err != nil {
		s.logger.WithError(err).WithField("key", key).Warn("Failed to read catalog cache")
		return nil, false
	}
	if !found {
		return nil, false
	}

	var products []Product
	if err := json.Unmarshal(data, &products); err != nil {
		s.logger.WithError(err).WithField("key", key).Warn("Discarding corrupt catalog cache entry")
		return nil, false
	}
	return products, true
}

// refresh fetches the catalog from the product API and updates the cache
func (s *Service) refresh(ctx context.Context) ([]Product, error) {
	ctx, cancel := context.WithTimeout(ctx, s.config.Catalog.RequestTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.config.Catalog.URL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build catalog request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCatalogUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: product API returned status %d", ErrCatalogUnavailable, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog response: %w", err)
	}

	var products []Product
	if err := json.Unmarshal(body, &products); err != nil {
		return nil, fmt.Errorf("failed to decode catalog response: %w", err)
	}

	enrich(products)

	encoded, err := json.Marshal(products)
	if err != nil {
		return nil, fmt.Errorf("failed to encode catalog for cache: %w", err)
	}

	if err := s.kv.Save(ctx, catalogCacheKey, encoded, s.config.Catalog.CacheTTL); err != nil {
		s.logger.WithError(err).Warn("Failed to cache catalog")
	}
	if err := s.kv.Save(ctx, catalogStaleKey, encoded, 0); err != nil {
		s.logger.WithError(err).Warn("Failed to store catalog fallback copy")
	}

	s.logger.WithField("products", len(products)).Debug("Catalog refreshed")
	return products, nil
}

// enrich fills in fields the product API does not supply
func enrich(products []Product) {
	for i := range products {
		if products[i].Rating == 0 {
			products[i].Rating = Rating(products[i].ID)
		}
		if products[i].ReviewCount == 0 {
			products[i].ReviewCount = ReviewCount(products[i].ID)
		}
	}
}

// Warm primes the catalog cache at startup. Failures are logged only;
// the catalog will be fetched lazily on first request instead.
func (s *Service) Warm(ctx context.Context) {
	start := time.Now()
	products, err := s.List(ctx)
	if err != nil {
		s.logger.WithError(err).Warn("Catalog warm-up failed")
		return
	}
	s.logger.WithFields(logrus.Fields{
		"products": len(products),
		"took":     time.Since(start).String(),
	}).Info("Catalog warmed")
}
