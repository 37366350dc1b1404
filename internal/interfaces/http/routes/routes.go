// internal/interfaces/http/routes/routes.go
package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/your-org/storefront-backend/internal/domain/cart"
	"github.com/your-org/storefront-backend/internal/domain/catalog"
	"github.com/your-org/storefront-backend/internal/domain/checkout"
	"github.com/your-org/storefront-backend/internal/domain/preferences"
	"github.com/your-org/storefront-backend/internal/interfaces/http/handlers"
)

// Handlers bundles the storefront's HTTP handlers
type Handlers struct {
	Catalog     *handlers.CatalogHandler
	Cart        *handlers.CartHandler
	Checkout    *handlers.CheckoutHandler
	Preferences *handlers.PreferencesHandler
}

// NewHandlers wires domain services into HTTP handlers
func NewHandlers(
	catalogService *catalog.Service,
	cartService *cart.Service,
	checkoutService *checkout.Service,
	orchestrator *checkout.Orchestrator,
	preferencesService *preferences.Service,
) Handlers {
	return Handlers{
		Catalog:     handlers.NewCatalogHandler(catalogService),
		Cart:        handlers.NewCartHandler(cartService, catalogService),
		Checkout:    handlers.NewCheckoutHandler(checkoutService, orchestrator),
		Preferences: handlers.NewPreferencesHandler(preferencesService),
	}
}

// SetupRoutes registers all API routes on the given group
func SetupRoutes(api *gin.RouterGroup, h Handlers) {
	// Product catalog routes. Lookup accepts an id or a title slug so
	// both detail-page URL styles resolve.
	products := api.Group("/products")
	{
		products.GET("", h.Catalog.ListProducts)
		products.GET("/:id", h.Catalog.GetProduct)
	}

	// Cart routes
	cartGroup := api.Group("/cart")
	{
		cartGroup.GET("", h.Cart.GetCart)
		cartGroup.DELETE("", h.Cart.ClearCart)
		cartGroup.GET("/count", h.Cart.GetCartCount)
		cartGroup.POST("/items", h.Cart.AddToCart)
		cartGroup.PUT("/items/:id", h.Cart.UpdateCartItem)
		cartGroup.DELETE("/items/:id", h.Cart.RemoveFromCart)
	}

	// Checkout routes
	checkoutGroup := api.Group("/checkout")
	{
		checkoutGroup.POST("", h.Checkout.CreateSession)
		checkoutGroup.POST("/submit", h.Checkout.Submit)
	}

	// Display preference routes
	api.GET("/currencies", h.Preferences.ListCurrencies)
	preferencesGroup := api.Group("/preferences")
	{
		preferencesGroup.GET("", h.Preferences.GetPreferences)
		preferencesGroup.PUT("/currency", h.Preferences.SetCurrency)
		preferencesGroup.PUT("/consent", h.Preferences.SetConsent)
	}
}
