// internal/interfaces/http/handlers/catalog.go
package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/your-org/storefront-backend/internal/domain/catalog"
)

// CatalogHandler handles product catalog endpoints
type CatalogHandler struct {
	catalogService *catalog.Service
}

// NewCatalogHandler creates a new catalog handler
func NewCatalogHandler(catalogService *catalog.Service) *CatalogHandler {
	return &CatalogHandler{
		catalogService: catalogService,
	}
}

// ListProducts handles GET /products
func (h *CatalogHandler) ListProducts(c *gin.Context) {
	products, err := h.catalogService.List(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{
			"error": "Product catalog is temporarily unavailable",
		})
		return
	}

	products = catalog.FilterByCategory(products, c.Query("category"))
	catalog.SortProducts(products, c.Query("sort"))

	c.JSON(http.StatusOK, gin.H{
		"message": "Products retrieved successfully",
		"data":    products,
	})
}

// GetProduct handles GET /products/:id. The parameter is a product id,
// falling back to a title slug so detail-page URLs resolve too.
func (h *CatalogHandler) GetProduct(c *gin.Context) {
	ctx := c.Request.Context()
	key := c.Param("id")

	product, err := h.catalogService.ByID(ctx, key)
	if errors.Is(err, catalog.ErrProductNotFound) {
		product, err = h.catalogService.BySlug(ctx, key)
	}
	if err != nil {
		h.respondLookupError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Product retrieved successfully",
		"data":    product,
	})
}

func (h *CatalogHandler) respondLookupError(c *gin.Context, err error) {
	if errors.Is(err, catalog.ErrProductNotFound) {
		c.JSON(http.StatusNotFound, gin.H{
			"error": "Product not found",
		})
		return
	}
	c.JSON(http.StatusBadGateway, gin.H{
		"error": "Product catalog is temporarily unavailable",
	})
}
