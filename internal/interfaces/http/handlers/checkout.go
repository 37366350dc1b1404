// internal/interfaces/http/handlers/checkout.go
package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/your-org/storefront-backend/internal/domain/checkout"
	"github.com/your-org/storefront-backend/internal/interfaces/http/middleware"
)

// CheckoutHandler handles checkout endpoints
type CheckoutHandler struct {
	checkoutService *checkout.Service
	orchestrator    *checkout.Orchestrator
}

// NewCheckoutHandler creates a new checkout handler
func NewCheckoutHandler(checkoutService *checkout.Service, orchestrator *checkout.Orchestrator) *CheckoutHandler {
	return &CheckoutHandler{
		checkoutService: checkoutService,
		orchestrator:    orchestrator,
	}
}

// CreateSession handles POST /checkout. The body carries the cart
// snapshot and email directly; the response is the checkout session id
// the client redirects with.
func (h *CheckoutHandler) CreateSession(c *gin.Context) {
	var payload checkout.Payload
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request data",
		})
		return
	}

	session, err := h.checkoutService.CreateSession(c.Request.Context(), payload)
	if err != nil {
		h.respondCheckoutError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"sessionId": session.ID,
	})
}

// Submit handles POST /checkout/submit. Unlike CreateSession the cart is
// read from the shopper's stored session, and the full delivery form is
// validated first.
func (h *CheckoutHandler) Submit(c *gin.Context) {
	sessionID := middleware.GetSessionID(c)

	var details checkout.DetailsRequest
	if err := c.ShouldBindJSON(&details); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request data",
		})
		return
	}

	result, err := h.orchestrator.Submit(c.Request.Context(), sessionID, details)
	if err != nil {
		h.respondCheckoutError(c, err)
		return
	}

	if result.State == checkout.StateValidating {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":        "Please correct the highlighted fields",
			"field_errors": result.FieldErrors,
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"sessionId":    result.SessionID,
		"redirect_url": result.RedirectURL,
	})
}

// Success handles GET /checkout/success. The cart is cleared only when
// the payment processor sent the shopper back with a session id.
func (h *CheckoutHandler) Success(c *gin.Context) {
	sessionID := middleware.GetSessionID(c)

	cleared, err := h.orchestrator.ConfirmSuccess(c.Request.Context(), sessionID, c.Query("session_id"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to finalize checkout",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":      "Checkout complete",
		"cart_cleared": cleared,
	})
}

func (h *CheckoutHandler) respondCheckoutError(c *gin.Context, err error) {
	var validationErr *checkout.ValidationError
	switch {
	case errors.As(err, &validationErr):
		c.JSON(http.StatusBadRequest, gin.H{
			"error": validationErr.Message,
		})
	case errors.Is(err, checkout.ErrNotConfigured):
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Stripe is not configured",
		})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to create checkout session",
		})
	}
}
