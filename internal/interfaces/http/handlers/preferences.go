// internal/interfaces/http/handlers/preferences.go
package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/your-org/storefront-backend/internal/domain/preferences"
	"github.com/your-org/storefront-backend/internal/interfaces/http/middleware"
)

// PreferencesHandler handles display preference endpoints
type PreferencesHandler struct {
	preferencesService *preferences.Service
}

// NewPreferencesHandler creates a new preferences handler
func NewPreferencesHandler(preferencesService *preferences.Service) *PreferencesHandler {
	return &PreferencesHandler{
		preferencesService: preferencesService,
	}
}

// SetCurrencyRequest is the body for PUT /preferences/currency
type SetCurrencyRequest struct {
	Currency string `json:"currency" binding:"required"`
}

// SetConsentRequest is the body for PUT /preferences/consent
type SetConsentRequest struct {
	Consent string `json:"consent" binding:"required"`
}

// ListCurrencies handles GET /currencies
func (h *PreferencesHandler) ListCurrencies(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"message": "Currencies retrieved successfully",
		"data":    preferences.Currencies,
	})
}

// GetPreferences handles GET /preferences
func (h *PreferencesHandler) GetPreferences(c *gin.Context) {
	sessionID := middleware.GetSessionID(c)
	ctx := c.Request.Context()

	currency, err := h.preferencesService.GetCurrency(ctx, sessionID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to retrieve preferences",
		})
		return
	}

	consent, err := h.preferencesService.GetConsent(ctx, sessionID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to retrieve preferences",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Preferences retrieved successfully",
		"data": gin.H{
			"currency": currency,
			"consent":  consent,
		},
	})
}

// SetCurrency handles PUT /preferences/currency
func (h *PreferencesHandler) SetCurrency(c *gin.Context) {
	sessionID := middleware.GetSessionID(c)

	var req SetCurrencyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	if err := h.preferencesService.SetCurrency(c.Request.Context(), sessionID, req.Currency); err != nil {
		if errors.Is(err, preferences.ErrUnsupportedCurrency) {
			c.JSON(http.StatusBadRequest, gin.H{
				"error": "Unsupported currency",
			})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to save preferences",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Currency updated successfully",
	})
}

// SetConsent handles PUT /preferences/consent
func (h *PreferencesHandler) SetConsent(c *gin.Context) {
	sessionID := middleware.GetSessionID(c)

	var req SetConsentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	if err := h.preferencesService.SetConsent(c.Request.Context(), sessionID, req.Consent); err != nil {
		if errors.Is(err, preferences.ErrInvalidConsent) {
			c.JSON(http.StatusBadRequest, gin.H{
				"error": "Consent must be accepted or rejected",
			})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to save preferences",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Consent updated successfully",
	})
}
