// internal/interfaces/http/middleware/session.go
package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/your-org/storefront-backend/internal/config"
	"github.com/your-org/storefront-backend/internal/pkg/session"
)

const sessionIDKey = "session_id"

// Session identifies the shopper behind each request. A valid signed
// cookie keeps its session id; anything else gets a fresh id and a new
// cookie. Requests never fail here, an anonymous shopper just starts a
// new session.
func Session(cfg *config.Config, manager *session.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		sessionID := ""

		if cookie, err := c.Cookie(cfg.Session.CookieName); err == nil {
			if verified, err := manager.Verify(cookie); err == nil {
				sessionID = verified
			}
		}

		if sessionID == "" {
			sessionID = uuid.New().String()
			if token, err := manager.Issue(sessionID); err == nil {
				c.SetCookie(
					cfg.Session.CookieName,
					token,
					int(cfg.Session.TTL.Seconds()),
					"/",
					"",
					cfg.IsProduction(),
					true,
				)
			}
		}

		c.Set(sessionIDKey, sessionID)
		c.Next()
	}
}

// GetSessionID returns the shopper session id attached to the request
func GetSessionID(c *gin.Context) string {
	if id, exists := c.Get(sessionIDKey); exists {
		if sessionID, ok := id.(string); ok {
			return sessionID
		}
	}
	return ""
}
