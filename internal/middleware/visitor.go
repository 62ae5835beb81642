// internal/middleware/visitor.go
package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/javajoker/perfume-storefront/internal/config"
	"github.com/javajoker/perfume-storefront/internal/storage"
)

// Visitor identifies the browser by a long-lived cookie and binds its id to
// the request context, so per-visitor state and the backend token can be found.
func Visitor(cfg *config.StateConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		visitorID, err := c.Cookie(cfg.CookieName)
		if err != nil || !validVisitorID(visitorID) {
			visitorID = uuid.New().String()
			c.SetSameSite(http.SameSiteLaxMode)
			c.SetCookie(cfg.CookieName, visitorID, cfg.CookieMaxAge, "/", "", cfg.CookieSecure, true)
		}

		c.Set("visitor_id", visitorID)
		c.Request = c.Request.WithContext(storage.WithVisitor(c.Request.Context(), visitorID))
		c.Next()
	}
}

func validVisitorID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}
