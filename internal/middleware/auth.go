// internal/middleware/auth.go
package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/javajoker/perfume-storefront/internal/services"
	"github.com/javajoker/perfume-storefront/internal/utils"
)

const sessionKey = "session"

// Session restores the visitor's persisted login before any handler runs,
// so handlers never see a session that is still loading.
func Session(sessions *services.SessionService, logger *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		visitorID, ok := utils.GetVisitorIDFromContext(c)
		if !ok {
			utils.InternalErrorResponse(c, "")
			c.Abort()
			return
		}

		session, err := sessions.Restore(c.Request.Context(), visitorID)
		if err != nil {
			logger.WithError(err).WithField("visitor_id", visitorID).Error("Failed to restore session")
			utils.InternalErrorResponse(c, "")
			c.Abort()
			return
		}

		c.Set(sessionKey, session)
		if session.User != nil {
			c.Set("user_id", session.User.ID)
		}
		c.Next()
	}
}

// SessionFrom returns the session restored for this request, or an anonymous one.
func SessionFrom(c *gin.Context) *services.Session {
	if value, exists := c.Get(sessionKey); exists {
		if session, ok := value.(*services.Session); ok {
			return session
		}
	}

	visitorID, _ := utils.GetVisitorIDFromContext(c)
	session := services.NewSession(visitorID)
	session.Loading = false
	return session
}

func AuthRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !SessionFrom(c).Authenticated() {
			utils.UnauthorizedResponse(c, "")
			c.Abort()
			return
		}
		c.Next()
	}
}

func AdminRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		session := SessionFrom(c)
		if !session.Authenticated() {
			utils.UnauthorizedResponse(c, "")
			c.Abort()
			return
		}
		if !session.IsAdmin {
			utils.ForbiddenResponse(c, "")
			c.Abort()
			return
		}
		c.Next()
	}
}
