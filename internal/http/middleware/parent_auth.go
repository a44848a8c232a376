package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/sproutlearn/sproutlearn-backend/internal/pkg/logger"
	"github.com/sproutlearn/sproutlearn-backend/internal/services"
)

// ContextKeyParentID is where RequireParent stores the authenticated
// parent's id on the gin context.
const ContextKeyParentID = "parent_id"

type ParentAuthMiddleware struct {
	log  *logger.Logger
	auth services.ParentAuthService
}

func NewParentAuthMiddleware(log *logger.Logger, auth services.ParentAuthService) *ParentAuthMiddleware {
	return &ParentAuthMiddleware{
		log:  log.With("middleware", "ParentAuthMiddleware"),
		auth: auth,
	}
}

func (m *ParentAuthMiddleware) RequireParent() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := extractBearerToken(c)
		if token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": gin.H{"message": "missing or invalid token", "code": "unauthorized"},
			})
			return
		}

		parentID, err := m.auth.ParseToken(token)
		if err != nil || parentID == uuid.Nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": gin.H{"message": "missing or invalid token", "code": "unauthorized"},
			})
			return
		}

		c.Set(ContextKeyParentID, parentID)
		c.Next()
	}
}

// ParentID reads the authenticated parent id set by RequireParent.
func ParentID(c *gin.Context) (uuid.UUID, bool) {
	val, ok := c.Get(ContextKeyParentID)
	if !ok {
		return uuid.Nil, false
	}
	id, ok := val.(uuid.UUID)
	return id, ok
}

func extractBearerToken(c *gin.Context) string {
	authHeader := c.GetHeader("Authorization")
	if len(authHeader) > 7 && strings.EqualFold(authHeader[:7], "Bearer ") {
		return authHeader[7:]
	}
	return ""
}
