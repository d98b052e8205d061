package auth

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// Cookie names for browser clients
const (
	AccessCookie  = "access_token"
	RefreshCookie = "refresh_token"
)

// viewerKey is the gin context key carrying the authenticated user ID
const viewerKey = "auth.viewer_id"

// Middleware authenticates requests from the access token cookie or an
// Authorization bearer header and stores the viewer's ID on the context.
// Handlers pass that identity to services explicitly.
func Middleware(tokens *TokenManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := tokenFromRequest(c)
		if raw == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
			return
		}

		userID, err := tokens.Verify(raw, TokenTypeAccess)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid or expired token"})
			return
		}

		c.Set(viewerKey, userID)
		c.Next()
	}
}

// Viewer returns the authenticated user ID set by Middleware
func Viewer(c *gin.Context) (int64, bool) {
	v, ok := c.Get(viewerKey)
	if !ok {
		return 0, false
	}
	id, ok := v.(int64)
	return id, ok
}

func tokenFromRequest(c *gin.Context) string {
	if cookie, err := c.Cookie(AccessCookie); err == nil && cookie != "" {
		return cookie
	}
	header := c.GetHeader("Authorization")
	if strings.HasPrefix(header, "Bearer ") {
		return strings.TrimPrefix(header, "Bearer ")
	}
	return ""
}
