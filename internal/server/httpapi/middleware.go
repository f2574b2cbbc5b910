package httpapi

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/avoronin/accountkeeper/internal/server/auth"
)

const accountIDKey = "accountID"

// accessTokenMiddleware validates the access_token header and stores the
// account ID in the request context for downstream handlers.
func (s *HTTPServer) accessTokenMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		accessToken := c.GetHeader("access_token")
		if accessToken == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing token"})
			return
		}

		accountID, err := auth.GetAccountIDFromToken(accessToken, s.jwtSecret)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}

		c.Set(accountIDKey, accountID)
		c.Next()
	}
}
