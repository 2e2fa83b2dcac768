package middleware

import (
	"net/http"
	"strings"

	"cartscout/utils"

	"github.com/gin-gonic/gin"
)

// ClientIDKey is the context key the checkout handlers read.
const ClientIDKey = "clientID"

// JWTAuthClientMiddleware validates the guest shopper token and stores the
// client ID in the request context. Checkout sessions are scoped to it.
func JWTAuthClientMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": "Insufficient authorization",
				"code":  0,
			})
			return
		}
		tokenString := strings.TrimPrefix(authHeader, "Bearer ")
		if tokenString == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": "Insufficient authorization",
				"code":  0,
			})
			return
		}

		clientID, err := utils.ExtractClientIDFromToken(tokenString)
		if err != nil || clientID == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": "Insufficient authorization",
				"code":  0,
			})
			return
		}

		c.Set(ClientIDKey, clientID)
		c.Next()
	}
}
