package middleware

import (
	"crypto/subtle"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

// APIKeyHeader carries the shared service key
const APIKeyHeader = "X-Internal-API-Key"

// InternalAuthMiddleware checks the X-Internal-API-Key header against apiKey.
// An empty apiKey disables the check.
func InternalAuthMiddleware(apiKey string) gin.HandlerFunc {
	if apiKey == "" {
		log.Warn().Msg("API key not configured, /api is unauthenticated")
		return func(c *gin.Context) {
			c.Next()
		}
	}
	apiKeyBytes := []byte(apiKey)

	return func(c *gin.Context) {
		key := c.GetHeader(APIKeyHeader)
		if subtle.ConstantTimeCompare([]byte(key), apiKeyBytes) != 1 {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": "unauthorized",
			})
			return
		}
		c.Next()
	}
}
