package middleware

import (
	"crypto/subtle"

	"github.com/gin-gonic/gin"

	"github.com/winterhq/socialboard/internal/util"
)

// RequireAPIKey gates the public read endpoint with a shared key passed
// in the apikey header. An empty configured key leaves the endpoint open,
// which is the development default.
func RequireAPIKey(key string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if key == "" {
			c.Next()
			return
		}
		presented := c.GetHeader("apikey")
		if subtle.ConstantTimeCompare([]byte(presented), []byte(key)) != 1 {
			util.RespondUnauthorized(c, "invalid api key")
			c.Abort()
			return
		}
		c.Next()
	}
}
