package middleware

import (
	"github.com/gin-gonic/gin"
)

// CORS applies the permissive cross-origin policy the browser UI depends on,
// plus cache-disabling headers: every gateway response reflects live
// spreadsheet state and must never be cached.
func CORS() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Content-Type")
		c.Header("Cache-Control", "no-store")

		c.Next()
	}
}
