package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/netbill/netbill/internal/types"
)

// RequestIDMiddleware ensures every request carries a request ID, minting one
// when the client did not send the X-Request-ID header.
func RequestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader("X-Request-ID")
		if requestID == "" {
			requestID = types.GenerateRequestID()
		}

		ctx := types.SetRequestID(c.Request.Context(), requestID)
		c.Request = c.Request.WithContext(ctx)
		c.Writer.Header().Set("X-Request-ID", requestID)

		c.Next()
	}
}
