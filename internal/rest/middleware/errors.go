package middleware

import (
	"github.com/gin-gonic/gin"
	ierr "github.com/netbill/netbill/internal/errors"
)

// ErrorHandler renders the first error a handler attached via c.Error as a
// JSON body with a status derived from the error mark. Handlers stay thin:
// they attach the error and return.
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 || c.Writer.Written() {
			return
		}

		err := c.Errors[0].Err
		c.JSON(ierr.HTTPStatusFromErr(err), ierr.NewErrorResponse(err))
	}
}
