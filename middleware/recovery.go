package middleware

import (
	"log"
	"runtime/debug"

	"tonotes/apperr"
	"tonotes/utils"

	"github.com/gin-gonic/gin"
)

// EnhancedRecoveryMiddleware turns a panic into the 500 envelope.
func EnhancedRecoveryMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if err := recover(); err != nil {
				requestID, _ := c.Get("request_id")
				log.Printf("panic recovered (request %v): %v\n%s", requestID, err, debug.Stack())
				utils.TrackError(apperr.KindUnexpected.String())
				if !c.Writer.Written() {
					utils.InternalError(c, "Internal server error")
				}
				c.Abort()
			}
		}()
		c.Next()
	}
}
