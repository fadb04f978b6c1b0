package middleware

import (
	"net/http"

	"github.com/cmdshop/cmdshop/pkg/logger"
	"github.com/gin-gonic/gin"
)

// Recovery turns a handler panic into a JSON 500 in the API's error shape.
func Recovery() gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered interface{}) {
		logger.Errorw("panic recovered", "method", c.Request.Method, "path", c.Request.URL.Path, "panic", recovered)
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"message": "Internal Server Error"})
	})
}
