package middleware

import (
	"myarc/logger"
	"myarc/utils"

	"github.com/gin-gonic/gin"
)

func EnhancedRecoveryMiddleware(log *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if err := recover(); err != nil {
				log.Error("panic recovered",
					"error", err,
					"path", c.Request.URL.Path,
					"request_id", c.GetString(RequestIDKey),
				)
				utils.TrackError("panic", c.FullPath())
				utils.InternalError(c, "Internal server error")
				c.Abort()
			}
		}()
		c.Next()
	}
}
