package middleware

import (
	"context"

	"github.com/erp/clerkfeed/internal/infrastructure/telemetry"
	"github.com/gin-gonic/gin"
)

// Profiling attaches pyroscope labels (route pattern, method, channel) to the
// request so CPU and allocation profiles can be split per feed.
func Profiling(enabled bool) gin.HandlerFunc {
	if !enabled {
		return func(c *gin.Context) {
			c.Next()
		}
	}

	return func(c *gin.Context) {
		labels := map[string]string{
			telemetry.ProfilingLabelMethod:  c.Request.Method,
			telemetry.ProfilingLabelRoute:   c.FullPath(),
			telemetry.ProfilingLabelChannel: c.Param("channelId"),
		}
		telemetry.WithProfilingLabels(c.Request.Context(), labels, func(ctx context.Context) {
			c.Request = c.Request.WithContext(ctx)
			c.Next()
		})
	}
}
