package middleware

import (
	"net/http"
	"net/http/httptest"
	"runtime/pprof"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestProfiling(t *testing.T) {
	t.Run("labels feed requests", func(t *testing.T) {
		var route, channel, method string
		r := gin.New()
		r.Use(Profiling(true))
		r.GET("/feed/:channelId", func(c *gin.Context) {
			route, _ = pprof.Label(c.Request.Context(), "route")
			channel, _ = pprof.Label(c.Request.Context(), "channel_id")
			method, _ = pprof.Label(c.Request.Context(), "method")
			c.Status(http.StatusOK)
		})

		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/feed/7", nil))

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "/feed/:channelId", route)
		assert.Equal(t, "7", channel)
		assert.Equal(t, http.MethodGet, method)
	})

	t.Run("drops empty labels", func(t *testing.T) {
		var ok bool
		r := gin.New()
		r.Use(Profiling(true))
		r.GET("/health", func(c *gin.Context) {
			_, ok = pprof.Label(c.Request.Context(), "channel_id")
			c.Status(http.StatusOK)
		})

		r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/health", nil))
		assert.False(t, ok)
	})

	t.Run("disabled is a pass-through", func(t *testing.T) {
		var ok bool
		r := gin.New()
		r.Use(Profiling(false))
		r.GET("/feed/:channelId", func(c *gin.Context) {
			_, ok = pprof.Label(c.Request.Context(), "route")
			c.Status(http.StatusOK)
		})

		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/feed/7", nil))
		assert.Equal(t, http.StatusOK, w.Code)
		assert.False(t, ok)
	})
}
