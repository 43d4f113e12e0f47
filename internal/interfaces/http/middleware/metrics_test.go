package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHTTPMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewHTTPMetrics(reg)
	router := newTestRouter(m.Middleware())

	for _, path := range []string{"/feed/1", "/feed/2", "/nowhere"} {
		router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, path, nil))
	}

	expected := `
# HELP clerkfeed_http_requests_total HTTP requests by route and status code.
# TYPE clerkfeed_http_requests_total counter
clerkfeed_http_requests_total{method="GET",route="/feed/:channelId",status_code="200"} 2
clerkfeed_http_requests_total{method="GET",route="unmatched",status_code="404"} 1
`
	require.NoError(t, testutil.GatherAndCompare(reg, strings.NewReader(expected), "clerkfeed_http_requests_total"))
	assert.Equal(t, 0.0, testutil.ToFloat64(m.inFlight))
	assert.Equal(t, 2, testutil.CollectAndCount(m.duration))
}
