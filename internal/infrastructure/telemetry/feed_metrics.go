package telemetry

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Feed request outcomes used as the "outcome" label.
const (
	OutcomeOK       = "ok"
	OutcomeDenied   = "denied"
	OutcomeNotFound = "not_found"
	OutcomeCanceled = "canceled"
	OutcomeError    = "error"
)

// FeedMetrics records feed assembly metrics. A nil *FeedMetrics is a valid no-op.
type FeedMetrics struct {
	requests *prometheus.CounterVec
	duration *prometheus.HistogramVec
	records  *prometheus.CounterVec
	pages    *prometheus.CounterVec
}

// NewFeedMetrics registers the feed collectors with reg.
func NewFeedMetrics(reg prometheus.Registerer) *FeedMetrics {
	factory := promauto.With(reg)
	return &FeedMetrics{
		requests: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "clerkfeed",
				Name:      "requests_total",
				Help:      "Total number of feed requests by outcome",
			},
			[]string{"outcome"},
		),
		duration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "clerkfeed",
				Name:      "assemble_duration_seconds",
				Help:      "Duration of feed assembly in seconds",
				Buckets:   prometheus.ExponentialBuckets(0.005, 2, 14),
			},
			[]string{"outcome"},
		),
		records: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "clerkfeed",
				Name:      "records_total",
				Help:      "Total number of normalized feed records",
			},
			[]string{"entity_type"},
		),
		pages: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "clerkfeed",
				Name:      "pages_total",
				Help:      "Total number of data source pages fetched",
			},
			[]string{"entity_type"},
		),
	}
}

// ObserveRequest records a finished feed request.
func (m *FeedMetrics) ObserveRequest(outcome string, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.requests.WithLabelValues(outcome).Inc()
	m.duration.WithLabelValues(outcome).Observe(elapsed.Seconds())
}

// ObservePage records one fetched page and the records it produced.
func (m *FeedMetrics) ObservePage(entityType string, records int) {
	if m == nil {
		return
	}
	m.pages.WithLabelValues(entityType).Inc()
	m.records.WithLabelValues(entityType).Add(float64(records))
}
