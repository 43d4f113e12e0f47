package feed

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/erp/clerkfeed/internal/domain/commerce"
	"github.com/erp/clerkfeed/internal/domain/feed"
	"github.com/erp/clerkfeed/internal/domain/shared"
	"github.com/erp/clerkfeed/internal/infrastructure/telemetry"
)

// SalesTracker returns the normalized record of a single completed order for the
// sales tracking integration. Requests are signed like the feed.
type SalesTracker struct {
	validator  *SignatureValidator
	orders     commerce.OrderRepository
	channels   commerce.ChannelRepository
	normalizer Normalizer[commerce.Order]
	metrics    *telemetry.FeedMetrics
}

// NewSalesTracker creates a SalesTracker
func NewSalesTracker(
	validator *SignatureValidator,
	orders commerce.OrderRepository,
	channels commerce.ChannelRepository,
	normalizer Normalizer[commerce.Order],
) (*SalesTracker, error) {
	if validator == nil || orders == nil || channels == nil || normalizer == nil {
		return nil, &feed.ConfigurationError{Field: "sales_tracking", Reason: "validator, repositories and normalizer are required"}
	}
	return &SalesTracker{
		validator:  validator,
		orders:     orders,
		channels:   channels,
		normalizer: normalizer,
	}, nil
}

// SetMetrics sets the metrics sink.
func (t *SalesTracker) SetMetrics(m *telemetry.FeedMetrics) {
	t.metrics = m
}

// TrackOrder returns the order record normalized against the order's own channel.
// Orders that have not completed checkout are reported as not found.
func (t *SalesTracker) TrackOrder(ctx context.Context, orderID uint64, req feed.Request) (rec feed.Record, err error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "feed", "track_order",
		telemetry.WithAttribute(telemetry.SpanAttrOrderID, orderID),
	)
	defer span.End()

	start := time.Now()
	defer func() {
		outcome := outcomeOf(err)
		telemetry.SetAttributes(span, telemetry.SpanAttrOutcome, outcome)
		if outcome == telemetry.OutcomeError {
			telemetry.RecordError(span, err)
		}
		t.metrics.ObserveRequest(outcome, time.Since(start))
	}()

	if !t.validator.Validate(req.Salt, req.Signature, req.ArrivedAt) {
		return nil, feed.ErrAccessDenied
	}
	if orderID == 0 {
		return nil, feed.ErrOrderNotFound
	}

	order, err := t.orders.FindByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, fmt.Errorf("order %d: %w", orderID, feed.ErrOrderNotFound)
		}
		return nil, &feed.DataSourceError{EntityType: feed.EntityOrders, Err: err}
	}
	if !order.IsCheckoutCompleted() {
		return nil, fmt.Errorf("order %d: %w", orderID, feed.ErrOrderNotFound)
	}

	channel, err := t.channels.FindByID(ctx, order.ChannelID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, fmt.Errorf("order %d channel %d: %w", orderID, order.ChannelID, feed.ErrChannelNotFound)
		}
		return nil, &feed.DataSourceError{EntityType: feed.SourceChannels, Err: fmt.Errorf("load channel %d: %w", order.ChannelID, err)}
	}

	rec, err = t.normalizer.Normalize(order, channel)
	if err != nil {
		return nil, &feed.DataSourceError{EntityType: feed.EntityOrders, Err: err}
	}
	return rec, nil
}
