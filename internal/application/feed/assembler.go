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
	"go.uber.org/zap"
)

// Payload maps entity type names to their records. Every requested type is
// present; a type with no eligible rows maps to an empty, non-nil slice.
type Payload map[string][]feed.Record

// Assembler validates a feed request and builds the channel-scoped payload.
// It is immutable after construction and safe for concurrent use.
type Assembler struct {
	validator *SignatureValidator
	builder   *QueryBuilder
	channels  commerce.ChannelRepository
	streams   map[feed.EntityType]Stream
	order     []feed.EntityType
	logger    *zap.Logger
	metrics   *telemetry.FeedMetrics
}

// NewAssembler wires the registered streams. Registration order is the default
// entity type selection. Invalid or duplicate registrations fail here.
func NewAssembler(
	validator *SignatureValidator,
	builder *QueryBuilder,
	channels commerce.ChannelRepository,
	streams ...Stream,
) (*Assembler, error) {
	if validator == nil || builder == nil || channels == nil {
		return nil, &feed.ConfigurationError{Field: "assembler", Reason: "validator, query builder and channel repository are required"}
	}
	if len(streams) == 0 {
		return nil, &feed.ConfigurationError{Field: "feed.entity_types", Reason: "at least one entity type must be registered"}
	}

	a := &Assembler{
		validator: validator,
		builder:   builder,
		channels:  channels,
		streams:   make(map[feed.EntityType]Stream, len(streams)),
		order:     make([]feed.EntityType, 0, len(streams)),
		logger:    zap.NewNop(),
	}
	for _, s := range streams {
		if s == nil {
			return nil, &feed.ConfigurationError{Field: "feed.entity_types", Reason: "nil stream"}
		}
		if err := s.validate(); err != nil {
			return nil, err
		}
		if _, dup := a.streams[s.EntityType()]; dup {
			return nil, &feed.ConfigurationError{
				Field:  "feed.entity_types",
				Reason: fmt.Sprintf("%s registered twice", s.EntityType()),
			}
		}
		a.streams[s.EntityType()] = s
		a.order = append(a.order, s.EntityType())
	}
	return a, nil
}

// SetLogger sets the logger used for page-level debug output.
func (a *Assembler) SetLogger(logger *zap.Logger) {
	if logger != nil {
		a.logger = logger
	}
}

// SetMetrics sets the metrics sink.
func (a *Assembler) SetMetrics(m *telemetry.FeedMetrics) {
	a.metrics = m
}

// EntityTypes returns the registered entity types in registration order.
func (a *Assembler) EntityTypes() []feed.EntityType {
	return append([]feed.EntityType(nil), a.order...)
}

// Assemble runs one feed request. The signature is checked before any data
// access. On any error no payload is returned.
func (a *Assembler) Assemble(ctx context.Context, req feed.Request) (payload Payload, err error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "feed", "assemble",
		telemetry.WithAttribute(telemetry.SpanAttrChannelID, req.ChannelID),
	)
	defer span.End()

	start := time.Now()
	defer func() {
		outcome := outcomeOf(err)
		telemetry.SetAttributes(span, telemetry.SpanAttrOutcome, outcome)
		if outcome == telemetry.OutcomeError {
			telemetry.RecordError(span, err)
		}
		a.metrics.ObserveRequest(outcome, time.Since(start))
	}()

	sess := &session{state: StateUnauthenticated}

	if !a.validator.Validate(req.Salt, req.Signature, req.ArrivedAt) {
		if err := sess.advance(StateDenied); err != nil {
			return nil, err
		}
		return nil, feed.ErrAccessDenied
	}
	if err := sess.advance(StateValidated); err != nil {
		return nil, err
	}

	types, err := a.selectTypes(req.EntityTypes)
	if err != nil {
		return nil, a.fail(sess, err)
	}

	channel, err := a.lookupChannel(ctx, req.ChannelID)
	if err != nil {
		return nil, a.fail(sess, err)
	}

	if err := sess.advance(StateStreaming); err != nil {
		return nil, err
	}

	payload = make(Payload, len(types))
	for _, t := range types {
		records, err := a.streams[t].collect(ctx, a.builder, channel, a.metrics)
		if err != nil {
			return nil, a.fail(sess, err)
		}
		a.logger.Debug("Feed section assembled",
			zap.Uint64("channel_id", channel.ID),
			zap.String("entity_type", t.String()),
			zap.Int("records", len(records)),
		)
		payload[t.String()] = records
	}

	if err := sess.advance(StateComplete); err != nil {
		return nil, err
	}
	return payload, nil
}

func (a *Assembler) selectTypes(requested []feed.EntityType) ([]feed.EntityType, error) {
	if len(requested) == 0 {
		return a.order, nil
	}
	for _, t := range requested {
		if _, ok := a.streams[t]; !ok {
			return nil, fmt.Errorf("entity type %q: %w", string(t), feed.ErrUnknownEntityType)
		}
	}
	return requested, nil
}

func (a *Assembler) lookupChannel(ctx context.Context, id uint64) (*commerce.Channel, error) {
	if id == 0 {
		return nil, feed.ErrChannelNotFound
	}
	channel, err := a.channels.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, fmt.Errorf("channel %d: %w", id, feed.ErrChannelNotFound)
		}
		return nil, &feed.DataSourceError{EntityType: feed.SourceChannels, Err: fmt.Errorf("load channel %d: %w", id, err)}
	}
	return channel, nil
}

func (a *Assembler) fail(sess *session, cause error) error {
	if err := sess.advance(StateFailed); err != nil {
		return errors.Join(cause, err)
	}
	return cause
}

func outcomeOf(err error) string {
	switch {
	case err == nil:
		return telemetry.OutcomeOK
	case errors.Is(err, feed.ErrAccessDenied):
		return telemetry.OutcomeDenied
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return telemetry.OutcomeCanceled
	case errors.Is(err, shared.ErrNotFound),
		errors.Is(err, feed.ErrChannelNotFound),
		errors.Is(err, feed.ErrUnknownEntityType),
		errors.Is(err, feed.ErrOrderNotFound):
		return telemetry.OutcomeNotFound
	default:
		return telemetry.OutcomeError
	}
}
