package feed

import (
	"context"
	"fmt"

	"github.com/erp/clerkfeed/internal/domain/commerce"
	"github.com/erp/clerkfeed/internal/domain/feed"
	"github.com/erp/clerkfeed/internal/infrastructure/telemetry"
)

// Stream is a registered entity type: a page fetcher bound to the normalizer for
// the same source type. Build one with NewStream.
type Stream interface {
	EntityType() feed.EntityType
	validate() error
	collect(ctx context.Context, builder *QueryBuilder, channel *commerce.Channel, metrics *telemetry.FeedMetrics) ([]feed.Record, error)
}

type stream[T any] struct {
	entityType feed.EntityType
	fetcher    feed.PageFetcher[T]
	normalizer Normalizer[T]
}

// NewStream binds fetcher and normalizer for entityType. The source type T is
// checked at compile time, so no record is ever dispatched to the wrong normalizer.
func NewStream[T any](entityType feed.EntityType, fetcher feed.PageFetcher[T], normalizer Normalizer[T]) Stream {
	return &stream[T]{
		entityType: entityType,
		fetcher:    fetcher,
		normalizer: normalizer,
	}
}

func (s *stream[T]) EntityType() feed.EntityType {
	return s.entityType
}

func (s *stream[T]) validate() error {
	if !s.entityType.IsValid() {
		return &feed.ConfigurationError{Field: "entity_type", Reason: fmt.Sprintf("unknown entity type %q", string(s.entityType))}
	}
	if s.fetcher == nil {
		return &feed.ConfigurationError{Field: "entity_type", Reason: fmt.Sprintf("%s has no data source", s.entityType)}
	}
	if s.normalizer == nil {
		return &feed.ConfigurationError{Field: "entity_type", Reason: fmt.Sprintf("%s has no normalizer", s.entityType)}
	}
	return nil
}

// collect pages through the data source until a short page, normalizing each
// entity as it arrives. Any failure discards everything collected so far.
func (s *stream[T]) collect(ctx context.Context, builder *QueryBuilder, channel *commerce.Channel, metrics *telemetry.FeedMetrics) ([]feed.Record, error) {
	records := make([]feed.Record, 0)
	var cursor feed.Cursor

	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		spec, err := builder.Build(s.entityType, channel, cursor)
		if err != nil {
			return nil, err
		}

		page, err := s.fetcher.FetchPage(ctx, spec)
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return nil, ctxErr
			}
			return nil, &feed.DataSourceError{EntityType: s.entityType, Err: err}
		}
		if len(page.Items) > spec.Limit {
			return nil, &feed.DataSourceError{
				EntityType: s.entityType,
				Err:        fmt.Errorf("page returned %d items, limit is %d", len(page.Items), spec.Limit),
			}
		}

		for i := range page.Items {
			rec, err := s.normalizer.Normalize(&page.Items[i], channel)
			if err != nil {
				return nil, &feed.DataSourceError{EntityType: s.entityType, Err: err}
			}
			records = append(records, rec)
		}
		metrics.ObservePage(s.entityType.String(), len(page.Items))

		if len(page.Items) < spec.Limit {
			return records, nil
		}
		if page.Next.AfterID() <= cursor.AfterID() {
			return nil, &feed.DataSourceError{
				EntityType: s.entityType,
				Err:        fmt.Errorf("cursor did not advance past id %d", cursor.AfterID()),
			}
		}
		cursor = page.Next
	}
}
