package feed

import (
	"fmt"

	"github.com/erp/clerkfeed/internal/domain/commerce"
	"github.com/erp/clerkfeed/internal/domain/feed"
)

const (
	DefaultBatchSize = 100
	MaxBatchSize     = 1000
)

// QueryBuilder produces channel-scoped, paginated query specs per entity type.
type QueryBuilder struct {
	batchSize int
}

// NewQueryBuilder creates a builder emitting pages of batchSize rows.
func NewQueryBuilder(batchSize int) (*QueryBuilder, error) {
	if batchSize <= 0 || batchSize > MaxBatchSize {
		return nil, &feed.ConfigurationError{
			Field:  "feed.batch_size",
			Reason: fmt.Sprintf("must be between 1 and %d, got %d", MaxBatchSize, batchSize),
		}
	}
	return &QueryBuilder{batchSize: batchSize}, nil
}

// BatchSize returns the configured page size
func (b *QueryBuilder) BatchSize() int {
	return b.batchSize
}

// Build returns the spec for the page following after. Every spec is bound to
// the channel; orders additionally require a completed checkout.
func (b *QueryBuilder) Build(entityType feed.EntityType, channel *commerce.Channel, after feed.Cursor) (feed.QuerySpec, error) {
	if channel == nil {
		return feed.QuerySpec{}, fmt.Errorf("build %s query: channel is required", entityType)
	}

	var predicates []feed.Predicate
	switch entityType {
	case feed.EntityOrders:
		predicates = []feed.Predicate{
			{Kind: feed.PredicateChannelEquals, ChannelID: channel.ID},
			{Kind: feed.PredicateCheckoutCompleted},
		}
	case feed.EntityProducts:
		predicates = []feed.Predicate{
			{Kind: feed.PredicateChannelEquals, ChannelID: channel.ID},
			{Kind: feed.PredicateEnabled},
		}
	case feed.EntityCustomers:
		predicates = []feed.Predicate{
			{Kind: feed.PredicateHasCompletedOrderInChannel, ChannelID: channel.ID},
		}
	default:
		return feed.QuerySpec{}, &feed.ConfigurationError{
			Field:  "entity_type",
			Reason: fmt.Sprintf("no query defined for %q", string(entityType)),
		}
	}

	return feed.QuerySpec{
		EntityType: entityType,
		ChannelID:  channel.ID,
		Predicates: predicates,
		OrderBy:    feed.OrderByIDAsc,
		Limit:      b.batchSize,
		After:      after,
	}, nil
}
