package feed

import (
	"errors"
	"testing"

	"github.com/erp/clerkfeed/internal/domain/commerce"
	"github.com/erp/clerkfeed/internal/domain/feed"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewQueryBuilder(t *testing.T) {
	for _, size := range []int{0, -5, MaxBatchSize + 1} {
		_, err := NewQueryBuilder(size)
		var cfgErr *feed.ConfigurationError
		assert.True(t, errors.As(err, &cfgErr), "batch size %d", size)
	}

	b, err := NewQueryBuilder(DefaultBatchSize)
	require.NoError(t, err)
	assert.Equal(t, 100, b.BatchSize())
}

func TestQueryBuilder_Build(t *testing.T) {
	b, err := NewQueryBuilder(50)
	require.NoError(t, err)
	channel := &commerce.Channel{ID: 3, Code: "WEB_EU"}

	t.Run("orders are channel bound and checkout completed", func(t *testing.T) {
		spec, err := b.Build(feed.EntityOrders, channel, feed.Cursor{})
		require.NoError(t, err)

		assert.Equal(t, feed.EntityOrders, spec.EntityType)
		assert.Equal(t, uint64(3), spec.ChannelID)
		assert.Equal(t, feed.OrderByIDAsc, spec.OrderBy)
		assert.Equal(t, 50, spec.Limit)
		assert.True(t, spec.After.IsZero())
		assert.Contains(t, spec.Predicates, feed.Predicate{Kind: feed.PredicateChannelEquals, ChannelID: 3})
		assert.True(t, spec.Has(feed.PredicateCheckoutCompleted))
	})

	t.Run("products are channel bound and enabled", func(t *testing.T) {
		spec, err := b.Build(feed.EntityProducts, channel, feed.Cursor{})
		require.NoError(t, err)
		assert.Contains(t, spec.Predicates, feed.Predicate{Kind: feed.PredicateChannelEquals, ChannelID: 3})
		assert.True(t, spec.Has(feed.PredicateEnabled))
		assert.False(t, spec.Has(feed.PredicateCheckoutCompleted))
	})

	t.Run("customers require a completed order in the channel", func(t *testing.T) {
		spec, err := b.Build(feed.EntityCustomers, channel, feed.Cursor{})
		require.NoError(t, err)
		assert.Equal(t, []feed.Predicate{{Kind: feed.PredicateHasCompletedOrderInChannel, ChannelID: 3}}, spec.Predicates)
	})

	t.Run("cursor is carried through", func(t *testing.T) {
		spec, err := b.Build(feed.EntityOrders, channel, feed.CursorAfter(120))
		require.NoError(t, err)
		assert.Equal(t, uint64(120), spec.After.AfterID())
	})

	t.Run("unknown entity type", func(t *testing.T) {
		_, err := b.Build(feed.EntityType("wishlists"), channel, feed.Cursor{})
		var cfgErr *feed.ConfigurationError
		assert.True(t, errors.As(err, &cfgErr))
	})

	t.Run("channel is required", func(t *testing.T) {
		_, err := b.Build(feed.EntityOrders, nil, feed.Cursor{})
		assert.Error(t, err)
	})

	t.Run("specs for different channels never share predicates", func(t *testing.T) {
		a, err := b.Build(feed.EntityOrders, &commerce.Channel{ID: 1}, feed.Cursor{})
		require.NoError(t, err)
		c, err := b.Build(feed.EntityOrders, &commerce.Channel{ID: 2}, feed.Cursor{})
		require.NoError(t, err)
		assert.NotEqual(t, a.Predicates, c.Predicates)
	})
}
