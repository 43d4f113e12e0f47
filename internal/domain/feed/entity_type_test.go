package feed

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseEntityType(t *testing.T) {
	et, err := ParseEntityType("orders")
	require.NoError(t, err)
	assert.Equal(t, EntityOrders, et)

	_, err = ParseEntityType("carts")
	assert.True(t, errors.Is(err, ErrUnknownEntityType))
}

func TestParseEntityTypes(t *testing.T) {
	t.Run("empty selects all", func(t *testing.T) {
		types, err := ParseEntityTypes(nil)
		require.NoError(t, err)
		assert.Equal(t, AllEntityTypes(), types)
	})

	t.Run("keeps configured order", func(t *testing.T) {
		types, err := ParseEntityTypes([]string{"products", "orders"})
		require.NoError(t, err)
		assert.Equal(t, []EntityType{EntityProducts, EntityOrders}, types)
	})

	t.Run("rejects duplicates", func(t *testing.T) {
		_, err := ParseEntityTypes([]string{"orders", "orders"})
		assert.Error(t, err)
	})

	t.Run("rejects unknown", func(t *testing.T) {
		_, err := ParseEntityTypes([]string{"orders", "wishlists"})
		assert.Error(t, err)
	})
}

func TestDataSourceError(t *testing.T) {
	cause := fmt.Errorf("connection reset")
	err := error(&DataSourceError{EntityType: EntityProducts, Err: cause})

	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "products")

	var dse *DataSourceError
	require.True(t, errors.As(fmt.Errorf("wrap: %w", err), &dse))
	assert.Equal(t, EntityProducts, dse.EntityType)
}

func TestQuerySpec_Has(t *testing.T) {
	q := QuerySpec{Predicates: []Predicate{{Kind: PredicateChannelEquals, ChannelID: 1}}}
	assert.True(t, q.Has(PredicateChannelEquals))
	assert.False(t, q.Has(PredicateEnabled))
}
