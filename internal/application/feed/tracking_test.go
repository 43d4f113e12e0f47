package feed

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/erp/clerkfeed/internal/domain/commerce"
	"github.com/erp/clerkfeed/internal/domain/feed"
	"github.com/erp/clerkfeed/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockOrderRepository is a mock implementation of commerce.OrderRepository
type MockOrderRepository struct {
	mock.Mock
}

func (m *MockOrderRepository) FindByID(ctx context.Context, id uint64) (*commerce.Order, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*commerce.Order), args.Error(1)
}

func newTracker(t *testing.T) (*SalesTracker, *MockOrderRepository, *MockChannelRepository, *SignatureValidator) {
	t.Helper()
	v := newTestValidator(t)
	orders := new(MockOrderRepository)
	channels := new(MockChannelRepository)
	tracker, err := NewSalesTracker(v, orders, channels, OrderNormalizer{})
	require.NoError(t, err)
	return tracker, orders, channels, v
}

func signed(v *SignatureValidator) feed.Request {
	now := time.Unix(1_700_000_000, 0)
	return feed.Request{Salt: "pixel", Signature: v.Sign("pixel", now), ArrivedAt: now}
}

func TestSalesTracker_TrackOrder(t *testing.T) {
	ctx := context.Background()

	t.Run("normalizes with the order's channel", func(t *testing.T) {
		tracker, orders, channels, v := newTracker(t)
		order := completedOrder(t, 77)
		order.ChannelID = 4
		orders.On("FindByID", mock.Anything, uint64(77)).Return(order, nil)
		channels.On("FindByID", mock.Anything, uint64(4)).Return(&commerce.Channel{ID: 4}, nil)

		rec, err := tracker.TrackOrder(ctx, 77, signed(v))
		require.NoError(t, err)
		assert.Equal(t, int64(77), rec.RecordID())
		channels.AssertExpectations(t)
	})

	t.Run("bad signature", func(t *testing.T) {
		tracker, orders, _, v := newTracker(t)
		req := signed(v)
		req.Signature = "nope"

		_, err := tracker.TrackOrder(ctx, 77, req)
		assert.ErrorIs(t, err, feed.ErrAccessDenied)
		orders.AssertNotCalled(t, "FindByID", mock.Anything, mock.Anything)
	})

	t.Run("unknown order", func(t *testing.T) {
		tracker, orders, _, v := newTracker(t)
		orders.On("FindByID", mock.Anything, uint64(5)).Return(nil, shared.ErrNotFound)

		_, err := tracker.TrackOrder(ctx, 5, signed(v))
		assert.ErrorIs(t, err, feed.ErrOrderNotFound)
	})

	t.Run("cart is reported as not found", func(t *testing.T) {
		tracker, orders, _, v := newTracker(t)
		cart := completedOrder(t, 6)
		cart.CheckoutCompletedAt = nil
		orders.On("FindByID", mock.Anything, uint64(6)).Return(cart, nil)

		_, err := tracker.TrackOrder(ctx, 6, signed(v))
		assert.ErrorIs(t, err, feed.ErrOrderNotFound)
	})

	t.Run("repository failure is a data source error", func(t *testing.T) {
		tracker, orders, _, v := newTracker(t)
		orders.On("FindByID", mock.Anything, uint64(8)).Return(nil, errors.New("timeout"))

		_, err := tracker.TrackOrder(ctx, 8, signed(v))
		var dse *feed.DataSourceError
		assert.True(t, errors.As(err, &dse))
	})

	t.Run("channel lookup failure is a data source error", func(t *testing.T) {
		tracker, orders, channels, v := newTracker(t)
		order := completedOrder(t, 9)
		order.ChannelID = 4
		orders.On("FindByID", mock.Anything, uint64(9)).Return(order, nil)
		channels.On("FindByID", mock.Anything, uint64(4)).Return(nil, errors.New("db down"))

		_, err := tracker.TrackOrder(ctx, 9, signed(v))
		var dse *feed.DataSourceError
		require.ErrorAs(t, err, &dse)
		assert.Equal(t, feed.SourceChannels, dse.EntityType)
		assert.NotErrorIs(t, err, feed.ErrChannelNotFound)
	})
}

func TestNewSalesTracker_RequiresCollaborators(t *testing.T) {
	_, err := NewSalesTracker(nil, nil, nil, nil)
	var cfgErr *feed.ConfigurationError
	assert.True(t, errors.As(err, &cfgErr))
}
