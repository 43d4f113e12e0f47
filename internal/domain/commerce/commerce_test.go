package commerce

import (
	"testing"
	"time"

	"github.com/erp/clerkfeed/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOrder_IsCheckoutCompleted(t *testing.T) {
	o := &Order{ID: 1}
	assert.False(t, o.IsCheckoutCompleted())

	now := time.Now()
	o.CheckoutCompletedAt = &now
	assert.True(t, o.IsCheckoutCompleted())
	assert.True(t, o.IsGuest())
}

func TestProduct_PricingFor(t *testing.T) {
	price, err := valueobject.NewMoney(decimal.NewFromInt(10), valueobject.EUR)
	require.NoError(t, err)

	p := &Product{Pricings: []ChannelPricing{{ChannelID: 2, Price: price}}}
	require.NotNil(t, p.PricingFor(2))
	assert.True(t, p.PricingFor(2).Price.Equals(price))
	assert.Nil(t, p.PricingFor(3))
}

func TestProduct_InStock(t *testing.T) {
	assert.True(t, (&Product{Tracked: false}).InStock())
	assert.False(t, (&Product{Tracked: true, OnHand: 0}).InStock())
	assert.True(t, (&Product{Tracked: true, OnHand: 3}).InStock())
}

func TestCustomer_FullName(t *testing.T) {
	assert.Equal(t, "Ada Lovelace", (&Customer{FirstName: "Ada", LastName: "Lovelace"}).FullName())
	assert.Equal(t, "Ada", (&Customer{FirstName: "Ada"}).FullName())
	assert.Equal(t, "Lovelace", (&Customer{LastName: "Lovelace"}).FullName())
	assert.Equal(t, "", (&Customer{}).FullName())
}

func TestChannel_BaseURL(t *testing.T) {
	assert.Equal(t, "https://shop.example.com", (&Channel{Hostname: "shop.example.com"}).BaseURL())
	assert.Equal(t, "", (&Channel{}).BaseURL())
}
