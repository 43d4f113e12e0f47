package persistence

import (
	"testing"
	"time"

	"github.com/erp/clerkfeed/internal/infrastructure/persistence/models"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// setupFeedTestDB opens an in-memory SQLite database with the store schema.
func setupFeedTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	// a second pooled connection would see an empty in-memory database
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, db.AutoMigrate(models.AllModels()...))
	return db
}

type storeSeed struct {
	db       *gorm.DB
	t        *testing.T
	channels map[string]*models.ChannelModel
}

func newStoreSeed(t *testing.T, db *gorm.DB) *storeSeed {
	s := &storeSeed{db: db, t: t, channels: map[string]*models.ChannelModel{}}
	s.channel("WEB", "shop.example.com", "EUR")
	s.channel("B2B", "b2b.example.com", "USD")
	return s
}

func (s *storeSeed) channel(code, host, currency string) *models.ChannelModel {
	ch := &models.ChannelModel{Code: code, Name: code, Hostname: host, DefaultLocale: "en_US", BaseCurrency: currency, Enabled: true}
	require.NoError(s.t, s.db.Create(ch).Error)
	s.channels[code] = ch
	return ch
}

func (s *storeSeed) customer(email string) *models.CustomerModel {
	c := &models.CustomerModel{Email: email, FirstName: "First", LastName: "Last", Gender: "f"}
	require.NoError(s.t, s.db.Create(c).Error)
	return c
}

func (s *storeSeed) order(channel string, customer *models.CustomerModel, completed bool, productIDs ...uint64) *models.OrderModel {
	ch := s.channels[channel]
	o := &models.OrderModel{
		Number:       "N",
		ChannelID:    ch.ID,
		CurrencyCode: ch.BaseCurrency,
		Total:        decimal.RequireFromString("12.50"),
		State:        "new",
	}
	if customer != nil {
		o.CustomerID = &customer.ID
		o.CustomerEmail = customer.Email
	}
	if completed {
		at := time.Unix(1_700_000_000, 0).UTC()
		o.CheckoutCompletedAt = &at
	} else {
		o.State = "cart"
	}
	for _, pid := range productIDs {
		o.Items = append(o.Items, models.OrderItemModel{
			ProductID: pid,
			Quantity:  1,
			UnitPrice: decimal.RequireFromString("6.25"),
			Total:     decimal.RequireFromString("6.25"),
		})
	}
	require.NoError(s.t, s.db.Create(o).Error)
	return o
}

func (s *storeSeed) product(code string, enabled bool, channels ...string) *models.ProductModel {
	p := &models.ProductModel{Code: code, Name: code, Slug: code, Enabled: enabled}
	for _, c := range channels {
		ch := s.channels[c]
		p.Channels = append(p.Channels, *ch)
		p.Pricings = append(p.Pricings, models.ChannelPricingModel{
			ChannelID:    ch.ID,
			CurrencyCode: ch.BaseCurrency,
			Price:        decimal.RequireFromString("9.99"),
		})
	}
	require.NoError(s.t, s.db.Create(p).Error)
	return p
}
