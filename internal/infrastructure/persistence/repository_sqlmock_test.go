package persistence

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/erp/clerkfeed/internal/domain/feed"
	"github.com/erp/clerkfeed/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// newMockGormDB creates a GORM postgres connection backed by sqlmock
func newMockGormDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock, *sql.DB) {
	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)

	dialector := postgres.New(postgres.Config{
		Conn:       mockDB,
		DriverName: "postgres",
	})

	gormDB, err := gorm.Open(dialector, &gorm.Config{
		SkipDefaultTransaction: true,
	})
	require.NoError(t, err)

	return gormDB, mock, mockDB
}

func TestGormChannelRepository_FindByID_SQL(t *testing.T) {
	t.Run("finds existing channel", func(t *testing.T) {
		db, mock, mockDB := newMockGormDB(t)
		defer mockDB.Close()

		rows := sqlmock.NewRows([]string{"id", "code", "name", "hostname", "default_locale", "base_currency", "enabled"}).
			AddRow(3, "WEB", "Web Store", "shop.example.com", "en_US", "EUR", true)
		mock.ExpectQuery(`SELECT \* FROM "channels" WHERE id = \$1 ORDER BY .* LIMIT .*`).
			WithArgs(3, 1).
			WillReturnRows(rows)

		ch, err := NewGormChannelRepository(db).FindByID(context.Background(), 3)
		require.NoError(t, err)
		assert.Equal(t, uint64(3), ch.ID)
		assert.Equal(t, "WEB", ch.Code)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("maps missing row to not found", func(t *testing.T) {
		db, mock, mockDB := newMockGormDB(t)
		defer mockDB.Close()

		mock.ExpectQuery(`SELECT \* FROM "channels" WHERE id = \$1 ORDER BY .* LIMIT .*`).
			WithArgs(99, 1).
			WillReturnRows(sqlmock.NewRows([]string{"id"}))

		_, err := NewGormChannelRepository(db).FindByID(context.Background(), 99)
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})

	t.Run("passes through driver errors", func(t *testing.T) {
		db, mock, mockDB := newMockGormDB(t)
		defer mockDB.Close()

		mock.ExpectQuery(`SELECT \* FROM "channels"`).
			WillReturnError(errors.New("connection refused"))

		_, err := NewGormChannelRepository(db).FindByID(context.Background(), 1)
		require.Error(t, err)
		assert.NotErrorIs(t, err, shared.ErrNotFound)
	})
}

func TestGormOrderSource_QueryShape(t *testing.T) {
	t.Run("applies channel, completion, keyset and limit", func(t *testing.T) {
		db, mock, mockDB := newMockGormDB(t)
		defer mockDB.Close()

		mock.ExpectQuery(`SELECT \* FROM "orders" WHERE orders\.channel_id = \$1 AND orders\.checkout_completed_at IS NOT NULL AND orders\.id > \$2 ORDER BY orders\.id ASC LIMIT \$3`).
			WithArgs(7, 40, 100).
			WillReturnRows(sqlmock.NewRows([]string{"id"}))

		page, err := NewGormOrderSource(db).FetchPage(context.Background(), orderSpec(7, 100, feed.CursorAfter(40)))
		require.NoError(t, err)
		assert.Empty(t, page.Items)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("preloads items in one batch query", func(t *testing.T) {
		db, mock, mockDB := newMockGormDB(t)
		defer mockDB.Close()

		completed := time.Unix(1_700_000_000, 0)
		mock.ExpectQuery(`SELECT \* FROM "orders" WHERE .*`).
			WillReturnRows(sqlmock.NewRows([]string{"id", "channel_id", "currency_code", "total", "checkout_completed_at"}).
				AddRow(1, 7, "EUR", "10.00", completed).
				AddRow(2, 7, "EUR", "5.00", completed))
		mock.ExpectQuery(`SELECT \* FROM "order_items" WHERE .*order_id.* IN \(\$1,\$2\) ORDER BY order_items\.id ASC`).
			WillReturnRows(sqlmock.NewRows([]string{"id", "order_id", "product_id", "quantity", "unit_price", "total"}).
				AddRow(10, 1, 100, 1, "10.00", "10.00").
				AddRow(11, 2, 101, 1, "5.00", "5.00"))

		page, err := NewGormOrderSource(db).FetchPage(context.Background(), orderSpec(7, 100, feed.Cursor{}))
		require.NoError(t, err)
		require.Len(t, page.Items, 2)
		assert.Equal(t, uint64(100), page.Items[0].Items[0].ProductID)
		assert.Equal(t, uint64(2), page.Next.AfterID())
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("wraps query errors", func(t *testing.T) {
		db, mock, mockDB := newMockGormDB(t)
		defer mockDB.Close()

		mock.ExpectQuery(`SELECT \* FROM "orders"`).WillReturnError(errors.New("canceling statement due to statement timeout"))

		_, err := NewGormOrderSource(db).FetchPage(context.Background(), orderSpec(7, 100, feed.Cursor{}))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "query orders")
	})
}

func TestGormProductSource_QueryShape(t *testing.T) {
	db, mock, mockDB := newMockGormDB(t)
	defer mockDB.Close()

	mock.ExpectQuery(`SELECT \* FROM "products" WHERE EXISTS \(SELECT 1 FROM product_channels pc WHERE pc\.product_id = products\.id AND pc\.channel_id = \$1\) AND products\.enabled = \$2 AND products\.id > \$3 ORDER BY products\.id ASC LIMIT \$4`).
		WithArgs(2, true, 0, 50).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err := NewGormProductSource(db).FetchPage(context.Background(), spec(feed.EntityProducts, 2, 50, feed.Cursor{},
		feed.Predicate{Kind: feed.PredicateChannelEquals, ChannelID: 2},
		feed.Predicate{Kind: feed.PredicateEnabled},
	))
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
