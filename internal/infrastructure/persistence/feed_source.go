package persistence

import (
	"context"
	"fmt"

	"github.com/erp/clerkfeed/internal/domain/commerce"
	"github.com/erp/clerkfeed/internal/domain/feed"
	"github.com/erp/clerkfeed/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// predicateScope translates one feed predicate into a WHERE clause on table.
type predicateScope func(db *gorm.DB, table string, p feed.Predicate) *gorm.DB

func channelColumnEquals(db *gorm.DB, table string, p feed.Predicate) *gorm.DB {
	return db.Where(table+".channel_id = ?", p.ChannelID)
}

func checkoutCompleted(db *gorm.DB, table string, _ feed.Predicate) *gorm.DB {
	return db.Where(table + ".checkout_completed_at IS NOT NULL")
}

func enabled(db *gorm.DB, table string, _ feed.Predicate) *gorm.DB {
	return db.Where(table+".enabled = ?", true)
}

func assignedToChannel(db *gorm.DB, table string, p feed.Predicate) *gorm.DB {
	return db.Where(
		"EXISTS (SELECT 1 FROM product_channels pc WHERE pc.product_id = "+table+".id AND pc.channel_id = ?)",
		p.ChannelID,
	)
}

func hasCompletedOrderInChannel(db *gorm.DB, table string, p feed.Predicate) *gorm.DB {
	return db.Where(
		"EXISTS (SELECT 1 FROM orders o WHERE o.customer_id = "+table+".id AND o.channel_id = ? AND o.checkout_completed_at IS NOT NULL)",
		p.ChannelID,
	)
}

// keysetQuery describes how one entity type is read.
type keysetQuery[M any, T any] struct {
	entityType feed.EntityType
	table      string
	scopes     map[feed.PredicateKind]predicateScope
	preload    func(db *gorm.DB) *gorm.DB
	id         func(m *M) uint64
	toDomain   func(m *M) (*T, error)
}

// fetch runs one keyset page: every predicate, id > cursor, id ascending, limit.
// Associations are preloaded in batch so conversion never issues further queries.
func (q keysetQuery[M, T]) fetch(ctx context.Context, db *gorm.DB, spec feed.QuerySpec) (feed.Page[T], error) {
	if spec.EntityType != q.entityType {
		return feed.Page[T]{}, fmt.Errorf("%s source cannot serve %s query", q.entityType, spec.EntityType)
	}
	if spec.OrderBy != feed.OrderByIDAsc {
		return feed.Page[T]{}, fmt.Errorf("unsupported ordering %q", spec.OrderBy)
	}
	if spec.Limit <= 0 {
		return feed.Page[T]{}, fmt.Errorf("invalid page limit %d", spec.Limit)
	}

	tx := db.WithContext(ctx).Model(new(M))
	for _, p := range spec.Predicates {
		scope, ok := q.scopes[p.Kind]
		if !ok {
			return feed.Page[T]{}, fmt.Errorf("%s source does not support predicate %s", q.entityType, p.Kind)
		}
		tx = scope(tx, q.table, p)
	}
	tx = tx.Where(q.table+".id > ?", spec.After.AfterID()).
		Order(q.table + ".id ASC").
		Limit(spec.Limit)
	if q.preload != nil {
		tx = q.preload(tx)
	}

	var rows []M
	if err := tx.Find(&rows).Error; err != nil {
		return feed.Page[T]{}, fmt.Errorf("query %s: %w", q.table, err)
	}

	page := feed.Page[T]{Items: make([]T, 0, len(rows)), Next: spec.After}
	for i := range rows {
		entity, err := q.toDomain(&rows[i])
		if err != nil {
			return feed.Page[T]{}, err
		}
		page.Items = append(page.Items, *entity)
		page.Next = feed.CursorAfter(q.id(&rows[i]))
	}
	return page, nil
}

// GormOrderSource pages completed orders of a channel.
type GormOrderSource struct {
	db    *gorm.DB
	query keysetQuery[models.OrderModel, commerce.Order]
}

// NewGormOrderSource creates a new GormOrderSource
func NewGormOrderSource(db *gorm.DB) *GormOrderSource {
	return &GormOrderSource{
		db: db,
		query: keysetQuery[models.OrderModel, commerce.Order]{
			entityType: feed.EntityOrders,
			table:      "orders",
			scopes: map[feed.PredicateKind]predicateScope{
				feed.PredicateChannelEquals:     channelColumnEquals,
				feed.PredicateCheckoutCompleted: checkoutCompleted,
			},
			preload: func(db *gorm.DB) *gorm.DB {
				return db.Preload("Items", orderItemsByID)
			},
			id:       func(m *models.OrderModel) uint64 { return m.ID },
			toDomain: (*models.OrderModel).ToDomain,
		},
	}
}

// FetchPage implements feed.PageFetcher for orders
func (s *GormOrderSource) FetchPage(ctx context.Context, spec feed.QuerySpec) (feed.Page[commerce.Order], error) {
	return s.query.fetch(ctx, s.db, spec)
}

// GormProductSource pages enabled products assigned to a channel.
type GormProductSource struct {
	db    *gorm.DB
	query keysetQuery[models.ProductModel, commerce.Product]
}

// NewGormProductSource creates a new GormProductSource
func NewGormProductSource(db *gorm.DB) *GormProductSource {
	return &GormProductSource{
		db: db,
		query: keysetQuery[models.ProductModel, commerce.Product]{
			entityType: feed.EntityProducts,
			table:      "products",
			scopes: map[feed.PredicateKind]predicateScope{
				feed.PredicateChannelEquals: assignedToChannel,
				feed.PredicateEnabled:       enabled,
			},
			preload: func(db *gorm.DB) *gorm.DB {
				return db.
					Preload("Taxons", func(db *gorm.DB) *gorm.DB { return db.Order("taxons.id ASC") }).
					Preload("Pricings")
			},
			id:       func(m *models.ProductModel) uint64 { return m.ID },
			toDomain: (*models.ProductModel).ToDomain,
		},
	}
}

// FetchPage implements feed.PageFetcher for products
func (s *GormProductSource) FetchPage(ctx context.Context, spec feed.QuerySpec) (feed.Page[commerce.Product], error) {
	return s.query.fetch(ctx, s.db, spec)
}

// GormCustomerSource pages customers with a completed order in a channel.
type GormCustomerSource struct {
	db    *gorm.DB
	query keysetQuery[models.CustomerModel, commerce.Customer]
}

// NewGormCustomerSource creates a new GormCustomerSource
func NewGormCustomerSource(db *gorm.DB) *GormCustomerSource {
	return &GormCustomerSource{
		db: db,
		query: keysetQuery[models.CustomerModel, commerce.Customer]{
			entityType: feed.EntityCustomers,
			table:      "customers",
			scopes: map[feed.PredicateKind]predicateScope{
				feed.PredicateHasCompletedOrderInChannel: hasCompletedOrderInChannel,
			},
			id: func(m *models.CustomerModel) uint64 { return m.ID },
			toDomain: func(m *models.CustomerModel) (*commerce.Customer, error) {
				return m.ToDomain(), nil
			},
		},
	}
}

// FetchPage implements feed.PageFetcher for customers
func (s *GormCustomerSource) FetchPage(ctx context.Context, spec feed.QuerySpec) (feed.Page[commerce.Customer], error) {
	return s.query.fetch(ctx, s.db, spec)
}
