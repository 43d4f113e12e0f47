package models

import (
	"fmt"
	"time"

	"github.com/erp/clerkfeed/internal/domain/commerce"
	"github.com/erp/clerkfeed/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

// OrderModel is the persistence model for a store order.
// Carts live in the same table with a NULL checkout_completed_at.
type OrderModel struct {
	BaseModel
	Number              string           `gorm:"type:varchar(255);index"`
	ChannelID           uint64           `gorm:"not null;index:idx_orders_channel_completed,priority:1"`
	CustomerID          *uint64          `gorm:"index"`
	CustomerEmail       string           `gorm:"type:varchar(255)"`
	CurrencyCode        string           `gorm:"type:char(3);not null"`
	Total               decimal.Decimal  `gorm:"type:decimal(18,4);not null;default:0"`
	State               string           `gorm:"type:varchar(32);not null;default:'cart'"`
	PaymentState        string           `gorm:"type:varchar(32)"`
	ShippingState       string           `gorm:"type:varchar(32)"`
	CheckoutCompletedAt *time.Time       `gorm:"index:idx_orders_channel_completed,priority:2"`
	Items               []OrderItemModel `gorm:"foreignKey:OrderID;references:ID"`
}

// TableName returns the table name for GORM
func (OrderModel) TableName() string {
	return "orders"
}

// ToDomain converts the persistence model to a domain Order.
// Items must be preloaded; this never triggers a query.
func (m *OrderModel) ToDomain() (*commerce.Order, error) {
	currency := valueobject.Currency(m.CurrencyCode)
	total, err := valueobject.NewMoney(m.Total, currency)
	if err != nil {
		return nil, fmt.Errorf("order %d total: %w", m.ID, err)
	}
	order := &commerce.Order{
		ID:                  m.ID,
		Number:              m.Number,
		ChannelID:           m.ChannelID,
		CustomerEmail:       m.CustomerEmail,
		Total:               total,
		State:               m.State,
		PaymentState:        m.PaymentState,
		ShippingState:       m.ShippingState,
		CheckoutCompletedAt: m.CheckoutCompletedAt,
		CreatedAt:           m.CreatedAt,
		Items:               make([]commerce.OrderItem, 0, len(m.Items)),
	}
	if m.CustomerID != nil {
		order.CustomerID = *m.CustomerID
	}
	for i := range m.Items {
		item, err := m.Items[i].ToDomain(currency)
		if err != nil {
			return nil, fmt.Errorf("order %d: %w", m.ID, err)
		}
		order.Items = append(order.Items, item)
	}
	return order, nil
}

// OrderItemModel is the persistence model for an order line.
type OrderItemModel struct {
	ID          uint64          `gorm:"primaryKey;autoIncrement"`
	OrderID     uint64          `gorm:"not null;index"`
	ProductID   uint64          `gorm:"not null;index"`
	VariantID   *uint64
	ProductName string          `gorm:"type:varchar(255)"`
	Quantity    int             `gorm:"not null"`
	UnitPrice   decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	Total       decimal.Decimal `gorm:"type:decimal(18,4);not null"`
}

// TableName returns the table name for GORM
func (OrderItemModel) TableName() string {
	return "order_items"
}

// ToDomain converts the persistence model to a domain OrderItem in the order currency.
func (m *OrderItemModel) ToDomain(currency valueobject.Currency) (commerce.OrderItem, error) {
	unit, err := valueobject.NewMoney(m.UnitPrice, currency)
	if err != nil {
		return commerce.OrderItem{}, fmt.Errorf("item %d unit price: %w", m.ID, err)
	}
	total, err := valueobject.NewMoney(m.Total, currency)
	if err != nil {
		return commerce.OrderItem{}, fmt.Errorf("item %d total: %w", m.ID, err)
	}
	item := commerce.OrderItem{
		ID:          m.ID,
		ProductID:   m.ProductID,
		ProductName: m.ProductName,
		Quantity:    m.Quantity,
		UnitPrice:   unit,
		Total:       total,
	}
	if m.VariantID != nil {
		item.VariantID = *m.VariantID
	}
	return item, nil
}
