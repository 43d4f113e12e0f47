package commerce

import (
	"context"
	"time"

	"github.com/erp/clerkfeed/internal/domain/shared/valueobject"
)

// OrderItem is a single line of an order
type OrderItem struct {
	ID          uint64
	ProductID   uint64
	VariantID   uint64
	ProductName string
	Quantity    int
	UnitPrice   valueobject.Money
	Total       valueobject.Money
}

// Order is a placed order as read from the store
type Order struct {
	ID                  uint64
	Number              string
	ChannelID           uint64
	CustomerID          uint64
	CustomerEmail       string
	Items               []OrderItem
	Total               valueobject.Money
	State               string
	PaymentState        string
	ShippingState       string
	CheckoutCompletedAt *time.Time
	CreatedAt           time.Time
}

// IsCheckoutCompleted reports whether the customer finished checkout.
// Carts and abandoned checkouts are never exposed in the feed.
func (o *Order) IsCheckoutCompleted() bool {
	return o.CheckoutCompletedAt != nil
}

// IsGuest reports whether the order was placed without a customer account.
func (o *Order) IsGuest() bool {
	return o.CustomerID == 0
}

// OrderRepository loads single orders for sales tracking.
// FindByID returns shared.ErrNotFound for unknown orders.
type OrderRepository interface {
	FindByID(ctx context.Context, id uint64) (*Order, error)
}
