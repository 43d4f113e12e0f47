package feed

// Record is a normalized, serialization-ready feed entry.
type Record interface {
	RecordID() int64
}

// LineItemRecord is an order line as it appears inside an OrderRecord.
type LineItemRecord struct {
	ID       int64 `json:"id"`
	Variant  int64 `json:"variant,omitempty"`
	Quantity int   `json:"quantity"`
	Price    int64 `json:"price"`
	Total    int64 `json:"total"`
}

// OrderRecord is the feed representation of a completed order.
type OrderRecord struct {
	ID            int64            `json:"id"`
	Number        string           `json:"number,omitempty"`
	Customer      int64            `json:"customer,omitempty"`
	Email         string           `json:"email,omitempty"`
	Products      []LineItemRecord `json:"products"`
	Time          int64            `json:"time"`
	Currency      string           `json:"currency"`
	Total         int64            `json:"total"`
	State         string           `json:"state,omitempty"`
	PaymentState  string           `json:"payment_state,omitempty"`
	ShippingState string           `json:"shipping_state,omitempty"`
}

func (r *OrderRecord) RecordID() int64 { return r.ID }

// ProductRecord is the feed representation of a catalog product within a channel.
type ProductRecord struct {
	ID          int64   `json:"id"`
	SKU         string  `json:"sku"`
	Name        string  `json:"name"`
	Description string  `json:"description,omitempty"`
	URL         string  `json:"url,omitempty"`
	Image       string  `json:"image,omitempty"`
	Price       *int64  `json:"price,omitempty"`
	ListPrice   *int64  `json:"list_price,omitempty"`
	Currency    string  `json:"currency,omitempty"`
	Categories  []int64 `json:"categories"`
	InStock     bool    `json:"in_stock"`
	CreatedAt   int64   `json:"created_at"`
}

func (r *ProductRecord) RecordID() int64 { return r.ID }

// CustomerRecord is the feed representation of a customer.
type CustomerRecord struct {
	ID         int64  `json:"id"`
	Email      string `json:"email"`
	Name       string `json:"name,omitempty"`
	FirstName  string `json:"first_name,omitempty"`
	LastName   string `json:"last_name,omitempty"`
	Gender     string `json:"gender,omitempty"`
	Subscribed bool   `json:"subscribed"`
	CreatedAt  int64  `json:"created_at"`
}

func (r *CustomerRecord) RecordID() int64 { return r.ID }
