package feed

import (
	"errors"
	"fmt"
	"math"
	"net/url"
	"strings"

	"github.com/erp/clerkfeed/internal/domain/commerce"
	"github.com/erp/clerkfeed/internal/domain/feed"
	"github.com/erp/clerkfeed/internal/domain/shared/valueobject"
)

// Normalizer converts one source entity into its feed record.
// Implementations must not mutate the entity or load additional data.
type Normalizer[T any] interface {
	Normalize(entity *T, channel *commerce.Channel) (feed.Record, error)
}

// NormalizerFunc adapts a function to Normalizer.
type NormalizerFunc[T any] func(entity *T, channel *commerce.Channel) (feed.Record, error)

// Normalize calls f(entity, channel).
func (f NormalizerFunc[T]) Normalize(entity *T, channel *commerce.Channel) (feed.Record, error) {
	return f(entity, channel)
}

var errNonPositiveID = errors.New("identifier must be positive")

func toFeedID(id uint64) (int64, error) {
	if id == 0 {
		return 0, errNonPositiveID
	}
	if id > math.MaxInt64 {
		return 0, fmt.Errorf("identifier %d overflows int64", id)
	}
	return int64(id), nil
}

func minorUnits(m valueobject.Money) (int64, error) {
	units, err := m.MinorUnits()
	if err != nil {
		return 0, fmt.Errorf("convert %s to minor units: %w", m.Currency(), err)
	}
	return units, nil
}

// OrderNormalizer maps completed orders to OrderRecord.
type OrderNormalizer struct{}

// Normalize implements Normalizer for orders
func (OrderNormalizer) Normalize(o *commerce.Order, _ *commerce.Channel) (feed.Record, error) {
	id, err := toFeedID(o.ID)
	if err != nil {
		return nil, fmt.Errorf("order: %w", err)
	}
	if !o.IsCheckoutCompleted() {
		return nil, fmt.Errorf("order %d: checkout not completed", o.ID)
	}
	total, err := minorUnits(o.Total)
	if err != nil {
		return nil, fmt.Errorf("order %d total: %w", o.ID, err)
	}

	rec := &feed.OrderRecord{
		ID:            id,
		Number:        o.Number,
		Email:         o.CustomerEmail,
		Products:      make([]feed.LineItemRecord, 0, len(o.Items)),
		Time:          o.CheckoutCompletedAt.Unix(),
		Currency:      string(o.Total.Currency()),
		Total:         total,
		State:         o.State,
		PaymentState:  o.PaymentState,
		ShippingState: o.ShippingState,
	}
	if !o.IsGuest() {
		if rec.Customer, err = toFeedID(o.CustomerID); err != nil {
			return nil, fmt.Errorf("order %d customer: %w", o.ID, err)
		}
	}

	for i := range o.Items {
		line, err := normalizeLineItem(&o.Items[i])
		if err != nil {
			return nil, fmt.Errorf("order %d line %d: %w", o.ID, i, err)
		}
		rec.Products = append(rec.Products, line)
	}
	return rec, nil
}

func normalizeLineItem(item *commerce.OrderItem) (feed.LineItemRecord, error) {
	productID, err := toFeedID(item.ProductID)
	if err != nil {
		return feed.LineItemRecord{}, fmt.Errorf("product: %w", err)
	}
	price, err := minorUnits(item.UnitPrice)
	if err != nil {
		return feed.LineItemRecord{}, err
	}
	total, err := minorUnits(item.Total)
	if err != nil {
		return feed.LineItemRecord{}, err
	}
	line := feed.LineItemRecord{
		ID:       productID,
		Quantity: item.Quantity,
		Price:    price,
		Total:    total,
	}
	if item.VariantID != 0 {
		if line.Variant, err = toFeedID(item.VariantID); err != nil {
			return feed.LineItemRecord{}, fmt.Errorf("variant: %w", err)
		}
	}
	return line, nil
}

// ProductNormalizer maps catalog products to ProductRecord using the channel's
// pricing and storefront hostname.
type ProductNormalizer struct {
	// ImageBaseURL overrides the media origin; empty uses the channel hostname.
	ImageBaseURL string
}

// Normalize implements Normalizer for products
func (n ProductNormalizer) Normalize(p *commerce.Product, channel *commerce.Channel) (feed.Record, error) {
	id, err := toFeedID(p.ID)
	if err != nil {
		return nil, fmt.Errorf("product: %w", err)
	}

	rec := &feed.ProductRecord{
		ID:          id,
		SKU:         p.Code,
		Name:        p.Name,
		Description: p.Description,
		URL:         productURL(channel, p.Slug),
		Image:       n.imageURL(channel, p.ImagePath),
		Categories:  make([]int64, 0, len(p.TaxonIDs)),
		InStock:     p.InStock(),
		CreatedAt:   p.CreatedAt.Unix(),
	}

	if pricing := p.PricingFor(channel.ID); pricing != nil {
		price, err := minorUnits(pricing.Price)
		if err != nil {
			return nil, fmt.Errorf("product %d price: %w", p.ID, err)
		}
		rec.Price = &price
		rec.Currency = string(pricing.Price.Currency())
		if pricing.OriginalPrice != nil && !pricing.OriginalPrice.Equals(pricing.Price) {
			list, err := minorUnits(*pricing.OriginalPrice)
			if err != nil {
				return nil, fmt.Errorf("product %d list price: %w", p.ID, err)
			}
			rec.ListPrice = &list
		}
	}

	for _, taxonID := range p.TaxonIDs {
		tid, err := toFeedID(taxonID)
		if err != nil {
			return nil, fmt.Errorf("product %d category: %w", p.ID, err)
		}
		rec.Categories = append(rec.Categories, tid)
	}
	return rec, nil
}

func productURL(channel *commerce.Channel, slug string) string {
	base := channel.BaseURL()
	if base == "" || slug == "" {
		return ""
	}
	locale := channel.DefaultLocale
	if locale == "" {
		return base + "/products/" + url.PathEscape(slug)
	}
	return base + "/" + url.PathEscape(locale) + "/products/" + url.PathEscape(slug)
}

func (n ProductNormalizer) imageURL(channel *commerce.Channel, path string) string {
	if path == "" {
		return ""
	}
	base := strings.TrimRight(n.ImageBaseURL, "/")
	if base == "" {
		if base = channel.BaseURL(); base == "" {
			return ""
		}
		base += "/media/image"
	}
	return base + "/" + strings.TrimLeft(path, "/")
}

// CustomerNormalizer maps customers to CustomerRecord.
type CustomerNormalizer struct{}

// Normalize implements Normalizer for customers
func (CustomerNormalizer) Normalize(c *commerce.Customer, _ *commerce.Channel) (feed.Record, error) {
	id, err := toFeedID(c.ID)
	if err != nil {
		return nil, fmt.Errorf("customer: %w", err)
	}
	if c.Email == "" {
		return nil, fmt.Errorf("customer %d: missing email", c.ID)
	}
	rec := &feed.CustomerRecord{
		ID:         id,
		Email:      c.Email,
		Name:       c.FullName(),
		FirstName:  c.FirstName,
		LastName:   c.LastName,
		Subscribed: c.Subscribed,
		CreatedAt:  c.CreatedAt.Unix(),
	}
	if c.Gender == commerce.GenderMale || c.Gender == commerce.GenderFemale {
		rec.Gender = c.Gender
	}
	return rec, nil
}
