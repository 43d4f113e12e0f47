package commerce

import (
	"time"

	"github.com/erp/clerkfeed/internal/domain/shared/valueobject"
)

// ChannelPricing is the price of a product within one channel
type ChannelPricing struct {
	ChannelID     uint64
	Price         valueobject.Money
	OriginalPrice *valueobject.Money
}

// Product is a catalog product
type Product struct {
	ID          uint64
	Code        string
	Name        string
	Description string
	Slug        string
	Enabled     bool
	ImagePath   string
	TaxonIDs    []uint64
	ChannelIDs  []uint64
	Pricings    []ChannelPricing
	OnHand      int
	Tracked     bool
	CreatedAt   time.Time
}

// PricingFor returns the pricing for the given channel, or nil when the product
// has no price in that channel.
func (p *Product) PricingFor(channelID uint64) *ChannelPricing {
	for i := range p.Pricings {
		if p.Pricings[i].ChannelID == channelID {
			return &p.Pricings[i]
		}
	}
	return nil
}

// InStock reports availability; untracked products are always available.
func (p *Product) InStock() bool {
	return !p.Tracked || p.OnHand > 0
}
