package commerce

import (
	"context"

	"github.com/erp/clerkfeed/internal/domain/shared/valueobject"
)

// Channel is a storefront scope: orders, products and customers belong to a channel
// and the feed never mixes data across channels.
type Channel struct {
	ID            uint64
	Code          string
	Name          string
	Hostname      string
	DefaultLocale string
	BaseCurrency  valueobject.Currency
	Enabled       bool
}

// BaseURL returns the storefront origin, or "" when the channel has no hostname.
func (c *Channel) BaseURL() string {
	if c.Hostname == "" {
		return ""
	}
	return "https://" + c.Hostname
}

// ChannelRepository resolves channels by identifier.
// FindByID returns shared.ErrNotFound when the channel does not exist.
type ChannelRepository interface {
	FindByID(ctx context.Context, id uint64) (*Channel, error)
}
