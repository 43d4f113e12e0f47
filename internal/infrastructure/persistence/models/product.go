package models

import (
	"fmt"

	"github.com/erp/clerkfeed/internal/domain/commerce"
	"github.com/erp/clerkfeed/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

// ProductModel is the persistence model for a catalog product.
type ProductModel struct {
	BaseModel
	Code        string                `gorm:"type:varchar(255);not null;uniqueIndex"`
	Name        string                `gorm:"type:varchar(255);not null"`
	Description string                `gorm:"type:text"`
	Slug        string                `gorm:"type:varchar(255)"`
	Enabled     bool                  `gorm:"not null"`
	ImagePath   string                `gorm:"type:varchar(512)"`
	OnHand      int                   `gorm:"not null;default:0"`
	Tracked     bool                  `gorm:"not null;default:false"`
	Channels    []ChannelModel        `gorm:"many2many:product_channels;joinForeignKey:ProductID;joinReferences:ChannelID"`
	Taxons      []TaxonModel          `gorm:"many2many:product_taxons;joinForeignKey:ProductID;joinReferences:TaxonID"`
	Pricings    []ChannelPricingModel `gorm:"foreignKey:ProductID;references:ID"`
}

// TableName returns the table name for GORM
func (ProductModel) TableName() string {
	return "products"
}

// ToDomain converts the persistence model to a domain Product.
// Only associations that were preloaded are mapped.
func (m *ProductModel) ToDomain() (*commerce.Product, error) {
	p := &commerce.Product{
		ID:          m.ID,
		Code:        m.Code,
		Name:        m.Name,
		Description: m.Description,
		Slug:        m.Slug,
		Enabled:     m.Enabled,
		ImagePath:   m.ImagePath,
		OnHand:      m.OnHand,
		Tracked:     m.Tracked,
		CreatedAt:   m.CreatedAt,
		TaxonIDs:    make([]uint64, 0, len(m.Taxons)),
		ChannelIDs:  make([]uint64, 0, len(m.Channels)),
		Pricings:    make([]commerce.ChannelPricing, 0, len(m.Pricings)),
	}
	for _, t := range m.Taxons {
		p.TaxonIDs = append(p.TaxonIDs, t.ID)
	}
	for _, c := range m.Channels {
		p.ChannelIDs = append(p.ChannelIDs, c.ID)
	}
	for i := range m.Pricings {
		pricing, err := m.Pricings[i].ToDomain()
		if err != nil {
			return nil, fmt.Errorf("product %d: %w", m.ID, err)
		}
		p.Pricings = append(p.Pricings, pricing)
	}
	return p, nil
}

// TaxonModel is the persistence model for a catalog category.
type TaxonModel struct {
	ID   uint64 `gorm:"primaryKey;autoIncrement"`
	Code string `gorm:"type:varchar(255);not null;uniqueIndex"`
	Name string `gorm:"type:varchar(255)"`
}

// TableName returns the table name for GORM
func (TaxonModel) TableName() string {
	return "taxons"
}

// ChannelPricingModel is the price of a product in one channel.
type ChannelPricingModel struct {
	ID            uint64           `gorm:"primaryKey;autoIncrement"`
	ProductID     uint64           `gorm:"not null;uniqueIndex:idx_channel_pricing_product_channel,priority:1"`
	ChannelID     uint64           `gorm:"not null;uniqueIndex:idx_channel_pricing_product_channel,priority:2"`
	CurrencyCode  string           `gorm:"type:char(3);not null"`
	Price         decimal.Decimal  `gorm:"type:decimal(18,4);not null"`
	OriginalPrice *decimal.Decimal `gorm:"type:decimal(18,4)"`
}

// TableName returns the table name for GORM
func (ChannelPricingModel) TableName() string {
	return "channel_pricings"
}

// ToDomain converts the persistence model to a domain ChannelPricing.
func (m *ChannelPricingModel) ToDomain() (commerce.ChannelPricing, error) {
	currency := valueobject.Currency(m.CurrencyCode)
	price, err := valueobject.NewMoney(m.Price, currency)
	if err != nil {
		return commerce.ChannelPricing{}, fmt.Errorf("pricing %d: %w", m.ID, err)
	}
	pricing := commerce.ChannelPricing{ChannelID: m.ChannelID, Price: price}
	if m.OriginalPrice != nil {
		original, err := valueobject.NewMoney(*m.OriginalPrice, currency)
		if err != nil {
			return commerce.ChannelPricing{}, fmt.Errorf("pricing %d original: %w", m.ID, err)
		}
		pricing.OriginalPrice = &original
	}
	return pricing, nil
}
