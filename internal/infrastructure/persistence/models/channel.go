package models

import (
	"github.com/erp/clerkfeed/internal/domain/commerce"
	"github.com/erp/clerkfeed/internal/domain/shared/valueobject"
)

// ChannelModel is the persistence model for a sales channel.
type ChannelModel struct {
	BaseModel
	Code          string `gorm:"type:varchar(100);not null;uniqueIndex"`
	Name          string `gorm:"type:varchar(255);not null"`
	Hostname      string `gorm:"type:varchar(255)"`
	DefaultLocale string `gorm:"type:varchar(12)"`
	BaseCurrency  string `gorm:"type:char(3);not null"`
	Enabled       bool   `gorm:"not null"`
}

// TableName returns the table name for GORM
func (ChannelModel) TableName() string {
	return "channels"
}

// ToDomain converts the persistence model to a domain Channel.
func (m *ChannelModel) ToDomain() *commerce.Channel {
	return &commerce.Channel{
		ID:            m.ID,
		Code:          m.Code,
		Name:          m.Name,
		Hostname:      m.Hostname,
		DefaultLocale: m.DefaultLocale,
		BaseCurrency:  valueobject.Currency(m.BaseCurrency),
		Enabled:       m.Enabled,
	}
}
