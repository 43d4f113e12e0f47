package models

import "github.com/erp/clerkfeed/internal/domain/commerce"

// CustomerModel is the persistence model for a registered customer.
type CustomerModel struct {
	BaseModel
	Email      string `gorm:"type:varchar(255);not null;uniqueIndex"`
	FirstName  string `gorm:"type:varchar(255)"`
	LastName   string `gorm:"type:varchar(255)"`
	Gender     string `gorm:"type:varchar(1);not null;default:'u'"`
	Subscribed bool   `gorm:"not null;default:false"`
}

// TableName returns the table name for GORM
func (CustomerModel) TableName() string {
	return "customers"
}

// ToDomain converts the persistence model to a domain Customer.
func (m *CustomerModel) ToDomain() *commerce.Customer {
	return &commerce.Customer{
		ID:         m.ID,
		Email:      m.Email,
		FirstName:  m.FirstName,
		LastName:   m.LastName,
		Gender:     m.Gender,
		Subscribed: m.Subscribed,
		CreatedAt:  m.CreatedAt,
	}
}

// AllModels lists every model in dependency order, for AutoMigrate in tests.
func AllModels() []any {
	return []any{
		&ChannelModel{},
		&CustomerModel{},
		&TaxonModel{},
		&ProductModel{},
		&ChannelPricingModel{},
		&OrderModel{},
		&OrderItemModel{},
	}
}
