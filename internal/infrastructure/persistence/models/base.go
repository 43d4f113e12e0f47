package models

import "time"

// BaseModel provides common persistence fields for all models.
// Store tables use integer identifiers, which the feed exposes as-is.
type BaseModel struct {
	ID        uint64    `gorm:"primaryKey;autoIncrement"`
	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}
