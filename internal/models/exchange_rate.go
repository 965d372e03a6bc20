package models

import (
	"time"

	"networth/internal/uuid"

	"gorm.io/gorm"
)

// ExchangeRate is one persisted exchange-rate observation, expressed as units
// of foreign currency per 1 USD. The latest row per currency backs the rate
// table when the live provider is unreachable.
type ExchangeRate struct {
	ID        string    `gorm:"type:uuid;primaryKey" json:"id"`
	Currency  string    `gorm:"size:10;not null;index" json:"currency"`
	Rate      float64   `gorm:"not null" json:"rate"`
	FetchedAt time.Time `gorm:"not null" json:"fetched_at"`
}

// BeforeCreate hook generates a UUIDv7 for new records
func (e *ExchangeRate) BeforeCreate(tx *gorm.DB) error {
	if e.ID == "" {
		e.ID = uuid.New()
	}
	return nil
}
