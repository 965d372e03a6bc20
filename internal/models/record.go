package models

import (
	"time"

	"networth/internal/uuid"

	"gorm.io/gorm"
)

// NetWorthRecord is one dated snapshot of all tracked assets. The asset
// collections are stored as JSON documents, matching how snapshots are
// entered and edited as a whole: an edit replaces the record, there is no
// field-level mutation.
//
// TotalValue is the USD total captured at save time. It should equal the sum
// of the category totals, but stored records may have drifted; consumers that
// need an authoritative figure recompute it from the asset collections.
type NetWorthRecord struct {
	ID            string         `gorm:"type:uuid;primaryKey" json:"id"`
	Date          string         `gorm:"size:10;not null;index" json:"date"` // YYYY-MM-DD
	TotalValue    float64        `gorm:"not null" json:"total_value"`
	OnChainAssets []OnChainAsset `gorm:"serializer:json" json:"on_chain_assets"`
	CEXAssets     []CEXAsset     `gorm:"serializer:json" json:"cex_assets"`
	BankAssets    []BankAsset    `gorm:"serializer:json" json:"bank_assets"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
}

// BeforeCreate hook generates a UUIDv7 for new records
func (r *NetWorthRecord) BeforeCreate(tx *gorm.DB) error {
	if r.ID == "" {
		r.ID = uuid.New()
	}
	return nil
}
