package services

import (
	"networth/internal/models"
	"networth/internal/pagination"
)

// RecordInput carries the caller-supplied parts of a snapshot. Derived
// fields (wallet yields, bank USD values, the record total) are always
// recomputed by the service, never taken from the caller.
type RecordInput struct {
	Date          string
	OnChainAssets []models.OnChainAsset
	CEXAssets     []models.CEXAsset
	BankAssets    []models.BankAsset
}

// TrendPoint is one step of the net-worth history series, carrying the
// recomputed total rather than the stored scalar.
type TrendPoint struct {
	Date       string  `json:"date"`
	TotalValue float64 `json:"total_value"`
}

// RecordServicer defines the contract for net-worth record operations.
type RecordServicer interface {
	ListRecords(page pagination.PageRequest) (*pagination.PageResponse[models.NetWorthRecord], error)
	GetRecordByID(id string) (*models.NetWorthRecord, error)
	CreateRecord(input RecordInput) (*models.NetWorthRecord, error)
	UpdateRecord(id string, input RecordInput) (*models.NetWorthRecord, error)
	DeleteRecord(id string) error
	Trend() ([]TrendPoint, error)
}
