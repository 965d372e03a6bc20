package services

import (
	"errors"
	"time"

	"gorm.io/gorm"

	apperrors "networth/internal/errors"
	"networth/internal/models"
	"networth/internal/networth"
	"networth/internal/pagination"
	"networth/internal/uuid"
)

// recordService handles net-worth record operations.
type recordService struct {
	db *gorm.DB
}

// NewRecordService creates a new RecordServicer.
func NewRecordService(db *gorm.DB) RecordServicer {
	return &recordService{db: db}
}

// ListRecords returns snapshots ordered newest first. Derived fields are
// recomputed on the way out so stale stored values never reach consumers.
func (s *recordService) ListRecords(page pagination.PageRequest) (*pagination.PageResponse[models.NetWorthRecord], error) {
	page.Defaults()

	var totalItems int64
	base := s.db.Model(&models.NetWorthRecord{})
	if err := base.Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var records []models.NetWorthRecord
	if err := base.Order("date DESC, created_at DESC").Scopes(pagination.Paginate(page)).Find(&records).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	for i := range records {
		refreshDerived(&records[i])
	}

	result := pagination.NewPageResponse(records, page.Page, page.PageSize, totalItems)
	return &result, nil
}

// GetRecordByID retrieves a single snapshot with derived fields recomputed.
func (s *recordService) GetRecordByID(id string) (*models.NetWorthRecord, error) {
	var record models.NetWorthRecord
	if err := s.db.Where("id = ?", id).First(&record).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrRecordNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	refreshDerived(&record)
	return &record, nil
}

// CreateRecord validates the input, normalizes all derived fields, and
// stores a new snapshot with a generated id.
func (s *recordService) CreateRecord(input RecordInput) (*models.NetWorthRecord, error) {
	record, err := buildRecord(input)
	if err != nil {
		return nil, err
	}

	if err := s.db.Create(record).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return record, nil
}

// UpdateRecord fully replaces an existing snapshot's contents. There is no
// field-level patching: the asset collections arrive whole and the record is
// rebuilt from them.
func (s *recordService) UpdateRecord(id string, input RecordInput) (*models.NetWorthRecord, error) {
	var existing models.NetWorthRecord
	if err := s.db.Where("id = ?", id).First(&existing).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrRecordNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	record, err := buildRecord(input)
	if err != nil {
		return nil, err
	}
	record.ID = existing.ID
	record.CreatedAt = existing.CreatedAt

	if err := s.db.Save(record).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return record, nil
}

// DeleteRecord removes a snapshot by id.
func (s *recordService) DeleteRecord(id string) error {
	result := s.db.Where("id = ?", id).Delete(&models.NetWorthRecord{})
	if result.Error != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, result.Error)
	}
	if result.RowsAffected == 0 {
		return apperrors.ErrRecordNotFound
	}
	return nil
}

// Trend returns the full date-ordered series of recomputed totals for the
// history chart. Stored TotalValue scalars are deliberately ignored.
func (s *recordService) Trend() ([]TrendPoint, error) {
	var records []models.NetWorthRecord
	if err := s.db.Order("date ASC, created_at ASC").Find(&records).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	points := make([]TrendPoint, len(records))
	for i, record := range records {
		points[i] = TrendPoint{
			Date:       record.Date,
			TotalValue: networth.CategoryTotals(record).Grand(),
		}
	}
	return points, nil
}

// buildRecord validates input and assembles a fully-normalized record.
func buildRecord(input RecordInput) (*models.NetWorthRecord, error) {
	if _, err := time.Parse("2006-01-02", input.Date); err != nil {
		return nil, apperrors.ErrInvalidDate
	}
	if err := validateAssets(input); err != nil {
		return nil, err
	}

	record := &models.NetWorthRecord{
		Date:          input.Date,
		OnChainAssets: input.OnChainAssets,
		CEXAssets:     input.CEXAssets,
		BankAssets:    input.BankAssets,
	}
	assignAssetIDs(record)
	refreshDerived(record)
	record.TotalValue = networth.CategoryTotals(*record).Grand()
	return record, nil
}

// validateAssets rejects values outside the closed enumerations.
func validateAssets(input RecordInput) error {
	for _, asset := range input.CEXAssets {
		if !asset.Exchange.Valid() {
			return apperrors.WithMessage(apperrors.ErrInvalidInput, "unsupported exchange: "+string(asset.Exchange))
		}
	}
	for _, asset := range input.BankAssets {
		if !asset.Institution.Valid() {
			return apperrors.WithMessage(apperrors.ErrInvalidInput, "unsupported institution: "+string(asset.Institution))
		}
		if !asset.DepositType.Valid() {
			return apperrors.WithMessage(apperrors.ErrInvalidInput, "unsupported deposit type: "+string(asset.DepositType))
		}
		if !asset.Currency.Valid() {
			return apperrors.WithMessage(apperrors.ErrInvalidInput, "unsupported currency: "+string(asset.Currency))
		}
	}
	return nil
}

// assignAssetIDs fills in ids for assets and positions created by this write.
func assignAssetIDs(record *models.NetWorthRecord) {
	for i := range record.OnChainAssets {
		if record.OnChainAssets[i].ID == "" {
			record.OnChainAssets[i].ID = uuid.New()
		}
		for j := range record.OnChainAssets[i].Positions {
			if record.OnChainAssets[i].Positions[j].ID == "" {
				record.OnChainAssets[i].Positions[j].ID = uuid.New()
			}
		}
	}
	for i := range record.CEXAssets {
		if record.CEXAssets[i].ID == "" {
			record.CEXAssets[i].ID = uuid.New()
		}
	}
	for i := range record.BankAssets {
		if record.BankAssets[i].ID == "" {
			record.BankAssets[i].ID = uuid.New()
		}
	}
}

// refreshDerived recomputes everything derivable: wallet yield fields and
// bank USD values. Used on both the write path (keeping stored state
// consistent) and the read path (tolerating drift in already-stored rows).
func refreshDerived(record *models.NetWorthRecord) {
	for i := range record.OnChainAssets {
		record.OnChainAssets[i] = networth.WalletYield(record.OnChainAssets[i])
	}
	for i := range record.BankAssets {
		record.BankAssets[i].ValueUSD = networth.BankAssetValueUSD(record.BankAssets[i])
	}
}
