package testutil

import (
	"fmt"
	"sync/atomic"
	"testing"

	"networth/internal/models"

	"gorm.io/gorm"
)

// counter provides unique values across fixtures within a test run.
var counter atomic.Int64

func nextID() int64 {
	return counter.Add(1)
}

// CreateTestRecord stores a snapshot for the given date with one asset of
// each category, consistent derived fields, and a correct stored total.
func CreateTestRecord(t *testing.T, db *gorm.DB, date string) *models.NetWorthRecord {
	t.Helper()

	n := nextID()
	record := &models.NetWorthRecord{
		Date:       date,
		TotalValue: 6000,
		OnChainAssets: []models.OnChainAsset{{
			ID:            fmt.Sprintf("w%d", n),
			WalletAddress: fmt.Sprintf("0xwallet%d", n),
			Remark:        fmt.Sprintf("Wallet %d", n),
			TotalValueUSD: 1000,
			Positions: []models.OnChainPosition{
				{ID: fmt.Sprintf("p%d", n), Token: "USDC", ValueUSD: 800, APR: 5},
			},
			YieldValueUSD: 800,
			TotalAPR:      5,
			DailyIncome:   800 * 5 / 365.0 / 100,
			MonthlyIncome: 800 * 5 / 365.0 / 100 * 30,
			YearlyIncome:  40,
		}},
		CEXAssets: []models.CEXAsset{{
			ID:            fmt.Sprintf("c%d", n),
			Exchange:      models.ExchangeBinance,
			TotalValueUSD: 2000,
		}},
		BankAssets: []models.BankAsset{{
			ID:           fmt.Sprintf("b%d", n),
			Institution:  models.InstitutionZaBank,
			DepositType:  models.DepositTypeCurrent,
			Currency:     models.CurrencyUSD,
			Amount:       3000,
			ExchangeRate: 1,
			ValueUSD:     3000,
		}},
	}
	if err := db.Create(record).Error; err != nil {
		t.Fatalf("failed to create test record: %v", err)
	}
	return record
}

// CreateEmptyRecord stores a snapshot with no assets at all.
func CreateEmptyRecord(t *testing.T, db *gorm.DB, date string) *models.NetWorthRecord {
	t.Helper()

	record := &models.NetWorthRecord{
		Date:          date,
		OnChainAssets: []models.OnChainAsset{},
		CEXAssets:     []models.CEXAsset{},
		BankAssets:    []models.BankAsset{},
	}
	if err := db.Create(record).Error; err != nil {
		t.Fatalf("failed to create empty test record: %v", err)
	}
	return record
}
