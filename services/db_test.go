package services

import (
	"fmt"
	"testing"
	"time"

	"snapbag-reward-system/models"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{TranslateError: true})
	if err != nil {
		t.Fatalf("sqlite open: %v", err)
	}
	if err := db.AutoMigrate(
		&models.User{},
		&models.QRBatch{},
		&models.Snapbag{},
		&models.QRScan{},
		&models.Transaction{},
		&models.Partner{},
		&models.WheelPrize{},
		&models.Voucher{},
		&models.RateLimit{},
	); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func createTestUser(t *testing.T, db *gorm.DB, spins int, province string) *models.User {
	t.Helper()
	user := models.User{
		ID:             uuid.NewString(),
		Email:          fmt.Sprintf("%s@example.com", uuid.NewString()[:8]),
		Level:          1,
		SpinsAvailable: spins,
		Province:       province,
	}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("create user: %v", err)
	}
	return &user
}

func createTestPartner(t *testing.T, db *gorm.DB, name string) *models.Partner {
	t.Helper()
	partner := models.Partner{
		ID:       uuid.NewString(),
		Name:     name,
		Email:    fmt.Sprintf("%s@example.com", uuid.NewString()[:8]),
		IsActive: true,
	}
	if err := db.Create(&partner).Error; err != nil {
		t.Fatalf("create partner: %v", err)
	}
	return &partner
}

func createTestPrize(t *testing.T, db *gorm.DB, partnerID string, position, start, end, pointsValue int) *models.WheelPrize {
	t.Helper()
	prize := models.WheelPrize{
		ID:           uuid.NewString(),
		Position:     position,
		PartnerID:    partnerID,
		PrizeTitle:   fmt.Sprintf("Prize %d", position),
		PointsValue:  pointsValue,
		ValidityDays: 30,
		Color:        "#FFFFFF",
		StartAngle:   start,
		EndAngle:     end,
		IsNational:   true,
		Provinces:    []string{},
		IsActive:     true,
	}
	if err := db.Create(&prize).Error; err != nil {
		t.Fatalf("create prize: %v", err)
	}
	return &prize
}

func createTestVoucher(t *testing.T, db *gorm.DB, userID, prizeID, partnerID string, status models.VoucherStatus, expiresAt time.Time) *models.Voucher {
	t.Helper()
	code, err := generateTestCode()
	if err != nil {
		t.Fatalf("generate code: %v", err)
	}
	voucher := models.Voucher{
		ID:           uuid.NewString(),
		UserID:       userID,
		WheelPrizeID: prizeID,
		PartnerID:    partnerID,
		VoucherCode:  code,
		Status:       status,
		ExpiresAt:    expiresAt,
	}
	if err := db.Create(&voucher).Error; err != nil {
		t.Fatalf("create voucher: %v", err)
	}
	return &voucher
}

func generateTestCode() (string, error) {
	return uuid.NewString()[:12], nil
}
