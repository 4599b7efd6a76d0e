// services/scan_service.go
package services

import (
	"errors"
	"fmt"
	"time"

	"snapbag-reward-system/models"
	"snapbag-reward-system/utils"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	// ScanPoints and ScanXP are the fixed award for a verified first scan.
	ScanPoints = 5
	ScanXP     = 5
)

var (
	ErrInvalidSignature = errors.New("invalid bag signature")
	ErrDuplicateScan    = errors.New("bag already scanned by this user")
)

type ScanService struct {
	DB *gorm.DB
}

func NewScanService(db *gorm.DB) *ScanService {
	return &ScanService{DB: db}
}

// ScanResult is what a successful scan awarded.
type ScanResult struct {
	PointsAwarded int    `json:"points_awarded"`
	XPAwarded     int    `json:"xp_awarded"`
	SpinsAwarded  int    `json:"spins_awarded"`
	QRScanID      string `json:"qr_scan_id"`
}

// ProcessScan verifies a scanned bag and awards points, XP and the daily spin.
// All effects commit together; a rejection leaves no trace.
//
// The (user, snapbag) unique index is the replay guard: the read-first check
// is only the friendly fast path, concurrent duplicates surface as a key
// conflict and map to ErrDuplicateScan.
func (s *ScanService) ProcessScan(userID, bagID, signature, deviceID, ipAddress string) (*ScanResult, error) {
	if !utils.VerifyBagID(bagID, signature) {
		return nil, ErrInvalidSignature
	}

	result := &ScanResult{PointsAwarded: ScanPoints, XPAwarded: ScanXP}

	err := s.DB.Transaction(func(tx *gorm.DB) error {
		snapbag, err := findOrCreateSnapbag(tx, bagID, signature)
		if err != nil {
			return err
		}

		var existing int64
		if err := tx.Model(&models.QRScan{}).
			Where("user_id = ? AND snapbag_id = ?", userID, snapbag.ID).
			Count(&existing).Error; err != nil {
			return err
		}
		if existing > 0 {
			return ErrDuplicateScan
		}

		if _, err := ensureUser(tx, userID); err != nil {
			return err
		}

		scan := models.QRScan{
			ID:            uuid.NewString(),
			UserID:        userID,
			SnapbagID:     snapbag.ID,
			DeviceID:      deviceID,
			IPAddress:     ipAddress,
			PointsAwarded: ScanPoints,
			XPAwarded:     ScanXP,
		}
		if err := tx.Create(&scan).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return ErrDuplicateScan
			}
			return fmt.Errorf("failed to record scan: %w", err)
		}
		result.QRScanID = scan.ID

		if err := creditPoints(tx, userID, ScanPoints, ScanXP); err != nil {
			return err
		}

		audit := models.Transaction{
			ID:          uuid.NewString(),
			UserID:      userID,
			Type:        models.TransactionQRScan,
			Description: "Snapbag scanned",
			Points:      ScanPoints,
			LifetimeXP:  ScanXP,
			ReferenceID: scan.ID,
			CreatedAt:   time.Now(),
		}
		if err := tx.Create(&audit).Error; err != nil {
			return err
		}

		spins, err := grantDailySpin(tx, userID)
		if err != nil {
			return err
		}
		result.SpinsAwarded = spins
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// findOrCreateSnapbag resolves the token row for a bag ID. Bags printed before
// the batch system are registered lazily under the legacy batch on first scan.
func findOrCreateSnapbag(tx *gorm.DB, bagID, signature string) (*models.Snapbag, error) {
	var snapbag models.Snapbag
	err := tx.First(&snapbag, "bag_id = ?", bagID).Error
	if err == nil {
		return &snapbag, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	defaultBatch := models.QRBatch{
		ID:          models.DefaultBatchID,
		BatchName:   "Legacy QR Codes",
		Description: "QR codes created before the batch system",
		TotalCodes:  0,
		IsActive:    true,
	}
	if err := tx.Where("id = ?", models.DefaultBatchID).FirstOrCreate(&defaultBatch).Error; err != nil {
		return nil, err
	}

	snapbag = models.Snapbag{
		ID:            uuid.NewString(),
		BagID:         bagID,
		BatchID:       models.DefaultBatchID,
		HMACSignature: signature,
		IsActive:      true,
	}
	if err := tx.Create(&snapbag).Error; err != nil {
		return nil, fmt.Errorf("failed to register legacy bag: %w", err)
	}
	return &snapbag, nil
}

// grantDailySpin gives one spin if the user has not received one since local
// midnight, and stamps last_spin on grant.
func grantDailySpin(tx *gorm.DB, userID string) (int, error) {
	var user models.User
	if err := tx.First(&user, "id = ?", userID).Error; err != nil {
		return 0, err
	}

	now := time.Now()
	midnight := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	if user.LastSpin != nil && !user.LastSpin.Before(midnight) {
		return 0, nil
	}

	err := tx.Model(&models.User{}).Where("id = ?", userID).Updates(map[string]interface{}{
		"spins_available": gorm.Expr("spins_available + 1"),
		"last_spin":       now,
	}).Error
	if err != nil {
		return 0, err
	}
	return 1, nil
}
