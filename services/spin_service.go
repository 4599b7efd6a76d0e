// services/spin_service.go
package services

import (
	"errors"
	"fmt"
	"math"
	"time"

	"snapbag-reward-system/models"
	"snapbag-reward-system/utils"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var (
	ErrNoSpins          = errors.New("no spins available")
	ErrSpinConsumed     = errors.New("spin already consumed by a concurrent request")
	ErrNoEligiblePrizes = errors.New("no prizes available for this location")
)

type SpinService struct {
	DB *gorm.DB
}

func NewSpinService(db *gorm.DB) *SpinService {
	return &SpinService{DB: db}
}

// SpinResult carries the won prize and the angle for the client animation.
type SpinResult struct {
	Voucher      *models.Voucher    `json:"voucher"`
	Prize        *models.WheelPrize `json:"prize"`
	LandingAngle float64            `json:"landing_angle"`
}

// Spin consumes one spin and issues a pending_claim voucher for the prize the
// wheel landed on. The landing angle is generated server side; clients animate
// toward it rather than reporting where they stopped.
//
// Prize resolution runs speculatively, but the conditional spin decrement is
// the linearization point: nothing is issued unless it affects a row.
func (s *SpinService) Spin(userID string) (*SpinResult, error) {
	var user models.User
	err := s.DB.First(&user, "id = ?", userID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNoSpins
	}
	if err != nil {
		return nil, err
	}
	if user.SpinsAvailable <= 0 {
		return nil, ErrNoSpins
	}

	var prizes []models.WheelPrize
	if err := s.DB.Where("is_active = ?", true).Order("position asc").Find(&prizes).Error; err != nil {
		return nil, err
	}

	eligible := make([]models.WheelPrize, 0, len(prizes))
	for _, p := range prizes {
		if p.EligibleFor(user.Province) {
			eligible = append(eligible, p)
		}
	}
	if len(eligible) == 0 {
		return nil, ErrNoEligiblePrizes
	}

	angle, err := utils.RandomLandingAngle()
	if err != nil {
		return nil, err
	}
	prize := resolveWinningPrize(angle, eligible)

	code, err := utils.GenerateVoucherCode()
	if err != nil {
		return nil, err
	}

	voucher := models.Voucher{
		ID:           uuid.NewString(),
		UserID:       userID,
		WheelPrizeID: prize.ID,
		PartnerID:    prize.PartnerID,
		VoucherCode:  code,
		Status:       models.VoucherPendingClaim,
		ExpiresAt:    time.Now().AddDate(0, 0, prize.ValidityDays),
	}

	err = s.DB.Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.User{}).
			Where("id = ? AND spins_available > 0", userID).
			Update("spins_available", gorm.Expr("spins_available - 1"))
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			// another request consumed the last spin between our read and now
			return ErrSpinConsumed
		}

		if err := tx.Create(&voucher).Error; err != nil {
			return fmt.Errorf("failed to create voucher: %w", err)
		}

		audit := models.Transaction{
			ID:          uuid.NewString(),
			UserID:      userID,
			Type:        models.TransactionWheelSpin,
			Description: fmt.Sprintf("Prize wheel: %s", prize.PrizeTitle),
			ReferenceID: voucher.ID,
			CreatedAt:   time.Now(),
		}
		return tx.Create(&audit).Error
	})
	if err != nil {
		return nil, err
	}

	return &SpinResult{Voucher: &voucher, Prize: prize, LandingAngle: angle}, nil
}

// EligiblePrizes returns the active prizes visible to a user in the given
// province, in wheel position order.
func (s *SpinService) EligiblePrizes(province string) ([]models.WheelPrize, error) {
	var prizes []models.WheelPrize
	if err := s.DB.Where("is_active = ?", true).Order("position asc").Find(&prizes).Error; err != nil {
		return nil, err
	}
	eligible := make([]models.WheelPrize, 0, len(prizes))
	for _, p := range prizes {
		if p.EligibleFor(province) {
			eligible = append(eligible, p)
		}
	}
	return eligible, nil
}

// normalizeAngle maps any angle into [0, 360).
func normalizeAngle(angle float64) float64 {
	a := math.Mod(angle, 360)
	if a < 0 {
		a += 360
	}
	return a
}

// resolveWinningPrize scans prizes in position order for the segment holding
// the landing angle. Segments with start > end wrap past 0° and match when the
// angle is on either side of the boundary. With segments partitioning the
// circle a match always exists; otherwise the first prize wins as a
// deterministic fallback.
func resolveWinningPrize(angle float64, prizes []models.WheelPrize) *models.WheelPrize {
	a := normalizeAngle(angle)
	for i := range prizes {
		p := &prizes[i]
		start, end := float64(p.StartAngle), float64(p.EndAngle)
		if start > end {
			if a >= start || a < end {
				return p
			}
		} else if a >= start && a < end {
			return p
		}
	}
	if len(prizes) == 0 {
		return nil
	}
	return &prizes[0]
}
