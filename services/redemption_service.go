// services/redemption_service.go
package services

import (
	"errors"
	"fmt"
	"time"

	"snapbag-reward-system/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// RedemptionService is the partner-facing side of the voucher lifecycle:
// verifying a presented code and stamping it used.
type RedemptionService struct {
	DB       *gorm.DB
	Vouchers *VoucherService
}

func NewRedemptionService(db *gorm.DB, vouchers *VoucherService) *RedemptionService {
	return &RedemptionService{DB: db, Vouchers: vouchers}
}

// VoucherVerification is what a partner sees when checking a code.
type VoucherVerification struct {
	Voucher       *models.Voucher    `json:"voucher"`
	Prize         *models.WheelPrize `json:"prize"`
	Partner       *models.Partner    `json:"partner"`
	TimeRemaining int                `json:"time_remaining"` // seconds left in the redemption window
}

// RedemptionReceipt confirms a completed redemption.
type RedemptionReceipt struct {
	VoucherID     string `json:"voucher_id"`
	PointsAwarded int    `json:"points_awarded"`
}

// VerifyVoucher checks a code a partner scanned. Expiry is applied lazily
// before any judgement; a voucher that is used, expired or not yet claimed is
// rejected with that reason.
func (s *RedemptionService) VerifyVoucher(code string) (*VoucherVerification, error) {
	v, err := s.Vouchers.GetByCode(code)
	if err != nil {
		return nil, err
	}

	if err := s.Vouchers.LazyExpire(v); err != nil {
		return nil, err
	}
	if v.Status != models.VoucherClaimed {
		return nil, statusRejection(v.Status)
	}

	prize, partner, err := s.loadPrizeAndPartner(v)
	if err != nil {
		return nil, err
	}

	return &VoucherVerification{
		Voucher:       v,
		Prize:         prize,
		Partner:       partner,
		TimeRemaining: RemainingSeconds(v, time.Now()),
	}, nil
}

// RedeemVoucher marks a claimed, in-window voucher used and stamps the
// redeeming partner. Points-partner vouchers credit their PointsValue back to
// the winning user. Deliberately not idempotent: a second attempt on a used
// voucher is rejected, since it signals misuse.
func (s *RedemptionService) RedeemVoucher(code, partnerUserID string) (*RedemptionReceipt, error) {
	v, err := s.Vouchers.GetByCode(code)
	if err != nil {
		return nil, err
	}

	if err := s.Vouchers.LazyExpire(v); err != nil {
		return nil, err
	}
	if v.Status != models.VoucherClaimed {
		return nil, statusRejection(v.Status)
	}

	prize, partner, err := s.loadPrizeAndPartner(v)
	if err != nil {
		return nil, err
	}

	receipt := &RedemptionReceipt{VoucherID: v.ID}

	err = s.DB.Transaction(func(tx *gorm.DB) error {
		now := time.Now()
		res := tx.Model(&models.Voucher{}).
			Where("id = ? AND status = ?", v.ID, models.VoucherClaimed).
			Updates(map[string]interface{}{
				"status":      models.VoucherUsed,
				"redeemed_at": now,
				"redeemed_by": partnerUserID,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			// a racing redemption beat us to the transition
			return ErrVoucherAlreadyUsed
		}

		if partner.IsPointsPartner() && prize.PointsValue > 0 {
			if err := creditPoints(tx, v.UserID, prize.PointsValue, prize.PointsValue); err != nil {
				return err
			}
			audit := models.Transaction{
				ID:          uuid.NewString(),
				UserID:      v.UserID,
				Type:        models.TransactionVoucherRedeem,
				Description: fmt.Sprintf("Voucher redeemed: %s", prize.PrizeTitle),
				Points:      prize.PointsValue,
				LifetimeXP:  prize.PointsValue,
				ReferenceID: v.ID,
				CreatedAt:   now,
			}
			if err := tx.Create(&audit).Error; err != nil {
				return err
			}
			receipt.PointsAwarded = prize.PointsValue
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return receipt, nil
}

func (s *RedemptionService) loadPrizeAndPartner(v *models.Voucher) (*models.WheelPrize, *models.Partner, error) {
	var prize models.WheelPrize
	if err := s.DB.First(&prize, "id = ?", v.WheelPrizeID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, fmt.Errorf("prize missing for voucher %s", v.ID)
		}
		return nil, nil, err
	}
	var partner models.Partner
	if err := s.DB.First(&partner, "id = ?", v.PartnerID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, fmt.Errorf("partner missing for voucher %s", v.ID)
		}
		return nil, nil, err
	}
	return &prize, &partner, nil
}
