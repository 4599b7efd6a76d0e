// services/voucher_service.go
package services

import (
	"errors"
	"time"

	"snapbag-reward-system/models"

	"gorm.io/gorm"
)

// RedemptionWindow is how long a claimed voucher stays redeemable.
const RedemptionWindow = 10 * time.Minute

var (
	ErrVoucherNotFound         = errors.New("voucher not found")
	ErrVoucherWrongOwner       = errors.New("voucher belongs to another user")
	ErrVoucherNotClaimed       = errors.New("voucher has not been claimed yet")
	ErrVoucherAlreadyClaimed   = errors.New("voucher already claimed")
	ErrVoucherAlreadyUsed      = errors.New("voucher already used")
	ErrVoucherExpired          = errors.New("voucher expired")
	ErrRedemptionWindowExpired = errors.New("redemption window expired")
)

type VoucherService struct {
	DB *gorm.DB
}

func NewVoucherService(db *gorm.DB) *VoucherService {
	return &VoucherService{DB: db}
}

// LazyExpire is the single expiry check every access path goes through. There
// is no background sweep: validity is a function of wall-clock time, recomputed
// here and persisted before the caller proceeds.
//
// Returns nil when the voucher is still live, ErrVoucherExpired when overall
// validity passed, ErrRedemptionWindowExpired when the 10-minute window on a
// claimed voucher elapsed. On either, the transition to expired is persisted
// and mirrored into v.
func (s *VoucherService) LazyExpire(v *models.Voucher) error {
	now := time.Now()

	var reason error
	switch v.Status {
	case models.VoucherPendingClaim:
		if now.After(v.ExpiresAt) {
			reason = ErrVoucherExpired
		}
	case models.VoucherClaimed:
		if now.After(v.ExpiresAt) {
			reason = ErrVoucherExpired
		} else if v.ClaimedAt != nil && now.Sub(*v.ClaimedAt) > RedemptionWindow {
			reason = ErrRedemptionWindowExpired
		}
	}
	if reason == nil {
		return nil
	}

	// conditioned on the status we read; a racing transition wins and we keep
	// its outcome rather than clobbering it
	res := s.DB.Model(&models.Voucher{}).
		Where("id = ? AND status = ?", v.ID, v.Status).
		Update("status", models.VoucherExpired)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		if err := s.DB.First(v, "id = ?", v.ID).Error; err != nil {
			return err
		}
		if v.Status != models.VoucherExpired {
			// someone else moved it forward (e.g. redeemed at the boundary)
			return statusRejection(v.Status)
		}
	} else {
		v.Status = models.VoucherExpired
	}
	return reason
}

// statusRejection maps a non-live voucher status to its rejection.
func statusRejection(status models.VoucherStatus) error {
	switch status {
	case models.VoucherPendingClaim:
		return ErrVoucherNotClaimed
	case models.VoucherClaimed:
		return ErrVoucherAlreadyClaimed
	case models.VoucherUsed:
		return ErrVoucherAlreadyUsed
	case models.VoucherExpired:
		return ErrVoucherExpired
	}
	return nil
}

// Claim moves a pending_claim voucher to claimed for its owner and starts the
// 10-minute redemption window.
func (s *VoucherService) Claim(voucherID, userID string) error {
	var v models.Voucher
	err := s.DB.First(&v, "id = ?", voucherID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrVoucherNotFound
	}
	if err != nil {
		return err
	}
	if v.UserID != userID {
		return ErrVoucherWrongOwner
	}

	if err := s.LazyExpire(&v); err != nil {
		return err
	}
	if v.Status != models.VoucherPendingClaim {
		return statusRejection(v.Status)
	}

	now := time.Now()
	res := s.DB.Model(&models.Voucher{}).
		Where("id = ? AND status = ?", v.ID, models.VoucherPendingClaim).
		Updates(map[string]interface{}{
			"status":     models.VoucherClaimed,
			"claimed_at": now,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrVoucherAlreadyClaimed
	}
	return nil
}

// GetByCode loads a voucher by its redemption code.
func (s *VoucherService) GetByCode(code string) (*models.Voucher, error) {
	var v models.Voucher
	err := s.DB.First(&v, "voucher_code = ?", code).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrVoucherNotFound
	}
	if err != nil {
		return nil, err
	}
	return &v, nil
}

// RemainingSeconds computes the time left in the redemption window of a
// claimed voucher. Never stored: always derived from claimed_at.
func RemainingSeconds(v *models.Voucher, now time.Time) int {
	if v.ClaimedAt == nil {
		return 0
	}
	remaining := RedemptionWindow - now.Sub(*v.ClaimedAt)
	if remaining < 0 {
		return 0
	}
	return int(remaining.Seconds())
}

// ListUserVouchers returns a user's vouchers newest first, applying lazy
// expiry so stale statuses are never shown, plus the pending_claim badge count.
func (s *VoucherService) ListUserVouchers(userID, status string) ([]models.Voucher, int64, error) {
	var vouchers []models.Voucher
	err := s.DB.Where("user_id = ?", userID).Order("created_at desc").Find(&vouchers).Error
	if err != nil {
		return nil, 0, err
	}

	filtered := vouchers[:0]
	var unclaimed int64
	for i := range vouchers {
		v := &vouchers[i]
		if err := s.LazyExpire(v); err != nil &&
			!errors.Is(err, ErrVoucherExpired) && !errors.Is(err, ErrRedemptionWindowExpired) {
			return nil, 0, err
		}
		if v.Status == models.VoucherPendingClaim {
			unclaimed++
		}
		if status == "" || string(v.Status) == status {
			filtered = append(filtered, *v)
		}
	}
	return filtered, unclaimed, nil
}
