package services

import (
	"errors"
	"testing"
	"time"

	"snapbag-reward-system/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// voucherFixtures creates the user/partner/prize graph a voucher hangs off.
func voucherFixtures(t *testing.T, db *gorm.DB) (*models.User, *models.Partner, *models.WheelPrize) {
	t.Helper()
	user := createTestUser(t, db, 0, "Utrecht")
	partner := createTestPartner(t, db, "Test Partner")
	prize := createTestPrize(t, db, partner.ID, 1, 0, 360, 0)
	return user, partner, prize
}

// markClaimed backdates a voucher into the claimed state.
func markClaimed(t *testing.T, db *gorm.DB, v *models.Voucher, claimedAt time.Time) {
	t.Helper()
	err := db.Model(v).Updates(map[string]interface{}{
		"status":     models.VoucherClaimed,
		"claimed_at": claimedAt,
	}).Error
	if err != nil {
		t.Fatalf("mark claimed: %v", err)
	}
	v.Status = models.VoucherClaimed
	v.ClaimedAt = &claimedAt
}

func TestClaimMovesVoucherToClaimed(t *testing.T) {
	db := setupTestDB(t)
	svc := NewVoucherService(db)
	user, partner, prize := voucherFixtures(t, db)
	v := createTestVoucher(t, db, user.ID, prize.ID, partner.ID, models.VoucherPendingClaim, time.Now().Add(24*time.Hour))

	if err := svc.Claim(v.ID, user.ID); err != nil {
		t.Fatalf("claim: %v", err)
	}

	var updated models.Voucher
	if err := db.First(&updated, "id = ?", v.ID).Error; err != nil {
		t.Fatalf("reload voucher: %v", err)
	}
	if updated.Status != models.VoucherClaimed {
		t.Fatalf("status = %q, want %q", updated.Status, models.VoucherClaimed)
	}
	if updated.ClaimedAt == nil {
		t.Fatal("claimed_at not stamped")
	}
	if got := RemainingSeconds(&updated, time.Now()); got <= 590 || got > 600 {
		t.Fatalf("redemption window = %ds immediately after claim, want ~600", got)
	}
}

func TestClaimRejectsWrongOwner(t *testing.T) {
	db := setupTestDB(t)
	svc := NewVoucherService(db)
	user, partner, prize := voucherFixtures(t, db)
	v := createTestVoucher(t, db, user.ID, prize.ID, partner.ID, models.VoucherPendingClaim, time.Now().Add(24*time.Hour))

	err := svc.Claim(v.ID, uuid.NewString())
	if !errors.Is(err, ErrVoucherWrongOwner) {
		t.Fatalf("err = %v, want ErrVoucherWrongOwner", err)
	}

	var updated models.Voucher
	if err := db.First(&updated, "id = ?", v.ID).Error; err != nil {
		t.Fatalf("reload voucher: %v", err)
	}
	if updated.Status != models.VoucherPendingClaim {
		t.Fatalf("status changed to %q by a rejected claim", updated.Status)
	}
}

func TestClaimRejectsUnknownVoucher(t *testing.T) {
	db := setupTestDB(t)
	svc := NewVoucherService(db)

	err := svc.Claim(uuid.NewString(), uuid.NewString())
	if !errors.Is(err, ErrVoucherNotFound) {
		t.Fatalf("err = %v, want ErrVoucherNotFound", err)
	}
}

func TestClaimRejectsDoubleClaim(t *testing.T) {
	db := setupTestDB(t)
	svc := NewVoucherService(db)
	user, partner, prize := voucherFixtures(t, db)
	v := createTestVoucher(t, db, user.ID, prize.ID, partner.ID, models.VoucherPendingClaim, time.Now().Add(24*time.Hour))

	if err := svc.Claim(v.ID, user.ID); err != nil {
		t.Fatalf("first claim: %v", err)
	}
	err := svc.Claim(v.ID, user.ID)
	if !errors.Is(err, ErrVoucherAlreadyClaimed) {
		t.Fatalf("err = %v, want ErrVoucherAlreadyClaimed", err)
	}
}

func TestClaimRejectsExpiredVoucher(t *testing.T) {
	db := setupTestDB(t)
	svc := NewVoucherService(db)
	user, partner, prize := voucherFixtures(t, db)
	v := createTestVoucher(t, db, user.ID, prize.ID, partner.ID, models.VoucherPendingClaim, time.Now().Add(-time.Hour))

	err := svc.Claim(v.ID, user.ID)
	if !errors.Is(err, ErrVoucherExpired) {
		t.Fatalf("err = %v, want ErrVoucherExpired", err)
	}

	// the lazy transition is persisted, not just reported
	var updated models.Voucher
	if err := db.First(&updated, "id = ?", v.ID).Error; err != nil {
		t.Fatalf("reload voucher: %v", err)
	}
	if updated.Status != models.VoucherExpired {
		t.Fatalf("status = %q, want %q persisted", updated.Status, models.VoucherExpired)
	}
}

func TestLazyExpireClosesRedemptionWindow(t *testing.T) {
	db := setupTestDB(t)
	svc := NewVoucherService(db)
	user, partner, prize := voucherFixtures(t, db)
	v := createTestVoucher(t, db, user.ID, prize.ID, partner.ID, models.VoucherPendingClaim, time.Now().Add(24*time.Hour))
	markClaimed(t, db, v, time.Now().Add(-11*time.Minute))

	err := svc.LazyExpire(v)
	if !errors.Is(err, ErrRedemptionWindowExpired) {
		t.Fatalf("err = %v, want ErrRedemptionWindowExpired", err)
	}

	var updated models.Voucher
	if err := db.First(&updated, "id = ?", v.ID).Error; err != nil {
		t.Fatalf("reload voucher: %v", err)
	}
	if updated.Status != models.VoucherExpired {
		t.Fatalf("status = %q, want %q persisted", updated.Status, models.VoucherExpired)
	}
}

func TestLazyExpireKeepsVoucherInsideWindow(t *testing.T) {
	db := setupTestDB(t)
	svc := NewVoucherService(db)
	user, partner, prize := voucherFixtures(t, db)
	v := createTestVoucher(t, db, user.ID, prize.ID, partner.ID, models.VoucherPendingClaim, time.Now().Add(24*time.Hour))
	markClaimed(t, db, v, time.Now().Add(-9*time.Minute))

	if err := svc.LazyExpire(v); err != nil {
		t.Fatalf("voucher inside the window expired: %v", err)
	}
	if v.Status != models.VoucherClaimed {
		t.Fatalf("status = %q, want %q", v.Status, models.VoucherClaimed)
	}
}

func TestRemainingSeconds(t *testing.T) {
	now := time.Now()

	unclaimed := &models.Voucher{}
	if got := RemainingSeconds(unclaimed, now); got != 0 {
		t.Fatalf("unclaimed voucher remaining = %d, want 0", got)
	}

	claimedAt := now.Add(-4 * time.Minute)
	inWindow := &models.Voucher{ClaimedAt: &claimedAt}
	if got := RemainingSeconds(inWindow, now); got != 360 {
		t.Fatalf("remaining = %d after 4 minutes, want 360", got)
	}

	lateClaim := now.Add(-15 * time.Minute)
	elapsed := &models.Voucher{ClaimedAt: &lateClaim}
	if got := RemainingSeconds(elapsed, now); got != 0 {
		t.Fatalf("remaining = %d for an elapsed window, want 0 not negative", got)
	}
}

func TestListUserVouchersAppliesLazyExpiry(t *testing.T) {
	db := setupTestDB(t)
	svc := NewVoucherService(db)
	user, partner, prize := voucherFixtures(t, db)

	live := createTestVoucher(t, db, user.ID, prize.ID, partner.ID, models.VoucherPendingClaim, time.Now().Add(24*time.Hour))
	stale := createTestVoucher(t, db, user.ID, prize.ID, partner.ID, models.VoucherPendingClaim, time.Now().Add(-time.Hour))
	createTestVoucher(t, db, user.ID, prize.ID, partner.ID, models.VoucherUsed, time.Now().Add(24*time.Hour))

	vouchers, unclaimed, err := svc.ListUserVouchers(user.ID, "")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(vouchers) != 3 {
		t.Fatalf("got %d vouchers, want 3", len(vouchers))
	}
	if unclaimed != 1 {
		t.Fatalf("unclaimed count = %d, want 1 — stale pending vouchers must not count", unclaimed)
	}

	for _, v := range vouchers {
		if v.ID == stale.ID && v.Status != models.VoucherExpired {
			t.Fatalf("stale voucher shown as %q, want %q", v.Status, models.VoucherExpired)
		}
		if v.ID == live.ID && v.Status != models.VoucherPendingClaim {
			t.Fatalf("live voucher shown as %q, want %q", v.Status, models.VoucherPendingClaim)
		}
	}
}

func TestListUserVouchersFiltersByStatus(t *testing.T) {
	db := setupTestDB(t)
	svc := NewVoucherService(db)
	user, partner, prize := voucherFixtures(t, db)

	createTestVoucher(t, db, user.ID, prize.ID, partner.ID, models.VoucherPendingClaim, time.Now().Add(24*time.Hour))
	createTestVoucher(t, db, user.ID, prize.ID, partner.ID, models.VoucherUsed, time.Now().Add(24*time.Hour))

	vouchers, _, err := svc.ListUserVouchers(user.ID, string(models.VoucherUsed))
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(vouchers) != 1 || vouchers[0].Status != models.VoucherUsed {
		t.Fatalf("status filter returned %d vouchers", len(vouchers))
	}
}

func TestListUserVouchersScopedToOwner(t *testing.T) {
	db := setupTestDB(t)
	svc := NewVoucherService(db)
	user, partner, prize := voucherFixtures(t, db)
	other := createTestUser(t, db, 0, "")

	createTestVoucher(t, db, user.ID, prize.ID, partner.ID, models.VoucherPendingClaim, time.Now().Add(24*time.Hour))
	createTestVoucher(t, db, other.ID, prize.ID, partner.ID, models.VoucherPendingClaim, time.Now().Add(24*time.Hour))

	vouchers, _, err := svc.ListUserVouchers(user.ID, "")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(vouchers) != 1 {
		t.Fatalf("got %d vouchers, want only the owner's 1", len(vouchers))
	}
}
