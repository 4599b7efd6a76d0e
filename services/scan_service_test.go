package services

import (
	"errors"
	"testing"
	"time"

	"snapbag-reward-system/models"
	"snapbag-reward-system/utils"
)

func TestProcessScanAwardsPointsXPAndSpin(t *testing.T) {
	db := setupTestDB(t)
	svc := NewScanService(db)
	user := createTestUser(t, db, 0, "Utrecht")

	bagID := "test-batch_000001"
	result, err := svc.ProcessScan(user.ID, bagID, utils.SignBagID(bagID), "device-1", "1.2.3.4")
	if err != nil {
		t.Fatalf("process scan: %v", err)
	}

	if result.PointsAwarded != ScanPoints {
		t.Fatalf("points awarded = %d, want %d", result.PointsAwarded, ScanPoints)
	}
	if result.XPAwarded != ScanXP {
		t.Fatalf("xp awarded = %d, want %d", result.XPAwarded, ScanXP)
	}
	if result.SpinsAwarded != 1 {
		t.Fatalf("spins awarded = %d, want 1 for a first scan of the day", result.SpinsAwarded)
	}
	if result.QRScanID == "" {
		t.Fatal("scan record id missing from result")
	}

	var updated models.User
	if err := db.First(&updated, "id = ?", user.ID).Error; err != nil {
		t.Fatalf("reload user: %v", err)
	}
	if updated.Points != ScanPoints || updated.LifetimeXP != ScanXP {
		t.Fatalf("balance = (%d points, %d xp), want (%d, %d)", updated.Points, updated.LifetimeXP, ScanPoints, ScanXP)
	}
	if updated.SpinsAvailable != 1 {
		t.Fatalf("spins available = %d, want 1", updated.SpinsAvailable)
	}
	if updated.LastSpin == nil {
		t.Fatal("last_spin not stamped on spin grant")
	}

	var audit models.Transaction
	if err := db.First(&audit, "user_id = ? AND type = ?", user.ID, models.TransactionQRScan).Error; err != nil {
		t.Fatalf("audit row missing: %v", err)
	}
	if audit.ReferenceID != result.QRScanID {
		t.Fatalf("audit reference = %q, want scan id %q", audit.ReferenceID, result.QRScanID)
	}
}

func TestProcessScanRejectsInvalidSignature(t *testing.T) {
	db := setupTestDB(t)
	svc := NewScanService(db)
	user := createTestUser(t, db, 0, "")

	_, err := svc.ProcessScan(user.ID, "some-bag", "deadbeef", "device-1", "1.2.3.4")
	if !errors.Is(err, ErrInvalidSignature) {
		t.Fatalf("err = %v, want ErrInvalidSignature", err)
	}

	// a rejected scan leaves no trace
	var scans, snapbags int64
	db.Model(&models.QRScan{}).Count(&scans)
	db.Model(&models.Snapbag{}).Count(&snapbags)
	if scans != 0 || snapbags != 0 {
		t.Fatalf("rejected scan persisted rows: %d scans, %d snapbags", scans, snapbags)
	}
}

func TestProcessScanRejectsDuplicate(t *testing.T) {
	db := setupTestDB(t)
	svc := NewScanService(db)
	user := createTestUser(t, db, 0, "")

	bagID := "test-batch_000002"
	sig := utils.SignBagID(bagID)
	if _, err := svc.ProcessScan(user.ID, bagID, sig, "device-1", "1.2.3.4"); err != nil {
		t.Fatalf("first scan: %v", err)
	}

	_, err := svc.ProcessScan(user.ID, bagID, sig, "device-1", "1.2.3.4")
	if !errors.Is(err, ErrDuplicateScan) {
		t.Fatalf("err = %v, want ErrDuplicateScan", err)
	}

	var updated models.User
	if err := db.First(&updated, "id = ?", user.ID).Error; err != nil {
		t.Fatalf("reload user: %v", err)
	}
	if updated.Points != ScanPoints {
		t.Fatalf("points = %d after duplicate scan, want %d", updated.Points, ScanPoints)
	}
}

func TestProcessScanAllowsDifferentUsersSameBag(t *testing.T) {
	db := setupTestDB(t)
	svc := NewScanService(db)
	alice := createTestUser(t, db, 0, "")
	bob := createTestUser(t, db, 0, "")

	bagID := "test-batch_000003"
	sig := utils.SignBagID(bagID)
	if _, err := svc.ProcessScan(alice.ID, bagID, sig, "d1", "1.1.1.1"); err != nil {
		t.Fatalf("alice scan: %v", err)
	}
	if _, err := svc.ProcessScan(bob.ID, bagID, sig, "d2", "2.2.2.2"); err != nil {
		t.Fatalf("bob scan of the same bag: %v", err)
	}
}

func TestProcessScanGrantsSpinOncePerDay(t *testing.T) {
	db := setupTestDB(t)
	svc := NewScanService(db)
	user := createTestUser(t, db, 0, "")

	first := "daily-bag_000001"
	second := "daily-bag_000002"

	res, err := svc.ProcessScan(user.ID, first, utils.SignBagID(first), "d", "1.1.1.1")
	if err != nil {
		t.Fatalf("first scan: %v", err)
	}
	if res.SpinsAwarded != 1 {
		t.Fatalf("first scan of the day awarded %d spins, want 1", res.SpinsAwarded)
	}

	res, err = svc.ProcessScan(user.ID, second, utils.SignBagID(second), "d", "1.1.1.1")
	if err != nil {
		t.Fatalf("second scan: %v", err)
	}
	if res.SpinsAwarded != 0 {
		t.Fatalf("second scan same day awarded %d spins, want 0", res.SpinsAwarded)
	}
}

func TestProcessScanGrantsSpinAfterMidnight(t *testing.T) {
	db := setupTestDB(t)
	svc := NewScanService(db)
	user := createTestUser(t, db, 0, "")

	yesterday := time.Now().Add(-24 * time.Hour)
	if err := db.Model(user).Update("last_spin", yesterday).Error; err != nil {
		t.Fatalf("stamp last_spin: %v", err)
	}

	bagID := "daily-bag_000003"
	res, err := svc.ProcessScan(user.ID, bagID, utils.SignBagID(bagID), "d", "1.1.1.1")
	if err != nil {
		t.Fatalf("scan: %v", err)
	}
	if res.SpinsAwarded != 1 {
		t.Fatalf("scan after a last_spin from yesterday awarded %d spins, want 1", res.SpinsAwarded)
	}
}

func TestProcessScanRegistersLegacyBag(t *testing.T) {
	db := setupTestDB(t)
	svc := NewScanService(db)
	user := createTestUser(t, db, 0, "")

	// no snapbag row exists for this id; it predates the batch system
	bagID := "legacy-bag-0042"
	if _, err := svc.ProcessScan(user.ID, bagID, utils.SignBagID(bagID), "d", "1.1.1.1"); err != nil {
		t.Fatalf("scan: %v", err)
	}

	var snapbag models.Snapbag
	if err := db.First(&snapbag, "bag_id = ?", bagID).Error; err != nil {
		t.Fatalf("legacy snapbag not registered: %v", err)
	}
	if snapbag.BatchID != models.DefaultBatchID {
		t.Fatalf("legacy bag batch = %q, want %q", snapbag.BatchID, models.DefaultBatchID)
	}

	var batch models.QRBatch
	if err := db.First(&batch, "id = ?", models.DefaultBatchID).Error; err != nil {
		t.Fatalf("legacy batch not created: %v", err)
	}
}

func TestProcessScanCreatesUserOnFirstContact(t *testing.T) {
	db := setupTestDB(t)
	svc := NewScanService(db)

	bagID := "first-contact_000001"
	userID := "user-from-auth-service"
	if _, err := svc.ProcessScan(userID, bagID, utils.SignBagID(bagID), "d", "1.1.1.1"); err != nil {
		t.Fatalf("scan: %v", err)
	}

	var user models.User
	if err := db.First(&user, "id = ?", userID).Error; err != nil {
		t.Fatalf("balance row not created on first contact: %v", err)
	}
	if user.Points != ScanPoints || user.Level != 1 {
		t.Fatalf("new user balance = (%d points, level %d), want (%d, 1)", user.Points, user.Level, ScanPoints)
	}
}
