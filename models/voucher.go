package models

import "time"

// VoucherStatus is the voucher lifecycle state. Transitions only move forward:
// pending_claim → claimed → used, with expired reachable from the first two.
type VoucherStatus string

const (
	VoucherPendingClaim VoucherStatus = "pending_claim" // won, not yet claimed by the user
	VoucherClaimed      VoucherStatus = "claimed"       // claimed, 10 minute redemption window running
	VoucherUsed         VoucherStatus = "used"          // redeemed by a partner
	VoucherExpired      VoucherStatus = "expired"       // claim window or overall validity passed
)

// Voucher tracks a prize won on the wheel until it is redeemed or expires.
type Voucher struct {
	ID           string        `gorm:"primaryKey;type:uuid" json:"id"`
	UserID       string        `gorm:"index;not null" json:"user_id"`
	WheelPrizeID string        `gorm:"not null" json:"wheel_prize_id"`
	PartnerID    string        `gorm:"index;not null" json:"partner_id"`
	VoucherCode  string        `gorm:"uniqueIndex;not null" json:"voucher_code"`
	Status       VoucherStatus `gorm:"default:'pending_claim';not null" json:"status"`
	ExpiresAt    time.Time     `gorm:"not null" json:"expires_at"` // overall validity, set from the prize
	ClaimedAt    *time.Time    `json:"claimed_at,omitempty"`
	RedeemedAt   *time.Time    `json:"redeemed_at,omitempty"`
	RedeemedBy   string        `json:"redeemed_by,omitempty"` // partner user that scanned the code
	CreatedAt    time.Time     `json:"created_at"`
}
