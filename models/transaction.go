package models

import "time"

// TransactionType labels the audit trail entries this service writes.
type TransactionType string

const (
	TransactionQRScan        TransactionType = "qr_scan"
	TransactionWheelSpin     TransactionType = "wheel_spin"
	TransactionVoucherRedeem TransactionType = "voucher_redeem"
	TransactionAdminGrant    TransactionType = "admin_grant"
)

// Transaction is an append-only audit record of every balance mutation.
type Transaction struct {
	ID          string          `gorm:"primaryKey;type:uuid" json:"id"`
	UserID      string          `gorm:"index;not null" json:"user_id"`
	Type        TransactionType `gorm:"not null" json:"type"`
	Description string          `gorm:"type:text;not null" json:"description"`
	Points      int             `gorm:"default:0;not null" json:"points"`
	LifetimeXP  int             `gorm:"default:0;not null" json:"lifetime_xp"`
	ReferenceID string          `gorm:"index" json:"reference_id"` // scan, voucher or prize row this entry refers to
	CreatedAt   time.Time       `json:"created_at"`
}
