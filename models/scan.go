package models

import "time"

// QRScan is the scan ledger entry. One row per (user, snapbag) ever; the
// composite unique index is what turns a replayed scan into a conflict.
type QRScan struct {
	ID            string    `gorm:"primaryKey;type:uuid" json:"id"`
	UserID        string    `gorm:"uniqueIndex:idx_user_bag;not null" json:"user_id"`
	SnapbagID     string    `gorm:"uniqueIndex:idx_user_bag;not null" json:"snapbag_id"`
	DeviceID      string    `json:"device_id"`
	IPAddress     string    `json:"ip_address"`
	PointsAwarded int       `gorm:"default:0;not null" json:"points_awarded"`
	XPAwarded     int       `gorm:"default:0;not null" json:"xp_awarded"`
	ScannedAt     time.Time `gorm:"autoCreateTime" json:"scanned_at"`
}
