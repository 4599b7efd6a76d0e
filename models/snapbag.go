package models

import "time"

// DefaultBatchID groups legacy bags that were printed before the batch system.
const DefaultBatchID = "default-batch"

// QRBatch groups generated snapbag codes for one print run.
type QRBatch struct {
	ID          string    `gorm:"primaryKey;type:uuid" json:"id"`
	BatchName   string    `gorm:"not null" json:"batch_name"`
	Description string    `gorm:"type:text" json:"description"`
	TotalCodes  int       `gorm:"not null" json:"total_codes"`
	IsActive    bool      `gorm:"default:true;not null" json:"is_active"`
	CreatedAt   time.Time `json:"created_at"`
}

// Snapbag is a physical token. Immutable after batch generation except deactivation.
type Snapbag struct {
	ID            string    `gorm:"primaryKey;type:uuid" json:"id"`
	BagID         string    `gorm:"uniqueIndex;not null" json:"bag_id"`
	BatchID       string    `gorm:"index;not null" json:"batch_id"`
	HMACSignature string    `gorm:"type:text;not null" json:"hmac_signature"`
	IsActive      bool      `gorm:"default:true;not null" json:"is_active"`
	CreatedAt     time.Time `json:"created_at"`
}
