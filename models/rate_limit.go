package models

import "time"

// RateLimit is one request counted toward a sliding window. Rows are summed
// over the trailing window and pruned once they can no longer matter.
type RateLimit struct {
	ID          string    `gorm:"primaryKey;type:uuid" json:"id"`
	Identifier  string    `gorm:"index:idx_rate_window;not null" json:"identifier"` // user ID or client IP
	Action      string    `gorm:"index:idx_rate_window;not null" json:"action"`
	Count       int       `gorm:"default:1;not null" json:"count"`
	WindowStart time.Time `gorm:"index:idx_rate_window;not null" json:"window_start"`
	CreatedAt   time.Time `json:"created_at"`
}
