// services/rate_limiter.go
package services

import (
	"log"
	"time"

	"snapbag-reward-system/models"

	"github.com/go-co-op/gocron/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// RateLimiter is a sliding-window throttle backed by the rate_limits table.
// Each recorded request is a row; Allow sums counts over the trailing window.
// Two requests racing the boundary may both be admitted — the cost is one
// extra request over quota, never a safety violation.
type RateLimiter struct {
	DB *gorm.DB
}

func NewRateLimiter(db *gorm.DB) *RateLimiter {
	return &RateLimiter{DB: db}
}

// Allow reports whether identifier may perform action given maxRequests per
// windowMinutes. Callers must Record only after a permitted request.
func (l *RateLimiter) Allow(identifier, action string, maxRequests, windowMinutes int) (bool, error) {
	windowStart := time.Now().Add(-time.Duration(windowMinutes) * time.Minute)

	var total int64
	err := l.DB.Model(&models.RateLimit{}).
		Where("identifier = ? AND action = ? AND window_start >= ?", identifier, action, windowStart).
		Select("COALESCE(SUM(count), 0)").
		Scan(&total).Error
	if err != nil {
		return false, err
	}

	return total < int64(maxRequests), nil
}

// Record counts one request toward the window.
func (l *RateLimiter) Record(identifier, action string) error {
	entry := models.RateLimit{
		ID:          uuid.NewString(),
		Identifier:  identifier,
		Action:      action,
		Count:       1,
		WindowStart: time.Now(),
	}
	return l.DB.Create(&entry).Error
}

// StartPruneScheduler deletes window rows old enough that no configured window
// can still sum them. Voucher expiry is deliberately not handled here; it is
// recomputed lazily on every access path.
func (l *RateLimiter) StartPruneScheduler() {
	sched, _ := gocron.NewScheduler()
	sched.Start()

	_, _ = sched.NewJob(
		gocron.DurationJob(1*time.Hour),
		gocron.NewTask(func() {
			cutoff := time.Now().Add(-24 * time.Hour)
			res := l.DB.Where("window_start < ?", cutoff).Delete(&models.RateLimit{})
			if res.Error != nil {
				log.Printf("[RateLimiter] prune failed: %v", res.Error)
				return
			}
			if res.RowsAffected > 0 {
				log.Printf("🧹 Pruned %d stale rate limit rows", res.RowsAffected)
			}
		}),
	)
}
