package models

import (
	"time"

	"gorm.io/gorm"
)

// User mirrors the account row owned by the external accounts service,
// extended with the loyalty balance this service mutates.
type User struct {
	ID        string `gorm:"primaryKey;type:uuid" json:"id"`
	Email     string `gorm:"index" json:"email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`

	// Province drives wheel prize eligibility; synced from the accounts service.
	Province string `json:"province"`

	Points         int        `gorm:"default:0;not null" json:"points"`
	LifetimeXP     int        `gorm:"default:0;not null" json:"lifetime_xp"`
	Level          int        `gorm:"default:1;not null" json:"level"`
	SpinsAvailable int        `gorm:"default:0;not null" json:"spins_available"`
	LastSpin       *time.Time `json:"last_spin,omitempty"`

	Timestamps
}

// Timestamps adds GORM auto-times
type Timestamps struct {
	CreatedAt time.Time      `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time      `json:"updated_at" gorm:"autoUpdateTime"`
	DeletedAt gorm.DeletedAt `json:"deleted_at,omitempty" gorm:"index"`
}

// LevelForXP derives the level from lifetime XP: one level per 500 LXP.
func LevelForXP(lifetimeXP int) int {
	return lifetimeXP/500 + 1
}
