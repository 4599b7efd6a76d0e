// services/users.go
package services

import (
	"errors"
	"fmt"
	"time"

	"snapbag-reward-system/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ensureUser loads the local balance row for an externally-owned account,
// creating it on first contact (accounts live in the auth service; we only
// mirror the loyalty fields).
func ensureUser(tx *gorm.DB, userID string) (*models.User, error) {
	var user models.User
	err := tx.First(&user, "id = ?", userID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		user = models.User{
			ID:    userID,
			Level: 1,
		}
		if err := tx.Create(&user).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				// concurrent first contact; the row exists now
				if err := tx.First(&user, "id = ?", userID).Error; err != nil {
					return nil, err
				}
				return &user, nil
			}
			return nil, fmt.Errorf("failed to create user record: %w", err)
		}
		return &user, nil
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// creditPoints adds points and lifetime XP to a user and recomputes the
// derived level. Additions are monotonic, so no compare-and-set is needed here.
func creditPoints(tx *gorm.DB, userID string, points, xp int) error {
	var user models.User
	if err := tx.First(&user, "id = ?", userID).Error; err != nil {
		return fmt.Errorf("balance row not found for %s: %w", userID, err)
	}

	newXP := user.LifetimeXP + xp
	return tx.Model(&models.User{}).Where("id = ?", userID).Updates(map[string]interface{}{
		"points":      gorm.Expr("points + ?", points),
		"lifetime_xp": newXP,
		"level":       models.LevelForXP(newXP),
	}).Error
}

type UserService struct {
	DB *gorm.DB
}

func NewUserService(db *gorm.DB) *UserService {
	return &UserService{DB: db}
}

// GetUser returns the loyalty balance row, nil when the user has no activity yet.
func (s *UserService) GetUser(userID string) (*models.User, error) {
	var user models.User
	err := s.DB.First(&user, "id = ?", userID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// GrantSpins adds spins to a user (admin support tool) and returns the new count.
func (s *UserService) GrantSpins(userID string, spins int) (int, error) {
	var newCount int
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		user, err := ensureUser(tx, userID)
		if err != nil {
			return err
		}
		if err := tx.Model(&models.User{}).Where("id = ?", userID).
			Update("spins_available", gorm.Expr("spins_available + ?", spins)).Error; err != nil {
			return err
		}
		newCount = user.SpinsAvailable + spins

		audit := models.Transaction{
			ID:          uuid.NewString(),
			UserID:      userID,
			Type:        models.TransactionAdminGrant,
			Description: fmt.Sprintf("Admin granted %d spins", spins),
			CreatedAt:   time.Now(),
		}
		return tx.Create(&audit).Error
	})
	if err != nil {
		return 0, err
	}
	return newCount, nil
}
