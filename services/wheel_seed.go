// services/wheel_seed.go
package services

import (
	"fmt"
	"time"

	"snapbag-reward-system/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type seedSegment struct {
	position   int
	points     int
	color      string
	startAngle int
	endAngle   int
	label      string
}

// defaultWheel is the standard national 12-segment layout. Position 1 wraps
// past 0° and position 4 is the jackpot.
var defaultWheel = []seedSegment{
	{1, 10, "#8B5CF6", 345, 15, "10 Punten"},
	{2, 25, "#10B981", 15, 45, "25 Punten"},
	{3, 15, "#3B82F6", 45, 75, "15 Punten"},
	{4, 100, "#F59E0B", 75, 105, "JACKPOT"},
	{5, 55, "#EAB308", 105, 135, "55 Punten"},
	{6, 0, "#6B7280", 135, 165, "Helaas"},
	{7, 55, "#EC4899", 165, 195, "55 Punten"},
	{8, 10, "#06B6D4", 195, 225, "10 Punten"},
	{9, 0, "#059669", 225, 255, "Helaas"},
	{10, 20, "#1D4ED8", 255, 285, "20 Punten"},
	{11, 10, "#DC2626", 285, 315, "10 Punten"},
	{12, 30, "#7C3AED", 315, 345, "30 Punten"},
}

// SeedDefaultWheel replaces the wheel configuration with the default national
// table, backed by the house points partner (created if absent).
func SeedDefaultWheel(db *gorm.DB) ([]models.WheelPrize, error) {
	partner := models.Partner{
		ID:          uuid.NewString(),
		Name:        models.PointsPartnerName,
		Email:       "info@snapbag.nl",
		CompanyName: "Snapbag B.V.",
		Description: "Snapbag house prizes",
		Category:    models.PartnerCategoryOther,
		IsActive:    true,
	}
	if err := db.Where("name = ?", models.PointsPartnerName).FirstOrCreate(&partner).Error; err != nil {
		return nil, err
	}

	var created []models.WheelPrize
	err := db.Transaction(func(tx *gorm.DB) error {
		// hard delete: soft-deleted rows would still occupy the position index
		if err := tx.Unscoped().Where("1 = 1").Delete(&models.WheelPrize{}).Error; err != nil {
			return err
		}
		for _, seg := range defaultWheel {
			prize := models.WheelPrize{
				ID:           uuid.NewString(),
				Position:     seg.position,
				PartnerID:    partner.ID,
				PrizeTitle:   seg.label,
				Description:  fmt.Sprintf("Win %d seizoen punten!", seg.points),
				PointsValue:  seg.points,
				ValidityDays: 30,
				Conditions:   "Te gebruiken bij deelnemende partners",
				Color:        seg.color,
				StartAngle:   seg.startAngle,
				EndAngle:     seg.endAngle,
				IsNational:   true,
				Provinces:    []string{},
				IsActive:     true,
				Timestamps:   models.Timestamps{CreatedAt: time.Now(), UpdatedAt: time.Now()},
			}
			if err := tx.Create(&prize).Error; err != nil {
				return err
			}
			created = append(created, prize)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}
