package models

// WheelPrize is one of the 12 configurable segments on the prize wheel.
// Segments are expected to partition the full circle; the resolver falls back
// to the first eligible prize if they do not.
type WheelPrize struct {
	ID          string `gorm:"primaryKey;type:uuid" json:"id"`
	Position    int    `gorm:"uniqueIndex;not null" json:"position"` // 1-12, order on the wheel
	PartnerID   string `gorm:"index;not null" json:"partner_id"`
	PrizeTitle  string `gorm:"not null" json:"prize_title"`
	Description string `gorm:"type:text" json:"description"`

	// PointsValue is the explicit payout for points-partner prizes. Zero for
	// goods prizes and for losing segments.
	PointsValue int `gorm:"default:0;not null" json:"points_value"`

	ValidityDays int    `gorm:"default:30;not null" json:"validity_days"`
	Conditions   string `gorm:"type:text" json:"conditions"`
	Color        string `gorm:"not null" json:"color"`

	// Segment on the 360° circle. StartAngle > EndAngle means the segment
	// wraps past 0° (e.g. 345-15).
	StartAngle int `gorm:"not null" json:"start_angle"`
	EndAngle   int `gorm:"not null" json:"end_angle"`

	IsNational bool     `gorm:"default:true;not null" json:"is_national"`
	Provinces  []string `gorm:"serializer:json" json:"provinces"`
	IsActive   bool     `gorm:"default:true;not null" json:"is_active"`

	Timestamps
}

// EligibleFor reports whether a user in the given province can win this prize.
// National prizes are open to everyone; provincial prizes require a matching,
// non-empty user province.
func (p *WheelPrize) EligibleFor(province string) bool {
	if p.IsNational {
		return true
	}
	if province == "" {
		return false
	}
	for _, pv := range p.Provinces {
		if pv == province {
			return true
		}
	}
	return false
}
