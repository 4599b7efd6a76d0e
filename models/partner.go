package models

import "strings"

// PointsPartnerName is the distinguished house partner whose vouchers pay out
// in loyalty points instead of goods.
const PointsPartnerName = "Snapbag"

type PartnerCategory string

const (
	PartnerCategoryRestaurant    PartnerCategory = "restaurant"
	PartnerCategoryRetail        PartnerCategory = "retail"
	PartnerCategoryService       PartnerCategory = "service"
	PartnerCategoryEntertainment PartnerCategory = "entertainment"
	PartnerCategoryHealth        PartnerCategory = "health"
	PartnerCategoryTravel        PartnerCategory = "travel"
	PartnerCategoryOther         PartnerCategory = "other"
)

// Partner is a merchant that backs wheel prizes and redeems vouchers.
// Account management happens in the partner portal; this service only reads.
type Partner struct {
	ID          string          `gorm:"primaryKey;type:uuid" json:"id"`
	Name        string          `gorm:"not null" json:"name"`
	Email       string          `gorm:"uniqueIndex;not null" json:"email"`
	CompanyName string          `json:"company_name"`
	Description string          `gorm:"type:text" json:"description"`
	Category    PartnerCategory `gorm:"default:'other'" json:"category"`
	LogoURL     string          `json:"logo_url"`
	IsActive    bool            `gorm:"default:true;not null" json:"is_active"`

	Timestamps
}

// IsPointsPartner reports whether vouchers of this partner credit points on redemption.
func (p *Partner) IsPointsPartner() bool {
	return p != nil && strings.EqualFold(p.Name, PointsPartnerName)
}
