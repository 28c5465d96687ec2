package models

import (
	"strings"
	"time"

	"gorm.io/gorm"
)

const (
	DeliveryUnitHours   = "hours"
	DeliveryUnitDays    = "days"
	DeliveryUnitMinutes = "minutes"
)

// PinCode marks a postal code as serviceable.
type PinCode struct {
	ID           uint   `json:"id" gorm:"primaryKey"`
	Code         string `json:"code" gorm:"uniqueIndex;not null"`
	DeliveryTime int    `json:"delivery_time" gorm:"not null"`
	Unit         string `json:"unit"`
	IsActive     bool   `json:"is_active"`
	IsCOD        bool   `json:"is_cod"`
	// ShippingCharge is waived when the items total reaches FreeAbove (0 = never free).
	ShippingCharge float64   `json:"shipping_charge"`
	FreeAbove      float64   `json:"free_above"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

func (PinCode) TableName() string {
	return "pincodes"
}

func (p *PinCode) BeforeSave(tx *gorm.DB) error {
	p.Code = strings.TrimSpace(p.Code)
	if p.Unit == "" {
		p.Unit = DeliveryUnitDays
	}
	return nil
}
