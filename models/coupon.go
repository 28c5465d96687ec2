package models

import (
	"time"
)

type Coupon struct {
	ID                 uint      `gorm:"primaryKey" json:"id"`
	Type               string    `json:"type"` // "percentage" or "flat"
	Title              string    `json:"title" gorm:"not null"`
	Description        string    `json:"description"`
	Active             bool      `json:"active"`
	IsOffer            bool      `json:"is_offer"`
	Code               *string   `gorm:"uniqueIndex" json:"code"`
	Value              float64   `json:"value"`
	MinPurchase        float64   `json:"min_purchase"`
	MaxDiscount        float64   `json:"max_discount"`
	ExpiryDate         string    `json:"expiry_date"` // YYYY-MM-DD
	UserSegment        string    `json:"user_segment"`
	ApplicableCategory string    `json:"applicable_category"`
	UsageCount         int       `json:"usage_count"`
	Terms              string    `json:"terms"`
	CreatedAt          time.Time `json:"created_at"`
	UpdatedAt          time.Time `json:"updated_at"`
}

// Expired reports whether the coupon's expiry day is before the day of now.
func (c *Coupon) Expired(now time.Time) bool {
	if c.ExpiryDate == "" {
		return false
	}
	expiry, err := time.ParseInLocation("2006-01-02", c.ExpiryDate, now.Location())
	if err != nil {
		return false
	}
	return now.After(expiry.Add(24*time.Hour - time.Nanosecond))
}
