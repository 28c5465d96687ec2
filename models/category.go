package models

import (
	"strings"
	"time"

	"gorm.io/gorm"
)

type Category struct {
	ID            uint          `json:"id" gorm:"primaryKey"`
	Name          string        `json:"name" gorm:"not null"`
	Icon          string        `json:"icon"`
	BannerImage   string        `json:"banner_image"`
	BannerAlt     string        `json:"banner_alt"`
	Active        bool          `json:"active"`
	SubCategories []SubCategory `json:"children,omitempty" gorm:"foreignKey:CategoryID;constraint:OnDelete:CASCADE"`
	CreatedAt     time.Time     `json:"created_at"`
	UpdatedAt     time.Time     `json:"updated_at"`
}

// BeforeSave hook to ensure name is always trimmed
func (c *Category) BeforeSave(tx *gorm.DB) error {
	c.Name = strings.TrimSpace(c.Name)
	return nil
}

// SubCategory is the second level of the category tree
type SubCategory struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	Name        string    `json:"name" gorm:"not null"`
	Image       string    `json:"image"`
	Description string    `json:"description"`
	CategoryID  uint      `json:"category_id" gorm:"not null;index"`
	Category    *Category `json:"category,omitempty" gorm:"foreignKey:CategoryID"`
	IsActive    bool      `json:"is_active"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (SubCategory) TableName() string {
	return "subcategories"
}

func (s *SubCategory) BeforeSave(tx *gorm.DB) error {
	s.Name = strings.TrimSpace(s.Name)
	return nil
}
