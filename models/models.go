package models

import (
	"strings"
	"time"

	"gorm.io/gorm"
)

// User represents a storefront customer
type User struct {
	gorm.Model
	Name        string     `json:"name"`
	Email       string     `gorm:"uniqueIndex;not null" json:"email"`
	Password    string     `json:"-"`
	Phone       string     `json:"phone"`
	IsBlocked   bool       `json:"is_blocked"`
	GoogleID    *string    `gorm:"unique" json:"google_id,omitempty"`
	LastLoginAt *time.Time `json:"last_login_at,omitempty"`
}

// BeforeSave normalises the email so lookups can use plain equality
func (u *User) BeforeSave(tx *gorm.DB) error {
	u.Email = strings.ToLower(strings.TrimSpace(u.Email))
	return nil
}

// Admin represents a console operator
type Admin struct {
	gorm.Model
	Email     string     `gorm:"uniqueIndex;not null" json:"email"`
	Password  string     `json:"-"`
	Name      string     `json:"name"`
	LastLogin *time.Time `json:"last_login,omitempty"`
	IsActive  bool       `json:"is_active"`
}

func (a *Admin) BeforeSave(tx *gorm.DB) error {
	a.Email = strings.ToLower(strings.TrimSpace(a.Email))
	return nil
}
