package models

import "time"

const (
	NotificationOrder   = "order"
	NotificationReturn  = "return"
	NotificationStock   = "stock"
	NotificationGeneral = "general"
)

// Notification is an entry in the admin console feed.
type Notification struct {
	ID             uint      `json:"id" gorm:"primaryKey"`
	Type           string    `json:"type" gorm:"not null"`
	Title          string    `json:"title" gorm:"not null"`
	Message        string    `json:"message" gorm:"not null"`
	RelatedID      string    `json:"related_id"`
	IsRead         bool      `json:"is_read" gorm:"index"`
	TargetAudience string    `json:"target_audience"`
	Status         string    `json:"status"`
	CreatedAt      time.Time `json:"created_at"`
}

// AllModels lists every table for AutoMigrate.
func AllModels() []interface{} {
	return []interface{}{
		&User{},
		&Admin{},
		&Category{},
		&SubCategory{},
		&Product{},
		&ProductSKU{},
		&Banner{},
		&BannerSlide{},
		&Offer{},
		&BankOffer{},
		&Coupon{},
		&PinCode{},
		&Order{},
		&OrderItem{},
		&ReturnRequest{},
		&ReturnEvent{},
		&Review{},
		&Notification{},
		&Payment{},
		&BlacklistedToken{},
		&Address{},
		&Wishlist{},
	}
}
