package models

import (
	"time"
)

// Wishlist is one saved product of a customer
type Wishlist struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	UserID    uint      `json:"user_id" gorm:"not null;uniqueIndex:idx_wishlist_user_product"`
	ProductID uint      `json:"product_id" gorm:"not null;uniqueIndex:idx_wishlist_user_product"`
	Product   Product   `json:"-" gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE"`
	CreatedAt time.Time `json:"created_at"`
}
