package models

import (
	"time"
)

// Address is an entry in a customer's address book. Orders copy it into ShippingAddress.
type Address struct {
	ID         uint      `json:"id" gorm:"primaryKey"`
	UserID     uint      `json:"user_id" gorm:"not null;index"`
	Name       string    `json:"name"`
	Phone      string    `json:"phone"`
	Street     string    `json:"street"`
	City       string    `json:"city"`
	PostalCode string    `json:"postal_code"`
	Country    string    `json:"country"`
	IsDefault  bool      `json:"is_default"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// Snapshot converts the address into the shape stored on an order.
func (a *Address) Snapshot(email string) ShippingAddress {
	return ShippingAddress{
		Name:       a.Name,
		Email:      email,
		Phone:      a.Phone,
		Street:     a.Street,
		City:       a.City,
		PostalCode: a.PostalCode,
		Country:    a.Country,
	}
}
