package models

import (
	"time"
)

const (
	PaymentStatusCreated  = "created"
	PaymentStatusVerified = "verified"
	PaymentStatusFailed   = "failed"
)

// Payment records a Razorpay order and, once verified, the captured payment.
type Payment struct {
	ID                uint      `json:"id" gorm:"primaryKey"`
	UserID            uint      `json:"user_id" gorm:"index"`
	OrderID           *uint     `json:"order_id"`
	RazorpayOrderID   string    `json:"razorpay_order_id" gorm:"uniqueIndex"`
	RazorpayPaymentID string    `json:"razorpay_payment_id"`
	Receipt           string    `json:"receipt"`
	Amount            float64   `json:"amount"`
	Currency          string    `json:"currency"`
	Status            string    `json:"status"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}
