package models

import (
	"time"
)

// Order status constants
const (
	OrderStatusPending               = "Pending"
	OrderStatusConfirmed             = "Confirmed"
	OrderStatusPacked                = "Packed"
	OrderStatusDispatched            = "Dispatched"
	OrderStatusOutForDelivery        = "Out for Delivery"
	OrderStatusDelivered             = "Delivered"
	OrderStatusCancelled             = "Cancelled"
	OrderStatusCancellationRequested = "Cancellation Requested"
)

// Order item status values beyond the order statuses
const (
	ItemStatusReturnRequested      = "Return Requested"
	ItemStatusReplacementRequested = "Replacement Requested"
	ItemStatusReturned             = "Returned"
	ItemStatusReplaced             = "Replaced"
)

const PaymentMethodCOD = "COD"
const DefaultSerialType = "Serial Number"

var OrderStatuses = []string{
	OrderStatusPending,
	OrderStatusConfirmed,
	OrderStatusPacked,
	OrderStatusDispatched,
	OrderStatusOutForDelivery,
	OrderStatusDelivered,
	OrderStatusCancelled,
	OrderStatusCancellationRequested,
}

type ShippingAddress struct {
	Name       string `json:"name"`
	Email      string `json:"email"`
	Phone      string `json:"phone"`
	Street     string `json:"street"`
	City       string `json:"city"`
	PostalCode string `json:"postal_code"`
	Country    string `json:"country"`
}

type PaymentResult struct {
	ID              string `json:"id"`
	Status          string `json:"status"`
	RazorpayOrderID string `json:"razorpay_order_id"`
	CardNetwork     string `json:"card_network"`
	CardLast4       string `json:"card_last4"`
	CardType        string `json:"card_type"`
}

type Order struct {
	ID               uint            `gorm:"primaryKey" json:"id"`
	DisplayID        string          `gorm:"uniqueIndex" json:"display_id"`
	UserID           uint            `json:"user_id" gorm:"index"`
	User             User            `json:"user" gorm:"foreignKey:UserID"`
	OrderItems       []OrderItem     `json:"items" gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	ShippingAddress  ShippingAddress `json:"shipping_address" gorm:"embedded;embeddedPrefix:shipping_"`
	PaymentMethod    string          `json:"payment_method"`
	PaymentResult    PaymentResult   `json:"payment_result" gorm:"embedded;embeddedPrefix:payment_"`
	ItemsPrice       float64         `json:"items_price"`
	TaxPrice         float64         `json:"tax_price"`
	ShippingPrice    float64         `json:"shipping_price"`
	DiscountPrice    float64         `json:"discount_price"`
	CouponCode       string          `json:"coupon_code,omitempty"`
	TotalPrice       float64         `json:"total_price"`
	IsPaid           bool            `json:"is_paid"`
	PaidAt           *time.Time      `json:"paid_at,omitempty"`
	IsDelivered      bool            `json:"is_delivered"`
	DeliveredAt      *time.Time      `json:"delivered_at,omitempty"`
	DeliveryOTP      string          `json:"-"`
	DeliveryOTPUntil *time.Time      `json:"-"`
	OTPVerified      bool            `json:"otp_verified"`
	InvoiceEnabled   bool            `json:"invoice_enabled"`
	TransactionID    string          `json:"transaction_id"`
	Status           string          `json:"status" gorm:"index"`
	CreatedAt        time.Time       `json:"created_at"`
	UpdatedAt        time.Time       `json:"updated_at"`
}

type OrderItem struct {
	ID           uint        `gorm:"primaryKey" json:"id"`
	OrderID      uint        `json:"order_id" gorm:"index"`
	ProductID    uint        `json:"product_id" gorm:"index"`
	Name         string      `json:"name"`
	Qty          int         `json:"qty"`
	Image        string      `json:"image"`
	Price        float64     `json:"price"`
	Variant      Combination `json:"variant" gorm:"type:text"`
	SerialNumber string      `json:"serial_number"`
	SerialType   string      `json:"serial_type"`
	Status       string      `json:"status"`
}
