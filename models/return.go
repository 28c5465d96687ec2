package models

import (
	"time"
)

const (
	ReturnTypeReturn       = "Return"
	ReturnTypeReplacement  = "Replacement"
	ReturnTypeCancellation = "Cancellation"
)

const (
	ReturnStatusPending               = "Pending"
	ReturnStatusApproved              = "Approved"
	ReturnStatusPickupScheduled       = "Pickup Scheduled"
	ReturnStatusReceivedAtWarehouse   = "Received at Warehouse"
	ReturnStatusRefundInitiated       = "Refund Initiated"
	ReturnStatusReplacementDispatched = "Replacement Dispatched"
	ReturnStatusCompleted             = "Completed"
	ReturnStatusRejected              = "Rejected"
)

type ReturnProduct struct {
	Name  string  `json:"name"`
	Image string  `json:"image"`
	Price float64 `json:"price"`
}

// ReturnRequest tracks a return, replacement or cancellation raised by a customer.
type ReturnRequest struct {
	ID          uint          `json:"id" gorm:"primaryKey"`
	PublicID    string        `json:"return_id" gorm:"uniqueIndex;not null"`
	OrderID     uint          `json:"order_id" gorm:"index"`
	Order       *Order        `json:"order,omitempty" gorm:"foreignKey:OrderID"`
	OrderItemID *uint         `json:"order_item_id"`
	CustomerID  uint          `json:"customer_id" gorm:"index"`
	Customer    *User         `json:"customer,omitempty" gorm:"foreignKey:CustomerID"`
	Product     ReturnProduct `json:"product" gorm:"embedded;embeddedPrefix:product_"`
	Type        string        `json:"type" gorm:"not null"`
	Reason      string        `json:"reason" gorm:"not null"`
	Comment     string        `json:"comment"`
	Images      StringList    `json:"images" gorm:"type:text"`
	Status      string        `json:"status" gorm:"index"`
	Timeline    []ReturnEvent `json:"timeline" gorm:"foreignKey:ReturnRequestID;constraint:OnDelete:CASCADE"`
	CreatedAt   time.Time     `json:"created_at"`
	UpdatedAt   time.Time     `json:"updated_at"`
}

type ReturnEvent struct {
	ID              uint      `json:"-" gorm:"primaryKey"`
	ReturnRequestID uint      `json:"-" gorm:"index"`
	Status          string    `json:"status"`
	Time            time.Time `json:"time"`
	Note            string    `json:"note"`
}
