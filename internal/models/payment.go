package models

import (
	"time"

	"gorm.io/gorm"
)

// PaymentStatus follows the gateway lifecycle of an order
type PaymentStatus string

const (
	PaymentStatusPending   PaymentStatus = "PENDING"
	PaymentStatusCompleted PaymentStatus = "COMPLETED"
	PaymentStatusFailed    PaymentStatus = "FAILED"
)

// Payment is a filing-fee payment intent. A row is created when the
// client asks to pay (PENDING, amount snapshotted from the current ITR
// price) and is moved to COMPLETED exactly once by webhook
// reconciliation. Rows are never deleted; retries create new rows.
type Payment struct {
	ID        uint           `gorm:"primarykey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`

	UserID        uint          `gorm:"index" json:"user_id"`
	OrderID       string        `gorm:"type:varchar(100);uniqueIndex" json:"order_id"`
	Amount        int           `json:"amount"` // rupees
	Currency      string        `gorm:"type:varchar(10);default:'INR'" json:"currency"`
	PaymentStatus PaymentStatus `gorm:"type:varchar(20);default:'PENDING'" json:"payment_status"`
	PaymentMethod string        `gorm:"type:varchar(30)" json:"payment_method"`
	TransactionID string        `gorm:"type:varchar(100)" json:"transaction_id,omitempty"`
	PaymentDate   *time.Time    `json:"payment_date,omitempty"`
	ItrType       ItrType       `gorm:"type:varchar(10)" json:"itr_type"` // snapshot at intent creation

	User User `gorm:"foreignKey:UserID" json:"user,omitempty"`
}
