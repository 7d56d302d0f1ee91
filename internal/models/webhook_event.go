package models

import (
	"encoding/json"
	"time"

	"gorm.io/gorm"
)

// PaymentGateway identifies the gateway a webhook came from
type PaymentGateway string

const (
	PaymentGatewayRazorpay PaymentGateway = "razorpay"
)

// WebhookEvent is an audit record of every signature-verified gateway
// notification, stored with the raw payload exactly as received.
type WebhookEvent struct {
	ID             uint            `gorm:"primaryKey" json:"id"`
	PaymentGateway PaymentGateway  `gorm:"type:varchar(50);not null" json:"payment_gateway"`
	EventType      string          `gorm:"type:varchar(100)" json:"event_type"`
	OrderID        string          `gorm:"type:varchar(100);index" json:"order_id"`
	Payload        json.RawMessage `gorm:"type:jsonb" json:"payload"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
	DeletedAt      gorm.DeletedAt  `gorm:"index" json:"deleted_at,omitempty"`
}
