package models

import (
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Payment is owned 1:1 by its appointment and never outlives it.
// GatewayEventID records the last applied webhook event, which is what makes
// redelivered events a no-op.
type Payment struct {
	gorm.Model
	AppointmentID  uint           `json:"appointment_id" gorm:"uniqueIndex;not null"`
	Amount         float64        `json:"amount"`
	TransactionID  string         `json:"transaction_id" gorm:"unique;not null"`
	Status         PaymentStatus  `json:"status"`
	GatewayEventID *string        `json:"gateway_event_id,omitempty" gorm:"uniqueIndex"`
	GatewayPayload datatypes.JSON `json:"gateway_payload,omitempty"`
}

func (p *Payment) BeforeCreate(tx *gorm.DB) error {
	if p.Status == "" {
		p.Status = PaymentUnpaid
	}
	return nil
}
