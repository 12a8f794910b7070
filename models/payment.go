package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Payment is one recorded payment against a reservation. The row is the
// audit trail; the running paid_amount lives on the reservation itself.
type Payment struct {
	PaymentID     string          `gorm:"column:payment_id;type:uuid;primaryKey" json:"payment_id"`
	ReservationID uint            `gorm:"column:reservation_id;index" json:"reservation_id"`
	Amount        decimal.Decimal `gorm:"column:amount;type:decimal(10,2)" json:"amount"`
	Currency      string          `gorm:"column:currency;size:3" json:"currency"`
	Method        string          `gorm:"column:method;size:32" json:"method"`
	Reference     string          `gorm:"column:reference;size:128" json:"reference,omitempty"`
	CreatedAt     time.Time       `json:"created_at"`
}

func (p *Payment) BeforeCreate(tx *gorm.DB) error {
	if p.PaymentID == "" {
		p.PaymentID = uuid.NewString()
	}
	return nil
}
