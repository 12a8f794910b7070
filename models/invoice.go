package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type InvoiceStatus string

const (
	InvoiceIssued InvoiceStatus = "issued"
	InvoicePaid   InvoiceStatus = "paid"
	InvoiceVoid   InvoiceStatus = "void"
)

// Invoice is generated at check-out from the reservation's frozen pricing
// snapshot. Line-item bookkeeping beyond the snapshot is external.
type Invoice struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	InvoiceNumber string `gorm:"column:invoice_number;uniqueIndex;size:16" json:"invoice_number"`
	ReservationID uint   `gorm:"column:reservation_id;index" json:"reservation_id"`
	GuestID       uint   `gorm:"column:guest_id;index" json:"guest_id"`

	Subtotal    decimal.Decimal `gorm:"column:subtotal;type:decimal(10,2)" json:"subtotal"`
	TaxAmount   decimal.Decimal `gorm:"column:tax_amount;type:decimal(10,2)" json:"tax_amount"`
	TotalAmount decimal.Decimal `gorm:"column:total_amount;type:decimal(10,2)" json:"total_amount"`
	Currency    string          `gorm:"column:currency;size:3" json:"currency"`

	Status    InvoiceStatus  `gorm:"column:status;size:32" json:"status"`
	LineItems datatypes.JSON `gorm:"column:line_items" json:"line_items,omitempty"`
	IssuedAt  time.Time      `gorm:"column:issued_at" json:"issued_at"`
}
