package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ReservationStatus is the single source of truth for a reservation's
// lifecycle stage. Transitions are one-directional except cancellation.
type ReservationStatus string

const (
	ReservationPending    ReservationStatus = "pending"
	ReservationConfirmed  ReservationStatus = "confirmed"
	ReservationCheckedIn  ReservationStatus = "checked_in"
	ReservationCheckedOut ReservationStatus = "checked_out"
	ReservationCancelled  ReservationStatus = "cancelled"
	ReservationNoShow     ReservationStatus = "no_show"
)

func (s ReservationStatus) Valid() bool {
	switch s {
	case ReservationPending, ReservationConfirmed, ReservationCheckedIn,
		ReservationCheckedOut, ReservationCancelled, ReservationNoShow:
		return true
	}
	return false
}

// Terminal reports whether no further transition may leave this status.
func (s ReservationStatus) Terminal() bool {
	switch s {
	case ReservationCheckedOut, ReservationCancelled, ReservationNoShow:
		return true
	}
	return false
}

type PaymentStatus string

const (
	PaymentPending   PaymentStatus = "pending"
	PaymentPartial   PaymentStatus = "partial"
	PaymentCompleted PaymentStatus = "completed"
	PaymentFailed    PaymentStatus = "failed"
	PaymentRefunded  PaymentStatus = "refunded"
)

type Reservation struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	ReservationCode string `gorm:"column:reservation_code;uniqueIndex;size:16" json:"reservation_code"`

	GuestID     uint  `gorm:"column:guest_id;index" json:"guest_id"`
	RoomID      uint  `gorm:"column:room_id;index:idx_reservations_room_status,priority:1" json:"room_id"`
	CreatedByID *uint `gorm:"column:created_by_id" json:"created_by_id,omitempty"`

	// Date-only range, half-open: the guest occupies [check_in_date, check_out_date).
	CheckInDate  time.Time `gorm:"column:check_in_date;index" json:"check_in_date"`
	CheckOutDate time.Time `gorm:"column:check_out_date" json:"check_out_date"`

	Adults   int `gorm:"column:adults;default:1" json:"adults"`
	Children int `gorm:"column:children;default:0" json:"children"`

	Status ReservationStatus `gorm:"column:status;size:32;index:idx_reservations_room_status,priority:2" json:"status"`

	// Pricing snapshot, frozen at creation. Later room price changes do not
	// touch these fields.
	BasePricePerNight decimal.Decimal `gorm:"column:base_price_per_night;type:decimal(10,2)" json:"base_price_per_night"`
	Nights            int             `gorm:"column:nights" json:"nights"`
	Subtotal          decimal.Decimal `gorm:"column:subtotal;type:decimal(10,2)" json:"subtotal"`
	DiscountAmount    decimal.Decimal `gorm:"column:discount_amount;type:decimal(10,2)" json:"discount_amount"`
	TaxAmount         decimal.Decimal `gorm:"column:tax_amount;type:decimal(10,2)" json:"tax_amount"`
	TotalAmount       decimal.Decimal `gorm:"column:total_amount;type:decimal(10,2)" json:"total_amount"`
	Currency          string          `gorm:"column:currency;size:3" json:"currency"`

	PaymentStatus PaymentStatus   `gorm:"column:payment_status;size:32" json:"payment_status"`
	PaidAmount    decimal.Decimal `gorm:"column:paid_amount;type:decimal(10,2)" json:"paid_amount"`

	// A pending reservation holds its room only until this deadline; the
	// periodic sweep releases overdue holds.
	PaymentDeadline *time.Time `gorm:"column:payment_deadline;index" json:"payment_deadline,omitempty"`

	ConfirmedAt   *time.Time `gorm:"column:confirmed_at" json:"confirmed_at,omitempty"`
	ConfirmedByID *uint      `gorm:"column:confirmed_by_id" json:"confirmed_by_id,omitempty"`

	CancelledAt        *time.Time `gorm:"column:cancelled_at" json:"cancelled_at,omitempty"`
	CancelledByID      *uint      `gorm:"column:cancelled_by_id" json:"cancelled_by_id,omitempty"`
	CancellationReason string     `gorm:"column:cancellation_reason;type:text" json:"cancellation_reason,omitempty"`

	ActualCheckIn  *time.Time `gorm:"column:actual_check_in" json:"actual_check_in,omitempty"`
	ActualCheckOut *time.Time `gorm:"column:actual_check_out" json:"actual_check_out,omitempty"`

	Room  Room  `gorm:"foreignKey:RoomID;references:ID" json:"room,omitempty"`
	Guest Guest `gorm:"foreignKey:GuestID;references:ID" json:"guest,omitempty"`
}
