package models

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// RoomCategory is the closed set of room classes the hotel sells.
type RoomCategory string

const (
	CategoryStandard     RoomCategory = "standard"
	CategoryDeluxe       RoomCategory = "deluxe"
	CategorySuite        RoomCategory = "suite"
	CategoryPresidential RoomCategory = "presidential"
)

func (c RoomCategory) Valid() bool {
	switch c {
	case CategoryStandard, CategoryDeluxe, CategorySuite, CategoryPresidential:
		return true
	}
	return false
}

// Rank orders categories from cheapest to most expensive. Used for
// deterministic ordering of search results.
func (c RoomCategory) Rank() int {
	switch c {
	case CategoryStandard:
		return 0
	case CategoryDeluxe:
		return 1
	case CategorySuite:
		return 2
	case CategoryPresidential:
		return 3
	}
	return 4
}

// RoomStatus is the single mutable operational state of a room.
type RoomStatus string

const (
	RoomAvailable   RoomStatus = "available"
	RoomOccupied    RoomStatus = "occupied"
	RoomCleaning    RoomStatus = "cleaning"
	RoomMaintenance RoomStatus = "maintenance"
	RoomOutOfOrder  RoomStatus = "out_of_order"
)

func (s RoomStatus) Valid() bool {
	switch s {
	case RoomAvailable, RoomOccupied, RoomCleaning, RoomMaintenance, RoomOutOfOrder:
		return true
	}
	return false
}

type Room struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	RoomNumber string       `gorm:"column:room_number;uniqueIndex;size:16" json:"room_number"`
	Category   RoomCategory `gorm:"column:category;size:32;index" json:"category"`
	Floor      int          `gorm:"column:floor" json:"floor"`
	Capacity   int          `gorm:"column:capacity" json:"capacity"`
	Beds       int          `gorm:"column:beds;default:1" json:"beds"`
	BedType    string       `gorm:"column:bed_type;size:32" json:"bed_type"`

	BasePrice decimal.Decimal `gorm:"column:base_price;type:decimal(10,2)" json:"base_price"`
	Currency  string          `gorm:"column:currency;size:3" json:"currency"`

	HasWifi      bool `gorm:"column:has_wifi;default:true" json:"has_wifi"`
	HasAC        bool `gorm:"column:has_ac;default:true" json:"has_ac"`
	HasBalcony   bool `gorm:"column:has_balcony;default:false" json:"has_balcony"`
	HasOceanView bool `gorm:"column:has_ocean_view;default:false" json:"has_ocean_view"`
	HasMinibar   bool `gorm:"column:has_minibar;default:false" json:"has_minibar"`
	HasSafe      bool `gorm:"column:has_safe;default:false" json:"has_safe"`

	IsActive         bool   `gorm:"column:is_active;default:true" json:"is_active"`
	IsOutOfOrder     bool   `gorm:"column:is_out_of_order;default:false" json:"is_out_of_order"`
	OutOfOrderReason string `gorm:"column:out_of_order_reason;type:text" json:"out_of_order_reason,omitempty"`

	Status RoomStatus `gorm:"column:status;size:32;index" json:"status"`

	LastCleaningDate    *time.Time `gorm:"column:last_cleaning_date" json:"last_cleaning_date,omitempty"`
	LastMaintenanceDate *time.Time `gorm:"column:last_maintenance_date" json:"last_maintenance_date,omitempty"`
	NextMaintenanceDate *time.Time `gorm:"column:next_maintenance_date" json:"next_maintenance_date,omitempty"`

	Description string `gorm:"type:text" json:"description,omitempty"`
}

// NormalizeRoomNumber uppercases and trims a human-entered room number so
// "0101a" and " 0101A " land on the same unique index entry.
func NormalizeRoomNumber(number string) string {
	return strings.ToUpper(strings.TrimSpace(number))
}

// Bookable reports whether the room is sellable right now: the walk-in
// check used by the inventory search.
func (r *Room) Bookable() bool {
	return r.Status == RoomAvailable && r.IsActive && !r.IsOutOfOrder
}

// Reservable reports whether the room may accept reservations for some date
// range at all. Reservation-driven statuses (occupied, cleaning) do not
// block other dates; the overlap predicate decides those. Only physical
// unavailability blocks outright.
func (r *Room) Reservable() bool {
	if !r.IsActive || r.IsOutOfOrder {
		return false
	}
	return r.Status != RoomMaintenance && r.Status != RoomOutOfOrder
}
