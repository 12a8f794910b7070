package models

import (
	"time"

	"gorm.io/gorm"
)

type TicketStatus string

const (
	TicketOpen       TicketStatus = "open"
	TicketInProgress TicketStatus = "in_progress"
	TicketResolved   TicketStatus = "resolved"
)

// MaintenanceTicket tracks a maintenance incident on a room. Opening a
// ticket pulls the room out of the bookable pool; resolving it hands the
// room to housekeeping.
type MaintenanceTicket struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	TicketNumber string `gorm:"column:ticket_number;uniqueIndex;size:16" json:"ticket_number"`
	RoomID       uint   `gorm:"column:room_id;index" json:"room_id"`

	Title       string `gorm:"column:title;size:255" json:"title"`
	Description string `gorm:"column:description;type:text" json:"description,omitempty"`
	Priority    string `gorm:"column:priority;size:16;default:normal" json:"priority"`

	// When true the room was flagged out_of_order rather than plain
	// maintenance, and stays unbookable until the ticket is resolved.
	OutOfOrder bool `gorm:"column:out_of_order;default:false" json:"out_of_order"`

	Status       TicketStatus `gorm:"column:status;size:32;index" json:"status"`
	ReportedByID *uint        `gorm:"column:reported_by_id" json:"reported_by_id,omitempty"`
	Resolution   string       `gorm:"column:resolution;type:text" json:"resolution,omitempty"`
	ResolvedAt   *time.Time   `gorm:"column:resolved_at" json:"resolved_at,omitempty"`

	Room Room `gorm:"foreignKey:RoomID;references:ID" json:"room,omitempty"`
}
