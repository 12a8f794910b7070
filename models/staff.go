package models

import (
	"time"

	"gorm.io/gorm"
)

// Staff is a hotel employee account. Authentication and session issuance
// live outside this service; the reservation core only references staff ids
// on created_by / confirmed_by / cancelled_by.
type Staff struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	FullName string `gorm:"column:full_name;size:255" json:"full_name"`
	Username string `gorm:"column:username;uniqueIndex;size:150" json:"username"`
	Password string `gorm:"column:password;size:255" json:"-"`
	Role     string `gorm:"column:role;size:64" json:"role"`
	IsActive bool   `gorm:"column:is_active;default:true" json:"is_active"`
}
