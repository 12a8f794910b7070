package models

import (
	"time"

	"gorm.io/gorm"
)

type Guest struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	FullName string `gorm:"column:full_name;size:255" json:"full_name"`
	Email    string `gorm:"column:email;size:150;index" json:"email"`
	Phone    string `gorm:"column:phone;size:50" json:"phone,omitempty"`

	Nationality     string     `gorm:"column:nationality;size:64" json:"nationality,omitempty"`
	DateOfBirth     *time.Time `gorm:"column:date_of_birth" json:"date_of_birth,omitempty"`
	IDType          string     `gorm:"column:id_type;size:32" json:"id_type,omitempty"`
	IDNumber        string     `gorm:"column:id_number;size:64" json:"id_number,omitempty"`
	IDIssuedCountry string     `gorm:"column:id_issued_country;size:64" json:"id_issued_country,omitempty"`

	IsBlacklisted   bool   `gorm:"column:is_blacklisted;default:false" json:"is_blacklisted"`
	BlacklistReason string `gorm:"column:blacklist_reason;type:text" json:"blacklist_reason,omitempty"`

	// Stay stats, bumped by the reservation lifecycle.
	StayCount   int `gorm:"column:stay_count;default:0" json:"stay_count"`
	TotalNights int `gorm:"column:total_nights;default:0" json:"total_nights"`
}
