package models

import (
	"time"
)

// Resident is a student staying at a hostel.
// LastSettledDate anchors the billing cycle and is only written on payment approval.
type Resident struct {
	ID              uint       `gorm:"primaryKey" json:"id"`
	HostelID        uint       `gorm:"not null;index" json:"hostel_id"`
	FullName        string     `gorm:"not null" json:"full_name"`
	Email           *string    `json:"email"`
	MobileNumber    string     `gorm:"size:20;not null;index" json:"mobile_number"`
	DateOfBirth     *time.Time `gorm:"type:date" json:"date_of_birth"`
	RoomNumber      string     `gorm:"size:20" json:"room_number"`
	AadhaarNumber   *string    `gorm:"size:12" json:"aadhaar_number"`
	MonthlyFee      *int64     `json:"monthly_fee"`
	LastSettledDate *time.Time `gorm:"type:date" json:"last_settled_date"`
	ReminderSentAt  *time.Time `json:"-"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`

	// Associations
	Hostel   Hostel    `gorm:"foreignKey:HostelID" json:"-"`
	Payments []Payment `gorm:"foreignKey:ResidentID" json:"-"`
}

// TableName specifies the table name for Resident
func (Resident) TableName() string {
	return "residents"
}

// HasEmail returns true if the resident can receive e-mail
func (r *Resident) HasEmail() bool {
	return r.Email != nil && *r.Email != ""
}

// RemindedSince returns true if a reminder went out on or after t
func (r *Resident) RemindedSince(t time.Time) bool {
	return r.ReminderSentAt != nil && !r.ReminderSentAt.Before(t)
}

// Token roles
const (
	RoleAdmin    = "admin"
	RoleResident = "resident"
)
