package models

import (
	"time"
)

// Expense is an operating cost of a hostel. Corrections are delete and recreate.
type Expense struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	HostelID    uint      `gorm:"not null;index" json:"hostel_id"`
	Amount      int64     `gorm:"not null" json:"amount"`
	Description string    `gorm:"type:text;not null" json:"description"`
	ExpenseDate time.Time `gorm:"type:date;not null;index" json:"expense_date"`
	CreatedAt   time.Time `json:"created_at"`
}

// TableName specifies the table name for Expense
func (Expense) TableName() string {
	return "expenses"
}
