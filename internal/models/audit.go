package models

import (
	"time"
)

// AuditLog represents a system audit entry
type AuditLog struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	ActorID   uint      `gorm:"not null;index" json:"actor_id"`
	ActorRole string    `gorm:"size:20;not null" json:"actor_role"`
	Action    string    `gorm:"size:50;not null" json:"action"` // CREATE, DELETE, SUBMIT, APPROVE, REJECT, LOGIN
	Entity    string    `gorm:"size:50;not null" json:"entity"` // Payment, Expense, Resident
	EntityID  uint      `json:"entity_id"`
	Details   string    `gorm:"type:text" json:"details"`
	IPAddress string    `gorm:"size:45" json:"ip_address"`
	UserAgent string    `gorm:"size:255" json:"user_agent"`
	CreatedAt time.Time `json:"created_at"`
}

// TableName specifies the table name for AuditLog
func (AuditLog) TableName() string {
	return "audit_logs"
}
