package models

import (
	"strings"
	"time"
)

// Payment is a resident's claim that they paid, backed by an uploaded proof
type Payment struct {
	ID              uint       `gorm:"primaryKey" json:"id"`
	ResidentID      uint       `gorm:"not null;index" json:"resident_id"`
	Amount          int64      `gorm:"not null" json:"amount"`
	ReferenceToken  string     `gorm:"size:32;uniqueIndex;not null" json:"reference_token"`
	ProofRef        *string    `json:"-"`
	Status          string     `gorm:"size:20;default:pending;not null;index" json:"status"`
	RejectionReason *string    `gorm:"type:text" json:"rejection_reason,omitempty"`
	AdjudicatedAt   *time.Time `json:"adjudicated_at"`
	AdjudicatedBy   *uint      `json:"adjudicated_by"`
	CreatedAt       time.Time  `gorm:"index" json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`

	// Associations
	Resident Resident `gorm:"foreignKey:ResidentID" json:"-"`
}

// TableName specifies the table name for Payment
func (Payment) TableName() string {
	return "payments"
}

// Payment status constants
const (
	PaymentStatusPending  = "pending"
	PaymentStatusSettled  = "settled"
	PaymentStatusRejected = "rejected"
)

// MayApprove returns true if payment can be approved
func (p *Payment) MayApprove() bool {
	return p.Status == PaymentStatusPending
}

// MayReject returns true if payment can be rejected
func (p *Payment) MayReject() bool {
	return p.Status == PaymentStatusPending
}

// IsTerminal returns true once the payment has been adjudicated
func (p *Payment) IsTerminal() bool {
	return p.Status == PaymentStatusSettled || p.Status == PaymentStatusRejected
}

// HasProof returns true while the proof artifact is retained
func (p *Payment) HasProof() bool {
	return p.ProofRef != nil && *p.ProofRef != ""
}

// PaymentResponse is the JSON response format for payments
type PaymentResponse struct {
	ID              uint       `json:"id"`
	ResidentID      uint       `json:"resident_id"`
	Amount          int64      `json:"amount"`
	ReferenceToken  string     `json:"reference_token"`
	Status          string     `json:"status"`
	HasProof        bool       `json:"has_proof"`
	IsPDF           bool       `json:"is_pdf"`
	RejectionReason *string    `json:"rejection_reason,omitempty"`
	AdjudicatedAt   *time.Time `json:"adjudicated_at"`
	CreatedAt       time.Time  `json:"created_at"`

	// Resident details
	ResidentName string `json:"resident_name,omitempty"`
	RoomNumber   string `json:"room_number,omitempty"`
}

// ToResponse converts Payment to PaymentResponse
func (p *Payment) ToResponse() PaymentResponse {
	resp := PaymentResponse{
		ID:              p.ID,
		ResidentID:      p.ResidentID,
		Amount:          p.Amount,
		ReferenceToken:  p.ReferenceToken,
		Status:          p.Status,
		HasProof:        p.HasProof(),
		IsPDF:           p.HasProof() && strings.HasSuffix(strings.ToLower(*p.ProofRef), ".pdf"),
		RejectionReason: p.RejectionReason,
		AdjudicatedAt:   p.AdjudicatedAt,
		CreatedAt:       p.CreatedAt,
	}

	if p.Resident.ID != 0 {
		resp.ResidentName = p.Resident.FullName
		resp.RoomNumber = p.Resident.RoomNumber
	}

	return resp
}
