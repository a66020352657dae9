package models

import (
	"time"
)

// Hostel is one property managed through the admin dashboard
type Hostel struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Name        string    `gorm:"not null" json:"name"`
	Address     string    `json:"address"`
	AdminMobile string    `gorm:"size:20" json:"admin_mobile"`
	DefaultFee  *int64    `json:"default_fee"`
	UPIID       *string   `gorm:"column:upi_id" json:"upi_id"`
	QRCodeURL   *string   `gorm:"column:qr_code_url" json:"qr_code_url"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	// Associations
	Residents []Resident `gorm:"foreignKey:HostelID" json:"-"`
}

// TableName specifies the table name for Hostel
func (Hostel) TableName() string {
	return "hostels"
}

// UPI returns the hostel's UPI id or "".
func (h *Hostel) UPI() string {
	if h == nil || h.UPIID == nil {
		return ""
	}
	return *h.UPIID
}

// HostelResponse is the public shape, used by the registration form's hostel picker.
type HostelResponse struct {
	ID         uint    `json:"id"`
	Name       string  `json:"name"`
	Address    string  `json:"address"`
	DefaultFee *int64  `json:"default_fee"`
	QRCodeURL  *string `json:"qr_code_url,omitempty"`
}

// ToResponse converts Hostel to HostelResponse
func (h *Hostel) ToResponse() HostelResponse {
	return HostelResponse{
		ID:         h.ID,
		Name:       h.Name,
		Address:    h.Address,
		DefaultFee: h.DefaultFee,
		QRCodeURL:  h.QRCodeURL,
	}
}
