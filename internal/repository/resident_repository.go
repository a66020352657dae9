package repository

import (
	"context"
	"strings"
	"time"

	"github.com/ashrayhostel/hostel-api/internal/models"
	"gorm.io/gorm"
)

// ResidentRepository defines resident data access methods
type ResidentRepository interface {
	FindByID(ctx context.Context, id uint) (*models.Resident, error)
	FindByHostel(ctx context.Context, hostelID uint, search string) ([]models.Resident, error)
	FindByMobileAndDOB(ctx context.Context, mobile string, dob time.Time) (*models.Resident, error)
	Create(ctx context.Context, resident *models.Resident) error
	SetLastSettledDate(ctx context.Context, residentID uint, date time.Time) (int64, error)
	FindDueForReminder(ctx context.Context, settledBefore time.Time) ([]models.Resident, error)
	MarkReminderSent(ctx context.Context, residentIDs []uint, at time.Time) error
	Delete(ctx context.Context, id uint) (int64, error)
}

type residentRepository struct {
	db *gorm.DB
}

// NewResidentRepository creates a new resident repository
func NewResidentRepository(db *gorm.DB) ResidentRepository {
	return &residentRepository{db: db}
}

func (r *residentRepository) FindByID(ctx context.Context, id uint) (*models.Resident, error) {
	var resident models.Resident
	err := r.db.WithContext(ctx).
		Preload("Hostel").
		First(&resident, id).Error
	if err != nil {
		return nil, err
	}
	return &resident, nil
}

// FindByHostel lists a hostel's residents. search matches the name
// case-insensitively or the room number as a substring.
func (r *residentRepository) FindByHostel(ctx context.Context, hostelID uint, search string) ([]models.Resident, error) {
	var residents []models.Resident
	db := r.db.WithContext(ctx).
		Preload("Hostel").
		Where("hostel_id = ?", hostelID)

	if search = strings.TrimSpace(search); search != "" {
		term := "%" + strings.ToLower(search) + "%"
		db = db.Where("(LOWER(full_name) LIKE ? OR room_number LIKE ?)", term, "%"+search+"%")
	}

	err := db.Order("room_number ASC, full_name ASC").Find(&residents).Error
	return residents, err
}

func (r *residentRepository) FindByMobileAndDOB(ctx context.Context, mobile string, dob time.Time) (*models.Resident, error) {
	var resident models.Resident
	err := r.db.WithContext(ctx).
		Preload("Hostel").
		Where("mobile_number = ? AND date_of_birth = ?", mobile, dob).
		First(&resident).Error
	if err != nil {
		return nil, err
	}
	return &resident, nil
}

func (r *residentRepository) Create(ctx context.Context, resident *models.Resident) error {
	return r.db.WithContext(ctx).Create(resident).Error
}

// SetLastSettledDate moves the billing anchor. It returns the number of rows
// updated so callers can detect a missing resident.
func (r *residentRepository) SetLastSettledDate(ctx context.Context, residentID uint, date time.Time) (int64, error) {
	result := r.db.WithContext(ctx).
		Model(&models.Resident{}).
		Where("id = ?", residentID).
		Update("last_settled_date", date)
	return result.RowsAffected, result.Error
}

// FindDueForReminder returns residents with an e-mail whose anchor is on or
// before settledBefore. Tier filtering happens in the caller.
func (r *residentRepository) FindDueForReminder(ctx context.Context, settledBefore time.Time) ([]models.Resident, error) {
	var residents []models.Resident
	err := r.db.WithContext(ctx).
		Preload("Hostel").
		Where("last_settled_date IS NOT NULL AND last_settled_date <= ?", settledBefore).
		Where("email IS NOT NULL AND email <> ''").
		Find(&residents).Error
	return residents, err
}

func (r *residentRepository) MarkReminderSent(ctx context.Context, residentIDs []uint, at time.Time) error {
	if len(residentIDs) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).
		Model(&models.Resident{}).
		Where("id IN ?", residentIDs).
		Update("reminder_sent_at", at.UTC()).Error
}

// Delete removes the resident row. Payments are the caller's responsibility.
func (r *residentRepository) Delete(ctx context.Context, id uint) (int64, error) {
	result := r.db.WithContext(ctx).Delete(&models.Resident{}, id)
	return result.RowsAffected, result.Error
}
