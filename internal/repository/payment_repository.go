package repository

import (
	"context"
	"strings"
	"time"

	"github.com/ashrayhostel/hostel-api/internal/models"
	"gorm.io/gorm"
)

// PaymentRepository defines payment data access methods
type PaymentRepository interface {
	Create(ctx context.Context, payment *models.Payment) error
	FindByID(ctx context.Context, id uint) (*models.Payment, error)
	FindByResident(ctx context.Context, residentID uint) ([]models.Payment, error)
	List(ctx context.Context, hostelID uint, query *ListQuery) ([]models.Payment, int64, error)
	FindSettledByHostel(ctx context.Context, hostelID uint) ([]models.Payment, error)
	TransitionStatus(ctx context.Context, id uint, from, to string, update StatusUpdate) (int64, error)
	FindSweepable(ctx context.Context, createdBefore time.Time) ([]models.Payment, error)
	DetachProof(ctx context.Context, id uint) error
	DeleteByResident(ctx context.Context, residentID uint) (int64, error)
}

// StatusUpdate carries the adjudication columns written with a status change
type StatusUpdate struct {
	At              time.Time
	By              uint
	RejectionReason *string
}

type paymentRepository struct {
	db *gorm.DB
}

// NewPaymentRepository creates a new payment repository
func NewPaymentRepository(db *gorm.DB) PaymentRepository {
	return &paymentRepository{db: db}
}

func (r *paymentRepository) Create(ctx context.Context, payment *models.Payment) error {
	return r.db.WithContext(ctx).Create(payment).Error
}

func (r *paymentRepository) FindByID(ctx context.Context, id uint) (*models.Payment, error) {
	var payment models.Payment
	err := r.db.WithContext(ctx).
		Preload("Resident").
		First(&payment, id).Error
	if err != nil {
		return nil, err
	}
	return &payment, nil
}

func (r *paymentRepository) FindByResident(ctx context.Context, residentID uint) ([]models.Payment, error) {
	var payments []models.Payment
	err := r.db.WithContext(ctx).
		Where("resident_id = ?", residentID).
		Order("created_at DESC").
		Find(&payments).Error
	return payments, err
}

// List returns a hostel's payments. Filters: status (single or comma-separated).
func (r *paymentRepository) List(ctx context.Context, hostelID uint, query *ListQuery) ([]models.Payment, int64, error) {
	var payments []models.Payment
	var total int64

	db := r.db.WithContext(ctx).
		Model(&models.Payment{}).
		Joins("JOIN residents ON residents.id = payments.resident_id").
		Where("residents.hostel_id = ?", hostelID)

	if statusFilter := query.Filters["status"]; statusFilter != "" {
		if strings.Contains(statusFilter, ",") {
			db = db.Where("payments.status IN ?", strings.Split(statusFilter, ","))
		} else {
			db = db.Where("payments.status = ?", statusFilter)
		}
	}

	if query.Search != "" {
		term := "%" + strings.ToLower(query.Search) + "%"
		db = db.Where("(LOWER(residents.full_name) LIKE ? OR payments.reference_token LIKE ?)", term, "%"+strings.ToUpper(query.Search)+"%")
	}

	countDb := db.Session(&gorm.Session{})
	if err := countDb.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := applyListQuery(db.Preload("Resident"), query, "payments", "payments.created_at DESC").
		Find(&payments).Error
	return payments, total, err
}

func (r *paymentRepository) FindSettledByHostel(ctx context.Context, hostelID uint) ([]models.Payment, error) {
	var payments []models.Payment
	err := r.db.WithContext(ctx).
		Joins("JOIN residents ON residents.id = payments.resident_id").
		Where("residents.hostel_id = ? AND payments.status = ?", hostelID, models.PaymentStatusSettled).
		Find(&payments).Error
	return payments, err
}

// TransitionStatus moves a payment from one status to another only if it is
// still in from. Zero rows affected means someone else got there first.
func (r *paymentRepository) TransitionStatus(ctx context.Context, id uint, from, to string, update StatusUpdate) (int64, error) {
	at := update.At.UTC()
	by := update.By
	values := map[string]interface{}{
		"status":         to,
		"adjudicated_at": &at,
		"adjudicated_by": &by,
	}
	if update.RejectionReason != nil {
		values["rejection_reason"] = *update.RejectionReason
	}

	result := r.db.WithContext(ctx).
		Model(&models.Payment{}).
		Where("id = ? AND status = ?", id, from).
		Updates(values)
	return result.RowsAffected, result.Error
}

// FindSweepable returns payments that still hold a proof and were created before the cutoff
func (r *paymentRepository) FindSweepable(ctx context.Context, createdBefore time.Time) ([]models.Payment, error) {
	var payments []models.Payment
	err := r.db.WithContext(ctx).
		Where("proof_ref IS NOT NULL AND created_at < ?", createdBefore.UTC()).
		Order("created_at ASC").
		Find(&payments).Error
	return payments, err
}

func (r *paymentRepository) DetachProof(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).
		Model(&models.Payment{}).
		Where("id = ?", id).
		Update("proof_ref", nil).Error
}

// DeleteByResident removes every payment of a resident and returns how many went
func (r *paymentRepository) DeleteByResident(ctx context.Context, residentID uint) (int64, error) {
	result := r.db.WithContext(ctx).
		Where("resident_id = ?", residentID).
		Delete(&models.Payment{})
	return result.RowsAffected, result.Error
}
