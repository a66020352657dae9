package repository

import (
	"context"

	"github.com/ashrayhostel/hostel-api/internal/models"
	"gorm.io/gorm"
)

// HostelRepository defines hostel data access methods
type HostelRepository interface {
	FindByID(ctx context.Context, id uint) (*models.Hostel, error)
	Create(ctx context.Context, hostel *models.Hostel) error
	List(ctx context.Context) ([]models.Hostel, error)
}

type hostelRepository struct {
	db *gorm.DB
}

// NewHostelRepository creates a new hostel repository
func NewHostelRepository(db *gorm.DB) HostelRepository {
	return &hostelRepository{db: db}
}

func (r *hostelRepository) FindByID(ctx context.Context, id uint) (*models.Hostel, error) {
	var hostel models.Hostel
	err := r.db.WithContext(ctx).First(&hostel, id).Error
	if err != nil {
		return nil, err
	}
	return &hostel, nil
}

func (r *hostelRepository) Create(ctx context.Context, hostel *models.Hostel) error {
	return r.db.WithContext(ctx).Create(hostel).Error
}

func (r *hostelRepository) List(ctx context.Context) ([]models.Hostel, error) {
	var hostels []models.Hostel
	err := r.db.WithContext(ctx).Order("name ASC").Find(&hostels).Error
	return hostels, err
}
