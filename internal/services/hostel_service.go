package services

import (
	"context"
	"strings"

	"github.com/ashrayhostel/hostel-api/internal/models"
	"github.com/ashrayhostel/hostel-api/internal/repository"
)

// CreateHostelInput is what the hostel registration form posts
type CreateHostelInput struct {
	Name        string  `json:"name" validate:"required,max=120"`
	Address     string  `json:"address" validate:"max=300"`
	AdminMobile string  `json:"admin_mobile" validate:"omitempty,numeric,min=10,max=15"`
	DefaultFee  *int64  `json:"default_fee" validate:"omitempty,gt=0"`
	UPIID       *string `json:"upi_id" validate:"omitempty,max=100"`
	QRCodeURL   *string `json:"qr_code_url" validate:"omitempty,url"`
}

type HostelService struct {
	repo repository.HostelRepository
}

func NewHostelService(repo repository.HostelRepository) *HostelService {
	return &HostelService{repo: repo}
}

func (s *HostelService) Create(ctx context.Context, in CreateHostelInput) (*models.Hostel, error) {
	in.Name = strings.TrimSpace(in.Name)
	if err := validateStruct(in); err != nil {
		return nil, err
	}

	hostel := &models.Hostel{
		Name:        in.Name,
		Address:     strings.TrimSpace(in.Address),
		AdminMobile: in.AdminMobile,
		DefaultFee:  in.DefaultFee,
		UPIID:       in.UPIID,
		QRCodeURL:   in.QRCodeURL,
	}
	if err := s.repo.Create(ctx, hostel); err != nil {
		return nil, storageErr("create hostel", err)
	}
	return hostel, nil
}

func (s *HostelService) List(ctx context.Context) ([]models.Hostel, error) {
	hostels, err := s.repo.List(ctx)
	if err != nil {
		return nil, storageErr("list hostels", err)
	}
	return hostels, nil
}
