package services

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"mime/multipart"
	"strings"
	"time"

	"github.com/ashrayhostel/hostel-api/internal/billing"
	"github.com/ashrayhostel/hostel-api/internal/models"
	"github.com/ashrayhostel/hostel-api/internal/repository"
	"github.com/ashrayhostel/hostel-api/internal/storage"
	"github.com/ashrayhostel/hostel-api/pkg/logger"
)

// CreateResidentInput is what the onboarding form posts
type CreateResidentInput struct {
	HostelID      uint       `json:"-" validate:"required"`
	FullName      string     `json:"full_name" validate:"required,max=120"`
	Email         string     `json:"email" validate:"omitempty,email"`
	MobileNumber  string     `json:"mobile_number" validate:"required,numeric,min=10,max=15"`
	DateOfBirth   *time.Time `json:"date_of_birth"`
	RoomNumber    string     `json:"room_number" validate:"max=20"`
	AadhaarNumber string     `json:"aadhaar_number" validate:"omitempty,numeric,len=12"`
	MonthlyFee    *int64     `json:"monthly_fee" validate:"omitempty,gt=0"`
}

// PortalView is what a resident sees on their own dashboard
type PortalView struct {
	ResidentID      uint             `json:"resident_id"`
	FullName        string           `json:"full_name"`
	RoomNumber      string           `json:"room_number"`
	HostelName      string           `json:"hostel_name"`
	MonthlyFee      int64            `json:"monthly_fee"`
	LastSettledDate *time.Time       `json:"last_settled_date"`
	Billing         billing.Snapshot `json:"billing"`
	UPILink         string           `json:"upi_link,omitempty"`
	QRCodeURL       *string          `json:"qr_code_url,omitempty"`
	PendingPayments int              `json:"pending_payments"`
}

// ResidentService covers onboarding and the resident self-service portal
type ResidentService struct {
	repos       *repository.Repositories
	ledger      *PaymentLedger
	store       storage.ProofStore
	clock       billing.Clock
	audit       *AuditService
	displayName string
}

func NewResidentService(repos *repository.Repositories, ledger *PaymentLedger, store storage.ProofStore, clock billing.Clock, audit *AuditService, displayName string) *ResidentService {
	return &ResidentService{
		repos:       repos,
		ledger:      ledger,
		store:       store,
		clock:       clock,
		audit:       audit,
		displayName: displayName,
	}
}

// Create registers a resident. The billing anchor starts empty.
func (s *ResidentService) Create(ctx context.Context, in CreateResidentInput, actor Actor) (*models.Resident, error) {
	in.FullName = strings.TrimSpace(in.FullName)
	in.MobileNumber = strings.TrimSpace(in.MobileNumber)
	in.Email = strings.TrimSpace(in.Email)
	in.AadhaarNumber = strings.ReplaceAll(strings.TrimSpace(in.AadhaarNumber), " ", "")
	if err := validateStruct(in); err != nil {
		return nil, err
	}

	if _, err := s.repos.Hostel.FindByID(ctx, in.HostelID); err != nil {
		return nil, lookupErr("find hostel", err)
	}

	resident := &models.Resident{
		HostelID:     in.HostelID,
		FullName:     in.FullName,
		MobileNumber: in.MobileNumber,
		RoomNumber:   strings.TrimSpace(in.RoomNumber),
		MonthlyFee:   in.MonthlyFee,
	}
	if in.Email != "" {
		email := in.Email
		resident.Email = &email
	}
	if in.AadhaarNumber != "" {
		aadhaar := in.AadhaarNumber
		resident.AadhaarNumber = &aadhaar
	}
	if in.DateOfBirth != nil {
		dob := billing.CivilDate(*in.DateOfBirth)
		resident.DateOfBirth = &dob
	}

	if err := s.repos.Resident.Create(ctx, resident); err != nil {
		return nil, storageErr("create resident", err)
	}

	if s.audit != nil {
		if err := s.audit.Log(ctx, actor, AuditCreate, "Resident", resident.ID, resident.FullName); err != nil {
			logger.Warn("Failed to write audit log", "resident_id", resident.ID, "error", err)
		}
	}
	return resident, nil
}

// Delete permanently removes a resident of the hostel together with their
// payments. Proof artifacts are removed after the commit, best effort.
func (s *ResidentService) Delete(ctx context.Context, hostelID, residentID uint, actor Actor) error {
	resident, err := s.repos.Resident.FindByID(ctx, residentID)
	if err != nil {
		return lookupErr("find resident", err)
	}
	if resident.HostelID != hostelID {
		return fmt.Errorf("resident %d: %w", residentID, ErrNotFound)
	}

	var proofs []string
	var removed int64
	err = s.repos.Transaction(ctx, func(tx *repository.Repositories) error {
		payments, err := tx.Payment.FindByResident(ctx, residentID)
		if err != nil {
			return storageErr("list payments", err)
		}
		for _, p := range payments {
			if p.ProofRef != nil {
				proofs = append(proofs, *p.ProofRef)
			}
		}

		if removed, err = tx.Payment.DeleteByResident(ctx, residentID); err != nil {
			return storageErr("delete payments", err)
		}
		n, err := tx.Resident.Delete(ctx, residentID)
		if err != nil {
			return storageErr("delete resident", err)
		}
		if n == 0 {
			return fmt.Errorf("resident %d: %w", residentID, ErrNotFound)
		}
		return nil
	})
	if err != nil {
		return err
	}

	for _, ref := range proofs {
		if err := s.store.Delete(ref); err != nil && !errors.Is(err, fs.ErrNotExist) {
			logger.Warn("Failed to remove proof of deleted resident", "resident_id", residentID, "ref", ref, "error", err)
		}
	}

	if s.audit != nil {
		details := fmt.Sprintf("%s room %s, %d payments removed", resident.FullName, resident.RoomNumber, removed)
		if err := s.audit.Log(ctx, actor, AuditDelete, "Resident", residentID, details); err != nil {
			logger.Warn("Failed to write audit log", "resident_id", residentID, "error", err)
		}
	}
	return nil
}

// Portal returns the resident's billing status and how to pay
func (s *ResidentService) Portal(ctx context.Context, residentID uint) (*PortalView, error) {
	resident, err := s.repos.Resident.FindByID(ctx, residentID)
	if err != nil {
		return nil, lookupErr("find resident", err)
	}
	payments, err := s.repos.Payment.FindByResident(ctx, residentID)
	if err != nil {
		return nil, storageErr("list payments", err)
	}

	pending := 0
	for _, p := range payments {
		if p.Status == models.PaymentStatusPending {
			pending++
		}
	}

	hostelName := resident.Hostel.Name
	if hostelName == "" {
		hostelName = s.displayName
	}
	fee := billing.ResolveFee(resident.MonthlyFee, resident.Hostel.DefaultFee)

	return &PortalView{
		ResidentID:      resident.ID,
		FullName:        resident.FullName,
		RoomNumber:      resident.RoomNumber,
		HostelName:      hostelName,
		MonthlyFee:      fee,
		LastSettledDate: resident.LastSettledDate,
		Billing:         billing.ProjectWith(s.clock, resident.LastSettledDate),
		UPILink:         billing.UPILink(resident.Hostel.UPI(), hostelName, fee),
		QRCodeURL:       resident.Hostel.QRCodeURL,
		PendingPayments: pending,
	}, nil
}

// Payments lists the resident's own payments, newest first
func (s *ResidentService) Payments(ctx context.Context, residentID uint) ([]models.Payment, error) {
	payments, err := s.repos.Payment.FindByResident(ctx, residentID)
	if err != nil {
		return nil, storageErr("list payments", err)
	}
	return payments, nil
}

// SubmitProof stores the uploaded proof and files a pending payment.
// Without an amount the resident's resolved fee is used.
// The artifact is removed again if the payment cannot be recorded.
func (s *ResidentService) SubmitProof(ctx context.Context, residentID uint, amount *int64, file multipart.File, header *multipart.FileHeader, actor Actor) (*models.Payment, error) {
	resident, err := s.repos.Resident.FindByID(ctx, residentID)
	if err != nil {
		return nil, lookupErr("find resident", err)
	}

	value := billing.ResolveFee(resident.MonthlyFee, resident.Hostel.DefaultFee)
	if amount != nil {
		value = *amount
	}
	if value <= 0 {
		return nil, &ValidationError{Field: "amount", Reason: "must be greater than 0"}
	}

	ref, err := s.store.Upload(file, header, storage.ProofsDir)
	if err != nil {
		return nil, storageErr("upload proof", err)
	}

	payment, err := s.ledger.Submit(ctx, SubmitPaymentInput{ResidentID: residentID, Amount: value, ProofRef: ref}, actor)
	if err != nil {
		if delErr := s.store.Delete(ref); delErr != nil {
			logger.Warn("Failed to remove orphaned proof", "ref", ref, "error", delErr)
		}
		return nil, fmt.Errorf("submit payment: %w", err)
	}
	return payment, nil
}
