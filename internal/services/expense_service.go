package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/ashrayhostel/hostel-api/internal/billing"
	"github.com/ashrayhostel/hostel-api/internal/models"
	"github.com/ashrayhostel/hostel-api/internal/repository"
	"github.com/ashrayhostel/hostel-api/pkg/logger"
)

// CreateExpenseInput records an operating cost. ExpenseDate may be backdated.
type CreateExpenseInput struct {
	HostelID    uint       `json:"-" validate:"required"`
	Amount      int64      `json:"amount" validate:"gt=0"`
	Description string     `json:"description" validate:"required,max=500"`
	ExpenseDate *time.Time `json:"expense_date"`
}

type ExpenseService struct {
	repo  repository.ExpenseRepository
	clock billing.Clock
	audit *AuditService
}

func NewExpenseService(repo repository.ExpenseRepository, clock billing.Clock, audit *AuditService) *ExpenseService {
	return &ExpenseService{repo: repo, clock: clock, audit: audit}
}

// Create stores an expense dated today unless a date is given
func (s *ExpenseService) Create(ctx context.Context, in CreateExpenseInput, actor Actor) (*models.Expense, error) {
	in.Description = strings.TrimSpace(in.Description)
	if err := validateStruct(in); err != nil {
		return nil, err
	}

	date := billing.Today(s.clock.Now(), s.clock.Location())
	if in.ExpenseDate != nil {
		date = billing.CivilDate(*in.ExpenseDate)
	}

	expense := &models.Expense{
		HostelID:    in.HostelID,
		Amount:      in.Amount,
		Description: in.Description,
		ExpenseDate: date,
	}
	if err := s.repo.Create(ctx, expense); err != nil {
		return nil, storageErr("create expense", err)
	}

	s.logAudit(ctx, actor, AuditCreate, expense)
	return expense, nil
}

// List returns the hostel's expenses, newest first
func (s *ExpenseService) List(ctx context.Context, hostelID uint) ([]models.Expense, error) {
	expenses, err := s.repo.FindByHostel(ctx, hostelID)
	if err != nil {
		return nil, storageErr("list expenses", err)
	}
	return expenses, nil
}

// Delete removes an expense owned by the hostel
func (s *ExpenseService) Delete(ctx context.Context, hostelID, expenseID uint, actor Actor) error {
	expense, err := s.repo.FindByID(ctx, expenseID)
	if err != nil {
		return lookupErr("find expense", err)
	}
	if expense.HostelID != hostelID {
		return fmt.Errorf("expense %d: %w", expenseID, ErrNotFound)
	}

	if err := s.repo.Delete(ctx, expenseID); err != nil {
		return storageErr("delete expense", err)
	}

	s.logAudit(ctx, actor, AuditDelete, expense)
	return nil
}

func (s *ExpenseService) logAudit(ctx context.Context, actor Actor, action string, e *models.Expense) {
	if s.audit == nil {
		return
	}
	details := fmt.Sprintf("%s amount %d on %s", e.Description, e.Amount, e.ExpenseDate.Format("2006-01-02"))
	if err := s.audit.Log(ctx, actor, action, "Expense", e.ID, details); err != nil {
		logger.Warn("Failed to write audit log", "expense_id", e.ID, "error", err)
	}
}
