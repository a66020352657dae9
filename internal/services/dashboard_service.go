package services

import (
	"context"
	"fmt"
	"time"

	"github.com/ashrayhostel/hostel-api/internal/billing"
	"github.com/ashrayhostel/hostel-api/internal/finance"
	"github.com/ashrayhostel/hostel-api/internal/models"
	"github.com/ashrayhostel/hostel-api/internal/repository"
)

// ResidentSummary is a resident as the admin dashboard shows it
type ResidentSummary struct {
	ID              uint             `json:"id"`
	HostelID        uint             `json:"hostel_id"`
	FullName        string           `json:"full_name"`
	Email           *string          `json:"email"`
	MobileNumber    string           `json:"mobile_number"`
	RoomNumber      string           `json:"room_number"`
	MonthlyFee      int64            `json:"monthly_fee"`
	FeeOverride     *int64           `json:"fee_override"`
	LastSettledDate *time.Time       `json:"last_settled_date"`
	Billing         billing.Snapshot `json:"billing"`
	ReminderLink    string           `json:"reminder_link,omitempty"`
	CreatedAt       time.Time        `json:"created_at"`
}

// DashboardStats is the financial snapshot plus occupancy counters
type DashboardStats struct {
	finance.Snapshot
	Residents        int                      `json:"residents"`
	RiskCounts       map[billing.RiskTier]int `json:"risk_counts"`
	PendingApprovals int64                    `json:"pending_approvals"`
}

// DashboardService assembles admin views from stored records.
// Nothing it computes is written back.
type DashboardService struct {
	repos       *repository.Repositories
	clock       billing.Clock
	sweeper     *RetentionSweeper
	displayName string
}

func NewDashboardService(repos *repository.Repositories, clock billing.Clock, sweeper *RetentionSweeper, displayName string) *DashboardService {
	return &DashboardService{repos: repos, clock: clock, sweeper: sweeper, displayName: displayName}
}

// Stats aggregates the hostel's finances with the given what-if exclusions.
// Loading the dashboard also nudges the retention sweeper.
func (s *DashboardService) Stats(ctx context.Context, hostelID uint, exclusions finance.Exclusions) (*DashboardStats, error) {
	hostel, err := s.repos.Hostel.FindByID(ctx, hostelID)
	if err != nil {
		return nil, lookupErr("find hostel", err)
	}

	if s.sweeper != nil {
		s.sweeper.TriggerAsync()
	}

	residents, err := s.repos.Resident.FindByHostel(ctx, hostelID, "")
	if err != nil {
		return nil, storageErr("list residents", err)
	}
	payments, err := s.repos.Payment.FindSettledByHostel(ctx, hostelID)
	if err != nil {
		return nil, storageErr("list settled payments", err)
	}
	expenses, err := s.repos.Expense.FindByHostel(ctx, hostelID)
	if err != nil {
		return nil, storageErr("list expenses", err)
	}

	pendingQuery := repository.NewListQuery()
	pendingQuery.PerPage = 1
	pendingQuery.Filters["status"] = models.PaymentStatusPending
	_, pending, err := s.repos.Payment.List(ctx, hostelID, pendingQuery)
	if err != nil {
		return nil, storageErr("count pending payments", err)
	}

	in := finance.Input{
		Payments:   make([]finance.PaymentRecord, 0, len(payments)),
		Expenses:   make([]finance.ExpenseRecord, 0, len(expenses)),
		Fees:       make([]int64, 0, len(residents)),
		Now:        s.clock.Now(),
		Location:   s.clock.Location(),
		Exclusions: exclusions,
	}
	for _, p := range payments {
		in.Payments = append(in.Payments, finance.PaymentRecord{
			ID:        p.ID,
			Amount:    p.Amount,
			Settled:   p.Status == models.PaymentStatusSettled,
			CreatedAt: p.CreatedAt,
		})
	}
	for _, e := range expenses {
		in.Expenses = append(in.Expenses, finance.ExpenseRecord{ID: e.ID, Amount: e.Amount, Date: e.ExpenseDate})
	}

	riskCounts := map[billing.RiskTier]int{
		billing.RiskUnknown:  0,
		billing.RiskCritical: 0,
		billing.RiskWarning:  0,
		billing.RiskSafe:     0,
	}
	for _, r := range residents {
		in.Fees = append(in.Fees, billing.ResolveFee(r.MonthlyFee, hostel.DefaultFee))
		riskCounts[billing.ProjectWith(s.clock, r.LastSettledDate).RiskTier]++
	}

	return &DashboardStats{
		Snapshot:         finance.Aggregate(in),
		Residents:        len(residents),
		RiskCounts:       riskCounts,
		PendingApprovals: pending,
	}, nil
}

// ListResidents returns the hostel's residents with their billing status.
// search matches name or room number.
func (s *DashboardService) ListResidents(ctx context.Context, hostelID uint, search string) ([]ResidentSummary, error) {
	residents, err := s.repos.Resident.FindByHostel(ctx, hostelID, search)
	if err != nil {
		return nil, storageErr("list residents", err)
	}

	out := make([]ResidentSummary, 0, len(residents))
	for i := range residents {
		out = append(out, s.summarize(&residents[i]))
	}
	return out, nil
}

// GetResident returns one resident of the hostel. Residents of other hostels are not found.
func (s *DashboardService) GetResident(ctx context.Context, hostelID, residentID uint) (*ResidentSummary, error) {
	resident, err := s.repos.Resident.FindByID(ctx, residentID)
	if err != nil {
		return nil, lookupErr("find resident", err)
	}
	if resident.HostelID != hostelID {
		return nil, fmt.Errorf("resident %d: %w", residentID, ErrNotFound)
	}
	summary := s.summarize(resident)
	return &summary, nil
}

func (s *DashboardService) summarize(r *models.Resident) ResidentSummary {
	snap := billing.ProjectWith(s.clock, r.LastSettledDate)
	hostelName := r.Hostel.Name
	if hostelName == "" {
		hostelName = s.displayName
	}

	return ResidentSummary{
		ID:              r.ID,
		HostelID:        r.HostelID,
		FullName:        r.FullName,
		Email:           r.Email,
		MobileNumber:    r.MobileNumber,
		RoomNumber:      r.RoomNumber,
		MonthlyFee:      billing.ResolveFee(r.MonthlyFee, r.Hostel.DefaultFee),
		FeeOverride:     r.MonthlyFee,
		LastSettledDate: r.LastSettledDate,
		Billing:         snap,
		ReminderLink:    billing.ReminderLink(r.FullName, r.MobileNumber, hostelName, snap),
		CreatedAt:       r.CreatedAt,
	}
}
