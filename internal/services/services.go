package services

import (
	"github.com/ashrayhostel/hostel-api/internal/billing"
	"github.com/ashrayhostel/hostel-api/internal/config"
	"github.com/ashrayhostel/hostel-api/internal/jobs"
	"github.com/ashrayhostel/hostel-api/internal/repository"
	"github.com/ashrayhostel/hostel-api/internal/storage"
)

// Services holds all service instances
type Services struct {
	Auth      *AuthService
	Hostel    *HostelService
	Resident  *ResidentService
	Ledger    *PaymentLedger
	Expense   *ExpenseService
	Dashboard *DashboardService
	Retention *RetentionSweeper
	Reminder  *ReminderService
	Audit     *AuditService
	Email     *EmailService
	Job       *JobService
}

// NewServices creates all service instances
func NewServices(repos *repository.Repositories, worker *jobs.Worker, store storage.ProofStore, clock billing.Clock, cfg *config.Config) *Services {
	emailSvc := NewEmailService(cfg)
	auditSvc := NewAuditService(repos.Audit)

	var notifier Notifier = disabledNotifier{}
	if cfg.EmailEnabled() {
		notifier = emailSvc
	}

	ledger := NewPaymentLedger(repos, clock, auditSvc, notifier, worker)
	sweeper := NewRetentionSweeper(repos.Payment, store, clock, cfg.RetentionAge(), worker)

	return &Services{
		Auth:      NewAuthService(repos.Hostel, repos.Resident, cfg),
		Hostel:    NewHostelService(repos.Hostel),
		Resident:  NewResidentService(repos, ledger, store, clock, auditSvc, cfg.HostelDisplayName),
		Ledger:    ledger,
		Expense:   NewExpenseService(repos.Expense, clock, auditSvc),
		Dashboard: NewDashboardService(repos, clock, sweeper, cfg.HostelDisplayName),
		Retention: sweeper,
		Reminder:  NewReminderService(repos.Resident, notifier, clock),
		Audit:     auditSvc,
		Email:     emailSvc,
		Job:       NewJobService(worker, sweeper),
	}
}
