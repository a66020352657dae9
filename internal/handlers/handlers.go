package handlers

import (
	"github.com/ashrayhostel/hostel-api/internal/services"
)

// Handlers holds all handler instances
type Handlers struct {
	Health    *HealthHandler
	Auth      *AuthHandler
	Hostel    *HostelHandler
	Resident  *ResidentHandler
	Payment   *PaymentHandler
	Expense   *ExpenseHandler
	Dashboard *DashboardHandler
	Portal    *PortalHandler
	Audit     *AuditHandler
	Job       *JobHandler
}

// NewHandlers creates all handler instances
func NewHandlers(svcs *services.Services) *Handlers {
	return &Handlers{
		Health:    NewHealthHandler(),
		Auth:      NewAuthHandler(svcs.Auth),
		Hostel:    NewHostelHandler(svcs.Hostel),
		Resident:  NewResidentHandler(svcs.Resident, svcs.Dashboard),
		Payment:   NewPaymentHandler(svcs.Ledger),
		Expense:   NewExpenseHandler(svcs.Expense),
		Dashboard: NewDashboardHandler(svcs.Dashboard),
		Portal:    NewPortalHandler(svcs.Resident),
		Audit:     NewAuditHandler(svcs.Audit),
		Job:       NewJobHandler(svcs.Job),
	}
}
