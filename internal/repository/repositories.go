package repository

import (
	"context"

	"gorm.io/gorm"
)

// Repositories holds all repository instances
type Repositories struct {
	db *gorm.DB

	Hostel   HostelRepository
	Resident ResidentRepository
	Payment  PaymentRepository
	Expense  ExpenseRepository
	Audit    AuditRepository
}

// NewRepositories creates all repository instances
func NewRepositories(db *gorm.DB) *Repositories {
	return &Repositories{
		db:       db,
		Hostel:   NewHostelRepository(db),
		Resident: NewResidentRepository(db),
		Payment:  NewPaymentRepository(db),
		Expense:  NewExpenseRepository(db),
		Audit:    NewAuditRepository(db),
	}
}

// Transaction runs fn with repositories bound to a single database transaction.
// Returning an error from fn rolls everything back.
func (r *Repositories) Transaction(ctx context.Context, fn func(tx *Repositories) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(NewRepositories(tx))
	})
}

// ListQuery represents common query parameters
type ListQuery struct {
	Page    int
	PerPage int
	Search  string
	SortBy  string
	SortDir string
	Filters map[string]string
}

// NewListQuery creates a ListQuery with defaults
func NewListQuery() *ListQuery {
	return &ListQuery{
		Page:    1,
		PerPage: 20,
		Filters: make(map[string]string),
	}
}

// sortable columns per table; anything else falls back to the default order
var sortableColumns = map[string]bool{
	"created_at":   true,
	"amount":       true,
	"full_name":    true,
	"room_number":  true,
	"expense_date": true,
	"status":       true,
}

func applyListQuery(db *gorm.DB, query *ListQuery, table, defaultOrder string) *gorm.DB {
	if query.SortBy != "" && sortableColumns[query.SortBy] {
		order := table + "." + query.SortBy
		if query.SortDir == "desc" {
			order += " DESC"
		}
		db = db.Order(order)
	} else {
		db = db.Order(defaultOrder)
	}

	if query.PerPage > 0 {
		page := query.Page
		if page < 1 {
			page = 1
		}
		db = db.Offset((page - 1) * query.PerPage).Limit(query.PerPage)
	}
	return db
}
