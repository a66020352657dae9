// Package finance aggregates settled payments and expenses into per-month
// statistics for the admin dashboard.
package finance

import (
	"time"

	"github.com/shopspring/decimal"
)

// PaymentRecord is the slice of a payment the aggregator reads.
type PaymentRecord struct {
	ID        uint
	Amount    int64
	Settled   bool
	CreatedAt time.Time
}

// ExpenseRecord is the slice of an expense the aggregator reads.
// Date is a calendar date and is compared by its Y/M fields as stored.
type ExpenseRecord struct {
	ID     uint
	Amount int64
	Date   time.Time
}

// Input is everything Aggregate needs. Fees are already resolved per resident.
type Input struct {
	Payments   []PaymentRecord
	Expenses   []ExpenseRecord
	Fees       []int64
	Now        time.Time
	Location   *time.Location
	Exclusions Exclusions
}

// Period is a calendar month.
type Period struct {
	Year  int        `json:"year"`
	Month time.Month `json:"month"`
}

// PeriodOf returns the calendar month t falls in.
func PeriodOf(t time.Time) Period {
	return Period{Year: t.Year(), Month: t.Month()}
}

// Previous returns the preceding month, rolling January back to December.
func (p Period) Previous() Period {
	if p.Month == time.January {
		return Period{Year: p.Year - 1, Month: time.December}
	}
	return Period{Year: p.Year, Month: p.Month - 1}
}

func (p Period) String() string {
	return time.Date(p.Year, p.Month, 1, 0, 0, 0, 0, time.UTC).Format("2006-01")
}

// Snapshot is the derived dashboard statistics. Never persisted.
type Snapshot struct {
	CurrentPeriod   Period `json:"current_period"`
	PreviousPeriod  Period `json:"previous_period"`
	CurrentIncome   int64  `json:"current_income"`
	PreviousIncome  int64  `json:"previous_income"`
	CurrentExpense  int64  `json:"current_expense"`
	PreviousExpense int64  `json:"previous_expense"`
	ExpectedRevenue int64  `json:"expected_revenue"`
	PendingDues     int64  `json:"pending_dues"`
	ProfitMargin    int64  `json:"profit_margin"`

	IncomeChange     float64 `json:"income_change"`
	ExpenseChange    float64 `json:"expense_change"`
	ExcludedPayments int     `json:"excluded_payments"`
	ExcludedExpenses int     `json:"excluded_expenses"`
}

// Aggregate computes a Snapshot. It performs no I/O and identical inputs
// always produce identical output.
func Aggregate(in Input) Snapshot {
	loc := in.Location
	if loc == nil {
		loc = time.UTC
	}

	current := PeriodOf(in.Now.In(loc))
	previous := current.Previous()

	snap := Snapshot{
		CurrentPeriod:  current,
		PreviousPeriod: previous,
	}

	for _, p := range in.Payments {
		if !p.Settled {
			continue
		}
		if in.Exclusions.Payments.Has(p.ID) {
			snap.ExcludedPayments++
			continue
		}
		switch PeriodOf(p.CreatedAt.In(loc)) {
		case current:
			snap.CurrentIncome += p.Amount
		case previous:
			snap.PreviousIncome += p.Amount
		}
	}

	for _, e := range in.Expenses {
		if in.Exclusions.Expenses.Has(e.ID) {
			snap.ExcludedExpenses++
			continue
		}
		switch PeriodOf(e.Date) {
		case current:
			snap.CurrentExpense += e.Amount
		case previous:
			snap.PreviousExpense += e.Amount
		}
	}

	for _, fee := range in.Fees {
		snap.ExpectedRevenue += fee
	}

	snap.PendingDues = snap.ExpectedRevenue - snap.CurrentIncome
	if snap.PendingDues < 0 {
		snap.PendingDues = 0
	}

	snap.ProfitMargin = ProfitMargin(snap.CurrentIncome, snap.CurrentExpense)
	snap.IncomeChange = PercentageChange(snap.CurrentIncome, snap.PreviousIncome)
	snap.ExpenseChange = PercentageChange(snap.CurrentExpense, snap.PreviousExpense)

	return snap
}

var hundred = decimal.NewFromInt(100)

// ProfitMargin returns round((income-expense)/income*100), or 0 without income.
// Rounds half away from zero.
func ProfitMargin(income, expense int64) int64 {
	if income <= 0 {
		return 0
	}
	inc := decimal.NewFromInt(income)
	margin := inc.Sub(decimal.NewFromInt(expense)).Mul(hundred).Div(inc)
	return margin.Round(0).IntPart()
}

// PercentageChange is the month-over-month change rounded to one decimal.
// With no previous value it is 100 when current is positive, else 0.
func PercentageChange(current, previous int64) float64 {
	if previous == 0 {
		if current > 0 {
			return 100.0
		}
		return 0.0
	}
	prev := decimal.NewFromInt(previous)
	change := decimal.NewFromInt(current).Sub(prev).Mul(hundred).Div(prev)
	f, _ := change.Round(1).Float64()
	return f
}
