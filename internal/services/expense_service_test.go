package services

import (
	"context"
	"testing"
	"time"

	"github.com/ashrayhostel/hostel-api/internal/billing"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExpenseService(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	kolkata, err := time.LoadLocation("Asia/Kolkata")
	require.NoError(t, err)
	// 19:00 UTC on Jan 31 is already Feb 1 in Kolkata
	clock := billing.FixedClock{At: time.Date(2024, 1, 31, 19, 0, 0, 0, time.UTC), Loc: kolkata}
	svc := NewExpenseService(f.repos.Expense, clock, NewAuditService(f.repos.Audit))
	admin := Actor{Role: "admin", HostelID: f.hostel.ID}

	today, err := svc.Create(ctx, CreateExpenseInput{HostelID: f.hostel.ID, Amount: 800, Description: " Water "}, admin)
	require.NoError(t, err)
	assert.Equal(t, civil(2024, 2, 1), today.ExpenseDate)
	assert.Equal(t, "Water", today.Description)

	backdated := time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)
	_, err = svc.Create(ctx, CreateExpenseInput{HostelID: f.hostel.ID, Amount: 1500, Description: "Repairs", ExpenseDate: &backdated}, admin)
	require.NoError(t, err)

	_, err = svc.Create(ctx, CreateExpenseInput{HostelID: f.hostel.ID, Amount: 100}, admin)
	assert.ErrorIs(t, err, ErrValidation)

	list, err := svc.List(ctx, f.hostel.ID)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "Water", list[0].Description, "newest first")

	assert.ErrorIs(t, svc.Delete(ctx, f.hostel.ID+1, today.ID, admin), ErrNotFound)
	require.NoError(t, svc.Delete(ctx, f.hostel.ID, today.ID, admin))
	assert.ErrorIs(t, svc.Delete(ctx, f.hostel.ID, today.ID, admin), ErrNotFound)

	logs, total, err := f.repos.Audit.List(ctx, 10, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	assert.Equal(t, AuditDelete, logs[0].Action)
}
