package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/ashrayhostel/hostel-api/internal/database/dbtest"
	"github.com/ashrayhostel/hostel-api/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func civil(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func seed(t *testing.T, repos *Repositories) (*models.Hostel, *models.Resident, *models.Resident) {
	t.Helper()
	ctx := context.Background()

	hostel := &models.Hostel{Name: "Ashray"}
	require.NoError(t, repos.Hostel.Create(ctx, hostel))

	dob := civil(2003, 7, 14)
	email := "asha@example.com"
	asha := &models.Resident{HostelID: hostel.ID, FullName: "Asha Rao", MobileNumber: "9876543210", DateOfBirth: &dob, RoomNumber: "101", Email: &email}
	ravi := &models.Resident{HostelID: hostel.ID, FullName: "Ravi Kumar", MobileNumber: "9123456780", RoomNumber: "204"}
	require.NoError(t, repos.Resident.Create(ctx, asha))
	require.NoError(t, repos.Resident.Create(ctx, ravi))

	return hostel, asha, ravi
}

func TestResidentRepository_FindByHostelSearch(t *testing.T) {
	repos := NewRepositories(dbtest.New(t))
	hostel, _, _ := seed(t, repos)
	ctx := context.Background()

	all, err := repos.Resident.FindByHostel(ctx, hostel.ID, "")
	require.NoError(t, err)
	assert.Len(t, all, 2)

	byName, err := repos.Resident.FindByHostel(ctx, hostel.ID, "ASHA")
	require.NoError(t, err)
	require.Len(t, byName, 1)
	assert.Equal(t, "Asha Rao", byName[0].FullName)

	byRoom, err := repos.Resident.FindByHostel(ctx, hostel.ID, "20")
	require.NoError(t, err)
	require.Len(t, byRoom, 1)
	assert.Equal(t, "Ravi Kumar", byRoom[0].FullName)

	other, err := repos.Resident.FindByHostel(ctx, hostel.ID+1, "")
	require.NoError(t, err)
	assert.Empty(t, other)
}

func TestResidentRepository_FindByMobileAndDOB(t *testing.T) {
	repos := NewRepositories(dbtest.New(t))
	_, asha, _ := seed(t, repos)
	ctx := context.Background()

	found, err := repos.Resident.FindByMobileAndDOB(ctx, "9876543210", civil(2003, 7, 14))
	require.NoError(t, err)
	assert.Equal(t, asha.ID, found.ID)

	_, err = repos.Resident.FindByMobileAndDOB(ctx, "9876543210", civil(2003, 7, 15))
	assert.True(t, errors.Is(err, gorm.ErrRecordNotFound))
}

func TestResidentRepository_SetLastSettledDate(t *testing.T) {
	repos := NewRepositories(dbtest.New(t))
	_, asha, ravi := seed(t, repos)
	ctx := context.Background()

	rows, err := repos.Resident.SetLastSettledDate(ctx, asha.ID, civil(2024, 3, 1))
	require.NoError(t, err)
	assert.Equal(t, int64(1), rows)

	rows, err = repos.Resident.SetLastSettledDate(ctx, 9999, civil(2024, 3, 1))
	require.NoError(t, err)
	assert.Equal(t, int64(0), rows)

	got, err := repos.Resident.FindByID(ctx, asha.ID)
	require.NoError(t, err)
	require.NotNil(t, got.LastSettledDate)
	assert.True(t, civil(2024, 3, 1).Equal(*got.LastSettledDate))

	untouched, err := repos.Resident.FindByID(ctx, ravi.ID)
	require.NoError(t, err)
	assert.Nil(t, untouched.LastSettledDate)
}

func TestResidentRepository_FindDueForReminder(t *testing.T) {
	repos := NewRepositories(dbtest.New(t))
	_, asha, ravi := seed(t, repos)
	ctx := context.Background()

	_, err := repos.Resident.SetLastSettledDate(ctx, asha.ID, civil(2024, 1, 1))
	require.NoError(t, err)
	// ravi has no e-mail and must never be returned
	_, err = repos.Resident.SetLastSettledDate(ctx, ravi.ID, civil(2024, 1, 1))
	require.NoError(t, err)

	due, err := repos.Resident.FindDueForReminder(ctx, civil(2024, 1, 5))
	require.NoError(t, err)
	require.Len(t, due, 1)
	assert.Equal(t, asha.ID, due[0].ID)

	due, err = repos.Resident.FindDueForReminder(ctx, civil(2023, 12, 31))
	require.NoError(t, err)
	assert.Empty(t, due)

	at := time.Date(2024, 1, 28, 9, 0, 0, 0, time.UTC)
	require.NoError(t, repos.Resident.MarkReminderSent(ctx, []uint{asha.ID}, at))
	got, err := repos.Resident.FindByID(ctx, asha.ID)
	require.NoError(t, err)
	require.NotNil(t, got.ReminderSentAt)
	assert.True(t, got.RemindedSince(civil(2024, 1, 1)))
}

func TestResidentRepository_DeleteWithPayments(t *testing.T) {
	repos := NewRepositories(dbtest.New(t))
	_, asha, ravi := seed(t, repos)
	ctx := context.Background()

	for i, p := range []*models.Payment{
		{ResidentID: asha.ID, Amount: 3000, ReferenceToken: "TXN-DEL0000001", Status: models.PaymentStatusSettled},
		{ResidentID: asha.ID, Amount: 3000, ReferenceToken: "TXN-DEL0000002", Status: models.PaymentStatusPending},
		{ResidentID: ravi.ID, Amount: 3500, ReferenceToken: "TXN-DEL0000003", Status: models.PaymentStatusPending},
	} {
		require.NoError(t, repos.Payment.Create(ctx, p), "payment %d", i)
	}

	removed, err := repos.Payment.DeleteByResident(ctx, asha.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), removed)

	rows, err := repos.Resident.Delete(ctx, asha.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), rows)

	rows, err = repos.Resident.Delete(ctx, asha.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(0), rows, "missing resident affects no rows")

	_, err = repos.Resident.FindByID(ctx, asha.ID)
	assert.True(t, errors.Is(err, gorm.ErrRecordNotFound))

	left, err := repos.Payment.FindByResident(ctx, ravi.ID)
	require.NoError(t, err)
	assert.Len(t, left, 1)
}

func TestPaymentRepository_TransitionStatusIsConditional(t *testing.T) {
	repos := NewRepositories(dbtest.New(t))
	_, asha, _ := seed(t, repos)
	ctx := context.Background()

	p := &models.Payment{ResidentID: asha.ID, Amount: 3000, ReferenceToken: "TXN-AAAAAAAAAA", Status: models.PaymentStatusPending}
	require.NoError(t, repos.Payment.Create(ctx, p))

	update := StatusUpdate{At: time.Now(), By: 1}
	rows, err := repos.Payment.TransitionStatus(ctx, p.ID, models.PaymentStatusPending, models.PaymentStatusSettled, update)
	require.NoError(t, err)
	assert.Equal(t, int64(1), rows)

	rows, err = repos.Payment.TransitionStatus(ctx, p.ID, models.PaymentStatusPending, models.PaymentStatusRejected, update)
	require.NoError(t, err)
	assert.Equal(t, int64(0), rows)

	got, err := repos.Payment.FindByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, models.PaymentStatusSettled, got.Status)
	require.NotNil(t, got.AdjudicatedBy)
	assert.Equal(t, uint(1), *got.AdjudicatedBy)
	assert.Equal(t, asha.FullName, got.Resident.FullName)
}

func TestPaymentRepository_ListAndSettled(t *testing.T) {
	repos := NewRepositories(dbtest.New(t))
	hostel, asha, ravi := seed(t, repos)
	ctx := context.Background()

	for i, p := range []*models.Payment{
		{ResidentID: asha.ID, Amount: 3000, ReferenceToken: "TXN-0000000001", Status: models.PaymentStatusSettled},
		{ResidentID: asha.ID, Amount: 3000, ReferenceToken: "TXN-0000000002", Status: models.PaymentStatusPending},
		{ResidentID: ravi.ID, Amount: 3500, ReferenceToken: "TXN-0000000003", Status: models.PaymentStatusRejected},
	} {
		require.NoError(t, repos.Payment.Create(ctx, p), "payment %d", i)
	}

	query := NewListQuery()
	query.Filters["status"] = models.PaymentStatusPending
	pending, total, err := repos.Payment.List(ctx, hostel.ID, query)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, pending, 1)
	assert.Equal(t, "TXN-0000000002", pending[0].ReferenceToken)

	query = NewListQuery()
	query.Search = "ravi"
	found, total, err := repos.Payment.List(ctx, hostel.ID, query)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Equal(t, ravi.ID, found[0].ResidentID)

	settled, err := repos.Payment.FindSettledByHostel(ctx, hostel.ID)
	require.NoError(t, err)
	require.Len(t, settled, 1)
	assert.Equal(t, "TXN-0000000001", settled[0].ReferenceToken)

	mine, err := repos.Payment.FindByResident(ctx, asha.ID)
	require.NoError(t, err)
	assert.Len(t, mine, 2)
}

func TestPaymentRepository_SweepableAndDetach(t *testing.T) {
	repos := NewRepositories(dbtest.New(t))
	_, asha, _ := seed(t, repos)
	ctx := context.Background()

	now := time.Now().UTC()
	old := "proofs/2024/01/old.png"
	fresh := "proofs/2024/03/new.png"
	oldPayment := &models.Payment{ResidentID: asha.ID, Amount: 3000, ReferenceToken: "TXN-OLD0000000", Status: models.PaymentStatusSettled, ProofRef: &old, CreatedAt: now.AddDate(0, 0, -45)}
	freshPayment := &models.Payment{ResidentID: asha.ID, Amount: 3000, ReferenceToken: "TXN-NEW0000000", Status: models.PaymentStatusPending, ProofRef: &fresh, CreatedAt: now.AddDate(0, 0, -2)}
	require.NoError(t, repos.Payment.Create(ctx, oldPayment))
	require.NoError(t, repos.Payment.Create(ctx, freshPayment))

	cutoff := now.AddDate(0, 0, -30)
	sweepable, err := repos.Payment.FindSweepable(ctx, cutoff)
	require.NoError(t, err)
	require.Len(t, sweepable, 1)
	assert.Equal(t, oldPayment.ID, sweepable[0].ID)

	require.NoError(t, repos.Payment.DetachProof(ctx, oldPayment.ID))

	sweepable, err = repos.Payment.FindSweepable(ctx, cutoff)
	require.NoError(t, err)
	assert.Empty(t, sweepable)
}

func TestExpenseRepository_CreateListDelete(t *testing.T) {
	repos := NewRepositories(dbtest.New(t))
	hostel, _, _ := seed(t, repos)
	ctx := context.Background()

	e1 := &models.Expense{HostelID: hostel.ID, Amount: 1200, Description: "Electricity", ExpenseDate: civil(2024, 3, 1)}
	e2 := &models.Expense{HostelID: hostel.ID, Amount: 400, Description: "Water", ExpenseDate: civil(2024, 3, 5)}
	require.NoError(t, repos.Expense.Create(ctx, e1))
	require.NoError(t, repos.Expense.Create(ctx, e2))

	list, err := repos.Expense.FindByHostel(ctx, hostel.ID)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "Water", list[0].Description)

	require.NoError(t, repos.Expense.Delete(ctx, e1.ID))
	_, err = repos.Expense.FindByID(ctx, e1.ID)
	assert.True(t, errors.Is(err, gorm.ErrRecordNotFound))
}

func TestRepositories_TransactionRollsBack(t *testing.T) {
	repos := NewRepositories(dbtest.New(t))
	_, asha, _ := seed(t, repos)
	ctx := context.Background()

	boom := errors.New("boom")
	err := repos.Transaction(ctx, func(tx *Repositories) error {
		if _, err := tx.Resident.SetLastSettledDate(ctx, asha.ID, civil(2024, 5, 1)); err != nil {
			return err
		}
		return boom
	})
	assert.ErrorIs(t, err, boom)

	got, err := repos.Resident.FindByID(ctx, asha.ID)
	require.NoError(t, err)
	assert.Nil(t, got.LastSettledDate)
}
