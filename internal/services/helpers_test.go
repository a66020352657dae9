package services

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/ashrayhostel/hostel-api/internal/billing"
	"github.com/ashrayhostel/hostel-api/internal/database/dbtest"
	"github.com/ashrayhostel/hostel-api/internal/jobs"
	"github.com/ashrayhostel/hostel-api/internal/models"
	"github.com/ashrayhostel/hostel-api/internal/repository"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// inlineDispatcher runs dispatched jobs immediately on the caller's goroutine
type inlineDispatcher struct{}

func (inlineDispatcher) EnqueueAsync(job jobs.Job) bool {
	_ = job(context.Background())
	return true
}

// heldDispatcher keeps jobs until the test releases them
type heldDispatcher struct {
	mu   sync.Mutex
	jobs []jobs.Job
}

func (d *heldDispatcher) EnqueueAsync(job jobs.Job) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.jobs = append(d.jobs, job)
	return true
}

func (d *heldDispatcher) release() {
	d.mu.Lock()
	held := d.jobs
	d.jobs = nil
	d.mu.Unlock()
	for _, job := range held {
		_ = job(context.Background())
	}
}

// recordingNotifier remembers who was notified
type recordingNotifier struct {
	mu       sync.Mutex
	reminded []uint
	approved []uint
	rejected []uint
	failFor  map[uint]error
}

func (n *recordingNotifier) SendPaymentReminder(ctx context.Context, resident *models.Resident, snap billing.Snapshot, fee int64) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	if err := n.failFor[resident.ID]; err != nil {
		return err
	}
	n.reminded = append(n.reminded, resident.ID)
	return nil
}

func (n *recordingNotifier) SendPaymentApproved(ctx context.Context, resident *models.Resident, payment *models.Payment) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.approved = append(n.approved, payment.ID)
	return nil
}

func (n *recordingNotifier) SendPaymentRejected(ctx context.Context, resident *models.Resident, payment *models.Payment) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.rejected = append(n.rejected, payment.ID)
	return nil
}

func civil(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func int64Ptr(v int64) *int64 { return &v }

func strPtr(s string) *string { return &s }

type fixture struct {
	db     *gorm.DB
	repos  *repository.Repositories
	hostel *models.Hostel
	asha   *models.Resident
	ravi   *models.Resident
}

// newFixture seeds one hostel (default fee 3000) with two residents.
// Ravi pays a 3500 override.
func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctx := context.Background()
	db := dbtest.New(t)
	repos := repository.NewRepositories(db)

	hostel := &models.Hostel{Name: "Ashray", DefaultFee: int64Ptr(3000), UPIID: strPtr("ashray@upi")}
	require.NoError(t, repos.Hostel.Create(ctx, hostel))

	asha := &models.Resident{HostelID: hostel.ID, FullName: "Asha Rao", MobileNumber: "9876543210", RoomNumber: "101", Email: strPtr("asha@example.com")}
	ravi := &models.Resident{HostelID: hostel.ID, FullName: "Ravi Kumar", MobileNumber: "9123456780", RoomNumber: "204", MonthlyFee: int64Ptr(3500)}
	require.NoError(t, repos.Resident.Create(ctx, asha))
	require.NoError(t, repos.Resident.Create(ctx, ravi))

	return &fixture{db: db, repos: repos, hostel: hostel, asha: asha, ravi: ravi}
}

func (f *fixture) payment(t *testing.T, residentID uint, amount int64, status string, createdAt time.Time) *models.Payment {
	t.Helper()
	p := &models.Payment{
		ResidentID:     residentID,
		Amount:         amount,
		ReferenceToken: NewReferenceToken(),
		ProofRef:       strPtr("proofs/2024/01/x.png"),
		Status:         status,
		CreatedAt:      createdAt,
	}
	require.NoError(t, f.repos.Payment.Create(context.Background(), p))
	return p
}
