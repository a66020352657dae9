package services

import (
	"bytes"
	"context"
	"errors"
	"mime/multipart"
	"net/textproto"
	"testing"
	"time"

	"github.com/ashrayhostel/hostel-api/internal/billing"
	"github.com/ashrayhostel/hostel-api/internal/models"
	"github.com/ashrayhostel/hostel-api/internal/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// multipartFile builds an in-memory upload like gin hands to handlers
func multipartFile(t *testing.T, filename string) (multipart.File, *multipart.FileHeader) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", `form-data; name="proof"; filename="`+filename+`"`)
	h.Set("Content-Type", "image/png")
	part, err := mw.CreatePart(h)
	require.NoError(t, err)
	_, err = part.Write([]byte("png bytes"))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	form, err := multipart.NewReader(&buf, mw.Boundary()).ReadForm(1 << 20)
	require.NoError(t, err)
	header := form.File["proof"][0]
	file, err := header.Open()
	require.NoError(t, err)
	t.Cleanup(func() { file.Close() })
	return file, header
}

type recordingDeleteStore struct {
	*storage.LocalStorage
	deleted []string
}

func (s *recordingDeleteStore) Delete(ref string) error {
	s.deleted = append(s.deleted, ref)
	return s.LocalStorage.Delete(ref)
}

func newResidentTestService(t *testing.T) (*ResidentService, *fixture, *storage.LocalStorage) {
	t.Helper()
	f := newFixture(t)
	store, err := storage.NewLocalStorage(t.TempDir())
	require.NoError(t, err)

	clock := billing.FixedClock{At: time.Date(2024, 1, 29, 12, 0, 0, 0, time.UTC)}
	audit := NewAuditService(f.repos.Audit)
	ledger := NewPaymentLedger(f.repos, clock, audit, &recordingNotifier{}, inlineDispatcher{})
	return NewResidentService(f.repos, ledger, store, clock, audit, "Fallback Hostel"), f, store
}

func TestResidentService_Create(t *testing.T) {
	svc, f, _ := newResidentTestService(t)
	ctx := context.Background()

	dob := time.Date(2002, 2, 3, 22, 0, 0, 0, time.FixedZone("IST", 5*3600+1800))
	r, err := svc.Create(ctx, CreateResidentInput{
		HostelID:      f.hostel.ID,
		FullName:      "  Meera Iyer ",
		Email:         "meera@example.com",
		MobileNumber:  "9000000001",
		DateOfBirth:   &dob,
		RoomNumber:    "305",
		AadhaarNumber: "1234 5678 9012",
	}, SystemActor)
	require.NoError(t, err)
	assert.Equal(t, "Meera Iyer", r.FullName)
	require.NotNil(t, r.AadhaarNumber)
	assert.Equal(t, "123456789012", *r.AadhaarNumber)
	assert.Nil(t, r.LastSettledDate, "new residents have no anchor")
	require.NotNil(t, r.DateOfBirth)
	assert.Equal(t, civil(2002, 2, 3), *r.DateOfBirth)

	_, err = svc.Create(ctx, CreateResidentInput{HostelID: f.hostel.ID, FullName: "X", MobileNumber: "12ab"}, SystemActor)
	var verr *ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, "mobile_number", verr.Field)

	_, err = svc.Create(ctx, CreateResidentInput{HostelID: f.hostel.ID, FullName: "X", MobileNumber: "9000000003", AadhaarNumber: "1234"}, SystemActor)
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, "aadhaar_number", verr.Field)

	_, err = svc.Create(ctx, CreateResidentInput{HostelID: 999, FullName: "X", MobileNumber: "9000000002"}, SystemActor)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestResidentService_Portal(t *testing.T) {
	svc, f, _ := newResidentTestService(t)
	ctx := context.Background()

	_, err := f.repos.Resident.SetLastSettledDate(ctx, f.ravi.ID, civil(2024, 1, 1))
	require.NoError(t, err)
	f.payment(t, f.ravi.ID, 3500, models.PaymentStatusPending, time.Date(2024, 1, 28, 0, 0, 0, 0, time.UTC))

	view, err := svc.Portal(ctx, f.ravi.ID)
	require.NoError(t, err)
	assert.Equal(t, "Ashray", view.HostelName)
	assert.Equal(t, int64(3500), view.MonthlyFee)
	assert.Equal(t, 2, view.Billing.DaysRemaining)
	assert.Equal(t, billing.RiskCritical, view.Billing.RiskTier)
	assert.Equal(t, 1, view.PendingPayments)
	assert.Contains(t, view.UPILink, "upi://pay?")
	assert.Contains(t, view.UPILink, "am=3500")
	assert.Contains(t, view.UPILink, "pa=ashray%40upi")

	_, err = svc.Portal(ctx, 999)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestResidentService_SubmitProof(t *testing.T) {
	svc, f, store := newResidentTestService(t)
	ctx := context.Background()

	file, header := multipartFile(t, "Receipt.PNG")
	p, err := svc.SubmitProof(ctx, f.asha.ID, nil, file, header, SystemActor)
	require.NoError(t, err)
	assert.Equal(t, int64(3000), p.Amount, "defaults to the hostel fee")
	require.NotNil(t, p.ProofRef)
	assert.True(t, store.Exists(*p.ProofRef))
	assert.Regexp(t, `^proofs/\d{4}/\d{2}/[0-9a-f-]+\.png$`, *p.ProofRef)

	file, header = multipartFile(t, "r.jpg")
	amount := int64(1200)
	p, err = svc.SubmitProof(ctx, f.ravi.ID, &amount, file, header, SystemActor)
	require.NoError(t, err)
	assert.Equal(t, int64(1200), p.Amount)

	payments, err := svc.Payments(ctx, f.ravi.ID)
	require.NoError(t, err)
	assert.Len(t, payments, 1)

	zero := int64(0)
	file, header = multipartFile(t, "r.jpg")
	_, err = svc.SubmitProof(ctx, f.ravi.ID, &zero, file, header, SystemActor)
	assert.ErrorIs(t, err, ErrValidation)
}

func TestResidentService_SubmitProofRemovesOrphan(t *testing.T) {
	f := newFixture(t)
	local, err := storage.NewLocalStorage(t.TempDir())
	require.NoError(t, err)
	store := &recordingDeleteStore{LocalStorage: local}

	clock := billing.FixedClock{At: time.Date(2024, 1, 29, 12, 0, 0, 0, time.UTC)}
	ledger := NewPaymentLedger(f.repos, clock, nil, nil, nil)
	svc := NewResidentService(f.repos, ledger, store, clock, nil, "")

	// Recording the payment fails after the upload succeeded
	require.NoError(t, f.db.Migrator().DropTable(&models.Payment{}))

	file, header := multipartFile(t, "r.png")
	_, err = svc.SubmitProof(context.Background(), f.asha.ID, nil, file, header, SystemActor)
	require.ErrorIs(t, err, ErrStorage)

	require.Len(t, store.deleted, 1)
	assert.False(t, local.Exists(store.deleted[0]), "orphaned proof is removed")
}

func TestResidentService_Delete(t *testing.T) {
	svc, f, store := newResidentTestService(t)
	ctx := context.Background()
	admin := Actor{Role: models.RoleAdmin, HostelID: f.hostel.ID}

	file, header := multipartFile(t, "a1.png")
	first, err := svc.SubmitProof(ctx, f.asha.ID, nil, file, header, SystemActor)
	require.NoError(t, err)
	file, header = multipartFile(t, "a2.png")
	second, err := svc.SubmitProof(ctx, f.asha.ID, nil, file, header, SystemActor)
	require.NoError(t, err)
	file, header = multipartFile(t, "r1.png")
	ravis, err := svc.SubmitProof(ctx, f.ravi.ID, nil, file, header, SystemActor)
	require.NoError(t, err)

	// an artifact that is already gone does not fail the delete
	require.NoError(t, store.Delete(*second.ProofRef))

	err = svc.Delete(ctx, f.hostel.ID+1, f.asha.ID, admin)
	assert.ErrorIs(t, err, ErrNotFound, "other hostels cannot delete the resident")
	assert.True(t, store.Exists(*first.ProofRef))

	require.NoError(t, svc.Delete(ctx, f.hostel.ID, f.asha.ID, admin))

	_, err = f.repos.Resident.FindByID(ctx, f.asha.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
	left, err := f.repos.Payment.FindByResident(ctx, f.asha.ID)
	require.NoError(t, err)
	assert.Empty(t, left, "payments are deleted with the resident")
	assert.False(t, store.Exists(*first.ProofRef), "proofs are removed")

	// other residents are untouched
	kept, err := f.repos.Payment.FindByResident(ctx, f.ravi.ID)
	require.NoError(t, err)
	require.Len(t, kept, 1)
	assert.Equal(t, ravis.ID, kept[0].ID)
	assert.True(t, store.Exists(*ravis.ProofRef))

	logs, _, err := f.repos.Audit.List(ctx, 1, 0)
	require.NoError(t, err)
	require.Len(t, logs, 1)
	assert.Equal(t, AuditDelete, logs[0].Action)
	assert.Equal(t, "Resident", logs[0].Entity)
	assert.Equal(t, f.asha.ID, logs[0].EntityID)
	assert.Contains(t, logs[0].Details, "2 payments removed")

	assert.ErrorIs(t, svc.Delete(ctx, f.hostel.ID, f.asha.ID, admin), ErrNotFound)
}
