package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/ashrayhostel/hostel-api/internal/billing"
	"github.com/ashrayhostel/hostel-api/internal/jobs"
	"github.com/ashrayhostel/hostel-api/internal/models"
	"github.com/ashrayhostel/hostel-api/internal/repository"
	"github.com/ashrayhostel/hostel-api/internal/statemachine"
	"github.com/ashrayhostel/hostel-api/pkg/logger"
	"github.com/google/uuid"
)

// Dispatcher runs work after the request that triggered it. *jobs.Worker implements it.
// EnqueueAsync reports whether the job was accepted.
type Dispatcher interface {
	EnqueueAsync(job jobs.Job) bool
}

// SubmitPaymentInput is a resident's claim of payment
type SubmitPaymentInput struct {
	ResidentID uint   `validate:"required"`
	Amount     int64  `validate:"gt=0"`
	ProofRef   string `validate:"required"`
}

// PaymentLedger owns the payment lifecycle: pending → settled | rejected.
// Approval is the only writer of a resident's billing anchor.
type PaymentLedger struct {
	repos      *repository.Repositories
	clock      billing.Clock
	audit      *AuditService
	notifier   Notifier
	dispatcher Dispatcher
}

func NewPaymentLedger(repos *repository.Repositories, clock billing.Clock, audit *AuditService, notifier Notifier, dispatcher Dispatcher) *PaymentLedger {
	return &PaymentLedger{
		repos:      repos,
		clock:      clock,
		audit:      audit,
		notifier:   notifier,
		dispatcher: dispatcher,
	}
}

// Submit records a pending payment for a resident
func (l *PaymentLedger) Submit(ctx context.Context, in SubmitPaymentInput, actor Actor) (*models.Payment, error) {
	in.ProofRef = strings.TrimSpace(in.ProofRef)
	if err := validateStruct(in); err != nil {
		return nil, err
	}

	if _, err := l.repos.Resident.FindByID(ctx, in.ResidentID); err != nil {
		return nil, lookupErr("find resident", err)
	}

	proof := in.ProofRef
	payment := &models.Payment{
		ResidentID:     in.ResidentID,
		Amount:         in.Amount,
		ReferenceToken: NewReferenceToken(),
		ProofRef:       &proof,
		Status:         models.PaymentStatusPending,
	}
	if err := l.repos.Payment.Create(ctx, payment); err != nil {
		return nil, storageErr("create payment", err)
	}

	logger.Info("Payment submitted", "payment_id", payment.ID, "resident_id", payment.ResidentID, "amount", payment.Amount)
	l.afterCommit(actor, AuditSubmit, payment, nil)
	return payment, nil
}

// Approve settles a pending payment and moves the owner's billing anchor to today.
// Both writes happen in one transaction.
func (l *PaymentLedger) Approve(ctx context.Context, paymentID uint, actor Actor) (*models.Payment, error) {
	payment, err := l.repos.Payment.FindByID(ctx, paymentID)
	if err != nil {
		return nil, lookupErr("find payment", err)
	}

	if err := checkScope(actor, payment); err != nil {
		return nil, err
	}

	if err := statemachine.NewPaymentFSM(payment).Approve(ctx); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidStateTransition, err)
	}

	now := l.clock.Now()
	today := billing.Today(now, l.clock.Location())

	err = l.repos.Transaction(ctx, func(tx *repository.Repositories) error {
		rows, err := tx.Payment.TransitionStatus(ctx, paymentID, models.PaymentStatusPending, models.PaymentStatusSettled,
			repository.StatusUpdate{At: now, By: actor.ID})
		if err != nil {
			return storageErr("settle payment", err)
		}
		if rows == 0 {
			return fmt.Errorf("payment %d is no longer pending: %w", paymentID, ErrInvalidStateTransition)
		}

		rows, err = tx.Resident.SetLastSettledDate(ctx, payment.ResidentID, today)
		if err != nil {
			return storageErr("update billing anchor", err)
		}
		if rows == 0 {
			return fmt.Errorf("resident %d: %w", payment.ResidentID, ErrNotFound)
		}
		return nil
	})
	if err != nil {
		if !isServiceError(err) {
			err = storageErr("approve payment", err)
		}
		return nil, err
	}

	adjudicatedAt := now.UTC()
	payment.AdjudicatedAt = &adjudicatedAt
	payment.AdjudicatedBy = &actor.ID
	payment.Resident.LastSettledDate = &today

	logger.Info("Payment approved", "payment_id", payment.ID, "resident_id", payment.ResidentID, "anchor", today.Format("2006-01-02"))
	l.afterCommit(actor, AuditApprove, payment, l.notifyApproved)
	return payment, nil
}

// Reject marks a pending payment as rejected. The resident is not touched.
func (l *PaymentLedger) Reject(ctx context.Context, paymentID uint, actor Actor, reason string) (*models.Payment, error) {
	reason = strings.TrimSpace(reason)
	if len(reason) > 500 {
		return nil, &ValidationError{Field: "reason", Reason: "must be at most 500 characters"}
	}

	payment, err := l.repos.Payment.FindByID(ctx, paymentID)
	if err != nil {
		return nil, lookupErr("find payment", err)
	}

	if err := checkScope(actor, payment); err != nil {
		return nil, err
	}

	if err := statemachine.NewPaymentFSM(payment).Reject(ctx); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidStateTransition, err)
	}

	now := l.clock.Now()
	update := repository.StatusUpdate{At: now, By: actor.ID}
	if reason != "" {
		update.RejectionReason = &reason
	}

	rows, err := l.repos.Payment.TransitionStatus(ctx, paymentID, models.PaymentStatusPending, models.PaymentStatusRejected, update)
	if err != nil {
		return nil, storageErr("reject payment", err)
	}
	if rows == 0 {
		return nil, fmt.Errorf("payment %d is no longer pending: %w", paymentID, ErrInvalidStateTransition)
	}

	adjudicatedAt := now.UTC()
	payment.AdjudicatedAt = &adjudicatedAt
	payment.AdjudicatedBy = &actor.ID
	payment.RejectionReason = update.RejectionReason

	logger.Info("Payment rejected", "payment_id", payment.ID, "resident_id", payment.ResidentID)
	l.afterCommit(actor, AuditReject, payment, l.notifyRejected)
	return payment, nil
}

// List returns a hostel's payments, newest first unless the query sorts otherwise
func (l *PaymentLedger) List(ctx context.Context, hostelID uint, query *repository.ListQuery) ([]models.Payment, int64, error) {
	payments, total, err := l.repos.Payment.List(ctx, hostelID, query)
	if err != nil {
		return nil, 0, storageErr("list payments", err)
	}
	return payments, total, nil
}

// checkScope hides payments of other hostels from a hostel-scoped admin
func checkScope(actor Actor, payment *models.Payment) error {
	if actor.HostelID != 0 && payment.Resident.HostelID != actor.HostelID {
		return fmt.Errorf("payment %d: %w", payment.ID, ErrNotFound)
	}
	return nil
}

// afterCommit enqueues the audit entry and the optional resident notice.
// Failures here are logged by the worker and never affect the transition.
func (l *PaymentLedger) afterCommit(actor Actor, action string, payment *models.Payment, notify func(context.Context, *models.Payment) error) {
	if l.dispatcher == nil {
		return
	}
	p := *payment
	accepted := l.dispatcher.EnqueueAsync(func(ctx context.Context) error {
		var errs []error
		if l.audit != nil {
			details := fmt.Sprintf("payment %s amount %d status %s", p.ReferenceToken, p.Amount, p.Status)
			if err := l.audit.Log(ctx, actor, action, "Payment", p.ID, details); err != nil {
				errs = append(errs, fmt.Errorf("audit: %w", err))
			}
		}
		if notify != nil && l.notifier != nil {
			if err := notify(ctx, &p); err != nil {
				errs = append(errs, fmt.Errorf("notify: %w", err))
			}
		}
		return errors.Join(errs...)
	})
	if !accepted {
		logger.Warn("Post-commit work dropped", "payment_id", p.ID, "action", action)
	}
}

func (l *PaymentLedger) notifyApproved(ctx context.Context, p *models.Payment) error {
	resident, err := l.repos.Resident.FindByID(ctx, p.ResidentID)
	if err != nil {
		return err
	}
	return l.notifier.SendPaymentApproved(ctx, resident, p)
}

func (l *PaymentLedger) notifyRejected(ctx context.Context, p *models.Payment) error {
	resident, err := l.repos.Resident.FindByID(ctx, p.ResidentID)
	if err != nil {
		return err
	}
	return l.notifier.SendPaymentRejected(ctx, resident, p)
}

// NewReferenceToken returns a human-quotable payment reference, e.g. TXN-3F9A0C12BE.
func NewReferenceToken() string {
	id := strings.ReplaceAll(uuid.NewString(), "-", "")
	return "TXN-" + strings.ToUpper(id[:10])
}

func isServiceError(err error) bool {
	return errors.Is(err, ErrValidation) ||
		errors.Is(err, ErrInvalidStateTransition) ||
		errors.Is(err, ErrNotFound) ||
		errors.Is(err, ErrStorage)
}
