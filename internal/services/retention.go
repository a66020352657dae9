package services

import (
	"context"
	"errors"
	"io/fs"
	"sync/atomic"
	"time"

	"github.com/ashrayhostel/hostel-api/internal/billing"
	"github.com/ashrayhostel/hostel-api/internal/repository"
	"github.com/ashrayhostel/hostel-api/internal/storage"
	"github.com/ashrayhostel/hostel-api/pkg/logger"
)

// DefaultRetention is how long payment proofs are kept
const DefaultRetention = 30 * 24 * time.Hour

// SweepResult summarizes one retention pass
type SweepResult struct {
	Scanned int `json:"scanned"`
	Purged  int `json:"purged"`
	Failed  int `json:"failed"`
}

// RetentionSweeper deletes payment proofs older than the retention age and
// clears the reference on the payment. Payment records themselves are kept.
type RetentionSweeper struct {
	payments   repository.PaymentRepository
	store      storage.ProofStore
	clock      billing.Clock
	retention  time.Duration
	dispatcher Dispatcher
	running    atomic.Bool
}

func NewRetentionSweeper(payments repository.PaymentRepository, store storage.ProofStore, clock billing.Clock, retention time.Duration, dispatcher Dispatcher) *RetentionSweeper {
	if retention <= 0 {
		retention = DefaultRetention
	}
	return &RetentionSweeper{
		payments:   payments,
		store:      store,
		clock:      clock,
		retention:  retention,
		dispatcher: dispatcher,
	}
}

// Sweep purges every eligible proof. A failing item is logged and skipped;
// nothing is returned to the caller as an error. Running it again is harmless
// because purged payments no longer carry a reference.
func (s *RetentionSweeper) Sweep(ctx context.Context) SweepResult {
	var result SweepResult

	cutoff := s.clock.Now().Add(-s.retention)
	candidates, err := s.payments.FindSweepable(ctx, cutoff)
	if err != nil {
		logger.Error("Retention sweep could not list payments", "error", err)
		return result
	}
	result.Scanned = len(candidates)

	for _, p := range candidates {
		if ctx.Err() != nil {
			logger.Warn("Retention sweep interrupted", "remaining", result.Scanned-result.Purged-result.Failed)
			break
		}
		if p.ProofRef == nil {
			continue
		}

		if err := s.store.Delete(*p.ProofRef); err != nil && !errors.Is(err, fs.ErrNotExist) {
			logger.Error("Retention sweep failed to delete proof", "payment_id", p.ID, "ref", *p.ProofRef, "error", err)
			result.Failed++
			continue
		}

		if err := s.payments.DetachProof(ctx, p.ID); err != nil {
			logger.Error("Retention sweep failed to detach proof", "payment_id", p.ID, "error", err)
			result.Failed++
			continue
		}
		result.Purged++
	}

	if result.Scanned > 0 {
		logger.Info("Retention sweep finished", "scanned", result.Scanned, "purged", result.Purged, "failed", result.Failed)
	}
	return result
}

// Run is the scheduled entry point. It skips when another sweep is in flight.
func (s *RetentionSweeper) Run(ctx context.Context) error {
	if !s.running.CompareAndSwap(false, true) {
		logger.Debug("Retention sweep already running, skipping")
		return nil
	}
	defer s.running.Store(false)
	s.Sweep(ctx)
	return nil
}

// TriggerAsync starts a background sweep unless one is already running.
// It reports whether a sweep was started.
func (s *RetentionSweeper) TriggerAsync() bool {
	if s.dispatcher == nil {
		return false
	}
	if !s.running.CompareAndSwap(false, true) {
		return false
	}
	accepted := s.dispatcher.EnqueueAsync(func(ctx context.Context) error {
		defer s.running.Store(false)
		s.Sweep(ctx)
		return nil
	})
	if !accepted {
		s.running.Store(false)
	}
	return accepted
}
