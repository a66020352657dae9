package services

import (
	"context"

	"github.com/ashrayhostel/hostel-api/internal/billing"
	"github.com/ashrayhostel/hostel-api/internal/repository"
	"github.com/ashrayhostel/hostel-api/pkg/logger"
)

// ReminderResult summarizes one reminder pass
type ReminderResult struct {
	Checked int `json:"checked"`
	Sent    int `json:"sent"`
	Failed  int `json:"failed"`
}

// ReminderService e-mails residents whose rent is critically close to due,
// at most once per billing cycle.
type ReminderService struct {
	residents repository.ResidentRepository
	notifier  Notifier
	clock     billing.Clock
}

func NewReminderService(residents repository.ResidentRepository, notifier Notifier, clock billing.Clock) *ReminderService {
	return &ReminderService{residents: residents, notifier: notifier, clock: clock}
}

// SendDueReminders notifies every critical resident not yet reminded in the current critical window
func (s *ReminderService) SendDueReminders(ctx context.Context) (ReminderResult, error) {
	var result ReminderResult

	now := s.clock.Now()
	today := billing.Today(now, s.clock.Location())
	// Anything settled on or before this date is at most CriticalMaxDays from due.
	settledBefore := today.AddDate(0, 0, billing.CriticalMaxDays-billing.CycleDays)

	residents, err := s.residents.FindDueForReminder(ctx, settledBefore)
	if err != nil {
		return result, storageErr("find residents due for reminder", err)
	}

	var sent []uint
	for i := range residents {
		r := &residents[i]
		result.Checked++

		snap := billing.Project(r.LastSettledDate, now, s.clock.Location())
		if snap.RiskTier != billing.RiskCritical {
			continue
		}
		// Measured from the critical window, not the anchor. A reminder sent the
		// morning of a same-day approval belongs to the previous cycle.
		if r.RemindedSince(billing.CriticalFrom(*snap.NextDueDate, s.clock.Location())) {
			continue
		}

		fee := billing.ResolveFee(r.MonthlyFee, r.Hostel.DefaultFee)
		if err := s.notifier.SendPaymentReminder(ctx, r, snap, fee); err != nil {
			logger.Error("Failed to send payment reminder", "resident_id", r.ID, "error", err)
			result.Failed++
			continue
		}
		sent = append(sent, r.ID)
	}

	if err := s.residents.MarkReminderSent(ctx, sent, now); err != nil {
		return result, storageErr("mark reminders sent", err)
	}
	result.Sent = len(sent)

	logger.Info("Payment reminders processed", "checked", result.Checked, "sent", result.Sent, "failed", result.Failed)
	return result, nil
}

// Run is the scheduled entry point
func (s *ReminderService) Run(ctx context.Context) error {
	_, err := s.SendDueReminders(ctx)
	return err
}
