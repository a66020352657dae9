package services

import (
	"context"

	"github.com/ashrayhostel/hostel-api/internal/billing"
	"github.com/ashrayhostel/hostel-api/internal/models"
	"github.com/ashrayhostel/hostel-api/pkg/logger"
)

// disabledNotifier is used when e-mail is not configured
type disabledNotifier struct{}

func (disabledNotifier) SendPaymentReminder(ctx context.Context, resident *models.Resident, snap billing.Snapshot, fee int64) error {
	logger.Debug("E-mail disabled, reminder not sent", "resident_id", resident.ID)
	return nil
}

func (disabledNotifier) SendPaymentApproved(ctx context.Context, resident *models.Resident, payment *models.Payment) error {
	return nil
}

func (disabledNotifier) SendPaymentRejected(ctx context.Context, resident *models.Resident, payment *models.Payment) error {
	return nil
}
