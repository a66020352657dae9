package services

import (
	"bytes"
	"context"
	"embed"
	"errors"
	"fmt"
	"html/template"

	"github.com/ashrayhostel/hostel-api/internal/billing"
	"github.com/ashrayhostel/hostel-api/internal/config"
	"github.com/ashrayhostel/hostel-api/internal/models"
	"github.com/ashrayhostel/hostel-api/pkg/logger"
	"github.com/resend/resend-go/v2"
)

//go:embed templates/email/*.html
var emailTemplates embed.FS

// Notifier sends resident-facing notices. EmailService is the production implementation.
type Notifier interface {
	SendPaymentReminder(ctx context.Context, resident *models.Resident, snap billing.Snapshot, fee int64) error
	SendPaymentApproved(ctx context.Context, resident *models.Resident, payment *models.Payment) error
	SendPaymentRejected(ctx context.Context, resident *models.Resident, payment *models.Payment) error
}

type EmailService struct {
	config       *config.Config
	resendClient *resend.Client
}

func NewEmailService(cfg *config.Config) *EmailService {
	client := resend.NewClient(cfg.ResendAPIKey)
	return &EmailService{
		config:       cfg,
		resendClient: client,
	}
}

// checkEmailPreconditions reports whether an e-mail should be sent.
// A resident without an address is skipped silently; missing configuration is an error.
func (s *EmailService) checkEmailPreconditions(resident *models.Resident, operation string) (bool, error) {
	if s.config.ResendAPIKey == "" {
		return false, errors.New("RESEND_API_KEY is not set")
	}
	if s.config.FromEmail == "" {
		return false, errors.New("FROM_EMAIL is not set")
	}
	if resident == nil || !resident.HasEmail() {
		logger.Debug("Skipping e-mail, resident has no address", "operation", operation)
		return false, nil
	}
	return true, nil
}

func (s *EmailService) SendPaymentReminder(ctx context.Context, resident *models.Resident, snap billing.Snapshot, fee int64) error {
	ok, err := s.checkEmailPreconditions(resident, "payment reminder")
	if !ok {
		return err
	}

	nextDue := ""
	if snap.NextDueDate != nil {
		nextDue = snap.NextDueDate.Format("02 Jan 2006")
	}

	data := struct {
		Name          string
		HostelName    string
		NextDueDate   string
		DaysRemaining int
		Overdue       bool
		Fee           string
	}{
		Name:          resident.FullName,
		HostelName:    s.config.HostelDisplayName,
		NextDueDate:   nextDue,
		DaysRemaining: snap.DaysRemaining,
		Overdue:       snap.DaysRemaining < 0,
		Fee:           formatRupees(fee),
	}

	return s.send(resident, "payment_reminder.html", "Rent due on "+nextDue, data)
}

func (s *EmailService) SendPaymentApproved(ctx context.Context, resident *models.Resident, payment *models.Payment) error {
	ok, err := s.checkEmailPreconditions(resident, "payment approved")
	if !ok {
		return err
	}

	data := struct {
		Name           string
		HostelName     string
		Amount         string
		ReferenceToken string
	}{
		Name:           resident.FullName,
		HostelName:     s.config.HostelDisplayName,
		Amount:         formatRupees(payment.Amount),
		ReferenceToken: payment.ReferenceToken,
	}

	return s.send(resident, "payment_approved.html", "Payment received", data)
}

func (s *EmailService) SendPaymentRejected(ctx context.Context, resident *models.Resident, payment *models.Payment) error {
	ok, err := s.checkEmailPreconditions(resident, "payment rejected")
	if !ok {
		return err
	}

	reason := ""
	if payment.RejectionReason != nil {
		reason = *payment.RejectionReason
	}

	data := struct {
		Name           string
		HostelName     string
		Amount         string
		ReferenceToken string
		Reason         string
	}{
		Name:           resident.FullName,
		HostelName:     s.config.HostelDisplayName,
		Amount:         formatRupees(payment.Amount),
		ReferenceToken: payment.ReferenceToken,
		Reason:         reason,
	}

	return s.send(resident, "payment_rejected.html", "Payment could not be verified", data)
}

func (s *EmailService) send(resident *models.Resident, templateName, subject string, data interface{}) error {
	body, err := s.renderTemplate(templateName, data)
	if err != nil {
		return err
	}

	params := &resend.SendEmailRequest{
		From:    s.config.FromEmail,
		To:      []string{*resident.Email},
		Subject: subject,
		Html:    body,
	}
	if _, err := s.resendClient.Emails.Send(params); err != nil {
		logger.Error("Failed to send email", "resident_id", resident.ID, "subject", subject, "error", err)
		return err
	}

	logger.Info("📧 [Email Sent]", "resident_id", resident.ID, "subject", subject)
	return nil
}

func (s *EmailService) renderTemplate(name string, data interface{}) (string, error) {
	tmpl, err := template.ParseFS(emailTemplates, "templates/email/"+name)
	if err != nil {
		return "", fmt.Errorf("failed to parse template %s: %w", name, err)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to execute template %s: %w", name, err)
	}

	return buf.String(), nil
}

func formatRupees(amount int64) string {
	return fmt.Sprintf("₹%d", amount)
}
