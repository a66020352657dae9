package services

import (
	"testing"
	"time"

	"github.com/ashrayhostel/hostel-api/internal/config"
	"github.com/ashrayhostel/hostel-api/internal/models"
	"github.com/ashrayhostel/hostel-api/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEmailService_checkEmailPreconditions(t *testing.T) {
	logger.Setup("test")

	resident := &models.Resident{ID: 1, FullName: "Test Resident", Email: strPtr("test@example.com")}

	// Configured and valid
	service := NewEmailService(&config.Config{ResendAPIKey: "test_key", FromEmail: "from@example.com"})
	ok, err := service.checkEmailPreconditions(resident, "test operation")
	assert.True(t, ok, "Should return true when properly configured")
	assert.Nil(t, err)

	// Missing key
	service = NewEmailService(&config.Config{FromEmail: "from@example.com"})
	ok, err = service.checkEmailPreconditions(resident, "test operation")
	assert.False(t, ok)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "RESEND_API_KEY is not set")

	// Missing sender
	service = NewEmailService(&config.Config{ResendAPIKey: "test_key"})
	ok, err = service.checkEmailPreconditions(resident, "test operation")
	assert.False(t, ok)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "FROM_EMAIL is not set")

	// Resident without address is skipped quietly
	service = NewEmailService(&config.Config{ResendAPIKey: "test_key", FromEmail: "from@example.com"})
	ok, err = service.checkEmailPreconditions(&models.Resident{ID: 2, FullName: "No Mail"}, "test operation")
	assert.False(t, ok)
	assert.Nil(t, err)
}

func TestEmailService_renderTemplates(t *testing.T) {
	service := NewEmailService(&config.Config{HostelDisplayName: "Ashray"})

	due := time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC)
	body, err := service.renderTemplate("payment_reminder.html", struct {
		Name          string
		HostelName    string
		NextDueDate   string
		DaysRemaining int
		Overdue       bool
		Fee           string
	}{"Asha", "Ashray", due.Format("02 Jan 2006"), 2, false, formatRupees(3000)})
	require.NoError(t, err)
	assert.Contains(t, body, "Asha")
	assert.Contains(t, body, "31 Jan 2024")
	assert.Contains(t, body, "₹3000")

	body, err = service.renderTemplate("payment_rejected.html", struct {
		Name           string
		HostelName     string
		Amount         string
		ReferenceToken string
		Reason         string
	}{"Asha", "Ashray", formatRupees(3000), "TXN-ABCDEF0123", "Blurry screenshot"})
	require.NoError(t, err)
	assert.Contains(t, body, "TXN-ABCDEF0123")
	assert.Contains(t, body, "Blurry screenshot")

	_, err = service.renderTemplate("missing.html", nil)
	assert.Error(t, err)
}
