package services

import (
	"context"

	"github.com/ashrayhostel/hostel-api/internal/models"
	"github.com/ashrayhostel/hostel-api/internal/repository"
)

// Audit actions
const (
	AuditCreate  = "CREATE"
	AuditDelete  = "DELETE"
	AuditSubmit  = "SUBMIT"
	AuditApprove = "APPROVE"
	AuditReject  = "REJECT"
	AuditLogin   = "LOGIN"
)

// Actor identifies who performed an operation
type Actor struct {
	ID        uint
	Role      string
	HostelID  uint
	IP        string
	UserAgent string
}

// SystemActor is used for scheduled jobs and the CLI
var SystemActor = Actor{Role: "system"}

type AuditService struct {
	repo repository.AuditRepository
}

func NewAuditService(repo repository.AuditRepository) *AuditService {
	return &AuditService{repo: repo}
}

// Log records an audit entry
func (s *AuditService) Log(ctx context.Context, actor Actor, action, entity string, entityID uint, details string) error {
	return s.repo.Create(ctx, &models.AuditLog{
		ActorID:   actor.ID,
		ActorRole: actor.Role,
		Action:    action,
		Entity:    entity,
		EntityID:  entityID,
		Details:   details,
		IPAddress: actor.IP,
		UserAgent: actor.UserAgent,
	})
}

// List retrieves audit logs, newest first
func (s *AuditService) List(ctx context.Context, limit, offset int) ([]models.AuditLog, int64, error) {
	return s.repo.List(ctx, limit, offset)
}
