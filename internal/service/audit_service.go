package service

import (
	"context"
	"time"

	"fintrack/internal/model"
	"fintrack/internal/repository"
)

type AuditLogResponse struct {
	ID         string `json:"id"`
	UserID     string `json:"user_id,omitempty"`
	Username   string `json:"username,omitempty"`
	Action     string `json:"action"`
	EntityID   string `json:"entity_id"`
	EntityName string `json:"entity_name,omitempty"`
	Details    string `json:"details"`
	CreatedAt  string `json:"created_at"`
}

// AuditService exposes the read side of the audit trail. Entries are written
// by the workflow services and ledgers inside their own transactions; this
// service never appends.
type AuditService interface {
	ListLogs(ctx context.Context, filter repository.AuditFilter) ([]AuditLogResponse, int64, error)
	EntityHistory(ctx context.Context, entityID string) ([]AuditLogResponse, error)
}

type auditService struct {
	repo repository.AuditRepository
}

func NewAuditService(repo repository.AuditRepository) AuditService {
	return &auditService{repo: repo}
}

func (s *auditService) ListLogs(ctx context.Context, filter repository.AuditFilter) ([]AuditLogResponse, int64, error) {
	logs, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, 0, err
	}

	result := make([]AuditLogResponse, 0, len(logs))
	for _, entry := range logs {
		result = append(result, toAuditResponse(entry))
	}
	return result, total, nil
}

func (s *auditService) EntityHistory(ctx context.Context, entityID string) ([]AuditLogResponse, error) {
	logs, _, err := s.repo.List(ctx, repository.AuditFilter{EntityID: entityID, Limit: 200})
	if err != nil {
		return nil, err
	}

	result := make([]AuditLogResponse, 0, len(logs))
	for _, entry := range logs {
		result = append(result, toAuditResponse(entry))
	}
	return result, nil
}

func toAuditResponse(entry model.AuditLog) AuditLogResponse {
	resp := AuditLogResponse{
		ID:         entry.ID.String(),
		Action:     entry.Action,
		EntityID:   entry.EntityID,
		EntityName: entry.EntityName,
		Details:    entry.Details,
		CreatedAt:  entry.CreatedAt.Format(time.RFC3339),
	}
	if entry.UserID != nil {
		resp.UserID = entry.UserID.String()
	}
	if entry.User != nil {
		resp.Username = entry.User.Username
	}
	return resp
}
