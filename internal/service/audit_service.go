package service

import (
	"context"
	"encoding/json"

	"github.com/friendfinder/userstore/internal/models"
	"github.com/friendfinder/userstore/internal/repository"
	"github.com/friendfinder/userstore/pkg/logger"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// SecurityEvent describes one entry for the append-only audit trail.
type SecurityEvent struct {
	UserID        *uint
	Type          string
	IPAddress     string
	UserAgent     string
	Success       bool
	FailureReason string
	Metadata      map[string]interface{}
}

// AuditService appends security events. It never returns an error to the
// triggering operation: a failed audit write is reported to the logger and
// swallowed, so auditing problems cannot abort logins or signups.
type AuditService struct {
	logs *repository.SecurityLogRepository
}

func NewAuditService(db *gorm.DB) *AuditService {
	return &AuditService{logs: repository.NewSecurityLogRepository(db)}
}

// WithTx returns an audit service writing through the given transaction.
// Events recorded inside a transaction commit or roll back with it.
func (s *AuditService) WithTx(tx *gorm.DB) *AuditService {
	return &AuditService{logs: s.logs.WithTx(tx)}
}

func (s *AuditService) Record(ctx context.Context, event SecurityEvent) {
	var metadata string
	if event.Metadata != nil {
		raw, err := json.Marshal(event.Metadata)
		if err != nil {
			logger.Log.Warn("Failed to serialize audit metadata",
				zap.String("event_type", event.Type),
				zap.Error(err),
			)
		} else {
			metadata = string(raw)
		}
	}

	entry := &models.SecurityLog{
		UserID:        event.UserID,
		EventType:     event.Type,
		IPAddress:     event.IPAddress,
		UserAgent:     event.UserAgent,
		Success:       event.Success,
		FailureReason: event.FailureReason,
		Metadata:      metadata,
	}

	if err := s.logs.Append(ctx, entry); err != nil {
		logger.Log.Error("Failed to append security log",
			zap.String("event_type", event.Type),
			zap.Error(err),
		)
	}
}

// ListForUser exposes a user's recent audit entries, newest first.
func (s *AuditService) ListForUser(ctx context.Context, userID uint, limit int) ([]models.SecurityLog, error) {
	return s.logs.ListForUser(ctx, userID, limit)
}
