package repository

import (
	"context"

	"github.com/friendfinder/userstore/internal/models"
	"gorm.io/gorm"
)

// SecurityLogRepository is append-only: there is deliberately no update or
// delete method.
type SecurityLogRepository struct {
	db *gorm.DB
}

func NewSecurityLogRepository(db *gorm.DB) *SecurityLogRepository {
	return &SecurityLogRepository{db: db}
}

func (r *SecurityLogRepository) WithTx(tx *gorm.DB) *SecurityLogRepository {
	return &SecurityLogRepository{db: tx}
}

func (r *SecurityLogRepository) Append(ctx context.Context, entry *models.SecurityLog) error {
	return r.db.WithContext(ctx).Create(entry).Error
}

func (r *SecurityLogRepository) ListForUser(ctx context.Context, userID uint, limit int) ([]models.SecurityLog, error) {
	var entries []models.SecurityLog
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(limit).
		Find(&entries).Error
	if err != nil {
		return nil, err
	}
	return entries, nil
}

func (r *SecurityLogRepository) ListByEvent(ctx context.Context, eventType string, limit int) ([]models.SecurityLog, error) {
	var entries []models.SecurityLog
	err := r.db.WithContext(ctx).
		Where("event_type = ?", eventType).
		Order("created_at DESC").
		Limit(limit).
		Find(&entries).Error
	if err != nil {
		return nil, err
	}
	return entries, nil
}
