package repository

import (
	"context"
	"errors"
	"time"

	"github.com/friendfinder/userstore/internal/models"
	"gorm.io/gorm"
)

type SessionRepository struct {
	db *gorm.DB
}

func NewSessionRepository(db *gorm.DB) *SessionRepository {
	return &SessionRepository{db: db}
}

func (r *SessionRepository) WithTx(tx *gorm.DB) *SessionRepository {
	return &SessionRepository{db: tx}
}

func (r *SessionRepository) Create(ctx context.Context, session *models.Session) error {
	return r.db.WithContext(ctx).Create(session).Error
}

func (r *SessionRepository) GetByID(ctx context.Context, id string) (*models.Session, error) {
	var session models.Session
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&session).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	return &session, nil
}

// Deactivate marks the session inactive without deleting the row, so the
// audit trail can still resolve it.
func (r *SessionRepository) Deactivate(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Model(&models.Session{}).
		Where("id = ?", id).
		Update("is_active", false).Error
}

// Touch bumps last_accessed_at for an active session.
func (r *SessionRepository) Touch(ctx context.Context, id string, at time.Time) error {
	return r.db.WithContext(ctx).Model(&models.Session{}).
		Where("id = ?", id).
		Update("last_accessed_at", at).Error
}

// DeleteExpired removes sessions whose expiry has passed and returns how many
// were removed. Future-expiring sessions are never touched.
func (r *SessionRepository) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	res := r.db.WithContext(ctx).
		Where("expires_at < ?", now).
		Delete(&models.Session{})
	return res.RowsAffected, res.Error
}

func (r *SessionRepository) CountActiveForUser(ctx context.Context, userID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Session{}).
		Where("user_id = ? AND is_active = ?", userID, true).
		Count(&count).Error
	return count, err
}
