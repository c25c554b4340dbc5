package repository

import (
	"context"
	"errors"
	"time"

	"github.com/friendfinder/userstore/internal/models"
	"gorm.io/gorm"
)

// TokenRepository persists password-reset and email-verification tokens.
type TokenRepository struct {
	db *gorm.DB
}

func NewTokenRepository(db *gorm.DB) *TokenRepository {
	return &TokenRepository{db: db}
}

func (r *TokenRepository) WithTx(tx *gorm.DB) *TokenRepository {
	return &TokenRepository{db: tx}
}

func (r *TokenRepository) CreatePasswordReset(ctx context.Context, token *models.PasswordResetToken) error {
	return r.db.WithContext(ctx).Create(token).Error
}

func (r *TokenRepository) GetPasswordReset(ctx context.Context, token string) (*models.PasswordResetToken, error) {
	var row models.PasswordResetToken
	err := r.db.WithContext(ctx).Where("token = ?", token).First(&row).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	return &row, nil
}

func (r *TokenRepository) MarkPasswordResetUsed(ctx context.Context, id uint, at time.Time) error {
	return r.db.WithContext(ctx).Model(&models.PasswordResetToken{}).
		Where("id = ?", id).
		Update("used_at", at).Error
}

func (r *TokenRepository) CreateEmailVerification(ctx context.Context, token *models.EmailVerificationToken) error {
	return r.db.WithContext(ctx).Create(token).Error
}

func (r *TokenRepository) GetEmailVerification(ctx context.Context, token string) (*models.EmailVerificationToken, error) {
	var row models.EmailVerificationToken
	err := r.db.WithContext(ctx).Where("token = ?", token).First(&row).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	return &row, nil
}

func (r *TokenRepository) MarkEmailVerified(ctx context.Context, id uint, at time.Time) error {
	return r.db.WithContext(ctx).Model(&models.EmailVerificationToken{}).
		Where("id = ?", id).
		Update("verified_at", at).Error
}

// DeleteExpired removes reset and verification tokens whose expiry has
// passed, keeping consumed rows for audit.
func (r *TokenRepository) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	res := r.db.WithContext(ctx).
		Where("expires_at < ? AND used_at IS NULL", now).
		Delete(&models.PasswordResetToken{})
	if res.Error != nil {
		return 0, res.Error
	}
	removed := res.RowsAffected

	res = r.db.WithContext(ctx).
		Where("expires_at < ? AND verified_at IS NULL", now).
		Delete(&models.EmailVerificationToken{})
	if res.Error != nil {
		return removed, res.Error
	}
	return removed + res.RowsAffected, nil
}
