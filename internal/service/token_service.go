package service

import (
	"context"
	"errors"
	"time"

	"github.com/friendfinder/userstore/internal/models"
	"github.com/friendfinder/userstore/internal/repository"
	"github.com/friendfinder/userstore/internal/utils"
	"github.com/friendfinder/userstore/pkg/logger"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var (
	ErrTokenNotFound = errors.New("token not found")
	ErrTokenExpired  = errors.New("token expired")
	ErrTokenUsed     = errors.New("token already used")
)

// TokenService issues and consumes password-reset and email-verification
// tokens. Tokens are opaque, single-use and time-bounded.
type TokenService struct {
	db     *gorm.DB
	tokens *repository.TokenRepository
	users  *repository.UserRepository
	audit  *AuditService
}

func NewTokenService(db *gorm.DB, audit *AuditService) *TokenService {
	return &TokenService{
		db:     db,
		tokens: repository.NewTokenRepository(db),
		users:  repository.NewUserRepository(db),
		audit:  audit,
	}
}

// CreatePasswordReset issues a reset token valid for ttl.
func (s *TokenService) CreatePasswordReset(ctx context.Context, userID uint, ttl time.Duration) (string, error) {
	token := &models.PasswordResetToken{
		UserID:    userID,
		Token:     uuid.NewString(),
		ExpiresAt: time.Now().Add(ttl),
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.tokens.WithTx(tx).CreatePasswordReset(ctx, token); err != nil {
			return err
		}
		s.audit.WithTx(tx).Record(ctx, SecurityEvent{
			UserID:  &userID,
			Type:    models.EventPasswordResetRequested,
			Success: true,
		})
		return nil
	})
	if err != nil {
		logger.Log.Error("Failed to create password reset token",
			zap.Uint("user_id", userID),
			zap.Error(err),
		)
		return "", err
	}

	return token.Token, nil
}

// ConsumePasswordReset validates a reset token and sets the new password.
// A token works exactly once and only before its expiry.
func (s *TokenService) ConsumePasswordReset(ctx context.Context, token, newPassword string) error {
	row, err := s.tokens.GetPasswordReset(ctx, token)
	if err != nil {
		return err
	}
	if row == nil {
		return ErrTokenNotFound
	}
	if row.UsedAt != nil {
		return ErrTokenUsed
	}
	if time.Now().After(row.ExpiresAt) {
		return ErrTokenExpired
	}

	hash, salt, err := utils.HashPassword(newPassword)
	if err != nil {
		return err
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.users.WithTx(tx).UpdatePassword(ctx, row.UserID, hash, salt); err != nil {
			return err
		}
		if err := s.tokens.WithTx(tx).MarkPasswordResetUsed(ctx, row.ID, time.Now()); err != nil {
			return err
		}
		s.audit.WithTx(tx).Record(ctx, SecurityEvent{
			UserID:  &row.UserID,
			Type:    models.EventPasswordChanged,
			Success: true,
		})
		return nil
	})
	if err != nil {
		logger.Log.Error("Failed to consume password reset token",
			zap.Uint("user_id", row.UserID),
			zap.Error(err),
		)
		return err
	}

	logger.Log.Info("Password reset completed", zap.Uint("user_id", row.UserID))
	return nil
}

// CreateEmailVerification issues a verification token for the given address.
func (s *TokenService) CreateEmailVerification(ctx context.Context, userID uint, email string, ttl time.Duration) (string, error) {
	token := &models.EmailVerificationToken{
		UserID:    userID,
		Token:     uuid.NewString(),
		Email:     email,
		ExpiresAt: time.Now().Add(ttl),
	}

	if err := s.tokens.CreateEmailVerification(ctx, token); err != nil {
		logger.Log.Error("Failed to create email verification token",
			zap.Uint("user_id", userID),
			zap.Error(err),
		)
		return "", err
	}

	return token.Token, nil
}

// VerifyEmail consumes a verification token and flips the user's
// email_verified flag.
func (s *TokenService) VerifyEmail(ctx context.Context, token string) error {
	row, err := s.tokens.GetEmailVerification(ctx, token)
	if err != nil {
		return err
	}
	if row == nil {
		return ErrTokenNotFound
	}
	if row.VerifiedAt != nil {
		return ErrTokenUsed
	}
	if time.Now().After(row.ExpiresAt) {
		return ErrTokenExpired
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.tokens.WithTx(tx).MarkEmailVerified(ctx, row.ID, time.Now()); err != nil {
			return err
		}
		if err := s.users.WithTx(tx).MarkEmailVerified(ctx, row.UserID); err != nil {
			return err
		}
		s.audit.WithTx(tx).Record(ctx, SecurityEvent{
			UserID:   &row.UserID,
			Type:     models.EventEmailVerified,
			Success:  true,
			Metadata: map[string]interface{}{"email": row.Email},
		})
		return nil
	})
	if err != nil {
		logger.Log.Error("Failed to verify email",
			zap.Uint("user_id", row.UserID),
			zap.Error(err),
		)
		return err
	}

	logger.Log.Info("Email verified",
		zap.Uint("user_id", row.UserID),
		zap.String("email", row.Email),
	)
	return nil
}

// CleanupExpired removes unconsumed tokens past their expiry.
func (s *TokenService) CleanupExpired(ctx context.Context) (int64, error) {
	removed, err := s.tokens.DeleteExpired(ctx, time.Now())
	if err != nil {
		logger.Log.Error("Failed to clean up expired tokens", zap.Error(err))
		return 0, err
	}
	return removed, nil
}
