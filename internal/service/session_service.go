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
	ErrSessionNotFound = errors.New("session not found")
	ErrSessionExpired  = errors.New("session expired")
)

// DefaultSessionDuration applies when callers pass a non-positive duration.
const DefaultSessionDuration = 24 * time.Hour

type SessionService struct {
	db        *gorm.DB
	sessions  *repository.SessionRepository
	users     *repository.UserRepository
	audit     *AuditService
	jwtSecret string
	jwtExpiry time.Duration
}

func NewSessionService(db *gorm.DB, audit *AuditService, jwtSecret string, jwtExpiry time.Duration) *SessionService {
	return &SessionService{
		db:        db,
		sessions:  repository.NewSessionRepository(db),
		users:     repository.NewUserRepository(db),
		audit:     audit,
		jwtSecret: jwtSecret,
		jwtExpiry: jwtExpiry,
	}
}

// Create issues a new opaque session token for the user, stamps the user's
// last login and audits the login, in one transaction. Expiry is
// now + duration (DefaultSessionDuration when duration <= 0).
func (s *SessionService) Create(ctx context.Context, userID uint, deviceInfo, ipAddress string, duration time.Duration) (string, error) {
	if duration <= 0 {
		duration = DefaultSessionDuration
	}

	now := time.Now()
	session := &models.Session{
		ID:             uuid.NewString(),
		UserID:         userID,
		DeviceInfo:     deviceInfo,
		IPAddress:      ipAddress,
		IsActive:       true,
		ExpiresAt:      now.Add(duration),
		CreatedAt:      now,
		LastAccessedAt: now,
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.sessions.WithTx(tx).Create(ctx, session); err != nil {
			return err
		}
		if err := s.users.WithTx(tx).UpdateLastLogin(ctx, userID, now); err != nil {
			return err
		}
		s.audit.WithTx(tx).Record(ctx, SecurityEvent{
			UserID:    &userID,
			Type:      models.EventLogin,
			IPAddress: ipAddress,
			Success:   true,
			Metadata:  map[string]interface{}{"session_id": session.ID},
		})
		return nil
	})
	if err != nil {
		logger.Log.Error("Failed to create session",
			zap.Uint("user_id", userID),
			zap.Error(err),
		)
		return "", err
	}

	logger.Log.Info("Session created",
		zap.Uint("user_id", userID),
		zap.String("session_id", session.ID),
		zap.Time("expires_at", session.ExpiresAt),
	)

	return session.ID, nil
}

// Validate checks that the session exists, is active and unexpired, and bumps
// its last-accessed timestamp.
func (s *SessionService) Validate(ctx context.Context, sessionID string) (*models.Session, error) {
	session, err := s.sessions.GetByID(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if session == nil || !session.IsActive {
		return nil, ErrSessionNotFound
	}
	if time.Now().After(session.ExpiresAt) {
		return nil, ErrSessionExpired
	}

	if err := s.sessions.Touch(ctx, sessionID, time.Now()); err != nil {
		logger.Log.Warn("Failed to touch session",
			zap.String("session_id", sessionID),
			zap.Error(err),
		)
	}

	return session, nil
}

// Logout deactivates the session and audits it. Unknown sessions return
// ErrSessionNotFound.
func (s *SessionService) Logout(ctx context.Context, sessionID string) error {
	session, err := s.sessions.GetByID(ctx, sessionID)
	if err != nil {
		return err
	}
	if session == nil {
		return ErrSessionNotFound
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.sessions.WithTx(tx).Deactivate(ctx, sessionID); err != nil {
			return err
		}
		s.audit.WithTx(tx).Record(ctx, SecurityEvent{
			UserID:   &session.UserID,
			Type:     models.EventLogout,
			Success:  true,
			Metadata: map[string]interface{}{"session_id": sessionID},
		})
		return nil
	})
	if err != nil {
		logger.Log.Error("Failed to log out session",
			zap.String("session_id", sessionID),
			zap.Error(err),
		)
		return err
	}

	logger.Log.Info("Session logged out",
		zap.Uint("user_id", session.UserID),
		zap.String("session_id", sessionID),
	)
	return nil
}

// CleanupExpired deletes sessions whose expiry has passed and returns the
// count. Running it again immediately removes nothing. Intended to run
// periodically.
func (s *SessionService) CleanupExpired(ctx context.Context) (int64, error) {
	removed, err := s.sessions.DeleteExpired(ctx, time.Now())
	if err != nil {
		logger.Log.Error("Failed to clean up expired sessions", zap.Error(err))
		return 0, err
	}

	if removed > 0 {
		logger.Log.Info("Expired sessions removed", zap.Int64("count", removed))
	}
	return removed, nil
}

// AccessToken issues a signed JWT bound to the session, for callers that
// want a bearer credential instead of presenting the raw session id.
func (s *SessionService) AccessToken(user *models.User, sessionID string) (string, error) {
	return utils.GenerateToken(user, sessionID, s.jwtSecret, s.jwtExpiry)
}

// VerifyAccessToken validates a previously issued access token and confirms
// its backing session is still active.
func (s *SessionService) VerifyAccessToken(ctx context.Context, token string) (*utils.Claims, error) {
	claims, err := utils.ValidateToken(token, s.jwtSecret)
	if err != nil {
		return nil, err
	}
	if _, err := s.Validate(ctx, claims.SessionID); err != nil {
		return nil, err
	}
	return claims, nil
}
