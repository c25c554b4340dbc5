package service

import (
	"context"
	"errors"
	"regexp"
	"time"

	"github.com/friendfinder/userstore/internal/limiter"
	"github.com/friendfinder/userstore/internal/models"
	"github.com/friendfinder/userstore/internal/repository"
	"github.com/friendfinder/userstore/internal/utils"
	"github.com/friendfinder/userstore/pkg/logger"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var (
	ErrUserExists = errors.New("username or email already exists")
	// ErrInvalidCredentials is deliberately the same for an unknown email and
	// a wrong password; the distinction lives only in the audit trail.
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrTooManyAttempts    = errors.New("too many login attempts")
	ErrUserNotFound       = errors.New("user not found")
	ErrRoleNotFound       = errors.New("role not found")
	ErrPermissionNotFound = errors.New("permission not found")

	emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)
)

type AuthService struct {
	db      *gorm.DB
	users   *repository.UserRepository
	roles   *repository.RoleRepository
	audit   *AuditService
	limiter *limiter.LoginLimiter
}

// NewAuthService builds the account/auth service. loginLimiter may be nil, in
// which case no throttling is applied.
func NewAuthService(db *gorm.DB, audit *AuditService, loginLimiter *limiter.LoginLimiter) *AuthService {
	return &AuthService{
		db:      db,
		users:   repository.NewUserRepository(db),
		roles:   repository.NewRoleRepository(db),
		audit:   audit,
		limiter: loginLimiter,
	}
}

// CreateUser hashes the password, inserts the account, assigns the default
// "user" role and writes the user_created audit entry, all in one
// transaction. Duplicate username or email returns ErrUserExists and leaves
// existing rows untouched.
func (s *AuthService) CreateUser(ctx context.Context, username, email, password, firstName, lastName string) (uint, error) {
	start := time.Now()

	logger.Log.Debug("Processing user creation",
		zap.String("username", username),
		zap.String("email", email),
	)

	if err := s.validateNewUser(username, email, password); err != nil {
		logger.Log.Warn("User creation validation failed",
			zap.String("username", username),
			zap.String("email", email),
			zap.Error(err),
		)
		return 0, err
	}

	hash, salt, err := utils.HashPassword(password)
	if err != nil {
		logger.Log.Error("Failed to hash password", zap.Error(err))
		return 0, err
	}

	user := &models.User{
		Username:     username,
		Email:        email,
		PasswordHash: hash,
		Salt:         salt,
		FirstName:    firstName,
		LastName:     lastName,
		IsActive:     true,
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.users.WithTx(tx).Create(ctx, user); err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return ErrUserExists
			}
			return err
		}

		role, err := s.roles.WithTx(tx).GetByName(ctx, string(models.RoleUser))
		if err != nil {
			return err
		}
		if role == nil {
			return errors.New("default user role missing; run the seeder")
		}

		assignment := &models.UserRole{
			UserID:     user.ID,
			RoleID:     role.ID,
			AssignedBy: &user.ID,
		}
		if err := s.roles.WithTx(tx).AssignToUser(ctx, assignment); err != nil {
			return err
		}

		s.audit.WithTx(tx).Record(ctx, SecurityEvent{
			UserID:  &user.ID,
			Type:    models.EventUserCreated,
			Success: true,
		})
		return nil
	})
	if err != nil {
		if errors.Is(err, ErrUserExists) {
			logger.Log.Warn("Username or email already exists",
				zap.String("username", username),
				zap.String("email", email),
			)
		} else {
			logger.Log.Error("Failed to create user",
				zap.String("username", username),
				zap.Error(err),
			)
		}
		return 0, err
	}

	logger.Log.Info("User created successfully",
		zap.Uint("user_id", user.ID),
		zap.String("username", username),
		zap.Duration("total_duration", time.Since(start)),
	)

	return user.ID, nil
}

// Authenticate verifies email and password against the active, non-deleted
// account. Both an unknown email and a wrong password return
// ErrInvalidCredentials; the audit trail records which one it was. No session
// is created here.
func (s *AuthService) Authenticate(ctx context.Context, email, password, ip string) (*models.User, error) {
	logger.Log.Debug("Processing authentication", zap.String("email", email))

	if s.limiter != nil && ip != "" {
		allowed, retryAfter, err := s.limiter.Allow(ctx, ip)
		if err != nil {
			// Fail open: a throttle outage must not lock out logins
			logger.Log.Warn("Login limiter unavailable", zap.Error(err))
		} else if !allowed {
			s.audit.Record(ctx, SecurityEvent{
				Type:          models.EventLoginThrottled,
				IPAddress:     ip,
				Success:       false,
				FailureReason: "Too many attempts",
				Metadata:      map[string]interface{}{"retry_after_seconds": int(retryAfter.Seconds())},
			})
			logger.Log.Warn("Login throttled",
				zap.String("ip", ip),
				zap.Duration("retry_after", retryAfter),
			)
			return nil, ErrTooManyAttempts
		}
	}

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		logger.Log.Error("Failed to look up user by email",
			zap.String("email", email),
			zap.Error(err),
		)
		return nil, err
	}
	if user == nil {
		s.audit.Record(ctx, SecurityEvent{
			Type:          models.EventLoginFailed,
			IPAddress:     ip,
			Success:       false,
			FailureReason: "User not found",
		})
		logger.Log.Warn("Login failed: user not found", zap.String("email", email))
		return nil, ErrInvalidCredentials
	}

	verifyStart := time.Now()
	if !utils.VerifyPassword(password, user.PasswordHash, user.Salt) {
		s.audit.Record(ctx, SecurityEvent{
			UserID:        &user.ID,
			Type:          models.EventLoginFailed,
			IPAddress:     ip,
			Success:       false,
			FailureReason: "Invalid password",
		})
		logger.Log.Warn("Login failed: invalid password",
			zap.String("email", email),
			zap.Uint("user_id", user.ID),
		)
		return nil, ErrInvalidCredentials
	}

	logger.Log.Info("Authentication successful",
		zap.Uint("user_id", user.ID),
		zap.String("username", user.Username),
		zap.Duration("password_verify_duration", time.Since(verifyStart)),
	)

	return user, nil
}

// AssignRole upserts the (user, role) assignment. An unknown role name
// returns (false, nil) and leaves user_roles untouched.
func (s *AuthService) AssignRole(ctx context.Context, userID uint, roleName string, assignedBy uint) (bool, error) {
	assigned := false

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		role, err := s.roles.WithTx(tx).GetByName(ctx, roleName)
		if err != nil {
			return err
		}
		if role == nil {
			logger.Log.Warn("Role not found",
				zap.String("role", roleName),
				zap.Uint("user_id", userID),
			)
			return nil
		}

		assignment := &models.UserRole{
			UserID:     userID,
			RoleID:     role.ID,
			AssignedBy: &assignedBy,
		}
		if err := s.roles.WithTx(tx).AssignToUser(ctx, assignment); err != nil {
			return err
		}

		s.audit.WithTx(tx).Record(ctx, SecurityEvent{
			UserID:   &userID,
			Type:     models.EventRoleAssigned,
			Success:  true,
			Metadata: map[string]interface{}{"role": roleName, "assigned_by": assignedBy},
		})

		assigned = true
		return nil
	})
	if err != nil {
		logger.Log.Error("Failed to assign role",
			zap.String("role", roleName),
			zap.Uint("user_id", userID),
			zap.Error(err),
		)
		return false, err
	}

	if assigned {
		logger.Log.Info("Role assigned",
			zap.String("role", roleName),
			zap.Uint("user_id", userID),
			zap.Uint("assigned_by", assignedBy),
		)
	}
	return assigned, nil
}

// GrantPermission attaches a permission to a role by name.
func (s *AuthService) GrantPermission(ctx context.Context, roleName, permissionName string) error {
	role, err := s.roles.GetByName(ctx, roleName)
	if err != nil {
		return err
	}
	if role == nil {
		return ErrRoleNotFound
	}

	perm, err := s.roles.GetPermissionByName(ctx, permissionName)
	if err != nil {
		return err
	}
	if perm == nil {
		return ErrPermissionNotFound
	}

	return s.roles.GrantPermission(ctx, role.ID, perm.ID)
}

// UserRoles returns the roles currently held by a user.
func (s *AuthService) UserRoles(ctx context.Context, userID uint) ([]models.Role, error) {
	return s.roles.RolesForUser(ctx, userID)
}

// HasPermission reports whether any of the user's roles carries the named
// permission.
func (s *AuthService) HasPermission(ctx context.Context, userID uint, permission string) (bool, error) {
	return s.roles.UserHasPermission(ctx, userID, permission)
}

// GetUser returns a user by id, including inactive and soft-deleted accounts.
func (s *AuthService) GetUser(ctx context.Context, userID uint) (*models.User, error) {
	return s.users.GetByID(ctx, userID)
}

// DeleteUser soft-deletes the account and audits it. The row is kept so
// sessions, logs and content stay resolvable.
func (s *AuthService) DeleteUser(ctx context.Context, userID uint, deletedBy uint) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.users.WithTx(tx).SoftDelete(ctx, userID); err != nil {
			return err
		}
		s.audit.WithTx(tx).Record(ctx, SecurityEvent{
			UserID:   &userID,
			Type:     models.EventUserDeleted,
			Success:  true,
			Metadata: map[string]interface{}{"deleted_by": deletedBy},
		})
		return nil
	})
	if err != nil {
		logger.Log.Error("Failed to delete user",
			zap.Uint("user_id", userID),
			zap.Error(err),
		)
		return err
	}

	logger.Log.Info("User deleted",
		zap.Uint("user_id", userID),
		zap.Uint("deleted_by", deletedBy),
	)
	return nil
}

func (s *AuthService) validateNewUser(username, email, password string) error {
	if len(username) < 3 {
		return errors.New("username must be at least 3 characters")
	}
	if len(username) > 50 {
		return errors.New("username must be at most 50 characters")
	}

	if !emailRegex.MatchString(email) {
		return errors.New("invalid email format")
	}
	if len(email) > 255 {
		return errors.New("email too long")
	}

	if len(password) < 8 {
		return errors.New("password must be at least 8 characters")
	}
	if len(password) > 128 {
		return errors.New("password too long")
	}

	return nil
}
