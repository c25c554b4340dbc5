package service_test

import (
	"context"
	"testing"

	"github.com/friendfinder/userstore/internal/models"
	"github.com/friendfinder/userstore/internal/repository"
	"github.com/friendfinder/userstore/internal/service"
	"github.com/friendfinder/userstore/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
)

type AuthServiceTestSuite struct {
	suite.Suite
	testDB *testutil.TestDatabase
	audit  *service.AuditService
	auth   *service.AuthService
	logs   *repository.SecurityLogRepository
	ctx    context.Context
}

func (s *AuthServiceTestSuite) SetupSuite() {
	s.testDB = testutil.SetupTestDatabase(s.T())
	s.audit = service.NewAuditService(s.testDB.DB)
	s.auth = service.NewAuthService(s.testDB.DB, s.audit, nil)
	s.logs = repository.NewSecurityLogRepository(s.testDB.DB)
	s.ctx = context.Background()
}

func (s *AuthServiceTestSuite) TearDownSuite() {
	s.testDB.Teardown(s.T())
}

func (s *AuthServiceTestSuite) SetupTest() {
	testutil.CleanDatabase(s.T(), s.testDB.DB)
}

func (s *AuthServiceTestSuite) TestCreateUserSuccess() {
	userID, err := s.auth.CreateUser(s.ctx, "johndoe", "john@example.com", "password123", "John", "Doe")

	s.Require().NoError(err)
	s.Require().NotZero(userID)

	// Default "user" role assigned
	roles, err := s.auth.UserRoles(s.ctx, userID)
	s.Require().NoError(err)
	s.Require().Len(roles, 1)
	assert.Equal(s.T(), string(models.RoleUser), roles[0].Name)

	// user_created audit entry written
	entries, err := s.logs.ListByEvent(s.ctx, models.EventUserCreated, 10)
	s.Require().NoError(err)
	s.Require().Len(entries, 1)
	assert.True(s.T(), entries[0].Success)
	s.Require().NotNil(entries[0].UserID)
	assert.Equal(s.T(), userID, *entries[0].UserID)
}

func (s *AuthServiceTestSuite) TestCreateUserDuplicateEmail() {
	firstID, err := s.auth.CreateUser(s.ctx, "johndoe", "john@example.com", "password123", "John", "Doe")
	s.Require().NoError(err)

	// Same email, different username
	secondID, err := s.auth.CreateUser(s.ctx, "johnny", "john@example.com", "password456", "", "")
	s.Require().ErrorIs(err, service.ErrUserExists)
	assert.Zero(s.T(), secondID)

	// The first user is unaffected and no partial row remains
	var count int64
	s.Require().NoError(s.testDB.DB.Model(&models.User{}).Count(&count).Error)
	assert.EqualValues(s.T(), 1, count)

	user, err := s.auth.GetUser(s.ctx, firstID)
	s.Require().NoError(err)
	s.Require().NotNil(user)
	assert.Equal(s.T(), "johndoe", user.Username)
}

func (s *AuthServiceTestSuite) TestCreateUserDuplicateUsername() {
	_, err := s.auth.CreateUser(s.ctx, "johndoe", "john@example.com", "password123", "", "")
	s.Require().NoError(err)

	_, err = s.auth.CreateUser(s.ctx, "johndoe", "other@example.com", "password456", "", "")
	s.Require().ErrorIs(err, service.ErrUserExists)
}

func (s *AuthServiceTestSuite) TestCreateUserRejectsInvalidInput() {
	cases := []struct {
		name     string
		username string
		email    string
		password string
	}{
		{"short_username", "ab", "a@example.com", "password123"},
		{"bad_email", "validname", "not-an-email", "password123"},
		{"short_password", "validname", "a@example.com", "short"},
	}

	for _, tc := range cases {
		s.Run(tc.name, func() {
			_, err := s.auth.CreateUser(s.ctx, tc.username, tc.email, tc.password, "", "")
			assert.Error(s.T(), err)
		})
	}
}

func (s *AuthServiceTestSuite) TestAuthenticateScenario() {
	// create user "johndoe"/"john@example.com"/"password123"
	userID, err := s.auth.CreateUser(s.ctx, "johndoe", "john@example.com", "password123", "John", "Doe")
	s.Require().NoError(err)

	// correct credentials return that user
	user, err := s.auth.Authenticate(s.ctx, "john@example.com", "password123", "192.168.1.100")
	s.Require().NoError(err)
	s.Require().NotNil(user)
	assert.Equal(s.T(), userID, user.ID)
	assert.Equal(s.T(), "johndoe", user.Username)

	// wrong password returns no user and audits the real reason
	user, err = s.auth.Authenticate(s.ctx, "john@example.com", "wrong", "192.168.1.100")
	s.Require().ErrorIs(err, service.ErrInvalidCredentials)
	assert.Nil(s.T(), user)

	entries, err := s.logs.ListByEvent(s.ctx, models.EventLoginFailed, 10)
	s.Require().NoError(err)
	s.Require().Len(entries, 1)
	assert.False(s.T(), entries[0].Success)
	assert.Equal(s.T(), "Invalid password", entries[0].FailureReason)
	s.Require().NotNil(entries[0].UserID)
	assert.Equal(s.T(), userID, *entries[0].UserID)
}

func (s *AuthServiceTestSuite) TestAuthenticateUnknownEmail() {
	user, err := s.auth.Authenticate(s.ctx, "nobody@example.com", "whatever123", "")

	// Caller sees the same error as for a bad password
	s.Require().ErrorIs(err, service.ErrInvalidCredentials)
	assert.Nil(s.T(), user)

	// The audit trail keeps the distinction, without a user reference
	entries, err := s.logs.ListByEvent(s.ctx, models.EventLoginFailed, 10)
	s.Require().NoError(err)
	s.Require().Len(entries, 1)
	assert.Equal(s.T(), "User not found", entries[0].FailureReason)
	assert.Nil(s.T(), entries[0].UserID)
}

func (s *AuthServiceTestSuite) TestAuthenticateDeletedUser() {
	userID, err := s.auth.CreateUser(s.ctx, "johndoe", "john@example.com", "password123", "", "")
	s.Require().NoError(err)
	s.Require().NoError(s.auth.DeleteUser(s.ctx, userID, userID))

	user, err := s.auth.Authenticate(s.ctx, "john@example.com", "password123", "")
	s.Require().ErrorIs(err, service.ErrInvalidCredentials)
	assert.Nil(s.T(), user)
}

func (s *AuthServiceTestSuite) TestAssignRoleUnknownRole() {
	userID, err := s.auth.CreateUser(s.ctx, "johndoe", "john@example.com", "password123", "", "")
	s.Require().NoError(err)

	var before int64
	s.Require().NoError(s.testDB.DB.Model(&models.UserRole{}).Count(&before).Error)

	ok, err := s.auth.AssignRole(s.ctx, userID, "archmage", userID)
	s.Require().NoError(err)
	assert.False(s.T(), ok)

	// user_roles untouched
	var after int64
	s.Require().NoError(s.testDB.DB.Model(&models.UserRole{}).Count(&after).Error)
	assert.Equal(s.T(), before, after)
}

func (s *AuthServiceTestSuite) TestAssignRoleReplacesPriorAssignment() {
	userID, err := s.auth.CreateUser(s.ctx, "johndoe", "john@example.com", "password123", "", "")
	s.Require().NoError(err)
	adminID, err := s.auth.CreateUser(s.ctx, "admin", "admin@example.com", "adminpass123", "", "")
	s.Require().NoError(err)

	ok, err := s.auth.AssignRole(s.ctx, userID, string(models.RoleModerator), userID)
	s.Require().NoError(err)
	s.Require().True(ok)

	// Re-assign the same role by a different user: the row is replaced
	ok, err = s.auth.AssignRole(s.ctx, userID, string(models.RoleModerator), adminID)
	s.Require().NoError(err)
	s.Require().True(ok)

	var assignments []models.UserRole
	err = s.testDB.DB.
		Joins("JOIN roles ON roles.id = user_roles.role_id").
		Where("user_roles.user_id = ? AND roles.name = ?", userID, string(models.RoleModerator)).
		Find(&assignments).Error
	s.Require().NoError(err)
	s.Require().Len(assignments, 1)
	s.Require().NotNil(assignments[0].AssignedBy)
	assert.Equal(s.T(), adminID, *assignments[0].AssignedBy)
}

func (s *AuthServiceTestSuite) TestPermissionsThroughRoles() {
	userID, err := s.auth.CreateUser(s.ctx, "johndoe", "john@example.com", "password123", "", "")
	s.Require().NoError(err)

	// Default user role carries view_posts but not manage_users
	ok, err := s.auth.HasPermission(s.ctx, userID, "view_posts")
	s.Require().NoError(err)
	assert.True(s.T(), ok)

	ok, err = s.auth.HasPermission(s.ctx, userID, "manage_users")
	s.Require().NoError(err)
	assert.False(s.T(), ok)

	// Promoting to admin grants everything
	assigned, err := s.auth.AssignRole(s.ctx, userID, string(models.RoleAdmin), userID)
	s.Require().NoError(err)
	s.Require().True(assigned)

	ok, err = s.auth.HasPermission(s.ctx, userID, "manage_users")
	s.Require().NoError(err)
	assert.True(s.T(), ok)
}

func TestAuthServiceTestSuite(t *testing.T) {
	suite.Run(t, new(AuthServiceTestSuite))
}
