package testutil

import (
	"github.com/friendfinder/userstore/internal/models"
	"github.com/friendfinder/userstore/internal/utils"
)

// NewTestUser builds an unsaved user record with a properly derived password
// hash and salt.
func NewTestUser(username, email, password string) (*models.User, error) {
	hash, salt, err := utils.HashPassword(password)
	if err != nil {
		return nil, err
	}

	return &models.User{
		Username:     username,
		Email:        email,
		PasswordHash: hash,
		Salt:         salt,
		IsActive:     true,
	}, nil
}

// DefaultTestUser returns the standard fixture account.
func DefaultTestUser() (*models.User, error) {
	return NewTestUser("testuser", "test@example.com", "Test123456")
}
