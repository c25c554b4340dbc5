package models

import (
	"time"
)

// PasswordResetToken is single-use: UsedAt is set the first time the token is
// consumed and any further consumption attempts fail.
type PasswordResetToken struct {
	ID        uint       `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID    uint       `gorm:"not null;index:idx_reset_user_expires" json:"user_id"`
	Token     string     `gorm:"type:varchar(255);uniqueIndex;not null" json:"-"`
	ExpiresAt time.Time  `gorm:"not null;index:idx_reset_user_expires" json:"expires_at"`
	UsedAt    *time.Time `json:"used_at,omitempty"`
	CreatedAt time.Time  `json:"created_at"`

	User User `gorm:"constraint:OnDelete:CASCADE" json:"-"`
}

func (PasswordResetToken) TableName() string {
	return "password_reset_tokens"
}

type EmailVerificationToken struct {
	ID         uint       `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID     uint       `gorm:"not null;index:idx_email_verify_user_expires" json:"user_id"`
	Token      string     `gorm:"type:varchar(255);uniqueIndex;not null" json:"-"`
	Email      string     `gorm:"type:varchar(255);not null" json:"email"`
	ExpiresAt  time.Time  `gorm:"not null;index:idx_email_verify_user_expires" json:"expires_at"`
	VerifiedAt *time.Time `json:"verified_at,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`

	User User `gorm:"constraint:OnDelete:CASCADE" json:"-"`
}

func (EmailVerificationToken) TableName() string {
	return "email_verification_tokens"
}
