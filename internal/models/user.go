package models

import (
	"time"
)

// RoleName identifies one of the built-in roles seeded at startup.
type RoleName string

const (
	RoleAdmin       RoleName = "admin"
	RoleModerator   RoleName = "moderator"
	RoleUser        RoleName = "user"
	RolePremiumUser RoleName = "premium_user"
)

type User struct {
	ID            uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	Username      string `gorm:"type:varchar(50);uniqueIndex;not null" json:"username"`
	Email         string `gorm:"type:varchar(255);uniqueIndex;not null" json:"email"`
	EmailVerified bool   `gorm:"not null;default:false" json:"email_verified"`
	PasswordHash  string `gorm:"type:varchar(255);not null" json:"-"` // Never expose credentials in JSON
	Salt          string `gorm:"type:varchar(255)" json:"-"`
	FirstName     string `gorm:"type:varchar(100)" json:"first_name,omitempty"`
	LastName      string `gorm:"type:varchar(100)" json:"last_name,omitempty"`
	AvatarURL     string `gorm:"type:varchar(500)" json:"avatar_url,omitempty"`
	Bio           string `gorm:"type:text" json:"bio,omitempty"`
	IsActive      bool   `gorm:"not null;default:true;index:idx_users_active_deleted" json:"is_active"`
	IsDeleted     bool   `gorm:"not null;default:false;index:idx_users_active_deleted" json:"-"`

	// CurrentResultID points at the user's current personality test result.
	// Deliberately not a gorm association: users and results would otherwise
	// form a foreign key cycle. Referential integrity is enforced by the
	// fk_users_current_result trigger on SQLite and checked for ownership in
	// the service layer.
	CurrentResultID *uint `gorm:"column:current_result_id" json:"current_result_id,omitempty"`

	LastLoginAt *time.Time `json:"last_login_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

func (User) TableName() string {
	return "users"
}
