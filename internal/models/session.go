package models

import (
	"time"
)

// Session is a time-bounded proof of authentication identified by an opaque
// token. A user may hold any number of concurrent sessions.
type Session struct {
	ID             string    `gorm:"type:varchar(255);primaryKey" json:"id"`
	UserID         uint      `gorm:"not null;index:idx_sessions_user_active" json:"user_id"`
	DeviceInfo     string    `gorm:"type:varchar(500)" json:"device_info,omitempty"`
	IPAddress      string    `gorm:"type:varchar(45)" json:"ip_address,omitempty"`
	IsActive       bool      `gorm:"not null;default:true;index:idx_sessions_user_active" json:"is_active"`
	ExpiresAt      time.Time `gorm:"not null;index" json:"expires_at"`
	CreatedAt      time.Time `json:"created_at"`
	LastAccessedAt time.Time `json:"last_accessed_at"`

	User User `gorm:"constraint:OnDelete:CASCADE" json:"-"`
}

func (Session) TableName() string {
	return "user_sessions"
}
