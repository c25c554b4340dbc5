package models

import (
	"time"
)

// Security event types recorded in the audit trail.
const (
	EventUserCreated            = "user_created"
	EventUserDeleted            = "user_deleted"
	EventLogin                  = "login"
	EventLoginFailed            = "login_failed"
	EventLoginThrottled         = "login_throttled"
	EventLogout                 = "logout"
	EventRoleAssigned           = "role_assigned"
	EventPasswordResetRequested = "password_reset_requested"
	EventPasswordChanged        = "password_changed"
	EventEmailVerified          = "email_verified"
)

// SecurityLog is an append-only audit record. Rows are never updated or
// deleted; deleting a user nulls the reference instead of cascading.
type SecurityLog struct {
	ID            uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID        *uint     `gorm:"index:idx_security_logs_user_date" json:"user_id,omitempty"`
	EventType     string    `gorm:"type:varchar(100);not null;index:idx_security_logs_event_date" json:"event_type"`
	IPAddress     string    `gorm:"type:varchar(45)" json:"ip_address,omitempty"`
	UserAgent     string    `gorm:"type:varchar(500)" json:"user_agent,omitempty"`
	Success       bool      `gorm:"not null;default:true" json:"success"`
	FailureReason string    `gorm:"type:varchar(255)" json:"failure_reason,omitempty"`
	Metadata      string    `gorm:"type:text" json:"metadata,omitempty"` // JSON text
	CreatedAt     time.Time `gorm:"index:idx_security_logs_user_date;index:idx_security_logs_event_date" json:"created_at"`

	User *User `gorm:"constraint:OnDelete:SET NULL" json:"-"`
}

func (SecurityLog) TableName() string {
	return "user_security_logs"
}
