package models

import (
	"time"
)

type Role struct {
	ID          uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	Name        string    `gorm:"type:varchar(100);uniqueIndex;not null" json:"name"`
	Description string    `gorm:"type:text" json:"description,omitempty"`
	IsActive    bool      `gorm:"not null;default:true" json:"is_active"`
	CreatedAt   time.Time `json:"created_at"`
}

// Permission attaches a named capability to a resource and action.
type Permission struct {
	ID          uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	Name        string    `gorm:"type:varchar(100);uniqueIndex;not null" json:"name"`
	Description string    `gorm:"type:text" json:"description,omitempty"`
	Resource    string    `gorm:"type:varchar(100)" json:"resource,omitempty"`
	Action      string    `gorm:"type:varchar(50)" json:"action,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

type RolePermission struct {
	RoleID       uint      `gorm:"primaryKey" json:"role_id"`
	PermissionID uint      `gorm:"primaryKey" json:"permission_id"`
	CreatedAt    time.Time `json:"created_at"`

	Role       Role       `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	Permission Permission `gorm:"constraint:OnDelete:CASCADE" json:"-"`
}

func (RolePermission) TableName() string {
	return "role_permissions"
}

// UserRole records who assigned the role and an optional expiry; a new
// assignment for the same (user, role) pair replaces the previous row.
type UserRole struct {
	UserID     uint       `gorm:"primaryKey" json:"user_id"`
	RoleID     uint       `gorm:"primaryKey" json:"role_id"`
	AssignedBy *uint      `json:"assigned_by,omitempty"`
	AssignedAt time.Time  `gorm:"autoCreateTime" json:"assigned_at"`
	ExpiresAt  *time.Time `json:"expires_at,omitempty"`

	User User `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	Role Role `gorm:"constraint:OnDelete:CASCADE" json:"-"`
}

func (UserRole) TableName() string {
	return "user_roles"
}
