package models

import (
	"time"
)

// Friend request states.
const (
	FriendStatusPending  = "pending"
	FriendStatusAccepted = "accepted"
	FriendStatusDeclined = "declined"
	FriendStatusBlocked  = "blocked"
)

// Post lifecycle and visibility.
const (
	PostStatusDraft     = "draft"
	PostStatusPublished = "published"
	PostStatusArchived  = "archived"

	PostVisibilityPublic  = "public"
	PostVisibilityFriends = "friends"
	PostVisibilityPrivate = "private"
)

type Friend struct {
	UserID       uint      `gorm:"primaryKey" json:"user_id"`
	FriendUserID uint      `gorm:"primaryKey;index:idx_friends_status" json:"friend_user_id"`
	Status       string    `gorm:"type:varchar(20);not null;default:'pending';index:idx_friends_status" json:"status"`
	RequestedBy  uint      `gorm:"not null" json:"requested_by"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`

	User       User `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	FriendUser User `gorm:"foreignKey:FriendUserID;constraint:OnDelete:CASCADE" json:"-"`
}

func (Friend) TableName() string {
	return "friends"
}

// Result holds one Big Five personality test outcome. At most one result per
// user is marked current.
type Result struct {
	ID                   uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID               uint      `gorm:"not null;index:idx_results_user_current;index:idx_results_user_date" json:"user_id"`
	Extraversion         float64   `json:"extraversion"`
	Agreeableness        float64   `json:"agreeableness"`
	Conscientiousness    float64   `json:"conscientiousness"`
	EmotionalStability   float64   `json:"emotional_stability"`
	IntellectImagination float64   `json:"intellect_imagination"`
	TestVersion          string    `gorm:"type:varchar(50)" json:"test_version,omitempty"`
	IsCurrent            bool      `gorm:"not null;default:false;index:idx_results_user_current" json:"is_current"`
	CreatedAt            time.Time `gorm:"index:idx_results_user_date" json:"created_at"`

	User User `gorm:"constraint:OnDelete:CASCADE" json:"-"`
}

func (Result) TableName() string {
	return "results"
}

type Post struct {
	ID         uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	Title      string    `gorm:"type:varchar(255);not null" json:"title"`
	Body       string    `gorm:"type:text" json:"body,omitempty"`
	UserID     uint      `gorm:"not null;index:idx_posts_user_status" json:"user_id"`
	Status     string    `gorm:"type:varchar(20);not null;default:'draft';index:idx_posts_user_status;index:idx_posts_feed" json:"status"`
	Visibility string    `gorm:"type:varchar(20);not null;default:'public';index:idx_posts_feed" json:"visibility"`
	CreatedAt  time.Time `gorm:"index:idx_posts_feed" json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`

	User User `gorm:"constraint:OnDelete:CASCADE" json:"-"`
}

func (Post) TableName() string {
	return "posts"
}
