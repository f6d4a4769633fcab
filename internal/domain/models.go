// Package domain defines the persistence models for user profiles, generation
// chats, messages, uploaded section images, and feedback. These types are
// mapped with GORM and form the core data layer of the section-generator
// application.
package domain

import (
	"time"

	"gorm.io/gorm"
)

// Plan names the credit tiers a profile can be on. Each plan carries a fixed
// daily credit allotment.
type Plan string

// Known plans.
const (
	PlanFree     Plan = "free"
	PlanPro      Plan = "pro"
	PlanBusiness Plan = "business"
)

// Credits returns the daily credit allotment for the plan. Unknown plans are
// treated as free.
func (p Plan) Credits() int {
	switch p {
	case PlanPro:
		return 50
	case PlanBusiness:
		return 999
	default:
		return 3
	}
}

// Valid reports whether p is one of the known plan names.
func (p Plan) Valid() bool {
	switch p {
	case PlanFree, PlanPro, PlanBusiness:
		return true
	}
	return false
}

// Profile is the authoritative per-user account record. It owns the credit
// state: the remaining allowance is MaxCredits - CreditsUsed, and CreditsUsed
// is zeroed once per calendar day (tracked via LastResetAt).
//
// Fields:
//   - ID: the authenticated user identifier (externally issued subject).
//   - Email / Name: optional identity metadata from the identity provider.
//   - Plan: credit tier (free, pro, business).
//   - MaxCredits: daily allowance ceiling for the current plan.
//   - CreditsUsed: credits consumed since the last daily reset; never exceeds
//     MaxCredits.
//   - LastResetAt: UTC instant of the most recent daily reset.
type Profile struct {
	ID          string         `json:"id"             gorm:"type:varchar(64);primaryKey"`
	Email       string         `json:"email"          gorm:"type:varchar(255)"`
	Name        string         `json:"name,omitempty" gorm:"type:varchar(255)"`
	Plan        Plan           `json:"plan"           gorm:"type:varchar(16);not null;default:'free'"`
	MaxCredits  int            `json:"max_credits"    gorm:"not null;default:3"`
	CreditsUsed int            `json:"credits_used"   gorm:"not null;default:0"`
	LastResetAt time.Time      `json:"last_reset_at"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `json:"-"              gorm:"index"`
}

// TableName returns the database table name for Profile.
func (Profile) TableName() string { return "profiles" }

// Chat represents one generation session owned by a user. Each chat has a
// generated title and accumulates the request/response message pairs produced
// by successive generations in that session.
//
// The date bucket shown in history lists (Today, Yesterday, …) is derived
// from CreatedAt at read time and deliberately not stored here.
type Chat struct {
	ID        string         `json:"id"        gorm:"type:char(36);primaryKey"`
	UserID    string         `json:"user_id"   gorm:"type:varchar(64);not null;index:idx_user_chats"`
	Title     string         `json:"title"     gorm:"type:varchar(255);not null;default:'New section'"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-"         gorm:"index"`
}

// TableName returns the database table name for Chat.
func (Chat) TableName() string { return "chat_history" }

// Message is a single utterance within a generation chat: either the user's
// request summary or the assistant's generated artifact text.
type Message struct {
	ID        string         `json:"id"         gorm:"type:char(36);primaryKey"`
	ChatID    string         `json:"chat_id"    gorm:"type:char(36);not null;index:idx_chat_msgs,priority:1"`
	Role      string         `json:"role"       gorm:"type:varchar(16);not null;check:role IN ('user','assistant')"`
	Content   string         `json:"content"    gorm:"type:text;not null"`
	CreatedAt time.Time      `json:"created_at" gorm:"index:idx_chat_msgs,priority:2"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-"          gorm:"index"`

	// Chat is the parent session. Messages are cascade-deleted if their
	// chat is removed.
	Chat Chat `json:"-" gorm:"foreignKey:ChatID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
}

// TableName returns the database table name for Message.
func (Message) TableName() string { return "chat_messages" }

// ChatImage records the uploaded section screenshot a generation was based
// on. The image is stored as the data URL the client submitted.
type ChatImage struct {
	ID        string         `json:"id"        gorm:"type:char(36);primaryKey"`
	ChatID    string         `json:"chat_id"   gorm:"type:char(36);not null;index"`
	ImageURL  string         `json:"image_url" gorm:"type:text;not null"`
	CreatedAt time.Time      `json:"created_at"`
	DeletedAt gorm.DeletedAt `json:"-"         gorm:"index"`

	Chat Chat `json:"-" gorm:"foreignKey:ChatID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
}

// TableName returns the database table name for ChatImage.
func (ChatImage) TableName() string { return "chat_images" }

// Feedback represents a user-provided rating on a generated artifact message.
// A user can only leave one feedback entry per message (enforced by unique
// index).
type Feedback struct {
	ID        string         `json:"id"         gorm:"type:char(36);primaryKey"`
	MessageID string         `json:"message_id" gorm:"type:char(36);not null;index;uniqueIndex:ux_feedback_message_user"`
	UserID    string         `json:"user_id"    gorm:"type:varchar(64);not null;index;uniqueIndex:ux_feedback_message_user"`
	Value     int            `json:"value"      gorm:"not null;check:value IN (-1,1)"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-"          gorm:"index"`

	Message Message `json:"-" gorm:"foreignKey:MessageID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
}

// TableName returns the database table name for Feedback.
func (Feedback) TableName() string { return "feedback" }
