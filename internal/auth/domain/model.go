// Package domain contains core types for the auth service.
package domain

import (
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/datatypes"
)

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// User represents a dashboard account.
type User struct {
	ID              snowflake.ID      `gorm:"primaryKey"`
	ExternalID      string            `gorm:"column:external_id;type:text;not null;uniqueIndex"`
	Email           string            `gorm:"column:email;type:varchar(320);not null;uniqueIndex"`
	Role            string            `gorm:"type:varchar(32);not null;default:'user'"`
	PasswordHash    *string           `gorm:"type:text"`
	EmailVerifiedAt *time.Time        `gorm:"column:email_verified_at"`
	Metadata        datatypes.JSONMap `gorm:"not null"`
	CreatedAt       time.Time         `gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt       time.Time         `gorm:"not null;default:CURRENT_TIMESTAMP"`
}

// TableName sets the database table name.
func (User) TableName() string { return "users" }

func (u User) Verified() bool { return u.EmailVerifiedAt != nil }

// DisplayName is the local part of the email address.
func (u User) DisplayName() string {
	local, _, _ := strings.Cut(u.Email, "@")
	if strings.TrimSpace(local) == "" {
		return u.Email
	}
	return local
}

// Session represents a persisted login session.
type Session struct {
	ID               snowflake.ID `gorm:"primaryKey"`
	UserID           snowflake.ID `gorm:"column:user_id;not null;index"`
	SessionTokenHash string       `gorm:"column:session_token_hash;type:varchar(64);not null;uniqueIndex"`
	UserAgent        string       `gorm:"column:user_agent;type:text"`
	IPAddress        string       `gorm:"column:ip_address;type:text"`
	ExpiresAt        time.Time    `gorm:"column:expires_at;not null;index"`
	RevokedAt        *time.Time   `gorm:"column:revoked_at"`
	CreatedAt        time.Time    `gorm:"column:created_at;not null;default:CURRENT_TIMESTAMP"`
	LastSeenAt       time.Time    `gorm:"column:last_seen_at;not null;default:CURRENT_TIMESTAMP"`
}

// TableName sets the database table name.
func (Session) TableName() string { return "sessions" }

// EmailVerification is a single-use confirmation link; only the token hash is stored.
type EmailVerification struct {
	ID        string       `gorm:"primaryKey;type:varchar(26)"`
	UserID    snowflake.ID `gorm:"column:user_id;not null;index"`
	TokenHash string       `gorm:"column:token_hash;type:varchar(64);not null;uniqueIndex"`
	ExpiresAt time.Time    `gorm:"column:expires_at;not null"`
	UsedAt    *time.Time   `gorm:"column:used_at"`
	CreatedAt time.Time    `gorm:"column:created_at;not null;default:CURRENT_TIMESTAMP"`
}

func (EmailVerification) TableName() string { return "email_verifications" }
