package domain

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
)

type Repository interface {
	Count(ctx context.Context) (int64, error)
	Create(ctx context.Context, user *User) error
	FindByEmail(ctx context.Context, email string) (*User, error)
	FindByID(ctx context.Context, id snowflake.ID) (*User, error)
	UpdateFields(ctx context.Context, id snowflake.ID, fields map[string]any) error
}

type SessionRepository interface {
	CreateSession(ctx context.Context, session *Session) error
	GetSessionByTokenHash(ctx context.Context, tokenHash string) (*Session, error)
	UpdateLastSeen(ctx context.Context, sessionID snowflake.ID, lastSeen time.Time) error
	RevokeSession(ctx context.Context, sessionID snowflake.ID, revokedAt time.Time) error
}

type VerificationRepository interface {
	CreateVerification(ctx context.Context, v *EmailVerification) error
	GetVerificationByTokenHash(ctx context.Context, tokenHash string) (*EmailVerification, error)
	// ConsumeVerification marks the token used and the user verified in one transaction.
	ConsumeVerification(ctx context.Context, v *EmailVerification, at time.Time) error
}
