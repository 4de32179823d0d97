package domain

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
)

type Service interface {
	SignUp(ctx context.Context, req SignUpRequest) (*SignUpResult, error)
	VerifyEmail(ctx context.Context, rawToken string) (*User, error)
	SignIn(ctx context.Context, req SignInRequest) (*SignInResult, error)
	SignOut(ctx context.Context, rawToken string) error
	Authenticate(ctx context.Context, rawToken string) (*Session, *User, error)
	// EnsureAdmin creates a verified admin account or promotes an existing one.
	EnsureAdmin(ctx context.Context, email, password string) (*User, error)
}

type SignUpRequest struct {
	Email    string
	Password string
}

type SignUpResult struct {
	User                 *User
	VerificationRequired bool
}

type SignInRequest struct {
	Email     string
	Password  string
	UserAgent string
	IPAddress string
}

type SignInResult struct {
	UserID    snowflake.ID
	Email     string
	RawToken  string
	ExpiresAt time.Time
	SessionID snowflake.ID
}
