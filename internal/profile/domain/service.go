package domain

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
)

type Service interface {
	// Get returns an empty profile when the user has not saved one yet.
	Get(ctx context.Context, userID snowflake.ID) (*Profile, error)
	SetNotificationID(ctx context.Context, userID snowflake.ID, raw string) (*Profile, error)
}

var (
	ErrInvalidNotificationID = errors.New("invalid_notification_id")
	ErrInvalidUser           = errors.New("invalid_user")
)
