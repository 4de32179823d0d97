package authorization

import (
	"context"

	"github.com/bwmarrin/snowflake"
)

// Actor is the authenticated user an action is checked for.
type Actor struct {
	UserID snowflake.ID
	Role   string
}

type Service interface {
	Authorize(ctx context.Context, actor Actor, object string, action string) error
}
