package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
)

type Service interface {
	Current(ctx context.Context, userID snowflake.ID) ([]snowflake.ID, error)
	// Save replaces the user's subscriptions with desired, checked against a freshly read limit.
	Save(ctx context.Context, userID snowflake.ID, desired []snowflake.ID) (*SaveResult, error)
}

type SaveResult struct {
	Limit   int            `json:"limit"`
	Added   []snowflake.ID `json:"added"`
	Removed []snowflake.ID `json:"removed"`
	Current []snowflake.ID `json:"keyword_ids"`
}

func (r SaveResult) Changed() bool {
	return len(r.Added) > 0 || len(r.Removed) > 0
}
