package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

//go:generate mockgen -destination=../mocks/mock_repository.go -package=mocks . Repository

type Repository interface {
	ListKeywordIDs(ctx context.Context, db *gorm.DB, userID snowflake.ID) ([]snowflake.ID, error)
	// Add skips pairs that already exist.
	Add(ctx context.Context, db *gorm.DB, userID snowflake.ID, keywordIDs []snowflake.ID) (int64, error)
	Remove(ctx context.Context, db *gorm.DB, userID snowflake.ID, keywordIDs []snowflake.ID) (int64, error)
	CountActiveUsers(ctx context.Context, db *gorm.DB) (int64, error)
}
