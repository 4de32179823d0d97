package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type Repository interface {
	List(ctx context.Context, db *gorm.DB) ([]Keyword, error)
	ListByIDs(ctx context.Context, db *gorm.DB, ids []snowflake.ID) ([]Keyword, error)
	FindBySlug(ctx context.Context, db *gorm.DB, slug string) (*Keyword, error)
	Create(ctx context.Context, db *gorm.DB, keyword *Keyword) error
	Delete(ctx context.Context, db *gorm.DB, id snowflake.ID) (int64, error)
}
