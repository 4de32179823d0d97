package domain

import (
	"context"

	"gorm.io/gorm"
)

type Repository interface {
	List(ctx context.Context, db *gorm.DB) ([]Milestone, error)
	FindByThreshold(ctx context.Context, db *gorm.DB, threshold int64) (*Milestone, error)
	Upsert(ctx context.Context, db *gorm.DB, milestone *Milestone) error
	Delete(ctx context.Context, db *gorm.DB, threshold int64) (int64, error)
	Count(ctx context.Context, db *gorm.DB) (int64, error)
}

// ActiveUserCounter reports how many distinct users hold at least one subscription.
type ActiveUserCounter interface {
	CountActiveUsers(ctx context.Context, db *gorm.DB) (int64, error)
}
