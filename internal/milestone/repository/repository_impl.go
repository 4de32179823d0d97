package repository

import (
	"context"

	"github.com/smallbiznis/gardenwatch/internal/milestone/domain"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) List(ctx context.Context, db *gorm.DB) ([]domain.Milestone, error) {
	var items []domain.Milestone
	err := db.WithContext(ctx).
		Model(&domain.Milestone{}).
		Order("target_user_count ASC").
		Find(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

func (r *repo) FindByThreshold(ctx context.Context, db *gorm.DB, threshold int64) (*domain.Milestone, error) {
	var m domain.Milestone
	err := db.WithContext(ctx).
		Where("target_user_count = ?", threshold).
		Limit(1).
		Find(&m).Error
	if err != nil {
		return nil, err
	}
	if m.ID == 0 {
		return nil, nil
	}
	return &m, nil
}

// Upsert keys on target_user_count; an existing row keeps its id.
func (r *repo) Upsert(ctx context.Context, db *gorm.DB, milestone *domain.Milestone) error {
	return db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "target_user_count"}},
		DoUpdates: clause.AssignmentColumns([]string{"max_keywords_allowed", "updated_at"}),
	}).Create(milestone).Error
}

func (r *repo) Delete(ctx context.Context, db *gorm.DB, threshold int64) (int64, error) {
	res := db.WithContext(ctx).Exec(`DELETE FROM community_unlocks WHERE target_user_count = ?`, threshold)
	if res.Error != nil {
		return 0, res.Error
	}
	return res.RowsAffected, nil
}

func (r *repo) Count(ctx context.Context, db *gorm.DB) (int64, error) {
	var count int64
	if err := db.WithContext(ctx).Model(&domain.Milestone{}).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
