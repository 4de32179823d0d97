package repository

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/gardenwatch/internal/keyword/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) List(ctx context.Context, db *gorm.DB) ([]domain.Keyword, error) {
	var items []domain.Keyword
	err := db.WithContext(ctx).
		Model(&domain.Keyword{}).
		Order("keyword ASC").
		Find(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

func (r *repo) ListByIDs(ctx context.Context, db *gorm.DB, ids []snowflake.ID) ([]domain.Keyword, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var items []domain.Keyword
	err := db.WithContext(ctx).
		Where("id IN ?", ids).
		Order("keyword ASC").
		Find(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

func (r *repo) FindBySlug(ctx context.Context, db *gorm.DB, slug string) (*domain.Keyword, error) {
	var k domain.Keyword
	err := db.WithContext(ctx).Raw(
		`SELECT id, keyword, slug, created_at FROM available_keywords WHERE slug = ?`,
		slug,
	).Scan(&k).Error
	if err != nil {
		return nil, err
	}
	if k.ID == 0 {
		return nil, nil
	}
	return &k, nil
}

func (r *repo) Create(ctx context.Context, db *gorm.DB, keyword *domain.Keyword) error {
	return db.WithContext(ctx).Exec(
		`INSERT INTO available_keywords (id, keyword, slug, created_at) VALUES (?, ?, ?, ?)`,
		keyword.ID,
		keyword.Name,
		keyword.Slug,
		keyword.CreatedAt,
	).Error
}

// Delete removes the keyword together with every subscription pointing at it.
func (r *repo) Delete(ctx context.Context, db *gorm.DB, id snowflake.ID) (int64, error) {
	var deleted int64
	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec(`DELETE FROM subscriptions WHERE keyword_id = ?`, id).Error; err != nil {
			return err
		}
		res := tx.Exec(`DELETE FROM available_keywords WHERE id = ?`, id)
		if res.Error != nil {
			return res.Error
		}
		deleted = res.RowsAffected
		return nil
	})
	if err != nil {
		return 0, err
	}
	return deleted, nil
}
