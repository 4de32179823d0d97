package repository

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/gardenwatch/internal/subscription/domain"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) ListKeywordIDs(ctx context.Context, db *gorm.DB, userID snowflake.ID) ([]snowflake.ID, error) {
	var ids []snowflake.ID
	err := db.WithContext(ctx).
		Model(&domain.Subscription{}).
		Where("user_id = ?", userID).
		Order("keyword_id ASC").
		Pluck("keyword_id", &ids).Error
	if err != nil {
		return nil, err
	}
	return ids, nil
}

func (r *repo) Add(ctx context.Context, db *gorm.DB, userID snowflake.ID, keywordIDs []snowflake.ID) (int64, error) {
	if len(keywordIDs) == 0 {
		return 0, nil
	}
	rows := make([]domain.Subscription, 0, len(keywordIDs))
	for _, id := range keywordIDs {
		rows = append(rows, domain.Subscription{UserID: userID, KeywordID: id})
	}
	res := db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&rows)
	if res.Error != nil {
		return 0, res.Error
	}
	return res.RowsAffected, nil
}

func (r *repo) Remove(ctx context.Context, db *gorm.DB, userID snowflake.ID, keywordIDs []snowflake.ID) (int64, error) {
	if len(keywordIDs) == 0 {
		return 0, nil
	}
	res := db.WithContext(ctx).Exec(
		`DELETE FROM subscriptions WHERE user_id = ? AND keyword_id IN ?`,
		userID,
		keywordIDs,
	)
	if res.Error != nil {
		return 0, res.Error
	}
	return res.RowsAffected, nil
}

func (r *repo) CountActiveUsers(ctx context.Context, db *gorm.DB) (int64, error) {
	var count int64
	err := db.WithContext(ctx).Raw(`SELECT COUNT(DISTINCT user_id) FROM subscriptions`).Scan(&count).Error
	if err != nil {
		return 0, err
	}
	return count, nil
}
