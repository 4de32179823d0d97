package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

// Subscription links a user to one keyword; the pair is the primary key.
type Subscription struct {
	UserID    snowflake.ID `gorm:"column:user_id;primaryKey"`
	KeywordID snowflake.ID `gorm:"column:keyword_id;primaryKey;index:ix_subscriptions_keyword"`
	CreatedAt time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP"`
}

func (Subscription) TableName() string { return "subscriptions" }
