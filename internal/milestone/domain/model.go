package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

// Milestone raises the per-user keyword limit once enough users are active.
// Unlocked mirrors the stored column and is never consulted by Evaluate.
type Milestone struct {
	ID                 snowflake.ID `gorm:"primaryKey" json:"id"`
	TargetUserCount    int64        `gorm:"column:target_user_count;not null;uniqueIndex:ux_community_unlocks_target" json:"target_user_count"`
	MaxKeywordsAllowed int          `gorm:"column:max_keywords_allowed;not null" json:"max_keywords_allowed"`
	Unlocked           bool         `gorm:"not null;default:false" json:"unlocked"`
	CreatedAt          time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt          time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

func (Milestone) TableName() string { return "community_unlocks" }
