package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

// Keyword is an item name users can subscribe to.
type Keyword struct {
	ID        snowflake.ID `gorm:"primaryKey" json:"id"`
	Name      string       `gorm:"column:keyword;type:text;not null" json:"keyword"`
	Slug      string       `gorm:"type:text;not null;uniqueIndex:ux_available_keywords_slug" json:"slug"`
	CreatedAt time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
}

func (Keyword) TableName() string { return "available_keywords" }
