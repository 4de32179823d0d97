package domain

import (
	"strconv"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
)

// Profile carries the Telegram user id the stock bot delivers alerts to.
type Profile struct {
	UserID         snowflake.ID `gorm:"column:user_id;primaryKey" json:"user_id"`
	TelegramUserID *int64       `gorm:"column:telegram_user_id" json:"telegram_user_id"`
	UpdatedAt      time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

func (Profile) TableName() string { return "user_profiles" }

func (p Profile) HasNotificationID() bool {
	return p.TelegramUserID != nil
}

func (p Profile) NotificationID() string {
	if p.TelegramUserID == nil {
		return ""
	}
	return strconv.FormatInt(*p.TelegramUserID, 10)
}

// ParseNotificationID accepts a base-10 integer; Telegram group ids are negative.
func ParseNotificationID(raw string) (int64, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, ErrInvalidNotificationID
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, ErrInvalidNotificationID
	}
	return id, nil
}
