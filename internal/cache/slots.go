package cache

import (
	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/gardenwatch/internal/clock"
	"github.com/smallbiznis/gardenwatch/internal/config"
	keyworddomain "github.com/smallbiznis/gardenwatch/internal/keyword/domain"
	profiledomain "github.com/smallbiznis/gardenwatch/internal/profile/domain"
)

// Slots are the read caches owned by one browser session.
type Slots struct {
	Keywords       *Slot[[]keyworddomain.Keyword]
	Subscriptions  *Slot[[]snowflake.ID]
	NotificationID *Slot[profiledomain.Profile]
}

type Stats struct {
	KeywordsCached       bool `json:"keywords_cached"`
	KeywordCount         int  `json:"keyword_count"`
	SubscriptionsCached  bool `json:"subscriptions_cached"`
	SubscriptionCount    int  `json:"subscription_count"`
	NotificationIDCached bool `json:"notification_id_cached"`
}

func NewSlots(policy config.CachePolicy, clk clock.Clock) *Slots {
	return &Slots{
		Keywords:       NewSlot[[]keyworddomain.Keyword]("keywords", policy.KeywordsTTL, clk),
		Subscriptions:  NewSlot[[]snowflake.ID]("subscriptions", policy.SubscriptionsTTL, clk),
		NotificationID: NewSlot[profiledomain.Profile]("notification_id", policy.ProfileTTL, clk),
	}
}

func (s *Slots) ClearKeywords()       { s.Keywords.Clear() }
func (s *Slots) ClearSubscriptions()  { s.Subscriptions.Clear() }
func (s *Slots) ClearNotificationID() { s.NotificationID.Clear() }

// ClearUser drops the slots that hold user-owned rows.
func (s *Slots) ClearUser() {
	s.ClearSubscriptions()
	s.ClearNotificationID()
}

func (s *Slots) ClearAll() {
	s.ClearKeywords()
	s.ClearUser()
}

func (s *Slots) Stats() Stats {
	var st Stats
	if kws, ok := s.Keywords.Get(); ok {
		st.KeywordsCached = true
		st.KeywordCount = len(kws)
	}
	if subs, ok := s.Subscriptions.Get(); ok {
		st.SubscriptionsCached = true
		st.SubscriptionCount = len(subs)
	}
	_, st.NotificationIDCached = s.NotificationID.Get()
	return st
}
