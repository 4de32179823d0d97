package domain

import (
	"fmt"
	"sort"
)

// DefaultFallbackLimit applies when no milestone is unlocked.
const DefaultFallbackLimit = 5

type Status struct {
	Threshold int64   `json:"target_user_count"`
	Limit     int     `json:"max_keywords_allowed"`
	Progress  float64 `json:"progress"`
	Unlocked  bool    `json:"unlocked"`
	Remaining int64   `json:"remaining_users"`
}

type Evaluation struct {
	ActiveUsers    int64    `json:"active_users"`
	EffectiveLimit int      `json:"effective_limit"`
	Statuses       []Status `json:"milestones"`
}

// Next returns the lowest locked milestone, if any.
func (e Evaluation) Next() (Status, bool) {
	for _, s := range e.Statuses {
		if !s.Unlocked {
			return s, true
		}
	}
	return Status{}, false
}

// Evaluate derives unlock state from the active user count alone.
// Statuses come back in ascending threshold order and the effective limit
// is the highest limit among unlocked milestones, never below fallback.
func Evaluate(activeUsers int64, milestones []Milestone, fallback int) (Evaluation, error) {
	if fallback <= 0 {
		fallback = DefaultFallbackLimit
	}
	if activeUsers < 0 {
		activeUsers = 0
	}

	ordered := make([]Milestone, len(milestones))
	copy(ordered, milestones)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].TargetUserCount < ordered[j].TargetUserCount
	})

	eval := Evaluation{
		ActiveUsers:    activeUsers,
		EffectiveLimit: fallback,
		Statuses:       make([]Status, 0, len(ordered)),
	}
	for _, m := range ordered {
		if m.TargetUserCount <= 0 {
			return Evaluation{}, fmt.Errorf("%w: %d", ErrInvalidThreshold, m.TargetUserCount)
		}

		progress := float64(activeUsers) / float64(m.TargetUserCount)
		if progress > 1 {
			progress = 1
		}
		unlocked := activeUsers >= m.TargetUserCount
		remaining := m.TargetUserCount - activeUsers
		if remaining < 0 {
			remaining = 0
		}

		eval.Statuses = append(eval.Statuses, Status{
			Threshold: m.TargetUserCount,
			Limit:     m.MaxKeywordsAllowed,
			Progress:  progress,
			Unlocked:  unlocked,
			Remaining: remaining,
		})
		if unlocked && m.MaxKeywordsAllowed > eval.EffectiveLimit {
			eval.EffectiveLimit = m.MaxKeywordsAllowed
		}
	}
	return eval, nil
}
