package domain

import (
	"context"
	"errors"
)

// LimitReader returns the keyword limit computed from fresh store reads.
type LimitReader interface {
	EffectiveLimit(ctx context.Context) (int, error)
}

type Service interface {
	LimitReader
	Progress(ctx context.Context) (*Progress, error)
	List(ctx context.Context) ([]Milestone, error)
	Upsert(ctx context.Context, req UpsertRequest) (*Milestone, error)
	Delete(ctx context.Context, threshold int64) error
}

type Progress struct {
	Evaluation
	ShareLink string `json:"share_link"`
}

type UpsertRequest struct {
	TargetUserCount    int64 `json:"target_user_count"`
	MaxKeywordsAllowed int   `json:"max_keywords_allowed"`
}

var (
	ErrInvalidThreshold = errors.New("invalid_threshold")
	ErrInvalidLimit     = errors.New("invalid_limit")
	ErrNotFound         = errors.New("milestone_not_found")
)
