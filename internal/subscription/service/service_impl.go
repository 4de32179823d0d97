package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/bwmarrin/snowflake"
	milestonedomain "github.com/smallbiznis/gardenwatch/internal/milestone/domain"
	obsmetrics "github.com/smallbiznis/gardenwatch/internal/observability/metrics"
	"github.com/smallbiznis/gardenwatch/internal/subscription/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB      *gorm.DB
	Log     *zap.Logger
	Repo    domain.Repository
	Limits  milestonedomain.LimitReader
	Metrics *obsmetrics.Metrics `optional:"true"`
}

type Service struct {
	db      *gorm.DB
	log     *zap.Logger
	repo    domain.Repository
	limits  milestonedomain.LimitReader
	metrics *obsmetrics.Metrics
}

func New(p Params) domain.Service {
	return &Service{
		db:      p.DB,
		log:     p.Log.Named("subscription.service"),
		repo:    p.Repo,
		limits:  p.Limits,
		metrics: p.Metrics,
	}
}

func (s *Service) Current(ctx context.Context, userID snowflake.ID) ([]snowflake.ID, error) {
	if userID == 0 {
		return nil, domain.ErrInvalidUser
	}
	ids, err := s.repo.ListKeywordIDs(ctx, s.db, userID)
	if err != nil {
		return nil, fmt.Errorf("list subscriptions: %w", err)
	}
	if ids == nil {
		ids = []snowflake.ID{}
	}
	return ids, nil
}

func (s *Service) Save(ctx context.Context, userID snowflake.ID, desired []snowflake.ID) (*domain.SaveResult, error) {
	if userID == 0 {
		return nil, domain.ErrInvalidUser
	}

	limit, err := s.limits.EffectiveLimit(ctx)
	if err != nil {
		return nil, fmt.Errorf("read keyword limit: %w", err)
	}
	currentIDs, err := s.repo.ListKeywordIDs(ctx, s.db, userID)
	if err != nil {
		return nil, fmt.Errorf("list subscriptions: %w", err)
	}

	want := domain.NewSet(desired...)
	delta, err := domain.Reconcile(want, domain.NewSet(currentIDs...), limit)
	if err != nil {
		if errors.Is(err, domain.ErrLimitExceeded) {
			s.metrics.RecordLimitRejection(ctx, limit)
		}
		return nil, err
	}

	result := &domain.SaveResult{
		Limit:   limit,
		Added:   domain.Sorted(delta.ToAdd),
		Removed: domain.Sorted(delta.ToRemove),
		Current: domain.Sorted(want),
	}
	if delta.Empty() {
		s.metrics.RecordSubscriptionSave(ctx, "unchanged", 0, 0)
		return result, nil
	}

	if _, err := s.repo.Add(ctx, s.db, userID, result.Added); err != nil {
		s.metrics.RecordSubscriptionSave(ctx, "error", 0, 0)
		return nil, fmt.Errorf("add subscriptions: %w", err)
	}
	if _, err := s.repo.Remove(ctx, s.db, userID, result.Removed); err != nil {
		s.metrics.RecordSubscriptionSave(ctx, "partial", len(result.Added), 0)
		s.log.Error("subscription removal failed after additions",
			zap.String("user_id", userID.String()),
			zap.Int("added", len(result.Added)),
			zap.Int("pending_removals", len(result.Removed)),
			zap.Error(err),
		)
		return nil, &domain.PartialSaveError{Added: result.Added, Err: err}
	}

	s.metrics.RecordSubscriptionSave(ctx, "ok", len(result.Added), len(result.Removed))
	s.log.Info("subscriptions saved",
		zap.String("user_id", userID.String()),
		zap.Int("added", len(result.Added)),
		zap.Int("removed", len(result.Removed)),
		zap.Int("limit", limit),
	)
	return result, nil
}
