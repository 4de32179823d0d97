package service

import (
	"context"
	"fmt"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/gardenwatch/internal/clock"
	"github.com/smallbiznis/gardenwatch/internal/config"
	"github.com/smallbiznis/gardenwatch/internal/milestone/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB      *gorm.DB
	Log     *zap.Logger
	Cfg     config.Config
	Policy  *config.PolicyHolder
	GenID   *snowflake.Node
	Clock   clock.Clock
	Repo    domain.Repository
	Counter domain.ActiveUserCounter
}

type Service struct {
	db      *gorm.DB
	log     *zap.Logger
	policy  *config.PolicyHolder
	genID   *snowflake.Node
	clock   clock.Clock
	repo    domain.Repository
	counter domain.ActiveUserCounter
	share   string
}

func New(p Params) domain.Service {
	return &Service{
		db:      p.DB,
		log:     p.Log.Named("milestone.service"),
		policy:  p.Policy,
		genID:   p.GenID,
		clock:   p.Clock,
		repo:    p.Repo,
		counter: p.Counter,
		share:   p.Cfg.PublicURL,
	}
}

func (s *Service) evaluate(ctx context.Context) (domain.Evaluation, error) {
	items, err := s.repo.List(ctx, s.db)
	if err != nil {
		return domain.Evaluation{}, fmt.Errorf("list milestones: %w", err)
	}
	active, err := s.counter.CountActiveUsers(ctx, s.db)
	if err != nil {
		return domain.Evaluation{}, fmt.Errorf("count active users: %w", err)
	}
	return domain.Evaluate(active, items, s.policy.Get().DefaultKeywordLimit)
}

func (s *Service) EffectiveLimit(ctx context.Context) (int, error) {
	eval, err := s.evaluate(ctx)
	if err != nil {
		return 0, err
	}
	return eval.EffectiveLimit, nil
}

func (s *Service) Progress(ctx context.Context) (*domain.Progress, error) {
	eval, err := s.evaluate(ctx)
	if err != nil {
		return nil, err
	}
	return &domain.Progress{Evaluation: eval, ShareLink: s.share}, nil
}

func (s *Service) List(ctx context.Context) ([]domain.Milestone, error) {
	return s.repo.List(ctx, s.db)
}

func (s *Service) Upsert(ctx context.Context, req domain.UpsertRequest) (*domain.Milestone, error) {
	if req.TargetUserCount <= 0 {
		return nil, domain.ErrInvalidThreshold
	}
	// A milestone below the base allowance would never raise the limit.
	if floor := s.policy.Get().DefaultKeywordLimit; req.MaxKeywordsAllowed <= 0 || req.MaxKeywordsAllowed < floor {
		return nil, fmt.Errorf("%w: %d is below the base limit of %d", domain.ErrInvalidLimit, req.MaxKeywordsAllowed, floor)
	}

	now := s.clock.Now().Truncate(time.Microsecond)
	record := &domain.Milestone{
		ID:                 s.genID.Generate(),
		TargetUserCount:    req.TargetUserCount,
		MaxKeywordsAllowed: req.MaxKeywordsAllowed,
		CreatedAt:          now,
		UpdatedAt:          now,
	}
	if err := s.repo.Upsert(ctx, s.db, record); err != nil {
		return nil, err
	}
	stored, err := s.repo.FindByThreshold(ctx, s.db, req.TargetUserCount)
	if err != nil {
		return nil, err
	}
	if stored != nil {
		record = stored
	}

	s.log.Info("milestone saved",
		zap.Int64("target_user_count", record.TargetUserCount),
		zap.Int("max_keywords_allowed", record.MaxKeywordsAllowed),
	)
	return record, nil
}

func (s *Service) Delete(ctx context.Context, threshold int64) error {
	if threshold <= 0 {
		return domain.ErrInvalidThreshold
	}
	deleted, err := s.repo.Delete(ctx, s.db, threshold)
	if err != nil {
		return err
	}
	if deleted == 0 {
		return domain.ErrNotFound
	}
	s.log.Info("milestone deleted", zap.Int64("target_user_count", threshold))
	return nil
}
