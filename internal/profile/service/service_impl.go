package service

import (
	"context"
	"fmt"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/gardenwatch/internal/clock"
	"github.com/smallbiznis/gardenwatch/internal/profile/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB    *gorm.DB
	Log   *zap.Logger
	Repo  domain.Repository
	Clock clock.Clock
}

type Service struct {
	db    *gorm.DB
	log   *zap.Logger
	repo  domain.Repository
	clock clock.Clock
}

func New(p Params) domain.Service {
	return &Service{
		db:    p.DB,
		log:   p.Log.Named("profile.service"),
		repo:  p.Repo,
		clock: p.Clock,
	}
}

func (s *Service) Get(ctx context.Context, userID snowflake.ID) (*domain.Profile, error) {
	if userID == 0 {
		return nil, domain.ErrInvalidUser
	}
	profile, err := s.repo.FindByUserID(ctx, s.db, userID)
	if err != nil {
		return nil, fmt.Errorf("load profile: %w", err)
	}
	if profile == nil {
		return &domain.Profile{UserID: userID}, nil
	}
	return profile, nil
}

func (s *Service) SetNotificationID(ctx context.Context, userID snowflake.ID, raw string) (*domain.Profile, error) {
	if userID == 0 {
		return nil, domain.ErrInvalidUser
	}
	id, err := domain.ParseNotificationID(raw)
	if err != nil {
		return nil, err
	}

	profile := &domain.Profile{
		UserID:         userID,
		TelegramUserID: &id,
		UpdatedAt:      s.clock.Now().Truncate(time.Microsecond),
	}
	if err := s.repo.Upsert(ctx, s.db, profile); err != nil {
		return nil, fmt.Errorf("save profile: %w", err)
	}

	s.log.Info("notification id updated", zap.String("user_id", userID.String()))
	return profile, nil
}
