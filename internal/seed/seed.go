package seed

import (
	"context"
	"errors"
	"fmt"

	authdomain "github.com/smallbiznis/gardenwatch/internal/auth/domain"
	"github.com/smallbiznis/gardenwatch/internal/config"
	keyworddomain "github.com/smallbiznis/gardenwatch/internal/keyword/domain"
	milestonedomain "github.com/smallbiznis/gardenwatch/internal/milestone/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// DefaultCatalog is the initial set of monitorable items.
var DefaultCatalog = []string{
	"Carrot",
	"Strawberry",
	"Blueberry",
	"Tomato",
	"Corn",
	"Watermelon",
	"Pumpkin",
	"Apple",
	"Bamboo",
	"Coconut",
	"Cactus",
	"Dragon Fruit",
	"Mango",
	"Grape",
	"Mushroom",
	"Pepper",
	"Cacao",
	"Beanstalk",
	"Basic Sprinkler",
	"Advanced Sprinkler",
	"Godly Sprinkler",
	"Master Sprinkler",
	"Lightning Rod",
	"Watering Can",
}

// DefaultMilestones raise the keyword limit as the community grows.
var DefaultMilestones = []milestonedomain.UpsertRequest{
	{TargetUserCount: 10, MaxKeywordsAllowed: 10},
	{TargetUserCount: 25, MaxKeywordsAllowed: 15},
	{TargetUserCount: 50, MaxKeywordsAllowed: 25},
}

type Params struct {
	fx.In

	Log        *zap.Logger
	Cfg        config.Config
	Auth       authdomain.Service
	Keywords   keyworddomain.Service
	Milestones milestonedomain.Service
}

type Seeder struct {
	log        *zap.Logger
	cfg        config.BootstrapConfig
	auth       authdomain.Service
	keywords   keyworddomain.Service
	milestones milestonedomain.Service
}

func New(p Params) *Seeder {
	return &Seeder{
		log:        p.Log.Named("seed"),
		cfg:        p.Cfg.Bootstrap,
		auth:       p.Auth,
		keywords:   p.Keywords,
		milestones: p.Milestones,
	}
}

// Run inserts defaults into empty tables and ensures the bootstrap admin.
// Existing rows are never modified.
func (s *Seeder) Run(ctx context.Context) error {
	if s.cfg.SeedCatalog {
		if err := s.EnsureCatalog(ctx); err != nil {
			return err
		}
	}
	if s.cfg.SeedMilestones {
		if err := s.EnsureMilestones(ctx); err != nil {
			return err
		}
	}
	if s.cfg.AdminEmail != "" {
		if _, err := s.auth.EnsureAdmin(ctx, s.cfg.AdminEmail, s.cfg.AdminPassword); err != nil {
			return fmt.Errorf("ensure admin: %w", err)
		}
	}
	return nil
}

func (s *Seeder) EnsureCatalog(ctx context.Context) error {
	existing, err := s.keywords.List(ctx)
	if err != nil {
		return err
	}
	if len(existing) > 0 {
		return nil
	}

	for _, name := range DefaultCatalog {
		_, err := s.keywords.Create(ctx, keyworddomain.CreateRequest{Name: name})
		if err != nil && !errors.Is(err, keyworddomain.ErrDuplicateKeyword) {
			return fmt.Errorf("seed keyword %q: %w", name, err)
		}
	}
	s.log.Info("keyword catalog seeded", zap.Int("count", len(DefaultCatalog)))
	return nil
}

func (s *Seeder) EnsureMilestones(ctx context.Context) error {
	existing, err := s.milestones.List(ctx)
	if err != nil {
		return err
	}
	if len(existing) > 0 {
		return nil
	}

	for _, m := range DefaultMilestones {
		if _, err := s.milestones.Upsert(ctx, m); err != nil {
			return fmt.Errorf("seed milestone %d: %w", m.TargetUserCount, err)
		}
	}
	s.log.Info("community milestones seeded", zap.Int("count", len(DefaultMilestones)))
	return nil
}
