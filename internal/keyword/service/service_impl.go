package service

import (
	"context"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/bwmarrin/snowflake"
	"github.com/gosimple/slug"
	"github.com/smallbiznis/gardenwatch/internal/clock"
	"github.com/smallbiznis/gardenwatch/internal/keyword/domain"
	dbpkg "github.com/smallbiznis/gardenwatch/pkg/db"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB    *gorm.DB
	Log   *zap.Logger
	GenID *snowflake.Node
	Repo  domain.Repository
	Clock clock.Clock
}

type Service struct {
	db    *gorm.DB
	log   *zap.Logger
	repo  domain.Repository
	genID *snowflake.Node
	clock clock.Clock
}

func New(p Params) domain.Service {
	return &Service{
		db:    p.DB,
		log:   p.Log.Named("keyword.service"),
		repo:  p.Repo,
		genID: p.GenID,
		clock: p.Clock,
	}
}

func (s *Service) List(ctx context.Context) ([]domain.Keyword, error) {
	items, err := s.repo.List(ctx, s.db)
	if err != nil {
		return nil, fmt.Errorf("list keywords: %w", err)
	}
	return items, nil
}

func (s *Service) Resolve(ctx context.Context, ids []string) ([]domain.Keyword, error) {
	seen := make(map[snowflake.ID]struct{}, len(ids))
	parsed := make([]snowflake.ID, 0, len(ids))
	for _, raw := range ids {
		id, err := snowflake.ParseString(strings.TrimSpace(raw))
		if err != nil || id <= 0 {
			return nil, domain.ErrUnknownKeyword
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		parsed = append(parsed, id)
	}
	if len(parsed) == 0 {
		return []domain.Keyword{}, nil
	}

	items, err := s.repo.ListByIDs(ctx, s.db, parsed)
	if err != nil {
		return nil, fmt.Errorf("resolve keywords: %w", err)
	}
	if len(items) != len(parsed) {
		return nil, domain.ErrUnknownKeyword
	}
	return items, nil
}

func (s *Service) Create(ctx context.Context, req domain.CreateRequest) (*domain.Keyword, error) {
	name := strings.Join(strings.Fields(req.Name), " ")
	if name == "" || utf8.RuneCountInString(name) > domain.MaxNameLength {
		return nil, domain.ErrInvalidName
	}
	keywordSlug := slug.Make(name)
	if keywordSlug == "" {
		return nil, domain.ErrInvalidName
	}

	existing, err := s.repo.FindBySlug(ctx, s.db, keywordSlug)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrDuplicateKeyword
	}

	record := &domain.Keyword{
		ID:        s.genID.Generate(),
		Name:      name,
		Slug:      keywordSlug,
		CreatedAt: s.clock.Now().Truncate(time.Microsecond),
	}
	if err := s.repo.Create(ctx, s.db, record); err != nil {
		if dbpkg.IsDuplicateKeyErr(err) {
			return nil, domain.ErrDuplicateKeyword
		}
		return nil, err
	}

	s.log.Info("keyword created", zap.String("keyword_id", record.ID.String()), zap.String("slug", keywordSlug))
	return record, nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	keywordID, err := snowflake.ParseString(strings.TrimSpace(id))
	if err != nil || keywordID <= 0 {
		return domain.ErrInvalidID
	}
	deleted, err := s.repo.Delete(ctx, s.db, keywordID)
	if err != nil {
		return err
	}
	if deleted == 0 {
		return domain.ErrNotFound
	}
	s.log.Info("keyword deleted", zap.String("keyword_id", keywordID.String()))
	return nil
}
