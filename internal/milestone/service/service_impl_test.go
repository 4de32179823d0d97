package service

import (
	"context"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/gardenwatch/internal/clock"
	"github.com/smallbiznis/gardenwatch/internal/config"
	"github.com/smallbiznis/gardenwatch/internal/milestone/domain"
	"github.com/smallbiznis/gardenwatch/internal/milestone/repository"
	dbpkg "github.com/smallbiznis/gardenwatch/pkg/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type fakeCounter struct {
	active int64
}

func (f *fakeCounter) CountActiveUsers(ctx context.Context, db *gorm.DB) (int64, error) {
	return f.active, nil
}

func newTestService(t *testing.T) (*Service, *fakeCounter) {
	t.Helper()
	db, err := dbpkg.NewTest()
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&domain.Milestone{}))

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	counter := &fakeCounter{}
	svc := New(Params{
		DB:      db,
		Log:     zap.NewNop(),
		Cfg:     config.Config{PublicURL: "https://garden.example"},
		Policy:  config.NewStaticPolicyHolder(config.DefaultPolicy()),
		GenID:   node,
		Clock:   clock.NewFakeClock(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)),
		Repo:    repository.Provide(),
		Counter: counter,
	}).(*Service)
	return svc, counter
}

func TestEffectiveLimitFollowsActiveUsers(t *testing.T) {
	svc, counter := newTestService(t)
	ctx := context.Background()

	_, err := svc.Upsert(ctx, domain.UpsertRequest{TargetUserCount: 10, MaxKeywordsAllowed: 10})
	require.NoError(t, err)
	_, err = svc.Upsert(ctx, domain.UpsertRequest{TargetUserCount: 25, MaxKeywordsAllowed: 15})
	require.NoError(t, err)

	counter.active = 7
	limit, err := svc.EffectiveLimit(ctx)
	require.NoError(t, err)
	assert.Equal(t, 5, limit)

	counter.active = 12
	limit, err = svc.EffectiveLimit(ctx)
	require.NoError(t, err)
	assert.Equal(t, 10, limit)

	counter.active = 40
	progress, err := svc.Progress(ctx)
	require.NoError(t, err)
	assert.Equal(t, 15, progress.EffectiveLimit)
	assert.Equal(t, "https://garden.example", progress.ShareLink)
	require.Len(t, progress.Statuses, 2)
}

func TestUpsertUpdatesExistingThreshold(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	first, err := svc.Upsert(ctx, domain.UpsertRequest{TargetUserCount: 10, MaxKeywordsAllowed: 8})
	require.NoError(t, err)
	second, err := svc.Upsert(ctx, domain.UpsertRequest{TargetUserCount: 10, MaxKeywordsAllowed: 12})
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, 12, second.MaxKeywordsAllowed)

	items, err := svc.List(ctx)
	require.NoError(t, err)
	assert.Len(t, items, 1)
}

func TestUpsertValidates(t *testing.T) {
	svc, _ := newTestService(t)
	_, err := svc.Upsert(context.Background(), domain.UpsertRequest{TargetUserCount: 0, MaxKeywordsAllowed: 8})
	assert.ErrorIs(t, err, domain.ErrInvalidThreshold)
	_, err = svc.Upsert(context.Background(), domain.UpsertRequest{TargetUserCount: 3, MaxKeywordsAllowed: 0})
	assert.ErrorIs(t, err, domain.ErrInvalidLimit)
}

func TestUpsertRejectsLimitBelowBase(t *testing.T) {
	svc, counter := newTestService(t)
	ctx := context.Background()

	_, err := svc.Upsert(ctx, domain.UpsertRequest{TargetUserCount: 1, MaxKeywordsAllowed: 3})
	assert.ErrorIs(t, err, domain.ErrInvalidLimit)

	_, err = svc.Upsert(ctx, domain.UpsertRequest{TargetUserCount: 1, MaxKeywordsAllowed: 5})
	require.NoError(t, err)

	counter.active = 2
	limit, err := svc.EffectiveLimit(ctx)
	require.NoError(t, err)
	assert.Equal(t, 5, limit)
}

func TestDelete(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.Upsert(ctx, domain.UpsertRequest{TargetUserCount: 10, MaxKeywordsAllowed: 8})
	require.NoError(t, err)
	require.NoError(t, svc.Delete(ctx, 10))
	assert.ErrorIs(t, svc.Delete(ctx, 10), domain.ErrNotFound)
}
