package seed

import (
	"context"
	"testing"

	authdomain "github.com/smallbiznis/gardenwatch/internal/auth/domain"
	"github.com/smallbiznis/gardenwatch/internal/config"
	keyworddomain "github.com/smallbiznis/gardenwatch/internal/keyword/domain"
	milestonedomain "github.com/smallbiznis/gardenwatch/internal/milestone/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeKeywords struct {
	keyworddomain.Service
	items   []keyworddomain.Keyword
	created []string
}

func (f *fakeKeywords) List(ctx context.Context) ([]keyworddomain.Keyword, error) {
	return f.items, nil
}

func (f *fakeKeywords) Create(ctx context.Context, req keyworddomain.CreateRequest) (*keyworddomain.Keyword, error) {
	f.created = append(f.created, req.Name)
	return &keyworddomain.Keyword{Name: req.Name}, nil
}

type fakeMilestones struct {
	milestonedomain.Service
	items    []milestonedomain.Milestone
	upserted []milestonedomain.UpsertRequest
}

func (f *fakeMilestones) List(ctx context.Context) ([]milestonedomain.Milestone, error) {
	return f.items, nil
}

func (f *fakeMilestones) Upsert(ctx context.Context, req milestonedomain.UpsertRequest) (*milestonedomain.Milestone, error) {
	f.upserted = append(f.upserted, req)
	return &milestonedomain.Milestone{TargetUserCount: req.TargetUserCount, MaxKeywordsAllowed: req.MaxKeywordsAllowed}, nil
}

type fakeAuth struct {
	authdomain.Service
	admins []string
}

func (f *fakeAuth) EnsureAdmin(ctx context.Context, email, password string) (*authdomain.User, error) {
	f.admins = append(f.admins, email)
	return &authdomain.User{Email: email, Role: authdomain.RoleAdmin}, nil
}

func newSeeder(bootstrap config.BootstrapConfig, kw *fakeKeywords, ms *fakeMilestones, auth *fakeAuth) *Seeder {
	return New(Params{
		Log:        zap.NewNop(),
		Cfg:        config.Config{Bootstrap: bootstrap},
		Auth:       auth,
		Keywords:   kw,
		Milestones: ms,
	})
}

func TestRunSeedsEmptyTables(t *testing.T) {
	kw, ms, auth := &fakeKeywords{}, &fakeMilestones{}, &fakeAuth{}
	s := newSeeder(config.BootstrapConfig{
		SeedCatalog:    true,
		SeedMilestones: true,
		AdminEmail:     "root@example.com",
		AdminPassword:  "long-enough",
	}, kw, ms, auth)

	require.NoError(t, s.Run(context.Background()))
	assert.Equal(t, DefaultCatalog, kw.created)
	assert.Equal(t, DefaultMilestones, ms.upserted)
	assert.Equal(t, []string{"root@example.com"}, auth.admins)
}

func TestRunLeavesExistingRows(t *testing.T) {
	kw := &fakeKeywords{items: []keyworddomain.Keyword{{Name: "Carrot"}}}
	ms := &fakeMilestones{items: []milestonedomain.Milestone{{TargetUserCount: 3, MaxKeywordsAllowed: 6}}}
	auth := &fakeAuth{}
	s := newSeeder(config.BootstrapConfig{SeedCatalog: true, SeedMilestones: true}, kw, ms, auth)

	require.NoError(t, s.Run(context.Background()))
	assert.Empty(t, kw.created)
	assert.Empty(t, ms.upserted)
	assert.Empty(t, auth.admins)
}

func TestRunHonoursFlags(t *testing.T) {
	kw, ms, auth := &fakeKeywords{}, &fakeMilestones{}, &fakeAuth{}
	s := newSeeder(config.BootstrapConfig{}, kw, ms, auth)

	require.NoError(t, s.Run(context.Background()))
	assert.Empty(t, kw.created)
	assert.Empty(t, ms.upserted)
}

func TestDefaultMilestonesAscend(t *testing.T) {
	for i := 1; i < len(DefaultMilestones); i++ {
		prev, cur := DefaultMilestones[i-1], DefaultMilestones[i]
		assert.Greater(t, cur.TargetUserCount, prev.TargetUserCount)
		assert.Greater(t, cur.MaxKeywordsAllowed, prev.MaxKeywordsAllowed)
	}
}
