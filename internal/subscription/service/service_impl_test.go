package service

import (
	"context"
	"errors"
	"testing"

	"github.com/bwmarrin/snowflake"
	"github.com/golang/mock/gomock"
	"github.com/smallbiznis/gardenwatch/internal/subscription/domain"
	"github.com/smallbiznis/gardenwatch/internal/subscription/mocks"
	"github.com/smallbiznis/gardenwatch/internal/subscription/repository"
	dbpkg "github.com/smallbiznis/gardenwatch/pkg/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type staticLimit struct {
	limit int
	err   error
	calls int
}

func (s *staticLimit) EffectiveLimit(ctx context.Context) (int, error) {
	s.calls++
	return s.limit, s.err
}

func newMockService(t *testing.T, limit int) (*Service, *mocks.MockRepository, *staticLimit) {
	t.Helper()
	ctrl := gomock.NewController(t)
	repo := mocks.NewMockRepository(ctrl)
	limits := &staticLimit{limit: limit}
	svc := New(Params{Log: zap.NewNop(), Repo: repo, Limits: limits}).(*Service)
	return svc, repo, limits
}

func ids(values ...int64) []snowflake.ID {
	out := make([]snowflake.ID, 0, len(values))
	for _, v := range values {
		out = append(out, snowflake.ID(v))
	}
	return out
}

func TestSaveLimitExceededWritesNothing(t *testing.T) {
	svc, repo, _ := newMockService(t, 5)
	repo.EXPECT().ListKeywordIDs(gomock.Any(), gomock.Any(), snowflake.ID(1)).Return(ids(1, 2), nil)

	_, err := svc.Save(context.Background(), 1, ids(1, 2, 3, 4, 5, 6))
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrLimitExceeded))

	var limitErr *domain.LimitExceededError
	require.True(t, errors.As(err, &limitErr))
	assert.Equal(t, 5, limitErr.Limit)
	assert.Equal(t, 6, limitErr.Requested)
}

func TestSaveAddsThenRemoves(t *testing.T) {
	svc, repo, limits := newMockService(t, 5)
	gomock.InOrder(
		repo.EXPECT().ListKeywordIDs(gomock.Any(), gomock.Any(), snowflake.ID(7)).Return(ids(10, 11), nil),
		repo.EXPECT().Add(gomock.Any(), gomock.Any(), snowflake.ID(7), ids(12)).Return(int64(1), nil),
		repo.EXPECT().Remove(gomock.Any(), gomock.Any(), snowflake.ID(7), ids(11)).Return(int64(1), nil),
	)

	res, err := svc.Save(context.Background(), 7, ids(12, 10))
	require.NoError(t, err)
	assert.Equal(t, ids(12), res.Added)
	assert.Equal(t, ids(11), res.Removed)
	assert.Equal(t, ids(10, 12), res.Current)
	assert.Equal(t, 5, res.Limit)
	assert.True(t, res.Changed())
	assert.Equal(t, 1, limits.calls)
}

func TestSaveUnchangedSkipsWrites(t *testing.T) {
	svc, repo, _ := newMockService(t, 5)
	repo.EXPECT().ListKeywordIDs(gomock.Any(), gomock.Any(), snowflake.ID(3)).Return(ids(1, 2), nil)

	res, err := svc.Save(context.Background(), 3, ids(2, 1, 2))
	require.NoError(t, err)
	assert.False(t, res.Changed())
}

func TestSaveRemoveFailureIsPartial(t *testing.T) {
	svc, repo, _ := newMockService(t, 5)
	cause := errors.New("connection reset")
	repo.EXPECT().ListKeywordIDs(gomock.Any(), gomock.Any(), snowflake.ID(4)).Return(ids(1), nil)
	repo.EXPECT().Add(gomock.Any(), gomock.Any(), snowflake.ID(4), ids(2)).Return(int64(1), nil)
	repo.EXPECT().Remove(gomock.Any(), gomock.Any(), snowflake.ID(4), ids(1)).Return(int64(0), cause)

	_, err := svc.Save(context.Background(), 4, ids(2))
	var partial *domain.PartialSaveError
	require.True(t, errors.As(err, &partial))
	assert.Equal(t, ids(2), partial.Added)
	assert.True(t, errors.Is(err, cause))
}

func TestSaveAddFailureSkipsRemove(t *testing.T) {
	svc, repo, _ := newMockService(t, 5)
	cause := errors.New("disk full")
	repo.EXPECT().ListKeywordIDs(gomock.Any(), gomock.Any(), snowflake.ID(4)).Return(ids(1), nil)
	repo.EXPECT().Add(gomock.Any(), gomock.Any(), snowflake.ID(4), ids(2)).Return(int64(0), cause)

	_, err := svc.Save(context.Background(), 4, ids(2))
	require.Error(t, err)
	assert.True(t, errors.Is(err, cause))

	var partial *domain.PartialSaveError
	assert.False(t, errors.As(err, &partial))
}

func TestSaveLimitReadFailureAborts(t *testing.T) {
	svc, _, limits := newMockService(t, 5)
	limits.err = errors.New("db down")

	_, err := svc.Save(context.Background(), 4, ids(2))
	assert.Error(t, err)
}

func TestSaveRejectsZeroUser(t *testing.T) {
	svc, _, _ := newMockService(t, 5)
	_, err := svc.Save(context.Background(), 0, ids(2))
	assert.ErrorIs(t, err, domain.ErrInvalidUser)
}

func newSQLiteService(t *testing.T, limit int) (*Service, *gorm.DB) {
	t.Helper()
	db, err := dbpkg.NewTest()
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&domain.Subscription{}))

	svc := New(Params{
		DB:     db,
		Log:    zap.NewNop(),
		Repo:   repository.Provide(),
		Limits: &staticLimit{limit: limit},
	}).(*Service)
	return svc, db
}

func TestSaveRoundTripOnSQLite(t *testing.T) {
	svc, db := newSQLiteService(t, 3)
	ctx := context.Background()

	_, err := svc.Save(ctx, 1, ids(100, 101))
	require.NoError(t, err)
	_, err = svc.Save(ctx, 2, ids(101))
	require.NoError(t, err)

	current, err := svc.Current(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, ids(100, 101), current)

	_, err = svc.Save(ctx, 1, ids(101, 102, 103))
	require.NoError(t, err)
	current, err = svc.Current(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, ids(101, 102, 103), current)

	active, err := repository.Provide().CountActiveUsers(ctx, db)
	require.NoError(t, err)
	assert.Equal(t, int64(2), active)

	_, err = svc.Save(ctx, 1, ids(1, 2, 3, 4))
	assert.ErrorIs(t, err, domain.ErrLimitExceeded)
	current, err = svc.Current(ctx, 1)
	require.NoError(t, err)
	assert.Len(t, current, 3)

	_, err = svc.Save(ctx, 2, nil)
	require.NoError(t, err)
	active, err = repository.Provide().CountActiveUsers(ctx, db)
	require.NoError(t, err)
	assert.Equal(t, int64(1), active)
}

func TestAddIgnoresExistingPairs(t *testing.T) {
	_, db := newSQLiteService(t, 5)
	repo := repository.Provide()
	ctx := context.Background()

	_, err := repo.Add(ctx, db, 1, ids(5, 6))
	require.NoError(t, err)
	_, err = repo.Add(ctx, db, 1, ids(6, 7))
	require.NoError(t, err)

	current, err := repo.ListKeywordIDs(ctx, db, 1)
	require.NoError(t, err)
	assert.Equal(t, ids(5, 6, 7), current)
}
