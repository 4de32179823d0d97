package service

import (
	"context"
	"testing"
	"time"

	"github.com/smallbiznis/gardenwatch/internal/clock"
	"github.com/smallbiznis/gardenwatch/internal/profile/domain"
	"github.com/smallbiznis/gardenwatch/internal/profile/repository"
	dbpkg "github.com/smallbiznis/gardenwatch/pkg/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestService(t *testing.T) *Service {
	t.Helper()
	db, err := dbpkg.NewTest()
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&domain.Profile{}))

	return New(Params{
		DB:    db,
		Log:   zap.NewNop(),
		Repo:  repository.Provide(),
		Clock: clock.NewFakeClock(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)),
	}).(*Service)
}

func TestGetMissingProfileIsEmpty(t *testing.T) {
	svc := newTestService(t)
	p, err := svc.Get(context.Background(), 9)
	require.NoError(t, err)
	assert.False(t, p.HasNotificationID())
}

func TestSetNotificationIDUpserts(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	_, err := svc.SetNotificationID(ctx, 9, " 1234 ")
	require.NoError(t, err)
	_, err = svc.SetNotificationID(ctx, 9, "5678")
	require.NoError(t, err)

	p, err := svc.Get(ctx, 9)
	require.NoError(t, err)
	assert.Equal(t, "5678", p.NotificationID())
}

func TestSetNotificationIDRejectsNonNumeric(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	_, err := svc.SetNotificationID(ctx, 9, "1234")
	require.NoError(t, err)

	_, err = svc.SetNotificationID(ctx, 9, "@grower")
	assert.ErrorIs(t, err, domain.ErrInvalidNotificationID)

	p, err := svc.Get(ctx, 9)
	require.NoError(t, err)
	assert.Equal(t, "1234", p.NotificationID())
}
