package badge

import (
	"errors"
	"testing"

	"github.com/questx-lab/signal/internal/repository"
	"github.com/questx-lab/signal/pkg/errorx"
	"github.com/questx-lab/signal/pkg/testutil"
	"github.com/stretchr/testify/require"
)

func TestRegistry_Award(t *testing.T) {
	ctx := testutil.MockContext()
	testutil.CreateFixtureDb(ctx)

	userBadgeRepo := repository.NewUserBadgeRepository()
	registry := NewRegistry(repository.NewBadgeRepository(), userBadgeRepo)

	badge, awarded, err := registry.Award(ctx, testutil.User1ID, testutil.BadgeTelegramID)
	require.NoError(t, err)
	require.True(t, awarded)
	require.Equal(t, "Telegram Join Master", badge.Name)

	badge, awarded, err = registry.Award(ctx, testutil.User1ID, testutil.BadgeTelegramID)
	require.NoError(t, err)
	require.False(t, awarded)
	require.Equal(t, testutil.BadgeTelegramID, badge.BadgeID)

	links, err := userBadgeRepo.GetByUserID(ctx, testutil.User1ID)
	require.NoError(t, err)
	require.Len(t, links, 1)
}

func TestRegistry_AwardUnknown(t *testing.T) {
	ctx := testutil.MockContext()
	testutil.CreateFixtureDb(ctx)

	registry := NewRegistry(repository.NewBadgeRepository(), repository.NewUserBadgeRepository())
	_, awarded, err := registry.Award(ctx, testutil.User1ID, "unknown")
	require.False(t, awarded)
	require.True(t, errors.Is(err, errorx.New(errorx.NotFound, "")))
}
