package domain

import (
	"context"
	"testing"

	"github.com/questx-lab/signal/internal/domain/badge"
	"github.com/questx-lab/signal/internal/domain/identity"
	"github.com/questx-lab/signal/internal/domain/missionclaim"
	"github.com/questx-lab/signal/internal/domain/nonce"
	"github.com/questx-lab/signal/internal/domain/rank"
	"github.com/questx-lab/signal/internal/repository"
	"github.com/questx-lab/signal/pkg/testutil"
	"github.com/questx-lab/signal/pkg/xcontext"
	"github.com/stretchr/testify/require"
)

type suite struct {
	redisClient *testutil.MockRedisClient
	xOAuth2     *testutil.MockOAuth2

	userRepo        repository.UserRepository
	userMissionRepo repository.UserMissionRepository
	userBadgeRepo   repository.UserBadgeRepository

	userRegistry *UserRegistry

	auth    *authDomain
	user    UserDomain
	mission MissionDomain
	badge   BadgeDomain
}

// newSuite returns a context with the fixture database and every domain
// wired to it.
func newSuite(t *testing.T) (context.Context, *suite) {
	ctx := testutil.MockContext()
	testutil.CreateFixtureDb(ctx)

	rankTable, err := rank.NewTable(xcontext.Configs(ctx).Rank.Tiers)
	require.NoError(t, err)

	s := &suite{
		redisClient:     testutil.NewMockRedisClient(),
		xOAuth2:         testutil.NewMockOAuth2("x"),
		userRepo:        repository.NewUserRepository(),
		userMissionRepo: repository.NewUserMissionRepository(),
		userBadgeRepo:   repository.NewUserBadgeRepository(),
	}

	badgeRepo := repository.NewBadgeRepository()
	s.userRegistry = NewUserRegistry(s.userRepo, rankTable)
	s.user = NewUserDomain(s.userRepo, s.userRegistry)
	s.badge = NewBadgeDomain(badgeRepo, s.userBadgeRepo)
	s.mission = NewMissionDomain(
		s.userRepo,
		repository.NewMissionRepository(),
		s.userMissionRepo,
		badgeRepo,
		s.userRegistry,
		badge.NewRegistry(badgeRepo, s.userBadgeRepo),
		missionclaim.NewRegistry(),
	)
	s.auth = NewAuthDomain(
		s.userRepo,
		nonce.NewStore(s.redisClient),
		identity.NewGenerator(identity.OptionsFromConfig(xcontext.Configs(ctx).Identity), s.userRepo),
		s.userRegistry,
		s.mission,
		s.xOAuth2,
		s.redisClient,
	).(*authDomain)

	return ctx, s
}
