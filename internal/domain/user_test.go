package domain

import (
	"database/sql"
	"fmt"
	"regexp"
	"testing"
	"time"

	"github.com/questx-lab/signal/internal/entity"
	"github.com/questx-lab/signal/internal/model"
	"github.com/questx-lab/signal/pkg/errorx"
	"github.com/questx-lab/signal/pkg/testutil"
	"github.com/questx-lab/signal/pkg/xcontext"
	"github.com/stretchr/testify/require"
)

func TestUserRegistry_GrantXP(t *testing.T) {
	ctx, s := newSuite(t)

	require.NoError(t, s.userRegistry.GrantXP(ctx, testutil.User1ID, 0))
	require.NoError(t, s.userRegistry.GrantXP(ctx, testutil.User1ID, -5))
	user := requireXP(t, ctx, s, testutil.User1ID, 0)
	require.Equal(t, "Observer", user.Rank)

	require.NoError(t, s.userRegistry.GrantXP(ctx, testutil.User1ID, 300))
	user = requireXP(t, ctx, s, testutil.User1ID, 300)
	require.Equal(t, "Ally", user.Rank)
	require.Equal(t, 50.0, user.RankProgressPercent)
	require.Equal(t, "Field Agent", user.NextRank)
	require.Equal(t, "https://placehold.co/64x64/555/FFF?text=ALY", user.RankBadgeURL)

	require.Error(t, s.userRegistry.GrantXP(ctx, "ghost", 10))
}

func TestUserDomain_GetMe(t *testing.T) {
	ctx, s := newSuite(t)

	resp, err := s.user.GetMe(xcontext.WithRequestUserID(ctx, testutil.User1ID), &model.GetMeRequest{})
	require.NoError(t, err)
	require.Equal(t, testutil.User1Wallet, resp.WalletAddress)
	require.Equal(t, "Nova1", resp.Username)
	require.Equal(t, "Optimal", resp.SystemStatus.SignalStatus)
	require.Regexp(t, regexp.MustCompile(`^\d{4}\.\d{3}\.\d{4}$`), resp.SystemStatus.StarDate)
	require.GreaterOrEqual(t, resp.SystemStatus.NetworkLoadPercent, 20.0)
	require.LessOrEqual(t, resp.SystemStatus.NetworkLoadPercent, 60.0)

	_, err = s.user.GetMe(xcontext.WithRequestUserID(ctx, "ghost"), &model.GetMeRequest{})
	require.ErrorIs(t, err, errorx.New(errorx.NotFound, ""))
}

func TestUserDomain_UpdateProfile(t *testing.T) {
	ctx, s := newSuite(t)
	ctx = xcontext.WithRequestUserID(ctx, testutil.User1ID)

	testCases := []struct {
		name    string
		req     *model.UpdateProfileRequest
		wantErr error
	}{
		{
			name:    "username too short",
			req:     &model.UpdateProfileRequest{Username: "ab"},
			wantErr: errorx.New(errorx.BadRequest, ""),
		},
		{
			name:    "username of another user",
			req:     &model.UpdateProfileRequest{Username: "orion2"},
			wantErr: errorx.New(errorx.AlreadyExists, ""),
		},
		{
			name:    "invalid email",
			req:     &model.UpdateProfileRequest{Email: "not-an-email"},
			wantErr: errorx.New(errorx.BadRequest, ""),
		},
	}

	for _, tt := range testCases {
		t.Run(tt.name, func(t *testing.T) {
			_, err := s.user.UpdateProfile(ctx, tt.req)
			require.ErrorIs(t, err, tt.wantErr)
		})
	}

	// Renaming to the own username with another case is allowed.
	resp, err := s.user.UpdateProfile(ctx, &model.UpdateProfileRequest{
		Username:      "NOVA1",
		Email:         "nova@signal.test",
		CommanderName: "Commander Nova",
	})
	require.NoError(t, err)
	require.Equal(t, "NOVA1", resp.Username)
	require.Equal(t, "nova@signal.test", resp.Email)
	require.Equal(t, "Commander Nova", resp.Profile.CommanderName)

	_, err = s.user.UpdateProfile(
		xcontext.WithRequestUserID(ctx, testutil.User2ID),
		&model.UpdateProfileRequest{Email: "nova@signal.test"},
	)
	require.ErrorIs(t, err, errorx.New(errorx.AlreadyExists, ""))

	// Empty fields are left untouched.
	resp, err = s.user.UpdateProfile(ctx, &model.UpdateProfileRequest{})
	require.NoError(t, err)
	require.Equal(t, "NOVA1", resp.Username)
	require.Equal(t, "Commander Nova", resp.Profile.CommanderName)
}

func TestUserDomain_ListAllies(t *testing.T) {
	ctx, s := newSuite(t)
	ctx = xcontext.WithRequestUserID(ctx, testutil.User1ID)

	base := time.Date(2024, time.March, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 3; i++ {
		ally := &entity.User{
			Base:          entity.Base{ID: fmt.Sprintf("ally%d", i), CreatedAt: base.Add(time.Duration(i) * time.Hour)},
			WalletAddress: fmt.Sprintf("0x%040d", i+10),
			Username:      fmt.Sprintf("Ally%d", i),
			ReferralCode:  fmt.Sprintf("CGRALLY%d", i),
			Rank:          "Observer",
			ReferredBy:    sql.NullString{Valid: true, String: testutil.User1ID},
			IsActive:      true,
		}
		require.NoError(t, s.userRepo.Create(ctx, ally))
		require.NoError(t, s.userRepo.IncreaseAlliesCount(ctx, testutil.User1ID))
	}

	resp, err := s.user.ListAllies(ctx, &model.ListAlliesRequest{Page: 1, Limit: 2})
	require.NoError(t, err)
	require.Equal(t, int64(3), resp.TotalAllies)
	require.Equal(t, 2, resp.TotalPages)
	require.Len(t, resp.Allies, 2)
	require.Equal(t, "ally2", resp.Allies[0].ID)
	require.Equal(t, "ally1", resp.Allies[1].ID)

	resp, err = s.user.ListAllies(ctx, &model.ListAlliesRequest{Page: 2, Limit: 2})
	require.NoError(t, err)
	require.Len(t, resp.Allies, 1)
	require.Equal(t, "ally0", resp.Allies[0].ID)

	resp, err = s.user.ListAllies(ctx, &model.ListAlliesRequest{})
	require.NoError(t, err)
	require.Equal(t, 1, resp.Page)
	require.Equal(t, 10, resp.Limit)
	require.Equal(t, 1, resp.TotalPages)
	require.Len(t, resp.Allies, 3)

	resp, err = s.user.ListAllies(ctx, &model.ListAlliesRequest{Page: 1, Limit: 1000})
	require.NoError(t, err)
	require.Equal(t, 100, resp.Limit)

	// Users without allies get an empty page.
	resp, err = s.user.ListAllies(xcontext.WithRequestUserID(ctx, testutil.User2ID), &model.ListAlliesRequest{})
	require.NoError(t, err)
	require.Empty(t, resp.Allies)
	require.Equal(t, 0, resp.TotalPages)
}
