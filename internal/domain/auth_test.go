package domain

import (
	"context"
	"crypto/ecdsa"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	ethcrypto "github.com/ethereum/go-ethereum/crypto"
	"github.com/questx-lab/signal/internal/entity"
	"github.com/questx-lab/signal/internal/model"
	"github.com/questx-lab/signal/pkg/authenticator"
	"github.com/questx-lab/signal/pkg/errorx"
	"github.com/questx-lab/signal/pkg/ethutil"
	"github.com/questx-lab/signal/pkg/testutil"
	"github.com/questx-lab/signal/pkg/xcontext"
	"github.com/stretchr/testify/require"
)

func newWallet(t *testing.T) (*ecdsa.PrivateKey, string) {
	key, err := ethcrypto.GenerateKey()
	require.NoError(t, err)
	return key, strings.ToLower(ethcrypto.PubkeyToAddress(key.PublicKey).Hex())
}

func signChallenge(
	t *testing.T, ctx context.Context, s *suite, key *ecdsa.PrivateKey, address string,
) *model.ConnectRequest {
	challenge, err := s.auth.RequestChallenge(ctx, &model.GetChallengeRequest{WalletAddress: address})
	require.NoError(t, err)

	signature, err := ethutil.SignMessage(key, challenge.MessageToSign)
	require.NoError(t, err)

	return &model.ConnectRequest{
		WalletAddress: address,
		Message:       challenge.MessageToSign,
		Signature:     signature,
		Nonce:         challenge.Nonce,
	}
}

func TestAuthDomain_Connect(t *testing.T) {
	ctx, s := newSuite(t)
	key, address := newWallet(t)

	req := signChallenge(t, ctx, s, key, address)
	req.ReferralCodeInput = strings.ToLower(testutil.User1Code)

	resp, err := s.auth.Connect(ctx, req)
	require.NoError(t, err)
	require.Equal(t, "bearer", resp.TokenType)
	require.Equal(t, address, resp.User.WalletAddress)
	require.Equal(t, "Observer", resp.User.Rank)
	require.Equal(t, uint64(0), resp.User.XP)
	require.NotEqual(t, testutil.User1Code, resp.User.ReferralCode)
	require.True(t, strings.HasPrefix(resp.User.ReferralCode, "CGR"))

	var accessToken model.AccessToken
	subject, err := xcontext.TokenEngine(ctx).Verify(resp.AccessToken, &accessToken)
	require.NoError(t, err)
	require.Equal(t, address, subject)
	require.Equal(t, resp.User.ID, accessToken.UserID)

	user, err := s.userRepo.GetByWalletAddress(ctx, address)
	require.NoError(t, err)
	require.Equal(t, testutil.User1ID, user.ReferredBy.String)
	require.True(t, user.LastLoginAt.Valid)

	referrer, err := s.userRepo.GetByID(ctx, testutil.User1ID)
	require.NoError(t, err)
	require.Equal(t, int64(1), referrer.AlliesCount)

	// The same wallet logs in again without creating another user.
	resp2, err := s.auth.Connect(ctx, signChallenge(t, ctx, s, key, address))
	require.NoError(t, err)
	require.Equal(t, resp.User.ID, resp2.User.ID)

	referrer, err = s.userRepo.GetByID(ctx, testutil.User1ID)
	require.NoError(t, err)
	require.Equal(t, int64(1), referrer.AlliesCount)
}

func TestAuthDomain_Connect_Replay(t *testing.T) {
	ctx, s := newSuite(t)
	key, address := newWallet(t)

	req := signChallenge(t, ctx, s, key, address)
	_, err := s.auth.Connect(ctx, req)
	require.NoError(t, err)

	_, err = s.auth.Connect(ctx, req)
	require.ErrorIs(t, err, errorx.New(errorx.Unauthenticated, ""))
}

func TestAuthDomain_Connect_SecondChallengeInvalidatesFirst(t *testing.T) {
	ctx, s := newSuite(t)
	key, address := newWallet(t)

	first := signChallenge(t, ctx, s, key, address)
	second := signChallenge(t, ctx, s, key, address)

	_, err := s.auth.Connect(ctx, first)
	require.ErrorIs(t, err, errorx.New(errorx.Unauthenticated, ""))

	// The failed attempt consumed the outstanding challenge as well.
	_, err = s.auth.Connect(ctx, second)
	require.ErrorIs(t, err, errorx.New(errorx.Unauthenticated, ""))

	_, err = s.auth.Connect(ctx, signChallenge(t, ctx, s, key, address))
	require.NoError(t, err)
}

func TestAuthDomain_Connect_InvalidSignature(t *testing.T) {
	ctx, s := newSuite(t)
	_, address := newWallet(t)
	otherKey, _ := newWallet(t)

	req := signChallenge(t, ctx, s, otherKey, address)
	_, err := s.auth.Connect(ctx, req)
	require.ErrorIs(t, err, errorx.New(errorx.Unauthenticated, ""))
	require.Equal(t, "Invalid signature", err.Error())

	_, err = s.userRepo.GetByWalletAddress(ctx, address)
	require.Error(t, err)
}

func TestAuthDomain_Connect_UnknownReferralCode(t *testing.T) {
	ctx, s := newSuite(t)
	key, address := newWallet(t)

	req := signChallenge(t, ctx, s, key, address)
	req.ReferralCodeInput = "NOSUCHCODE"

	_, err := s.auth.Connect(ctx, req)
	require.NoError(t, err)

	user, err := s.userRepo.GetByWalletAddress(ctx, address)
	require.NoError(t, err)
	require.False(t, user.ReferredBy.Valid)
}

func TestAuthDomain_Connect_SelfReferral(t *testing.T) {
	ctx, s := newSuite(t)
	key, address := newWallet(t)

	// A wallet can only hold a referral code once it has an account, so the
	// resolver is checked directly before logging in with the own code.
	self := &entity.User{
		Base:          entity.Base{ID: "self"},
		WalletAddress: address,
		Username:      "SelfRef",
		ReferralCode:  "CGRSELF01",
		IsActive:      true,
	}
	referrer, err := s.auth.resolveReferrer(ctx, address, "CGRSELF01")
	require.NoError(t, err)
	require.Nil(t, referrer)

	require.NoError(t, s.userRepo.Create(ctx, self))
	referrer, err = s.auth.resolveReferrer(ctx, address, "CGRSELF01")
	require.NoError(t, err)
	require.Nil(t, referrer)

	req := signChallenge(t, ctx, s, key, address)
	req.ReferralCodeInput = "CGRSELF01"
	resp, err := s.auth.Connect(ctx, req)
	require.NoError(t, err)
	require.Equal(t, "self", resp.User.ID)

	user, err := s.userRepo.GetByID(ctx, "self")
	require.NoError(t, err)
	require.Equal(t, int64(0), user.AlliesCount)
}

func TestAuthDomain_Connect_Inactive(t *testing.T) {
	ctx, s := newSuite(t)
	key, address := newWallet(t)

	resp, err := s.auth.Connect(ctx, signChallenge(t, ctx, s, key, address))
	require.NoError(t, err)
	require.NoError(t, s.userRepo.UpdateActive(ctx, resp.User.ID, false))

	_, err = s.auth.Connect(ctx, signChallenge(t, ctx, s, key, address))
	require.ErrorIs(t, err, errorx.New(errorx.Unauthenticated, ""))
	require.Equal(t, "Inactive account", err.Error())
}

func TestAuthDomain_Connect_Validation(t *testing.T) {
	ctx, s := newSuite(t)
	s.redisClient.GetObjFunc = func(ctx context.Context, key string, v any) error {
		t.Fatal("cache must not be touched")
		return nil
	}

	_, address := newWallet(t)
	validSignature := "0x" + strings.Repeat("a", 130)
	validNonce := strings.Repeat("a", 32)

	testCases := []struct {
		name string
		req  *model.ConnectRequest
	}{
		{
			name: "invalid address",
			req:  &model.ConnectRequest{WalletAddress: "0x1234", Signature: validSignature, Nonce: validNonce},
		},
		{
			name: "invalid signature",
			req:  &model.ConnectRequest{WalletAddress: address, Signature: "0x1234", Nonce: validNonce},
		},
		{
			name: "invalid nonce",
			req:  &model.ConnectRequest{WalletAddress: address, Signature: validSignature, Nonce: "abc"},
		},
		{
			name: "short referral code",
			req: &model.ConnectRequest{
				WalletAddress:     address,
				Signature:         validSignature,
				Nonce:             validNonce,
				ReferralCodeInput: "AB",
			},
		},
	}

	for _, tt := range testCases {
		t.Run(tt.name, func(t *testing.T) {
			_, err := s.auth.Connect(ctx, tt.req)
			require.ErrorIs(t, err, errorx.New(errorx.BadRequest, ""))
		})
	}

	_, err := s.auth.RequestChallenge(ctx, &model.GetChallengeRequest{WalletAddress: "not-an-address"})
	require.ErrorIs(t, err, errorx.New(errorx.BadRequest, ""))
}

func TestAuthDomain_CreateUser_Concurrent(t *testing.T) {
	ctx, s := newSuite(t)
	_, address := newWallet(t)

	const n = 5
	ids := make([]string, n)
	errs := make([]error, n)

	wg := sync.WaitGroup{}
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			user, err := s.auth.createUser(ctx, address, testutil.User1Code)
			errs[i] = err
			if err == nil {
				ids[i] = user.ID
			}
		}(i)
	}
	wg.Wait()

	for i := 0; i < n; i++ {
		require.NoError(t, errs[i])
		require.Equal(t, ids[0], ids[i])
	}

	var count int64
	require.NoError(t, xcontext.DB(ctx).Model(&entity.User{}).
		Where("wallet_address=?", address).Count(&count).Error)
	require.Equal(t, int64(1), count)

	referrer, err := s.userRepo.GetByID(ctx, testutil.User1ID)
	require.NoError(t, err)
	require.Equal(t, int64(1), referrer.AlliesCount)
}

func initiateLink(t *testing.T, ctx context.Context, s *suite) string {
	var state string
	s.xOAuth2.AuthCodeURLFunc = func(st, codeChallenge string) string {
		state = st
		require.NotEmpty(t, codeChallenge)
		return "https://x.test/authorize?state=" + st
	}

	resp, err := s.auth.InitiateLink(ctx, &model.InitiateLinkRequest{})
	require.NoError(t, err)
	require.Equal(t, "https://x.test/authorize?state="+state, resp.RedirectURL)
	return state
}

func parseRedirect(t *testing.T, redirectURL string) url.Values {
	u, err := url.Parse(redirectURL)
	require.NoError(t, err)
	require.Equal(t, "frontend.test", u.Host)
	return u.Query()
}

func TestAuthDomain_LinkX(t *testing.T) {
	ctx, s := newSuite(t)
	ctx = xcontext.WithRequestUserID(ctx, testutil.User1ID)

	s.xOAuth2.GetUserFunc = func(ctx context.Context, accessToken string) (authenticator.OAuth2User, error) {
		return authenticator.OAuth2User{ID: "x-1", Username: "nova_x"}, nil
	}

	state := initiateLink(t, ctx, s)

	resp, err := s.auth.HandleLinkCallback(ctx, &model.LinkCallbackRequest{Code: "code", State: state})
	require.NoError(t, err)
	query := parseRedirect(t, resp.RedirectURL)
	require.Equal(t, "true", query.Get("x_connected"))
	require.Equal(t, "X account connected successfully!", query.Get("message"))

	user, err := s.userRepo.GetByID(ctx, testutil.User1ID)
	require.NoError(t, err)
	require.Equal(t, "x-1", user.XUserID.String)
	require.Equal(t, "nova_x", user.XUsername)
	require.Equal(t, uint64(75), user.XP)

	link, err := s.userMissionRepo.Get(ctx, testutil.User1ID, testutil.MissionConnectXID)
	require.NoError(t, err)
	require.Equal(t, entity.UserMissionCompleted, link.Status)

	// A state is single use.
	resp, err = s.auth.HandleLinkCallback(ctx, &model.LinkCallbackRequest{Code: "code", State: state})
	require.NoError(t, err)
	require.Equal(t, "false", parseRedirect(t, resp.RedirectURL).Get("x_connected"))

	// The same X account cannot be linked to another user.
	ctx2 := xcontext.WithRequestUserID(ctx, testutil.User2ID)
	state = initiateLink(t, ctx2, s)
	resp, err = s.auth.HandleLinkCallback(ctx2, &model.LinkCallbackRequest{Code: "code", State: state})
	require.NoError(t, err)
	query = parseRedirect(t, resp.RedirectURL)
	require.Equal(t, "false", query.Get("x_connected"))
	require.Equal(t, "This X account is already linked to another user.", query.Get("error"))

	user2, err := s.userRepo.GetByID(ctx, testutil.User2ID)
	require.NoError(t, err)
	require.False(t, user2.XUserID.Valid)
}

func TestAuthDomain_LinkX_Failures(t *testing.T) {
	ctx, s := newSuite(t)
	ctx = xcontext.WithRequestUserID(ctx, testutil.User1ID)

	resp, err := s.auth.HandleLinkCallback(ctx, &model.LinkCallbackRequest{Error: "access_denied"})
	require.NoError(t, err)
	require.Equal(t, "false", parseRedirect(t, resp.RedirectURL).Get("x_connected"))

	resp, err = s.auth.HandleLinkCallback(ctx, &model.LinkCallbackRequest{Code: "code"})
	require.NoError(t, err)
	require.Equal(t, "Missing code or state", parseRedirect(t, resp.RedirectURL).Get("error"))

	state := initiateLink(t, ctx, s)
	s.redisClient.Advance(11 * time.Minute)
	resp, err = s.auth.HandleLinkCallback(ctx, &model.LinkCallbackRequest{Code: "code", State: state})
	require.NoError(t, err)
	require.Equal(t, "false", parseRedirect(t, resp.RedirectURL).Get("x_connected"))

	user, err := s.userRepo.GetByID(ctx, testutil.User1ID)
	require.NoError(t, err)
	require.False(t, user.XUserID.Valid)
}

func TestAuthDomain_InitiateLink_NotConfigured(t *testing.T) {
	ctx, s := newSuite(t)
	cfg := xcontext.Configs(ctx)
	cfg.Auth.X.ClientID = ""
	ctx = xcontext.WithConfigs(ctx, cfg)

	_, err := s.auth.InitiateLink(ctx, &model.InitiateLinkRequest{})
	require.ErrorIs(t, err, errorx.New(errorx.NotImplemented, ""))
}
