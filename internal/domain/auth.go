package domain

import (
	"context"
	"database/sql"
	"errors"
	"net/url"
	"strings"
	"time"

	"github.com/questx-lab/signal/internal/common"
	"github.com/questx-lab/signal/internal/domain/identity"
	"github.com/questx-lab/signal/internal/domain/nonce"
	"github.com/questx-lab/signal/internal/entity"
	"github.com/questx-lab/signal/internal/model"
	"github.com/questx-lab/signal/internal/repository"
	"github.com/questx-lab/signal/pkg/authenticator"
	"github.com/questx-lab/signal/pkg/crypto"
	"github.com/questx-lab/signal/pkg/errorx"
	"github.com/questx-lab/signal/pkg/ethutil"
	"github.com/questx-lab/signal/pkg/idutil"
	"github.com/questx-lab/signal/pkg/xcontext"
	"github.com/questx-lab/signal/pkg/xredis"
	"gorm.io/gorm"
)

const tokenType = "bearer"

type AuthDomain interface {
	RequestChallenge(context.Context, *model.GetChallengeRequest) (*model.GetChallengeResponse, error)
	Connect(context.Context, *model.ConnectRequest) (*model.ConnectResponse, error)
	InitiateLink(context.Context, *model.InitiateLinkRequest) (*model.InitiateLinkResponse, error)
	HandleLinkCallback(context.Context, *model.LinkCallbackRequest) (*model.LinkCallbackResponse, error)
}

// linkState is kept in the cache between InitiateLink and the callback.
type linkState struct {
	Verifier string `json:"verifier"`
	UserID   string `json:"user_id"`
}

type authDomain struct {
	userRepo          repository.UserRepository
	nonceStore        *nonce.Store
	identityGenerator *identity.Generator
	userRegistry      *UserRegistry
	missionDomain     MissionDomain
	xOAuth2           authenticator.IOAuth2Service
	redisClient       xredis.Client
}

func NewAuthDomain(
	userRepo repository.UserRepository,
	nonceStore *nonce.Store,
	identityGenerator *identity.Generator,
	userRegistry *UserRegistry,
	missionDomain MissionDomain,
	xOAuth2 authenticator.IOAuth2Service,
	redisClient xredis.Client,
) AuthDomain {
	return &authDomain{
		userRepo:          userRepo,
		nonceStore:        nonceStore,
		identityGenerator: identityGenerator,
		userRegistry:      userRegistry,
		missionDomain:     missionDomain,
		xOAuth2:           xOAuth2,
		redisClient:       redisClient,
	}
}

func (d *authDomain) RequestChallenge(
	ctx context.Context, req *model.GetChallengeRequest,
) (*model.GetChallengeResponse, error) {
	address := ethutil.NormalizeAddress(req.WalletAddress)
	if !ethutil.IsAddress(address) {
		return nil, errorx.New(errorx.BadRequest, "Invalid wallet address")
	}

	challenge, err := d.nonceStore.Issue(ctx, address)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot issue nonce: %v", err)
		return nil, errorx.New(errorx.Unavailable, "Nonce service unavailable")
	}

	return &model.GetChallengeResponse{
		MessageToSign: challenge.Message,
		Nonce:         challenge.Nonce,
	}, nil
}

func (d *authDomain) Connect(ctx context.Context, req *model.ConnectRequest) (*model.ConnectResponse, error) {
	address := ethutil.NormalizeAddress(req.WalletAddress)
	signature := strings.TrimSpace(req.Signature)
	referralCode := strings.ToUpper(strings.TrimSpace(req.ReferralCodeInput))

	if !ethutil.IsAddress(address) {
		return nil, errorx.New(errorx.BadRequest, "Invalid wallet address")
	}

	if !ethutil.IsSignature(signature) {
		return nil, errorx.New(errorx.BadRequest, "Invalid signature format")
	}

	if len(req.Nonce) != 32 {
		return nil, errorx.New(errorx.BadRequest, "Invalid nonce")
	}

	if referralCode != "" && (len(referralCode) < 3 || len(referralCode) > 20) {
		return nil, errorx.New(errorx.BadRequest, "Referral code must be between 3 and 20 characters")
	}

	ok, err := d.nonceStore.Consume(ctx, address, req.Nonce, req.Message)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot consume nonce: %v", err)
		return nil, errorx.New(errorx.Unavailable, "Authentication service temporarily unavailable")
	}

	if !ok {
		countWalletConnect("invalid_nonce")
		return nil, errorx.New(errorx.Unauthenticated, "Invalid or expired nonce")
	}

	valid, err := ethutil.VerifySignature(address, req.Message, signature)
	if err != nil {
		xcontext.Logger(ctx).Warnf("Cannot verify signature of %s: %v", address, err)
	}

	if !valid {
		countWalletConnect("invalid_signature")
		return nil, errorx.New(errorx.Unauthenticated, "Invalid signature")
	}

	user, err := d.userRepo.GetByWalletAddress(ctx, address)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			xcontext.Logger(ctx).Errorf("Cannot get user by wallet: %v", err)
			return nil, errorx.Unknown
		}

		user, err = d.createUser(ctx, address, referralCode)
		if err != nil {
			return nil, err
		}
	}

	if !user.IsActive {
		countWalletConnect("inactive")
		return nil, errorx.New(errorx.Unauthenticated, "Inactive account")
	}

	now := time.Now().UTC()
	if err := d.userRepo.UpdateLastLogin(ctx, user.ID, now); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot update last login: %v", err)
		return nil, errorx.Unknown
	}
	user.LastLoginAt = sql.NullTime{Valid: true, Time: now}

	accessToken, err := xcontext.TokenEngine(ctx).Generate(
		user.WalletAddress,
		xcontext.Configs(ctx).Auth.SessionToken.Expiration,
		model.AccessToken{UserID: user.ID},
	)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot generate access token: %v", err)
		return nil, errorx.Unknown
	}

	countWalletConnect("success")
	return &model.ConnectResponse{
		AccessToken: accessToken,
		TokenType:   tokenType,
		User:        convertUserWithStatus(user),
	}, nil
}

// createUser registers a new wallet. When another request created the same
// wallet first, the existing user is returned.
func (d *authDomain) createUser(ctx context.Context, address, referralCode string) (*entity.User, error) {
	username, err := d.identityGenerator.Username(ctx)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot generate username: %v", err)
		return nil, errorx.Unknown
	}

	userReferralCode, err := d.identityGenerator.ReferralCode(ctx)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot generate referral code: %v", err)
		return nil, errorx.Unknown
	}

	user := &entity.User{
		Base:          entity.Base{ID: idutil.New()},
		WalletAddress: address,
		Username:      username,
		ReferralCode:  userReferralCode,
		CommanderName: username,
		IsActive:      true,
	}
	d.userRegistry.InitialRank(user)

	referrer, err := d.resolveReferrer(ctx, address, referralCode)
	if err != nil {
		return nil, err
	}

	if referrer != nil {
		user.ReferredBy = sql.NullString{Valid: true, String: referrer.ID}
	}

	txCtx := xcontext.WithDBTransaction(ctx)
	defer xcontext.WithRollbackDBTransaction(txCtx)

	if err := d.userRepo.Create(txCtx, user); err != nil {
		xcontext.WithRollbackDBTransaction(txCtx)

		existing, getErr := d.userRepo.GetByWalletAddress(ctx, address)
		if getErr != nil {
			xcontext.Logger(ctx).Errorf("Cannot create user: %v", err)
			return nil, errorx.Unknown
		}

		xcontext.Logger(ctx).Infof("Wallet %s was registered concurrently", address)
		return existing, nil
	}

	if referrer != nil {
		if err := d.userRepo.IncreaseAlliesCount(txCtx, referrer.ID); err != nil {
			xcontext.Logger(ctx).Errorf("Cannot increase allies count: %v", err)
			return nil, errorx.Unknown
		}
	}

	xcontext.WithCommitDBTransaction(txCtx)
	xcontext.Logger(ctx).Infof("New user %s registered with wallet %s", user.Username, address)
	return user, nil
}

// resolveReferrer returns nil for unknown codes and self-referrals, neither
// of them blocks the registration.
func (d *authDomain) resolveReferrer(ctx context.Context, address, code string) (*entity.User, error) {
	if code == "" {
		return nil, nil
	}

	referrer, err := d.userRepo.GetByReferralCode(ctx, code)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			xcontext.Logger(ctx).Infof("Ignore unknown referral code %s", code)
			return nil, nil
		}

		xcontext.Logger(ctx).Errorf("Cannot get referrer: %v", err)
		return nil, errorx.Unknown
	}

	if referrer.WalletAddress == address {
		xcontext.Logger(ctx).Warnf("Wallet %s attempted to refer itself", address)
		return nil, nil
	}

	return referrer, nil
}

func (d *authDomain) InitiateLink(
	ctx context.Context, req *model.InitiateLinkRequest,
) (*model.InitiateLinkResponse, error) {
	if xcontext.Configs(ctx).Auth.X.ClientID == "" {
		return nil, errorx.New(errorx.NotImplemented, "X connection is not configured")
	}

	state, err := crypto.GenerateRandomURLSafe(32)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot generate state: %v", err)
		return nil, errorx.Unknown
	}

	verifier, err := crypto.GenerateRandomURLSafe(60)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot generate code verifier: %v", err)
		return nil, errorx.Unknown
	}

	err = d.redisClient.SetObj(
		ctx,
		common.RedisKeyXOAuthState(state),
		linkState{Verifier: verifier, UserID: xcontext.RequestUserID(ctx)},
		xcontext.Configs(ctx).Auth.X.StateTTL,
	)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot store oauth2 state: %v", err)
		return nil, errorx.New(errorx.Unavailable, "X authentication service is unavailable")
	}

	return &model.InitiateLinkResponse{
		RedirectURL: d.xOAuth2.AuthCodeURL(state, crypto.PKCEChallenge(verifier)),
	}, nil
}

// HandleLinkCallback always redirects to the frontend, failures are reported
// in the query of the redirect URL.
func (d *authDomain) HandleLinkCallback(
	ctx context.Context, req *model.LinkCallbackRequest,
) (*model.LinkCallbackResponse, error) {
	userID, err := d.linkX(ctx, req)
	if err != nil {
		var errx errorx.Error
		if !errors.As(err, &errx) {
			errx = errorx.Unknown
		}

		return &model.LinkCallbackResponse{
			RedirectURL: frontendRedirectURL(ctx, false, "error", errx.Message),
		}, nil
	}

	missionCtx := xcontext.WithRequestUserID(ctx, userID)
	_, err = d.missionDomain.CompleteMission(missionCtx, &model.CompleteMissionRequest{
		MissionID: xcontext.Configs(ctx).Mission.LinkXMissionID,
	})
	if err != nil {
		xcontext.Logger(ctx).Warnf("Cannot complete link mission of user %s: %v", userID, err)
	}

	return &model.LinkCallbackResponse{
		RedirectURL: frontendRedirectURL(ctx, true, "message", "X account connected successfully!"),
	}, nil
}

func (d *authDomain) linkX(ctx context.Context, req *model.LinkCallbackRequest) (string, error) {
	if req.Error != "" {
		return "", errorx.New(errorx.BadRequest, "X authorization failed: %s", req.Error)
	}

	if req.Code == "" || req.State == "" {
		return "", errorx.New(errorx.BadRequest, "Missing code or state")
	}

	key := common.RedisKeyXOAuthState(req.State)

	var state linkState
	if err := d.redisClient.GetObj(ctx, key, &state); err != nil {
		if errors.Is(err, xredis.ErrNil) {
			return "", errorx.New(errorx.BadRequest, "Invalid or expired X authorization session")
		}

		xcontext.Logger(ctx).Errorf("Cannot get oauth2 state: %v", err)
		return "", errorx.New(errorx.Unavailable, "X authentication service is unavailable")
	}

	deleted, err := d.redisClient.Del(ctx, key)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot delete oauth2 state: %v", err)
		return "", errorx.New(errorx.Unavailable, "X authentication service is unavailable")
	}

	if deleted == 0 {
		return "", errorx.New(errorx.BadRequest, "Invalid or expired X authorization session")
	}

	accessToken, err := d.xOAuth2.Exchange(ctx, req.Code, state.Verifier)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot exchange authorization code: %v", err)
		return "", errorx.New(errorx.BadGateway, "Cannot get access token from X")
	}

	xUser, err := d.xOAuth2.GetUser(ctx, accessToken)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get X user: %v", err)
		return "", errorx.New(errorx.BadGateway, "Cannot get user info from X")
	}

	other, err := d.userRepo.GetByXUserID(ctx, xUser.ID)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		xcontext.Logger(ctx).Errorf("Cannot get user by x id: %v", err)
		return "", errorx.Unknown
	}

	if err == nil && other.ID != state.UserID {
		return "", errorx.New(errorx.AlreadyExists, "This X account is already linked to another user.")
	}

	if _, err := d.userRepo.GetByID(ctx, state.UserID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", errorx.New(errorx.NotFound, "Not found user")
		}

		xcontext.Logger(ctx).Errorf("Cannot get user: %v", err)
		return "", errorx.Unknown
	}

	if err := d.userRepo.LinkX(ctx, state.UserID, xUser.ID, xUser.Username, time.Now().UTC()); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot link x account: %v", err)
		return "", errorx.Unknown
	}

	return state.UserID, nil
}

func frontendRedirectURL(ctx context.Context, connected bool, key, message string) string {
	frontendURL := xcontext.Configs(ctx).Project.FrontendURL
	u, err := url.Parse(frontendURL)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Invalid frontend url %s: %v", frontendURL, err)
		return frontendURL
	}

	query := u.Query()
	if connected {
		query.Set("x_connected", "true")
	} else {
		query.Set("x_connected", "false")
	}
	query.Set(key, message)
	u.RawQuery = query.Encode()

	return u.String()
}

func countWalletConnect(result string) {
	common.PromCounters[common.WalletConnectTotal].WithLabelValues(result).Inc()
}
