package domain

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"strings"

	"github.com/questx-lab/signal/internal/common"
	"github.com/questx-lab/signal/internal/entity"
	"github.com/questx-lab/signal/internal/model"
	"github.com/questx-lab/signal/internal/repository"
	"github.com/questx-lab/signal/pkg/blockchain/eth"
	"github.com/questx-lab/signal/pkg/crypto"
	"github.com/questx-lab/signal/pkg/errorx"
	"github.com/questx-lab/signal/pkg/ethutil"
	"github.com/questx-lab/signal/pkg/idutil"
	"github.com/questx-lab/signal/pkg/xcontext"
	"github.com/questx-lab/signal/pkg/xredis"
	"gorm.io/gorm"
)

var registrationCodeRegex = regexp.MustCompile(`^[A-Z0-9]{8}$`)

const registrationSuccess = "success"

// RegistrationDomain is the standalone airdrop registration service. It
// scores a wallet once by its transaction count.
type RegistrationDomain interface {
	Register(context.Context, *model.RegisterRequest) (*model.RegisterResponse, error)
}

type registrationDomain struct {
	walletRegistrationRepo repository.WalletRegistrationRepository
	ethClient              eth.EthClient
	redisClient            xredis.Client
}

func NewRegistrationDomain(
	walletRegistrationRepo repository.WalletRegistrationRepository,
	ethClient eth.EthClient,
	redisClient xredis.Client,
) RegistrationDomain {
	return &registrationDomain{
		walletRegistrationRepo: walletRegistrationRepo,
		ethClient:              ethClient,
		redisClient:            redisClient,
	}
}

func (d *registrationDomain) Register(
	ctx context.Context, req *model.RegisterRequest,
) (*model.RegisterResponse, error) {
	address := ethutil.NormalizeAddress(req.WalletAddress)
	if !ethutil.IsAddress(address) {
		return nil, errorx.New(errorx.BadRequest, "Invalid wallet address format.")
	}

	cacheKey := common.RedisKeyWalletData(address)

	var cached model.RegisterResponse
	err := d.redisClient.GetObj(ctx, cacheKey, &cached)
	if err == nil {
		return &cached, nil
	}

	if !errors.Is(err, xredis.ErrNil) {
		xcontext.Logger(ctx).Warnf("Cannot get cached registration of %s: %v", address, err)
	}

	existing, err := d.walletRegistrationRepo.GetByWalletAddress(ctx, address)
	if err == nil {
		resp := convertRegistration(existing, "Wallet already registered.")
		d.cache(ctx, cacheKey, resp)
		return resp, nil
	}

	if !errors.Is(err, gorm.ErrRecordNotFound) {
		xcontext.Logger(ctx).Errorf("Cannot get wallet registration: %v", err)
		return nil, errorx.New(errorx.Unavailable, "Database service temporarily unavailable.")
	}

	registration := &entity.WalletRegistration{
		Base:          entity.Base{ID: idutil.New()},
		WalletAddress: address,
	}

	if code := strings.TrimSpace(req.ReferralCodeUsed); code != "" {
		if !registrationCodeRegex.MatchString(code) {
			return nil, errorx.New(errorx.BadRequest, "Invalid or expired referral code provided.")
		}

		referrer, err := d.walletRegistrationRepo.GetByReferralCode(ctx, code)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, errorx.New(errorx.BadRequest, "Invalid or expired referral code provided.")
			}

			xcontext.Logger(ctx).Errorf("Cannot get referrer registration: %v", err)
			return nil, errorx.New(errorx.Unavailable, "Database service temporarily unavailable.")
		}

		if referrer.WalletAddress == address {
			return nil, errorx.New(errorx.BadRequest, "Cannot use your own referral code.")
		}

		registration.InvitedByReferralCode = sql.NullString{Valid: true, String: code}
		registration.ReferrerWalletAddress = sql.NullString{Valid: true, String: referrer.WalletAddress}
	}

	txCount, err := d.ethClient.TransactionCount(ctx, address)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get transaction count of %s: %v", address, err)
		txCount = 0
	}

	cfg := xcontext.Configs(ctx).Registration
	registration.TransactionCount = txCount
	registration.Points = txCount * cfg.PointsPerTx

	registration.ReferralCode, err = d.generateReferralCode(ctx)
	if err != nil {
		return nil, err
	}

	if err := d.walletRegistrationRepo.Create(ctx, registration); err != nil {
		existing, getErr := d.walletRegistrationRepo.GetByWalletAddress(ctx, address)
		if getErr != nil {
			xcontext.Logger(ctx).Errorf("Cannot create wallet registration: %v", err)
			return nil, errorx.New(errorx.Internal, "Database error during registration.")
		}

		resp := convertRegistration(existing, "Wallet already registered (concurrently).")
		d.cache(ctx, cacheKey, resp)
		return resp, nil
	}

	xcontext.Logger(ctx).Infof("Wallet %s registered with %d transactions", address, txCount)
	resp := convertRegistration(registration, "Wallet registered successfully!")
	d.cache(ctx, cacheKey, resp)
	return resp, nil
}

func (d *registrationDomain) generateReferralCode(ctx context.Context) (string, error) {
	cfg := xcontext.Configs(ctx).Registration
	for i := 0; i < cfg.ReferralRetries; i++ {
		code := crypto.GenerateRandomFrom(crypto.UpperAlphanumeric, cfg.ReferralCodeLength)
		taken, err := d.walletRegistrationRepo.ExistsByReferralCode(ctx, code)
		if err != nil {
			xcontext.Logger(ctx).Errorf("Cannot check referral code: %v", err)
			return "", errorx.New(errorx.Unavailable, "Database service temporarily unavailable.")
		}

		if !taken {
			return code, nil
		}
	}

	xcontext.Logger(ctx).Errorf("Cannot generate unique referral code after %d attempts", cfg.ReferralRetries)
	return "", errorx.New(errorx.Internal, "Could not generate a unique referral identifier.")
}

func (d *registrationDomain) cache(ctx context.Context, key string, resp *model.RegisterResponse) {
	ttl := xcontext.Configs(ctx).Registration.CacheTTL
	if err := d.redisClient.SetObj(ctx, key, resp, ttl); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot cache registration %s: %v", key, err)
	}
}

func convertRegistration(registration *entity.WalletRegistration, message string) *model.RegisterResponse {
	return &model.RegisterResponse{
		Status:                 registrationSuccess,
		Message:                message,
		WalletAddress:          registration.WalletAddress,
		Points:                 registration.Points,
		UserReferralCode:       registration.ReferralCode,
		InvitedByWalletAddress: registration.ReferrerWalletAddress.String,
	}
}
