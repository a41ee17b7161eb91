package repository

import (
	"context"

	"github.com/questx-lab/signal/internal/entity"
	"github.com/questx-lab/signal/pkg/xcontext"
)

type WalletRegistrationRepository interface {
	Create(ctx context.Context, data *entity.WalletRegistration) error
	GetByWalletAddress(ctx context.Context, address string) (*entity.WalletRegistration, error)
	GetByReferralCode(ctx context.Context, code string) (*entity.WalletRegistration, error)
	ExistsByReferralCode(ctx context.Context, code string) (bool, error)
}

type walletRegistrationRepository struct{}

func NewWalletRegistrationRepository() *walletRegistrationRepository {
	return &walletRegistrationRepository{}
}

func (r *walletRegistrationRepository) Create(ctx context.Context, data *entity.WalletRegistration) error {
	return xcontext.DB(ctx).Create(data).Error
}

func (r *walletRegistrationRepository) GetByWalletAddress(
	ctx context.Context, address string,
) (*entity.WalletRegistration, error) {
	var record entity.WalletRegistration
	if err := xcontext.DB(ctx).Where("wallet_address=?", address).Take(&record).Error; err != nil {
		return nil, err
	}

	return &record, nil
}

func (r *walletRegistrationRepository) GetByReferralCode(
	ctx context.Context, code string,
) (*entity.WalletRegistration, error) {
	var record entity.WalletRegistration
	if err := xcontext.DB(ctx).Where("referral_code=?", code).Take(&record).Error; err != nil {
		return nil, err
	}

	return &record, nil
}

func (r *walletRegistrationRepository) ExistsByReferralCode(ctx context.Context, code string) (bool, error) {
	_, err := r.GetByReferralCode(ctx, code)
	return exists(err)
}
