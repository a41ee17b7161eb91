package repository

import (
	"context"

	"github.com/questx-lab/signal/internal/entity"
	"github.com/questx-lab/signal/pkg/xcontext"
	"gorm.io/gorm/clause"
)

type UserBadgeRepository interface {
	// Create inserts the link and reports false when the user already held
	// the badge.
	Create(ctx context.Context, data *entity.UserBadge) (bool, error)
	Exists(ctx context.Context, userID, badgeID string) (bool, error)
	GetByUserID(ctx context.Context, userID string) ([]entity.UserBadge, error)
}

type userBadgeRepository struct{}

func NewUserBadgeRepository() *userBadgeRepository {
	return &userBadgeRepository{}
}

func (r *userBadgeRepository) Create(ctx context.Context, data *entity.UserBadge) (bool, error) {
	tx := xcontext.DB(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "badge_id"}},
			DoNothing: true,
		}).
		Create(data)
	if tx.Error != nil {
		return false, tx.Error
	}

	return tx.RowsAffected == 1, nil
}

func (r *userBadgeRepository) Exists(ctx context.Context, userID, badgeID string) (bool, error) {
	var record entity.UserBadge
	err := xcontext.DB(ctx).Where("user_id=? AND badge_id=?", userID, badgeID).Take(&record).Error
	return exists(err)
}

func (r *userBadgeRepository) GetByUserID(ctx context.Context, userID string) ([]entity.UserBadge, error) {
	var result []entity.UserBadge
	err := xcontext.DB(ctx).
		Where("user_id=?", userID).
		Order("acquired_at DESC").
		Find(&result).Error
	if err != nil {
		return nil, err
	}

	return result, nil
}
