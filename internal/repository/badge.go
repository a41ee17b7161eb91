package repository

import (
	"context"

	"github.com/questx-lab/signal/internal/entity"
	"github.com/questx-lab/signal/pkg/xcontext"
	"gorm.io/gorm/clause"
)

type BadgeRepository interface {
	Upsert(ctx context.Context, data *entity.Badge) error
	GetByBadgeID(ctx context.Context, badgeID string) (*entity.Badge, error)
	GetByBadgeIDs(ctx context.Context, badgeIDs []string) ([]entity.Badge, error)
}

type badgeRepository struct{}

func NewBadgeRepository() *badgeRepository {
	return &badgeRepository{}
}

func (r *badgeRepository) Upsert(ctx context.Context, data *entity.Badge) error {
	return xcontext.DB(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "badge_id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"name", "image_url", "description", "criteria", "updated_at",
		}),
	}).Create(data).Error
}

func (r *badgeRepository) GetByBadgeID(ctx context.Context, badgeID string) (*entity.Badge, error) {
	var record entity.Badge
	if err := xcontext.DB(ctx).Where("badge_id=?", badgeID).Take(&record).Error; err != nil {
		return nil, err
	}

	return &record, nil
}

func (r *badgeRepository) GetByBadgeIDs(ctx context.Context, badgeIDs []string) ([]entity.Badge, error) {
	if len(badgeIDs) == 0 {
		return nil, nil
	}

	var result []entity.Badge
	if err := xcontext.DB(ctx).Where("badge_id IN (?)", badgeIDs).Find(&result).Error; err != nil {
		return nil, err
	}

	return result, nil
}
