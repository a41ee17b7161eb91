package repository

import (
	"context"

	"github.com/questx-lab/signal/internal/entity"
	"github.com/questx-lab/signal/pkg/xcontext"
	"gorm.io/gorm/clause"
)

type MissionRepository interface {
	Create(ctx context.Context, data *entity.Mission) error
	Upsert(ctx context.Context, data *entity.Mission) error
	GetByMissionID(ctx context.Context, missionID string) (*entity.Mission, error)
	GetActive(ctx context.Context, limit int) ([]entity.Mission, error)
	CountActive(ctx context.Context) (int64, error)
}

type missionRepository struct{}

func NewMissionRepository() *missionRepository {
	return &missionRepository{}
}

func (r *missionRepository) Create(ctx context.Context, data *entity.Mission) error {
	return xcontext.DB(ctx).Create(data).Error
}

// Upsert creates the mission or refreshes the definition of the mission with
// the same string id.
func (r *missionRepository) Upsert(ctx context.Context, data *entity.Mission) error {
	return xcontext.DB(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "mission_id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"title", "description", "category", "reward_xp", "reward_badge_id",
			"action_label", "action_type", "action_url", "is_active",
			"required_allies", "sort_order", "verification", "prerequisites",
			"updated_at",
		}),
	}).Create(data).Error
}

func (r *missionRepository) GetByMissionID(ctx context.Context, missionID string) (*entity.Mission, error) {
	var record entity.Mission
	if err := xcontext.DB(ctx).Where("mission_id=?", missionID).Take(&record).Error; err != nil {
		return nil, err
	}

	return &record, nil
}

// GetActive returns active missions by display order, missions without an
// order last, then by creation time.
func (r *missionRepository) GetActive(ctx context.Context, limit int) ([]entity.Mission, error) {
	var result []entity.Mission
	err := xcontext.DB(ctx).
		Where("is_active=?", true).
		Order("sort_order IS NULL, sort_order ASC, created_at ASC").
		Limit(limit).
		Find(&result).Error
	if err != nil {
		return nil, err
	}

	return result, nil
}

func (r *missionRepository) CountActive(ctx context.Context) (int64, error) {
	var count int64
	if err := xcontext.DB(ctx).Model(&entity.Mission{}).Where("is_active=?", true).Count(&count).Error; err != nil {
		return 0, err
	}

	return count, nil
}
