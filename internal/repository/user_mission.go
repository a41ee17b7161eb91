package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/questx-lab/signal/internal/entity"
	"github.com/questx-lab/signal/pkg/xcontext"
	"gorm.io/gorm/clause"
)

type UserMissionRepository interface {
	// CreateIfNotExists inserts the link unless the (user, mission) pair
	// already has one.
	CreateIfNotExists(ctx context.Context, data *entity.UserMission) error
	Get(ctx context.Context, userID, missionID string) (*entity.UserMission, error)
	GetByUserID(ctx context.Context, userID string) ([]entity.UserMission, error)
	CountByStatus(ctx context.Context, userID string, status entity.UserMissionStatus) (int64, error)

	// MarkCompleted flips a link which is not completed yet to completed and
	// reports whether this call did it.
	MarkCompleted(ctx context.Context, userID, missionID string, t time.Time) (bool, error)
	UpdateStatus(ctx context.Context, userID, missionID string, status entity.UserMissionStatus) error
}

type userMissionRepository struct{}

func NewUserMissionRepository() *userMissionRepository {
	return &userMissionRepository{}
}

func (r *userMissionRepository) CreateIfNotExists(ctx context.Context, data *entity.UserMission) error {
	return xcontext.DB(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "mission_id"}},
			DoNothing: true,
		}).
		Create(data).Error
}

func (r *userMissionRepository) Get(ctx context.Context, userID, missionID string) (*entity.UserMission, error) {
	var record entity.UserMission
	err := xcontext.DB(ctx).
		Where("user_id=? AND mission_id=?", userID, missionID).
		Take(&record).Error
	if err != nil {
		return nil, err
	}

	return &record, nil
}

func (r *userMissionRepository) GetByUserID(ctx context.Context, userID string) ([]entity.UserMission, error) {
	var result []entity.UserMission
	if err := xcontext.DB(ctx).Where("user_id=?", userID).Find(&result).Error; err != nil {
		return nil, err
	}

	return result, nil
}

func (r *userMissionRepository) CountByStatus(
	ctx context.Context, userID string, status entity.UserMissionStatus,
) (int64, error) {
	var count int64
	err := xcontext.DB(ctx).Model(&entity.UserMission{}).
		Where("user_id=? AND status=?", userID, status).
		Count(&count).Error
	if err != nil {
		return 0, err
	}

	return count, nil
}

func (r *userMissionRepository) MarkCompleted(
	ctx context.Context, userID, missionID string, t time.Time,
) (bool, error) {
	tx := xcontext.DB(ctx).Model(&entity.UserMission{}).
		Where("user_id=? AND mission_id=? AND status<>?", userID, missionID, entity.UserMissionCompleted).
		Updates(map[string]any{
			"status":       entity.UserMissionCompleted,
			"completed_at": sql.NullTime{Valid: true, Time: t},
		})
	if tx.Error != nil {
		return false, tx.Error
	}

	return tx.RowsAffected == 1, nil
}

// UpdateStatus never moves a completed link back.
func (r *userMissionRepository) UpdateStatus(
	ctx context.Context, userID, missionID string, status entity.UserMissionStatus,
) error {
	return xcontext.DB(ctx).Model(&entity.UserMission{}).
		Where("user_id=? AND mission_id=? AND status<>?", userID, missionID, entity.UserMissionCompleted).
		Update("status", status).Error
}
