package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/questx-lab/signal/internal/entity"
	"github.com/questx-lab/signal/pkg/xcontext"
	"gorm.io/gorm"
)

type UpdateProfileData struct {
	Username      string
	Email         sql.NullString
	CommanderName string
}

type UpdateRankData struct {
	Rank                string
	RankBadgeURL        string
	RankProgressPercent float64
	NextRank            string
}

type UserRepository interface {
	Create(ctx context.Context, data *entity.User) error
	GetByID(ctx context.Context, id string) (*entity.User, error)
	GetByWalletAddress(ctx context.Context, address string) (*entity.User, error)
	GetByReferralCode(ctx context.Context, code string) (*entity.User, error)
	GetByUsername(ctx context.Context, username string) (*entity.User, error)
	GetByEmail(ctx context.Context, email string) (*entity.User, error)
	GetByXUserID(ctx context.Context, xUserID string) (*entity.User, error)
	ExistsByUsername(ctx context.Context, username string) (bool, error)
	ExistsByReferralCode(ctx context.Context, code string) (bool, error)
	GetAllies(ctx context.Context, referrerID string, offset, limit int) ([]entity.User, error)
	GetList(ctx context.Context, offset, limit int) ([]entity.User, error)

	UpdateProfile(ctx context.Context, id string, data UpdateProfileData) error
	UpdateRank(ctx context.Context, id string, data UpdateRankData) error
	UpdateLastLogin(ctx context.Context, id string, t time.Time) error
	UpdateActive(ctx context.Context, id string, active bool) error
	LinkX(ctx context.Context, id, xUserID, xUsername string, t time.Time) error
	CheckinDaily(ctx context.Context, id string, now, startOfDay time.Time) (bool, error)
	IncreaseXP(ctx context.Context, id string, amount uint64) error
	IncreaseAlliesCount(ctx context.Context, id string) error
}

type userRepository struct{}

func NewUserRepository() *userRepository {
	return &userRepository{}
}

func (r *userRepository) Create(ctx context.Context, data *entity.User) error {
	return xcontext.DB(ctx).Create(data).Error
}

func (r *userRepository) GetByID(ctx context.Context, id string) (*entity.User, error) {
	var record entity.User
	if err := xcontext.DB(ctx).Where("id=?", id).Take(&record).Error; err != nil {
		return nil, err
	}

	return &record, nil
}

func (r *userRepository) GetByWalletAddress(ctx context.Context, address string) (*entity.User, error) {
	var record entity.User
	if err := xcontext.DB(ctx).Where("wallet_address=?", address).Take(&record).Error; err != nil {
		return nil, err
	}

	return &record, nil
}

func (r *userRepository) GetByReferralCode(ctx context.Context, code string) (*entity.User, error) {
	var record entity.User
	if err := xcontext.DB(ctx).Where("referral_code=?", code).Take(&record).Error; err != nil {
		return nil, err
	}

	return &record, nil
}

// GetByUsername matches case-insensitively.
func (r *userRepository) GetByUsername(ctx context.Context, username string) (*entity.User, error) {
	var record entity.User
	err := xcontext.DB(ctx).Where("LOWER(username)=LOWER(?)", username).Take(&record).Error
	if err != nil {
		return nil, err
	}

	return &record, nil
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	var record entity.User
	if err := xcontext.DB(ctx).Where("email=?", email).Take(&record).Error; err != nil {
		return nil, err
	}

	return &record, nil
}

func (r *userRepository) GetByXUserID(ctx context.Context, xUserID string) (*entity.User, error) {
	var record entity.User
	if err := xcontext.DB(ctx).Where("x_user_id=?", xUserID).Take(&record).Error; err != nil {
		return nil, err
	}

	return &record, nil
}

func (r *userRepository) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	_, err := r.GetByUsername(ctx, username)
	return exists(err)
}

func (r *userRepository) ExistsByReferralCode(ctx context.Context, code string) (bool, error) {
	_, err := r.GetByReferralCode(ctx, code)
	return exists(err)
}

func (r *userRepository) GetAllies(
	ctx context.Context, referrerID string, offset, limit int,
) ([]entity.User, error) {
	var result []entity.User
	err := xcontext.DB(ctx).
		Where("referred_by=?", referrerID).
		Order("created_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&result).Error
	if err != nil {
		return nil, err
	}

	return result, nil
}

func (r *userRepository) GetList(ctx context.Context, offset, limit int) ([]entity.User, error) {
	var result []entity.User
	err := xcontext.DB(ctx).Order("created_at ASC, id ASC").Offset(offset).Limit(limit).Find(&result).Error
	if err != nil {
		return nil, err
	}

	return result, nil
}

func (r *userRepository) UpdateProfile(ctx context.Context, id string, data UpdateProfileData) error {
	updateMap := map[string]any{}
	if data.Username != "" {
		updateMap["username"] = data.Username
	}

	if data.Email.Valid {
		updateMap["email"] = data.Email
	}

	if data.CommanderName != "" {
		updateMap["commander_name"] = data.CommanderName
	}

	if len(updateMap) == 0 {
		return nil
	}

	return xcontext.DB(ctx).Model(&entity.User{}).Where("id=?", id).Updates(updateMap).Error
}

func (r *userRepository) UpdateRank(ctx context.Context, id string, data UpdateRankData) error {
	return xcontext.DB(ctx).Model(&entity.User{}).Where("id=?", id).Updates(map[string]any{
		"rank":                  data.Rank,
		"rank_badge_url":        data.RankBadgeURL,
		"rank_progress_percent": data.RankProgressPercent,
		"next_rank":             data.NextRank,
	}).Error
}

func (r *userRepository) UpdateLastLogin(ctx context.Context, id string, t time.Time) error {
	return xcontext.DB(ctx).Model(&entity.User{}).Where("id=?", id).
		Update("last_login_at", sql.NullTime{Valid: true, Time: t}).Error
}

func (r *userRepository) UpdateActive(ctx context.Context, id string, active bool) error {
	return xcontext.DB(ctx).Model(&entity.User{}).Where("id=?", id).
		Update("is_active", active).Error
}

func (r *userRepository) LinkX(ctx context.Context, id, xUserID, xUsername string, t time.Time) error {
	return xcontext.DB(ctx).Model(&entity.User{}).Where("id=?", id).Updates(map[string]any{
		"x_user_id":      sql.NullString{Valid: true, String: xUserID},
		"x_username":     xUsername,
		"x_connected_at": sql.NullTime{Valid: true, Time: t},
	}).Error
}

// CheckinDaily sets the check-in time only if the user has not checked in
// since startOfDay. It reports whether this call performed the check-in.
func (r *userRepository) CheckinDaily(ctx context.Context, id string, now, startOfDay time.Time) (bool, error) {
	tx := xcontext.DB(ctx).Model(&entity.User{}).
		Where("id=?", id).
		Where("last_daily_checkin_at IS NULL OR last_daily_checkin_at<?", startOfDay).
		Update("last_daily_checkin_at", sql.NullTime{Valid: true, Time: now})
	if tx.Error != nil {
		return false, tx.Error
	}

	return tx.RowsAffected == 1, nil
}

func (r *userRepository) IncreaseXP(ctx context.Context, id string, amount uint64) error {
	tx := xcontext.DB(ctx).Model(&entity.User{}).
		Where("id=?", id).
		Update("xp", gorm.Expr("xp+?", amount))
	return checkSingleRow(tx)
}

func (r *userRepository) IncreaseAlliesCount(ctx context.Context, id string) error {
	tx := xcontext.DB(ctx).Model(&entity.User{}).
		Where("id=?", id).
		Update("allies_count", gorm.Expr("allies_count+?", 1))
	return checkSingleRow(tx)
}

func exists(err error) (bool, error) {
	if err == nil {
		return true, nil
	}

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false, nil
	}

	return false, err
}

func checkSingleRow(tx *gorm.DB) error {
	if tx.Error != nil {
		return tx.Error
	}

	if tx.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	if tx.RowsAffected > 1 {
		return errors.New("the number of affected rows is invalid")
	}

	return nil
}
