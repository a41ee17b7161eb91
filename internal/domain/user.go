package domain

import (
	"context"
	"database/sql"
	"errors"
	"net/mail"
	"strings"
	"time"

	"github.com/questx-lab/signal/internal/domain/rank"
	"github.com/questx-lab/signal/internal/entity"
	"github.com/questx-lab/signal/internal/model"
	"github.com/questx-lab/signal/internal/repository"
	"github.com/questx-lab/signal/pkg/crypto"
	"github.com/questx-lab/signal/pkg/dateutil"
	"github.com/questx-lab/signal/pkg/errorx"
	"github.com/questx-lab/signal/pkg/numberutil"
	"github.com/questx-lab/signal/pkg/xcontext"
	"gorm.io/gorm"
)

const (
	defaultAlliesLimit = 10
	maxAlliesLimit     = 100
	signalStatus       = "Optimal"
)

type UserDomain interface {
	GetMe(context.Context, *model.GetMeRequest) (*model.GetMeResponse, error)
	UpdateProfile(context.Context, *model.UpdateProfileRequest) (*model.UpdateProfileResponse, error)
	ListAllies(context.Context, *model.ListAlliesRequest) (*model.ListAlliesResponse, error)
}

// UserRegistry owns the XP of users and everything derived from it.
type UserRegistry struct {
	userRepo  repository.UserRepository
	rankTable *rank.Table
}

func NewUserRegistry(userRepo repository.UserRepository, rankTable *rank.Table) *UserRegistry {
	return &UserRegistry{userRepo: userRepo, rankTable: rankTable}
}

// GrantXP atomically adds amount to the XP of the user and recomputes the
// rank. A non-positive amount is ignored.
func (r *UserRegistry) GrantXP(ctx context.Context, userID string, amount int64) error {
	if amount <= 0 {
		return nil
	}

	if err := r.userRepo.IncreaseXP(ctx, userID, uint64(amount)); err != nil {
		return err
	}

	user, err := r.userRepo.GetByID(ctx, userID)
	if err != nil {
		return err
	}

	return r.RefreshRank(ctx, user)
}

// RefreshRank recomputes the rank fields of user from its XP and writes them
// only when one of them changed.
func (r *UserRegistry) RefreshRank(ctx context.Context, user *entity.User) error {
	newRank := r.rankTable.RankFor(user.XP)
	percent, nextRank := r.rankTable.Progress(newRank, user.XP)
	badgeURL := r.rankTable.BadgeURL(newRank)

	if newRank == user.Rank &&
		percent == user.RankProgressPercent &&
		nextRank == user.NextRank &&
		badgeURL == user.RankBadgeURL {
		return nil
	}

	err := r.userRepo.UpdateRank(ctx, user.ID, repository.UpdateRankData{
		Rank:                newRank,
		RankBadgeURL:        badgeURL,
		RankProgressPercent: percent,
		NextRank:            nextRank,
	})
	if err != nil {
		return err
	}

	user.Rank = newRank
	user.RankProgressPercent = percent
	user.NextRank = nextRank
	user.RankBadgeURL = badgeURL
	return nil
}

// InitialRank fills the rank fields of a user who has no XP yet.
func (r *UserRegistry) InitialRank(user *entity.User) {
	user.Rank = r.rankTable.RankFor(user.XP)
	user.RankProgressPercent, user.NextRank = r.rankTable.Progress(user.Rank, user.XP)
	user.RankBadgeURL = r.rankTable.BadgeURL(user.Rank)
}

type userDomain struct {
	userRepo     repository.UserRepository
	userRegistry *UserRegistry
}

func NewUserDomain(userRepo repository.UserRepository, userRegistry *UserRegistry) UserDomain {
	return &userDomain{userRepo: userRepo, userRegistry: userRegistry}
}

func (d *userDomain) GetMe(ctx context.Context, req *model.GetMeRequest) (*model.GetMeResponse, error) {
	user, err := d.getRequestUser(ctx)
	if err != nil {
		return nil, err
	}

	resp := model.GetMeResponse(convertUserWithStatus(user))
	return &resp, nil
}

func (d *userDomain) UpdateProfile(
	ctx context.Context, req *model.UpdateProfileRequest,
) (*model.UpdateProfileResponse, error) {
	user, err := d.getRequestUser(ctx)
	if err != nil {
		return nil, err
	}

	data := repository.UpdateProfileData{
		Username:      strings.TrimSpace(req.Username),
		CommanderName: strings.TrimSpace(req.CommanderName),
	}

	if data.Username != "" {
		if len(data.Username) < 3 || len(data.Username) > 50 {
			return nil, errorx.New(errorx.BadRequest, "Username must be between 3 and 50 characters")
		}

		other, err := d.userRepo.GetByUsername(ctx, data.Username)
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			xcontext.Logger(ctx).Errorf("Cannot get user by username: %v", err)
			return nil, errorx.Unknown
		}

		if err == nil && other.ID != user.ID {
			return nil, errorx.New(errorx.AlreadyExists, "Username already taken")
		}
	}

	if email := strings.TrimSpace(req.Email); email != "" {
		if _, err := mail.ParseAddress(email); err != nil {
			return nil, errorx.New(errorx.BadRequest, "Invalid email address")
		}

		other, err := d.userRepo.GetByEmail(ctx, email)
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			xcontext.Logger(ctx).Errorf("Cannot get user by email: %v", err)
			return nil, errorx.Unknown
		}

		if err == nil && other.ID != user.ID {
			return nil, errorx.New(errorx.AlreadyExists, "Email already registered by another user")
		}

		data.Email = sql.NullString{Valid: true, String: email}
	}

	if err := d.userRepo.UpdateProfile(ctx, user.ID, data); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot update profile: %v", err)
		return nil, errorx.Unknown
	}

	user, err = d.userRepo.GetByID(ctx, user.ID)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot reload user: %v", err)
		return nil, errorx.Unknown
	}

	if err := d.userRegistry.RefreshRank(ctx, user); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot refresh rank: %v", err)
		return nil, errorx.Unknown
	}

	resp := model.UpdateProfileResponse(convertUserWithStatus(user))
	return &resp, nil
}

func (d *userDomain) ListAllies(
	ctx context.Context, req *model.ListAlliesRequest,
) (*model.ListAlliesResponse, error) {
	user, err := d.getRequestUser(ctx)
	if err != nil {
		return nil, err
	}

	page := req.Page
	if page < 1 {
		page = 1
	}

	limit := req.Limit
	if limit == 0 {
		limit = defaultAlliesLimit
	}
	limit = numberutil.Clamp(limit, 1, maxAlliesLimit)

	allies, err := d.userRepo.GetAllies(ctx, user.ID, (page-1)*limit, limit)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get allies: %v", err)
		return nil, errorx.Unknown
	}

	result := []model.Ally{}
	for _, ally := range allies {
		result = append(result, model.ConvertAlly(ally))
	}

	return &model.ListAlliesResponse{
		TotalAllies: user.AlliesCount,
		Allies:      result,
		Page:        page,
		Limit:       limit,
		TotalPages:  int(numberutil.CeilDiv(user.AlliesCount, int64(limit))),
	}, nil
}

func (d *userDomain) getRequestUser(ctx context.Context) (*entity.User, error) {
	user, err := d.userRepo.GetByID(ctx, xcontext.RequestUserID(ctx))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.NotFound, "Not found user")
		}

		xcontext.Logger(ctx).Errorf("Cannot get user: %v", err)
		return nil, errorx.Unknown
	}

	return user, nil
}

// convertUserWithStatus adds the live system status to the public view.
func convertUserWithStatus(user *entity.User) model.UserPublic {
	result := model.ConvertUser(user)
	result.SystemStatus.StarDate = dateutil.Stardate(time.Now())
	result.SystemStatus.SignalStatus = signalStatus
	result.SystemStatus.NetworkLoadPercent = float64(crypto.RandRange(2000, 6001)) / 100
	return result
}
