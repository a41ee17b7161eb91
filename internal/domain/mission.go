package domain

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/questx-lab/signal/internal/common"
	"github.com/questx-lab/signal/internal/domain/badge"
	"github.com/questx-lab/signal/internal/domain/missionclaim"
	"github.com/questx-lab/signal/internal/entity"
	"github.com/questx-lab/signal/internal/model"
	"github.com/questx-lab/signal/internal/repository"
	"github.com/questx-lab/signal/pkg/dateutil"
	"github.com/questx-lab/signal/pkg/errorx"
	"github.com/questx-lab/signal/pkg/idutil"
	"github.com/questx-lab/signal/pkg/xcontext"
	"gorm.io/gorm"
)

const alreadyCompletedMessage = "Mission already completed."

type MissionDomain interface {
	CompleteMission(context.Context, *model.CompleteMissionRequest) (*model.CompleteMissionResponse, error)
	DirectivesForUser(context.Context, *model.GetDirectivesRequest) (*model.GetDirectivesResponse, error)
	MissionProgressSummary(context.Context, *model.GetMissionSummaryRequest) (*model.GetMissionSummaryResponse, error)
}

type missionDomain struct {
	userRepo        repository.UserRepository
	missionRepo     repository.MissionRepository
	userMissionRepo repository.UserMissionRepository
	badgeRepo       repository.BadgeRepository
	userRegistry    *UserRegistry
	badgeRegistry   *badge.Registry
	policyRegistry  *missionclaim.Registry
}

func NewMissionDomain(
	userRepo repository.UserRepository,
	missionRepo repository.MissionRepository,
	userMissionRepo repository.UserMissionRepository,
	badgeRepo repository.BadgeRepository,
	userRegistry *UserRegistry,
	badgeRegistry *badge.Registry,
	policyRegistry *missionclaim.Registry,
) MissionDomain {
	return &missionDomain{
		userRepo:        userRepo,
		missionRepo:     missionRepo,
		userMissionRepo: userMissionRepo,
		badgeRepo:       badgeRepo,
		userRegistry:    userRegistry,
		badgeRegistry:   badgeRegistry,
		policyRegistry:  policyRegistry,
	}
}

func (d *missionDomain) CompleteMission(
	ctx context.Context, req *model.CompleteMissionRequest,
) (*model.CompleteMissionResponse, error) {
	if req.MissionID == "" {
		return nil, errorx.New(errorx.BadRequest, "Not allow empty mission id")
	}

	mission, err := d.missionRepo.GetByMissionID(ctx, req.MissionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.NotFound, "Mission not found or inactive.")
		}

		xcontext.Logger(ctx).Errorf("Cannot get mission: %v", err)
		return nil, errorx.Unknown
	}

	if !mission.IsActive {
		return nil, errorx.New(errorx.NotFound, "Mission not found or inactive.")
	}

	user, err := d.userRepo.GetByID(ctx, xcontext.RequestUserID(ctx))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.NotFound, "Not found user")
		}

		xcontext.Logger(ctx).Errorf("Cannot get user: %v", err)
		return nil, errorx.Unknown
	}

	completed, err := d.isCompleted(ctx, user.ID, mission.MissionID)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get user mission: %v", err)
		return nil, errorx.Unknown
	}

	if completed {
		return &model.CompleteMissionResponse{Message: alreadyCompletedMessage}, nil
	}

	for _, prerequisite := range mission.Prerequisites {
		completed, err := d.isCompleted(ctx, user.ID, prerequisite)
		if err != nil {
			xcontext.Logger(ctx).Errorf("Cannot get prerequisite mission: %v", err)
			return nil, errorx.Unknown
		}

		if !completed {
			return nil, errorx.New(errorx.BadRequest, "Complete mission %s first.", prerequisite)
		}
	}

	kind := missionclaim.Classify(mission, xcontext.Configs(ctx).Mission.DailyCheckinID)
	switch kind {
	case missionclaim.DailyCheckin:
		return d.checkin(ctx, user, mission)

	case missionclaim.AllyThreshold:
		if user.AlliesCount < mission.RequiredAllies {
			return nil, errorx.New(errorx.ThresholdNotMet,
				"Invite target (%d allies) not reached yet.", mission.RequiredAllies)
		}

		return d.completeAndGrant(ctx, user, mission, kind)

	case missionclaim.OAuthLinked:
		if !user.XUserID.Valid {
			return nil, errorx.New(errorx.BadRequest, "Please connect your X account first.")
		}

		return d.completeAndGrant(ctx, user, mission, kind)

	case missionclaim.Standard:
		return d.completeStandard(ctx, user, mission, req.ValidationData)
	}

	xcontext.Logger(ctx).Errorf("Invalid mission kind %s", kind)
	return nil, errorx.Unknown
}

func (d *missionDomain) checkin(
	ctx context.Context, user *entity.User, mission *entity.Mission,
) (*model.CompleteMissionResponse, error) {
	ctx = xcontext.WithDBTransaction(ctx)
	defer xcontext.WithRollbackDBTransaction(ctx)

	now := time.Now().UTC()
	ok, err := d.userRepo.CheckinDaily(ctx, user.ID, now, dateutil.StartOfDay(now))
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot check in: %v", err)
		return nil, errorx.Unknown
	}

	if !ok {
		return nil, errorx.New(errorx.AlreadyCheckedIn, "You have already checked in today.")
	}

	resp, err := d.grantRewards(ctx, user, mission, missionclaim.DailyCheckin)
	if err != nil {
		return nil, err
	}

	ctx = xcontext.WithCommitDBTransaction(ctx)
	return resp, nil
}

func (d *missionDomain) completeStandard(
	ctx context.Context, user *entity.User, mission *entity.Mission, validationData map[string]any,
) (*model.CompleteMissionResponse, error) {
	policy, err := d.policyRegistry.Get(mission.Verification)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get policy of mission %s: %v", mission.MissionID, err)
		return nil, errorx.Unknown
	}

	action, err := policy.GetActionForClaim(ctx, validationData)
	if err != nil {
		return nil, err
	}

	switch {
	case action.Is(missionclaim.Accepted):
		return d.completeAndGrant(ctx, user, mission, missionclaim.Standard)

	case action.Is(missionclaim.NeedManualReview):
		if err := d.setStatus(ctx, user.ID, mission.MissionID, entity.UserMissionPendingVerification); err != nil {
			xcontext.Logger(ctx).Errorf("Cannot mark mission pending: %v", err)
			return nil, errorx.Unknown
		}

		return &model.CompleteMissionResponse{Message: action.Message()}, nil

	default:
		if err := d.setStatus(ctx, user.ID, mission.MissionID, entity.UserMissionFailed); err != nil {
			xcontext.Logger(ctx).Errorf("Cannot mark mission failed: %v", err)
			return nil, errorx.Unknown
		}

		return nil, errorx.New(errorx.VerificationFailed, "Mission verification failed: %s", action.Message())
	}
}

// completeAndGrant pays the rewards only if this call is the one which
// flipped the link to completed.
func (d *missionDomain) completeAndGrant(
	ctx context.Context, user *entity.User, mission *entity.Mission, kind missionclaim.Kind,
) (*model.CompleteMissionResponse, error) {
	ctx = xcontext.WithDBTransaction(ctx)
	defer xcontext.WithRollbackDBTransaction(ctx)

	if err := d.ensureLink(ctx, user.ID, mission.MissionID); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot create user mission: %v", err)
		return nil, errorx.Unknown
	}

	ok, err := d.userMissionRepo.MarkCompleted(ctx, user.ID, mission.MissionID, time.Now().UTC())
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot mark mission completed: %v", err)
		return nil, errorx.Unknown
	}

	if !ok {
		return &model.CompleteMissionResponse{Message: alreadyCompletedMessage}, nil
	}

	resp, err := d.grantRewards(ctx, user, mission, kind)
	if err != nil {
		return nil, err
	}

	ctx = xcontext.WithCommitDBTransaction(ctx)
	return resp, nil
}

func (d *missionDomain) grantRewards(
	ctx context.Context, user *entity.User, mission *entity.Mission, kind missionclaim.Kind,
) (*model.CompleteMissionResponse, error) {
	resp := &model.CompleteMissionResponse{
		Message: fmt.Sprintf("Mission '%s' completed successfully!", mission.Title),
	}

	if mission.RewardXP > 0 {
		if err := d.userRegistry.GrantXP(ctx, user.ID, int64(mission.RewardXP)); err != nil {
			xcontext.Logger(ctx).Errorf("Cannot grant xp: %v", err)
			return nil, errorx.Unknown
		}

		xp := mission.RewardXP
		resp.XPGained = &xp
	}

	if mission.RewardBadgeID.Valid {
		b, awarded, err := d.badgeRegistry.Award(ctx, user.ID, mission.RewardBadgeID.String)
		if err != nil {
			var errx errorx.Error
			if !errors.As(err, &errx) {
				xcontext.Logger(ctx).Errorf("Cannot award badge: %v", err)
				return nil, errorx.Unknown
			}

			xcontext.Logger(ctx).Errorf("Cannot award badge of mission %s: %v", mission.MissionID, err)
		} else if awarded {
			converted := model.ConvertBadge(b)
			resp.BadgeAwarded = &converted
		}
	}

	common.PromCounters[common.MissionCompletedTotal].WithLabelValues(kind.String()).Inc()
	return resp, nil
}

func (d *missionDomain) DirectivesForUser(
	ctx context.Context, req *model.GetDirectivesRequest,
) (*model.GetDirectivesResponse, error) {
	user, err := d.userRepo.GetByID(ctx, xcontext.RequestUserID(ctx))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.NotFound, "Not found user")
		}

		xcontext.Logger(ctx).Errorf("Cannot get user: %v", err)
		return nil, errorx.Unknown
	}

	missions, err := d.missionRepo.GetActive(ctx, xcontext.Configs(ctx).Mission.DirectiveLimit)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get active missions: %v", err)
		return nil, errorx.Unknown
	}

	links, err := d.userMissionRepo.GetByUserID(ctx, user.ID)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get user missions: %v", err)
		return nil, errorx.Unknown
	}

	linkMap := map[string]entity.UserMission{}
	for _, link := range links {
		linkMap[link.MissionID] = link
	}

	badgeIDs := []string{}
	for _, mission := range missions {
		if mission.RewardBadgeID.Valid {
			badgeIDs = append(badgeIDs, mission.RewardBadgeID.String)
		}
	}

	badges, err := d.badgeRepo.GetByBadgeIDs(ctx, badgeIDs)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get reward badges: %v", err)
		return nil, errorx.Unknown
	}

	badgeMap := map[string]*entity.Badge{}
	for i := range badges {
		badgeMap[badges[i].BadgeID] = &badges[i]
	}

	now := time.Now()
	dailyCheckinID := xcontext.Configs(ctx).Mission.DailyCheckinID
	directives := []model.Directive{}
	for i := range missions {
		mission := &missions[i]
		link, hasLink := linkMap[mission.MissionID]

		status := entity.UserMissionAvailable
		var current, required *int64

		switch missionclaim.Classify(mission, dailyCheckinID) {
		case missionclaim.DailyCheckin:
			if user.LastDailyCheckinAt.Valid && dateutil.IsSameDay(user.LastDailyCheckinAt.Time, now) {
				status = entity.UserMissionCompleted
			}

		case missionclaim.AllyThreshold:
			if hasLink && link.Status == entity.UserMissionCompleted {
				status = entity.UserMissionCompleted
			} else {
				if user.AlliesCount < mission.RequiredAllies {
					status = entity.UserMissionInProgress
				}

				alliesCount, requiredAllies := user.AlliesCount, mission.RequiredAllies
				current, required = &alliesCount, &requiredAllies
			}

		case missionclaim.OAuthLinked, missionclaim.Standard:
			if hasLink {
				status = link.Status
			}
		}

		var rewardBadge *entity.Badge
		if mission.RewardBadgeID.Valid {
			rewardBadge = badgeMap[mission.RewardBadgeID.String]
		}

		directive := model.ConvertDirective(*mission, rewardBadge, string(status))
		directive.CurrentProgress = current
		directive.RequiredProgress = required
		if status == entity.UserMissionCompleted {
			directive.Action.Type = string(entity.ActionCompleted)
		}

		directives = append(directives, directive)
	}

	return &model.GetDirectivesResponse{Directives: directives}, nil
}

func (d *missionDomain) MissionProgressSummary(
	ctx context.Context, req *model.GetMissionSummaryRequest,
) (*model.GetMissionSummaryResponse, error) {
	completed, err := d.userMissionRepo.CountByStatus(ctx, xcontext.RequestUserID(ctx), entity.UserMissionCompleted)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot count completed missions: %v", err)
		return nil, errorx.Unknown
	}

	total, err := d.missionRepo.CountActive(ctx)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot count active missions: %v", err)
		return nil, errorx.Unknown
	}

	return &model.GetMissionSummaryResponse{
		CompletedMissions: completed,
		TotalMissions:     total,
		ActiveSignals:     completed,
	}, nil
}

func (d *missionDomain) isCompleted(ctx context.Context, userID, missionID string) (bool, error) {
	link, err := d.userMissionRepo.Get(ctx, userID, missionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, nil
		}

		return false, err
	}

	return link.Status == entity.UserMissionCompleted, nil
}

func (d *missionDomain) ensureLink(ctx context.Context, userID, missionID string) error {
	return d.userMissionRepo.CreateIfNotExists(ctx, &entity.UserMission{
		Base:      entity.Base{ID: idutil.New()},
		UserID:    userID,
		MissionID: missionID,
		Status:    entity.UserMissionAvailable,
	})
}

func (d *missionDomain) setStatus(
	ctx context.Context, userID, missionID string, status entity.UserMissionStatus,
) error {
	if err := d.ensureLink(ctx, userID, missionID); err != nil {
		return err
	}

	return d.userMissionRepo.UpdateStatus(ctx, userID, missionID, status)
}
