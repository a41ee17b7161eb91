package domain

import (
	"context"

	"github.com/questx-lab/signal/internal/entity"
	"github.com/questx-lab/signal/internal/model"
	"github.com/questx-lab/signal/internal/repository"
	"github.com/questx-lab/signal/pkg/errorx"
	"github.com/questx-lab/signal/pkg/xcontext"
)

type BadgeDomain interface {
	UserBadges(context.Context, *model.GetMyBadgesRequest) (*model.GetMyBadgesResponse, error)
}

type badgeDomain struct {
	badgeRepo     repository.BadgeRepository
	userBadgeRepo repository.UserBadgeRepository
}

func NewBadgeDomain(
	badgeRepo repository.BadgeRepository,
	userBadgeRepo repository.UserBadgeRepository,
) BadgeDomain {
	return &badgeDomain{badgeRepo: badgeRepo, userBadgeRepo: userBadgeRepo}
}

func (d *badgeDomain) UserBadges(
	ctx context.Context, req *model.GetMyBadgesRequest,
) (*model.GetMyBadgesResponse, error) {
	links, err := d.userBadgeRepo.GetByUserID(ctx, xcontext.RequestUserID(ctx))
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get user badges: %v", err)
		return nil, errorx.Unknown
	}

	badgeIDs := []string{}
	for _, link := range links {
		badgeIDs = append(badgeIDs, link.BadgeID)
	}

	badges, err := d.badgeRepo.GetByBadgeIDs(ctx, badgeIDs)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get badges: %v", err)
		return nil, errorx.Unknown
	}

	badgeMap := map[string]*entity.Badge{}
	for i := range badges {
		badgeMap[badges[i].BadgeID] = &badges[i]
	}

	result := []model.Badge{}
	for _, link := range links {
		badge, ok := badgeMap[link.BadgeID]
		if !ok {
			xcontext.Logger(ctx).Warnf("Not found definition of badge %s", link.BadgeID)
			continue
		}

		result = append(result, model.ConvertUserBadge(link, badge))
	}

	return &model.GetMyBadgesResponse{Badges: result, Total: len(result)}, nil
}
