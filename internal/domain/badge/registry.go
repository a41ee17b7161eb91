package badge

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/questx-lab/signal/internal/entity"
	"github.com/questx-lab/signal/internal/repository"
	"github.com/questx-lab/signal/pkg/errorx"
	"gorm.io/gorm"
)

// Registry gives badges to users, at most once per user and badge.
type Registry struct {
	badgeRepo     repository.BadgeRepository
	userBadgeRepo repository.UserBadgeRepository
}

func NewRegistry(
	badgeRepo repository.BadgeRepository,
	userBadgeRepo repository.UserBadgeRepository,
) *Registry {
	return &Registry{badgeRepo: badgeRepo, userBadgeRepo: userBadgeRepo}
}

// Award returns the badge definition and whether this call gave it to the
// user. An unknown badge returns a NotFound errorx.
func (r *Registry) Award(ctx context.Context, userID, badgeID string) (*entity.Badge, bool, error) {
	badge, err := r.badgeRepo.GetByBadgeID(ctx, badgeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, false, errorx.New(errorx.NotFound, "Not found badge %s", badgeID)
		}

		return nil, false, err
	}

	held, err := r.userBadgeRepo.Exists(ctx, userID, badgeID)
	if err != nil {
		return nil, false, err
	}

	if held {
		return badge, false, nil
	}

	created, err := r.userBadgeRepo.Create(ctx, &entity.UserBadge{
		Base:       entity.Base{ID: uuid.NewString()},
		UserID:     userID,
		BadgeID:    badgeID,
		AcquiredAt: time.Now().UTC(),
	})
	if err != nil {
		return nil, false, err
	}

	return badge, created, nil
}
