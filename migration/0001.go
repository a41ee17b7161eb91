package migration

import (
	"context"

	"github.com/questx-lab/signal/internal/repository"
)

// migrate0001 seeds the default badges and missions.
func migrate0001(ctx context.Context) error {
	return Seed(ctx, repository.NewBadgeRepository(), repository.NewMissionRepository())
}
