package migration

import (
	"context"
	"database/sql"

	"github.com/questx-lab/signal/internal/entity"
	"github.com/questx-lab/signal/internal/repository"
	"github.com/questx-lab/signal/pkg/idutil"
	"github.com/questx-lab/signal/pkg/xcontext"
)

func DefaultBadges() []entity.Badge {
	return []entity.Badge{
		{
			BadgeID:     "telegram-join-master",
			Name:        "Telegram Join Master",
			ImageURL:    "https://placehold.co/64x64/0088CC/FFF?text=TG",
			Description: "Joined the official Telegram channel.",
			Criteria:    "Complete the join-telegram directive.",
		},
		{
			BadgeID:     "x-linked",
			Name:        "Signal Relay",
			ImageURL:    "https://placehold.co/64x64/000/FFF?text=X",
			Description: "Connected an X account.",
			Criteria:    "Link an X account to the profile.",
		},
		{
			BadgeID:     "recruiter",
			Name:        "Recruiter",
			ImageURL:    "https://placehold.co/64x64/AA3300/FFF?text=RC",
			Description: "Brought new agents into the network.",
			Criteria:    "Invite 3 allies with the referral code.",
		},
	}
}

// DefaultMissions uses the configured ids of the daily check-in and the X
// link missions.
func DefaultMissions(ctx context.Context) []entity.Mission {
	cfg := xcontext.Configs(ctx).Mission
	return []entity.Mission{
		{
			MissionID:     "join-telegram",
			Title:         "Join the Telegram channel",
			Description:   "Join the official channel to receive transmissions.",
			Category:      entity.MissionSocial,
			RewardXP:      50,
			RewardBadgeID: sql.NullString{Valid: true, String: "telegram-join-master"},
			ActionLabel:   "Join",
			ActionType:    entity.ActionExternalLink,
			ActionURL:     "https://t.me/cigar_ds",
			IsActive:      true,
			SortOrder:     sql.NullInt64{Valid: true, Int64: 1},
			Verification:  "auto",
		},
		{
			MissionID:     cfg.LinkXMissionID,
			Title:         "Connect your X account",
			Description:   "Link an X account to relay signals.",
			Category:      entity.MissionSocial,
			RewardXP:      75,
			RewardBadgeID: sql.NullString{Valid: true, String: "x-linked"},
			ActionLabel:   "Connect",
			ActionType:    entity.ActionOAuthConnect,
			IsActive:      true,
			SortOrder:     sql.NullInt64{Valid: true, Int64: 2},
		},
		{
			MissionID:   cfg.DailyCheckinID,
			Title:       "Daily check-in",
			Description: "Report to the command center once a day.",
			Category:    entity.MissionEngagement,
			RewardXP:    10,
			ActionLabel: "Check in",
			ActionType:  entity.ActionAPICall,
			IsActive:    true,
			SortOrder:   sql.NullInt64{Valid: true, Int64: 3},
		},
		{
			MissionID:      "recruit-allies",
			Title:          "Recruit 3 allies",
			Description:    "Invite 3 agents with your referral code.",
			Category:       entity.MissionCommunity,
			RewardXP:       150,
			RewardBadgeID:  sql.NullString{Valid: true, String: "recruiter"},
			ActionLabel:    "Claim",
			ActionType:     entity.ActionClaimIfEligible,
			IsActive:       true,
			RequiredAllies: 3,
			SortOrder:      sql.NullInt64{Valid: true, Int64: 4},
		},
		{
			MissionID:    "share-transmission",
			Title:        "Share a transmission",
			Description:  "Post about the network and submit the link.",
			Category:     entity.MissionEngagement,
			RewardXP:     40,
			ActionLabel:  "Submit",
			ActionType:   entity.ActionAPICall,
			IsActive:     true,
			SortOrder:    sql.NullInt64{Valid: true, Int64: 5},
			Verification: "validation_data",
		},
	}
}

// Seed creates or refreshes the default badges and missions. It can run
// any number of times.
func Seed(ctx context.Context, badgeRepo repository.BadgeRepository, missionRepo repository.MissionRepository) error {
	for _, badge := range DefaultBadges() {
		badge.ID = idutil.New()
		if err := badgeRepo.Upsert(ctx, &badge); err != nil {
			return err
		}
	}

	for _, mission := range DefaultMissions(ctx) {
		mission.ID = idutil.New()
		if err := missionRepo.Upsert(ctx, &mission); err != nil {
			return err
		}
	}

	xcontext.Logger(ctx).Infof("Seeded default badges and missions")
	return nil
}
