package testutil

import (
	"context"
	"database/sql"

	"github.com/questx-lab/signal/internal/entity"
	"github.com/questx-lab/signal/pkg/xcontext"
)

const (
	User1ID     = "user1"
	User1Wallet = "0x1111111111111111111111111111111111111111"
	User1Code   = "CGRUSER01"
	User2ID     = "user2"
	User2Wallet = "0x2222222222222222222222222222222222222222"
	User2Code   = "CGRUSER02"

	MissionStandardID = "join-telegram"
	MissionManualID   = "share-story"
	MissionDataID     = "submit-tweet"
	MissionDailyID    = "daily-checkin"
	MissionAlliesID   = "recruit-allies"
	MissionConnectXID = "connect-x-account"
	MissionInactiveID = "retired-mission"
	MissionPrereqID   = "advanced-ops"

	BadgeTelegramID = "telegram-join-master"
	BadgeRecruiter  = "recruiter"
)

// CreateFixtureDb inserts two users, one mission of every kind and two
// badges.
func CreateFixtureDb(ctx context.Context) {
	InsertUsers(ctx)
	InsertBadges(ctx)
	InsertMissions(ctx)
}

func InsertUsers(ctx context.Context) {
	users := []*entity.User{
		{
			Base:          entity.Base{ID: User1ID},
			WalletAddress: User1Wallet,
			Username:      "Nova1",
			ReferralCode:  User1Code,
			Rank:          "Observer",
			CommanderName: "Nova1",
			IsActive:      true,
		},
		{
			Base:          entity.Base{ID: User2ID},
			WalletAddress: User2Wallet,
			Username:      "Orion2",
			ReferralCode:  User2Code,
			Rank:          "Observer",
			CommanderName: "Orion2",
			IsActive:      true,
		},
	}

	for _, u := range users {
		if err := xcontext.DB(ctx).Create(u).Error; err != nil {
			panic(err)
		}
	}
}

func InsertBadges(ctx context.Context) {
	badges := []*entity.Badge{
		{
			Base:     entity.Base{ID: "badge1"},
			BadgeID:  BadgeTelegramID,
			Name:     "Telegram Join Master",
			ImageURL: "https://placehold.co/64x64?text=TG",
		},
		{
			Base:     entity.Base{ID: "badge2"},
			BadgeID:  BadgeRecruiter,
			Name:     "Recruiter",
			ImageURL: "https://placehold.co/64x64?text=RC",
		},
	}

	for _, b := range badges {
		if err := xcontext.DB(ctx).Create(b).Error; err != nil {
			panic(err)
		}
	}
}

func InsertMissions(ctx context.Context) {
	missions := []*entity.Mission{
		{
			Base:          entity.Base{ID: "mission1"},
			MissionID:     MissionStandardID,
			Title:         "Join Telegram",
			Category:      entity.MissionSocial,
			RewardXP:      50,
			RewardBadgeID: sql.NullString{Valid: true, String: BadgeTelegramID},
			ActionLabel:   "Join",
			ActionType:    entity.ActionExternalLink,
			ActionURL:     "https://t.me/signal",
			IsActive:      true,
			SortOrder:     sql.NullInt64{Valid: true, Int64: 1},
			Verification:  "auto",
		},
		{
			Base:         entity.Base{ID: "mission2"},
			MissionID:    MissionManualID,
			Title:        "Share your story",
			Category:     entity.MissionCommunity,
			RewardXP:     30,
			ActionLabel:  "Submit",
			ActionType:   entity.ActionAPICall,
			IsActive:     true,
			SortOrder:    sql.NullInt64{Valid: true, Int64: 2},
			Verification: "manual",
		},
		{
			Base:         entity.Base{ID: "mission3"},
			MissionID:    MissionDataID,
			Title:        "Submit a tweet",
			Category:     entity.MissionEngagement,
			RewardXP:     20,
			ActionLabel:  "Submit",
			ActionType:   entity.ActionAPICall,
			IsActive:     true,
			SortOrder:    sql.NullInt64{Valid: true, Int64: 3},
			Verification: "validation_data",
		},
		{
			Base:        entity.Base{ID: "mission4"},
			MissionID:   MissionDailyID,
			Title:       "Daily check-in",
			Category:    entity.MissionEngagement,
			RewardXP:    10,
			ActionLabel: "Check in",
			ActionType:  entity.ActionAPICall,
			IsActive:    true,
			SortOrder:   sql.NullInt64{Valid: true, Int64: 4},
		},
		{
			Base:           entity.Base{ID: "mission5"},
			MissionID:      MissionAlliesID,
			Title:          "Recruit 2 allies",
			Category:       entity.MissionCommunity,
			RewardXP:       100,
			RewardBadgeID:  sql.NullString{Valid: true, String: BadgeRecruiter},
			ActionLabel:    "Claim",
			ActionType:     entity.ActionClaimIfEligible,
			IsActive:       true,
			RequiredAllies: 2,
			SortOrder:      sql.NullInt64{Valid: true, Int64: 5},
		},
		{
			Base:        entity.Base{ID: "mission6"},
			MissionID:   MissionConnectXID,
			Title:       "Connect X account",
			Category:    entity.MissionSocial,
			RewardXP:    75,
			ActionLabel: "Connect",
			ActionType:  entity.ActionOAuthConnect,
			IsActive:    true,
			SortOrder:   sql.NullInt64{Valid: true, Int64: 6},
		},
		{
			Base:        entity.Base{ID: "mission7"},
			MissionID:   MissionInactiveID,
			Title:       "Retired",
			Category:    entity.MissionSpecial,
			RewardXP:    1000,
			ActionLabel: "None",
			ActionType:  entity.ActionDisabled,
			IsActive:    false,
		},
		{
			Base:          entity.Base{ID: "mission8"},
			MissionID:     MissionPrereqID,
			Title:         "Advanced operations",
			Category:      entity.MissionSpecial,
			RewardXP:      40,
			ActionLabel:   "Start",
			ActionType:    entity.ActionAPICall,
			IsActive:      true,
			Verification:  "auto",
			Prerequisites: entity.Array[string]{MissionStandardID},
		},
	}

	for _, m := range missions {
		if err := xcontext.DB(ctx).Create(m).Error; err != nil {
			panic(err)
		}
	}
}
