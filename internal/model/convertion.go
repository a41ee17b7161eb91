package model

import (
	"time"

	"github.com/questx-lab/signal/internal/entity"
)

const DefaultTimeLayout string = time.RFC3339Nano

// ConvertUser builds the public view of user. The volatile parts of the
// system status are filled by the caller.
func ConvertUser(user *entity.User) UserPublic {
	if user == nil {
		return UserPublic{}
	}

	result := UserPublic{
		ID:            user.ID,
		WalletAddress: user.WalletAddress,
		Username:      user.Username,
		Email:         user.Email.String,
		Rank:          user.Rank,
		XP:            user.XP,
		CigarBalance:  user.CigarBalance,
		ReferralCode:  user.ReferralCode,
		AlliesCount:   user.AlliesCount,
		Profile: UserProfile{
			CommanderName:       user.CommanderName,
			RankBadgeURL:        user.RankBadgeURL,
			RankProgressPercent: user.RankProgressPercent,
			NextRank:            user.NextRank,
		},
		SystemStatus: UserSystemStatus{
			AnomaliesResolved: user.AnomaliesResolved,
		},
		CreatedAt: user.CreatedAt.UTC().Format(DefaultTimeLayout),
	}

	if user.XUserID.Valid {
		result.TwitterData = &UserTwitterData{
			TwitterUserID:   user.XUserID.String,
			TwitterUsername: user.XUsername,
			ConnectedAt:     user.XConnectedAt.Time.UTC().Format(DefaultTimeLayout),
		}
	}

	if user.LastLoginAt.Valid {
		result.LastLogin = user.LastLoginAt.Time.UTC().Format(DefaultTimeLayout)
	}

	return result
}

func ConvertAlly(user entity.User) Ally {
	return Ally{
		ID:       user.ID,
		Username: user.Username,
		Rank:     user.Rank,
		JoinedAt: user.CreatedAt.UTC().Format(DefaultTimeLayout),
	}
}

func ConvertBadge(badge *entity.Badge) Badge {
	if badge == nil {
		return Badge{}
	}

	return Badge{
		BadgeID:     badge.BadgeID,
		Name:        badge.Name,
		ImageURL:    badge.ImageURL,
		Description: badge.Description,
	}
}

func ConvertUserBadge(link entity.UserBadge, badge *entity.Badge) Badge {
	result := ConvertBadge(badge)
	result.ID = link.ID
	result.BadgeID = link.BadgeID
	result.AcquiredAt = link.AcquiredAt.UTC().Format(DefaultTimeLayout)
	return result
}

func ConvertDirective(mission entity.Mission, badge *entity.Badge, status string) Directive {
	result := Directive{
		ID:          mission.ID,
		MissionID:   mission.MissionID,
		Title:       mission.Title,
		Description: mission.Description,
		Type:        string(mission.Category),
		RewardXP:    mission.RewardXP,
		Status:      status,
		Action: MissionAction{
			Label: mission.ActionLabel,
			Type:  string(mission.ActionType),
			URL:   mission.ActionURL,
		},
		Prerequisites: mission.Prerequisites,
	}

	if badge != nil {
		b := ConvertBadge(badge)
		result.RewardBadge = &b
	}

	return result
}
