package model

type UserProfile struct {
	CommanderName       string  `json:"commanderName"`
	RankBadgeURL        string  `json:"rankBadgeUrl,omitempty"`
	RankProgressPercent float64 `json:"rankProgressPercent"`
	NextRank            string  `json:"nextRank,omitempty"`
}

type UserSystemStatus struct {
	StarDate           string  `json:"starDate"`
	SignalStatus       string  `json:"signalStatus"`
	NetworkLoadPercent float64 `json:"networkLoadPercent"`
	AnomaliesResolved  int64   `json:"anomaliesResolved"`
}

type UserTwitterData struct {
	TwitterUserID   string `json:"twitter_user_id"`
	TwitterUsername string `json:"twitter_username"`
	ConnectedAt     string `json:"connected_at"`
}

type UserPublic struct {
	ID            string           `json:"id"`
	WalletAddress string           `json:"walletAddress"`
	Username      string           `json:"username"`
	Email         string           `json:"email,omitempty"`
	Rank          string           `json:"rank"`
	XP            uint64           `json:"xp"`
	CigarBalance  float64          `json:"cigarBalance"`
	ReferralCode  string           `json:"referralCode"`
	AlliesCount   int64            `json:"alliesCount"`
	Profile       UserProfile      `json:"profile"`
	SystemStatus  UserSystemStatus `json:"systemStatus"`
	TwitterData   *UserTwitterData `json:"twitter_data,omitempty"`
	LastLogin     string           `json:"lastLogin,omitempty"`
	CreatedAt     string           `json:"createdAt"`
}

type GetMeRequest struct{}

type GetMeResponse UserPublic

type UpdateProfileRequest struct {
	Username      string `json:"username"`
	Email         string `json:"email"`
	CommanderName string `json:"commanderName"`
}

type UpdateProfileResponse UserPublic

type ListAlliesRequest struct {
	Page  int `form:"page"`
	Limit int `form:"limit"`
}

type Ally struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Rank     string `json:"rank"`
	JoinedAt string `json:"joinedAt"`
}

type ListAlliesResponse struct {
	TotalAllies int64  `json:"totalAllies"`
	Allies      []Ally `json:"allies"`
	Page        int    `json:"page"`
	Limit       int    `json:"limit"`
	TotalPages  int    `json:"totalPages"`
}
