package model

type RegisterRequest struct {
	WalletAddress    string `json:"wallet_address"`
	ReferralCodeUsed string `json:"referral_code_used"`
}

type RegisterResponse struct {
	Status                 string `json:"status"`
	Message                string `json:"message"`
	WalletAddress          string `json:"wallet_address"`
	Points                 uint64 `json:"points"`
	UserReferralCode       string `json:"user_referral_code"`
	InvitedByWalletAddress string `json:"invited_by_wallet_address,omitempty"`
}

type HealthRequest struct{}

type HealthResponse struct {
	Status   string `json:"status"`
	Database string `json:"database"`
	Cache    string `json:"cache"`
}
