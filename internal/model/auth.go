package model

import "net/http"

// AccessToken is the payload of a session token, its subject is the wallet
// address.
type AccessToken struct {
	UserID string `mapstructure:"user_id" json:"user_id"`
}

type GetChallengeRequest struct {
	WalletAddress string `form:"walletAddress"`
}

type GetChallengeResponse struct {
	MessageToSign string `json:"messageToSign"`
	Nonce         string `json:"nonce"`
}

type ConnectRequest struct {
	WalletAddress     string `json:"walletAddress"`
	Message           string `json:"message"`
	Signature         string `json:"signature"`
	Nonce             string `json:"nonce"`
	ReferralCodeInput string `json:"referral_code_input"`
}

type ConnectResponse struct {
	AccessToken string     `json:"access_token"`
	TokenType   string     `json:"token_type"`
	User        UserPublic `json:"user"`
}

// X account linking
type InitiateLinkRequest struct{}

type InitiateLinkResponse struct {
	RedirectURL string `json:"redirect_url"`
}

type LinkCallbackRequest struct {
	Code  string `form:"code"`
	State string `form:"state"`
	Error string `form:"error"`
}

type LinkCallbackResponse struct {
	RedirectURL string `json:"-"`
}

func (r LinkCallbackResponse) RedirectInfo() (int, string) {
	return http.StatusTemporaryRedirect, r.RedirectURL
}
