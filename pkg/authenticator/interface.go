package authenticator

import (
	"context"
)

type OAuth2User struct {
	ID       string
	Username string
}

// IOAuth2Service is an authorization-code provider with PKCE.
type IOAuth2Service interface {
	Service() string

	// AuthCodeURL builds the URL the user is redirected to for consent.
	AuthCodeURL(state, codeChallenge string) string

	// Exchange trades an authorization code for an access token.
	Exchange(ctx context.Context, code, codeVerifier string) (string, error)

	// GetUser fetches the profile of the owner of accessToken.
	GetUser(ctx context.Context, accessToken string) (OAuth2User, error)
}
