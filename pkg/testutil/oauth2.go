package testutil

import (
	"context"
	"fmt"

	"github.com/questx-lab/signal/pkg/authenticator"
)

type MockOAuth2 struct {
	Name            string
	AuthCodeURLFunc func(state, codeChallenge string) string
	ExchangeFunc    func(ctx context.Context, code, codeVerifier string) (string, error)
	GetUserFunc     func(ctx context.Context, accessToken string) (authenticator.OAuth2User, error)
}

func NewMockOAuth2(name string) *MockOAuth2 {
	return &MockOAuth2{Name: name}
}

func (m *MockOAuth2) Service() string {
	return m.Name
}

func (m *MockOAuth2) AuthCodeURL(state, codeChallenge string) string {
	if m.AuthCodeURLFunc != nil {
		return m.AuthCodeURLFunc(state, codeChallenge)
	}

	return fmt.Sprintf("https://%s.test/authorize?state=%s&code_challenge=%s", m.Name, state, codeChallenge)
}

func (m *MockOAuth2) Exchange(ctx context.Context, code, codeVerifier string) (string, error) {
	if m.ExchangeFunc != nil {
		return m.ExchangeFunc(ctx, code, codeVerifier)
	}

	return "access-token", nil
}

func (m *MockOAuth2) GetUser(ctx context.Context, accessToken string) (authenticator.OAuth2User, error) {
	if m.GetUserFunc != nil {
		return m.GetUserFunc(ctx, accessToken)
	}

	return authenticator.OAuth2User{}, nil
}
