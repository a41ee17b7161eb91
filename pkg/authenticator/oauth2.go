package authenticator

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/questx-lab/signal/config"
	"github.com/questx-lab/signal/pkg/api"
	"github.com/questx-lab/signal/pkg/xcontext"
	"golang.org/x/oauth2"
)

type oauth2Service struct {
	oauth2.Config

	name         string
	apiGenerator api.Generator
}

func NewOAuth2Service(cfg config.OAuth2Configs) *oauth2Service {
	return &oauth2Service{
		name: cfg.Name,
		Config: oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			Endpoint: oauth2.Endpoint{
				AuthURL:   cfg.AuthorizeURL,
				TokenURL:  cfg.TokenURL,
				AuthStyle: oauth2.AuthStyleInHeader,
			},
			RedirectURL: cfg.CallbackURL,
			Scopes:      cfg.Scopes,
		},
		apiGenerator: api.NewGenerator(cfg.APIEndpoint),
	}
}

func (s *oauth2Service) Service() string {
	return s.name
}

func (s *oauth2Service) AuthCodeURL(state, codeChallenge string) string {
	return s.Config.AuthCodeURL(state,
		oauth2.SetAuthURLParam("code_challenge", codeChallenge),
		oauth2.SetAuthURLParam("code_challenge_method", "S256"),
	)
}

func (s *oauth2Service) Exchange(ctx context.Context, code, codeVerifier string) (string, error) {
	ctx = context.WithValue(ctx, oauth2.HTTPClient, xcontext.HTTPClient(ctx))
	token, err := s.Config.Exchange(ctx, code, oauth2.SetAuthURLParam("code_verifier", codeVerifier))
	if err != nil {
		return "", err
	}

	if token.AccessToken == "" {
		return "", errors.New("empty access token")
	}

	return token.AccessToken, nil
}

func (s *oauth2Service) GetUser(ctx context.Context, accessToken string) (OAuth2User, error) {
	resp, err := s.apiGenerator.New("/2/users/me").
		Query(api.Parameter{"user.fields": "id,username,name"}).
		GET(ctx, api.OAuth2("Bearer", accessToken))
	if err != nil {
		return OAuth2User{}, err
	}

	if resp.Code != http.StatusOK {
		return OAuth2User{}, fmt.Errorf("unexpected status code %d", resp.Code)
	}

	body, err := resp.JSON()
	if err != nil {
		return OAuth2User{}, err
	}

	id, err := body.GetString("data.id")
	if err != nil {
		return OAuth2User{}, err
	}

	username, err := body.GetString("data.username")
	if err != nil {
		return OAuth2User{}, err
	}

	if id == "" || username == "" {
		return OAuth2User{}, errors.New("incomplete profile")
	}

	return OAuth2User{ID: id, Username: username}, nil
}
