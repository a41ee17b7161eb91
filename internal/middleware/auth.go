package middleware

import (
	"context"
	"errors"
	"strings"

	"github.com/questx-lab/signal/internal/model"
	"github.com/questx-lab/signal/internal/repository"
	"github.com/questx-lab/signal/pkg/errorx"
	"github.com/questx-lab/signal/pkg/router"
	"github.com/questx-lab/signal/pkg/token"
	"github.com/questx-lab/signal/pkg/xcontext"
	"gorm.io/gorm"
)

const bearerPrefix = "bearer "

type AuthVerifier struct {
	userRepo repository.UserRepository
}

func NewAuthVerifier(userRepo repository.UserRepository) *AuthVerifier {
	return &AuthVerifier{userRepo: userRepo}
}

// Middleware resolves the bearer token into the request user. The token
// subject must still match the wallet of an active user.
func (a *AuthVerifier) Middleware() router.MiddlewareFunc {
	return func(ctx context.Context) (context.Context, error) {
		tokenString := bearerToken(xcontext.HTTPRequest(ctx).Header.Get("Authorization"))
		if tokenString == "" {
			return nil, errorx.New(errorx.Unauthenticated, "Not authenticated")
		}

		var accessToken model.AccessToken
		subject, err := xcontext.TokenEngine(ctx).Verify(tokenString, &accessToken)
		if err != nil {
			if errors.Is(err, token.ErrExpired) {
				return nil, errorx.New(errorx.TokenExpired, "Token expired")
			}

			return nil, errorx.New(errorx.Unauthenticated, "Could not validate credentials")
		}

		user, err := a.userRepo.GetByID(ctx, accessToken.UserID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, errorx.New(errorx.Unauthenticated, "Could not validate credentials")
			}

			xcontext.Logger(ctx).Errorf("Cannot get user: %v", err)
			return nil, errorx.Unknown
		}

		if !user.IsActive {
			return nil, errorx.New(errorx.Unauthenticated, "Inactive account")
		}

		if user.WalletAddress != subject {
			return nil, errorx.New(errorx.Unauthenticated, "Could not validate credentials")
		}

		return xcontext.WithRequestUserID(ctx, user.ID), nil
	}
}

func bearerToken(header string) string {
	if len(header) < len(bearerPrefix) || !strings.EqualFold(header[:len(bearerPrefix)], bearerPrefix) {
		return ""
	}

	return strings.TrimSpace(header[len(bearerPrefix):])
}
