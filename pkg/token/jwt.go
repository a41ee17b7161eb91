package token

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/mitchellh/mapstructure"
)

var (
	ErrExpired     = errors.New("token is expired")
	ErrEmptySecret = errors.New("token secret is empty")
)

type Engine interface {
	// Generate creates a token string bound to subject, containing the obj and
	// expiration.
	Generate(subject string, expiration time.Duration, obj any) (string, error)

	// Verify if token is invalid or expired. Then parse the obj from token to
	// obj parameter and return the subject. The obj parameter must be a pointer.
	Verify(token string, obj any) (string, error)
}

type standardClaims struct {
	jwt.RegisteredClaims
	Object any `json:"obj"`
}

type jwtEngine struct {
	secret string
}

// NewEngine returns ErrEmptySecret when secret is empty.
func NewEngine(secret string) (Engine, error) {
	if secret == "" {
		return nil, ErrEmptySecret
	}

	return &jwtEngine{secret: secret}, nil
}

func (e *jwtEngine) Generate(subject string, expiration time.Duration, obj any) (string, error) {
	now := time.Now()
	claims := standardClaims{
		Object: obj,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			ExpiresAt: jwt.NewNumericDate(now.Add(expiration)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(e.secret))
}

func (e *jwtEngine) Verify(token string, obj any) (string, error) {
	var claims standardClaims
	_, err := jwt.ParseWithClaims(
		token, &claims,
		func(t *jwt.Token) (any, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
			}
			return []byte(e.secret), nil
		},
	)
	if err != nil {
		var verr *jwt.ValidationError
		if errors.As(err, &verr) && verr.Errors&jwt.ValidationErrorExpired != 0 {
			return "", ErrExpired
		}

		return "", err
	}

	if err := mapstructure.Decode(claims.Object, obj); err != nil {
		return "", err
	}

	return claims.Subject, nil
}
