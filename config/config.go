package config

import (
	"errors"
	"fmt"
	"time"
)

// MinTokenSecretLength applies outside the local environment.
const MinTokenSecretLength = 32

var (
	ErrMissingTokenSecret = errors.New("TOKEN_SECRET is required")
	ErrWeakTokenSecret    = fmt.Errorf("TOKEN_SECRET must be at least %d bytes", MinTokenSecretLength)
)

type Configs struct {
	Env     string
	Project ProjectConfigs

	Database         DatabaseConfigs
	Redis            RedisConfigs
	ApiServer        ServerConfigs
	RegisterServer   ServerConfigs
	PrometheusServer ServerConfigs
	Log              LogConfigs
	Auth             AuthConfigs
	Rank             RankConfigs
	Identity         IdentityConfigs
	Mission          MissionConfigs
	Registration     RegistrationConfigs
	Eth              EthConfigs
	RateLimit        RateLimitConfigs
	Cors             CorsConfigs
}

// Validate rejects configurations the server must not start with.
func (c Configs) Validate() error {
	if c.Auth.TokenSecret == "" {
		return ErrMissingTokenSecret
	}

	if c.Env != "local" && len(c.Auth.TokenSecret) < MinTokenSecretLength {
		return ErrWeakTokenSecret
	}

	return nil
}

type ProjectConfigs struct {
	Name        string
	FrontendURL string
}

type DatabaseConfigs struct {
	Host     string
	Port     string
	Database string
	User     string
	Password string
	LogLevel string
}

func (d *DatabaseConfigs) ConnectionString() string {
	return fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=UTC",
		d.User,
		d.Password,
		d.Host,
		d.Port,
		d.Database,
	)
}

type RedisConfigs struct {
	Addr     string
	Password string
	DB       int
}

type ServerConfigs struct {
	Host string
	Port string
}

func (s ServerConfigs) Address() string {
	return fmt.Sprintf("%s:%s", s.Host, s.Port)
}

type LogConfigs struct {
	Level string
}

type AuthConfigs struct {
	TokenSecret  string
	SessionToken TokenConfigs
	NonceTTL     time.Duration
	X            OAuth2Configs
}

type TokenConfigs struct {
	Name       string
	Expiration time.Duration
}

type OAuth2Configs struct {
	Name         string
	ClientID     string
	ClientSecret string
	CallbackURL  string
	AuthorizeURL string
	TokenURL     string
	APIEndpoint  string
	Scopes       []string
	StateTTL     time.Duration
}

type RankConfigs struct {
	Tiers []RankTier
}

type RankTier struct {
	Name      string `toml:"name"`
	Threshold uint64 `toml:"threshold"`
	BadgeURL  string `toml:"badge_url"`
}

type IdentityConfigs struct {
	UsernameRetries     int
	ReferralCodeRetries int
	ReferralCodePrefix  string
	ReferralCodeLength  int
}

type MissionConfigs struct {
	DailyCheckinID string
	LinkXMissionID string
	DirectiveLimit int
}

type RegistrationConfigs struct {
	CacheTTL           time.Duration
	ReferralCodeLength int
	ReferralRetries    int
	PointsPerTx        uint64
}

type EthConfigs struct {
	Chain      string
	Rpcs       []string
	RpcTimeout time.Duration
}

type RateLimitConfigs struct {
	// Requests per minute for each client.
	DefaultPerMinute  int
	RegisterPerMinute int
	Burst             int
	IdleTimeout       time.Duration

	// Proxies whose X-Forwarded-For is honored, as IPs or CIDRs. Empty means
	// clients are identified by the socket peer only.
	TrustedProxies []string
}

type CorsConfigs struct {
	AllowedOrigins []string
}
