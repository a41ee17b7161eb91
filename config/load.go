package config

import (
	"errors"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

// Default returns the configuration used when neither a file nor an
// environment variable overrides a field.
func Default() Configs {
	return Configs{
		Env: "local",
		Project: ProjectConfigs{
			Name:        "Cigar DS",
			FrontendURL: "http://localhost:3000",
		},
		Database: DatabaseConfigs{
			Host:     "localhost",
			Port:     "3306",
			Database: "signal",
			User:     "root",
			LogLevel: "warn",
		},
		Redis:            RedisConfigs{Addr: "localhost:6379"},
		ApiServer:        ServerConfigs{Port: "8080"},
		RegisterServer:   ServerConfigs{Port: "8081"},
		PrometheusServer: ServerConfigs{Port: "9090"},
		Log:              LogConfigs{Level: "info"},
		Auth: AuthConfigs{
			SessionToken: TokenConfigs{
				Name:       "access_token",
				Expiration: 7 * 24 * time.Hour,
			},
			NonceTTL: 5 * time.Minute,
			X: OAuth2Configs{
				Name:         "x",
				AuthorizeURL: "https://twitter.com/i/oauth2/authorize",
				TokenURL:     "https://api.twitter.com/2/oauth2/token",
				APIEndpoint:  "https://api.twitter.com",
				Scopes:       []string{"users.read", "tweet.read", "offline.access"},
				StateTTL:     10 * time.Minute,
			},
		},
		Rank: RankConfigs{
			Tiers: []RankTier{
				{Name: "Observer", Threshold: 0, BadgeURL: "https://placehold.co/64x64/333/FFF?text=OBS"},
				{Name: "Ally", Threshold: 100, BadgeURL: "https://placehold.co/64x64/555/FFF?text=ALY"},
				{Name: "Field Agent", Threshold: 500, BadgeURL: "https://placehold.co/64x64/777/FFF?text=FAG"},
				{Name: "Strategist", Threshold: 1500, BadgeURL: "https://placehold.co/64x64/999/FFF?text=STR"},
				{Name: "Commander", Threshold: 5000, BadgeURL: "https://placehold.co/64x64/BBB/000?text=CMD"},
				{Name: "Overseer", Threshold: 15000, BadgeURL: "https://placehold.co/64x64/DDD/000?text=OVR"},
			},
		},
		Identity: IdentityConfigs{
			UsernameRetries:     20,
			ReferralCodeRetries: 10,
			ReferralCodePrefix:  "CGR",
			ReferralCodeLength:  6,
		},
		Mission: MissionConfigs{
			DailyCheckinID: "daily-checkin",
			LinkXMissionID: "connect-x-account",
			DirectiveLimit: 100,
		},
		Registration: RegistrationConfigs{
			CacheTTL:           time.Hour,
			ReferralCodeLength: 8,
			ReferralRetries:    10,
			PointsPerTx:        10,
		},
		Eth: EthConfigs{
			Chain:      "base",
			RpcTimeout: 10 * time.Second,
		},
		RateLimit: RateLimitConfigs{
			DefaultPerMinute:  20,
			RegisterPerMinute: 5,
			Burst:             5,
			IdleTimeout:       10 * time.Minute,
		},
		Cors: CorsConfigs{AllowedOrigins: []string{"*"}},
	}
}

// Load reads the defaults, then the optional TOML file at path, then the
// .env file and the process environment. Later sources win.
func Load(path string) (Configs, error) {
	cfg := Default()

	if path != "" {
		if _, err := toml.DecodeFile(path, &cfg); err != nil {
			return Configs{}, err
		}
	}

	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return Configs{}, err
	}

	applyEnv(&cfg)
	if err := cfg.Validate(); err != nil {
		return Configs{}, err
	}

	return cfg, nil
}

func applyEnv(cfg *Configs) {
	cfg.Env = getEnv("ENV", cfg.Env)
	cfg.Project.Name = getEnv("PROJECT_NAME", cfg.Project.Name)
	cfg.Project.FrontendURL = getEnv("FRONTEND_URL", cfg.Project.FrontendURL)

	cfg.Database.Host = getEnv("MYSQL_HOST", cfg.Database.Host)
	cfg.Database.Port = getEnv("MYSQL_PORT", cfg.Database.Port)
	cfg.Database.Database = getEnv("MYSQL_DATABASE", cfg.Database.Database)
	cfg.Database.User = getEnv("MYSQL_USER", cfg.Database.User)
	cfg.Database.Password = getEnv("MYSQL_PASSWORD", cfg.Database.Password)
	cfg.Database.LogLevel = getEnv("DATABASE_LOG_LEVEL", cfg.Database.LogLevel)

	cfg.Redis.Addr = getEnv("REDIS_ADDRESS", cfg.Redis.Addr)
	cfg.Redis.Password = getEnv("REDIS_PASSWORD", cfg.Redis.Password)
	cfg.Redis.DB = getIntEnv("REDIS_DB", cfg.Redis.DB)

	cfg.ApiServer.Host = getEnv("API_HOST", cfg.ApiServer.Host)
	cfg.ApiServer.Port = getEnv("API_PORT", cfg.ApiServer.Port)
	cfg.RegisterServer.Host = getEnv("REGISTER_HOST", cfg.RegisterServer.Host)
	cfg.RegisterServer.Port = getEnv("REGISTER_PORT", cfg.RegisterServer.Port)
	cfg.PrometheusServer.Port = getEnv("PROMETHEUS_PORT", cfg.PrometheusServer.Port)

	cfg.Log.Level = getEnv("LOG_LEVEL", cfg.Log.Level)

	cfg.Auth.TokenSecret = getEnv("TOKEN_SECRET", cfg.Auth.TokenSecret)
	cfg.Auth.SessionToken.Expiration = getDurationEnv("SESSION_TOKEN_EXPIRATION", cfg.Auth.SessionToken.Expiration)
	cfg.Auth.NonceTTL = getDurationEnv("NONCE_TTL", cfg.Auth.NonceTTL)
	cfg.Auth.X.ClientID = getEnv("X_CLIENT_ID", cfg.Auth.X.ClientID)
	cfg.Auth.X.ClientSecret = getEnv("X_CLIENT_SECRET", cfg.Auth.X.ClientSecret)
	cfg.Auth.X.CallbackURL = getEnv("X_CALLBACK_URL", cfg.Auth.X.CallbackURL)

	cfg.Eth.Rpcs = getListEnv("ETH_RPCS", cfg.Eth.Rpcs)
	cfg.RateLimit.TrustedProxies = getListEnv("TRUSTED_PROXIES", cfg.RateLimit.TrustedProxies)
	cfg.Cors.AllowedOrigins = getListEnv("CORS_ALLOWED_ORIGINS", cfg.Cors.AllowedOrigins)
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		return value
	}

	return fallback
}

func getIntEnv(key string, fallback int) int {
	value := getEnv(key, "")
	if value == "" {
		return fallback
	}

	i, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}

	return i
}

func getDurationEnv(key string, fallback time.Duration) time.Duration {
	value := getEnv(key, "")
	if value == "" {
		return fallback
	}

	d, err := time.ParseDuration(value)
	if err != nil {
		return fallback
	}

	return d
}

func getListEnv(key string, fallback []string) []string {
	value := getEnv(key, "")
	if value == "" {
		return fallback
	}

	return strings.Split(value, ",")
}
