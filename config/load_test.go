package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoad_TokenSecret(t *testing.T) {
	strongSecret := strings.Repeat("s", MinTokenSecretLength)

	testCases := []struct {
		name    string
		env     string
		secret  string
		wantErr error
	}{
		{name: "missing secret in local", env: "", secret: "", wantErr: ErrMissingTokenSecret},
		{name: "missing secret in production", env: "production", secret: "", wantErr: ErrMissingTokenSecret},
		{name: "short secret in production", env: "production", secret: "secret", wantErr: ErrWeakTokenSecret},
		{name: "short secret in local", env: "local", secret: "secret"},
		{name: "strong secret in production", env: "production", secret: strongSecret},
	}

	for _, tt := range testCases {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("ENV", tt.env)
			t.Setenv("TOKEN_SECRET", tt.secret)

			cfg, err := Load("")
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}

			require.NoError(t, err)
			require.Equal(t, tt.secret, cfg.Auth.TokenSecret)
		})
	}
}

func TestLoad_File(t *testing.T) {
	t.Setenv("ENV", "")
	t.Setenv("TOKEN_SECRET", "")
	t.Setenv("TRUSTED_PROXIES", "")

	path := filepath.Join(t.TempDir(), "config.toml")
	content := `Env = "production"

[Auth]
TokenSecret = "` + strings.Repeat("k", MinTokenSecretLength) + `"

[RateLimit]
TrustedProxies = ["10.0.0.0/8"]
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, "production", cfg.Env)
	require.Equal(t, []string{"10.0.0.0/8"}, cfg.RateLimit.TrustedProxies)

	// Environment variables win over the file.
	t.Setenv("TOKEN_SECRET", "short")
	_, err = Load(path)
	require.ErrorIs(t, err, ErrWeakTokenSecret)
}
