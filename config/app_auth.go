package config

import (
	"crypto/rand"
	"errors"
	"fmt"

	"github.com/akeren/choosepure-waitlist/internal/log"
	"github.com/akeren/choosepure-waitlist/pkg/utils"
)

const minSessionSecretLength = 32

var ErrSessionSecretRequired = errors.New("SESSION_SECRET must be set in production")

type AuthConfig struct {
	SessionSecret []byte
	CookieDomain  string
	// SecureCookies marks the session cookie Secure and SameSite=Strict.
	SecureCookies bool
	// PurgeSchedule is a cron spec for clearing expired reset tokens.
	PurgeSchedule string
}

// LoadAuthConfig requires SESSION_SECRET in production. Elsewhere a random
// per-process secret is generated, which invalidates sessions on restart.
func LoadAuthConfig(logger *log.Logger, production bool) (*AuthConfig, error) {
	secret := utils.GetEnvTrimmed("SESSION_SECRET")

	switch {
	case secret == "" && production:
		return nil, ErrSessionSecretRequired
	case secret == "":
		generated, err := randomSecret()
		if err != nil {
			return nil, err
		}
		logger.Warn("SESSION_SECRET not set; using an ephemeral secret, admin sessions will not survive a restart")
		secret = generated
	case len(secret) < minSessionSecretLength:
		logger.Warn("SESSION_SECRET is shorter than recommended", "min_length", minSessionSecretLength)
	}

	return &AuthConfig{
		SessionSecret: []byte(secret),
		CookieDomain:  utils.GetEnvTrimmed("COOKIE_DOMAIN"),
		SecureCookies: production,
		PurgeSchedule: utils.GetEnvTrimmedOrDefault("RESET_TOKEN_PURGE_SCHEDULE", "@every 15m"),
	}, nil
}

func randomSecret() (string, error) {
	b := make([]byte, minSessionSecretLength)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("generate session secret: %w", err)
	}
	return fmt.Sprintf("%x", b), nil
}
