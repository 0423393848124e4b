package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/akeren/choosepure-waitlist/internal/log"
	"github.com/akeren/choosepure-waitlist/pkg/utils"
	"github.com/joho/godotenv"
)

const AppEnvKey = "APP_ENV"

// autoMigrateEnvs are the APP_ENV values in which --auto-migrate may run.
var autoMigrateEnvs = []string{"", "dev", "development", "local", "test", "testing"}

// InitializeEnvFile loads ENV_FILE (default .env) without overriding variables
// already set in the process environment. SKIP_DOTENV=true disables it.
func InitializeEnvFile(logger *log.Logger) {
	if utils.GetEnvBool("SKIP_DOTENV", false) {
		logger.Info("Skipping env file load", "reason", "SKIP_DOTENV=true")
		return
	}

	path := utils.GetEnvTrimmedOrDefault("ENV_FILE", ".env")
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			logger.Info("No env file found; using process environment", "path", path)
			return
		}
		logger.Warn("Failed to load env file", "path", path, "error", err.Error())
		return
	}

	logger.Info("Environment variables loaded", "path", path)
}

func GetAppEnv() string {
	return strings.ToLower(strings.TrimSpace(os.Getenv(AppEnvKey)))
}

func ValidateAutoMigrateAllowed(appEnv string) error {
	env := strings.ToLower(strings.TrimSpace(appEnv))

	for _, allowed := range autoMigrateEnvs {
		if env == allowed {
			return nil
		}
	}

	return fmt.Errorf("--auto-migrate is not allowed when %s=%q (allowed: %s)",
		AppEnvKey, env, strings.Join(autoMigrateEnvs[1:], ", "))
}

// secretEnv reads a credential or DSN, tolerating values pasted with quotes.
func secretEnv(key string) string {
	return sanitizeEnv(os.Getenv(key))
}

// sanitizeEnv strips surrounding whitespace and one level of matching quotes.
func sanitizeEnv(v string) string {
	s := strings.TrimSpace(v)

	if len(s) >= 2 && ((s[0] == '"' && s[len(s)-1] == '"') || (s[0] == '\'' && s[len(s)-1] == '\'')) {
		s = s[1 : len(s)-1]
	}

	return s
}
