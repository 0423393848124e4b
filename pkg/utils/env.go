package utils

import (
	"os"
	"strconv"
	"strings"
	"time"
)

func GetEnvTrimmed(key string) string {
	return strings.TrimSpace(os.Getenv(key))
}

func GetEnvTrimmedOrDefault(key, defaultValue string) string {
	v := strings.TrimSpace(os.Getenv(key))

	if v == "" {
		return defaultValue
	}

	return v
}

// GetEnvBool falls back to defaultValue when the variable is unset or unparsable.
func GetEnvBool(key string, defaultValue bool) bool {
	v := GetEnvTrimmed(key)
	if v == "" {
		return defaultValue
	}

	b, err := strconv.ParseBool(v)
	if err != nil {
		return defaultValue
	}

	return b
}

// GetEnvPositiveInt ignores zero, negative and unparsable values.
func GetEnvPositiveInt(key string, defaultValue int) int {
	if parsed, err := strconv.Atoi(GetEnvTrimmed(key)); err == nil && parsed > 0 {
		return parsed
	}

	return defaultValue
}

// GetEnvDuration accepts Go duration strings ("5s", "1m30s") and ignores non-positive values.
func GetEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if parsed, err := time.ParseDuration(GetEnvTrimmed(key)); err == nil && parsed > 0 {
		return parsed
	}

	return defaultValue
}

func IsProductionEnv(appEnv string) bool {
	env := strings.ToLower(strings.TrimSpace(appEnv))
	return env == "production" || env == "prod"
}
