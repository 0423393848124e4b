package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestGetEnvBool(t *testing.T) {
	t.Setenv("FLAG_ON", "true")
	t.Setenv("FLAG_GARBAGE", "maybe")

	assert.True(t, GetEnvBool("FLAG_ON", false))
	assert.True(t, GetEnvBool("FLAG_GARBAGE", true))
	assert.False(t, GetEnvBool("FLAG_UNSET_FOR_TEST", false))
}

func TestGetEnvDuration(t *testing.T) {
	t.Setenv("DELAY_OK", "750ms")
	t.Setenv("DELAY_NEGATIVE", "-1s")

	assert.Equal(t, 750*time.Millisecond, GetEnvDuration("DELAY_OK", time.Second))
	assert.Equal(t, time.Second, GetEnvDuration("DELAY_NEGATIVE", time.Second))
	assert.Equal(t, time.Second, GetEnvDuration("DELAY_UNSET_FOR_TEST", time.Second))
}

func TestGetEnvPositiveInt(t *testing.T) {
	t.Setenv("ATTEMPTS", "7")
	t.Setenv("ATTEMPTS_ZERO", "0")

	assert.Equal(t, 7, GetEnvPositiveInt("ATTEMPTS", 3))
	assert.Equal(t, 3, GetEnvPositiveInt("ATTEMPTS_ZERO", 3))
}

func TestIsProductionEnv(t *testing.T) {
	assert.True(t, IsProductionEnv(" Production "))
	assert.True(t, IsProductionEnv("prod"))
	assert.False(t, IsProductionEnv("staging"))
	assert.False(t, IsProductionEnv(""))
}
