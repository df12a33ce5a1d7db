package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{"PORT", "MONGO_DB", "PUSH_TIMEOUT_SECONDS", "METRICS_ENABLED"} {
		t.Setenv(key, "")
	}

	cfg := Load()

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "pattibytes", cfg.MongoDatabase)
	assert.Equal(t, 10*time.Second, cfg.PushTimeout)
	assert.True(t, cfg.MetricsEnabled)
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("PUSH_TIMEOUT_SECONDS", "3")
	t.Setenv("METRICS_ENABLED", "false")

	cfg := Load()

	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, 3*time.Second, cfg.PushTimeout)
	assert.False(t, cfg.MetricsEnabled)
}

func TestGetEnvBoolIgnoresGarbage(t *testing.T) {
	t.Setenv("METRICS_ENABLED", "banana")

	assert.True(t, getEnvBool("METRICS_ENABLED", true))
	assert.False(t, getEnvBool("METRICS_ENABLED", false))
}
