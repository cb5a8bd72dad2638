package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	t.Setenv("STORE", "")
	t.Setenv("AI_PROVIDER", "gemini")
	t.Setenv("AI_API_KEY", "")
	t.Setenv("GEMINI_API_KEY", "")
	t.Setenv("AI_MODEL", "")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "gemini-2.0-flash", cfg.AIModel)
	assert.Equal(t, 30*time.Second, cfg.AITimeout)
	assert.False(t, cfg.AIEnabled())
}

func TestLoadConfigFromEnv(t *testing.T) {
	t.Setenv("STORE", "Postgres")
	t.Setenv("DATABASE_URL", "postgres://localhost/emails")
	t.Setenv("AI_PROVIDER", "deepseek")
	t.Setenv("AI_API_KEY", "k")
	t.Setenv("AI_MODEL", "")
	t.Setenv("AI_RATE_LIMIT_RPS", "0.5")
	t.Setenv("GMAIL_MAX_RESULTS", "not-a-number")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, StorePostgres, cfg.Store)
	assert.Equal(t, "deepseek-chat", cfg.AIModel)
	assert.Equal(t, 0.5, cfg.AIRateLimitRPS)
	assert.Equal(t, int64(20), cfg.GmailMaxResults)
	assert.True(t, cfg.AIEnabled())
	assert.NoError(t, cfg.Validate())
}

func TestGeminiKeyFallback(t *testing.T) {
	t.Setenv("AI_API_KEY", "")
	require.NoError(t, os.Unsetenv("AI_API_KEY"))
	t.Setenv("GEMINI_API_KEY", "g-key")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, "g-key", cfg.AIKey)
}

func TestValidate(t *testing.T) {
	base := Config{Store: StoreMemory, AIProvider: ProviderNone, AITimeout: time.Second}
	assert.NoError(t, base.Validate())

	pg := base
	pg.Store = StorePostgres
	assert.Error(t, pg.Validate())

	bad := base
	bad.Store = "mongo"
	assert.Error(t, bad.Validate())

	badAI := base
	badAI.AIProvider = "llama"
	assert.Error(t, badAI.Validate())

	noTimeout := base
	noTimeout.AITimeout = 0
	assert.Error(t, noTimeout.Validate())
}
