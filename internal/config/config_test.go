package config

import (
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig(t *testing.T) {
	t.Run("Defaults", func(t *testing.T) {
		viper.Reset()
		t.Chdir(t.TempDir())

		cfg, err := LoadConfig()
		require.NoError(t, err)

		assert.Equal(t, 8000, cfg.AppPort)
		assert.Equal(t, 5, cfg.PublicMessageLimit)
		assert.Equal(t, 24*time.Hour, cfg.PublicResetWindow)
		assert.Equal(t, time.Hour, cfg.RateLimitSweepInterval)
		assert.Equal(t, 5, cfg.StreamChunkSize)
		assert.Equal(t, 10*time.Millisecond, cfg.StreamChunkDelay)
		assert.Equal(t, "llama-3.1-8b-instant", cfg.LLMModel)
		assert.Equal(t, 2048, cfg.LLMMaxTokens)
		assert.False(t, cfg.UsesCompletions())
	})

	t.Run("Groq environment names are honoured", func(t *testing.T) {
		viper.Reset()
		t.Chdir(t.TempDir())
		t.Setenv("GROQ_API_KEY", "gsk-test")
		t.Setenv("GROQ_MAX_TOKENS", "512")
		t.Setenv("PUBLIC_RESET_WINDOW", "2h")

		cfg, err := LoadConfig()
		require.NoError(t, err)

		assert.Equal(t, "gsk-test", cfg.LLMAPIKey)
		assert.Equal(t, 512, cfg.LLMMaxTokens)
		assert.Equal(t, 2*time.Hour, cfg.PublicResetWindow)
		assert.True(t, cfg.UsesCompletions())
	})
}
