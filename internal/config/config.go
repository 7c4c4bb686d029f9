package config

import (
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	AppPort      int    `mapstructure:"APP_PORT"`
	DatabasePath string `mapstructure:"DATABASE_PATH"`
	LogLevel     string `mapstructure:"LOG_LEVEL"`
	LogFormat    string `mapstructure:"LOG_FORMAT"`
	JWTSecret    string `mapstructure:"JWT_SECRET"`

	// An empty LLMAPIKey selects the canned reply generator.
	LLMAPIKey      string        `mapstructure:"LLM_API_KEY"`
	LLMBaseURL     string        `mapstructure:"LLM_BASE_URL"`
	LLMModel       string        `mapstructure:"LLM_MODEL"`
	LLMMaxTokens   int           `mapstructure:"LLM_MAX_TOKENS"`
	LLMTemperature float64       `mapstructure:"LLM_TEMPERATURE"`
	LLMTimeout     time.Duration `mapstructure:"LLM_TIMEOUT"`

	PublicMessageLimit     int           `mapstructure:"PUBLIC_MESSAGE_LIMIT"`
	PublicResetWindow      time.Duration `mapstructure:"PUBLIC_RESET_WINDOW"`
	RateLimitSweepInterval time.Duration `mapstructure:"RATE_LIMIT_SWEEP_INTERVAL"`
	RateLimitBackend       string        `mapstructure:"RATE_LIMIT_BACKEND"`
	RedisAddr              string        `mapstructure:"REDIS_ADDR"`

	StreamChunkSize  int           `mapstructure:"STREAM_CHUNK_SIZE"`
	StreamChunkDelay time.Duration `mapstructure:"STREAM_CHUNK_DELAY"`
}

func LoadConfig() (*Config, error) {
	viper.SetDefault("APP_PORT", 8000)
	viper.SetDefault("DATABASE_PATH", "/data/mediai.db")
	viper.SetDefault("LOG_LEVEL", "INFO")
	viper.SetDefault("LOG_FORMAT", "json")
	viper.SetDefault("JWT_SECRET", "")

	viper.SetDefault("LLM_API_KEY", "")
	viper.SetDefault("LLM_BASE_URL", "https://api.groq.com/openai/v1")
	viper.SetDefault("LLM_MODEL", "llama-3.1-8b-instant")
	viper.SetDefault("LLM_MAX_TOKENS", 2048)
	viper.SetDefault("LLM_TEMPERATURE", 0.3)
	viper.SetDefault("LLM_TIMEOUT", 60*time.Second)

	viper.SetDefault("PUBLIC_MESSAGE_LIMIT", 5)
	viper.SetDefault("PUBLIC_RESET_WINDOW", 24*time.Hour)
	viper.SetDefault("RATE_LIMIT_SWEEP_INTERVAL", time.Hour)
	viper.SetDefault("RATE_LIMIT_BACKEND", "memory")
	viper.SetDefault("REDIS_ADDR", "localhost:6379")

	viper.SetDefault("STREAM_CHUNK_SIZE", 5)
	viper.SetDefault("STREAM_CHUNK_DELAY", 10*time.Millisecond)

	// Groq deployments export GROQ_* names.
	_ = viper.BindEnv("LLM_API_KEY", "LLM_API_KEY", "GROQ_API_KEY")
	_ = viper.BindEnv("LLM_MODEL", "LLM_MODEL", "GROQ_MODEL")
	_ = viper.BindEnv("LLM_MAX_TOKENS", "LLM_MAX_TOKENS", "GROQ_MAX_TOKENS")

	if viper.ConfigFileUsed() == "" {
		viper.SetConfigName(".env")
		viper.SetConfigType("env")
		viper.AddConfigPath(".")
		viper.AddConfigPath("./backend")
	}

	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// UsesCompletions reports whether an external completions credential is configured.
func (c *Config) UsesCompletions() bool {
	return strings.TrimSpace(c.LLMAPIKey) != ""
}
