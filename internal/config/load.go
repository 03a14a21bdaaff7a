package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// ErrInvalidConfig is returned when the loaded configuration fails validation.
var ErrInvalidConfig = errors.New("invalid configuration")

// envPrefix is prepended to every environment variable, so server.port is
// read from SCRY_SERVER_PORT.
const envPrefix = "SCRY"

// keys without defaults that must still be readable from the environment
var envOnlyKeys = []string{
	"database.url",
	"auth.game_token_secret",
	"tutor.base_url",
	"llm.gemini_api_key",
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.log_level", "info")
	v.SetDefault("server.shutdown_timeout_seconds", 15)

	v.SetDefault("database.driver", "pgx")

	v.SetDefault("auth.token_lifetime_minutes", 240)

	v.SetDefault("tutor.mode", ModeRemote)
	v.SetDefault("tutor.timeout_seconds", 30)
	v.SetDefault("tutor.max_retries", 2)
	v.SetDefault("tutor.retry_delay_seconds", 1)
	v.SetDefault("tutor.game_type", "match_pairs")

	v.SetDefault("llm.model_name", "gemini-2.0-flash")
	v.SetDefault("llm.prompt_template_path", "prompts/match_pairs.txt")
	v.SetDefault("llm.max_retries", 3)
	v.SetDefault("llm.retry_delay_seconds", 2)
	v.SetDefault("llm.rounds_per_batch", 3)
	v.SetDefault("llm.pairs_per_round", 6)

	v.SetDefault("game.correct_feedback_ms", 550)
	v.SetDefault("game.wrong_feedback_ms", 750)
	v.SetDefault("game.idle_timeout_minutes", 60)
	v.SetDefault("game.sweep_interval_minutes", 5)

	v.SetDefault("task.worker_count", 2)
	v.SetDefault("task.queue_size", 100)
	v.SetDefault("task.report_timeout_seconds", 10)
}

// Load configuration from environment variables and optionally config files.
// A .env file in the working directory is loaded first without overriding
// variables that are already set. Environment variables take precedence over
// values from config.yaml. Returns a populated Config struct or an error if
// loading/validation fails.
func Load() (*Config, error) {
	// A missing .env is normal outside development.
	_ = godotenv.Load()

	v := viper.New()
	setDefaults(v)

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	for _, key := range envOnlyKeys {
		if err := v.BindEnv(key); err != nil {
			return nil, fmt.Errorf("failed to bind %s: %w", key, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks struct tags and the rules that span sections.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}

	switch c.Tutor.Mode {
	case ModeRemote:
		if c.Tutor.BaseURL == "" {
			return fmt.Errorf("%w: tutor.base_url is required in remote mode", ErrInvalidConfig)
		}
	case ModeLocal:
		if c.LLM.GeminiAPIKey == "" {
			return fmt.Errorf("%w: llm.gemini_api_key is required in local mode", ErrInvalidConfig)
		}
		if c.LLM.ModelName == "" || c.LLM.PromptTemplatePath == "" {
			return fmt.Errorf("%w: llm.model_name and llm.prompt_template_path are required in local mode", ErrInvalidConfig)
		}
		if c.LLM.RoundsPerBatch < 1 || c.LLM.PairsPerRound < 2 {
			return fmt.Errorf("%w: llm.rounds_per_batch must be >= 1 and llm.pairs_per_round >= 2", ErrInvalidConfig)
		}
	}
	return nil
}
