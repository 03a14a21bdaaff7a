package config

import "time"

// Tutor modes select where rounds come from and where answers go.
const (
	// ModeRemote talks to the tutoring service over HTTP.
	ModeRemote = "remote"
	// ModeLocal generates rounds with Gemini from stored session material
	// and records answers in the local database.
	ModeLocal = "local"
)

// Config holds all application configuration.
// It organizes settings into logical groups for better maintainability.
type Config struct {
	Server   ServerConfig   `mapstructure:"server" validate:"required"`
	Database DatabaseConfig `mapstructure:"database" validate:"required"`
	Auth     AuthConfig     `mapstructure:"auth" validate:"required"`
	Tutor    TutorConfig    `mapstructure:"tutor" validate:"required"`
	LLM      LLMConfig      `mapstructure:"llm"`
	Game     GameConfig     `mapstructure:"game" validate:"required"`
	Task     TaskConfig     `mapstructure:"task" validate:"required"`
}

// ServerConfig contains all server-related configuration settings.
type ServerConfig struct {
	Port                   int    `mapstructure:"port" validate:"required,gt=0,lt=65536"`
	LogLevel               string `mapstructure:"log_level" validate:"required,oneof=debug info warn error"`
	ShutdownTimeoutSeconds int    `mapstructure:"shutdown_timeout_seconds" validate:"gt=0"`
}

// DatabaseConfig contains all database-related configuration settings.
type DatabaseConfig struct {
	Driver string `mapstructure:"driver" validate:"required,oneof=pgx sqlite3"`
	URL    string `mapstructure:"url" validate:"required"`
}

// AuthConfig contains the game token settings.
type AuthConfig struct {
	GameTokenSecret      string `mapstructure:"game_token_secret" validate:"required,min=32"`
	TokenLifetimeMinutes int    `mapstructure:"token_lifetime_minutes" validate:"gt=0"`
}

// TutorConfig describes the tutoring backend.
type TutorConfig struct {
	Mode              string `mapstructure:"mode" validate:"required,oneof=remote local"`
	BaseURL           string `mapstructure:"base_url" validate:"omitempty,url"`
	TimeoutSeconds    int    `mapstructure:"timeout_seconds" validate:"gt=0"`
	MaxRetries        int    `mapstructure:"max_retries" validate:"gte=0,lte=10"`
	RetryDelaySeconds int    `mapstructure:"retry_delay_seconds" validate:"gte=0"`
	GameType          string `mapstructure:"game_type" validate:"required"`
}

// Timeout is the per-request HTTP timeout.
func (t TutorConfig) Timeout() time.Duration {
	return time.Duration(t.TimeoutSeconds) * time.Second
}

// RetryDelay is the base delay between retries.
func (t TutorConfig) RetryDelay() time.Duration {
	return time.Duration(t.RetryDelaySeconds) * time.Second
}

// LLMConfig contains all LLM integration related settings. Only used in
// local mode.
type LLMConfig struct {
	GeminiAPIKey       string `mapstructure:"gemini_api_key"`
	ModelName          string `mapstructure:"model_name"`
	PromptTemplatePath string `mapstructure:"prompt_template_path"`
	MaxRetries         int    `mapstructure:"max_retries" validate:"gte=0,lte=5"`
	RetryDelaySeconds  int    `mapstructure:"retry_delay_seconds" validate:"gte=0"`
	RoundsPerBatch     int    `mapstructure:"rounds_per_batch" validate:"gte=0,lte=10"`
	PairsPerRound      int    `mapstructure:"pairs_per_round" validate:"gte=0,lte=12"`
}

// RetryDelay is the base delay between Gemini retries.
func (l LLMConfig) RetryDelay() time.Duration {
	return time.Duration(l.RetryDelaySeconds) * time.Second
}

// GameConfig holds gameplay timing. A correct check must clear faster than
// a wrong one.
type GameConfig struct {
	CorrectFeedbackMS    int `mapstructure:"correct_feedback_ms" validate:"gt=0,ltfield=WrongFeedbackMS"`
	WrongFeedbackMS      int `mapstructure:"wrong_feedback_ms" validate:"gt=0"`
	IdleTimeoutMinutes   int `mapstructure:"idle_timeout_minutes" validate:"gt=0"`
	SweepIntervalMinutes int `mapstructure:"sweep_interval_minutes" validate:"gt=0"`
}

// CorrectFeedback is how long a correct check stays highlighted.
func (g GameConfig) CorrectFeedback() time.Duration {
	return time.Duration(g.CorrectFeedbackMS) * time.Millisecond
}

// WrongFeedback is how long a wrong check stays highlighted.
func (g GameConfig) WrongFeedback() time.Duration {
	return time.Duration(g.WrongFeedbackMS) * time.Millisecond
}

// IdleTimeout is how long a game may sit untouched before eviction.
func (g GameConfig) IdleTimeout() time.Duration {
	return time.Duration(g.IdleTimeoutMinutes) * time.Minute
}

// SweepInterval is how often idle games are looked for.
func (g GameConfig) SweepInterval() time.Duration {
	return time.Duration(g.SweepIntervalMinutes) * time.Minute
}

// TaskConfig sizes the background answer reporting pool.
type TaskConfig struct {
	WorkerCount          int `mapstructure:"worker_count" validate:"gt=0"`
	QueueSize            int `mapstructure:"queue_size" validate:"gt=0"`
	ReportTimeoutSeconds int `mapstructure:"report_timeout_seconds" validate:"gt=0"`
}

// ReportTimeout bounds a single answer report.
func (t TaskConfig) ReportTimeout() time.Duration {
	return time.Duration(t.ReportTimeoutSeconds) * time.Second
}
