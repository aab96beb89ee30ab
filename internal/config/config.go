// Package config provides configuration loading, validation, and defaults
// for the bot. Values come from defaults, an optional YAML file, and BOT_*
// environment variables, in that order of precedence.
package config

import (
	"time"

	"github.com/go-telegram/bot/models"
)

// Config defines the application configuration parameters for all components
// of the bot: logging, Telegram transport, database, session tracking,
// the optional Gemini integration, scheduled tasks, and user-facing messages.
type Config struct {
	Logger     LoggerConfig     `mapstructure:"logger"`
	Telegram   TelegramConfig   `mapstructure:"telegram"`
	Database   DatabaseConfig   `mapstructure:"database"`
	Session    SessionConfig    `mapstructure:"session"`
	Gemini     GeminiConfig     `mapstructure:"gemini"`
	Scheduler  SchedulerConfig  `mapstructure:"scheduler"`
	Moderation ModerationConfig `mapstructure:"moderation"`
	Messages   MessagesConfig   `mapstructure:"messages"`
}

// LoggerConfig controls log verbosity and output format.
type LoggerConfig struct {
	Level string `mapstructure:"level" validate:"oneof=debug info warn error"`
	JSON  bool   `mapstructure:"json"`
}

// TelegramConfig holds the bot token and the admin allow-list.
type TelegramConfig struct {
	Token        string  `mapstructure:"token"          validate:"required"`
	AdminUserIDs []int64 `mapstructure:"admin_user_ids" validate:"required,min=1,dive,gt=0"`

	// BotInfo is populated at startup from GetMe, not from configuration.
	BotInfo *models.User `mapstructure:"-"`
}

// IsAdmin reports whether userID is on the admin allow-list.
func (c TelegramConfig) IsAdmin(userID int64) bool {
	for _, id := range c.AdminUserIDs {
		if id == userID {
			return true
		}
	}
	return false
}

// DatabaseConfig holds the SQLite database location.
type DatabaseConfig struct {
	Path string `mapstructure:"path" validate:"required"`
}

// SessionConfig controls the in-memory session tracker. Sessions idle longer
// than TTL are abandoned; zero disables expiry.
type SessionConfig struct {
	TTL time.Duration `mapstructure:"ttl" validate:"min=0"`
}

// GeminiConfig holds settings for the optional reply-draft suggestions.
// The feature is disabled when APIKey is empty.
type GeminiConfig struct {
	APIKey            string  `mapstructure:"api_key"`
	ModelName         string  `mapstructure:"model"`
	Temperature       float32 `mapstructure:"temperature" validate:"min=0,max=2"`
	Instruction       string  `mapstructure:"instruction"`
	MaxRetries        int     `mapstructure:"max_retries"         validate:"min=0,max=10"`
	RetryDelaySeconds int     `mapstructure:"retry_delay_seconds" validate:"min=0,max=300"`
}

// Enabled reports whether the Gemini integration is configured.
func (c GeminiConfig) Enabled() bool {
	return c.APIKey != ""
}

// SchedulerConfig maps task names to their schedules.
type SchedulerConfig struct {
	Tasks map[string]TaskConfig `mapstructure:"tasks"`
}

// TaskConfig enables a scheduled task and sets its cron schedule.
type TaskConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Schedule string `mapstructure:"schedule"`
}

// ModerationConfig holds keywords that cause submissions to be rejected.
type ModerationConfig struct {
	SpamWords []string `mapstructure:"spam_words"`
}

// MessagesConfig holds the user- and admin-facing message templates.
type MessagesConfig struct {
	Welcome          string `mapstructure:"welcome"           validate:"required"`
	NotAuthorized    string `mapstructure:"not_authorized"    validate:"required"`
	ContactPrompt    string `mapstructure:"contact_prompt"    validate:"required"`
	ContactAccepted  string `mapstructure:"contact_accepted"  validate:"required"`
	ContactRejected  string `mapstructure:"contact_rejected"  validate:"required"`
	ContactBlocked   string `mapstructure:"contact_blocked"   validate:"required"`
	ReplySent        string `mapstructure:"reply_sent"        validate:"required"`
	ReplyReceived    string `mapstructure:"reply_received"    validate:"required"`
	NothingToReply   string `mapstructure:"nothing_to_reply"  validate:"required"`
	AlreadyResolved  string `mapstructure:"already_resolved"  validate:"required"`
	GeneralError     string `mapstructure:"general_error"     validate:"required"`
}
