package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// Default values for optional configuration parameters.
const (
	DefaultLogLevel = "info"
	DefaultDBPath   = "storage.db"

	DefaultSessionTTL = 10 * time.Minute

	DefaultGeminiModel       = "gemini-2.0-flash"
	DefaultGeminiTemperature = 0.7
	DefaultGeminiMaxRetries  = 2
	DefaultGeminiRetryDelay  = 5
	DefaultGeminiInstruction = "You draft short, polite replies an administrator could send to an anonymous user message. Reply with the draft only."
)

// DefaultMessages are the stock user- and admin-facing message templates.
var DefaultMessages = MessagesConfig{
	Welcome:         "👋 Welcome! Use /contact to send an anonymous message to the administrators.",
	NotAuthorized:   "🚫 You are not authorized to use admin features.",
	ContactPrompt:   "📞 Please write your message to the administrators. It will be delivered anonymously, and they may reply to you. Send /cancel to abort.",
	ContactAccepted: "✅ Your message has been sent to the administrators. They may reply to you anonymously.",
	ContactRejected: "❌ Your message could not be accepted: %s",
	ContactBlocked:  "🚫 You are not allowed to send messages to the administrators.",
	ReplySent:       "✅ Reply sent successfully.",
	ReplyReceived:   "💬 Reply from the administrators:\n\n%s",
	NothingToReply:  "ℹ️ Nothing to reply to. Use the reply button on a message first.",
	AlreadyResolved: "ℹ️ This message was already handled.",
	GeneralError:    "❌ An error occurred. Please try again later.",
}

// LoadConfig loads configuration from defaults, the YAML file at configPath
// (missing file is fine), and BOT_* environment variables, then validates
// the result.
func LoadConfig(configPath string) (*Config, error) {
	v := viper.New()

	setDefaults(v)

	v.SetConfigFile(configPath)
	v.SetConfigType("yaml")

	v.SetEnvPrefix("BOT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		// Missing config file is fine, defaults plus env vars apply.
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok && !os.IsNotExist(err) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// setDefaults sets default values for optional configuration parameters.
func setDefaults(v *viper.Viper) {
	v.SetDefault("logger.level", DefaultLogLevel)
	v.SetDefault("logger.json", false)

	v.SetDefault("database.path", DefaultDBPath)

	v.SetDefault("session.ttl", DefaultSessionTTL)

	v.SetDefault("gemini.model", DefaultGeminiModel)
	v.SetDefault("gemini.temperature", DefaultGeminiTemperature)
	v.SetDefault("gemini.instruction", DefaultGeminiInstruction)
	v.SetDefault("gemini.max_retries", DefaultGeminiMaxRetries)
	v.SetDefault("gemini.retry_delay_seconds", DefaultGeminiRetryDelay)

	v.SetDefault("scheduler.tasks.session_cleanup.enabled", true)
	v.SetDefault("scheduler.tasks.session_cleanup.schedule", "*/5 * * * *")
	v.SetDefault("scheduler.tasks.sql_maintenance.enabled", true)
	v.SetDefault("scheduler.tasks.sql_maintenance.schedule", "0 4 * * *")

	v.SetDefault("moderation.spam_words", []string{})

	v.SetDefault("messages.welcome", DefaultMessages.Welcome)
	v.SetDefault("messages.not_authorized", DefaultMessages.NotAuthorized)
	v.SetDefault("messages.contact_prompt", DefaultMessages.ContactPrompt)
	v.SetDefault("messages.contact_accepted", DefaultMessages.ContactAccepted)
	v.SetDefault("messages.contact_rejected", DefaultMessages.ContactRejected)
	v.SetDefault("messages.contact_blocked", DefaultMessages.ContactBlocked)
	v.SetDefault("messages.reply_sent", DefaultMessages.ReplySent)
	v.SetDefault("messages.reply_received", DefaultMessages.ReplyReceived)
	v.SetDefault("messages.nothing_to_reply", DefaultMessages.NothingToReply)
	v.SetDefault("messages.already_resolved", DefaultMessages.AlreadyResolved)
	v.SetDefault("messages.general_error", DefaultMessages.GeneralError)
}
