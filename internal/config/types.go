// Package config loads, normalizes and validates the autoreply configuration.
// Values come from built-in defaults, an optional YAML file and environment
// variables, in increasing order of priority.
package config

import (
	"time"

	"github.com/go-telegram/bot/models"
)

// Config is the root configuration for the application.
type Config struct {
	Telegram  TelegramConfig  `mapstructure:"telegram"`
	Gemini    GeminiConfig    `mapstructure:"gemini"`
	Autoreply AutoreplyConfig `mapstructure:"autoreply"`
	Responses ResponsesConfig `mapstructure:"responses"`
	Dispatch  DispatchConfig  `mapstructure:"dispatch"`
	Database  DatabaseConfig  `mapstructure:"db"`
	Logger    LoggerConfig    `mapstructure:"log"`
	Scheduler SchedulerConfig `mapstructure:"scheduler"`
	Messages  MessagesConfig  `mapstructure:"messages"`
}

// TelegramConfig holds the Bot API credentials and the optional owner account.
type TelegramConfig struct {
	Token       string `mapstructure:"token"         validate:"required"`
	AdminUserID int64  `mapstructure:"admin_user_id" validate:"gte=0"`

	// BotInfo is filled at runtime from getMe.
	BotInfo *models.User `mapstructure:"-"`
}

// GeminiConfig configures the scam classifier.
type GeminiConfig struct {
	APIKey    string `mapstructure:"api_key" validate:"required"`
	ModelName string `mapstructure:"model"   validate:"required"`
}

// AutoreplyConfig holds the trigger rules. Both lists are parsed by hand after
// unmarshalling so that comma separated environment values and YAML lists are
// accepted alike.
type AutoreplyConfig struct {
	TriggerKeywords []string `mapstructure:"-"`
	ExcludeUserIDs  []int64  `mapstructure:"-"`
}

// ResponsesConfig points at the canned reply pool.
type ResponsesConfig struct {
	File     string   `mapstructure:"file"`
	Messages []string `mapstructure:"messages"`
}

// DispatchConfig tunes the reply dispatcher.
type DispatchConfig struct {
	MaxConcurrent int `mapstructure:"max_concurrent" validate:"min=1,max=1024"`
	// ReleaseGuardOnFailure releases the per-sender guard when a send fails.
	// When false a failed sender stays marked in-flight until restart or /release.
	ReleaseGuardOnFailure bool `mapstructure:"release_guard_on_failure"`
}

// DatabaseConfig configures the SQLite contact store.
type DatabaseConfig struct {
	Path string `mapstructure:"path" validate:"required"`
}

// LoggerConfig configures slog output.
type LoggerConfig struct {
	Level          string `mapstructure:"level"            validate:"oneof=debug info warn error"`
	Format         string `mapstructure:"format"           validate:"oneof=json text"`
	TelegramChatID string `mapstructure:"telegram_chat_id"`
}

// SchedulerConfig lists the periodic tasks and their cron schedules.
type SchedulerConfig struct {
	Tasks      map[string]TaskConfig `mapstructure:"tasks"`
	StuckAfter time.Duration         `mapstructure:"stuck_after" validate:"min=1s"`
}

// TaskConfig enables a single scheduled task.
type TaskConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Schedule string `mapstructure:"schedule"`
}

// MessagesConfig contains the texts sent to the owner by admin commands.
// Nothing here is ever sent to an auto-replied sender.
type MessagesConfig struct {
	Welcome         string `mapstructure:"welcome"          validate:"required"`
	Help            string `mapstructure:"help"             validate:"required"`
	GeneralError    string `mapstructure:"general_error"    validate:"required"`
	InvalidUserID   string `mapstructure:"invalid_user_id"  validate:"required"`
	TrustUsage      string `mapstructure:"trust_usage"      validate:"required"`
	TrustDoneFmt    string `mapstructure:"trust_done"       validate:"required"`
	UntrustUsage    string `mapstructure:"untrust_usage"    validate:"required"`
	UntrustDoneFmt  string `mapstructure:"untrust_done"     validate:"required"`
	UntrustNotFound string `mapstructure:"untrust_missing"  validate:"required"`
	NoContacts      string `mapstructure:"no_contacts"      validate:"required"`
	ContactsHeader  string `mapstructure:"contacts_header"  validate:"required"`
	InflightEmpty   string `mapstructure:"inflight_empty"   validate:"required"`
	InflightHeader  string `mapstructure:"inflight_header"  validate:"required"`
	ReleaseUsage    string `mapstructure:"release_usage"    validate:"required"`
	ReleaseDoneFmt  string `mapstructure:"release_done"     validate:"required"`
	ReleaseNotFound string `mapstructure:"release_missing"  validate:"required"`
}
