package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/samber/oops"
	"github.com/spf13/viper"
)

// ErrConfiguration marks every error returned by Load and LoadGemini.
var ErrConfiguration = errors.New("configuration error")

// Load builds the configuration from defaults, the YAML file at path (optional,
// a missing file is not an error) and environment variables, then validates it.
func Load(path string) (*Config, error) {
	startTime := time.Now()
	errb := oops.In("config").With("path", path)

	cfg, err := read(path)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, errb.Wrapf(err, "invalid configuration")
	}

	slog.Info("Configuration loaded",
		"gemini_model", cfg.Gemini.ModelName,
		"trigger_keywords", len(cfg.Autoreply.TriggerKeywords),
		"excluded_users", len(cfg.Autoreply.ExcludeUserIDs),
		"admin_configured", cfg.Telegram.AdminUserID != 0,
		"duration_ms", time.Since(startTime).Milliseconds())
	return cfg, nil
}

// LoadGemini reads the configuration like Load but validates only the gemini
// and log sections, for commands that make a single classifier call.
func LoadGemini(path string) (*Config, error) {
	cfg, err := read(path)
	if err != nil {
		return nil, err
	}
	validate := validator.New(validator.WithRequiredStructEnabled())
	for _, section := range []any{cfg.Gemini, cfg.Logger} {
		if err := validate.Struct(section); err != nil {
			return nil, oops.In("config").With("path", path).
				Wrapf(fmt.Errorf("%w: %w", ErrConfiguration, err), "invalid configuration")
		}
	}
	return cfg, nil
}

// read merges defaults, the file and the environment without validating.
func read(path string) (*Config, error) {
	errb := oops.In("config").With("path", path)

	v := viper.New()
	for key, value := range defaults {
		v.SetDefault(key, value)
	}
	for key, env := range envBindings {
		if err := v.BindEnv(key, env); err != nil {
			return nil, errb.Wrapf(fmt.Errorf("%w: %w", ErrConfiguration, err), "failed to bind %s", env)
		}
	}

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
				return nil, errb.Wrapf(fmt.Errorf("%w: %w", ErrConfiguration, err), "failed to read config file")
			}
			slog.Info("Configuration file not found, using defaults and environment", "path", path)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, errb.Wrapf(fmt.Errorf("%w: %w", ErrConfiguration, err), "failed to parse configuration")
	}

	cfg.Autoreply.TriggerKeywords = ParseKeywords(v.Get("autoreply.trigger_keywords"))
	ids, invalid := ParseUserIDs(v.Get("autoreply.exclude_user_ids"))
	cfg.Autoreply.ExcludeUserIDs = ids
	for _, raw := range invalid {
		slog.Warn("Ignoring invalid excluded user id", "value", raw)
	}
	return cfg, nil
}

// Validate checks struct tags and the rules tags cannot express.
func (c *Config) Validate() error {
	if err := validator.New(validator.WithRequiredStructEnabled()).Struct(c); err != nil {
		return fmt.Errorf("%w: %w", ErrConfiguration, err)
	}
	if c.Responses.File == "" && len(c.Responses.Messages) == 0 {
		return fmt.Errorf("%w: either responses.file or responses.messages must be set", ErrConfiguration)
	}
	for name, task := range c.Scheduler.Tasks {
		if task.Enabled && task.Schedule == "" {
			return fmt.Errorf("%w: scheduler task %q is enabled without a schedule", ErrConfiguration, name)
		}
	}
	return nil
}
