package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

const (
	envConfigPath = "HOOKNOTIFY_CONFIG"

	envFeishuWebhookURL    = "FEISHU_WEBHOOK_URL"
	envFeishuWebhookSecret = "FEISHU_WEBHOOK_SECRET"

	envTelegramBotToken  = "TELEGRAM_BOT_TOKEN"
	envTelegramChatID    = "TELEGRAM_CHAT_ID"
	envTelegramAPIServer = "TELEGRAM_API_URL"

	envTitle          = "HOOKNOTIFY_TITLE"
	envTimezone       = "HOOKNOTIFY_TIMEZONE"
	envTimeoutSeconds = "HOOKNOTIFY_TIMEOUT_SECONDS"

	envLogFormat    = "HOOKNOTIFY_LOG_FORMAT"
	envLogLevel     = "HOOKNOTIFY_LOG_LEVEL"
	envLogAddSource = "HOOKNOTIFY_LOG_ADD_SOURCE"
)

const (
	DefaultTitle                 = "Hook Notification"
	DefaultRequestTimeoutSeconds = 10
)

var validate = validator.New()

// LookupFunc resolves one environment variable. os.Getenv satisfies it.
type LookupFunc func(key string) string

// Config is the full runtime configuration for one invocation.
type Config struct {
	Channels ChannelsConfig `json:"channels"`
	Notify   NotifyConfig   `json:"notify"`
	Logging  LoggingConfig  `json:"logging,omitempty"`
}

// LoggingConfig controls structured log output format and verbosity.
type LoggingConfig struct {
	Format    string `json:"format,omitempty" validate:"omitempty,oneof=text json"`
	Level     string `json:"level,omitempty" validate:"omitempty,oneof=debug info warn warning error"`
	AddSource bool   `json:"add_source,omitempty"`
}

// NotifyConfig holds rendering and transport settings shared by all channels.
type NotifyConfig struct {
	Title                 string `json:"title"`
	Timezone              string `json:"timezone" validate:"omitempty,timezone"`
	RequestTimeoutSeconds *int   `json:"request_timeout_seconds,omitempty" validate:"omitempty,gte=0"`
}

// ChannelsConfig stores per-destination credentials.
type ChannelsConfig struct {
	Feishu   FeishuConfig   `json:"feishu"`
	Telegram TelegramConfig `json:"telegram"`
}

// FeishuConfig configures the group-chat webhook channel.
type FeishuConfig struct {
	WebhookURL string `json:"webhook_url" validate:"omitempty,url"`
	Secret     string `json:"secret"`
}

// TelegramConfig configures the bot messaging channel.
type TelegramConfig struct {
	Token     string `json:"token"`
	ChatID    string `json:"chat_id"`
	APIServer string `json:"api_server" validate:"omitempty,url"`
}

// LoadWith resolves the optional config file, then applies environment
// overrides from lookup.
//
// The returned config is always usable. Settings that cannot be read or fail
// validation are dropped in favor of their defaults, and err lists them.
func LoadWith(lookup LookupFunc) (*Config, error) {
	if lookup == nil {
		lookup = os.Getenv
	}

	var (
		cfg      Config
		problems []error
	)
	if path := strings.TrimSpace(lookup(envConfigPath)); path != "" {
		if err := readFile(path, &cfg); err != nil {
			problems = append(problems, err)
			cfg = Config{}
		}
	}

	if err := applyEnvOverrides(&cfg, lookup); err != nil {
		problems = append(problems, err)
	}

	if err := resetInvalid("logging", cfg.Logging, func(field string) {
		switch field {
		case "Format":
			cfg.Logging.Format = ""
		case "Level":
			cfg.Logging.Level = ""
		}
	}); err != nil {
		problems = append(problems, err)
	}
	if err := resetInvalid("notify", cfg.Notify, func(field string) {
		switch field {
		case "Timezone":
			cfg.Notify.Timezone = ""
		case "RequestTimeoutSeconds":
			cfg.Notify.RequestTimeoutSeconds = nil
		}
	}); err != nil {
		problems = append(problems, err)
	}

	return &cfg, errors.Join(problems...)
}

// resetInvalid validates one section and hands every failing field name to
// reset.
func resetInvalid(section string, value any, reset func(field string)) error {
	err := validate.Struct(value)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) {
		for _, fieldErr := range fieldErrs {
			reset(fieldErr.StructField())
		}
	}

	return fmt.Errorf("invalid %s config: %w", section, err)
}

// Validate checks one config section against its struct tags.
func Validate(section string, value any) error {
	if err := validate.Struct(value); err != nil {
		return fmt.Errorf("invalid %s config: %w", section, err)
	}

	return nil
}

// TitleOrDefault returns the configured message title or the default.
func (c NotifyConfig) TitleOrDefault() string {
	if title := strings.TrimSpace(c.Title); title != "" {
		return title
	}

	return DefaultTitle
}

// RequestTimeout returns the per-request timeout; zero disables it.
func (c NotifyConfig) RequestTimeout() time.Duration {
	if c.RequestTimeoutSeconds == nil {
		return DefaultRequestTimeoutSeconds * time.Second
	}

	return time.Duration(*c.RequestTimeoutSeconds) * time.Second
}

// Location resolves the timezone used for rendered timestamps.
//
// An empty timezone means the process local zone.
func (c NotifyConfig) Location() *time.Location {
	name := strings.TrimSpace(c.Timezone)
	if name == "" {
		return time.Local
	}

	loc, err := time.LoadLocation(name)
	if err != nil {
		return time.Local
	}

	return loc
}

func readFile(path string, cfg *Config) error {
	info, err := os.Stat(path)
	if err != nil || info.IsDir() {
		return fmt.Errorf("%s does not point to a file: %s", envConfigPath, path)
	}

	content, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}

	if err := json.Unmarshal(content, cfg); err != nil {
		return fmt.Errorf("parse config file: %w", err)
	}

	return nil
}

// applyEnvOverrides injects env-driven settings on top of file config.
func applyEnvOverrides(cfg *Config, lookup LookupFunc) error {
	override := func(key string, target *string) {
		if value := strings.TrimSpace(lookup(key)); value != "" {
			*target = value
		}
	}

	override(envFeishuWebhookURL, &cfg.Channels.Feishu.WebhookURL)
	override(envFeishuWebhookSecret, &cfg.Channels.Feishu.Secret)
	override(envTelegramBotToken, &cfg.Channels.Telegram.Token)
	override(envTelegramChatID, &cfg.Channels.Telegram.ChatID)
	override(envTelegramAPIServer, &cfg.Channels.Telegram.APIServer)
	override(envTitle, &cfg.Notify.Title)
	override(envTimezone, &cfg.Notify.Timezone)
	override(envLogFormat, &cfg.Logging.Format)
	override(envLogLevel, &cfg.Logging.Level)

	if raw := strings.TrimSpace(lookup(envLogAddSource)); raw != "" {
		cfg.Logging.AddSource = parseBool(raw)
	}

	if raw := strings.TrimSpace(lookup(envTimeoutSeconds)); raw != "" {
		seconds, err := strconv.Atoi(raw)
		if err != nil {
			return fmt.Errorf("parse %s: %w", envTimeoutSeconds, err)
		}
		cfg.Notify.RequestTimeoutSeconds = &seconds
	}

	return nil
}

func parseBool(input string) bool {
	switch strings.ToLower(strings.TrimSpace(input)) {
	case "1", "true", "yes", "on":
		return true
	default:
		return false
	}
}
