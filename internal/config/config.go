// Package config loads leadaudit settings and bootstraps the global logger.
package config

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Reasoning providers accepted by analysis.provider.
const (
	ProviderAnthropic = "anthropic"
	ProviderGemini    = "gemini"
	ProviderOpenAI    = "openai"
)

// Config holds the full application configuration.
type Config struct {
	Google    GoogleConfig    `yaml:"google" mapstructure:"google"`
	Analysis  AnalysisConfig  `yaml:"analysis" mapstructure:"analysis"`
	Anthropic AnthropicConfig `yaml:"anthropic" mapstructure:"anthropic"`
	Gemini    GeminiConfig    `yaml:"gemini" mapstructure:"gemini"`
	OpenAI    OpenAIConfig    `yaml:"openai" mapstructure:"openai"`
	Report    ReportConfig    `yaml:"report" mapstructure:"report"`
	Server    ServerConfig    `yaml:"server" mapstructure:"server"`
	Log       LogConfig       `yaml:"log" mapstructure:"log"`
}

// GoogleConfig configures the Places API client and discovery.
type GoogleConfig struct {
	Key        string  `yaml:"key" mapstructure:"key"`
	BaseURL    string  `yaml:"base_url" mapstructure:"base_url"`
	MaxResults int     `yaml:"max_results" mapstructure:"max_results"`
	RateLimit  float64 `yaml:"rate_limit" mapstructure:"rate_limit"`
	PhotoMaxPx int     `yaml:"photo_max_px" mapstructure:"photo_max_px"`
}

// AnalysisConfig selects and bounds the reasoning backend.
type AnalysisConfig struct {
	Provider    string `yaml:"provider" mapstructure:"provider"`
	TimeoutSecs int    `yaml:"timeout_secs" mapstructure:"timeout_secs"`
	MaxTokens   int    `yaml:"max_tokens" mapstructure:"max_tokens"`
}

// Timeout is the per-call deadline; zero means none.
func (c AnalysisConfig) Timeout() time.Duration {
	return time.Duration(max(c.TimeoutSecs, 0)) * time.Second
}

// AnthropicConfig holds Anthropic API settings.
type AnthropicConfig struct {
	Key     string `yaml:"key" mapstructure:"key"`
	Model   string `yaml:"model" mapstructure:"model"`
	BaseURL string `yaml:"base_url" mapstructure:"base_url"`
}

// GeminiConfig holds Gemini API settings.
type GeminiConfig struct {
	Key     string `yaml:"key" mapstructure:"key"`
	Model   string `yaml:"model" mapstructure:"model"`
	BaseURL string `yaml:"base_url" mapstructure:"base_url"`
}

// OpenAIConfig holds settings for an OpenAI-compatible API.
type OpenAIConfig struct {
	Key     string `yaml:"key" mapstructure:"key"`
	Model   string `yaml:"model" mapstructure:"model"`
	BaseURL string `yaml:"base_url" mapstructure:"base_url"`
}

// ReportConfig configures report delivery.
type ReportConfig struct {
	WebhookURL       string `yaml:"webhook_url" mapstructure:"webhook_url"`
	MaxAttempts      int    `yaml:"max_attempts" mapstructure:"max_attempts"`
	InitialBackoffMs int    `yaml:"initial_backoff_ms" mapstructure:"initial_backoff_ms"`
}

// ServerConfig configures the HTTP server.
type ServerConfig struct {
	Port           int      `yaml:"port" mapstructure:"port"`
	AllowedOrigins []string `yaml:"allowed_origins" mapstructure:"allowed_origins"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// Load reads configuration from file and environment.
func Load() (*Config, error) {
	v := viper.New()

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Environment
	v.SetEnvPrefix("LEADAUDIT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults. Secrets default to empty so env overrides bind.
	v.SetDefault("google.key", "")
	v.SetDefault("google.base_url", "https://places.googleapis.com/v1")
	v.SetDefault("google.max_results", 20)
	v.SetDefault("google.rate_limit", 5)
	v.SetDefault("google.photo_max_px", 400)
	v.SetDefault("analysis.provider", ProviderAnthropic)
	v.SetDefault("analysis.timeout_secs", 90)
	v.SetDefault("analysis.max_tokens", 2048)
	v.SetDefault("anthropic.key", "")
	v.SetDefault("anthropic.model", "claude-sonnet-4-5-20250929")
	v.SetDefault("anthropic.base_url", "")
	v.SetDefault("gemini.key", "")
	v.SetDefault("gemini.model", "gemini-2.5-flash")
	v.SetDefault("gemini.base_url", "")
	v.SetDefault("openai.key", "")
	v.SetDefault("openai.model", "gpt-4o")
	v.SetDefault("openai.base_url", "")
	v.SetDefault("report.webhook_url", "")
	v.SetDefault("report.max_attempts", 3)
	v.SetDefault("report.initial_backoff_ms", 500)
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.allowed_origins", []string{"*"})
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

	// Read config file (optional)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, eris.Wrap(err, "config: read file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}

	return &cfg, nil
}

// Commands grouped by the upstream services they call.
var (
	discoveryCommands = []string{"leads", "serve"}
	analysisCommands  = []string{"audit", "competitors", "reply", "describe", "execute", "serve"}
)

// Validate checks that the settings a command needs are present and sane.
func (c *Config) Validate(command string) error {
	if !slices.Contains(discoveryCommands, command) && !slices.Contains(analysisCommands, command) {
		return eris.Errorf("config: unknown mode %q", command)
	}

	var problems []string
	if slices.Contains(discoveryCommands, command) {
		if c.Google.Key == "" {
			problems = append(problems, "google.key is required")
		}
		if c.Google.MaxResults < 1 || c.Google.MaxResults > 20 {
			problems = append(problems, "google.max_results must be between 1 and 20")
		}
	}

	if slices.Contains(analysisCommands, command) {
		switch c.Analysis.Provider {
		case ProviderAnthropic:
			if c.Anthropic.Key == "" {
				problems = append(problems, "anthropic.key is required")
			}
		case ProviderGemini:
			if c.Gemini.Key == "" {
				problems = append(problems, "gemini.key is required")
			}
		case ProviderOpenAI:
			if c.OpenAI.Key == "" {
				problems = append(problems, "openai.key is required")
			}
		default:
			problems = append(problems, fmt.Sprintf("analysis.provider %q is not one of anthropic, gemini, openai", c.Analysis.Provider))
		}
		if c.Analysis.TimeoutSecs < 0 {
			problems = append(problems, "analysis.timeout_secs must be >= 0")
		}
	}

	if command == "serve" && c.Server.Port <= 0 {
		problems = append(problems, "server.port must be > 0")
	}

	if len(problems) > 0 {
		return eris.Errorf("config: %s", strings.Join(problems, "; "))
	}
	return nil
}

// InitLogger initializes the global zap logger.
func InitLogger(cfg LogConfig) error {
	var zapCfg zap.Config
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return eris.Wrap(err, "config: parse log level")
	}
	zapCfg.Level.SetLevel(level)

	logger, err := zapCfg.Build()
	if err != nil {
		return eris.Wrap(err, "config: build logger")
	}
	zap.ReplaceGlobals(logger)

	return nil
}
