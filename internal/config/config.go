package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/teambition/rrule-go"
	"gopkg.in/yaml.v3"
)

// AnthropicConfig holds the chat model settings. The API key is taken
// from the environment rather than the config file.
type AnthropicConfig struct {
	Model  string `yaml:"model" validate:"required"`
	APIKey string `yaml:"-"`
}

// Config represents the application configuration
type Config struct {
	DatabaseURL          string          `yaml:"databaseURL"`
	ListenAddr           string          `yaml:"listenAddr,omitempty"`
	Timezone             string          `yaml:"timezone" validate:"required"`
	DaysAhead            int             `yaml:"daysAhead,omitempty" validate:"omitempty,min=1,max=90"`
	SlotLimit            int             `yaml:"slotLimit,omitempty" validate:"omitempty,min=1"`
	MemberTimeoutSeconds int             `yaml:"memberTimeoutSeconds,omitempty" validate:"omitempty,min=1"`
	BlackoutRules        []string        `yaml:"blackoutRules,omitempty"`
	AllowedOrigins       []string        `yaml:"allowedOrigins,omitempty"`
	Anthropic            AnthropicConfig `yaml:"anthropic" validate:"required"`
}

var validate *validator.Validate

func init() {
	validate = validator.New()
}

// Load loads and validates the configuration from interview_scheduler.yaml
// It looks for the config file in the current directory first, then in the user's home directory
func Load() (*Config, error) {
	configPath, err := findConfigFile()
	if err != nil {
		return nil, fmt.Errorf("failed to find config file: %w", err)
	}

	return LoadFromPath(configPath)
}

// LoadFromPath loads and validates the configuration from a specific path.
// Secrets come from the environment, with .env loaded if present.
func LoadFromPath(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	// Missing .env is fine, real env vars still apply
	godotenv.Load()

	if dbURL := os.Getenv("DATABASE_URL"); dbURL != "" {
		cfg.DatabaseURL = dbURL
	}
	cfg.Anthropic.APIKey = os.Getenv("ANTHROPIC_API_KEY")

	applyDefaults(&cfg)

	if err := Validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func applyDefaults(cfg *Config) {
	if cfg.ListenAddr == "" {
		cfg.ListenAddr = ":8080"
	}
	if cfg.DaysAhead == 0 {
		cfg.DaysAhead = 14
	}
	if cfg.SlotLimit == 0 {
		cfg.SlotLimit = 5
	}
	if cfg.MemberTimeoutSeconds == 0 {
		cfg.MemberTimeoutSeconds = 10
	}
}

// Validate validates the configuration struct, the timezone and the
// blackout rrule syntax
func Validate(cfg *Config) error {
	if err := validate.Struct(cfg); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}

	if cfg.DatabaseURL == "" {
		return fmt.Errorf("database URL not set in config file or DATABASE_URL")
	}

	if _, err := time.LoadLocation(cfg.Timezone); err != nil {
		return fmt.Errorf("invalid timezone %q: %w", cfg.Timezone, err)
	}

	for i, rule := range cfg.BlackoutRules {
		if _, err := rrule.StrToRRule(rule); err != nil {
			return fmt.Errorf("invalid rrule in blackoutRules[%d]: %w", i, err)
		}
	}

	return nil
}

// Location returns the ward's configured timezone. Validate has already
// checked that the name resolves.
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// Blackouts parses the configured blackout rules
func (c *Config) Blackouts() ([]*rrule.RRule, error) {
	var rules []*rrule.RRule
	for i, raw := range c.BlackoutRules {
		rule, err := rrule.StrToRRule(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid rrule in blackoutRules[%d]: %w", i, err)
		}
		rules = append(rules, rule)
	}
	return rules, nil
}

// MemberTimeout returns the per-member calendar fetch timeout
func (c *Config) MemberTimeout() time.Duration {
	return time.Duration(c.MemberTimeoutSeconds) * time.Second
}

// findConfigFile searches for interview_scheduler.yaml in current directory and home directory
func findConfigFile() (string, error) {
	configFileName := "interview_scheduler.yaml"

	// Check current directory
	if _, err := os.Stat(configFileName); err == nil {
		return configFileName, nil
	}

	// Check home directory
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}

	homeConfigPath := filepath.Join(homeDir, configFileName)
	if _, err := os.Stat(homeConfigPath); err == nil {
		return homeConfigPath, nil
	}

	return "", fmt.Errorf("config file not found in current directory or home directory")
}
