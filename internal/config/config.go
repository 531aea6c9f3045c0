package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/teambition/rrule-go"
	"gopkg.in/yaml.v3"
)

// ApprovalStep configures one position in the default swap approval chain.
type ApprovalStep struct {
	Order      int    `yaml:"order" validate:"min=1"`
	Role       string `yaml:"role" validate:"required"`
	IsApprover bool   `yaml:"isApprover"`
}

// HolidayConfig lists recognized holidays: explicit dates plus RRule
// recurrence strings expanded over each planning window.
type HolidayConfig struct {
	Dates []string `yaml:"dates,omitempty" validate:"dive,datetime=2006-01-02"`
	Rules []string `yaml:"rules,omitempty"`
}

// SchedulerConfig bounds and parameterizes planning passes.
type SchedulerConfig struct {
	// MaxRangeDays caps the length of a planning request.
	MaxRangeDays int `yaml:"maxRangeDays" validate:"min=1"`

	// Default point parameters for duty types without a configured value.
	DefaultBaseWeight        float64 `yaml:"defaultBaseWeight" validate:"gt=0"`
	DefaultWeekendMultiplier float64 `yaml:"defaultWeekendMultiplier" validate:"gt=0"`
	DefaultHolidayMultiplier float64 `yaml:"defaultHolidayMultiplier" validate:"gt=0"`
}

// Config is the application configuration.
type Config struct {
	DatabaseURL string `yaml:"databaseURL" validate:"required"`

	Scheduler SchedulerConfig `yaml:"scheduler"`
	Holidays  HolidayConfig   `yaml:"holidays"`

	// SwapApprovalChain is the ordered chain stamped onto each side of a
	// new swap request.
	SwapApprovalChain []ApprovalStep `yaml:"swapApprovalChain" validate:"dive"`
}

var validate *validator.Validate

func init() {
	validate = validator.New()
}

const configFileName = "duty_config.yaml"

// Load loads and validates the configuration, looking in the current
// directory first, then in the user's home directory.
func Load() (*Config, error) {
	configPath, err := findConfigFile()
	if err != nil {
		return nil, fmt.Errorf("failed to find config file: %w", err)
	}
	return LoadFromPath(configPath)
}

// LoadWithEnv loads the configuration for a named environment, e.g.
// duty_config.test.yaml for "test". An empty env falls back to Load.
func LoadWithEnv(env string) (*Config, error) {
	if env == "" {
		return Load()
	}
	name := fmt.Sprintf("duty_config.%s.yaml", env)
	if _, err := os.Stat(name); err == nil {
		return LoadFromPath(name)
	}
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("failed to get home directory: %w", err)
	}
	return LoadFromPath(filepath.Join(homeDir, name))
}

// LoadFromPath loads and validates the configuration from a specific path.
func LoadFromPath(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := defaults()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if err := Validate(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

func defaults() *Config {
	return &Config{
		Scheduler: SchedulerConfig{
			MaxRangeDays:             90,
			DefaultBaseWeight:        1.0,
			DefaultWeekendMultiplier: 1.5,
			DefaultHolidayMultiplier: 2.0,
		},
	}
}

// Validate validates the configuration struct, holiday rule syntax, and
// approval chain ordering.
func Validate(cfg *Config) error {
	if err := validate.Struct(cfg); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}

	for i, rule := range cfg.Holidays.Rules {
		if _, err := rrule.StrToRRule(rule); err != nil {
			return fmt.Errorf("invalid rrule in holidays.rules[%d]: %w", i, err)
		}
	}

	for _, d := range cfg.Holidays.Dates {
		if _, err := time.Parse("2006-01-02", d); err != nil {
			return fmt.Errorf("invalid holiday date %q: %w", d, err)
		}
	}

	seen := make(map[int]bool)
	for i, step := range cfg.SwapApprovalChain {
		if seen[step.Order] {
			return fmt.Errorf("duplicate approval order %d in swapApprovalChain[%d]", step.Order, i)
		}
		seen[step.Order] = true
	}

	return nil
}

// findConfigFile searches for duty_config.yaml in the current directory and
// the home directory.
func findConfigFile() (string, error) {
	if _, err := os.Stat(configFileName); err == nil {
		return configFileName, nil
	}

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
