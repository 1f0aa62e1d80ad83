package config

import (
	"fmt"
	"os"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"
)

// Config represents the complete application configuration.
type Config struct {
	Browser BrowserConfig `yaml:"browser" envconfig:"BROWSER"`
	Logging LoggingConfig `yaml:"logging" envconfig:"LOGGING"`
	Grid    GridConfig    `yaml:"grid" envconfig:"GRID"`
}

// BrowserConfig contains the automation session settings. Credentials come
// from the environment only; they are never read from the config file.
type BrowserConfig struct {
	Username       string        `yaml:"-" envconfig:"LOGIN_USERNAME"`
	Password       string        `yaml:"-" envconfig:"LOGIN_PWD"`
	Headless       bool          `yaml:"headless" envconfig:"HEADLESS" default:"true"`
	StartYear      int           `yaml:"start_year" envconfig:"START_YEAR" default:"1998" validate:"gte=1972,lte=2100"`
	Benchmark      string        `yaml:"benchmark" envconfig:"BENCHMARK" default:"Vanguard 500 Index Investor (VFINX)"`
	BacktestWait   time.Duration `yaml:"backtest_wait" envconfig:"BACKTEST_WAIT" default:"60s" validate:"gt=0"`
	RequestsPerSec float64       `yaml:"requests_per_sec" envconfig:"REQUESTS_PER_SEC" default:"2" validate:"gt=0"`
}

// LoggingConfig contains logging configuration.
type LoggingConfig struct {
	Level    string `yaml:"level" envconfig:"LEVEL" default:"info" validate:"oneof=debug info warn error"`
	Format   string `yaml:"format" envconfig:"FORMAT" default:"json"`
	Output   string `yaml:"output" envconfig:"OUTPUT" default:"console" validate:"oneof=console file both"`
	FilePath string `yaml:"file_path" envconfig:"FILE_PATH" default:"logs/app.log"`
}

// GridConfig contains grid-generation settings.
type GridConfig struct {
	RandomCount int   `yaml:"random_count" envconfig:"RANDOM_COUNT" default:"100" validate:"gt=0"`
	RandomSeed  int64 `yaml:"random_seed" envconfig:"RANDOM_SEED" default:"42"`
}

// Load loads configuration from environment variables and an optional
// config.yaml next to the executable. Environment takes precedence.
func Load() (*Config, error) {
	var cfg Config

	if configFile := findConfigFile(); configFile != "" {
		fileCfg, err := loadFromFile(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config from file: %w", err)
		}
		cfg = *fileCfg
	}

	if err := envconfig.Process("PV", &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config from env: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &cfg, nil
}

// loadFromFile loads configuration from a YAML file.
func loadFromFile(filePath string) (*Config, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// validate checks the configuration with the struct validation tags and
// normalizes the few fields that have a single supported value.
func (c *Config) validate() error {
	// Structured logs are always JSON; the format knob exists for parity with
	// the config file shape only.
	if c.Logging.Format != "json" {
		c.Logging.Format = "json"
	}
	if c.Logging.FilePath == "" {
		c.Logging.FilePath = "logs/app.log"
	}

	v := validator.New()
	return v.Struct(c)
}

// findConfigFile returns the path to the config file, checking common
// locations. Empty string means env-only configuration.
func findConfigFile() string {
	locations := []string{
		"config.yaml",
		"configs/config.yaml",
	}

	for _, location := range locations {
		if _, err := os.Stat(location); err == nil {
			return location
		}
	}

	return ""
}

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		Browser: BrowserConfig{
			Headless:       true,
			StartYear:      1998,
			Benchmark:      "Vanguard 500 Index Investor (VFINX)",
			BacktestWait:   BacktestWaitTimeout,
			RequestsPerSec: 2,
		},
		Logging: LoggingConfig{
			Level:    DefaultLogLevel,
			Format:   DefaultLogFormat,
			Output:   "console",
			FilePath: "logs/app.log",
		},
		Grid: GridConfig{
			RandomCount: 100,
			RandomSeed:  42,
		},
	}
}
