package config

import (
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"
)

// envPrefix is the prefix for environment overrides, e.g. QPCR_ANALYSIS_ALPHA.
const envPrefix = "QPCR"

// Config is the complete application configuration. Values load in three
// layers: built-in defaults, then an optional YAML file, then environment
// variables. The result is validated once and passed around explicitly.
type Config struct {
	Analysis AnalysisConfig `yaml:"analysis" envconfig:"ANALYSIS"`
	Logging  LoggingConfig  `yaml:"logging" envconfig:"LOGGING"`
	Paths    PathsConfig    `yaml:"paths" envconfig:"PATHS"`
	Server   ServerConfig   `yaml:"server" envconfig:"SERVER"`
}

// AnalysisConfig carries the pipeline parameters accepted at construction.
type AnalysisConfig struct {
	ReferenceGene    string  `yaml:"reference_gene" envconfig:"REFERENCE_GENE" validate:"required"`
	ControlCondition string  `yaml:"control_condition" envconfig:"CONTROL_CONDITION" validate:"required"`
	Alpha            float64 `yaml:"alpha" envconfig:"ALPHA" validate:"gt=0,lt=1"`
	TestMode         string  `yaml:"test_mode" envconfig:"TEST_MODE" validate:"oneof=independent paired"`
}

// LoggingConfig controls the structured logger.
type LoggingConfig struct {
	Level  string `yaml:"level" envconfig:"LEVEL" validate:"oneof=debug info warn error"`
	Format string `yaml:"format" envconfig:"FORMAT" validate:"oneof=json text"`
	Output string `yaml:"output" envconfig:"OUTPUT" validate:"oneof=stdout stderr file"`
	File   string `yaml:"file" envconfig:"FILE"`
}

// PathsConfig holds filesystem locations for inputs and generated reports.
type PathsConfig struct {
	InputFile string `yaml:"input_file" envconfig:"INPUT_FILE"`
	OutputDir string `yaml:"output_dir" envconfig:"OUTPUT_DIR" validate:"required"`
}

// ServerConfig configures the HTTP API.
type ServerConfig struct {
	Addr            string  `yaml:"addr" envconfig:"ADDR" validate:"required"`
	RateLimitRPS    float64 `yaml:"rate_limit_rps" envconfig:"RATE_LIMIT_RPS" validate:"gt=0"`
	RateLimitBurst  int     `yaml:"rate_limit_burst" envconfig:"RATE_LIMIT_BURST" validate:"gt=0"`
	MaxRequestBytes int64   `yaml:"max_request_bytes" envconfig:"MAX_REQUEST_BYTES" validate:"gt=0"`
}

// Default returns the built-in configuration: GAPDH reference, "Control"
// control group, α = 0.05, independent t-test.
func Default() Config {
	return Config{
		Analysis: AnalysisConfig{
			ReferenceGene:    "GAPDH",
			ControlCondition: "Control",
			Alpha:            0.05,
			TestMode:         "independent",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			Output: "stdout",
		},
		Paths: PathsConfig{
			OutputDir: "output",
		},
		Server: ServerConfig{
			Addr:            ":8090",
			RateLimitRPS:    10,
			RateLimitBurst:  20,
			MaxRequestBytes: 8 << 20,
		},
	}
}

// Load builds the effective configuration. path may be empty, in which case
// only defaults and environment overrides apply; a named file that does not
// exist is an error.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse config file %s: %w", path, err)
		}
	}

	if err := envconfig.Process(envPrefix, &cfg); err != nil {
		return Config{}, fmt.Errorf("apply environment overrides: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks the configuration against its struct constraints.
func (c Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	if c.Logging.Output == "file" && c.Logging.File == "" {
		return fmt.Errorf("invalid configuration: logging.file must be set when output is \"file\"")
	}
	return nil
}
