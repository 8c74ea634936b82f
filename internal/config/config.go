package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"
)

// Config represents the complete application configuration
type Config struct {
	Server   ServerConfig   `yaml:"server" envconfig:"SERVER"`
	Logging  LoggingConfig  `yaml:"logging" envconfig:"LOGGING"`
	Paths    PathsConfig    `yaml:"paths" envconfig:"PATHS"`
	Analysis AnalysisConfig `yaml:"analysis" envconfig:"ANALYSIS"`
}

// ServerConfig contains HTTP server configuration for the function wrapper
type ServerConfig struct {
	Port            int           `yaml:"port" envconfig:"PORT" default:"8080" validate:"min=1,max=65535"`
	ReadTimeout     time.Duration `yaml:"read_timeout" envconfig:"READ_TIMEOUT" default:"15s" validate:"gt=0"`
	WriteTimeout    time.Duration `yaml:"write_timeout" envconfig:"WRITE_TIMEOUT" default:"60s" validate:"gt=0"`
	IdleTimeout     time.Duration `yaml:"idle_timeout" envconfig:"IDLE_TIMEOUT" default:"60s" validate:"gt=0"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" envconfig:"SHUTDOWN_TIMEOUT" default:"30s" validate:"gt=0"`
	// MaxUploadBytes caps multipart uploads; 16 MiB matches the original
	// upload surface.
	MaxUploadBytes int64 `yaml:"max_upload_bytes" envconfig:"MAX_UPLOAD_BYTES" default:"16777216" validate:"gt=0"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level    string `yaml:"level" envconfig:"LEVEL" default:"info" validate:"oneof=debug info warn warning error"`
	Output   string `yaml:"output" envconfig:"OUTPUT" default:"stdout" validate:"oneof=stdout file both"`
	FilePath string `yaml:"file_path" envconfig:"FILE_PATH" default:"logs/app.log"`
}

// PathsConfig contains the analyzer's input and output file paths.
// Defaults are the fixed filenames the pipeline has always used.
type PathsConfig struct {
	InputFile  string `yaml:"input_file" envconfig:"INPUT_FILE" default:"sample_data.xlsx" validate:"required"`
	ReportFile string `yaml:"report_file" envconfig:"REPORT_FILE" default:"sales_analysis_report.xlsx" validate:"required"`
	ChartFile  string `yaml:"chart_file" envconfig:"CHART_FILE" default:"monthly_sales_trend.png" validate:"required"`
	DeckFile   string `yaml:"deck_file" envconfig:"DECK_FILE" default:"sales_overview_deck.xlsx" validate:"required"`
	UploadDir  string `yaml:"upload_dir" envconfig:"UPLOAD_DIR" default:"uploads" validate:"required"`
}

// AnalysisConfig contains analyzer tuning knobs
type AnalysisConfig struct {
	// TopProducts bounds the Top Products report sheet; the original
	// report shows the top 10.
	TopProducts int `yaml:"top_products" envconfig:"TOP_PRODUCTS" default:"10" validate:"gt=0"`
	// AnalyzerBin is the analyzer executable the function wrapper spawns.
	AnalyzerBin string `yaml:"analyzer_bin" envconfig:"ANALYZER_BIN" default:"analyzer" validate:"required"`
}

// Load loads configuration from environment variables and config file.
// Environment variables (prefix ANALYSER) take precedence over the file.
func Load() (*Config, error) {
	var cfg Config

	// Load from environment variables first
	if err := envconfig.Process("ANALYSER", &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config from env: %w", err)
	}

	// Load from config file if exists
	configFile := getConfigFilePath()
	if configFile != "" {
		fileConfig, err := loadFromFile(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config from file: %w", err)
		}
		cfg = mergeConfigs(*fileConfig, cfg)
	}

	// Validate configuration
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &cfg, nil
}

// loadFromFile loads configuration from YAML file
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

// mergeConfigs merges file config with env config (env takes precedence,
// zero-valued env fields fall back to the file)
func mergeConfigs(fileConfig, envConfig Config) Config {
	if envConfig.Server.Port == 0 {
		envConfig.Server.Port = fileConfig.Server.Port
	}
	if envConfig.Server.ReadTimeout == 0 {
		envConfig.Server.ReadTimeout = fileConfig.Server.ReadTimeout
	}
	if envConfig.Server.WriteTimeout == 0 {
		envConfig.Server.WriteTimeout = fileConfig.Server.WriteTimeout
	}
	if envConfig.Server.IdleTimeout == 0 {
		envConfig.Server.IdleTimeout = fileConfig.Server.IdleTimeout
	}
	if envConfig.Server.MaxUploadBytes == 0 {
		envConfig.Server.MaxUploadBytes = fileConfig.Server.MaxUploadBytes
	}
	if envConfig.Logging.Level == "" {
		envConfig.Logging.Level = fileConfig.Logging.Level
	}
	if envConfig.Logging.Output == "" {
		envConfig.Logging.Output = fileConfig.Logging.Output
	}
	if envConfig.Paths.InputFile == "" {
		envConfig.Paths.InputFile = fileConfig.Paths.InputFile
	}
	if envConfig.Paths.ReportFile == "" {
		envConfig.Paths.ReportFile = fileConfig.Paths.ReportFile
	}
	if envConfig.Paths.ChartFile == "" {
		envConfig.Paths.ChartFile = fileConfig.Paths.ChartFile
	}
	if envConfig.Paths.DeckFile == "" {
		envConfig.Paths.DeckFile = fileConfig.Paths.DeckFile
	}
	if envConfig.Paths.UploadDir == "" {
		envConfig.Paths.UploadDir = fileConfig.Paths.UploadDir
	}
	if envConfig.Analysis.TopProducts == 0 {
		envConfig.Analysis.TopProducts = fileConfig.Analysis.TopProducts
	}
	if envConfig.Analysis.AnalyzerBin == "" {
		envConfig.Analysis.AnalyzerBin = fileConfig.Analysis.AnalyzerBin
	}

	return envConfig
}

// validate validates the configuration with struct tags
func (c *Config) validate() error {
	v := validator.New()
	if err := v.Struct(c); err != nil {
		return err
	}
	return nil
}

// EnsureUploadDir creates the upload directory when missing.
func (c *Config) EnsureUploadDir() error {
	if err := os.MkdirAll(c.Paths.UploadDir, 0755); err != nil {
		return fmt.Errorf("failed to create upload directory %s: %w", c.Paths.UploadDir, err)
	}
	return nil
}

// OutputFiles returns the three report destinations rooted at dir. An empty
// dir leaves the configured paths untouched.
func (c *Config) OutputFiles(dir string) (report, chart, deck string) {
	if dir == "" {
		return c.Paths.ReportFile, c.Paths.ChartFile, c.Paths.DeckFile
	}
	return filepath.Join(dir, filepath.Base(c.Paths.ReportFile)),
		filepath.Join(dir, filepath.Base(c.Paths.ChartFile)),
		filepath.Join(dir, filepath.Base(c.Paths.DeckFile))
}

// getConfigFilePath returns the path to the config file
func getConfigFilePath() string {
	locations := []string{
		"config.yaml",
		"configs/config.yaml",
	}

	for _, location := range locations {
		if _, err := os.Stat(location); err == nil {
			return location
		}
	}

	return "" // No config file found, use env vars only
}

// Default returns default configuration
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Port:            8080,
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    60 * time.Second,
			IdleTimeout:     60 * time.Second,
			ShutdownTimeout: 30 * time.Second,
			MaxUploadBytes:  16 << 20,
		},
		Logging: LoggingConfig{
			Level:    "info",
			Output:   "stdout",
			FilePath: "logs/app.log",
		},
		Paths: PathsConfig{
			InputFile:  "sample_data.xlsx",
			ReportFile: "sales_analysis_report.xlsx",
			ChartFile:  "monthly_sales_trend.png",
			DeckFile:   "sales_overview_deck.xlsx",
			UploadDir:  "uploads",
		},
		Analysis: AnalysisConfig{
			TopProducts: 10,
			AnalyzerBin: "analyzer",
		},
	}
}
