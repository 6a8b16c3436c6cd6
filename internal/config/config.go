package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds all configuration values.
type Config struct {
	// OpenSearch connection
	OpenSearchURL      string
	OpenSearchUser     string
	OpenSearchPass     string
	OpenSearchInsecure bool
	RequestTimeout     time.Duration

	// Target index
	IndexName string

	// Files
	DataFile  string
	ChartFile string

	// Logging
	LogFile  string
	LogLevel slog.Level
}

// fileConfig mirrors the optional YAML config file. Empty values keep the defaults.
type fileConfig struct {
	OpenSearch struct {
		URL      string `yaml:"url"`
		Username string `yaml:"username"`
		Password string `yaml:"password"`
		Insecure *bool  `yaml:"insecure"`
	} `yaml:"opensearch"`
	Index     string `yaml:"index"`
	DataFile  string `yaml:"data_file"`
	ChartFile string `yaml:"chart_file"`
	Timeout   string `yaml:"timeout"`
	Log       struct {
		File  string `yaml:"file"`
		Level string `yaml:"level"`
	} `yaml:"log"`
}

// Defaults returns the built-in configuration.
func Defaults() Config {
	return Config{
		OpenSearchURL:  "http://localhost:9200",
		RequestTimeout: 30 * time.Second,
		IndexName:      "logs",
		DataFile:       "data.json",
		ChartFile:      "open_search.png",
		LogFile:        "/tmp/logchart.log",
		LogLevel:       slog.LevelInfo,
	}
}

// Load reads configuration from environment variables on top of the defaults.
func Load() Config {
	return fromEnv(Defaults())
}

// LoadFile reads the YAML file at path, then applies environment variables.
// Environment variables take precedence over the file. An empty path behaves like Load.
func LoadFile(path string) (Config, error) {
	cfg := Defaults()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("read config file: %w", err)
		}
		var fc fileConfig
		if err := yaml.Unmarshal(data, &fc); err != nil {
			return Config{}, fmt.Errorf("parse config file %s: %w", path, err)
		}
		if err := fc.apply(&cfg); err != nil {
			return Config{}, fmt.Errorf("config file %s: %w", path, err)
		}
	}

	cfg = fromEnv(cfg)
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks values that would otherwise fail deep inside a command.
func (c Config) Validate() error {
	var errs []error
	if c.OpenSearchURL == "" {
		errs = append(errs, errors.New("opensearch url is empty"))
	}
	if c.IndexName == "" {
		errs = append(errs, errors.New("index name is empty"))
	}
	if c.RequestTimeout <= 0 {
		errs = append(errs, fmt.Errorf("request timeout must be positive, got %s", c.RequestTimeout))
	}
	if len(errs) > 0 {
		return fmt.Errorf("invalid config: %w", errors.Join(errs...))
	}
	return nil
}

func (fc fileConfig) apply(cfg *Config) error {
	setString(&cfg.OpenSearchURL, fc.OpenSearch.URL)
	setString(&cfg.OpenSearchUser, fc.OpenSearch.Username)
	setString(&cfg.OpenSearchPass, fc.OpenSearch.Password)
	if fc.OpenSearch.Insecure != nil {
		cfg.OpenSearchInsecure = *fc.OpenSearch.Insecure
	}
	setString(&cfg.IndexName, fc.Index)
	setString(&cfg.DataFile, fc.DataFile)
	setString(&cfg.ChartFile, fc.ChartFile)
	setString(&cfg.LogFile, fc.Log.File)
	if fc.Log.Level != "" {
		cfg.LogLevel = parseLogLevel(fc.Log.Level)
	}
	if fc.Timeout != "" {
		d, err := time.ParseDuration(fc.Timeout)
		if err != nil {
			return fmt.Errorf("timeout: %w", err)
		}
		cfg.RequestTimeout = d
	}
	return nil
}

func fromEnv(base Config) Config {
	return Config{
		OpenSearchURL:      getEnv("OPENSEARCH_URL", base.OpenSearchURL),
		OpenSearchUser:     getEnv("OPENSEARCH_USER", base.OpenSearchUser),
		OpenSearchPass:     getEnv("OPENSEARCH_PASS", base.OpenSearchPass),
		OpenSearchInsecure: getEnvBool("OPENSEARCH_INSECURE", base.OpenSearchInsecure),
		RequestTimeout:     getEnvDuration("LOGCHART_TIMEOUT", base.RequestTimeout),

		IndexName: getEnv("OPENSEARCH_INDEX", base.IndexName),

		DataFile:  getEnv("LOGCHART_DATA_FILE", base.DataFile),
		ChartFile: getEnv("LOGCHART_CHART_FILE", base.ChartFile),

		LogFile:  getEnv("LOGCHART_LOG_FILE", base.LogFile),
		LogLevel: getEnvLevel("LOGCHART_LOG_LEVEL", base.LogLevel),
	}
}

func setString(dst *string, val string) {
	if val != "" {
		*dst = val
	}
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getEnvBool(key string, defaultVal bool) bool {
	switch strings.ToLower(os.Getenv(key)) {
	case "true", "1", "yes":
		return true
	case "false", "0", "no":
		return false
	default:
		return defaultVal
	}
}

func getEnvDuration(key string, defaultVal time.Duration) time.Duration {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}
	d, err := time.ParseDuration(val)
	if err != nil {
		slog.Warn("ignoring invalid duration", "key", key, "value", val, "error", err)
		return defaultVal
	}
	return d
}

func getEnvLevel(key string, defaultVal slog.Level) slog.Level {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}
	return parseLogLevel(val)
}

func parseLogLevel(s string) slog.Level {
	switch strings.ToUpper(s) {
	case "DEBUG":
		return slog.LevelDebug
	case "INFO":
		return slog.LevelInfo
	case "WARN", "WARNING":
		return slog.LevelWarn
	case "ERROR":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
