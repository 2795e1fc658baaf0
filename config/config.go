package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"
)

// Environment variable prefix, e.g. OASA_SOURCE_PATH.
const ENV_PREFIX = "OASA"

// Points at an optional YAML file whose values override the environment.
const CONFIG_FILE_ENV = "OASA_CONFIG_FILE"

// Resources file paths
const RESOURCES_PATH_PREFIX = "resources"
const VALIDATIONS_RESOURCE = "oasa_validations.csv"

// Dashboard sizes
const TOP_STOPS_LIMIT = 12
const TOP_FIVE_LIMIT = 5

// Config is the complete application configuration.
type Config struct {
	Server    ServerConfig    `yaml:"server" envconfig:"SERVER"`
	Source    SourceConfig    `yaml:"source" envconfig:"SOURCE"`
	Redis     RedisConfig     `yaml:"redis" envconfig:"REDIS"`
	Dashboard DashboardConfig `yaml:"dashboard" envconfig:"DASHBOARD"`
}

type ServerConfig struct {
	Addr            string        `yaml:"addr" envconfig:"ADDR" default:":8080"`
	ReadTimeout     time.Duration `yaml:"read_timeout" envconfig:"READ_TIMEOUT" default:"15s"`
	WriteTimeout    time.Duration `yaml:"write_timeout" envconfig:"WRITE_TIMEOUT" default:"30s"`
	IdleTimeout     time.Duration `yaml:"idle_timeout" envconfig:"IDLE_TIMEOUT" default:"60s"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" envconfig:"SHUTDOWN_TIMEOUT" default:"10s"`
}

// SourceConfig describes where the validation records are loaded from.
// Location is a local file (.xlsx, .csv, .db/.sqlite) or an http(s) URL.
type SourceConfig struct {
	Location       string        `yaml:"location" envconfig:"LOCATION" default:"resources/oasa_validations.csv"`
	Sheet          string        `yaml:"sheet" envconfig:"SHEET" default:"Sheet1"`
	Table          string        `yaml:"table" envconfig:"TABLE" default:"validations"`
	ReloadInterval time.Duration `yaml:"reload_interval" envconfig:"RELOAD_INTERVAL" default:"10m"`
	FetchTimeout   time.Duration `yaml:"fetch_timeout" envconfig:"FETCH_TIMEOUT" default:"30s"`
}

// RedisConfig configures the dashboard cache. An empty Addr keeps the
// cache in process memory.
type RedisConfig struct {
	Addr     string        `yaml:"addr" envconfig:"ADDR" default:""`
	Password string        `yaml:"password" envconfig:"PASSWORD" default:""`
	DB       int           `yaml:"db" envconfig:"DB" default:"0"`
	TTL      time.Duration `yaml:"ttl" envconfig:"TTL" default:"1h"`
}

type DashboardConfig struct {
	TopStops int `yaml:"top_stops" envconfig:"TOP_STOPS" default:"12"`
	TopFive  int `yaml:"top_five" envconfig:"TOP_FIVE" default:"5"`
}

// Load reads the environment first and then overlays the YAML file named by
// OASA_CONFIG_FILE, if any.
func Load() (*Config, error) {
	var cfg Config

	if err := envconfig.Process(ENV_PREFIX, &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config from env: %w", err)
	}

	if configFile := os.Getenv(CONFIG_FILE_ENV); configFile != "" {
		if err := loadFromFile(configFile, &cfg); err != nil {
			return nil, fmt.Errorf("failed to load config from file: %w", err)
		}
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &cfg, nil
}

// loadFromFile unmarshals the YAML file on top of cfg; keys absent from the
// file keep their current value.
func loadFromFile(filePath string, cfg *Config) error {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return err
	}
	return yaml.Unmarshal(data, cfg)
}

func (c *Config) validate() error {
	if c.Server.Addr == "" {
		return fmt.Errorf("server address must be set")
	}
	if c.Server.ReadTimeout <= 0 || c.Server.WriteTimeout <= 0 {
		return fmt.Errorf("server timeouts must be positive")
	}
	if c.Source.Location == "" {
		return fmt.Errorf("source location must be set")
	}
	if c.Source.ReloadInterval < 0 {
		return fmt.Errorf("reload interval cannot be negative: %s", c.Source.ReloadInterval)
	}
	if c.Dashboard.TopStops <= 0 {
		c.Dashboard.TopStops = TOP_STOPS_LIMIT
	}
	if c.Dashboard.TopFive <= 0 {
		c.Dashboard.TopFive = TOP_FIVE_LIMIT
	}
	return nil
}

// SourceLocation resolves the configured source to a URL or an absolute path.
func (c *Config) SourceLocation() string {
	path := c.Source.Location
	if IsRemote(path) || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(BaseDir(), path)
}

// IsRemote reports whether location is an http(s) URL.
func IsRemote(location string) bool {
	lower := strings.ToLower(location)
	return strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://")
}

// BaseDir returns the absolute path of the project root directory
func BaseDir() string {
	// Check if PROJECT_ROOT is set
	if root := os.Getenv("PROJECT_ROOT"); root != "" {
		return root
	}

	// Default to the current working directory
	wd, err := os.Getwd()
	if err != nil {
		panic("Unable to determine working directory: " + err.Error())
	}

	return wd
}

func GetResourcePath(resourceFile string) string {
	return filepath.Join(BaseDir(), RESOURCES_PATH_PREFIX, resourceFile)
}
