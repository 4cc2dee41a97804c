package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/catDaddyDev/starter-restaurant-reservation/internal/models"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	App        AppConfig        `yaml:"app"`
	Database   DatabaseConfig   `yaml:"database"`
	Redis      RedisConfig      `yaml:"redis"`
	Restaurant RestaurantConfig `yaml:"restaurant"`
	Logging    LoggingConfig    `yaml:"logging"`
	API        APIConfig        `yaml:"api"`
	Monitoring MonitoringConfig `yaml:"monitoring"`
	Exports    ExportConfig     `yaml:"exports"`
}

type AppConfig struct {
	Name        string `yaml:"name"`
	Environment string `yaml:"environment"`
	Version     string `yaml:"version"`
}

type DatabaseConfig struct {
	Path string `yaml:"path"`
}

type RedisConfig struct {
	Address  string `yaml:"address"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
	PoolSize int    `yaml:"pool_size"`
}

// RestaurantConfig is the schedule policy reservations are validated
// against. ClosedWeekday uses the Sunday=0 weekday convention; it is a
// pointer so that an explicit 0 (Sunday) survives defaulting.
type RestaurantConfig struct {
	OpeningTime   string `yaml:"opening_time"`
	LastSeating   string `yaml:"last_seating"`
	ClosedWeekday *int   `yaml:"closed_weekday"`
}

// LoggingConfig controls log output. SampleEvery > 1 keeps one of every
// N events; request logging on a busy dashboard floods a file otherwise.
type LoggingConfig struct {
	Level       string `yaml:"level"`
	Format      string `yaml:"format"`
	Output      string `yaml:"output"`
	FilePath    string `yaml:"file_path"`
	SampleEvery int    `yaml:"sample_every"`
}

type APIConfig struct {
	Port      int                `yaml:"port"`
	Auth      APIAuthConfig      `yaml:"auth"`
	RateLimit APIRateLimitConfig `yaml:"rate_limit"`
}

type APIAuthConfig struct {
	Enabled      bool           `yaml:"enabled"`
	HeaderAPIKey string         `yaml:"header_api_key"`
	APIKeys      []APIClientKey `yaml:"api_keys"`
}

type APIClientKey struct {
	Key  string `yaml:"key"`
	Name string `yaml:"name"`
}

type APIRateLimitConfig struct {
	RPS   float64 `yaml:"rps"`
	Burst int     `yaml:"burst"`
}

type MonitoringConfig struct {
	PrometheusEnabled bool `yaml:"prometheus_enabled"`
	PrometheusPort    int  `yaml:"prometheus_port"`
}

type ExportConfig struct {
	Path string `yaml:"path"`
}

func Load(configPath string) (*Config, error) {
	// .env is optional; exported variables win either way.
	_ = godotenv.Load()

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, err
	}

	expandedData := []byte(os.ExpandEnv(string(data)))

	var config Config
	if err := yaml.Unmarshal(expandedData, &config); err != nil {
		return nil, err
	}

	config.applyDefaults()

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &config, nil
}

func (c *Config) Validate() error {
	if c.Database.Path == "" {
		return errors.New("database path is required")
	}
	if day := *c.Restaurant.ClosedWeekday; day < 0 || day > 6 {
		return fmt.Errorf("closed_weekday %d is out of range [0,6]", day)
	}

	opening, err := parseHHMM(c.Restaurant.OpeningTime)
	if err != nil {
		return fmt.Errorf("invalid opening_time %q: %w", c.Restaurant.OpeningTime, err)
	}
	lastSeating, err := parseHHMM(c.Restaurant.LastSeating)
	if err != nil {
		return fmt.Errorf("invalid last_seating %q: %w", c.Restaurant.LastSeating, err)
	}
	if opening > lastSeating {
		return errors.New("opening_time must not be later than last_seating")
	}

	return nil
}

func (c *Config) applyDefaults() {
	if c.App.Name == "" {
		c.App.Name = "restaurant-reservation"
	}
	if c.API.Port == 0 {
		c.API.Port = 8080
	}
	if c.API.Auth.HeaderAPIKey == "" {
		c.API.Auth.HeaderAPIKey = "x-api-key"
	}
	if c.Monitoring.PrometheusEnabled && c.Monitoring.PrometheusPort == 0 {
		c.Monitoring.PrometheusPort = 9090
	}
	if c.Restaurant.OpeningTime == "" {
		c.Restaurant.OpeningTime = "10:30"
	}
	if c.Restaurant.LastSeating == "" {
		c.Restaurant.LastSeating = "21:30"
	}
	if c.Restaurant.ClosedWeekday == nil {
		day := int(models.DefaultClosedWeekday)
		c.Restaurant.ClosedWeekday = &day
	}
	if c.Exports.Path == "" {
		c.Exports.Path = "exports"
	}
}

// OpeningHHMM returns the opening time as a 4-digit HHMM integer.
// Validate must have succeeded first.
func (r RestaurantConfig) OpeningHHMM() int {
	hhmm, _ := parseHHMM(r.OpeningTime)
	return hhmm
}

// LastSeatingHHMM returns the last bookable time as a 4-digit HHMM
// integer. Validate must have succeeded first.
func (r RestaurantConfig) LastSeatingHHMM() int {
	hhmm, _ := parseHHMM(r.LastSeating)
	return hhmm
}

// ClosedDay returns the configured closed weekday. Validate must have
// succeeded first.
func (r RestaurantConfig) ClosedDay() time.Weekday {
	return time.Weekday(*r.ClosedWeekday)
}

func parseHHMM(value string) (int, error) {
	t, err := time.Parse("15:04", value)
	if err != nil {
		return 0, err
	}
	return t.Hour()*100 + t.Minute(), nil
}
