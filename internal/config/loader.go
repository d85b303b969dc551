package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/example/staff-calendar/internal/calendar"
	"github.com/example/staff-calendar/internal/logging"
	"gopkg.in/yaml.v3"
)

// Config captures configuration values for the calendar service.
type Config struct {
	HTTPPort       int     `yaml:"http_port"`
	SQLiteDSN      string  `yaml:"sqlite_dsn"`
	SeedPath       string  `yaml:"seed_path"`
	LogLevel       string  `yaml:"log_level"`
	HourHeight     float64 `yaml:"hour_height"`
	InvalidRecords string  `yaml:"invalid_records"`
}

// Load builds the configuration from defaults, then the YAML file named by
// CALENDAR_CONFIG_PATH when set, then CALENDAR_* environment variables.
//
// Every invalid value is reported in a single error.
func Load() (Config, error) {
	cfg := Config{
		HTTPPort:       8080,
		SQLiteDSN:      "file:calendar.db",
		LogLevel:       "info",
		HourHeight:     calendar.DefaultOptions().HourHeight,
		InvalidRecords: string(calendar.InvalidRecordSkip),
	}

	if path := strings.TrimSpace(os.Getenv("CALENDAR_CONFIG_PATH")); path != "" {
		if err := loadFromFile(path, &cfg); err != nil {
			return Config{}, err
		}
	}

	invalid := make([]string, 0, 2)

	if portValue := strings.TrimSpace(os.Getenv("CALENDAR_HTTP_PORT")); portValue != "" {
		port, err := strconv.Atoi(portValue)
		if err != nil {
			invalid = append(invalid, "CALENDAR_HTTP_PORT")
		} else {
			cfg.HTTPPort = port
		}
	}

	if dsn := strings.TrimSpace(os.Getenv("CALENDAR_SQLITE_DSN")); dsn != "" {
		cfg.SQLiteDSN = dsn
	}

	if seed := strings.TrimSpace(os.Getenv("CALENDAR_SEED_PATH")); seed != "" {
		cfg.SeedPath = seed
	}

	if level := strings.TrimSpace(os.Getenv("CALENDAR_LOG_LEVEL")); level != "" {
		cfg.LogLevel = level
	}

	if heightValue := strings.TrimSpace(os.Getenv("CALENDAR_HOUR_HEIGHT")); heightValue != "" {
		height, err := strconv.ParseFloat(heightValue, 64)
		if err != nil {
			invalid = append(invalid, "CALENDAR_HOUR_HEIGHT")
		} else {
			cfg.HourHeight = height
		}
	}

	if policy := strings.TrimSpace(os.Getenv("CALENDAR_INVALID_RECORDS")); policy != "" {
		cfg.InvalidRecords = policy
	}

	if cfg.HTTPPort <= 0 && !contains(invalid, "CALENDAR_HTTP_PORT") {
		invalid = append(invalid, "CALENDAR_HTTP_PORT")
	}
	if cfg.HourHeight <= 0 && !contains(invalid, "CALENDAR_HOUR_HEIGHT") {
		invalid = append(invalid, "CALENDAR_HOUR_HEIGHT")
	}
	if _, err := logging.ParseLevel(cfg.LogLevel); err != nil {
		invalid = append(invalid, "CALENDAR_LOG_LEVEL")
	}
	if _, err := calendar.ParseInvalidRecordPolicy(cfg.InvalidRecords); err != nil {
		invalid = append(invalid, "CALENDAR_INVALID_RECORDS")
	}

	if len(invalid) > 0 {
		return Config{}, fmt.Errorf("環境変数の値が不正です: %s", strings.Join(invalid, ", "))
	}

	return cfg, nil
}

// LayoutOptions converts the geometry settings into layout engine options.
func (c Config) LayoutOptions() calendar.Options {
	policy, err := calendar.ParseInvalidRecordPolicy(c.InvalidRecords)
	if err != nil {
		policy = calendar.InvalidRecordSkip
	}
	return calendar.Options{HourHeight: c.HourHeight, OnInvalidRecord: policy}
}

func loadFromFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("設定ファイルを読み込めません: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("設定ファイルの形式が不正です: %w", err)
	}
	return nil
}

func contains(values []string, target string) bool {
	for _, value := range values {
		if value == target {
			return true
		}
	}
	return false
}
