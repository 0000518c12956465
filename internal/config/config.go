package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Database   DatabaseConfig
	App        AppConfig
	Storage    StorageConfig
	Geocoder   GeocoderConfig
	Attendance AttendanceConfig
}

type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Name     string
	SSLMode  string
}

// AppConfig holds application configuration
type AppConfig struct {
	Port     int
	Env      string
	LogLevel string
}

type StorageConfig struct {
	BasePath string
	BaseURL  string
}

type GeocoderConfig struct {
	BaseURL string // empty disables reverse geocoding
	Timeout time.Duration
}

// AttendanceConfig holds the attendance policy knobs.
type AttendanceConfig struct {
	DefaultBreakMinutes int
	HalfDayRatio        float64
	MinOvernightHours   float64
	MaxOvernightHours   float64
	AbsenceSweepEnabled bool
}

func Load() (*Config, error) {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	config := &Config{}

	// Database configuration
	dbPort, err := strconv.Atoi(getEnv("DB_PORT", "5432"))
	if err != nil {
		return nil, fmt.Errorf("invalid DB_PORT: %w", err)
	}

	config.Database = DatabaseConfig{
		Host:     getEnv("DB_HOST", "localhost"),
		Port:     dbPort,
		User:     getEnv("DB_USER", "postgres"),
		Password: getEnv("DB_PASSWORD", ""),
		Name:     getEnv("DB_NAME", "attendance"),
		SSLMode:  getEnv("DB_SSL_MODE", "disable"),
	}

	// Application configuration
	appPort, err := strconv.Atoi(getEnv("APP_PORT", "8080"))
	if err != nil {
		return nil, fmt.Errorf("invalid APP_PORT: %w", err)
	}

	config.App = AppConfig{
		Port:     appPort,
		Env:      getEnv("APP_ENV", "development"),
		LogLevel: getEnv("LOG_LEVEL", "info"),
	}

	config.Storage = StorageConfig{
		BasePath: getEnv("STORAGE_BASE_PATH", "./uploads"),
		BaseURL:  getEnv("STORAGE_BASE_URL", "http://localhost:8080/uploads"),
	}

	geocoderTimeout, err := time.ParseDuration(getEnv("GEOCODER_TIMEOUT", "3s"))
	if err != nil {
		return nil, fmt.Errorf("invalid GEOCODER_TIMEOUT: %w", err)
	}

	config.Geocoder = GeocoderConfig{
		BaseURL: getEnv("GEOCODER_BASE_URL", ""),
		Timeout: geocoderTimeout,
	}

	defaultBreak, err := strconv.Atoi(getEnv("ATTENDANCE_DEFAULT_BREAK_MINUTES", "60"))
	if err != nil {
		return nil, fmt.Errorf("invalid ATTENDANCE_DEFAULT_BREAK_MINUTES: %w", err)
	}

	halfDayRatio, err := strconv.ParseFloat(getEnv("ATTENDANCE_HALF_DAY_RATIO", "0.5"), 64)
	if err != nil {
		return nil, fmt.Errorf("invalid ATTENDANCE_HALF_DAY_RATIO: %w", err)
	}

	minOvernight, err := strconv.ParseFloat(getEnv("ATTENDANCE_MIN_OVERNIGHT_HOURS", "6"), 64)
	if err != nil {
		return nil, fmt.Errorf("invalid ATTENDANCE_MIN_OVERNIGHT_HOURS: %w", err)
	}

	maxOvernight, err := strconv.ParseFloat(getEnv("ATTENDANCE_MAX_OVERNIGHT_HOURS", "18"), 64)
	if err != nil {
		return nil, fmt.Errorf("invalid ATTENDANCE_MAX_OVERNIGHT_HOURS: %w", err)
	}

	config.Attendance = AttendanceConfig{
		DefaultBreakMinutes: defaultBreak,
		HalfDayRatio:        halfDayRatio,
		MinOvernightHours:   minOvernight,
		MaxOvernightHours:   maxOvernight,
		AbsenceSweepEnabled: getEnv("ABSENCE_SWEEP_ENABLED", "true") == "true",
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return config, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Database.Password == "" {
		return fmt.Errorf("DB_PASSWORD is required")
	}
	if c.Attendance.HalfDayRatio <= 0 || c.Attendance.HalfDayRatio >= 1 {
		return fmt.Errorf("ATTENDANCE_HALF_DAY_RATIO must be between 0 and 1")
	}
	if c.Attendance.MinOvernightHours >= c.Attendance.MaxOvernightHours {
		return fmt.Errorf("ATTENDANCE_MIN_OVERNIGHT_HOURS must be below ATTENDANCE_MAX_OVERNIGHT_HOURS")
	}
	return nil
}

// DatabaseURL returns the PostgreSQL connection string
func (c *Config) DatabaseURL() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.Name,
		c.Database.SSLMode,
	)
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
