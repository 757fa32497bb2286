package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
)

type Config struct {
	Database DatabaseConfig
	JWT      JWTConfig
	App      AppConfig
	Payroll  PayrollConfig
	Payslip  PayslipConfig
}

type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Name     string
	SSLMode  string
}

// JWTConfig holds JWT configuration
type JWTConfig struct {
	Secret           string
	AccessExpiration string
}

// AppConfig holds application configuration
type AppConfig struct {
	Port           int
	Env            string
	LogLevel       string
	AllowedOrigins []string
}

// PayrollConfig holds defaults applied to new compensation structures and batch runs
type PayrollConfig struct {
	DefaultWorkingDays   int
	DefaultWorkingHours  decimal.Decimal
	BatchConcurrency     int
	AutoGenerate         bool
	AutoGenerateInterval time.Duration
}

type PayslipConfig struct {
	CompanyName string
	Currency    string
}

func Load() (*Config, error) {
	// .env is optional; real deployments inject the environment directly
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env file: %w", err)
	}

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
		Name:     getEnv("DB_NAME", "factory_erp"),
		SSLMode:  getEnv("DB_SSL_MODE", "disable"),
	}

	// Application configuration
	appPort, err := strconv.Atoi(getEnv("APP_PORT", "8080"))
	if err != nil {
		return nil, fmt.Errorf("invalid APP_PORT: %w", err)
	}

	config.App = AppConfig{
		Port:           appPort,
		Env:            getEnv("APP_ENV", "development"),
		LogLevel:       getEnv("LOG_LEVEL", "info"),
		AllowedOrigins: getEnvSlice("CORS_ALLOWED_ORIGINS", []string{"http://localhost:3000"}),
	}

	// JWT configuration
	config.JWT = JWTConfig{
		Secret:           getEnv("JWT_SECRET_KEY", ""),
		AccessExpiration: getEnv("JWT_ACCESS_EXPIRATION_TIME", "1h"),
	}

	// Payroll configuration
	workingHours, err := decimal.NewFromString(getEnv("PAYROLL_DEFAULT_WORKING_HOURS", "8"))
	if err != nil {
		return nil, fmt.Errorf("invalid PAYROLL_DEFAULT_WORKING_HOURS: %w", err)
	}
	interval, err := time.ParseDuration(getEnv("PAYROLL_AUTOGENERATE_INTERVAL", "24h"))
	if err != nil {
		return nil, fmt.Errorf("invalid PAYROLL_AUTOGENERATE_INTERVAL: %w", err)
	}

	config.Payroll = PayrollConfig{
		DefaultWorkingDays:   getEnvInt("PAYROLL_DEFAULT_WORKING_DAYS", 26),
		DefaultWorkingHours:  workingHours,
		BatchConcurrency:     getEnvInt("PAYROLL_BATCH_CONCURRENCY", 4),
		AutoGenerate:         getEnvBool("PAYROLL_AUTOGENERATE", false),
		AutoGenerateInterval: interval,
	}

	config.Payslip = PayslipConfig{
		CompanyName: getEnv("PAYSLIP_COMPANY_NAME", "Sai Hari Papers"),
		Currency:    getEnv("PAYSLIP_CURRENCY", "INR"),
	}

	// Validate required fields
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
	if c.JWT.Secret == "" {
		return fmt.Errorf("JWT_SECRET_KEY is required")
	}
	if _, err := time.ParseDuration(c.JWT.AccessExpiration); err != nil {
		return fmt.Errorf("JWT_ACCESS_EXPIRATION_TIME is invalid: %w", err)
	}
	if c.Payroll.DefaultWorkingDays <= 0 {
		return fmt.Errorf("PAYROLL_DEFAULT_WORKING_DAYS must be positive")
	}
	if !c.Payroll.DefaultWorkingHours.IsPositive() {
		return fmt.Errorf("PAYROLL_DEFAULT_WORKING_HOURS must be positive")
	}
	if c.Payroll.BatchConcurrency <= 0 {
		return fmt.Errorf("PAYROLL_BATCH_CONCURRENCY must be positive")
	}
	if c.Payroll.AutoGenerate && c.Payroll.AutoGenerateInterval <= 0 {
		return fmt.Errorf("PAYROLL_AUTOGENERATE_INTERVAL must be positive")
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

func getEnvInt(key string, fallback int) int {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvBool(key string, fallback bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvSlice(key string, fallback []string) []string {
	value := getEnv(key, "")
	if value == "" {
		return fallback
	}
	var result []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			result = append(result, part)
		}
	}
	return result
}
