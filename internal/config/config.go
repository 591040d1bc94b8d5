package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
)

type Config struct {
	Database DatabaseConfig
	JWT      JWTConfig
	App      AppConfig
	Payroll  PayrollConfig
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
	Port     int
	Env      string
	LogLevel string
}

// PayrollConfig holds the company-wide compensation rules. It is read once at
// startup and passed into the payroll service as a value; nothing mutates it
// at runtime.
type PayrollConfig struct {
	WorkingHoursPerDay   decimal.Decimal
	WorkingDaysPerMonth  int
	OvertimeMultiplier   decimal.Decimal
	DefaultBaseSalary    decimal.Decimal
	DeductAbsences       bool
	Currency             string
	LateThresholdMinutes int
	HalfDayHours         decimal.Decimal
	DefaultShiftStart    string
	DefaultShiftEnd      string
}

func Load() (*Config, error) {
	// .env is optional outside development
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
		Name:     getEnv("DB_NAME", "tallyworks_payroll"),
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

	// JWT configuration
	config.JWT = JWTConfig{
		Secret:           getEnv("JWT_SECRET_KEY", ""),
		AccessExpiration: getEnv("JWT_ACCESS_EXPIRATION_TIME", "8h"),
	}

	// Payroll configuration
	payroll, err := loadPayrollConfig()
	if err != nil {
		return nil, err
	}
	config.Payroll = payroll

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return config, nil
}

func loadPayrollConfig() (PayrollConfig, error) {
	cfg := PayrollConfig{
		Currency:          getEnv("PAYROLL_CURRENCY", "IDR"),
		DefaultShiftStart: getEnv("PAYROLL_DEFAULT_SHIFT_START", "09:00"),
		DefaultShiftEnd:   getEnv("PAYROLL_DEFAULT_SHIFT_END", "17:00"),
		DeductAbsences:    getEnv("PAYROLL_DEDUCT_ABSENCES", "true") == "true",
	}

	var err error
	if cfg.WorkingHoursPerDay, err = getEnvDecimal("PAYROLL_WORKING_HOURS_PER_DAY", "8"); err != nil {
		return PayrollConfig{}, err
	}
	if cfg.OvertimeMultiplier, err = getEnvDecimal("PAYROLL_OVERTIME_MULTIPLIER", "1.5"); err != nil {
		return PayrollConfig{}, err
	}
	if cfg.DefaultBaseSalary, err = getEnvDecimal("PAYROLL_DEFAULT_BASE_SALARY", "0"); err != nil {
		return PayrollConfig{}, err
	}
	if cfg.HalfDayHours, err = getEnvDecimal("PAYROLL_HALF_DAY_HOURS", "4"); err != nil {
		return PayrollConfig{}, err
	}
	if cfg.WorkingDaysPerMonth, err = strconv.Atoi(getEnv("PAYROLL_WORKING_DAYS_PER_MONTH", "26")); err != nil {
		return PayrollConfig{}, fmt.Errorf("invalid PAYROLL_WORKING_DAYS_PER_MONTH: %w", err)
	}
	if cfg.LateThresholdMinutes, err = strconv.Atoi(getEnv("PAYROLL_LATE_THRESHOLD_MINUTES", "15")); err != nil {
		return PayrollConfig{}, fmt.Errorf("invalid PAYROLL_LATE_THRESHOLD_MINUTES: %w", err)
	}

	return cfg, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Database.Password == "" {
		return fmt.Errorf("DB_PASSWORD is required")
	}
	if c.JWT.Secret == "" {
		return fmt.Errorf("JWT_SECRET_KEY is required")
	}
	// Divisor safety for the compensation calculator
	if c.Payroll.WorkingDaysPerMonth <= 0 {
		return fmt.Errorf("PAYROLL_WORKING_DAYS_PER_MONTH must be greater than zero")
	}
	if !c.Payroll.WorkingHoursPerDay.IsPositive() {
		return fmt.Errorf("PAYROLL_WORKING_HOURS_PER_DAY must be greater than zero")
	}
	if c.Payroll.OvertimeMultiplier.LessThan(decimal.NewFromInt(1)) {
		return fmt.Errorf("PAYROLL_OVERTIME_MULTIPLIER must be at least 1")
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

func getEnvDecimal(key, fallback string) (decimal.Decimal, error) {
	value, err := decimal.NewFromString(getEnv(key, fallback))
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("invalid %s: %w", key, err)
	}
	return value, nil
}
