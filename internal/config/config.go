package config

import (
	"fmt"
	"time"

	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"
	"github.com/shopspring/decimal"
	"github.com/spf13/viper"

	"github.com/segyhp/circulation-desk/internal/domain"
	"github.com/segyhp/circulation-desk/pkg/utils"
)

// Config holds all configuration for our application
type Config struct {
	App         AppConfig         `mapstructure:",squash"`
	Logging     LoggingConfig     `mapstructure:",squash"`
	Circulation CirculationConfig `mapstructure:",squash"`
	Scheduler   SchedulerConfig   `mapstructure:",squash"`
}

type AppConfig struct {
	Env         string `mapstructure:"ENV"`
	CatalogPath string `mapstructure:"CATALOG_PATH"`
}

type LoggingConfig struct {
	Level  string `mapstructure:"LOG_LEVEL"`
	Format string `mapstructure:"LOG_FORMAT"`
}

type CirculationConfig struct {
	LoanPeriodDays int    `mapstructure:"LOAN_PERIOD_DAYS"`
	FinePerDay     string `mapstructure:"FINE_PER_DAY"`
	DamageFee      string `mapstructure:"DAMAGE_FEE"`
	LostBookFee    string `mapstructure:"LOST_BOOK_FEE"`
	LoanLimit      int    `mapstructure:"LOAN_LIMIT"`
	FineLimit      string `mapstructure:"FINE_LIMIT"`
}

type SchedulerConfig struct {
	OverdueSweep string `mapstructure:"OVERDUE_SWEEP_SCHEDULE"`
	Timezone     string `mapstructure:"SCHEDULER_TIMEZONE"`
}

// cronParser accepts the six-field (seconds first) specs the scheduler runs with
var cronParser = cron.NewParser(
	cron.Second | cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor,
)

// Load reads configuration from environment variables and an optional .env file
func Load(envFiles ...string) (*Config, error) {
	if len(envFiles) == 0 {
		envFiles = []string{".env"}
	}
	// Don't fail if .env file doesn't exist
	_ = godotenv.Load(envFiles...)

	v := viper.New()

	// Set defaults
	v.SetDefault("ENV", "development")
	v.SetDefault("CATALOG_PATH", "")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "text")
	v.SetDefault("LOAN_PERIOD_DAYS", 7)
	v.SetDefault("FINE_PER_DAY", "1.00")
	v.SetDefault("DAMAGE_FEE", "2.00")
	v.SetDefault("LOST_BOOK_FEE", "10.00")
	v.SetDefault("LOAN_LIMIT", domain.LoanLimit)
	v.SetDefault("FINE_LIMIT", domain.FineLimit.StringFixed(2))
	v.SetDefault("OVERDUE_SWEEP_SCHEDULE", "0 0 0 * * *")
	v.SetDefault("SCHEDULER_TIMEZONE", "UTC")

	// Read from environment variables
	v.AutomaticEnv()

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	// Validate configuration
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Circulation.LoanPeriodDays <= 0 {
		return fmt.Errorf("LOAN_PERIOD_DAYS must be greater than 0")
	}

	fees := []struct {
		key   string
		value string
	}{
		{"FINE_PER_DAY", c.Circulation.FinePerDay},
		{"DAMAGE_FEE", c.Circulation.DamageFee},
		{"LOST_BOOK_FEE", c.Circulation.LostBookFee},
	}
	for _, fee := range fees {
		amount, err := utils.DecimalFromString(fee.value)
		if err != nil {
			return fmt.Errorf("%s must be a valid decimal: %w", fee.key, err)
		}
		if amount.IsNegative() {
			return fmt.Errorf("%s cannot be negative", fee.key)
		}
	}

	if c.Circulation.LoanLimit <= 0 {
		return fmt.Errorf("LOAN_LIMIT must be greater than 0")
	}
	fineLimit, err := utils.DecimalFromString(c.Circulation.FineLimit)
	if err != nil {
		return fmt.Errorf("FINE_LIMIT must be a valid decimal: %w", err)
	}
	if !fineLimit.IsPositive() {
		return fmt.Errorf("FINE_LIMIT must be greater than 0")
	}

	if _, err := cronParser.Parse(c.Scheduler.OverdueSweep); err != nil {
		return fmt.Errorf("OVERDUE_SWEEP_SCHEDULE must be a valid cron spec: %w", err)
	}

	if _, err := time.LoadLocation(c.Scheduler.Timezone); err != nil {
		return fmt.Errorf("SCHEDULER_TIMEZONE must be a valid location: %w", err)
	}

	return nil
}

// IsDevelopment returns true if running in development environment
func (c *Config) IsDevelopment() bool {
	return c.App.Env == "development" || c.App.Env == "dev"
}

// IsProduction returns true if running in production environment
func (c *Config) IsProduction() bool {
	return c.App.Env == "production" || c.App.Env == "prod"
}

// GetFinePerDay returns the overdue fine charged per day late
func (c *Config) GetFinePerDay() decimal.Decimal {
	fine, _ := utils.DecimalFromString(c.Circulation.FinePerDay)
	return fine
}

// GetDamageFee returns the fee charged when a book comes back damaged
func (c *Config) GetDamageFee() decimal.Decimal {
	fee, _ := utils.DecimalFromString(c.Circulation.DamageFee)
	return fee
}

// GetLostBookFee returns the fee charged when a book is declared lost
func (c *Config) GetLostBookFee() decimal.Decimal {
	fee, _ := utils.DecimalFromString(c.Circulation.LostBookFee)
	return fee
}

// GetFineLimit returns the accrued fine at which a member stops borrowing
func (c *Config) GetFineLimit() decimal.Decimal {
	limit, _ := utils.DecimalFromString(c.Circulation.FineLimit)
	return limit
}

// GetMemberLimits returns the borrowing thresholds new members are held to
func (c *Config) GetMemberLimits() domain.Limits {
	return domain.Limits{Loans: c.Circulation.LoanLimit, Fine: c.GetFineLimit()}
}

// GetLocation returns the scheduler timezone
func (c *Config) GetLocation() *time.Location {
	loc, err := time.LoadLocation(c.Scheduler.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}
