package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func missingEnvFile(t *testing.T) string {
	t.Helper()
	return filepath.Join(t.TempDir(), "absent.env")
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(missingEnvFile(t))
	require.NoError(t, err)

	assert.Equal(t, 7, cfg.Circulation.LoanPeriodDays)
	assert.True(t, cfg.GetFinePerDay().Equal(decimal.NewFromInt(1)))
	assert.True(t, cfg.GetDamageFee().Equal(decimal.NewFromInt(2)))
	assert.True(t, cfg.GetLostBookFee().Equal(decimal.NewFromInt(10)))
	assert.Equal(t, 2, cfg.Circulation.LoanLimit)
	assert.Equal(t, "2.00", cfg.GetFineLimit().StringFixed(2))
	assert.Equal(t, 2, cfg.GetMemberLimits().Loans)
	assert.NoError(t, cfg.GetMemberLimits().Validate())
	assert.Equal(t, "0 0 0 * * *", cfg.Scheduler.OverdueSweep)
	assert.Equal(t, time.UTC, cfg.GetLocation())
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.True(t, cfg.IsDevelopment())
	assert.False(t, cfg.IsProduction())
}

func TestLoad_EnvironmentOverrides(t *testing.T) {
	t.Setenv("LOAN_PERIOD_DAYS", "14")
	t.Setenv("FINE_PER_DAY", "0.50")
	t.Setenv("LOG_FORMAT", "json")
	t.Setenv("ENV", "production")
	t.Setenv("LOAN_LIMIT", "5")
	t.Setenv("FINE_LIMIT", "12.50")

	cfg, err := Load(missingEnvFile(t))
	require.NoError(t, err)

	limits := cfg.GetMemberLimits()
	assert.Equal(t, 5, limits.Loans)
	assert.Equal(t, "12.50", limits.Fine.StringFixed(2))

	assert.Equal(t, 14, cfg.Circulation.LoanPeriodDays)
	assert.Equal(t, "0.50", cfg.GetFinePerDay().StringFixed(2))
	assert.Equal(t, "json", cfg.Logging.Format)
	assert.True(t, cfg.IsProduction())
}

func TestLoad_DotEnvFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "desk.env")
	require.NoError(t, os.WriteFile(path, []byte("CATALOG_PATH=/srv/catalog.yaml\n"), 0o600))
	t.Cleanup(func() { os.Unsetenv("CATALOG_PATH") })

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "/srv/catalog.yaml", cfg.App.CatalogPath)
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			Circulation: CirculationConfig{LoanPeriodDays: 7, FinePerDay: "1.00", DamageFee: "2.00", LostBookFee: "10.00", LoanLimit: 2, FineLimit: "2.00"},
			Scheduler:   SchedulerConfig{OverdueSweep: "0 0 0 * * *", Timezone: "UTC"},
		}
	}

	tests := []struct {
		name          string
		mutate        func(c *Config)
		errorContains string
	}{
		{name: "valid", mutate: func(*Config) {}},
		{name: "zero loan period", mutate: func(c *Config) { c.Circulation.LoanPeriodDays = 0 }, errorContains: "LOAN_PERIOD_DAYS"},
		{name: "bad fine", mutate: func(c *Config) { c.Circulation.FinePerDay = "one" }, errorContains: "FINE_PER_DAY"},
		{name: "negative damage fee", mutate: func(c *Config) { c.Circulation.DamageFee = "-2" }, errorContains: "DAMAGE_FEE"},
		{name: "zero loan limit", mutate: func(c *Config) { c.Circulation.LoanLimit = 0 }, errorContains: "LOAN_LIMIT"},
		{name: "bad fine limit", mutate: func(c *Config) { c.Circulation.FineLimit = "two" }, errorContains: "FINE_LIMIT"},
		{name: "zero fine limit", mutate: func(c *Config) { c.Circulation.FineLimit = "0" }, errorContains: "FINE_LIMIT must be greater than 0"},
		{name: "bad cron", mutate: func(c *Config) { c.Scheduler.OverdueSweep = "every night" }, errorContains: "OVERDUE_SWEEP_SCHEDULE"},
		{name: "bad timezone", mutate: func(c *Config) { c.Scheduler.Timezone = "Mars/Olympus" }, errorContains: "SCHEDULER_TIMEZONE"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)

			err := cfg.Validate()
			if tt.errorContains == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errorContains)
		})
	}
}
