package config

import (
	"fmt"
	"os"
	"time"

	logger "github.com/Bparsons0904/goLogger"
	"github.com/spf13/viper"
)

const (
	WriteModeAtomic = "atomic"
	WriteModeDirect = "direct"

	ScheduleDaily  = "daily"
	ScheduleWeekly = "weekly"
)

// Defaults applied when neither the environment nor a .env file sets a key.
const (
	DefaultOutputDir            = "annual_reports"
	DefaultArchiveBaseURL       = "https://www.annualreports.com"
	DefaultYearStart            = 2010
	DefaultYearEnd              = 2025
	DefaultThrottleMinSec       = 10
	DefaultThrottleMaxSec       = 15
	DefaultRateLimitCooldownSec = 60
	DefaultHTTPTimeoutSec       = 120
	DefaultServerPort           = 8288
	DefaultUserAgent            = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36"
)

type Config struct {
	GeneralVersion       string `mapstructure:"GENERAL_VERSION"`
	Environment          string `mapstructure:"ENVIRONMENT"`
	ServerPort           int    `mapstructure:"SERVER_PORT"`
	OutputDir            string `mapstructure:"OUTPUT_DIR"`
	ArchiveBaseURL       string `mapstructure:"ARCHIVE_BASE_URL"`
	YearStart            int    `mapstructure:"YEAR_START"`
	YearEnd              int    `mapstructure:"YEAR_END"`
	ThrottleMinSec       int    `mapstructure:"THROTTLE_MIN_SEC"`
	ThrottleMaxSec       int    `mapstructure:"THROTTLE_MAX_SEC"`
	RateLimitCooldownSec int    `mapstructure:"RATE_LIMIT_COOLDOWN_SEC"`
	UserAgent            string `mapstructure:"USER_AGENT"`
	HTTPTimeoutSec       int    `mapstructure:"HTTP_TIMEOUT_SEC"`
	WriteMode            string `mapstructure:"WRITE_MODE"`
	SweepSchedule        string `mapstructure:"SWEEP_SCHEDULE"`
	DatabaseHost         string `mapstructure:"DB_HOST"`
	DatabasePort         int    `mapstructure:"DB_PORT"`
	DatabaseName         string `mapstructure:"DB_NAME"`
	DatabaseUser         string `mapstructure:"DB_USER"`
	DatabasePassword     string `mapstructure:"DB_PASSWORD"`
	DatabaseCacheAddress string `mapstructure:"DB_CACHE_ADDRESS"`
	DatabaseCachePort    int    `mapstructure:"DB_CACHE_PORT"`
	MissingCacheTTLHours int    `mapstructure:"MISSING_CACHE_TTL_HOURS"`
}

var envVars = []string{
	"GENERAL_VERSION", "ENVIRONMENT", "SERVER_PORT",
	"OUTPUT_DIR", "ARCHIVE_BASE_URL", "YEAR_START", "YEAR_END",
	"THROTTLE_MIN_SEC", "THROTTLE_MAX_SEC", "RATE_LIMIT_COOLDOWN_SEC",
	"USER_AGENT", "HTTP_TIMEOUT_SEC", "WRITE_MODE", "SWEEP_SCHEDULE",
	"DB_HOST", "DB_PORT", "DB_NAME", "DB_USER", "DB_PASSWORD",
	"DB_CACHE_ADDRESS", "DB_CACHE_PORT", "MISSING_CACHE_TTL_HOURS",
}

// Default returns the built-in configuration used when nothing is overridden.
func Default() Config {
	return Config{
		GeneralVersion:       "dev",
		Environment:          "production",
		ServerPort:           DefaultServerPort,
		OutputDir:            DefaultOutputDir,
		ArchiveBaseURL:       DefaultArchiveBaseURL,
		YearStart:            DefaultYearStart,
		YearEnd:              DefaultYearEnd,
		ThrottleMinSec:       DefaultThrottleMinSec,
		ThrottleMaxSec:       DefaultThrottleMaxSec,
		RateLimitCooldownSec: DefaultRateLimitCooldownSec,
		UserAgent:            DefaultUserAgent,
		HTTPTimeoutSec:       DefaultHTTPTimeoutSec,
		WriteMode:            WriteModeAtomic,
		SweepSchedule:        ScheduleDaily,
		DatabasePort:         5432,
		DatabaseCachePort:    6379,
	}
}

func New() (Config, error) {
	log := logger.New("config").Function("New")
	log.Info("Initializing config")

	v := viper.New()
	setDefaults(v)

	v.AutomaticEnv()
	for _, env := range envVars {
		if err := v.BindEnv(env); err != nil {
			log.Warn("Failed to bind environment variable", "env", env, "error", err)
		}
	}

	if envVarsSet() {
		log.Info("Environment variables detected, skipping file loading")
	} else {
		v.SetConfigFile(".env")
		v.SetConfigType("env")

		if err := v.ReadInConfig(); err != nil {
			log.Debug("No .env file found, using defaults", "error", err)
		} else {
			log.Info("Loaded .env file")
		}

		v.SetConfigFile(".env.local")
		if err := v.MergeInConfig(); err != nil {
			log.Debug("No .env.local file found", "error", err)
		} else {
			log.Info("Loaded .env.local overrides")
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return Config{}, log.Err("Fatal error: could not unmarshal config", err)
	}

	if err := config.Validate(); err != nil {
		return Config{}, log.Err("Fatal error: invalid config", err)
	}

	log.Info("Successfully initialized config",
		"outputDir", config.OutputDir,
		"years", fmt.Sprintf("%d-%d", config.YearStart, config.YearEnd),
		"writeMode", config.WriteMode,
		"ledger", config.LedgerEnabled(),
		"missingCache", config.MissingCacheEnabled())

	return config, nil
}

// envVarsSet reports whether the environment already carries the sweep settings.
func envVarsSet() bool {
	_, outputSet := os.LookupEnv("OUTPUT_DIR")
	_, archiveSet := os.LookupEnv("ARCHIVE_BASE_URL")
	return outputSet || archiveSet
}

func setDefaults(v *viper.Viper) {
	d := Default()
	v.SetDefault("GENERAL_VERSION", d.GeneralVersion)
	v.SetDefault("ENVIRONMENT", d.Environment)
	v.SetDefault("SERVER_PORT", d.ServerPort)
	v.SetDefault("OUTPUT_DIR", d.OutputDir)
	v.SetDefault("ARCHIVE_BASE_URL", d.ArchiveBaseURL)
	v.SetDefault("YEAR_START", d.YearStart)
	v.SetDefault("YEAR_END", d.YearEnd)
	v.SetDefault("THROTTLE_MIN_SEC", d.ThrottleMinSec)
	v.SetDefault("THROTTLE_MAX_SEC", d.ThrottleMaxSec)
	v.SetDefault("RATE_LIMIT_COOLDOWN_SEC", d.RateLimitCooldownSec)
	v.SetDefault("USER_AGENT", d.UserAgent)
	v.SetDefault("HTTP_TIMEOUT_SEC", d.HTTPTimeoutSec)
	v.SetDefault("WRITE_MODE", d.WriteMode)
	v.SetDefault("SWEEP_SCHEDULE", d.SweepSchedule)
	v.SetDefault("DB_PORT", d.DatabasePort)
	v.SetDefault("DB_CACHE_PORT", d.DatabaseCachePort)
	v.SetDefault("MISSING_CACHE_TTL_HOURS", d.MissingCacheTTLHours)
}

// Validate reports the first setting that would make a sweep meaningless.
func (c Config) Validate() error {
	switch {
	case c.OutputDir == "":
		return fmt.Errorf("OUTPUT_DIR is empty")
	case c.ArchiveBaseURL == "":
		return fmt.Errorf("ARCHIVE_BASE_URL is empty")
	case c.YearStart > c.YearEnd:
		return fmt.Errorf("YEAR_START %d is after YEAR_END %d", c.YearStart, c.YearEnd)
	case c.ThrottleMinSec < 0 || c.ThrottleMinSec > c.ThrottleMaxSec:
		return fmt.Errorf("invalid throttle bounds %d-%d", c.ThrottleMinSec, c.ThrottleMaxSec)
	case c.RateLimitCooldownSec < 0:
		return fmt.Errorf("RATE_LIMIT_COOLDOWN_SEC is negative")
	case c.WriteMode != WriteModeAtomic && c.WriteMode != WriteModeDirect:
		return fmt.Errorf("unknown WRITE_MODE %q", c.WriteMode)
	case c.SweepSchedule != ScheduleDaily && c.SweepSchedule != ScheduleWeekly:
		return fmt.Errorf("unknown SWEEP_SCHEDULE %q", c.SweepSchedule)
	}
	return nil
}

func (c Config) ThrottleMin() time.Duration {
	return time.Duration(c.ThrottleMinSec) * time.Second
}

func (c Config) ThrottleMax() time.Duration {
	return time.Duration(c.ThrottleMaxSec) * time.Second
}

func (c Config) RateLimitCooldown() time.Duration {
	return time.Duration(c.RateLimitCooldownSec) * time.Second
}

func (c Config) HTTPTimeout() time.Duration {
	return time.Duration(c.HTTPTimeoutSec) * time.Second
}

func (c Config) MissingCacheTTL() time.Duration {
	return time.Duration(c.MissingCacheTTLHours) * time.Hour
}

// LedgerEnabled is true when enough database settings exist to record attempts.
func (c Config) LedgerEnabled() bool {
	return c.DatabaseHost != "" && c.DatabaseName != "" && c.DatabaseUser != ""
}

func (c Config) MissingCacheEnabled() bool {
	return c.DatabaseCacheAddress != "" && c.DatabaseCachePort > 0 && c.MissingCacheTTLHours > 0
}
