package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
	_ "time/tzdata"

	"github.com/joho/godotenv"

	"classmarket/internal/domain/policy"
)

const (
	defaultPort             = "8080"
	defaultDatabaseURL      = "file:classmarket.db?cache=shared"
	defaultJWTSecret        = "change-me-jwt-secret"
	defaultJWTAccessTTL     = "24h"
	defaultReportTimezone   = "UTC"
	defaultDashboardRefresh = "5m"
	defaultMetricsNamespace = "classmarket"
)

type Config struct {
	AppEnv             string
	Port               string
	DatabaseURL        string
	JWTSecret          string
	JWTAccessTTL       time.Duration
	ReportTimezone     string
	ReportLocation     *time.Location
	DashboardRefresh   time.Duration
	DefaultCommission  policy.CommissionConfig
	PolicyDefaultsFile string
	CORSAllowedOrigins []string
	MetricsNamespace   string
}

// Load reads .env when present and then the process environment.
func Load() (*Config, error) {
	_ = godotenv.Load()
	return FromEnv()
}

// FromEnv builds the config from the process environment only.
func FromEnv() (*Config, error) {
	cfg := &Config{}

	appEnv := strings.TrimSpace(os.Getenv("APP_ENV"))
	if appEnv == "" {
		appEnv = "dev"
	}
	cfg.AppEnv = strings.ToLower(appEnv)

	cfg.Port = strings.TrimSpace(getEnv("PORT", defaultPort))
	cfg.DatabaseURL = strings.TrimSpace(getEnv("DATABASE_URL", defaultDatabaseURL))
	cfg.JWTSecret = strings.TrimSpace(getEnv("JWT_SECRET", defaultJWTSecret))
	cfg.PolicyDefaultsFile = strings.TrimSpace(os.Getenv("POLICY_DEFAULTS_FILE"))
	cfg.MetricsNamespace = strings.TrimSpace(getEnv("METRICS_NAMESPACE", defaultMetricsNamespace))
	cfg.CORSAllowedOrigins = splitList(os.Getenv("CORS_ALLOWED_ORIGINS"))

	var err error
	cfg.JWTAccessTTL, err = parseDurationEnv("JWT_ACCESS_TTL", defaultJWTAccessTTL)
	if err != nil {
		return nil, err
	}
	cfg.DashboardRefresh, err = parseDurationEnv("DASHBOARD_REFRESH_INTERVAL", defaultDashboardRefresh)
	if err != nil {
		return nil, err
	}

	cfg.ReportTimezone = strings.TrimSpace(getEnv("REPORT_TIMEZONE", defaultReportTimezone))
	cfg.ReportLocation, err = time.LoadLocation(cfg.ReportTimezone)
	if err != nil {
		return nil, fmt.Errorf("invalid REPORT_TIMEZONE value %q: %w", cfg.ReportTimezone, err)
	}

	defaults := policy.DefaultCommissionConfig()
	cfg.DefaultCommission.StandardPct, err = parseFloatEnv("DEFAULT_COMMISSION_STANDARD_PCT", defaults.StandardPct)
	if err != nil {
		return nil, err
	}
	cfg.DefaultCommission.SubscriberPct, err = parseFloatEnv("DEFAULT_COMMISSION_SUBSCRIBER_PCT", defaults.SubscriberPct)
	if err != nil {
		return nil, err
	}

	if err := validateConfig(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// IsDev selects the console logger and gin debug mode.
func (c *Config) IsDev() bool {
	return !isProdLike(c.AppEnv)
}

func validateConfig(cfg *Config) error {
	if cfg.Port == "" {
		return fmt.Errorf("PORT must not be empty")
	}
	if cfg.JWTAccessTTL <= 0 {
		return fmt.Errorf("JWT_ACCESS_TTL must be > 0")
	}
	if cfg.DashboardRefresh <= 0 {
		return fmt.Errorf("DASHBOARD_REFRESH_INTERVAL must be > 0")
	}
	if err := cfg.DefaultCommission.Validate(); err != nil {
		return fmt.Errorf("default commission: %w", err)
	}
	if cfg.MetricsNamespace == "" {
		return fmt.Errorf("METRICS_NAMESPACE must not be empty")
	}

	if isProdLike(cfg.AppEnv) {
		if isEmptyOrDefault(cfg.JWTSecret, defaultJWTSecret) {
			return fmt.Errorf("in prod/release JWT_SECRET must be set and not default")
		}
		if !strings.HasPrefix(cfg.DatabaseURL, "postgres://") && !strings.HasPrefix(cfg.DatabaseURL, "postgresql://") {
			return fmt.Errorf("in prod/release DATABASE_URL must point to postgres")
		}
	}
	return nil
}

func isProdLike(env string) bool {
	env = strings.ToLower(strings.TrimSpace(env))
	return env == "prod" || env == "production" || env == "release"
}

func isEmptyOrDefault(v, def string) bool {
	trimmed := strings.TrimSpace(v)
	return trimmed == "" || trimmed == def
}

func parseDurationEnv(name, fallback string) (time.Duration, error) {
	value := strings.TrimSpace(getEnv(name, fallback))
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s value %q: %w", name, value, err)
	}
	return d, nil
}

func parseFloatEnv(name string, fallback float64) (float64, error) {
	value := strings.TrimSpace(os.Getenv(name))
	if value == "" {
		return fallback, nil
	}
	f, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s value %q: %w", name, value, err)
	}
	return f, nil
}

func splitList(raw string) []string {
	var out []string
	for _, s := range strings.Split(raw, ",") {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}

func getEnv(name, fallback string) string {
	if v := os.Getenv(name); v != "" {
		return v
	}
	return fallback
}
