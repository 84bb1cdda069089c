package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
	_ "time/tzdata"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/v2"

	"service-admission/internal/domain"
)

var (
	// ErrInvalidBasePrice is returned when the configured base price is not a positive integer.
	ErrInvalidBasePrice = errors.New("ADMISSION_BASE_PRICE must be a positive integer")
	ErrInvalidBackend   = errors.New("REGISTRY_BACKEND must be memory or redis")
)

const (
	BackendMemory = "memory"
	BackendRedis  = "redis"
)

// Config holds application configuration loaded from the environment.
type Config struct {
	BasePrice        domain.Price
	Today            time.Time
	Location         *time.Location
	RulesDir         string
	RulesVersion     string
	RegistryBackend  string
	RegistrySeedPath string
	RedisURL         string
	HTTPAddr         string
	LogFormat        string
	LogLevel         string
	MetricsNamespace string
}

// Load reads configuration from environment variables and optional .env files.
func Load() (*Config, error) {
	_ = godotenv.Load()

	k := koanf.New(".")
	if err := k.Load(env.Provider("", ".", func(s string) string { return s }), nil); err != nil {
		return nil, fmt.Errorf("load env: %w", err)
	}

	price, err := parsePrice(valueOrDefault(k.String("ADMISSION_BASE_PRICE"), "1000"))
	if err != nil {
		return nil, err
	}

	loc, err := time.LoadLocation(valueOrDefault(k.String("ADMISSION_TIMEZONE"), "UTC"))
	if err != nil {
		return nil, fmt.Errorf("ADMISSION_TIMEZONE: %w", err)
	}

	cfg := &Config{
		BasePrice:        price,
		Location:         loc,
		RulesDir:         strings.TrimSpace(k.String("ADMISSION_RULES_PATH")),
		RulesVersion:     valueOrDefault(k.String("ADMISSION_RULES_VERSION"), "v1"),
		RegistryBackend:  strings.ToLower(valueOrDefault(k.String("REGISTRY_BACKEND"), BackendMemory)),
		RegistrySeedPath: strings.TrimSpace(k.String("REGISTRY_SEED_PATH")),
		RedisURL:         strings.TrimSpace(k.String("REDIS_URL")),
		HTTPAddr:         valueOrDefault(k.String("HTTP_ADDR"), ":8080"),
		LogFormat:        valueOrDefault(k.String("LOG_FORMAT"), "json"),
		LogLevel:         valueOrDefault(k.String("LOG_LEVEL"), "info"),
		MetricsNamespace: valueOrDefault(k.String("METRICS_NAMESPACE"), "admission"),
	}

	if raw := strings.TrimSpace(k.String("ADMISSION_TODAY")); raw != "" {
		day, err := time.ParseInLocation(time.DateOnly, raw, loc)
		if err != nil {
			return nil, fmt.Errorf("ADMISSION_TODAY: %w", err)
		}
		cfg.Today = day
	}

	switch cfg.RegistryBackend {
	case BackendMemory:
	case BackendRedis:
		if cfg.RedisURL == "" {
			return nil, errors.New("REDIS_URL is required for the redis registry backend")
		}
	default:
		return nil, fmt.Errorf("%w: %q", ErrInvalidBackend, cfg.RegistryBackend)
	}

	return cfg, nil
}

// Prices returns the engine's price configuration for this config.
func (c *Config) Prices() *Prices {
	return &Prices{Price: c.BasePrice, Fixed: c.Today, Location: c.Location}
}

// Prices serves the base price and the business date. A zero Fixed date means
// the current date in Location.
type Prices struct {
	Price    domain.Price
	Fixed    time.Time
	Location *time.Location
	Now      func() time.Time
}

func (p *Prices) BasePrice() domain.Price { return p.Price }

func (p *Prices) Today() time.Time {
	if !p.Fixed.IsZero() {
		return p.Fixed
	}
	now := time.Now
	if p.Now != nil {
		now = p.Now
	}
	t := now()
	if p.Location != nil {
		t = t.In(p.Location)
	}
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

func parsePrice(value string) (domain.Price, error) {
	n, err := strconv.ParseInt(strings.TrimSpace(value), 10, 64)
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidBasePrice, value)
	}
	return domain.Price(n), nil
}

func valueOrDefault(value, fallback string) string {
	if strings.TrimSpace(value) != "" {
		return strings.TrimSpace(value)
	}
	return fallback
}

// MustLoad behaves like Load but panics on error.
func MustLoad() *Config {
	cfg, err := Load()
	if err != nil {
		panic(err)
	}
	return cfg
}

// LoadForTests allows tests to override environment variables without touching the real environment.
func LoadForTests(env map[string]string) (*Config, error) {
	original := make(map[string]string, len(env))
	for key := range env {
		original[key] = os.Getenv(key)
		if err := setEnvVar(key, env[key]); err != nil {
			return nil, err
		}
	}
	cfg, err := Load()
	restoreErr := restoreEnv(original)
	if err != nil {
		return nil, err
	}
	return cfg, restoreErr
}

func setEnvVar(key, value string) error {
	if value == "" {
		return os.Unsetenv(key)
	}
	return os.Setenv(key, value)
}

func restoreEnv(values map[string]string) error {
	var errs []string
	for key, value := range values {
		if err := setEnvVar(key, value); err != nil {
			errs = append(errs, fmt.Sprintf("%s: %v", key, err))
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("restore env: %s", strings.Join(errs, "; "))
	}
	return nil
}
