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
)

// Config is the full runtime configuration of the discovery host.
type Config struct {
	Mode          string
	Server        ServerConfig
	Providers     ProvidersConfig
	Storage       StorageConfig
	Cache         CacheConfig
	Observability ObservabilityConfig
}

type ServerConfig struct {
	Host               string
	Port               int
	RateLimitPerSecond int
	RateLimitBurst     int
	AllowedOrigins     []string
	ShutdownTimeout    time.Duration
}

// Addr returns the listen address.
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

type ProvidersConfig struct {
	HTTPTimeout            time.Duration
	NominatimURL           string
	NominatimUserAgent     string
	NominatimRatePerSecond float64
	OpenTripMapURL         string
	OpenTripMapAPIKey      string
	OpenWeatherURL         string
	OpenWeatherAPIKey      string
	GeminiAPIKey           string
}

type StorageConfig struct {
	// Path of the device-local key/value file. Empty keeps storage in memory.
	Path string
}

type CacheConfig struct {
	GeocodeTTL time.Duration
	WeatherTTL time.Duration
	TipsTTL    time.Duration
}

type ObservabilityConfig struct {
	ServiceName    string
	LogLevel       string
	MetricsEnabled bool
}

// Load reads an optional .env file and then the process environment.
func Load(envFiles ...string) (*Config, error) {
	if len(envFiles) == 0 {
		envFiles = []string{".env"}
	}
	if err := godotenv.Load(envFiles...); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load env file: %w", err)
	}

	cfg := &Config{
		Mode: getEnv("LOCI_MODE", "development"),
		Server: ServerConfig{
			Host:               getEnv("LOCI_HOST", "127.0.0.1"),
			Port:               getEnvInt("LOCI_PORT", 8000),
			RateLimitPerSecond: getEnvInt("LOCI_RATE_LIMIT_PER_SECOND", 20),
			RateLimitBurst:     getEnvInt("LOCI_RATE_LIMIT_BURST", 40),
			AllowedOrigins:     getEnvList("LOCI_ALLOWED_ORIGINS", []string{"http://localhost:3000", "http://localhost:5173"}),
			ShutdownTimeout:    getEnvDuration("LOCI_SHUTDOWN_TIMEOUT", 10*time.Second),
		},
		Providers: ProvidersConfig{
			HTTPTimeout:            getEnvDuration("LOCI_HTTP_TIMEOUT", 10*time.Second),
			NominatimURL:           getEnv("NOMINATIM_URL", "https://nominatim.openstreetmap.org"),
			NominatimUserAgent:     getEnv("NOMINATIM_USER_AGENT", "loci-discovery/1.0"),
			NominatimRatePerSecond: getEnvFloat("NOMINATIM_RATE_PER_SECOND", 1),
			OpenTripMapURL:         getEnv("OPENTRIPMAP_URL", "https://api.opentripmap.com/0.1/en"),
			OpenTripMapAPIKey:      os.Getenv("OPENTRIPMAP_API_KEY"),
			OpenWeatherURL:         getEnv("OPENWEATHER_URL", "https://api.openweathermap.org/data/2.5"),
			OpenWeatherAPIKey:      os.Getenv("OPENWEATHER_API_KEY"),
			GeminiAPIKey:           os.Getenv("GEMINI_API_KEY"),
		},
		Storage: StorageConfig{
			Path: getEnv("LOCI_STORAGE_PATH", "loci.db"),
		},
		Cache: CacheConfig{
			GeocodeTTL: getEnvDuration("LOCI_GEOCODE_CACHE_TTL", 30*time.Minute),
			WeatherTTL: getEnvDuration("LOCI_WEATHER_CACHE_TTL", 10*time.Minute),
			TipsTTL:    getEnvDuration("LOCI_TIPS_CACHE_TTL", 24*time.Hour),
		},
		Observability: ObservabilityConfig{
			ServiceName:    getEnv("LOCI_SERVICE_NAME", "loci-discovery"),
			LogLevel:       getEnv("LOCI_LOG_LEVEL", "info"),
			MetricsEnabled: getEnvBool("LOCI_METRICS_ENABLED", true),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// Validate checks the values that would otherwise fail late at runtime.
func (c *Config) Validate() error {
	var errs []error
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		errs = append(errs, fmt.Errorf("port out of range: %d", c.Server.Port))
	}
	if c.Providers.NominatimRatePerSecond <= 0 {
		errs = append(errs, fmt.Errorf("nominatim rate must be positive: %v", c.Providers.NominatimRatePerSecond))
	}
	if c.Providers.HTTPTimeout < 0 {
		errs = append(errs, fmt.Errorf("http timeout must not be negative: %s", c.Providers.HTTPTimeout))
	}
	if c.Mode != "development" && c.Mode != "production" {
		errs = append(errs, fmt.Errorf("unknown mode %q", c.Mode))
	}
	return errors.Join(errs...)
}

// IsProduction reports whether the host runs in production mode.
func (c *Config) IsProduction() bool {
	return c.Mode == "production"
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	v, err := strconv.Atoi(os.Getenv(key))
	if err != nil {
		return fallback
	}
	return v
}

func getEnvFloat(key string, fallback float64) float64 {
	v, err := strconv.ParseFloat(os.Getenv(key), 64)
	if err != nil {
		return fallback
	}
	return v
}

func getEnvBool(key string, fallback bool) bool {
	v, err := strconv.ParseBool(os.Getenv(key))
	if err != nil {
		return fallback
	}
	return v
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	v, err := time.ParseDuration(os.Getenv(key))
	if err != nil {
		return fallback
	}
	return v
}

func getEnvList(key string, fallback []string) []string {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback
	}
	var out []string
	for _, item := range strings.Split(raw, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}
