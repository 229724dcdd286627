package config

import (
	"log"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Defaults used when a value is missing or invalid.
const (
	DefaultPort               = "8080"
	DefaultBaseURL            = "https://api.currencybeacon.com/v1"
	DefaultLogLevel           = "info"
	DefaultUpstreamTimeout    = 10 * time.Second
	DefaultUpstreamRetryMax   = 3
	DefaultConversionCacheTTL = 5 * time.Minute
	DefaultDirectoryCacheTTL  = time.Duration(0) // never expires
	DefaultSessionTTL         = 30 * time.Minute
	DefaultRateLimit          = "120-M"
)

// Config holds application configuration.
type Config struct {
	Port         string
	IsProduction bool
	LogLevel     string

	// Remote exchange-rate API
	CurrencyBeaconAPIKey  string
	CurrencyBeaconBaseURL string
	UpstreamTimeout       time.Duration
	UpstreamRetryMax      int

	// Caching and sessions
	ConversionCacheTTL time.Duration
	DirectoryCacheTTL  time.Duration
	SessionTTL         time.Duration

	// HTTP surface
	RateLimit          string   // ulule/limiter formatted rate, e.g. "120-M"
	CORSAllowedOrigins []string // empty means allow all
}

// LoadConfig loads configuration from environment variables and .env file if present.
// A missing API key is only warned about: requests will fail at call time.
func LoadConfig() (*Config, error) {
	// Attempt to load .env file, ignore error if it doesn't exist
	_ = godotenv.Load()

	v := viper.New()
	v.SetDefault("PORT", DefaultPort)
	v.SetDefault("IS_PRODUCTION", false)
	v.SetDefault("LOG_LEVEL", DefaultLogLevel)
	v.SetDefault("CURRENCY_BEACON_API_KEY", "")
	v.SetDefault("CURRENCY_BEACON_BASE_URL", DefaultBaseURL)
	v.SetDefault("UPSTREAM_TIMEOUT", DefaultUpstreamTimeout.String())
	v.SetDefault("UPSTREAM_RETRY_MAX", DefaultUpstreamRetryMax)
	v.SetDefault("CONVERSION_CACHE_TTL", DefaultConversionCacheTTL.String())
	v.SetDefault("DIRECTORY_CACHE_TTL", DefaultDirectoryCacheTTL.String())
	v.SetDefault("SESSION_TTL", DefaultSessionTTL.String())
	v.SetDefault("RATE_LIMIT", DefaultRateLimit)
	v.SetDefault("CORS_ALLOWED_ORIGINS", "")
	v.AutomaticEnv()

	cfg := &Config{}

	cfg.Port = v.GetString("PORT")
	if cfg.Port == "" {
		cfg.Port = DefaultPort
		log.Printf("Warning: PORT environment variable not set. Defaulting to %s\n", cfg.Port)
	}
	cfg.IsProduction = v.GetBool("IS_PRODUCTION")
	cfg.LogLevel = strings.ToLower(v.GetString("LOG_LEVEL"))

	cfg.CurrencyBeaconAPIKey = v.GetString("CURRENCY_BEACON_API_KEY")
	if cfg.CurrencyBeaconAPIKey == "" {
		log.Println("Warning: CURRENCY_BEACON_API_KEY is not set. Requests to the exchange-rate API will fail.")
	}

	cfg.CurrencyBeaconBaseURL = strings.TrimRight(v.GetString("CURRENCY_BEACON_BASE_URL"), "/")
	if cfg.CurrencyBeaconBaseURL == "" {
		cfg.CurrencyBeaconBaseURL = DefaultBaseURL
	}

	cfg.UpstreamTimeout = durationOrDefault(v, "UPSTREAM_TIMEOUT", DefaultUpstreamTimeout)
	cfg.UpstreamRetryMax = v.GetInt("UPSTREAM_RETRY_MAX")
	if cfg.UpstreamRetryMax < 0 {
		log.Printf("Warning: Invalid value for UPSTREAM_RETRY_MAX (%d). Defaulting to %d.\n", cfg.UpstreamRetryMax, DefaultUpstreamRetryMax)
		cfg.UpstreamRetryMax = DefaultUpstreamRetryMax
	}

	cfg.ConversionCacheTTL = durationOrDefault(v, "CONVERSION_CACHE_TTL", DefaultConversionCacheTTL)
	cfg.DirectoryCacheTTL = durationOrDefault(v, "DIRECTORY_CACHE_TTL", DefaultDirectoryCacheTTL)
	cfg.SessionTTL = durationOrDefault(v, "SESSION_TTL", DefaultSessionTTL)

	cfg.RateLimit = v.GetString("RATE_LIMIT")
	if cfg.RateLimit == "" {
		cfg.RateLimit = DefaultRateLimit
	}
	cfg.CORSAllowedOrigins = splitList(v.GetString("CORS_ALLOWED_ORIGINS"))

	return cfg, nil
}

// durationOrDefault parses a duration such as "90s" or "5m", warning and falling
// back to def when the value is not a valid non-negative duration.
func durationOrDefault(v *viper.Viper, key string, def time.Duration) time.Duration {
	raw := v.GetString(key)
	d, err := time.ParseDuration(raw)
	if err != nil || d < 0 {
		if raw != "" {
			log.Printf("Warning: Invalid value for %s ('%s'). Defaulting to %s.\n", key, raw, def.String())
		}
		return def
	}
	return d
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
