package config

import (
	"fmt"
	"os"
	"strconv"
)

// Config holds all application configuration
type Config struct {
	Service   ServiceConfig
	Lexicon   LexiconConfig
	Inference InferenceConfig
	Redis     RedisConfig
	Cache     CacheConfig
	OTEL      OTELConfig
}

// ServiceConfig holds service identity configuration
type ServiceConfig struct {
	Name        string
	Version     string
	Environment string
}

// LexiconConfig holds paths to the static lookup tables
type LexiconConfig struct {
	LexiconPath     string
	SynonymPath     string
	IntentRulesPath string
}

// InferenceConfig holds sentiment model endpoint configuration
type InferenceConfig struct {
	URL            string
	APIKey         string
	Model          string
	RateLimitRPM   int
	RateLimitBurst int
}

// RedisConfig holds Redis configuration
type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

// CacheConfig holds result cache configuration
type CacheConfig struct {
	Enabled    bool
	TTLSeconds int
}

// OTELConfig holds OpenTelemetry configuration
type OTELConfig struct {
	ServiceName    string
	ServiceVersion string
	Endpoint       string
	Enabled        bool
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	return &Config{
		Service: ServiceConfig{
			Name:        getEnv("SERVICE_NAME", "cliniscribe"),
			Version:     getEnv("SERVICE_VERSION", "1.0.0"),
			Environment: getEnv("ENVIRONMENT", "development"),
		},
		Lexicon: LexiconConfig{
			LexiconPath:     getEnv("LEXICON_PATH", "config/clinical_lexicon.json"),
			SynonymPath:     getEnv("SYNONYM_MAP_PATH", "config/synonym_map.json"),
			IntentRulesPath: getEnv("INTENT_RULES_PATH", "config/intent_rules.json"),
		},
		Inference: InferenceConfig{
			URL:            getEnv("INFERENCE_URL", ""),
			APIKey:         getEnv("INFERENCE_API_KEY", ""),
			Model:          getEnv("INFERENCE_MODEL", "distilbert-sst2"),
			RateLimitRPM:   getEnvAsInt("INFERENCE_RATE_LIMIT_RPM", 60),
			RateLimitBurst: getEnvAsInt("INFERENCE_RATE_LIMIT_BURST", 5),
		},
		Redis: RedisConfig{
			Host:     getEnv("REDIS_HOST", "localhost"),
			Port:     getEnvAsInt("REDIS_PORT", 6379),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvAsInt("REDIS_DB", 0),
		},
		Cache: CacheConfig{
			Enabled:    getEnvAsBool("CACHE_ENABLED", false),
			TTLSeconds: getEnvAsInt("CACHE_TTL_SECONDS", 86400),
		},
		OTEL: OTELConfig{
			ServiceName:    getEnv("OTEL_SERVICE_NAME", "cliniscribe"),
			ServiceVersion: getEnv("OTEL_SERVICE_VERSION", "1.0.0"),
			Endpoint:       getEnv("OTEL_ENDPOINT", ""),
			Enabled:        getEnvAsBool("OTEL_ENABLED", false),
		},
	}, nil
}

// RedisAddr returns the Redis address
func (c *RedisConfig) RedisAddr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}
