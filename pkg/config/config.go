package config

import (
	"encoding/json"
	"os"
	"strconv"
	"strings"

	"github.com/fleetops/fleetcore/pkg/database"
)

// PartLifeConfig tunes the spare-part life tracker.
type PartLifeConfig struct {
	// WarningRatio is the last_ratio threshold below which a part is
	// flagged as wearing out early.
	WarningRatio float64
	// CategoryLifeKm maps a part category to its default expected life,
	// used when the part carries no override.
	CategoryLifeKm map[string]int64
}

// Config holds the full service configuration, loaded from environment
// variables with sane defaults.
type Config struct {
	ServiceName  string
	Environment  string
	HTTPPort     string
	Database     database.Config
	KafkaBrokers []string
	RedisAddr    string
	PartLife     PartLifeConfig
}

// Load builds the configuration from the environment.
func Load() *Config {
	return &Config{
		ServiceName: getEnv("SERVICE_NAME", "fleetcore"),
		Environment: getEnv("ENVIRONMENT", "development"),
		HTTPPort:    getEnv("HTTP_PORT", "8080"),
		Database: database.Config{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", "postgres"),
			DBName:   getEnv("DB_NAME", "fleetcore"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
		},
		KafkaBrokers: splitEnv("KAFKA_BROKERS"),
		RedisAddr:    getEnv("REDIS_ADDR", ""),
		PartLife:     loadPartLife(),
	}
}

// DefaultPartLife returns the part-life configuration with built-in
// category defaults, independent of the environment.
func DefaultPartLife() PartLifeConfig {
	return PartLifeConfig{
		WarningRatio:   0.8,
		CategoryLifeKm: defaultCategoryLifeKm(),
	}
}

func loadPartLife() PartLifeConfig {
	cfg := DefaultPartLife()
	cfg.WarningRatio = getEnvFloat("PARTLIFE_WARNING_RATIO", cfg.WarningRatio)

	// PARTLIFE_CATEGORY_KM overrides the category table as a JSON object,
	// e.g. {"frenos":45000}.
	if raw := os.Getenv("PARTLIFE_CATEGORY_KM"); raw != "" {
		overrides := map[string]int64{}
		if err := json.Unmarshal([]byte(raw), &overrides); err == nil {
			for category, km := range overrides {
				cfg.CategoryLifeKm[category] = km
			}
		}
	}
	return cfg
}

func defaultCategoryLifeKm() map[string]int64 {
	return map[string]int64{
		"filtro_aceite": 10000,
		"filtro_aire":   20000,
		"frenos":        40000,
		"bateria":       60000,
		"correa":        80000,
		"amortiguador":  90000,
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return defaultValue
}

func splitEnv(key string) []string {
	value := os.Getenv(key)
	if value == "" {
		return nil
	}
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
