package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// DefaultLogoURL is the hosted school crest used when no custom logo has
// been uploaded through the settings endpoint.
const DefaultLogoURL = "https://lh3.googleusercontent.com/d/1x8vColBjHpJ0t2hB7aBSMVSLb2J9q9aG"

type Config struct {
	// HTTP server
	Port      string
	AccessPIN string

	// Backend selection
	DataBackend string

	// Supabase (hosted store)
	SupabaseURL string
	SupabaseKey string

	// SQLite (local store and worker mirror)
	SQLiteDBPath string

	// AMQP
	AMQPURL      string
	AMQPExchange string
	AMQPQueue    string

	// Gemini
	GeminiAPIKey string

	// Branding
	LogoURL string

	// Tuition pricing
	TuitionAccountCode  string
	TuitionBaseValue    decimal.Decimal
	TuitionThresholdDay int
	TuitionPenaltyRate  decimal.Decimal
}

func Load() *Config {
	cfg := &Config{
		Port:      getEnv("PORT", "8081"),
		AccessPIN: getEnv("ACCESS_PIN", "123456"),

		DataBackend: getEnv("DATA_BACKEND", "memory"),

		SupabaseURL: getEnv("SUPABASE_URL", ""),
		SupabaseKey: getEnv("SUPABASE_KEY", ""),

		SQLiteDBPath: getEnv("SQLITE_DB_PATH", "./data/seiva.db"),

		AMQPURL:      getEnv("AMQP_URL", ""),
		AMQPExchange: getEnv("AMQP_EXCHANGE", "seiva"),
		AMQPQueue:    getEnv("AMQP_QUEUE", "mirror_events"),

		GeminiAPIKey: getEnv("GEMINI_API_KEY", ""),

		LogoURL: getEnv("SCHOOL_LOGO_URL", DefaultLogoURL),

		TuitionAccountCode:  getEnv("TUITION_ACCOUNT_CODE", "7.2"),
		TuitionBaseValue:    getEnvDecimal("TUITION_BASE_VALUE", decimal.NewFromInt(2310)),
		TuitionThresholdDay: getEnvInt("TUITION_THRESHOLD_DAY", 10),
		TuitionPenaltyRate:  getEnvDecimal("TUITION_PENALTY_RATE", decimal.New(25, -2)),
	}

	return cfg
}

// Validate checks the configuration and returns all problems at once.
func (c *Config) Validate() error {
	var errors []string

	if port, err := strconv.Atoi(c.Port); err != nil {
		errors = append(errors, fmt.Sprintf("invalid port '%s': must be a number", c.Port))
	} else if port < 1 || port > 65535 {
		errors = append(errors, fmt.Sprintf("invalid port %d: must be between 1 and 65535", port))
	}

	if c.AccessPIN == "" {
		errors = append(errors, "access PIN cannot be empty")
	}

	validBackends := []string{"memory", "supabase", "sqlite"}
	isValidBackend := false
	for _, backend := range validBackends {
		if c.DataBackend == backend {
			isValidBackend = true
			break
		}
	}
	if !isValidBackend {
		errors = append(errors, fmt.Sprintf("invalid data backend '%s': must be one of %v", c.DataBackend, validBackends))
	}

	if c.DataBackend == "supabase" {
		if c.SupabaseURL == "" {
			errors = append(errors, "SUPABASE_URL is required when using supabase backend")
		} else if parsed, err := url.Parse(c.SupabaseURL); err != nil || parsed.Scheme == "" || parsed.Host == "" {
			errors = append(errors, fmt.Sprintf("invalid Supabase URL '%s'", c.SupabaseURL))
		}
		if c.SupabaseKey == "" {
			errors = append(errors, "SUPABASE_KEY is required when using supabase backend")
		}
	}

	if c.DataBackend == "sqlite" {
		if c.SQLiteDBPath == "" {
			errors = append(errors, "SQLite database path cannot be empty when using sqlite backend")
		} else {
			dir := filepath.Dir(c.SQLiteDBPath)
			if dir != "." && dir != "" {
				if _, err := os.Stat(dir); os.IsNotExist(err) {
					if err := os.MkdirAll(dir, 0755); err != nil {
						errors = append(errors, fmt.Sprintf("cannot create SQLite database directory '%s': %v", dir, err))
					}
				}
			}
		}
	}

	if c.AMQPURL != "" {
		if parsedURL, err := url.Parse(c.AMQPURL); err != nil {
			errors = append(errors, fmt.Sprintf("invalid AMQP URL '%s': %v", c.AMQPURL, err))
		} else if parsedURL.Scheme != "amqp" && parsedURL.Scheme != "amqps" {
			errors = append(errors, fmt.Sprintf("invalid AMQP URL scheme '%s': must be 'amqp' or 'amqps'", parsedURL.Scheme))
		}
		if c.AMQPExchange == "" {
			errors = append(errors, "AMQP exchange name cannot be empty when AMQP URL is provided")
		}
		if c.AMQPQueue == "" {
			errors = append(errors, "AMQP queue name cannot be empty when AMQP URL is provided")
		}
	}

	if c.TuitionAccountCode == "" {
		errors = append(errors, "tuition account code cannot be empty")
	}
	if c.TuitionBaseValue.IsNegative() {
		errors = append(errors, fmt.Sprintf("invalid tuition base value %s: must not be negative", c.TuitionBaseValue))
	}
	if c.TuitionThresholdDay < 1 || c.TuitionThresholdDay > 31 {
		errors = append(errors, fmt.Sprintf("invalid tuition threshold day %d: must be between 1 and 31", c.TuitionThresholdDay))
	}
	if c.TuitionPenaltyRate.IsNegative() {
		errors = append(errors, fmt.Sprintf("invalid tuition penalty rate %s: must not be negative", c.TuitionPenaltyRate))
	}

	if len(errors) > 0 {
		return fmt.Errorf("configuration validation failed:\n- %s", strings.Join(errors, "\n- "))
	}

	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

func getEnvDecimal(key string, defaultValue decimal.Decimal) decimal.Decimal {
	if value := os.Getenv(key); value != "" {
		if d, err := decimal.NewFromString(value); err == nil {
			return d
		}
	}
	return defaultValue
}
