package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"tally/internal/store"
)

type Config struct {
	// Store
	StoreBackend string
	StorePath    string

	// Auth
	AuthScheme string

	// AMQP (optional; empty URL disables eventing)
	AMQPURL      string
	AMQPExchange string
	AMQPQueue    string

	// Audit worker
	AuditLogPath string
}

const (
	AuthSchemePlain  = "plain"
	AuthSchemeBcrypt = "bcrypt"
)

func Load() *Config {
	return &Config{
		StoreBackend: getEnv("STORE_BACKEND", string(store.FileBackend)),
		StorePath:    getEnv("STORE_PATH", "./data/tally.jsonl"),

		AuthScheme: getEnv("AUTH_SCHEME", AuthSchemePlain),

		AMQPURL:      getEnv("AMQP_URL", ""),
		AMQPExchange: getEnv("AMQP_EXCHANGE", "tally"),
		AMQPQueue:    getEnv("AMQP_QUEUE", "ledger_events"),

		AuditLogPath: getEnv("AUDIT_LOG_PATH", "./data/audit.jsonl"),
	}
}

// Validate validates the configuration and returns an error if invalid
func (c *Config) Validate() error {
	var errors []string

	if !store.BackendType(c.StoreBackend).IsValid() {
		errors = append(errors, fmt.Sprintf("invalid store backend '%s': must be one of [file sqlite]", c.StoreBackend))
	}

	if c.StorePath == "" {
		errors = append(errors, "store path cannot be empty")
	} else if dir := filepath.Dir(c.StorePath); dir != "." && dir != "" {
		if _, err := os.Stat(dir); os.IsNotExist(err) {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				errors = append(errors, fmt.Sprintf("cannot create store directory '%s': %v", dir, err))
			}
		}
	}

	if c.AuthScheme != AuthSchemePlain && c.AuthScheme != AuthSchemeBcrypt {
		errors = append(errors, fmt.Sprintf("invalid auth scheme '%s': must be one of [plain bcrypt]", c.AuthScheme))
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

	if c.AuditLogPath == "" {
		errors = append(errors, "audit log path cannot be empty")
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
