package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
)

const (
	StoreMemory   = "memory"
	StorePostgres = "postgres"
)

// Config is centralized process configuration.
// Keep infra values here and pass typed config into builders.
type Config struct {
	ServiceName string
	HTTPPort    string
	StoreDriver string
	PostgresDSN string
	AutoMigrate bool

	CORSAllowedOrigins []string
	EnableSwagger      bool

	OutboxRelaySchedule     string
	OutboxBatchSize         int
	EnableResultsAnnouncer  bool
	ResultsAnnouncerGroupID string
}

func Load() (Config, error) {
	service := envString("SERVICE_NAME", "ballot")
	port := envString("HTTP_PORT", "8080")

	driver := strings.ToLower(envString("STORE_DRIVER", StoreMemory))
	if driver != StoreMemory && driver != StorePostgres {
		return Config{}, fmt.Errorf("STORE_DRIVER must be %q or %q, got %q", StoreMemory, StorePostgres, driver)
	}
	dsn := strings.TrimSpace(os.Getenv("POSTGRES_DSN"))
	if driver == StorePostgres && dsn == "" {
		return Config{}, errors.New("POSTGRES_DSN is required when STORE_DRIVER=postgres")
	}

	batchSize := 100
	if raw := strings.TrimSpace(os.Getenv("OUTBOX_BATCH_SIZE")); raw != "" {
		value, err := strconv.Atoi(raw)
		if err != nil || value <= 0 {
			return Config{}, fmt.Errorf("OUTBOX_BATCH_SIZE must be a positive integer, got %q", raw)
		}
		batchSize = value
	}

	origins := envList("CORS_ALLOWED_ORIGINS")
	if len(origins) == 0 {
		origins = []string{"*"}
	}

	return Config{
		ServiceName: service,
		HTTPPort:    port,
		StoreDriver: driver,
		PostgresDSN: dsn,
		AutoMigrate: envBool("AUTO_MIGRATE", true),

		CORSAllowedOrigins: origins,
		EnableSwagger:      envBool("ENABLE_SWAGGER", true),

		OutboxRelaySchedule:     envString("OUTBOX_RELAY_SCHEDULE", "@every 2s"),
		OutboxBatchSize:         batchSize,
		EnableResultsAnnouncer:  envBool("ENABLE_RESULTS_ANNOUNCER", true),
		ResultsAnnouncerGroupID: envString("RESULTS_ANNOUNCER_GROUP_ID", "election-service-results-cg"),
	}, nil
}

func envString(name string, fallback string) string {
	if value := strings.TrimSpace(os.Getenv(name)); value != "" {
		return value
	}
	return fallback
}

func envList(name string) []string {
	var values []string
	for _, value := range strings.Split(os.Getenv(name), ",") {
		value = strings.TrimSpace(value)
		if value != "" {
			values = append(values, value)
		}
	}
	return values
}

func envBool(name string, fallback bool) bool {
	raw := strings.TrimSpace(strings.ToLower(os.Getenv(name)))
	if raw == "" {
		return fallback
	}
	switch raw {
	case "1", "true", "t", "yes", "y", "on":
		return true
	case "0", "false", "f", "no", "n", "off":
		return false
	default:
		return fallback
	}
}
