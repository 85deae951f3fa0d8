package cmd

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

type Config struct {
	HTTPPort string

	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSslMode  string

	KafkaHost       string
	KafkaStageTopic string

	CatalogPath string

	HoldTTL         time.Duration
	LeaseStaleAfter time.Duration

	HoldExpirySchedule    string
	LeaseReaperSchedule   string
	CatalogReloadSchedule string
}

const (
	defaultHTTPPort        = "8080"
	defaultKafkaStageTopic = "fulfillment.stages"
	defaultHoldTTL         = 24 * time.Hour
	defaultLeaseStaleAfter = 30 * time.Minute

	// six-field specs, cron runs with seconds
	defaultHoldExpirySchedule    = "0 */5 * * * *"
	defaultLeaseReaperSchedule   = "30 * * * * *"
	defaultCatalogReloadSchedule = "0 0 * * * *"
)

// LoadConfig reads the configuration through getenv, usually os.Getenv after
// godotenv has populated the environment.
func LoadConfig(getenv func(string) string) (Config, error) {
	get := func(key, fallback string) string {
		if v := strings.TrimSpace(getenv(key)); v != "" {
			return v
		}
		return fallback
	}

	cfg := Config{
		HTTPPort:              get("HTTP_PORT", defaultHTTPPort),
		DBHost:                get("DB_HOST", "localhost"),
		DBPort:                get("DB_PORT", "5432"),
		DBUser:                get("DB_USER", ""),
		DBPassword:            getenv("DB_PASSWORD"),
		DBName:                get("DB_NAME", ""),
		DBSslMode:             get("DB_SSLMODE", "disable"),
		KafkaHost:             get("KAFKA_HOST", ""),
		KafkaStageTopic:       get("KAFKA_STAGE_TOPIC", defaultKafkaStageTopic),
		CatalogPath:           get("CATALOG_PATH", ""),
		HoldExpirySchedule:    get("HOLD_EXPIRY_SCHEDULE", defaultHoldExpirySchedule),
		LeaseReaperSchedule:   get("LEASE_REAPER_SCHEDULE", defaultLeaseReaperSchedule),
		CatalogReloadSchedule: get("CATALOG_RELOAD_SCHEDULE", defaultCatalogReloadSchedule),
	}

	var errList []error
	var err error

	if cfg.HoldTTL, err = duration(get("HOLD_TTL", ""), defaultHoldTTL); err != nil {
		errList = append(errList, fmt.Errorf("HOLD_TTL: %w", err))
	}
	if cfg.LeaseStaleAfter, err = duration(get("LEASE_STALE_AFTER", ""), defaultLeaseStaleAfter); err != nil {
		errList = append(errList, fmt.Errorf("LEASE_STALE_AFTER: %w", err))
	}
	if cfg.DBUser == "" {
		errList = append(errList, errors.New("DB_USER is required"))
	}
	if cfg.DBName == "" {
		errList = append(errList, errors.New("DB_NAME is required"))
	}
	if cfg.CatalogPath == "" {
		errList = append(errList, errors.New("CATALOG_PATH is required"))
	}

	if len(errList) > 0 {
		return Config{}, errors.Join(errList...)
	}
	return cfg, nil
}

func duration(raw string, fallback time.Duration) (time.Duration, error) {
	if raw == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, err
	}
	if d <= 0 {
		return 0, fmt.Errorf("must be positive, got %s", raw)
	}
	return d, nil
}

// DSN is the postgres connection string for gorm.
func (c Config) DSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.DBHost, c.DBPort, c.DBUser, c.DBPassword, c.DBName, c.DBSslMode)
}

// KafkaBrokers splits KAFKA_HOST on commas. Empty means stage signals are
// only logged.
func (c Config) KafkaBrokers() []string {
	var brokers []string
	for _, b := range strings.Split(c.KafkaHost, ",") {
		if b = strings.TrimSpace(b); b != "" {
			brokers = append(brokers, b)
		}
	}
	return brokers
}
