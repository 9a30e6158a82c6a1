package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	sharedcfg "github.com/couchcryptid/storm-data-shared/config"
)

// Config holds all service settings, populated from environment variables.
type Config struct {
	HTTPAddr        string
	LogLevel        string
	LogFormat       string
	ShutdownTimeout time.Duration

	// AQUARIUS Publish API.
	AquariusURL        string
	AquariusToken      string
	AquariusTimeout    time.Duration
	AquariusRetryCount int

	// NWIS-RA discrete data and parameter aliases.
	NwisraURL        string
	NwisraTimeout    time.Duration
	NwisraRetryCount int

	// Site page links written into report metadata.
	SimsURL      string
	WaterdataURL string

	LookupCacheSize int

	// Optional publishing of built reports to the render topic.
	PublishEnabled   bool
	KafkaBrokers     []string
	KafkaReportTopic string
}

// Load reads configuration from environment variables, applying defaults where unset.
func Load() (*Config, error) {
	shutdownTimeout, err := sharedcfg.ParseShutdownTimeout()
	if err != nil {
		return nil, err
	}

	aquariusTimeout, err := parseTimeout("AQUARIUS_TIMEOUT", "30s")
	if err != nil {
		return nil, err
	}
	nwisraTimeout, err := parseTimeout("NWISRA_TIMEOUT", "10s")
	if err != nil {
		return nil, err
	}
	retryCount, err := parseNonNegative("AQUARIUS_RETRY_COUNT", 2)
	if err != nil {
		return nil, err
	}
	nwisraRetryCount, err := parseNonNegative("NWISRA_RETRY_COUNT", 2)
	if err != nil {
		return nil, err
	}
	cacheSize, err := parseNonNegative("LOOKUP_CACHE_SIZE", 1000)
	if err != nil {
		return nil, err
	}
	if cacheSize == 0 {
		return nil, errors.New("invalid LOOKUP_CACHE_SIZE")
	}

	cfg := &Config{
		HTTPAddr:        sharedcfg.EnvOrDefault("HTTP_ADDR", ":8080"),
		LogLevel:        sharedcfg.EnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:       sharedcfg.EnvOrDefault("LOG_FORMAT", "json"),
		ShutdownTimeout: shutdownTimeout,

		AquariusURL:        sharedcfg.EnvOrDefault("AQUARIUS_URL", "http://localhost:8081/AQUARIUS/Publish/v2"),
		AquariusToken:      os.Getenv("AQUARIUS_TOKEN"),
		AquariusTimeout:    aquariusTimeout,
		AquariusRetryCount: retryCount,

		NwisraURL:        sharedcfg.EnvOrDefault("NWISRA_URL", "http://localhost:8082/nwis-ra"),
		NwisraTimeout:    nwisraTimeout,
		NwisraRetryCount: nwisraRetryCount,

		SimsURL:      sharedcfg.EnvOrDefault("SIMS_URL", "https://sims.water.usgs.gov/SIMSClassic/StationInfo.asp"),
		WaterdataURL: sharedcfg.EnvOrDefault("WATERDATA_URL", "https://waterdata.usgs.gov/nwis/inventory"),

		LookupCacheSize: cacheSize,

		PublishEnabled:   os.Getenv("REPORT_PUBLISH_ENABLED") == "true",
		KafkaBrokers:     sharedcfg.ParseBrokers(sharedcfg.EnvOrDefault("KAFKA_BROKERS", "localhost:9092")),
		KafkaReportTopic: sharedcfg.EnvOrDefault("KAFKA_REPORT_TOPIC", "dvhydrograph-reports"),
	}

	if cfg.PublishEnabled && len(cfg.KafkaBrokers) == 0 {
		return nil, errors.New("REPORT_PUBLISH_ENABLED is true but KAFKA_BROKERS is empty")
	}

	return cfg, nil
}

func parseTimeout(key, fallback string) (time.Duration, error) {
	d, err := time.ParseDuration(sharedcfg.EnvOrDefault(key, fallback))
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("invalid %s", key)
	}
	return d, nil
}

func parseNonNegative(key string, fallback int) (int, error) {
	s := os.Getenv(key)
	if s == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 0 {
		return 0, fmt.Errorf("invalid %s", key)
	}
	return n, nil
}
