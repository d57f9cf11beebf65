package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	sharedcfg "github.com/couchcryptid/storm-data-shared/config"
	"github.com/joho/godotenv"
)

// DefaultDatasetSource is the historical wildfire CSV published for the
// IBM data visualization course.
const DefaultDatasetSource = "https://cf-courses-data.s3.us.cloud-object-storage.appdomain.cloud/IBMDeveloperSkillsNetwork-DV0101EN-SkillsNetwork/Data%20Files/Historical_Wildfires.csv"

// Defaults shared by the service and the CLI.
const (
	DefaultDatasetTimeout = 30 * time.Second
	DefaultRegion         = "NSW"
	DefaultYear           = 2005
	DefaultChartWidth     = 600
	DefaultChartHeight    = 400
)

// Config holds all service settings, populated from environment variables.
type Config struct {
	DatasetSource   string
	DatasetTimeout  time.Duration
	HTTPAddr        string
	LogLevel        string
	LogFormat       string
	ShutdownTimeout time.Duration

	DefaultRegion string
	DefaultYear   int

	ChartWidth  int
	ChartHeight int

	// Kafka report publishing.
	KafkaEnabled bool
	KafkaBrokers []string
	KafkaTopic   string
}

// Load reads configuration from environment variables, applying defaults where unset.
// A .env file in the working directory is applied first when present; variables
// already set in the environment win.
func Load() (*Config, error) {
	_ = godotenv.Load() //nolint:errcheck // .env is optional

	datasetTimeout, err := parsePositiveDuration("DATASET_TIMEOUT", "30s")
	if err != nil {
		return nil, err
	}

	shutdownTimeout, err := sharedcfg.ParseShutdownTimeout()
	if err != nil {
		return nil, err
	}

	defaultYear, err := parseInt("DEFAULT_YEAR", DefaultYear)
	if err != nil {
		return nil, err
	}

	chartWidth, err := parsePositiveInt("CHART_WIDTH", DefaultChartWidth)
	if err != nil {
		return nil, err
	}
	chartHeight, err := parsePositiveInt("CHART_HEIGHT", DefaultChartHeight)
	if err != nil {
		return nil, err
	}

	brokers := sharedcfg.ParseBrokers(os.Getenv("KAFKA_BROKERS"))
	kafkaEnabled := len(brokers) > 0
	if v := os.Getenv("KAFKA_ENABLED"); v != "" {
		kafkaEnabled = v == "true"
	}

	cfg := &Config{
		DatasetSource:   sharedcfg.EnvOrDefault("DATASET_SOURCE", DefaultDatasetSource),
		DatasetTimeout:  datasetTimeout,
		HTTPAddr:        sharedcfg.EnvOrDefault("HTTP_ADDR", ":8080"),
		LogLevel:        sharedcfg.EnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:       sharedcfg.EnvOrDefault("LOG_FORMAT", "json"),
		ShutdownTimeout: shutdownTimeout,

		DefaultRegion: sharedcfg.EnvOrDefault("DEFAULT_REGION", DefaultRegion),
		DefaultYear:   defaultYear,

		ChartWidth:  chartWidth,
		ChartHeight: chartHeight,

		KafkaEnabled: kafkaEnabled,
		KafkaBrokers: brokers,
		KafkaTopic:   sharedcfg.EnvOrDefault("KAFKA_TOPIC", "wildfire-aggregates"),
	}

	if strings.TrimSpace(cfg.DatasetSource) == "" {
		return nil, errors.New("DATASET_SOURCE is required")
	}
	if strings.TrimSpace(cfg.DefaultRegion) == "" {
		return nil, errors.New("DEFAULT_REGION must not be empty")
	}
	if cfg.KafkaEnabled && len(cfg.KafkaBrokers) == 0 {
		return nil, errors.New("KAFKA_ENABLED is true but KAFKA_BROKERS is not set")
	}
	if cfg.KafkaEnabled && cfg.KafkaTopic == "" {
		return nil, errors.New("KAFKA_TOPIC is required when publishing is enabled")
	}

	return cfg, nil
}

func parsePositiveDuration(key, fallback string) (time.Duration, error) {
	d, err := time.ParseDuration(sharedcfg.EnvOrDefault(key, fallback))
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("invalid %s: must be a positive duration", key)
	}
	return d, nil
}

func parseInt(key string, fallback int) (int, error) {
	s := os.Getenv(key)
	if s == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return n, nil
}

func parsePositiveInt(key string, fallback int) (int, error) {
	n, err := parseInt(key, fallback)
	if err != nil {
		return 0, err
	}
	if n <= 0 {
		return 0, fmt.Errorf("invalid %s: must be positive", key)
	}
	return n, nil
}
