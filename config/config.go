package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Server     ServerConfig
	Catalog    RemoteConfig
	OrderStore RemoteConfig
	Redis      RedisConfig
	Kafka      KafkaConfig
	Observ     ObservabilityConfig
	Console    ConsoleConfig
}

type ServerConfig struct {
	Port string
	Env  string
}

// RemoteConfig describes one remote REST collaborator
type RemoteConfig struct {
	BaseURL string
	Timeout time.Duration
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

type KafkaConfig struct {
	Brokers       []string
	TopicAudit    string
	ConsumerGroup string
}

type ObservabilityConfig struct {
	JaegerEndpoint string
	PrometheusPort string
}

// ConsoleConfig carries the interactive tuning knobs of the console
type ConsoleConfig struct {
	SelectorPageSize  int
	DashboardPageSize int
	CatalogPageSize   int
	ToastTTL          time.Duration
	SessionTTL        time.Duration
}

func Load() *Config {
	_ = godotenv.Load()

	redisDB, _ := strconv.Atoi(getEnv("REDIS_DB", "0"))
	catalogTimeout, _ := strconv.Atoi(getEnv("CATALOG_TIMEOUT_SECONDS", "5"))
	orderTimeout, _ := strconv.Atoi(getEnv("ORDER_STORE_TIMEOUT_SECONDS", "5"))
	selectorPageSize, _ := strconv.Atoi(getEnv("SELECTOR_PAGE_SIZE", "5"))
	dashboardPageSize, _ := strconv.Atoi(getEnv("DASHBOARD_PAGE_SIZE", "10"))
	catalogPageSize, _ := strconv.Atoi(getEnv("CATALOG_PAGE_SIZE", "10"))
	toastTTL, _ := strconv.Atoi(getEnv("TOAST_TTL_SECONDS", "3"))
	sessionTTL, _ := strconv.Atoi(getEnv("SESSION_TTL_SECONDS", "86400"))

	cfg := &Config{
		Server: ServerConfig{
			Port: getEnv("PORT", "8080"),
			Env:  getEnv("ENV", "development"),
		},
		Catalog: RemoteConfig{
			BaseURL: getEnv("CATALOG_BASE_URL", "http://localhost:3000"),
			Timeout: time.Duration(catalogTimeout) * time.Second,
		},
		OrderStore: RemoteConfig{
			BaseURL: getEnv("ORDER_STORE_BASE_URL", "http://localhost:3000"),
			Timeout: time.Duration(orderTimeout) * time.Second,
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", "localhost:6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       redisDB,
		},
		Kafka: KafkaConfig{
			Brokers:       strings.Split(getEnv("KAFKA_BROKERS", "localhost:9092"), ","),
			TopicAudit:    getEnv("KAFKA_TOPIC_AUDIT_EVENTS", "console-audit-events"),
			ConsumerGroup: getEnv("KAFKA_CONSUMER_GROUP", "admin-console-group"),
		},
		Observ: ObservabilityConfig{
			JaegerEndpoint: getEnv("JAEGER_ENDPOINT", "http://localhost:14268/api/traces"),
			PrometheusPort: getEnv("PROMETHEUS_PORT", "9090"),
		},
		Console: ConsoleConfig{
			SelectorPageSize:  selectorPageSize,
			DashboardPageSize: dashboardPageSize,
			CatalogPageSize:   catalogPageSize,
			ToastTTL:          time.Duration(toastTTL) * time.Second,
			SessionTTL:        time.Duration(sessionTTL) * time.Second,
		},
	}

	log.Printf("Config loaded: env=%s, port=%s", cfg.Server.Env, cfg.Server.Port)
	return cfg
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}
