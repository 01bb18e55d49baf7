package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Telegram update delivery modes
const (
	ModePolling = "polling"
	ModeWebhook = "webhook"
)

type Config struct {
	Server   ServerConfig
	Telegram TelegramConfig
	Database DatabaseConfig
	Redis    RedisConfig
	Kafka    KafkaConfig
	Observ   ObservabilityConfig
}

type ServerConfig struct {
	Port string
	Env  string
}

type TelegramConfig struct {
	BotToken              string
	PhysicalProviderToken string
	Mode                  string
	WebhookURL            string
	WebhookSecret         string
	PollTimeoutSeconds    int
	Debug                 bool
}

type DatabaseConfig struct {
	URL     string
	Migrate bool
}

type RedisConfig struct {
	Addr            string
	Password        string
	DB              int
	ProductCacheTTL int
}

type KafkaConfig struct {
	Brokers        []string
	TopicPurchases string
}

type ObservabilityConfig struct {
	JaegerEndpoint string
}

func Load() *Config {
	_ = godotenv.Load()

	redisDB, _ := strconv.Atoi(getEnv("REDIS_DB", "0"))
	cacheTTL, _ := strconv.Atoi(getEnv("PRODUCT_CACHE_TTL_SECONDS", "300"))
	pollTimeout, _ := strconv.Atoi(getEnv("TELEGRAM_POLL_TIMEOUT_SECONDS", "60"))
	debug, _ := strconv.ParseBool(getEnv("TELEGRAM_DEBUG", "false"))
	migrate, _ := strconv.ParseBool(getEnv("DATABASE_MIGRATE", "false"))

	var brokers []string
	if raw := getEnv("KAFKA_BROKERS", "localhost:9092"); raw != "" {
		brokers = strings.Split(raw, ",")
	}

	cfg := &Config{
		Server: ServerConfig{
			Port: getEnv("PORT", "8080"),
			Env:  getEnv("ENV", "development"),
		},
		Telegram: TelegramConfig{
			BotToken:              os.Getenv("TELEGRAM_BOT_TOKEN"),
			PhysicalProviderToken: os.Getenv("TELEGRAM_PHYSICAL_PROVIDER_TOKEN"),
			Mode:                  strings.ToLower(getEnv("TELEGRAM_MODE", ModePolling)),
			WebhookURL:            strings.TrimSuffix(os.Getenv("TELEGRAM_WEBHOOK_URL"), "/"),
			WebhookSecret:         os.Getenv("TELEGRAM_WEBHOOK_SECRET"),
			PollTimeoutSeconds:    pollTimeout,
			Debug:                 debug,
		},
		Database: DatabaseConfig{
			URL:     os.Getenv("DATABASE_URL"),
			Migrate: migrate,
		},
		Redis: RedisConfig{
			Addr:            getEnv("REDIS_ADDR", "localhost:6379"),
			Password:        getEnv("REDIS_PASSWORD", ""),
			DB:              redisDB,
			ProductCacheTTL: cacheTTL,
		},
		Kafka: KafkaConfig{
			Brokers:        brokers,
			TopicPurchases: getEnv("KAFKA_TOPIC_PURCHASE_EVENTS", "purchase-events"),
		},
		Observ: ObservabilityConfig{
			JaegerEndpoint: getEnv("JAEGER_ENDPOINT", "http://localhost:14268/api/traces"),
		},
	}

	log.Printf("Config loaded: env=%s, port=%s, telegram_mode=%s", cfg.Server.Env, cfg.Server.Port, cfg.Telegram.Mode)
	return cfg
}

// Validate reports every missing credential the process cannot start without.
func (c *Config) Validate() error {
	var errs []error

	if c.Telegram.BotToken == "" {
		errs = append(errs, errors.New("TELEGRAM_BOT_TOKEN is not set"))
	}
	if c.Database.URL == "" {
		errs = append(errs, errors.New("DATABASE_URL is not set"))
	}

	switch c.Telegram.Mode {
	case ModePolling:
	case ModeWebhook:
		if c.Telegram.WebhookURL == "" {
			errs = append(errs, errors.New("TELEGRAM_WEBHOOK_URL is required in webhook mode"))
		}
		if c.Telegram.WebhookSecret == "" {
			errs = append(errs, errors.New("TELEGRAM_WEBHOOK_SECRET is required in webhook mode"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown TELEGRAM_MODE %q", c.Telegram.Mode))
	}

	return errors.Join(errs...)
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}
