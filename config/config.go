package config

import (
	"log"

	"github.com/spf13/viper"
)

// Config holds all configuration values.
type Config struct {
	AppPort           string `mapstructure:"APP_PORT"`
	DatabaseURL       string `mapstructure:"DATABASE_URL"`
	Env               string `mapstructure:"ENV"`
	JWTSecret         string `mapstructure:"JWT_SECRET"`
	LogLevel          string `mapstructure:"LOG_LEVEL"`
	MaxRequestsPerMin int    `mapstructure:"MAX_REQUESTS_PER_MIN"`

	// Redis configuration.
	RedisAddr      string `mapstructure:"REDIS_ADDR"`
	RedisPassword  string `mapstructure:"REDIS_PASSWORD"`
	RedisCacheDB   int    `mapstructure:"REDIS_CACHE_DB"`
	RedisContextDB int    `mapstructure:"REDIS_CONTEXT_DB"`

	// Kafka configuration.
	KafkaBrokers []string `mapstructure:"KAFKA_BROKERS"`

	// Year assumed for date phrases that carry no year ("December 25th").
	ReferenceYear int `mapstructure:"REFERENCE_YEAR"`

	// Concierge timers, in seconds.
	FollowupDelaySeconds int `mapstructure:"FOLLOWUP_DELAY_SECONDS"`
	NudgeDelaySeconds    int `mapstructure:"NUDGE_DELAY_SECONDS"`

	// Deal detection thresholds.
	DealDropRatio     float64 `mapstructure:"DEAL_DROP_RATIO"`
	LowStockThreshold int     `mapstructure:"LOW_STOCK_THRESHOLD"`
}

var AppConfig Config

func LoadConfig() {
	// Look for a config file named "config.yaml" in the current and "config" directory.
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")
	// Automatically use environment variables where available.
	viper.AutomaticEnv()

	// Set default values.
	viper.SetDefault("APP_PORT", "8080")
	viper.SetDefault("ENV", "development")
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("MAX_REQUESTS_PER_MIN", 100)
	viper.SetDefault("REDIS_ADDR", "localhost:6379")
	viper.SetDefault("REDIS_PASSWORD", "")
	viper.SetDefault("REDIS_CACHE_DB", 0)
	viper.SetDefault("REDIS_CONTEXT_DB", 1)
	viper.SetDefault("DATABASE_URL", "mongodb://localhost:27017")
	viper.SetDefault("KAFKA_BROKERS", []string{"localhost:9093"})
	viper.SetDefault("REFERENCE_YEAR", 2025)
	viper.SetDefault("FOLLOWUP_DELAY_SECONDS", 20)
	viper.SetDefault("NUDGE_DELAY_SECONDS", 90)
	viper.SetDefault("DEAL_DROP_RATIO", 0.85)
	viper.SetDefault("LOW_STOCK_THRESHOLD", 5)

	if err := viper.ReadInConfig(); err != nil {
		log.Println("No config file found, using environment variables only")
	}

	if err := viper.Unmarshal(&AppConfig); err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
}

func GetEnv() string {
	return AppConfig.Env
}

func IsProduction() bool {
	return AppConfig.Env == "production"
}
