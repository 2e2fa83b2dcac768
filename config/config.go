package config

import (
	"log"

	"github.com/spf13/viper"
)

// Config holds all configuration values.
type Config struct {
	AppPort           string `mapstructure:"APP_PORT"`
	Env               string `mapstructure:"ENV"`
	JWTSecret         string `mapstructure:"JWT_SECRET"`
	LogLevel          string `mapstructure:"LOG_LEVEL"`
	MaxRequestsPerMin int    `mapstructure:"MAX_REQUESTS_PER_MIN"`

	// Redis configuration.
	RedisAddr      string `mapstructure:"REDIS_ADDR"`
	RedisPassword  string `mapstructure:"REDIS_PASSWORD"`
	RedisSessionDB int    `mapstructure:"REDIS_SESSION_DB"`
	RedisSearchDB  int    `mapstructure:"REDIS_SEARCH_DB"`
	RedisTaskDB    int    `mapstructure:"REDIS_TASK_DB"`

	// Search fan-out.
	SearchTimeoutSeconds int `mapstructure:"SEARCH_TIMEOUT_SECONDS"`
	SearchCacheSeconds   int `mapstructure:"SEARCH_CACHE_SECONDS"`

	// Checkout sessions.
	SessionTTLMinutes  int `mapstructure:"SESSION_TTL_MINUTES"`
	StepTimeoutSeconds int `mapstructure:"STEP_TIMEOUT_SECONDS"`

	// Provider backend base URLs.
	StyloBaseURL      string `mapstructure:"STYLO_BASE_URL"`
	ZapmartBaseURL    string `mapstructure:"ZAPMART_BASE_URL"`
	NestbasketBaseURL string `mapstructure:"NESTBASKET_BASE_URL"`

	// Gemini API key for query intent extraction (optional).
	GeminiAPIKey string `mapstructure:"GEMINI_API_KEY"`
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
	viper.SetDefault("JWT_SECRET", "")
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("MAX_REQUESTS_PER_MIN", 100)
	viper.SetDefault("REDIS_ADDR", "localhost:6379")
	viper.SetDefault("REDIS_PASSWORD", "")
	viper.SetDefault("REDIS_SESSION_DB", 0)
	viper.SetDefault("REDIS_SEARCH_DB", 1)
	viper.SetDefault("REDIS_TASK_DB", 2)
	viper.SetDefault("SEARCH_TIMEOUT_SECONDS", 15)
	viper.SetDefault("SEARCH_CACHE_SECONDS", 120)
	viper.SetDefault("SESSION_TTL_MINUTES", 30)
	viper.SetDefault("STEP_TIMEOUT_SECONDS", 15)
	viper.SetDefault("STYLO_BASE_URL", "http://localhost:9001")
	viper.SetDefault("ZAPMART_BASE_URL", "http://localhost:9002")
	viper.SetDefault("NESTBASKET_BASE_URL", "http://localhost:9003")
	viper.SetDefault("GEMINI_API_KEY", "")

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
	return GetEnv() == "production"
}
