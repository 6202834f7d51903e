package config

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Port        string
	Environment string
	Database    DatabaseConfig
	Redis       RedisConfig
	Gateway     GatewayConfig
	LogLevel    string
}

type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
}

type RedisConfig struct {
	Addr       string
	Password   string
	DB         int
	CartTTL    time.Duration
	SessionTTL time.Duration
}

// GatewayConfig holds the payment gateway credentials. These are optional at
// load time: a missing secret blocks checkout with a configuration error
// instead of preventing startup.
type GatewayConfig struct {
	BaseURL        string
	SecretKey      string
	CategoryCode   string
	ReturnURL      string
	CallbackURL    string
	BillExpiryDays int
}

func Load() (*Config, error) {
	viper.SetConfigType("env")
	viper.SetConfigName(".env")
	viper.AddConfigPath(".")
	viper.AddConfigPath("..")
	viper.AddConfigPath("../..")

	// Set defaults
	viper.SetDefault("PORT", "8080")
	viper.SetDefault("ENVIRONMENT", "development")
	viper.SetDefault("DB_PORT", "5432")
	viper.SetDefault("DB_SSLMODE", "disable")
	viper.SetDefault("REDIS_ADDR", "localhost:6379")
	viper.SetDefault("CART_TTL_HOURS", "168")
	viper.SetDefault("SESSION_TTL_HOURS", "12")
	viper.SetDefault("GATEWAY_BILL_EXPIRY_DAYS", "3")
	viper.SetDefault("LOG_LEVEL", "info")

	// Read from environment variables
	viper.AutomaticEnv()

	// Try to read .env file (optional)
	if err := viper.ReadInConfig(); err != nil {
		// It's okay if .env doesn't exist, we'll use env vars
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	cfg := &Config{
		Port:        getEnvOrViper("PORT", "8080"),
		Environment: getEnvOrViper("ENVIRONMENT", "development"),
		Database: DatabaseConfig{
			Host:     getEnvOrViper("DB_HOST", "localhost"),
			Port:     getEnvOrViper("DB_PORT", "5432"),
			User:     getEnvOrViper("DB_USER", "postgres"),
			Password: getEnvOrViper("DB_PASSWORD", "postgres"),
			DBName:   getEnvOrViper("DB_NAME", "storeapi"),
			SSLMode:  getEnvOrViper("DB_SSLMODE", "disable"),
		},
		Redis: RedisConfig{
			Addr:       getEnvOrViper("REDIS_ADDR", "localhost:6379"),
			Password:   getEnvOrViper("REDIS_PASSWORD", ""),
			DB:         viper.GetInt("REDIS_DB"),
			CartTTL:    time.Duration(viper.GetInt("CART_TTL_HOURS")) * time.Hour,
			SessionTTL: time.Duration(viper.GetInt("SESSION_TTL_HOURS")) * time.Hour,
		},
		Gateway: GatewayConfig{
			BaseURL:        getEnvOrViper("GATEWAY_BASE_URL", ""),
			SecretKey:      getEnvOrViper("GATEWAY_SECRET_KEY", ""),
			CategoryCode:   getEnvOrViper("GATEWAY_CATEGORY_CODE", ""),
			ReturnURL:      getEnvOrViper("GATEWAY_RETURN_URL", ""),
			CallbackURL:    getEnvOrViper("GATEWAY_CALLBACK_URL", ""),
			BillExpiryDays: viper.GetInt("GATEWAY_BILL_EXPIRY_DAYS"),
		},
		LogLevel: getEnvOrViper("LOG_LEVEL", "info"),
	}

	return cfg, nil
}

func getEnvOrViper(key, defaultValue string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	if viper.IsSet(key) {
		return viper.GetString(key)
	}
	return defaultValue
}
