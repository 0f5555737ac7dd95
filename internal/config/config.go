package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application
type Config struct {
	// Server configuration
	Server ServerConfig

	// Database configuration
	Database DatabaseConfig

	// JWT configuration
	JWT JWTConfig

	// CORS configuration
	CORS CORSConfig

	// Payment gateway configuration
	Payment PaymentConfig

	// Booking policy configuration
	Booking BookingConfig
}

// ServerConfig holds server-related configuration
type ServerConfig struct {
	Port        string
	Environment string // development, staging, production
	LogLevel    string // debug, info, warn, error
}

// DatabaseConfig holds database-related configuration
type DatabaseConfig struct {
	URL                string
	MaxConnections     int
	MaxIdleConnections int
	ConnMaxLifetime    time.Duration
}

// JWTConfig holds JWT-related configuration
type JWTConfig struct {
	Secret             string
	RefreshSecret      string
	AccessTokenExpiry  time.Duration
	RefreshTokenExpiry time.Duration
}

// CORSConfig holds CORS-related configuration
type CORSConfig struct {
	AllowedOrigins []string
	AllowedMethods []string
	AllowedHeaders []string
}

// PaymentConfig holds PayUnit gateway configuration
type PaymentConfig struct {
	Environment string // "sandbox" or "live"
	APIKey      string // PayUnit x-api-key header value
	APIUsername string // Basic auth username
	APIPassword string // Basic auth password (SECRET - never expose to client)
	ReturnURL   string // URL the gateway redirects to after payment
	NotifyURL   string // Server webhook URL for payment notifications
}

// BookingConfig holds reservation policy configuration
type BookingConfig struct {
	Currency          string  // ISO currency code, XAF in practice
	SweepCutoff       time.Duration
	DefaultFeePercent float64
	DefaultFeeCap     float64
	DefaultFeeFixed   float64
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if it exists (for local development)
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	config := &Config{
		Server: ServerConfig{
			Port:        getEnv("PORT", "8080"),
			Environment: getEnv("ENVIRONMENT", "development"),
			LogLevel:    getEnv("LOG_LEVEL", "info"),
		},
		Database: DatabaseConfig{
			URL:                getEnv("DATABASE_URL", ""),
			MaxConnections:     getEnvAsInt("DATABASE_MAX_CONNECTIONS", 10),
			MaxIdleConnections: getEnvAsInt("DATABASE_MAX_IDLE_CONNECTIONS", 5),
			ConnMaxLifetime:    time.Duration(getEnvAsInt("DATABASE_CONN_MAX_LIFETIME", 300)) * time.Second,
		},
		JWT: JWTConfig{
			Secret:             getEnv("JWT_SECRET", ""),
			RefreshSecret:      getEnv("JWT_REFRESH_SECRET", ""),
			AccessTokenExpiry:  time.Duration(getEnvAsInt("JWT_ACCESS_TOKEN_EXPIRY", 3600)) * time.Second,
			RefreshTokenExpiry: time.Duration(getEnvAsInt("JWT_REFRESH_TOKEN_EXPIRY", 604800)) * time.Second,
		},
		CORS: CORSConfig{
			AllowedOrigins: getEnvAsSlice("CORS_ALLOWED_ORIGINS", []string{"*"}),
			AllowedMethods: getEnvAsSlice("CORS_ALLOWED_METHODS", []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}),
			AllowedHeaders: getEnvAsSlice("CORS_ALLOWED_HEADERS", []string{"Content-Type", "Authorization"}),
		},
		Payment: PaymentConfig{
			Environment: getEnv("PAYUNIT_ENVIRONMENT", "sandbox"),
			APIKey:      getEnv("PAYUNIT_API_KEY", ""),
			APIUsername: getEnv("PAYUNIT_API_USERNAME", ""),
			APIPassword: getEnv("PAYUNIT_API_PASSWORD", ""),
			ReturnURL:   getEnv("PAYUNIT_RETURN_URL", ""),
			NotifyURL:   getEnv("PAYUNIT_NOTIFY_URL", ""),
		},
		Booking: BookingConfig{
			Currency:          getEnv("BOOKING_CURRENCY", "XAF"),
			SweepCutoff:       time.Duration(getEnvAsInt("BOOKING_SWEEP_CUTOFF_MINUTES", 30)) * time.Minute,
			DefaultFeePercent: getEnvAsFloat("BOOKING_FEE_PERCENT", 10),
			DefaultFeeCap:     getEnvAsFloat("BOOKING_FEE_CAP", 500),
			DefaultFeeFixed:   getEnvAsFloat("BOOKING_FEE_FIXED", 500),
		},
	}

	// Validate required configuration
	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Database.URL == "" {
		return fmt.Errorf("DATABASE_URL is required")
	}

	if c.JWT.Secret == "" {
		return fmt.Errorf("JWT_SECRET is required")
	}

	if c.JWT.RefreshSecret == "" {
		return fmt.Errorf("JWT_REFRESH_SECRET is required")
	}

	// Gateway credentials are only mandatory outside development
	if c.Server.Environment == "production" {
		if c.Payment.APIKey == "" {
			return fmt.Errorf("PAYUNIT_API_KEY is required in production")
		}
		if c.Payment.APIUsername == "" || c.Payment.APIPassword == "" {
			return fmt.Errorf("PAYUNIT_API_USERNAME and PAYUNIT_API_PASSWORD are required in production")
		}
	}

	if c.Booking.SweepCutoff <= 0 {
		return fmt.Errorf("BOOKING_SWEEP_CUTOFF_MINUTES must be positive")
	}

	return nil
}

// Helper functions to get environment variables

func getEnv(key string, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		log.Printf("Invalid integer value for %s, using default: %d", key, defaultValue)
		return defaultValue
	}
	return value
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.ParseFloat(valueStr, 64)
	if err != nil {
		log.Printf("Invalid numeric value for %s, using default: %v", key, defaultValue)
		return defaultValue
	}
	return value
}

func getEnvAsSlice(key string, defaultValue []string) []string {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	parts := strings.Split(valueStr, ",")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	return parts
}
