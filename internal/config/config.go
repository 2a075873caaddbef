package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Store drivers
const (
	StoreMemory = "memory"
	StoreRedis  = "redis"
	StoreMySQL  = "mysql"
)

// Config holds all configuration for the application
type Config struct {
	AppMode  string
	Port     string
	Store    StoreConfig
	Database DatabaseConfig
	Redis    RedisConfig
	JWT      JWTConfig
	Cookie   CookieConfig
	Ledger   LedgerConfig
	Seed     SeedConfig
}

// StoreConfig selects the persistence backend
type StoreConfig struct {
	Driver    string
	KeyPrefix string
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
}

// RedisConfig holds Redis configuration
type RedisConfig struct {
	Host           string
	Port           string
	Password       string
	DB             int
	MaxConnections int
	SyncChannel    string
}

// JWTConfig holds JWT configuration
type JWTConfig struct {
	Secret          string
	AccessTokenMins int
}

// CookieConfig holds cookie configuration
type CookieConfig struct {
	Secure   bool
	SameSite string
	Domain   string
}

// LedgerConfig holds the background job settings
type LedgerConfig struct {
	AccrualCatchUp bool
	AccrualCron    string
	ReminderCron   string
	DueSoonDays    int
}

// SeedConfig holds the initial manager passwords
type SeedConfig struct {
	Manager1Password string
	Manager2Password string
}

// Global config instance
var AppConfig *Config

// Load reads configuration from .env file and environment variables
func Load() (*Config, error) {
	// Load .env file (ignore error if file doesn't exist in production)
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found, using environment variables")
	}

	return FromEnv()
}

// FromEnv builds the configuration from the process environment only
func FromEnv() (*Config, error) {
	// trim spaces for Windows compatibility
	appMode := strings.TrimSpace(getEnv("APP_MODE", "dev"))
	if appMode != "dev" && appMode != "prod" {
		return nil, fmt.Errorf("invalid APP_MODE: '%s' (must be 'dev' or 'prod')", appMode)
	}

	store, err := loadStoreConfig(appMode)
	if err != nil {
		return nil, err
	}

	ledger, err := loadLedgerConfig()
	if err != nil {
		return nil, err
	}

	config := &Config{
		AppMode:  appMode,
		Port:     getEnv("PORT", "3000"),
		Store:    store,
		Database: loadDatabaseConfig(appMode),
		Redis:    loadRedisConfig(),
		JWT:      loadJWTConfig(appMode),
		Cookie:   loadCookieConfig(appMode),
		Ledger:   ledger,
		Seed: SeedConfig{
			Manager1Password: getEnv("SEED_ADMIN1_PASSWORD", "admin1-change-me"),
			Manager2Password: getEnv("SEED_ADMIN2_PASSWORD", "admin2-change-me"),
		},
	}

	AppConfig = config

	log.Printf("✅ Configuration loaded successfully [MODE: %s, STORE: %s]", appMode, store.Driver)
	return config, nil
}

func loadStoreConfig(mode string) (StoreConfig, error) {
	defaultDriver := StoreMemory
	if mode == "prod" {
		defaultDriver = StoreRedis
	}

	driver := strings.ToLower(strings.TrimSpace(getEnv("STORE_DRIVER", defaultDriver)))
	switch driver {
	case StoreMemory, StoreRedis, StoreMySQL:
	default:
		return StoreConfig{}, fmt.Errorf("invalid STORE_DRIVER: '%s' (must be 'memory', 'redis' or 'mysql')", driver)
	}

	return StoreConfig{
		Driver:    driver,
		KeyPrefix: getEnv("REDIS_KEY_PREFIX", "hub_"),
	}, nil
}

// loadDatabaseConfig loads database config based on mode
func loadDatabaseConfig(mode string) DatabaseConfig {
	prefix := "DEV_"
	if mode == "prod" {
		prefix = "PROD_"
	}

	return DatabaseConfig{
		Host:     getEnv(prefix+"DB_HOST", "localhost"),
		Port:     getEnv(prefix+"DB_PORT", "3306"),
		User:     getEnv(prefix+"DB_USER", "root"),
		Password: getEnv(prefix+"DB_PASS", ""),
		DBName:   getEnv(prefix+"DB_NAME", "contribution_hub"),
	}
}

func loadRedisConfig() RedisConfig {
	db, _ := strconv.Atoi(getEnv("REDIS_DB", "0"))
	maxConns, _ := strconv.Atoi(getEnv("REDIS_MAX_CONNECTIONS", "20"))

	return RedisConfig{
		Host:           getEnv("REDIS_HOST", "localhost"),
		Port:           getEnv("REDIS_PORT", "6379"),
		Password:       getEnv("REDIS_PASSWORD", ""),
		DB:             db,
		MaxConnections: maxConns,
		SyncChannel:    getEnv("REDIS_SYNC_CHANNEL", "hub:sync"),
	}
}

// loadJWTConfig loads JWT config based on mode
func loadJWTConfig(mode string) JWTConfig {
	prefix := "DEV_"
	if mode == "prod" {
		prefix = "PROD_"
	}

	accessMins, _ := strconv.Atoi(getEnv("ACCESS_TOKEN_MINUTES", "60"))

	return JWTConfig{
		Secret:          getEnv(prefix+"JWT_SECRET", "default_secret"),
		AccessTokenMins: accessMins,
	}
}

// loadCookieConfig loads cookie config based on mode
func loadCookieConfig(mode string) CookieConfig {
	prefix := "DEV_"
	if mode == "prod" {
		prefix = "PROD_"
	}

	secure, _ := strconv.ParseBool(getEnv(prefix+"COOKIE_SECURE", "false"))

	return CookieConfig{
		Secure:   secure,
		SameSite: getEnv("COOKIE_SAMESITE", "lax"),
		Domain:   getEnv("COOKIE_DOMAIN", ""),
	}
}

func loadLedgerConfig() (LedgerConfig, error) {
	catchUp, err := strconv.ParseBool(getEnv("LEDGER_ACCRUAL_CATCH_UP", "true"))
	if err != nil {
		return LedgerConfig{}, fmt.Errorf("invalid LEDGER_ACCRUAL_CATCH_UP: %w", err)
	}

	dueSoon, err := strconv.Atoi(getEnv("LEDGER_DUE_SOON_DAYS", "7"))
	if err != nil || dueSoon < 0 {
		return LedgerConfig{}, fmt.Errorf("invalid LEDGER_DUE_SOON_DAYS: '%s'", os.Getenv("LEDGER_DUE_SOON_DAYS"))
	}

	return LedgerConfig{
		AccrualCatchUp: catchUp,
		AccrualCron:    getEnv("LEDGER_ACCRUAL_CRON", "@every 1h"),
		ReminderCron:   getEnv("LEDGER_REMINDER_CRON", "0 9 25 * *"),
		DueSoonDays:    dueSoon,
	}, nil
}

// getEnv gets environment variable with default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// IsDev returns true if running in development mode
func (c *Config) IsDev() bool {
	return c.AppMode == "dev"
}

// IsProd returns true if running in production mode
func (c *Config) IsProd() bool {
	return c.AppMode == "prod"
}

// GetAllowedOrigins returns allowed origins for CORS
func (c *Config) GetAllowedOrigins() string {
	origins := getEnv("ALLOWED_ORIGINS", "")
	if origins == "" {
		if c.IsDev() {
			return "*"
		}
		return "https://hub.example.org"
	}
	return origins
}
