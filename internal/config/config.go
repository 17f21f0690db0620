package config

import (
	"os"
	"strconv"
	"time"

	"github.com/shopspring/decimal"
)

// Config holds every tunable the server reads from the environment.
// Pricing knobs (tax rate, shipping threshold, flat rate) are deliberately
// configuration and not constants; deployments disagree on the threshold.
type Config struct {
	HTTPPort           string
	RequestTimeout     time.Duration
	ShutdownTimeout    time.Duration
	MaxRequestBodySize int64

	MongoURI    string
	MongoDBName string

	RedisAddr     string
	RedisPassword string
	CartCacheTTL  time.Duration

	PostgresHost      string
	PostgresPort      int
	PostgresUser      string
	PostgresPassword  string
	PostgresDBName    string
	MigrationsDirPath string

	CatalogDBPath        string
	CatalogMigrationsDir string

	KafkaBrokers  []string
	OrderTopic    string
	OrderEndpoint string
	SubmitTimeout time.Duration

	TaxRate               decimal.Decimal
	FreeShippingThreshold decimal.Decimal
	FlatShippingRate      decimal.Decimal
	CurrencyCode          string
	CurrencyLocale        string

	JWTSecret string
	TokenTTL  time.Duration

	SMTPHost   string
	SMTPPort   string
	SMTPUser   string
	SMTPPass   string
	OwnerEmail string
	OwnerPhone string
	ShopName   string
}

func Load() *Config {
	return &Config{
		HTTPPort:           getEnv("HTTP_PORT", "8080"),
		RequestTimeout:     getEnvDuration("REQUEST_TIMEOUT", 30*time.Second),
		ShutdownTimeout:    getEnvDuration("SHUTDOWN_TIMEOUT", 10*time.Second),
		MaxRequestBodySize: 1 << 20, // 1MB

		MongoURI:    getEnv("MONGO_URI", "mongodb://localhost:27017"),
		MongoDBName: getEnv("MONGO_DB_NAME", "electrostore"),

		RedisAddr:     getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		CartCacheTTL:  getEnvDuration("CART_CACHE_TTL", 15*time.Minute),

		PostgresHost:      getEnv("POSTGRES_HOST", "localhost"),
		PostgresPort:      getEnvInt("POSTGRES_PORT", 5432),
		PostgresUser:      getEnv("POSTGRES_USER", "postgres"),
		PostgresPassword:  getEnv("POSTGRES_PASSWORD", "postgres"),
		PostgresDBName:    getEnv("POSTGRES_DB_NAME", "checkout"),
		MigrationsDirPath: getEnv("MIGRATIONS_DIR", "migrations/checkout"),

		CatalogDBPath:        getEnv("CATALOG_DB_PATH", "catalog.db"),
		CatalogMigrationsDir: getEnv("CATALOG_MIGRATIONS_DIR", "migrations/catalog"),

		KafkaBrokers:  []string{getEnv("KAFKA_BROKER", "localhost:9092")},
		OrderTopic:    getEnv("ORDER_TOPIC", "order-created"),
		OrderEndpoint: getEnv("ORDER_ENDPOINT", "http://localhost:8080/api/v1/orders"),
		SubmitTimeout: getEnvDuration("SUBMIT_TIMEOUT", 15*time.Second),

		TaxRate:               getEnvDecimal("TAX_RATE", "0.18"),
		FreeShippingThreshold: getEnvDecimal("FREE_SHIPPING_THRESHOLD", "500"),
		FlatShippingRate:      getEnvDecimal("FLAT_SHIPPING_RATE", "50"),
		CurrencyCode:          getEnv("CURRENCY_CODE", "INR"),
		CurrencyLocale:        getEnv("CURRENCY_LOCALE", "en-IN"),

		JWTSecret: getEnv("JWT_SECRET", ""),
		TokenTTL:  getEnvDuration("TOKEN_TTL", 7*24*time.Hour),

		SMTPHost:   getEnv("SMTP_HOST", ""),
		SMTPPort:   getEnv("SMTP_PORT", "587"),
		SMTPUser:   getEnv("SMTP_USER", ""),
		SMTPPass:   getEnv("SMTP_PASSWORD", ""),
		OwnerEmail: getEnv("OWNER_EMAIL", ""),
		OwnerPhone: getEnv("OWNER_PHONE", ""),
		ShopName:   getEnv("SHOP_NAME", "ElectroStore"),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return defaultValue
	}
	return n
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return defaultValue
	}
	return d
}

func getEnvDecimal(key, defaultValue string) decimal.Decimal {
	value := os.Getenv(key)
	if value == "" {
		value = defaultValue
	}
	d, err := decimal.NewFromString(value)
	if err != nil {
		d, _ = decimal.NewFromString(defaultValue)
	}
	return d
}
