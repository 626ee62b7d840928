package config

import (
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"go.uber.org/fx"
)

var Module = fx.Module("config",
	fx.Provide(Load),
	fx.Provide(NewProvisioningConfigHolder),
)

// Config holds application configuration.
type Config struct {
	AppName     string
	AppVersion  string
	Environment string
	HTTPAddr    string

	AuthJWTSecret    string
	AuthJWTIssuer    string
	AuthCookieName   string
	AuthCookieSecure bool

	// BootstrapAdminExternalID seeds an admin identity on first start when set.
	BootstrapAdminExternalID string
	BootstrapAdminEmail      string

	OTLPEndpoint string

	DBType            string
	DBHost            string
	DBPort            string
	DBName            string
	DBUser            string
	DBPassword        string
	DBSSLMode         string
	DBPath            string
	DBMaxIdleConn     int
	DBMaxOpenConn     int
	DBConnMaxLifetime int
	DBConnMaxIdleTime int

	InvoiceNumbering string
	RedisAddr        string
	RedisPassword    string
	RedisDB          int
}

const (
	InvoiceNumberingTimestamp = "timestamp"
	InvoiceNumberingRedis     = "redis"
)

// Load loads configuration from environment variables and .env file.
func Load() Config {
	_ = godotenv.Load()

	environment := getenv("ENVIRONMENT", "development")
	authCookieSecure := environment == "production"
	if !authCookieSecure {
		authCookieSecure = getenvBool("AUTH_COOKIE_SECURE", false)
	}

	cfg := Config{
		AppName:                  getenv("APP_SERVICE", "agencydesk"),
		AppVersion:               getenv("APP_VERSION", "0.1.0"),
		Environment:              environment,
		HTTPAddr:                 getenv("HTTP_ADDR", ":8080"),
		AuthJWTSecret:            strings.TrimSpace(getenv("AUTH_JWT_SECRET", "")),
		AuthJWTIssuer:            strings.TrimSpace(getenv("AUTH_JWT_ISSUER", "")),
		AuthCookieName:           getenv("AUTH_COOKIE_NAME", "access_token"),
		AuthCookieSecure:         authCookieSecure,
		BootstrapAdminExternalID: strings.TrimSpace(getenv("BOOTSTRAP_ADMIN_EXTERNAL_ID", "")),
		BootstrapAdminEmail:      strings.TrimSpace(getenv("BOOTSTRAP_ADMIN_EMAIL", "")),
		OTLPEndpoint:             getenv("OTLP_ENDPOINT", "localhost:4317"),
		DBType:                   getenv("DATABASE_TYPE", "postgres"),
		DBHost:                   getenv("DATABASE_HOST", "localhost"),
		DBPort:                   getenv("DATABASE_PORT", "5432"),
		DBName:                   getenv("DATABASE_NAME", "agencydesk"),
		DBUser:                   getenv("DATABASE_USER", "postgres"),
		DBPassword:               getenv("DATABASE_PASSWORD", ""),
		DBSSLMode:                getenv("DATABASE_SSLMODE", "disable"),
		DBPath:                   getenv("DATABASE_PATH", "agencydesk.db"),
		DBMaxIdleConn:            getenvInt("DATABASE_MAX_IDLE_CONN", 10),
		DBMaxOpenConn:            getenvInt("DATABASE_MAX_OPEN_CONN", 50),
		DBConnMaxLifetime:        getenvInt("DATABASE_CONN_MAX_LIFETIME", 300),
		DBConnMaxIdleTime:        getenvInt("DATABASE_CONN_MAX_IDLE_TIME", 60),
		InvoiceNumbering:         normalizeNumbering(getenv("INVOICE_NUMBERING", InvoiceNumberingTimestamp)),
		RedisAddr:                getenv("REDIS_ADDR", "localhost:6379"),
		RedisPassword:            getenv("REDIS_PASSWORD", ""),
		RedisDB:                  getenvInt("REDIS_DB", 0),
	}

	if cfg.AuthJWTSecret == "" {
		log.Printf("[config] AUTH_JWT_SECRET is empty, every authenticated request will be rejected")
	}

	return cfg
}

func (c Config) IsProduction() bool {
	return c.Environment == "production"
}

func normalizeNumbering(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case InvoiceNumberingRedis:
		return InvoiceNumberingRedis
	default:
		return InvoiceNumberingTimestamp
	}
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvBool(key string, def bool) bool {
	value := strings.ToLower(strings.TrimSpace(os.Getenv(key)))
	if value == "" {
		return def
	}
	switch value {
	case "1", "true", "yes", "y", "on":
		return true
	case "0", "false", "no", "n", "off":
		return false
	default:
		return def
	}
}

func getenvInt(key string, def int) int {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return def
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return def
	}
	return parsed
}
