package config

import (
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

const (
	SourceCSV        = "csv"
	SourceClickHouse = "clickhouse"
)

type Config struct {
	// Server
	Port       string
	GinMode    string
	FEOrigins  []string
	AuthAPIKey string
	JWTSecret  string

	// Record store
	DataSource string
	DataDir    string

	// ClickHouse source
	ClickHouseHost          string
	ClickHouseNativePort    int
	ClickHouseDBName        string
	ClickHouseUsername      string
	ClickHousePassword      string
	ClickHouseSessionsTable string
	ClickHouseOrdersTable   string
	ClickHouseItemsTable    string
	ClickHouseRefundsTable  string

	// Users (optional)
	DatabaseURL string

	// Request defaults
	DefaultRange           string
	DefaultForecastPeriods int
	MaxForecastPeriods     int
}

// Load reads a .env file if one is present and then builds the configuration from the environment.
func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Printf("No .env file found or error loading .env: %v", err)
	}
	return FromEnv()
}

// FromEnv builds the configuration from the process environment only.
func FromEnv() *Config {
	return &Config{
		Port:       getEnv("PORT", "8080"),
		GinMode:    getEnv("GIN_MODE", ""),
		FEOrigins:  getEnvAsList("FE_ORIGIN", []string{"*"}),
		AuthAPIKey: getEnv("AUTH_DEFAULT", ""),
		JWTSecret:  getEnv("JWT_SECRET_KEY", ""),

		DataSource: strings.ToLower(getEnv("DATA_SOURCE", SourceCSV)),
		DataDir:    getEnv("DATA_DIR", "./data/processed"),

		ClickHouseHost:          getEnv("CLICKHOUSE_HOST", ""),
		ClickHouseNativePort:    getEnvAsInt("CLICKHOUSE_NATIVE_PORT", 9000),
		ClickHouseDBName:        getEnv("CLICKHOUSE_DB_NAME", ""),
		ClickHouseUsername:      getEnv("CLICKHOUSE_USERNAME", "default"),
		ClickHousePassword:      getEnv("CLICKHOUSE_PASSWORD", ""),
		ClickHouseSessionsTable: getEnv("CLICKHOUSE_SESSIONS_TABLE", "master_dataset"),
		ClickHouseOrdersTable:   getEnv("CLICKHOUSE_ORDERS_TABLE", "orders_clean"),
		ClickHouseItemsTable:    getEnv("CLICKHOUSE_ITEMS_TABLE", "items_clean"),
		ClickHouseRefundsTable:  getEnv("CLICKHOUSE_REFUNDS_TABLE", "refunds_clean"),

		DatabaseURL: getEnv("DATABASE_URL", ""),

		DefaultRange:           getEnv("DEFAULT_RANGE", "Month"),
		DefaultForecastPeriods: getEnvAsInt("DEFAULT_FORECAST_PERIODS", 3),
		MaxForecastPeriods:     getEnvAsInt("MAX_FORECAST_PERIODS", 36),
	}
}

// UsersEnabled reports whether account signup/login should be served.
func (c *Config) UsersEnabled() bool {
	return c.DatabaseURL != ""
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
		log.Printf("Invalid integer for %s=%q, using default %d", key, value, defaultValue)
	}
	return defaultValue
}

func getEnvAsList(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	if len(out) == 0 {
		return defaultValue
	}
	return out
}
