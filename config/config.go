package config

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Merge policies applied when one source has no raw file.
const (
	MergeAbort     = "abort"
	MergeAvailable = "available"
)

// Config holds all application configuration loaded from environment variables.
type Config struct {
	PostgresHost     string
	PostgresPort     string
	PostgresUser     string
	PostgresPassword string
	PostgresDB       string
	PostgresSSLMode  string

	SQLitePath     string
	StorageBackend string

	RawDir       string
	ProcessedDir string
	OutputFile   string

	PriceFloor   float64
	ExchangeRate float64
	MergePolicy  string
	Dedupe       bool

	Keywords       []string
	PagesToScrape  int
	MaxConcurrency int
	RateLimitMs    int
	MaxRetries     int
	Headless       bool
	ChromeBin      string

	LogLevel string
}

// Load reads the .env file and returns a populated Config struct.
func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("[config] No .env file found, falling back to system env vars")
	}

	return &Config{
		PostgresHost:     getEnv("POSTGRES_HOST", "localhost"),
		PostgresPort:     getEnv("POSTGRES_PORT", "5432"),
		PostgresUser:     getEnv("POSTGRES_USER", "scraper"),
		PostgresPassword: getEnv("POSTGRES_PASSWORD", "scraper123"),
		PostgresDB:       getEnv("POSTGRES_DB", "market_db"),
		PostgresSSLMode:  getEnv("POSTGRES_SSLMODE", "disable"),

		SQLitePath:     getEnv("SQLITE_PATH", "./data/processed/products.sqlite"),
		StorageBackend: strings.ToLower(getEnv("STORAGE_BACKEND", "csv")),

		RawDir:       getEnv("RAW_DIR", "./data/raw"),
		ProcessedDir: getEnv("PROCESSED_DIR", "./data/processed"),
		OutputFile:   getEnv("OUTPUT_FILE", "products_cleaned.csv"),

		PriceFloor:   getEnvFloat("PRICE_FLOOR", 40),
		ExchangeRate: getEnvFloat("EXCHANGE_RATE", 11),
		MergePolicy:  strings.ToLower(getEnv("MERGE_POLICY", MergeAbort)),
		Dedupe:       getEnvBool("DEDUPE", true),

		Keywords:       getEnvList("KEYWORDS", []string{"smartphone"}),
		PagesToScrape:  getEnvInt("PAGES_TO_SCRAPE", 2),
		MaxConcurrency: getEnvInt("MAX_CONCURRENCY", 2),
		RateLimitMs:    getEnvInt("RATE_LIMIT_MS", 2000),
		MaxRetries:     getEnvInt("MAX_RETRIES", 3),
		Headless:       getEnvBool("HEADLESS", true),
		ChromeBin:      getEnv("CHROME_BIN", ""),

		LogLevel: getEnv("LOG_LEVEL", "info"),
	}
}

// Validate rejects settings the cleaning pipeline cannot run with.
func (c *Config) Validate() error {
	if c.ExchangeRate <= 0 {
		return fmt.Errorf("config: EXCHANGE_RATE must be positive, got %v", c.ExchangeRate)
	}
	if c.PriceFloor < 0 {
		return fmt.Errorf("config: PRICE_FLOOR must not be negative, got %v", c.PriceFloor)
	}
	switch c.MergePolicy {
	case MergeAbort, MergeAvailable:
	default:
		return fmt.Errorf("config: unknown MERGE_POLICY %q (want %q or %q)", c.MergePolicy, MergeAbort, MergeAvailable)
	}
	switch c.StorageBackend {
	case "csv", "postgres", "sqlite":
	default:
		return fmt.Errorf("config: unknown STORAGE_BACKEND %q", c.StorageBackend)
	}
	return nil
}

// OutputPath is the location of the canonical dataset.
func (c *Config) OutputPath() string {
	return filepath.Join(c.ProcessedDir, c.OutputFile)
}

// DSN returns the PostgreSQL connection string.
func (c *Config) DSN() string {
	return "host=" + c.PostgresHost +
		" port=" + c.PostgresPort +
		" user=" + c.PostgresUser +
		" password=" + c.PostgresPassword +
		" dbname=" + c.PostgresDB +
		" sslmode=" + c.PostgresSSLMode
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if val := os.Getenv(key); val != "" {
		n, err := strconv.Atoi(val)
		if err == nil {
			return n
		}
	}
	return fallback
}

func getEnvFloat(key string, fallback float64) float64 {
	if val := os.Getenv(key); val != "" {
		f, err := strconv.ParseFloat(strings.TrimSpace(val), 64)
		if err == nil {
			return f
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	switch strings.ToLower(strings.TrimSpace(os.Getenv(key))) {
	case "1", "true", "yes", "on":
		return true
	case "0", "false", "no", "off":
		return false
	}
	return fallback
}

func getEnvList(key string, fallback []string) []string {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	var out []string
	for _, part := range strings.Split(val, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	if len(out) == 0 {
		return fallback
	}
	return out
}
