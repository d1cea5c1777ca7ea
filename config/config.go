package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config represents the application configuration
type Config struct {
	// HTTP API
	HTTPAddr string

	// Redis (search document store)
	RedisAddr string
	RedisDB   int

	// Memcache (per-seller cool-down block cache)
	MemcacheAddr string

	// MySQL (scrape run bookkeeping)
	MySQLDSN string

	// Seller registry file; empty means the seeded default table
	SellersFile string

	// Crawler tuning
	MaxPagesPerSeller int
	ConcurrentSellers int
	FailThreshold     int
	FetchRetries      int
	PageDelay         time.Duration
	BlockTime         time.Duration
	FetchDetails      bool
	ChromeEnabled     bool

	// Interval between automatic runs; zero disables the timer
	CrawlInterval time.Duration

	// Environment
	Environment string
}

// LoadConfig loads the configuration from environment variables with defaults
func LoadConfig() Config {
	redisDB, _ := strconv.Atoi(getEnv("REDIS_DB", "0"))
	maxPages, _ := strconv.Atoi(getEnv("MAX_PAGES_PER_SELLER", "50"))
	concurrent, _ := strconv.Atoi(getEnv("CONCURRENT_SELLERS", "5"))
	failThreshold, _ := strconv.Atoi(getEnv("FAIL_THRESHOLD", "3"))
	fetchRetries, _ := strconv.Atoi(getEnv("FETCH_RETRIES", "3"))
	pageDelayMs, _ := strconv.Atoi(getEnv("PAGE_DELAY_MS", "500"))
	blockSeconds, _ := strconv.Atoi(getEnv("BLOCK_TIME_SECONDS", "300"))
	crawlInterval, _ := strconv.Atoi(getEnv("CRAWL_INTERVAL_SECONDS", "0"))

	return Config{
		HTTPAddr:          getEnv("HTTP_ADDR", ":8080"),
		RedisAddr:         getEnv("REDIS_ADDR", "localhost:6379"),
		RedisDB:           redisDB,
		MemcacheAddr:      getEnv("MEMCACHE_ADDR", "localhost:11211"),
		MySQLDSN:          getEnv("MYSQL_DSN", "root:root@tcp(localhost:3306)/scrapeworker?parseTime=true"),
		SellersFile:       getEnv("SELLERS_FILE", ""),
		MaxPagesPerSeller: maxPages,
		ConcurrentSellers: concurrent,
		FailThreshold:     failThreshold,
		FetchRetries:      fetchRetries,
		PageDelay:         time.Duration(pageDelayMs) * time.Millisecond,
		BlockTime:         time.Duration(blockSeconds) * time.Second,
		FetchDetails:      getEnv("FETCH_DETAILS", "false") == "true",
		ChromeEnabled:     getEnv("CHROME_ENABLED", "false") == "true",
		CrawlInterval:     time.Duration(crawlInterval) * time.Second,
		Environment:       getEnv("SCRAPER_ENVIRONMENT", "development"),
	}
}

// Validate checks that the loaded configuration is usable
func (c Config) Validate() error {
	if c.MySQLDSN == "" {
		return fmt.Errorf("MYSQL_DSN must not be empty")
	}
	if c.RedisAddr == "" {
		return fmt.Errorf("REDIS_ADDR must not be empty")
	}
	if c.ConcurrentSellers < 1 {
		return fmt.Errorf("CONCURRENT_SELLERS must be at least 1, got %d", c.ConcurrentSellers)
	}
	if c.MaxPagesPerSeller < 1 {
		return fmt.Errorf("MAX_PAGES_PER_SELLER must be at least 1, got %d", c.MaxPagesPerSeller)
	}
	if c.FailThreshold < 1 {
		return fmt.Errorf("FAIL_THRESHOLD must be at least 1, got %d", c.FailThreshold)
	}
	if c.FetchRetries < 0 {
		return fmt.Errorf("FETCH_RETRIES must not be negative, got %d", c.FetchRetries)
	}
	return nil
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}
