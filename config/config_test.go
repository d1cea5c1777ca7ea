package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadConfig(t *testing.T) {
	// Test with default values
	config := LoadConfig()
	assert.Equal(t, ":8080", config.HTTPAddr)
	assert.Equal(t, "localhost:6379", config.RedisAddr)
	assert.Equal(t, 0, config.RedisDB)
	assert.Equal(t, "localhost:11211", config.MemcacheAddr)
	assert.Equal(t, 50, config.MaxPagesPerSeller)
	assert.Equal(t, 5, config.ConcurrentSellers)
	assert.Equal(t, 3, config.FailThreshold)
	assert.Equal(t, 500*time.Millisecond, config.PageDelay)
	assert.Equal(t, time.Duration(0), config.CrawlInterval)
	assert.False(t, config.FetchDetails)

	// Test with environment variables
	os.Setenv("REDIS_ADDR", "redis.example.com:6379")
	os.Setenv("REDIS_DB", "1")
	os.Setenv("MEMCACHE_ADDR", "memcache.example.com:11211")
	os.Setenv("MAX_PAGES_PER_SELLER", "10")
	os.Setenv("CONCURRENT_SELLERS", "2")
	os.Setenv("CRAWL_INTERVAL_SECONDS", "30")
	os.Setenv("FETCH_DETAILS", "true")

	config = LoadConfig()
	assert.Equal(t, "redis.example.com:6379", config.RedisAddr)
	assert.Equal(t, 1, config.RedisDB)
	assert.Equal(t, "memcache.example.com:11211", config.MemcacheAddr)
	assert.Equal(t, 10, config.MaxPagesPerSeller)
	assert.Equal(t, 2, config.ConcurrentSellers)
	assert.Equal(t, 30*time.Second, config.CrawlInterval)
	assert.True(t, config.FetchDetails)

	// Clean up
	os.Unsetenv("REDIS_ADDR")
	os.Unsetenv("REDIS_DB")
	os.Unsetenv("MEMCACHE_ADDR")
	os.Unsetenv("MAX_PAGES_PER_SELLER")
	os.Unsetenv("CONCURRENT_SELLERS")
	os.Unsetenv("CRAWL_INTERVAL_SECONDS")
	os.Unsetenv("FETCH_DETAILS")
}

func TestValidate(t *testing.T) {
	config := LoadConfig()
	assert.NoError(t, config.Validate())

	broken := config
	broken.MySQLDSN = ""
	assert.Error(t, broken.Validate())

	broken = config
	broken.ConcurrentSellers = 0
	assert.Error(t, broken.Validate())

	broken = config
	broken.MaxPagesPerSeller = -1
	assert.Error(t, broken.Validate())

	broken = config
	broken.FailThreshold = 0
	assert.Error(t, broken.Validate())
}
