package cache

import (
	"testing"
	"time"

	"github.com/bradfitz/gomemcache/memcache"
	"github.com/stretchr/testify/assert"
)

// Exercises the memcached backend when one is reachable; skipped
// otherwise so the suite stays runnable without infrastructure.
func TestMemcacheService(t *testing.T) {
	mc := NewMemcacheService("localhost:11211")

	_, err := mc.client.Get("probe")
	if err != nil && err != memcache.ErrCacheMiss {
		t.Skip("memcached is not available, skipping")
	}

	err = mc.Set("block_shopone", []byte("1"), 1*time.Second)
	assert.NoError(t, err)

	value, err := mc.Get("block_shopone")
	assert.NoError(t, err)
	assert.Equal(t, "1", string(value))

	err = mc.Delete("block_shopone")
	assert.NoError(t, err)

	_, err = mc.Get("block_shopone")
	assert.Error(t, err)
}

func TestMemoryService(t *testing.T) {
	m := NewMemoryService()

	_, err := m.Get("block_shopone")
	assert.Error(t, err)

	assert.NoError(t, m.Set("block_shopone", []byte("1"), time.Minute))

	value, err := m.Get("block_shopone")
	assert.NoError(t, err)
	assert.Equal(t, "1", string(value))

	assert.NoError(t, m.Delete("block_shopone"))
	_, err = m.Get("block_shopone")
	assert.Error(t, err)
}

func TestMemoryServiceExpiry(t *testing.T) {
	m := NewMemoryService()

	assert.NoError(t, m.Set("block_shoptwo", []byte("1"), 10*time.Millisecond))

	time.Sleep(20 * time.Millisecond)

	_, err := m.Get("block_shoptwo")
	assert.Error(t, err)
}
