package seller

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDefaults(t *testing.T) {
	sellers := Defaults()
	assert.NotEmpty(t, sellers)

	seen := make(map[string]bool)
	for _, s := range sellers {
		assert.NotEmpty(t, s.ID)
		assert.NotEmpty(t, s.DisplayName)
		assert.Contains(t, s.StorefrontURL, s.ID)
		assert.False(t, seen[s.ID], "duplicate seller id %s", s.ID)
		seen[s.ID] = true
		assert.True(t, s.Enabled)
	}
}

func TestLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sellers.json")
	content := `[
		{"id": "shopone", "display_name": "Shop One", "storefront_url": "https://x.yupoo.com/photos/shopone/albums", "enabled": true},
		{"id": "shoptwo", "display_name": "Shop Two", "storefront_url": "https://x.yupoo.com/photos/shoptwo/albums", "enabled": false, "requires_js": true}
	]`
	assert.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	sellers, err := Load(path)
	assert.NoError(t, err)
	assert.Len(t, sellers, 2)
	assert.Equal(t, "shopone", sellers[0].ID)
	assert.True(t, sellers[1].RequiresJS)

	active := Active(sellers)
	assert.Len(t, active, 1)
	assert.Equal(t, "shopone", active[0].ID)
}

func TestLoadEmptyPathUsesDefaults(t *testing.T) {
	sellers, err := Load("")
	assert.NoError(t, err)
	assert.Equal(t, Defaults(), sellers)
}

func TestLoadErrors(t *testing.T) {
	_, err := Load("/nonexistent/sellers.json")
	assert.Error(t, err)

	path := filepath.Join(t.TempDir(), "bad.json")
	assert.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))
	_, err = Load(path)
	assert.Error(t, err)

	empty := filepath.Join(t.TempDir(), "empty.json")
	assert.NoError(t, os.WriteFile(empty, []byte("[]"), 0o644))
	_, err = Load(empty)
	assert.Error(t, err)
}
