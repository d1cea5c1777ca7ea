package seller

import (
	"encoding/json"
	"fmt"
	"os"
)

// Seller identifies one storefront on the gallery platform. The record
// is immutable during a run; the registry is loaded once per
// orchestrator invocation.
type Seller struct {
	ID            string `json:"id"`
	DisplayName   string `json:"display_name"`
	StorefrontURL string `json:"storefront_url"`
	Enabled       bool   `json:"enabled"`
	// RequiresJS marks storefronts that only render album lists through
	// client-side scripts and need the headless browser fetcher.
	RequiresJS bool `json:"requires_js,omitempty"`
	// WeidianID is the seller's marketplace shop id, when known. Used as
	// a purchase-link fallback for listings without one of their own.
	WeidianID string `json:"weidian_id,omitempty"`
}

// StorefrontURLFor builds the albums root URL for a gallery username.
func StorefrontURLFor(user string) string {
	return fmt.Sprintf("https://x.yupoo.com/photos/%s/albums", user)
}

// Load reads the registry from a JSON file, or returns the seeded
// default table when path is empty.
func Load(path string) ([]Seller, error) {
	if path == "" {
		return Defaults(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read sellers file: %w", err)
	}

	var sellers []Seller
	if err := json.Unmarshal(data, &sellers); err != nil {
		return nil, fmt.Errorf("parse sellers file: %w", err)
	}
	if len(sellers) == 0 {
		return nil, fmt.Errorf("sellers file %s contains no sellers", path)
	}
	return sellers, nil
}

// Active filters the registry down to enabled sellers.
func Active(sellers []Seller) []Seller {
	out := make([]Seller, 0, len(sellers))
	for _, s := range sellers {
		if s.Enabled {
			out = append(out, s)
		}
	}
	return out
}
