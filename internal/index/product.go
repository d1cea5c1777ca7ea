// Package index maintains the searchable product index.
package index

import (
	"crypto/md5"
	"encoding/hex"
)

// Product is one indexed storefront listing.
type Product struct {
	ID               string   `json:"id"`
	SellerID         string   `json:"seller_id"`
	SellerName       string   `json:"seller_name"`
	Title            string   `json:"title"`
	Price            *float64 `json:"price,omitempty"`
	Currency         string   `json:"currency,omitempty"`
	Brand            string   `json:"brand,omitempty"`
	Category         string   `json:"category,omitempty"`
	ImageURL         string   `json:"image_url,omitempty"`
	SourcePageURL    string   `json:"source_page_url"`
	PurchaseURL      string   `json:"purchase_url,omitempty"`
	PurchasePlatform string   `json:"purchase_platform,omitempty"`
	FirstSeenAt      int64    `json:"first_seen_at"`
	LastSeenAt       int64    `json:"last_seen_at"`
}

// ProductID derives the stable index key for a listing. The same
// seller and source page always map to the same id, which is what
// makes re-scrapes update in place instead of duplicating.
func ProductID(sellerID, sourcePageURL string) string {
	sum := md5.Sum([]byte(sellerID + "_" + sourcePageURL))
	return hex.EncodeToString(sum[:])[:16]
}
