// Package extract derives structured product fields from raw listing
// text. All functions are pure: the same title and detail HTML always
// produce the same fields.
package extract

import (
	"html"
	"strconv"
	"strings"
)

// Prices outside this open interval are treated as extraction noise
// (dates, album ids, phone fragments) and dropped.
const (
	minPrice = 0
	maxPrice = 1_000_000
)

// Fields holds everything the extractor could derive from one listing.
// Absent fields stay zero-valued; Price is nil when no plausible price
// was found.
type Fields struct {
	Price            *float64
	Currency         string
	Brand            string
	Category         string
	PurchaseURL      string
	PurchasePlatform string
}

// Extract derives product fields from a listing title and the album's
// detail HTML. detailHTML may be empty when detail fetching is off.
func Extract(title, detailHTML string) Fields {
	f := Fields{
		Brand:    extractBrand(title),
		Category: extractCategory(title),
	}

	if price, ok := extractPrice(title); ok {
		f.Price = &price
		f.Currency = "CNY"
	} else if price, ok := extractPrice(detailHTML); ok {
		f.Price = &price
		f.Currency = "CNY"
	}

	f.PurchaseURL, f.PurchasePlatform = extractPurchaseLink(title + "\n" + detailHTML)
	return f
}

// extractPrice returns the first plausible price in the text.
func extractPrice(text string) (float64, bool) {
	if text == "" {
		return 0, false
	}
	for _, pattern := range pricePatterns {
		m := pattern.FindStringSubmatch(text)
		if m == nil {
			continue
		}
		price, err := strconv.ParseFloat(m[1], 64)
		if err != nil {
			continue
		}
		if price > minPrice && price < maxPrice {
			return price, true
		}
	}
	return 0, false
}

// extractBrand matches the title against the brand vocabulary. The
// longest matching keyword wins, so multi-word names beat substrings
// shared with other brands.
func extractBrand(title string) string {
	lower := strings.ToLower(title)

	best := ""
	bestLen := 0
	for _, rule := range brandRules {
		for _, keyword := range rule.Keywords {
			if len(keyword) > bestLen && strings.Contains(lower, keyword) {
				best = rule.Name
				bestLen = len(keyword)
			}
		}
	}
	return best
}

// extractCategory buckets the title into the first matching category.
func extractCategory(title string) string {
	lower := strings.ToLower(title)
	for _, rule := range categoryRules {
		for _, keyword := range rule.Keywords {
			if strings.Contains(lower, keyword) {
				return rule.Name
			}
		}
	}
	return ""
}

// extractPurchaseLink finds the first marketplace link in the text and
// labels its platform.
func extractPurchaseLink(text string) (string, string) {
	if text == "" {
		return "", ""
	}
	for _, rule := range marketplaceRules {
		for _, pattern := range rule.Patterns {
			if m := pattern.FindString(text); m != "" {
				return normalizePurchaseURL(m), rule.Platform
			}
		}
	}
	return "", ""
}

// normalizePurchaseURL unescapes HTML entities and forces an absolute
// https URL.
func normalizePurchaseURL(raw string) string {
	raw = html.UnescapeString(raw)
	switch {
	case strings.HasPrefix(raw, "//"):
		return "https:" + raw
	case strings.HasPrefix(raw, "http://"), strings.HasPrefix(raw, "https://"):
		return raw
	default:
		return "https://" + raw
	}
}
