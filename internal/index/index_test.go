package index

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestProductIDIsStable(t *testing.T) {
	url := "https://x.yupoo.com/photos/shopone/albums/123"

	first := ProductID("shopone", url)
	second := ProductID("shopone", url)

	assert.Equal(t, first, second)
	assert.Len(t, first, 16)
}

func TestProductIDVariesBySellerAndURL(t *testing.T) {
	url := "https://x.yupoo.com/photos/shopone/albums/123"

	assert.NotEqual(t, ProductID("shopone", url), ProductID("shoptwo", url))
	assert.NotEqual(t,
		ProductID("shopone", url),
		ProductID("shopone", url+"4"),
	)
}

func TestDocFieldsOmitsEmptyOptionals(t *testing.T) {
	p := Product{
		ID:            "abc",
		SellerID:      "shopone",
		SellerName:    "Shop One",
		Title:         "Plain Tee",
		SourcePageURL: "https://x.yupoo.com/photos/shopone/albums/1",
		FirstSeenAt:   100,
		LastSeenAt:    200,
	}

	fields := docFields(p)

	assert.NotContains(t, fields, "price")
	assert.NotContains(t, fields, "currency")
	assert.NotContains(t, fields, "brand")
	assert.NotContains(t, fields, "category")
	assert.NotContains(t, fields, "purchase_url")
	assert.Equal(t, "200", fields["last_seen_at"])
}

func TestDocFieldsNeverRewritesFirstSeen(t *testing.T) {
	price := 450.0
	p := Product{
		ID:          "abc",
		SellerID:    "shopone",
		Title:       "Off-White Hoodie",
		Price:       &price,
		Currency:    "CNY",
		FirstSeenAt: 100,
		LastSeenAt:  200,
	}

	fields := docFields(p)

	// first_seen_at is written via HSetNX only, so a plain upsert must
	// never carry it.
	assert.NotContains(t, fields, "first_seen_at")
	assert.Equal(t, "450", fields["price"])
	assert.Equal(t, "CNY", fields["currency"])
}
