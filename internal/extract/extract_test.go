package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractFullTitle(t *testing.T) {
	f := Extract("Off-White Hoodie ¥450 Men's Streetwear", "")

	require.NotNil(t, f.Price)
	assert.Equal(t, 450.0, *f.Price)
	assert.Equal(t, "CNY", f.Currency)
	assert.Equal(t, "Off-White", f.Brand)
	assert.Equal(t, "clothing", f.Category)
	assert.Empty(t, f.PurchaseURL)
}

func TestExtractPriceFormats(t *testing.T) {
	cases := []struct {
		name  string
		title string
		want  float64
	}{
		{"yen prefix", "Nike Dunk ¥280", 280},
		{"fullwidth yen", "Nike Dunk ￥280", 280},
		{"yen suffix", "Nike Dunk 280¥", 280},
		{"cny prefix", "Nike Dunk CNY 280", 280},
		{"cny suffix", "Nike Dunk 280 CNY", 280},
		{"rmb prefix", "Nike Dunk RMB280", 280},
		{"yuan suffix", "Nike Dunk 280 yuan", 280},
		{"yuan char", "Nike Dunk 280元", 280},
		{"price label", "Nike Dunk price: 280", 280},
		{"decimal", "Nike Dunk ¥199.99", 199.99},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			f := Extract(tc.title, "")
			require.NotNil(t, f.Price, "no price extracted")
			assert.Equal(t, tc.want, *f.Price)
			assert.Equal(t, "CNY", f.Currency)
		})
	}
}

func TestExtractPriceAbsentOrImplausible(t *testing.T) {
	cases := []struct {
		name  string
		title string
	}{
		{"no price", "Supreme Box Logo Hoodie"},
		{"zero", "Jacket ¥0"},
		{"too large", "Jacket ¥9999999"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			f := Extract(tc.title, "")
			assert.Nil(t, f.Price)
			assert.Empty(t, f.Currency)
		})
	}
}

func TestExtractPriceFallsBackToDetailHTML(t *testing.T) {
	f := Extract("Stone Island Jacket", `<div class="desc">价格: 350</div>`)

	require.NotNil(t, f.Price)
	assert.Equal(t, 350.0, *f.Price)
}

func TestExtractBrand(t *testing.T) {
	cases := []struct {
		title string
		want  string
	}{
		{"Nike Air Max 97", "Nike"},
		{"yeezy boost 350 v2", "Adidas"},
		{"LOUIS VUITTON Keepall 45", "Louis Vuitton"},
		{"Stone Island compass badge sweater", "Stone Island"},
		{"TNF nuptse 700", "The North Face"},
		{"generic cargo pants", ""},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, extractBrand(tc.title), tc.title)
	}
}

func TestExtractBrandLongestKeywordWins(t *testing.T) {
	// "off white" could collide with shorter keywords; the multi-word
	// match must take priority.
	assert.Equal(t, "Off-White", extractBrand("virgil off white belt"))
	assert.Equal(t, "Fear of God", extractBrand("fear of god essentials tee"))
}

func TestExtractCategoryPriority(t *testing.T) {
	cases := []struct {
		title string
		want  string
	}{
		{"LV monogram tote", "bags"},
		{"Jordan 4 sneaker", "shoes"},
		{"Moncler Maya puffer", "clothing"},
		{"Gucci belt", "accessories"},
		{"Rolex Submariner watch", "watches"},
		{"mystery item", ""},
		// Bags outrank clothing when both match
		{"hoodie and backpack bundle", "bags"},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, extractCategory(tc.title), tc.title)
	}
}

func TestExtractPurchaseLink(t *testing.T) {
	cases := []struct {
		name         string
		text         string
		wantURL      string
		wantPlatform string
	}{
		{
			"weidian item",
			`<a href="https://weidian.com/item.html?itemID=7234561234">buy</a>`,
			"https://weidian.com/item.html?itemID=7234561234",
			"weidian",
		},
		{
			"weidian shop subdomain",
			`see https://shop123456.v.weidian.com/item.html?itemID=42`,
			"https://shop123456.v.weidian.com/item.html?itemID=42",
			"weidian",
		},
		{
			"taobao item",
			`<a href="https://item.taobao.com/item.htm?id=612345678">tb</a>`,
			"https://item.taobao.com/item.htm?id=612345678",
			"taobao",
		},
		{
			"1688 offer",
			`https://detail.1688.com/offer/612345678.html`,
			"https://detail.1688.com/offer/612345678.html",
			"1688",
		},
		{
			"protocol relative",
			`<a href="//weidian.com/item.html?itemID=99">w</a>`,
			"https://weidian.com/item.html?itemID=99",
			"weidian",
		},
		{
			"agent link",
			`https://www.pandabuy.com/product?url=abc123`,
			"https://www.pandabuy.com/product?url=abc123",
			"pandabuy",
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			gotURL, gotPlatform := extractPurchaseLink(tc.text)
			assert.Equal(t, tc.wantURL, gotURL)
			assert.Equal(t, tc.wantPlatform, gotPlatform)
		})
	}
}

func TestExtractPurchaseLinkSellerShopBeatsAgent(t *testing.T) {
	text := `agent: https://www.pandabuy.com/product?url=x
shop: https://weidian.com/item.html?itemID=7`
	url, platform := extractPurchaseLink(text)
	assert.Equal(t, "weidian", platform)
	assert.Contains(t, url, "weidian.com")
}

func TestExtractPurchaseLinkUnescapesEntities(t *testing.T) {
	url, _ := extractPurchaseLink(`href="https://item.taobao.com/item.htm?spm=a21n57&amp;id=612345678"`)
	assert.NotContains(t, url, "&amp;")
	assert.Contains(t, url, "id=612345678")
}

func TestExtractIsDeterministic(t *testing.T) {
	title := "BAPE shark hoodie ¥520"
	first := Extract(title, "")
	second := Extract(title, "")
	assert.Equal(t, first, second)
}
