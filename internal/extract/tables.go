package extract

import "regexp"

// The vocabularies below are data, not control flow: rules are matched
// in table order and can be extended without touching the matching
// logic.

// pricePatterns are tried in order; the first plausible match wins.
// Group 1 always captures the numeric token.
var pricePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)[¥￥]\s*(\d+(?:\.\d{1,2})?)`),
	regexp.MustCompile(`(?i)(\d+(?:\.\d{1,2})?)\s*[¥￥]`),
	regexp.MustCompile(`(?i)CNY\s*(\d+(?:\.\d{1,2})?)`),
	regexp.MustCompile(`(?i)(\d+(?:\.\d{1,2})?)\s*CNY`),
	regexp.MustCompile(`(?i)RMB\s*(\d+(?:\.\d{1,2})?)`),
	regexp.MustCompile(`(?i)(\d+(?:\.\d{1,2})?)\s*RMB`),
	regexp.MustCompile(`(?i)(\d+(?:\.\d{1,2})?)\s*[元]`),
	regexp.MustCompile(`(?i)Yuan\s*(\d+(?:\.\d{1,2})?)`),
	regexp.MustCompile(`(?i)(\d+(?:\.\d{1,2})?)\s*Yuan`),
	regexp.MustCompile(`(?i)(?:price|价格)[:\s]*(\d+(?:\.\d{1,2})?)`),
}

// BrandRule maps any of its keywords to a canonical brand name.
type BrandRule struct {
	Name     string
	Keywords []string
}

// brandRules is scanned in full; the longest matching keyword wins so
// "off-white" beats shorter collisions.
var brandRules = []BrandRule{
	{"Nike", []string{"nike", "swoosh", "air max", "air force", "dunk", "blazer"}},
	{"Adidas", []string{"adidas", "yeezy", "boost", "ultraboost", "nmd", "superstar"}},
	{"Jordan", []string{"jordan", "aj1", "aj4", "aj11", "retro"}},
	{"Supreme", []string{"supreme", "box logo", "bogo"}},
	{"Off-White", []string{"off-white", "off white", "virgil"}},
	{"Gucci", []string{"gucci"}},
	{"Louis Vuitton", []string{"louis vuitton", "monogram"}},
	{"Dior", []string{"dior", "saddle"}},
	{"Balenciaga", []string{"balenciaga", "triple s", "speed trainer"}},
	{"Prada", []string{"prada", "re-nylon"}},
	{"Fendi", []string{"fendi"}},
	{"Burberry", []string{"burberry"}},
	{"Stone Island", []string{"stone island", "compass"}},
	{"Moncler", []string{"moncler", "maya"}},
	{"Canada Goose", []string{"canada goose"}},
	{"The North Face", []string{"north face", "tnf", "nuptse"}},
	{"BAPE", []string{"bape", "bathing ape", "shark hoodie"}},
	{"Palace", []string{"palace", "tri-ferg"}},
	{"Stussy", []string{"stussy", "stüssy"}},
	{"Chrome Hearts", []string{"chrome hearts"}},
	{"Fear of God", []string{"fear of god", "essentials"}},
	{"Represent", []string{"represent"}},
	{"Gallery Dept", []string{"gallery dept"}},
	{"Trapstar", []string{"trapstar"}},
	{"Rick Owens", []string{"rick owens", "drkshdw"}},
	{"Acne Studios", []string{"acne studios", "acne"}},
	{"AMI", []string{"ami paris"}},
	{"Arcteryx", []string{"arcteryx", "arc'teryx"}},
	{"Palm Angels", []string{"palm angels"}},
	{"Vetements", []string{"vetements"}},
	{"Rhude", []string{"rhude"}},
	{"Amiri", []string{"amiri"}},
	{"Casablanca", []string{"casablanca"}},
	{"Hermes", []string{"hermes", "hermès", "birkin", "kelly"}},
	{"Chanel", []string{"chanel"}},
	{"Bottega Veneta", []string{"bottega", "intrecciato"}},
	{"Loewe", []string{"loewe"}},
	{"Celine", []string{"celine", "céline"}},
	{"Goyard", []string{"goyard"}},
	{"Golden Goose", []string{"golden goose", "ggdb"}},
	{"Alexander McQueen", []string{"alexander mcqueen", "mcqueen"}},
	{"Common Projects", []string{"common projects"}},
	{"Valentino", []string{"valentino", "vltn"}},
	{"Versace", []string{"versace", "medusa"}},
	{"Givenchy", []string{"givenchy"}},
	{"Saint Laurent", []string{"saint laurent", "yves saint laurent", "ysl"}},
	{"Thom Browne", []string{"thom browne"}},
	{"Loro Piana", []string{"loro piana"}},
	{"Zegna", []string{"zegna", "ermenegildo"}},
	{"Rolex", []string{"rolex", "submariner", "datejust", "daytona"}},
	{"Omega", []string{"omega", "speedmaster", "seamaster"}},
	{"Cartier", []string{"cartier", "juste un clou"}},
	{"Vivienne Westwood", []string{"vivienne westwood"}},
}

// CategoryRule is one classification bucket.
type CategoryRule struct {
	Name     string
	Keywords []string
}

// categoryRules are checked in priority order; the first bucket with a
// matching keyword wins.
var categoryRules = []CategoryRule{
	{"bags", []string{
		"bag", "backpack", "purse", "wallet", "tote", "clutch", "handbag",
		"crossbody", "messenger", "satchel", "duffle", "briefcase",
	}},
	{"shoes", []string{
		"shoe", "sneaker", "boot", "sandal", "slipper", "loafer", "trainer",
		"runner", "dunk", "jordan", "yeezy", "air max", "aj1", "aj4",
	}},
	{"clothing", []string{
		"hoodie", "sweatshirt", "pullover", "t-shirt", "tee", "shirt", "polo",
		"jacket", "coat", "parka", "bomber", "windbreaker", "puffer", "vest",
		"pant", "jean", "trouser", "jogger", "short", "cargo", "sweatpant",
		"sweater", "cardigan", "knit", "dress", "skirt", "suit", "blazer",
		"tracksuit", "sock", "underwear", "streetwear",
	}},
	{"accessories", []string{
		"belt", "hat", "cap", "scarf", "glove", "beanie", "sunglasses",
		"glasses", "tie", "necklace", "bracelet", "ring", "earring", "chain",
	}},
	{"watches", []string{
		"watch", "submariner", "datejust", "daytona", "speedmaster",
	}},
}

// MarketplaceRule matches purchase links for one resale platform.
type MarketplaceRule struct {
	Platform string
	Patterns []*regexp.Regexp
}

// marketplaceRules are checked in priority order: direct seller shops
// first, then purchasing agents.
var marketplaceRules = []MarketplaceRule{
	{"weidian", []*regexp.Regexp{
		regexp.MustCompile(`(?i)(?:https?:)?//(?:www\.)?weidian\.com/item\.html\?itemID=\d+`),
		regexp.MustCompile(`(?i)(?:https?:)?//shop\d+\.v\.weidian\.com/item\.html\?itemID=\d+`),
		regexp.MustCompile(`(?i)(?:https?:)?//(?:www\.)?weidian\.com/\?userid=\d+`),
	}},
	{"taobao", []*regexp.Regexp{
		regexp.MustCompile(`(?i)(?:https?:)?//item\.taobao\.com/item\.htm\?[^"'\s<]*id=\d+`),
		regexp.MustCompile(`(?i)(?:https?:)?//(?:[\w-]+\.)?taobao\.com/[^"'\s<]+`),
		regexp.MustCompile(`(?i)(?:https?:)?//(?:[\w-]+\.)?tmall\.com/[^"'\s<]+`),
	}},
	{"1688", []*regexp.Regexp{
		regexp.MustCompile(`(?i)(?:https?:)?//detail\.1688\.com/offer/\d+\.html`),
		regexp.MustCompile(`(?i)(?:https?:)?//(?:www\.)?1688\.com/[^"'\s<]+`),
	}},
	{"pandabuy", []*regexp.Regexp{
		regexp.MustCompile(`(?i)(?:https?:)?//(?:www\.)?pandabuy\.com/product\?[^"'\s<]+`),
	}},
	{"superbuy", []*regexp.Regexp{
		regexp.MustCompile(`(?i)(?:https?:)?//(?:www\.)?superbuy\.com/[^"'\s<]+`),
	}},
	{"wegobuy", []*regexp.Regexp{
		regexp.MustCompile(`(?i)(?:https?:)?//(?:www\.)?wegobuy\.com/[^"'\s<]+`),
	}},
	{"cssbuy", []*regexp.Regexp{
		regexp.MustCompile(`(?i)(?:https?:)?//(?:www\.)?cssbuy\.com/[^"'\s<]+`),
	}},
}
