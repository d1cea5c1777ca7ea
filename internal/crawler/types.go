package crawler

import (
	"context"
	"io"
)

// RawListing is one album entry as discovered on a storefront page.
// Listings are ephemeral: they go straight into field extraction and
// are never persisted in this form.
type RawListing struct {
	SellerID      string
	SourcePageURL string
	Title         string
	ImageURL      string
	// DetailHTML is the album detail page body, fetched only when detail
	// fetching is enabled. Purchase-link extraction runs over it.
	DetailHTML string
}

// Fetcher retrieves a storefront page body as UTF-8 HTML.
type Fetcher interface {
	Fetch(ctx context.Context, url string) (io.Reader, error)
}

// DetailFetcher retrieves an album detail page as raw HTML.
type DetailFetcher interface {
	FetchDetail(ctx context.Context, url string) (string, error)
}
