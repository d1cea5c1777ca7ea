package crawler

import (
	"context"
	"time"

	"github.com/gocolly/colly"
)

const detailUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

// AlbumDetailFetcher pulls album detail pages; their HTML is what
// purchase-link extraction runs over. Detail fetching multiplies the
// request count per seller, so it sits behind its own config switch.
type AlbumDetailFetcher struct {
	Timeout time.Duration
}

// NewAlbumDetailFetcher creates a detail page fetcher.
func NewAlbumDetailFetcher(timeout time.Duration) *AlbumDetailFetcher {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &AlbumDetailFetcher{Timeout: timeout}
}

// FetchDetail downloads one album page and returns its raw HTML.
func (f *AlbumDetailFetcher) FetchDetail(ctx context.Context, pageURL string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	collector := colly.NewCollector(
		colly.UserAgent(detailUserAgent),
		colly.AllowURLRevisit(),
	)
	collector.SetRequestTimeout(f.Timeout)

	var html string
	collector.OnResponse(func(r *colly.Response) {
		html = string(r.Body)
	})

	if err := collector.Visit(pageURL); err != nil {
		return "", err
	}

	return html, nil
}
