package crawler

import (
	"context"
	"io"
	"strings"
	"time"

	"github.com/chromedp/chromedp"

	"repfinder/scrapeworker/helpers"
)

// ChromeFetcher renders a page in headless Chrome before handing the
// DOM to the parser. Some storefronts build the album grid client-side
// and serve an empty shell to plain HTTP clients.
type ChromeFetcher struct {
	Timeout time.Duration
	// RenderWait gives scripts time to populate the album grid after load.
	RenderWait time.Duration
}

// NewChromeFetcher creates a headless browser fetcher.
func NewChromeFetcher(timeout time.Duration) *ChromeFetcher {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &ChromeFetcher{
		Timeout:    timeout,
		RenderWait: 2 * time.Second,
	}
}

// Fetch navigates to the page and returns the rendered document.
func (f *ChromeFetcher) Fetch(ctx context.Context, pageURL string) (io.Reader, error) {
	browserCtx, cancelBrowser := chromedp.NewContext(ctx)
	defer cancelBrowser()

	runCtx, cancelRun := context.WithTimeout(browserCtx, f.Timeout)
	defer cancelRun()

	var html string
	err := chromedp.Run(runCtx,
		chromedp.Navigate(pageURL),
		chromedp.WaitVisible("body", chromedp.ByQuery),
		chromedp.Sleep(f.RenderWait),
		chromedp.OuterHTML("html", &html, chromedp.ByQuery),
	)
	if err != nil {
		return nil, &helpers.FetchError{URL: pageURL, Err: err}
	}

	return strings.NewReader(html), nil
}
