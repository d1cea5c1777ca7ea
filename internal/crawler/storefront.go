package crawler

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"repfinder/scrapeworker/helpers"
	"repfinder/scrapeworker/internal/seller"
	"repfinder/scrapeworker/logger"
	errs "repfinder/scrapeworker/pkg/errors"
	"repfinder/scrapeworker/pkg/retry"
)

const maxTitleLength = 200

var (
	reLeadingCount = regexp.MustCompile(`^\d+\s+`)
	reStyleURL     = regexp.MustCompile(`url\(["']?([^"')\s]+)["']?\)`)
	reImageSize    = regexp.MustCompile(`_\d+x\d+`)
)

// Config tunes one seller's crawl.
type Config struct {
	MaxPages      int
	FailThreshold int
	FetchRetries  int
	PageDelay     time.Duration
}

// StorefrontCrawler walks one seller's album pages and yields raw
// listings in page order. A single crawler paginates sequentially, so
// each storefront's pacing only depends on its own crawl.
type StorefrontCrawler struct {
	seller  seller.Seller
	fetcher Fetcher
	detail  DetailFetcher
	cfg     Config
	log     *logger.Logger
}

// NewStorefrontCrawler creates a crawler for one seller. detail may be
// nil to skip album detail fetching.
func NewStorefrontCrawler(s seller.Seller, fetcher Fetcher, detail DetailFetcher, cfg Config) *StorefrontCrawler {
	return &StorefrontCrawler{
		seller:  s,
		fetcher: fetcher,
		detail:  detail,
		cfg:     cfg,
		log:     logger.ForSeller(s.ID),
	}
}

// Seller returns the seller this crawler works on.
func (c *StorefrontCrawler) Seller() seller.Seller {
	return c.seller
}

// Crawl paginates the storefront until a page yields no new listings,
// MaxPages is reached, or the consecutive-failure threshold is hit.
// Listings already emitted stay valid when the crawl ends in an error;
// cancellation stops cleanly after the in-flight page.
func (c *StorefrontCrawler) Crawl(ctx context.Context, emit func(RawListing)) error {
	pageURL := c.seller.StorefrontURL
	seen := make(map[string]bool)
	failures := 0

	for page := 1; page <= c.cfg.MaxPages && pageURL != ""; page++ {
		if page > 1 && c.cfg.PageDelay > 0 {
			select {
			case <-ctx.Done():
				return nil
			case <-time.After(c.cfg.PageDelay):
			}
		}
		if ctx.Err() != nil {
			return nil
		}

		doc, err := c.fetchDocument(ctx, pageURL)
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			var fetchErr *helpers.FetchError
			if errors.As(err, &fetchErr) && !fetchErr.Retryable() {
				return errs.NewFetchTerminal(c.seller.ID, fmt.Sprintf("page %d", page), err)
			}
			if errs.IsType(err, errs.ErrorTypeRateLimit) {
				return err
			}

			failures++
			c.log.Warn().Err(err).Int("page", page).Int("failures", failures).Msg("Page fetch failed")
			if failures >= c.cfg.FailThreshold {
				return errs.NewFetchTransient(c.seller.ID,
					fmt.Sprintf("giving up after %d consecutive page failures", failures), err)
			}
			// The pager link is unknown for a failed page; synthesize the
			// next page number instead.
			pageURL = withPage(c.seller.StorefrontURL, page+1)
			continue
		}
		failures = 0

		listings, next := c.parsePage(doc, pageURL, seen)
		if len(listings) == 0 {
			c.log.Debug().Int("page", page).Msg("No new listings, storefront exhausted")
			return nil
		}

		for _, listing := range listings {
			if c.detail != nil {
				html, err := c.detail.FetchDetail(ctx, listing.SourcePageURL)
				if err != nil {
					c.log.Debug().Err(err).Str("album", listing.SourcePageURL).Msg("Detail fetch failed")
				} else {
					listing.DetailHTML = html
				}
			}
			emit(listing)
		}

		c.log.Debug().Int("page", page).Int("listings", len(listings)).Msg("Page crawled")
		pageURL = next
	}

	return nil
}

// fetchDocument fetches one page with bounded retry and parses it.
func (c *StorefrontCrawler) fetchDocument(ctx context.Context, pageURL string) (*goquery.Document, error) {
	retryCfg := retry.DefaultConfig(c.cfg.FetchRetries, func(err error) bool {
		var fetchErr *helpers.FetchError
		if errors.As(err, &fetchErr) {
			return fetchErr.Retryable()
		}
		return false
	})

	var doc *goquery.Document
	err := retry.Do(ctx, retryCfg, func() error {
		body, err := c.fetcher.Fetch(ctx, pageURL)
		if err != nil {
			return err
		}
		parsed, err := goquery.NewDocumentFromReader(body)
		if err != nil {
			return errs.NewParsing(c.seller.ID, "parse album page", err)
		}
		doc = parsed
		return nil
	})
	return doc, err
}

// parsePage extracts new album listings and the next page URL.
func (c *StorefrontCrawler) parsePage(doc *goquery.Document, pageURL string, seen map[string]bool) ([]RawListing, string) {
	base, _ := url.Parse(pageURL)

	albums := doc.Find(".showindex__children a.album__main")
	if albums.Length() == 0 {
		albums = doc.Find("a.album__main")
	}
	if albums.Length() == 0 {
		albums = doc.Find(".categories__children a[href*='/albums/']")
	}

	var listings []RawListing
	albums.Each(func(_ int, s *goquery.Selection) {
		href, ok := s.Attr("href")
		if !ok || !strings.Contains(href, "/albums/") {
			return
		}

		absURL := resolveURL(base, href)
		key := albumKey(absURL)
		if seen[key] {
			return
		}
		seen[key] = true

		listings = append(listings, RawListing{
			SellerID:      c.seller.ID,
			SourcePageURL: absURL,
			Title:         truncate(extractTitle(s), maxTitleLength),
			ImageURL:      extractImage(s, base),
		})
	})

	next := ""
	if href, ok := doc.Find("a.pager__next").Attr("href"); ok && strings.TrimSpace(href) != "" {
		next = resolveURL(base, strings.TrimSpace(href))
	}
	return listings, next
}

// extractTitle reads the album title, falling back to the anchor text
// with the image-count prefix stripped.
func extractTitle(s *goquery.Selection) string {
	title := strings.TrimSpace(s.Find(".album__title").Text())
	if title == "" {
		title = reLeadingCount.ReplaceAllString(strings.TrimSpace(s.Text()), "")
	}
	if title == "" {
		title = "Unknown"
	}
	return title
}

// extractImage reads the album cover image URL. Covers are lazy-loaded,
// so data-* attributes take priority over src.
func extractImage(s *goquery.Selection, base *url.URL) string {
	img := s.Find("img").First()
	for _, attr := range []string{"data-origin-src", "data-src", "src"} {
		if val, ok := img.Attr(attr); ok {
			val = strings.TrimSpace(val)
			if val != "" && !strings.HasPrefix(val, "data:") {
				return normalizeImageURL(val, base)
			}
		}
	}

	if style, ok := s.Find(".album__cover").Attr("style"); ok {
		if m := reStyleURL.FindStringSubmatch(style); m != nil {
			return normalizeImageURL(m[1], base)
		}
	}
	return ""
}

// normalizeImageURL resolves the URL and rewrites the size suffix to
// the larger cover variant.
func normalizeImageURL(raw string, base *url.URL) string {
	if strings.HasPrefix(raw, "//") {
		raw = "https:" + raw
	} else if !strings.HasPrefix(raw, "http") {
		raw = resolveURL(base, raw)
	}
	return reImageSize.ReplaceAllString(raw, "_800x0x1")
}

// albumKey derives the album identity used for per-crawl dedup. Query
// parameters vary between pages, so the path's album id is used.
func albumKey(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return rawURL
	}
	// Path shape: /photos/<user>/albums/<id>
	if id, err := helpers.GetSplitPart(strings.Trim(u.Path, "/"), "/", 3); err == nil && id != "" {
		return id
	}
	return u.Path
}

func resolveURL(base *url.URL, href string) string {
	if base == nil {
		return href
	}
	ref, err := url.Parse(href)
	if err != nil {
		return href
	}
	return base.ResolveReference(ref).String()
}

func withPage(rawURL string, page int) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return rawURL
	}
	q := u.Query()
	q.Set("page", strconv.Itoa(page))
	u.RawQuery = q.Encode()
	return u.String()
}

func truncate(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit])
}
