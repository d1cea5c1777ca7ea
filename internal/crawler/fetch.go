package crawler

import (
	"context"
	"errors"
	"io"
	"time"

	"repfinder/scrapeworker/helpers"
	errs "repfinder/scrapeworker/pkg/errors"
	"repfinder/scrapeworker/services/cache"
)

// HTTPFetcher fetches storefront pages over plain HTTP with the shared
// randomized-header client. When a storefront rate-limits us, a block
// key in the cache suppresses further fetches for BlockTime.
type HTTPFetcher struct {
	SellerID  string
	BlockKey  string
	BlockTime time.Duration
	Cache     cache.CacheService
}

// NewHTTPFetcher creates a fetcher for one seller's storefront.
func NewHTTPFetcher(sellerID string, cacheSvc cache.CacheService, blockTime time.Duration) *HTTPFetcher {
	return &HTTPFetcher{
		SellerID:  sellerID,
		BlockKey:  "block_" + sellerID,
		BlockTime: blockTime,
		Cache:     cacheSvc,
	}
}

// Fetch retrieves a page, honoring an active cool-down block.
func (f *HTTPFetcher) Fetch(ctx context.Context, url string) (io.Reader, error) {
	if f.Cache != nil && f.BlockKey != "" {
		if _, err := f.Cache.Get(f.BlockKey); err == nil {
			return nil, errs.NewRateLimit(f.SellerID, f.BlockTime)
		}
	}

	body, err := helpers.FetchPage(ctx, url)
	if err != nil {
		var fetchErr *helpers.FetchError
		if errors.As(err, &fetchErr) && fetchErr.RateLimited() && f.Cache != nil && f.BlockKey != "" {
			f.Cache.Set(f.BlockKey, []byte("1"), f.BlockTime)
		}
		return nil, err
	}

	return body, nil
}
