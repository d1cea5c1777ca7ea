// Package orchestrator coordinates full scrape runs: it fans sellers
// out over a bounded worker pool, streams extracted products into the
// index and keeps the durable run record current.
package orchestrator

import (
	"context"
	"sync"
	"time"

	uuid "github.com/satori/go.uuid"

	"repfinder/scrapeworker/internal/crawler"
	"repfinder/scrapeworker/internal/extract"
	"repfinder/scrapeworker/internal/index"
	"repfinder/scrapeworker/internal/run"
	"repfinder/scrapeworker/internal/seller"
	"repfinder/scrapeworker/logger"
	errs "repfinder/scrapeworker/pkg/errors"
)

// Products are indexed in batches of this size while the crawl is
// still in flight, so a seller failing halfway keeps its earlier pages.
const upsertBatchSize = 20

// Crawler walks one storefront and emits raw listings.
type Crawler interface {
	Crawl(ctx context.Context, emit func(crawler.RawListing)) error
}

// CrawlerFactory builds the crawler for one seller. It decides per
// seller whether a plain HTTP or a browser-rendering fetcher is used.
type CrawlerFactory func(s seller.Seller) Crawler

// Orchestrator owns run execution. At most one run is in flight at a
// time; starting while one is running reports a conflict instead of an
// error.
type Orchestrator struct {
	sellers    []seller.Seller
	factory    CrawlerFactory
	upserter   index.Upserter
	store      run.Store
	concurrent int
	log        *logger.Logger

	mu      sync.Mutex
	current *run.ScrapeRun
	cancel  context.CancelFunc
	running bool
	done    chan struct{}
}

// New creates an orchestrator over the given sellers.
func New(sellers []seller.Seller, factory CrawlerFactory, upserter index.Upserter, store run.Store, concurrent int) *Orchestrator {
	if concurrent <= 0 {
		concurrent = 1
	}
	return &Orchestrator{
		sellers:    sellers,
		factory:    factory,
		upserter:   upserter,
		store:      store,
		concurrent: concurrent,
		log:        logger.ForComponent("orchestrator"),
	}
}

// StartRun begins a new run. It returns the run id and true when a run
// was started, or the in-flight run's id and false when one is already
// running. The run itself executes in the background.
func (o *Orchestrator) StartRun(ctx context.Context) (string, bool, error) {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.running {
		return o.current.ID, false, nil
	}

	r := &run.ScrapeRun{
		ID:           uuid.NewV4().String(),
		State:        run.StateRunning,
		StartedAt:    time.Now().Unix(),
		SellersTotal: len(o.sellers),
	}
	if err := o.store.Create(ctx, r); err != nil {
		return "", false, errs.NewStore("create run record", err)
	}

	runCtx, cancel := context.WithCancel(context.Background())
	o.current = r
	o.cancel = cancel
	o.running = true
	o.done = make(chan struct{})

	go o.execute(runCtx, r.Clone())

	o.log.Info().Str("run_id", r.ID).Int("sellers", len(o.sellers)).Msg("Scrape run started")
	return r.ID, true, nil
}

// Status returns the current run's snapshot, falling back to the most
// recent persisted run when nothing ran in this process yet.
func (o *Orchestrator) Status(ctx context.Context) (*run.ScrapeRun, error) {
	o.mu.Lock()
	current := o.current.Clone()
	o.mu.Unlock()

	if current != nil {
		return current, nil
	}
	latest, err := o.store.Latest(ctx)
	if err != nil {
		return nil, errs.NewStore("load latest run", err)
	}
	return latest, nil
}

// Stop cancels the in-flight run. It returns false when no run is
// running. Cancellation is a clean stop: the run completes with the
// progress made so far.
func (o *Orchestrator) Stop() bool {
	o.mu.Lock()
	defer o.mu.Unlock()

	if !o.running {
		return false
	}
	o.log.Info().Str("run_id", o.current.ID).Msg("Stopping scrape run")
	o.cancel()
	return true
}

// Wait blocks until the in-flight run finishes. It returns immediately
// when no run is running.
func (o *Orchestrator) Wait() {
	o.mu.Lock()
	done := o.done
	running := o.running
	o.mu.Unlock()

	if running && done != nil {
		<-done
	}
}

type sellerResult struct {
	sellerID string
	seen     int
	saved    int
	err      error
}

// execute drives one run to completion. Seller failures are recorded
// on the run; only losing the ability to execute at all would fail it,
// so a finished run is Completed even when every seller errored.
func (o *Orchestrator) execute(ctx context.Context, r *run.ScrapeRun) {
	defer func() {
		o.mu.Lock()
		o.cancel()
		o.running = false
		close(o.done)
		o.mu.Unlock()
	}()

	jobs := make(chan seller.Seller)
	results := make(chan sellerResult)

	var wg sync.WaitGroup
	for i := 0; i < o.concurrent; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for s := range jobs {
				seen, saved, err := o.scrapeSeller(ctx, s)
				results <- sellerResult{sellerID: s.ID, seen: seen, saved: saved, err: err}
			}
		}()
	}

	go func() {
		defer close(jobs)
		for _, s := range o.sellers {
			select {
			case jobs <- s:
			case <-ctx.Done():
				return
			}
		}
	}()

	go func() {
		wg.Wait()
		close(results)
	}()

	// Single aggregator goroutine: workers never touch the run record.
	for res := range results {
		r.SellersDone++
		r.ProductsSeen += res.seen
		r.ProductsSaved += res.saved
		if res.err != nil {
			r.Errors = append(r.Errors, run.SellerError{
				SellerID: res.sellerID,
				Message:  res.err.Error(),
			})
			o.log.Warn().Err(res.err).Str("seller", res.sellerID).Msg("Seller scrape failed")
		}
		o.publish(r)
	}

	r.State = run.StateCompleted
	r.FinishedAt = time.Now().Unix()
	o.publish(r)

	o.log.Info().
		Str("run_id", r.ID).
		Int("sellers_done", r.SellersDone).
		Int("products_saved", r.ProductsSaved).
		Int("errors", len(r.Errors)).
		Msg("Scrape run finished")
}

// publish refreshes the in-memory snapshot and persists it. A failed
// persist only loses durability, not the run, so it is logged and
// dropped.
func (o *Orchestrator) publish(r *run.ScrapeRun) {
	o.mu.Lock()
	o.current = r.Clone()
	o.mu.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := o.store.Update(ctx, r); err != nil {
		o.log.Error().Err(err).Str("run_id", r.ID).Msg("Failed to persist run status")
	}
}

// scrapeSeller crawls one storefront, extracting and indexing listings
// in batches as they arrive. The first index failure is reported as the
// seller's error; already-indexed batches stay in the index.
func (o *Orchestrator) scrapeSeller(ctx context.Context, s seller.Seller) (seen, saved int, firstErr error) {
	c := o.factory(s)

	var batch []index.Product
	flush := func() {
		if len(batch) == 0 {
			return
		}
		for _, res := range o.upserter.UpsertBatch(ctx, batch) {
			if res.Err != nil {
				if firstErr == nil {
					firstErr = res.Err
				}
				continue
			}
			saved++
		}
		batch = batch[:0]
	}

	crawlErr := c.Crawl(ctx, func(l crawler.RawListing) {
		seen++
		batch = append(batch, o.assemble(s, l))
		if len(batch) >= upsertBatchSize {
			flush()
		}
	})
	flush()

	if firstErr == nil {
		firstErr = crawlErr
	}
	return seen, saved, firstErr
}

// assemble turns a raw listing into an index document. Listings with
// no purchase link of their own fall back to the seller's marketplace
// shop when one is registered.
func (o *Orchestrator) assemble(s seller.Seller, l crawler.RawListing) index.Product {
	fields := extract.Extract(l.Title, l.DetailHTML)
	if fields.PurchaseURL == "" && s.WeidianID != "" {
		fields.PurchaseURL = "https://weidian.com/?userid=" + s.WeidianID
		fields.PurchasePlatform = "weidian"
	}
	now := time.Now().Unix()

	return index.Product{
		ID:               index.ProductID(s.ID, l.SourcePageURL),
		SellerID:         s.ID,
		SellerName:       s.DisplayName,
		Title:            l.Title,
		Price:            fields.Price,
		Currency:         fields.Currency,
		Brand:            fields.Brand,
		Category:         fields.Category,
		ImageURL:         l.ImageURL,
		SourcePageURL:    l.SourcePageURL,
		PurchaseURL:      fields.PurchaseURL,
		PurchasePlatform: fields.PurchasePlatform,
		FirstSeenAt:      now,
		LastSeenAt:       now,
	}
}
