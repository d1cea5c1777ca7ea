package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"repfinder/scrapeworker/config"
	"repfinder/scrapeworker/internal/api"
	"repfinder/scrapeworker/internal/crawler"
	"repfinder/scrapeworker/internal/index"
	"repfinder/scrapeworker/internal/orchestrator"
	"repfinder/scrapeworker/internal/run"
	"repfinder/scrapeworker/internal/seller"
	"repfinder/scrapeworker/logger"
	"repfinder/scrapeworker/services/cache"

	"github.com/joho/godotenv"
)

func main() {
	// Load environment variables
	godotenv.Load()

	// Initialize logger first
	logger.Init()
	log := logger.Default

	// Load and validate configuration
	cfg := config.LoadConfig()
	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("Invalid configuration")
	}

	// Load the seller registry
	sellers, err := seller.Load(cfg.SellersFile)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load seller registry")
	}
	active := seller.Active(sellers)
	if len(active) == 0 {
		log.Fatal().Msg("No enabled sellers in the registry")
	}

	log.Info().
		Str("environment", cfg.Environment).
		Int("sellers", len(active)).
		Dur("crawl_interval", cfg.CrawlInterval).
		Msg("Starting scrape worker")

	// Set up context with cancellation
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Set up signal handling
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	// Initialize services
	services, err := initializeServices(ctx, &cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize services")
	}
	defer services.Cleanup()

	orch := orchestrator.New(
		active,
		newCrawlerFactory(&cfg, services.Cache),
		services.Upserter,
		services.RunStore,
		cfg.ConcurrentSellers,
	)

	// Serve the control API
	server := api.NewServer(orch, len(active))
	serverDone := make(chan error, 1)
	go func() {
		serverDone <- server.ListenAndServe(ctx, cfg.HTTPAddr)
	}()

	// Kick off runs on a timer when configured
	if cfg.CrawlInterval > 0 {
		go runOnInterval(ctx, orch, cfg.CrawlInterval)
	}

	// Wait for shutdown signal or server error
	select {
	case sig := <-sigChan:
		log.Info().
			Str("signal", sig.String()).
			Msg("Received shutdown signal")
		cancel()
	case err := <-serverDone:
		if err != nil {
			log.Error().Err(err).Msg("API server exited with error")
		}
		cancel()
	}

	// Let the in-flight run wind down before closing stores
	orch.Stop()
	orch.Wait()
	log.Info().Msg("Shutting down gracefully...")
}

// runOnInterval starts a scrape run every interval. Overlapping runs
// are impossible: a tick during a live run is a no-op conflict.
func runOnInterval(ctx context.Context, orch *orchestrator.Orchestrator, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			runID, started, err := orch.StartRun(ctx)
			switch {
			case err != nil:
				logger.Error("Scheduled run failed to start: %v", err)
			case !started:
				logger.Debug("Scheduled run skipped, run %s still in progress", runID)
			default:
				logger.Info("Scheduled run %s started", runID)
			}
		}
	}
}

// newCrawlerFactory builds per-seller crawlers. Script-rendered
// storefronts get the headless browser fetcher when Chrome is enabled;
// everything else uses plain HTTP with the shared block cache.
func newCrawlerFactory(cfg *config.Config, cacheSvc cache.CacheService) orchestrator.CrawlerFactory {
	crawlCfg := crawler.Config{
		MaxPages:      cfg.MaxPagesPerSeller,
		FailThreshold: cfg.FailThreshold,
		FetchRetries:  cfg.FetchRetries,
		PageDelay:     cfg.PageDelay,
	}

	return func(s seller.Seller) orchestrator.Crawler {
		var fetcher crawler.Fetcher
		if s.RequiresJS && cfg.ChromeEnabled {
			fetcher = crawler.NewChromeFetcher(0)
		} else {
			fetcher = crawler.NewHTTPFetcher(s.ID, cacheSvc, cfg.BlockTime)
		}

		var detail crawler.DetailFetcher
		if cfg.FetchDetails {
			detail = crawler.NewAlbumDetailFetcher(0)
		}

		return crawler.NewStorefrontCrawler(s, fetcher, detail, crawlCfg)
	}
}

// Services holds all the initialized services
type Services struct {
	Cache    cache.CacheService
	Upserter *index.RedisUpserter
	RunStore *run.MySQLStore
}

// Cleanup cleans up all services
func (s *Services) Cleanup() {
	if s.Upserter != nil {
		s.Upserter.Close()
	}
	if s.RunStore != nil {
		s.RunStore.Close()
	}
}

// initializeServices initializes all required services
func initializeServices(ctx context.Context, cfg *config.Config) (*Services, error) {
	services := &Services{}

	// Block cache; "memory" keeps cool-down state in-process
	if cfg.MemcacheAddr == "" || cfg.MemcacheAddr == "memory" {
		services.Cache = cache.NewMemoryService()
		logger.Info("Using in-process block cache")
	} else {
		services.Cache = cache.NewMemcacheService(cfg.MemcacheAddr)
		logger.Info("Connected to Memcache at %s", cfg.MemcacheAddr)
	}

	// Product index
	upserter, err := index.NewRedisUpserter(ctx, cfg.RedisAddr, cfg.RedisDB)
	if err != nil {
		return nil, err
	}
	services.Upserter = upserter
	logger.Info("Connected to Redis at %s (DB: %d)", cfg.RedisAddr, cfg.RedisDB)

	// Run bookkeeping
	store, err := run.NewMySQLStore(ctx, cfg.MySQLDSN)
	if err != nil {
		services.Upserter.Close()
		return nil, err
	}
	services.RunStore = store
	logger.Info("Connected to MySQL run store")

	return services, nil
}
