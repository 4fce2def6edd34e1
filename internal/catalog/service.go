package catalog

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/zekrotja/hermans/internal/logger"
	"github.com/zekrotja/hermans/internal/model"
	"golang.org/x/sync/singleflight"
)

const DefaultScrapeInterval = 168 * time.Hour

type Scraper interface {
	ScrapeAll(ctx context.Context) (*model.ShopData, error)
}

// Cache holds the last scraped snapshot. Load returns nil, nil when empty.
type Cache interface {
	Load(ctx context.Context) (*model.ShopData, error)
	Store(ctx context.Context, data *model.ShopData) error
}

type Service struct {
	Scraper Scraper
	Cache   Cache
	Log     *slog.Logger

	group singleflight.Group
}

// Get serves the cached catalog, scraping once when nothing is cached yet.
// The result always starts with the surprise category.
func (s *Service) Get(ctx context.Context) (*model.ShopData, error) {
	data, err := s.Cache.Load(ctx)
	if err != nil {
		s.Log.Warn("catalog cache load failed, scraping", logger.Err(err))
		data = nil
	}
	if data == nil {
		data, err = s.Refresh(ctx)
		if err != nil {
			return nil, err
		}
	}
	return WithSurprise(data), nil
}

// Refresh scrapes the shop and replaces the cached snapshot. Concurrent
// callers share one scrape.
func (s *Service) Refresh(ctx context.Context) (*model.ShopData, error) {
	v, err, _ := s.group.Do("scrape", func() (any, error) {
		start := time.Now()
		data, err := s.Scraper.ScrapeAll(ctx)
		if err != nil {
			return nil, fmt.Errorf("scrape shop: %w", err)
		}
		if err := s.Cache.Store(ctx, data); err != nil {
			return nil, fmt.Errorf("store catalog: %w", err)
		}
		s.Log.Info("catalog refreshed",
			slog.Int("categories", len(data.Categories)),
			slog.Int("drinks", len(data.Drinks)),
			slog.Duration("took", time.Since(start)))
		return data, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*model.ShopData), nil
}

// RunScheduler refreshes the catalog every interval until ctx is done.
func (s *Service) RunScheduler(ctx context.Context, interval string) {
	d, err := time.ParseDuration(interval)
	if err != nil || d <= 0 {
		s.Log.Error("invalid scrape interval, falling back",
			slog.String("interval", interval), slog.Duration("fallback", DefaultScrapeInterval))
		d = DefaultScrapeInterval
	}
	ticker := time.NewTicker(d)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.Log.Info("scheduled scrape starting")
			if _, err := s.Refresh(ctx); err != nil {
				s.Log.Error("scheduled scrape failed", logger.Err(err))
			}
		}
	}
}
