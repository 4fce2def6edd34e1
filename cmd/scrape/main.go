// Command scrape fetches the shop once and replaces the cached catalog.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/zekrotja/hermans/internal/catalog"
	"github.com/zekrotja/hermans/internal/config"
	"github.com/zekrotja/hermans/internal/logger"
	"github.com/zekrotja/hermans/internal/model"
	"github.com/zekrotja/hermans/internal/redisx"
	"github.com/zekrotja/hermans/internal/scraper"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()
	log := logger.New(cfg.ServiceName+"-scrape", cfg.LogLevel)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	rdb := redisx.New(cfg.RedisAddr)
	defer rdb.Close()

	svc := &catalog.Service{
		Scraper: scraper.New(cfg.ShopURL),
		Cache:   &redisx.CatalogCache{Redis: rdb},
		Log:     log,
	}
	data, err := svc.Refresh(ctx)
	if err != nil {
		log.Error("scrape failed", logger.Err(err))
		os.Exit(1)
	}
	writeSummary(os.Stdout, data)
}

func writeSummary(w io.Writer, data *model.ShopData) {
	for _, c := range data.Categories {
		fmt.Fprintf(w, "%-30s %3d items\n", c.Name, len(c.Items))
	}
	fmt.Fprintf(w, "%-30s %3d items\n", "drinks", len(data.Drinks))
}
