package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/zekrotja/hermans/internal/catalog"
	"github.com/zekrotja/hermans/internal/config"
	"github.com/zekrotja/hermans/internal/httpx"
	kafkax "github.com/zekrotja/hermans/internal/kafka"
	"github.com/zekrotja/hermans/internal/logger"
	"github.com/zekrotja/hermans/internal/orders"
	"github.com/zekrotja/hermans/internal/postgres"
	"github.com/zekrotja/hermans/internal/redisx"
	"github.com/zekrotja/hermans/internal/scraper"
)

func main() {
	_ = godotenv.Load()

	cfg := config.Load()
	log := logger.New(cfg.ServiceName, cfg.LogLevel)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Storage
	var store orders.Store
	switch cfg.StoreDriver {
	case "memory":
		log.Warn("using in-memory store, data is lost on restart")
		store = orders.NewMemStore()
	default:
		db, err := postgres.Connect(ctx, cfg.PostgresDSN, cfg.ServiceName)
		if err != nil {
			log.Error("db connect failed", logger.Err(err))
			os.Exit(1)
		}
		defer db.Close()
		if err := postgres.Migrate(ctx, db, log); err != nil {
			log.Error("db migration failed", logger.Err(err))
			os.Exit(1)
		}
		store = &orders.Repo{DB: db}
	}

	// Redis
	rdb := redisx.New(cfg.RedisAddr)
	defer rdb.Close()

	// Kafka producer
	prod := kafkax.NewProducer(cfg.KafkaBrokers, 1024, log)
	prod.Start(ctx)

	// Catalog
	cat := &catalog.Service{
		Scraper: scraper.New(cfg.ShopURL),
		Cache:   &redisx.CatalogCache{Redis: rdb},
		Log:     log.With(slog.String("component", "catalog")),
	}
	go cat.RunScheduler(ctx, cfg.ScrapeInterval)

	// Service & handler
	svc := &orders.Service{
		Store:       store,
		Catalog:     cat,
		Cache:       &redisx.ListCache{Redis: rdb, TTL: cfg.ListCacheTTL},
		Events:      prod,
		Log:         log,
		ServiceName: cfg.ServiceName,
	}
	router := httpx.NewRouter(log)
	oh := &httpx.OrdersHandler{
		Service:  svc,
		Catalog:  cat,
		Activity: &redisx.ActivityStore{Redis: rdb},
		Log:      log,
	}
	oh.Register(router)
	httpx.MountWebapp(router, cfg.WebappDir)

	// HTTP server
	srv := &http.Server{Addr: cfg.HTTPAddr, Handler: router, ReadHeaderTimeout: 10 * time.Second}

	// graceful shutdown
	go func() {
		log.Info("http listening", slog.String("addr", cfg.HTTPAddr), slog.String("store", cfg.StoreDriver))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("listen failed", logger.Err(err))
			os.Exit(1)
		}
	}()

	// wait signal
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig
	log.Info("shutting down")

	ctx2, cancel2 := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel2()
	if err := srv.Shutdown(ctx2); err != nil {
		// handlers still running publish into a closed producer and get dropped
		log.Error("http shutdown incomplete", logger.Err(err))
	}
	prod.Close()      // close inbox, flush and close writer
	cancel()          // stop scheduler and producer loop
	prod.WaitClosed() // drain
}
