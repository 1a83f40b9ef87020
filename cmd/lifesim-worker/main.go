package main

import (
	"context"
	"log/slog"
	"math/rand"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"lifesim/internal/config"
	"lifesim/internal/db"
	"lifesim/internal/game"
	"lifesim/internal/store"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.LoadWorkerFromEnv()
	if err != nil {
		slog.Error("load config", "err", err)
		os.Exit(1)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))

	var st store.Store
	if cfg.StoreMode == "memory" {
		st = store.NewMemory()
	} else {
		pool, err := db.Connect(ctx, cfg.DatabaseURL)
		if err != nil {
			logger.Error("db connect failed", "err", err)
			os.Exit(1)
		}
		defer pool.Close()
		pg, err := store.NewPostgres(ctx, pool)
		if err != nil {
			logger.Error("db migrate failed", "err", err)
			os.Exit(1)
		}
		st = pg
	}

	var rng *rand.Rand
	if cfg.MarketSeed != 0 {
		rng = rand.New(rand.NewSource(cfg.MarketSeed))
	}
	market := game.NewPriceBook(rng)
	svc := game.NewService(st, market, logger)
	if err := svc.AdoptStoredPrices(ctx); err != nil {
		logger.Error("adopt stored prices failed", "err", err)
		os.Exit(1)
	}

	runOnce := strings.EqualFold(strings.TrimSpace(os.Getenv("LIFESIM_WORKER_RUN_ONCE")), "true")
	if runOnce {
		if _, _, err := svc.MarketTick(ctx); err != nil {
			logger.Error("tick failed", "err", err)
			os.Exit(1)
		}
		logger.Info("worker run-once completed")
		return
	}

	ticker := time.NewTicker(cfg.MarketTickEvery)
	defer ticker.Stop()

	logger.Info("worker started", "tick_every", cfg.MarketTickEvery.String())
	for {
		select {
		case <-ctx.Done():
			logger.Info("worker shutdown")
			return
		case <-ticker.C:
			quotes, news, err := svc.MarketTick(ctx)
			if err != nil {
				logger.Error("market tick failed", "err", err)
				continue
			}
			if news != nil {
				logger.Info("market tick complete", "quotes", len(quotes), "news", news.Headline)
			} else {
				logger.Info("market tick complete", "quotes", len(quotes))
			}
		}
	}
}
