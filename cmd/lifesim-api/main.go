package main

import (
	"context"
	"log/slog"
	"math/rand"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"lifesim/internal/api"
	"lifesim/internal/auth"
	"lifesim/internal/config"
	"lifesim/internal/db"
	"lifesim/internal/game"
	"lifesim/internal/store"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.LoadAPIFromEnv()
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
	gameSvc := game.NewService(st, market, logger)
	if err := gameSvc.AdoptStoredPrices(ctx); err != nil {
		logger.Error("adopt stored prices failed", "err", err)
		os.Exit(1)
	}

	authSvc := auth.NewService(st, cfg.JWTSecret, cfg.TokenTTL)

	server := api.New(cfg, logger, authSvc, gameSvc)
	httpServer := &http.Server{
		Addr:              cfg.Addr,
		Handler:           server.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		_ = httpServer.Shutdown(shutdownCtx)
	}()

	logger.Info("lifesim api listening", "addr", cfg.Addr, "store", cfg.StoreMode)
	if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error("server failed", "err", err)
		os.Exit(1)
	}
}
