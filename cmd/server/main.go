package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/equityflow/order-engine/internal/adapter/cache"
	"github.com/equityflow/order-engine/internal/adapter/in_memory"
	"github.com/equityflow/order-engine/internal/adapter/pg"
	httpapi "github.com/equityflow/order-engine/internal/api/http"
	"github.com/equityflow/order-engine/internal/config"
	"github.com/equityflow/order-engine/internal/core"
	"github.com/equityflow/order-engine/internal/port"
	"github.com/equityflow/order-engine/internal/seed"
)

func main() {
	configPath := flag.String("config", "config.toml", "path to TOML config")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.Error("load config", slog.String("error", err.Error()))
		os.Exit(1)
	}

	logger := newLogger(cfg.LogLevel)
	ctx := context.Background()

	var (
		instruments port.InstrumentRepository
		orders      port.OrderRepository
		trades      port.TradeRepository
		holdings    port.PortfolioRepository
	)
	switch cfg.Store.Backend {
	case "postgres":
		pool, err := pg.NewPool(ctx, cfg.Store.PostgresDSN)
		if err != nil {
			logger.Error("connect postgres", slog.String("error", err.Error()))
			os.Exit(1)
		}
		defer pool.Close()
		instruments = pg.NewInstrumentStore(pool)
		orders = pg.NewOrderStore(pool)
		trades = pg.NewTradeStore(pool)
		holdings = pg.NewPortfolioStore(pool)
	default:
		instruments = in_memory.NewInstrumentRepo()
		orders = in_memory.NewOrderRepo()
		trades = in_memory.NewTradeRepo()
		holdings = in_memory.NewPortfolioRepo()
	}

	var portfolioCache port.PortfolioCache
	if cfg.Redis.Enabled {
		rc := cache.NewRedisCache(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB, cfg.RedisTTL())
		defer rc.Close()
		portfolioCache = rc
	}

	catalog := core.NewCatalog(instruments)
	ledger := core.NewLedger(holdings, catalog, logger)
	tradeLog := core.NewTradeLog(trades, logger)
	engine := core.NewEngine(catalog, ledger, tradeLog, orders, portfolioCache, logger)

	if cfg.User.Seed {
		if err := seed.Load(ctx, catalog, ledger, portfolioCache, cfg.User.DefaultID, logger); err != nil {
			logger.Error("seed data", slog.String("error", err.Error()))
			os.Exit(1)
		}
	}

	server := httpapi.NewHTTPServer(engine, catalog, logger, cfg.User.DefaultID, cfg.RateLimitInterval())

	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	logger.Info("starting HTTP server",
		slog.String("addr", addr),
		slog.String("store", cfg.Store.Backend),
		slog.Bool("redis", cfg.Redis.Enabled),
	)
	if err := server.Run(addr); err != nil {
		logger.Error("HTTP server failed", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

func newLogger(level string) *slog.Logger {
	var lvl slog.Level
	switch level {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}
	return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: lvl}))
}

