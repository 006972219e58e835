package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/KotFed0t/portfolio_tracker/config"
	"github.com/KotFed0t/portfolio_tracker/data"
	"github.com/KotFed0t/portfolio_tracker/data/cache"
	"github.com/KotFed0t/portfolio_tracker/data/repository/mongo"
	"github.com/KotFed0t/portfolio_tracker/data/repository/postgres"
	"github.com/KotFed0t/portfolio_tracker/internal/externalApi/alphaVantageApi"
	"github.com/KotFed0t/portfolio_tracker/internal/externalApi/screenerApi"
	"github.com/KotFed0t/portfolio_tracker/internal/httpServer"
	"github.com/KotFed0t/portfolio_tracker/internal/marketClock"
	"github.com/KotFed0t/portfolio_tracker/internal/portfolioLock"
	"github.com/KotFed0t/portfolio_tracker/internal/reportGenerator/xlsxGenerator"
	"github.com/KotFed0t/portfolio_tracker/internal/scheduler"
	"github.com/KotFed0t/portfolio_tracker/internal/service/portfolioService"
	"github.com/KotFed0t/portfolio_tracker/internal/service/priceService"
	"github.com/KotFed0t/portfolio_tracker/internal/service/refreshService"
	"github.com/KotFed0t/portfolio_tracker/internal/transport/rest"
	"github.com/jonboulle/clockwork"
)

const shutdownTimeout = 10 * time.Second

type storage interface {
	portfolioService.Repository
	refreshService.Repository
}

func main() {
	cfg := config.MustLoad()

	setupLogger(cfg)

	if err := cfg.Validate(); err != nil {
		slog.Error("invalid config", slog.String("err", err.Error()))
		os.Exit(1)
	}

	slog.Debug("config", slog.String("storage", cfg.StorageDriver), slog.String("cache", cfg.CacheBackend), slog.String("priceSource", cfg.API.PriceSource))

	realClock := clockwork.NewRealClock()
	clock := marketClock.New(realClock)

	var repo storage
	switch cfg.StorageDriver {
	case config.StorageDriverMongo:
		mongoClient := data.NewMongoClient(cfg)
		defer data.DisconnectMongo(mongoClient, cfg)
		repo = mongo.New(mongoClient.Database(cfg.Mongo.DbName))
	default:
		pgClient := data.NewPostgresClient(cfg)
		defer pgClient.Close()
		repo = postgres.New(pgClient)
	}

	var priceCache priceService.Cache
	switch cfg.CacheBackend {
	case config.CacheBackendRedis:
		redisClient := data.NewRedisClient(cfg)
		defer redisClient.Close()
		priceCache = cache.NewRedisCache(redisClient, realClock)
	default:
		priceCache = cache.NewMemoryCache(realClock)
	}

	var lookup priceService.PriceLookup
	switch cfg.API.PriceSource {
	case config.PriceSourceAlphaVantage:
		lookup = alphaVantageApi.New(cfg)
	default:
		lookup = screenerApi.New(cfg)
	}

	locks := portfolioLock.New()
	priceSrv := priceService.New(priceCache, lookup, clock)
	refreshSrv := refreshService.New(repo, priceSrv, locks, clock, cfg.Jobs.SweepFailureCooldown)
	portfolioSrv := portfolioService.New(repo, priceSrv, xlsxGenerator.New(), locks, clock)

	sched := scheduler.New()
	if err := cfg.ValidatePriceSource(); err != nil {
		// без источника цен обновление не запускаем, сохраненные портфели остаются доступны
		slog.Error("price refresh disabled", slog.String("err", err.Error()))
	} else if err := sched.NewCronJob("refresh prices", refreshSrv.Job, cfg.Jobs.SweepCron, true); err != nil {
		slog.Error("can't schedule price refresh", slog.String("err", err.Error()))
		os.Exit(1)
	}
	sched.Start()
	defer sched.Stop()

	server := httpServer.New(cfg, rest.NewController(portfolioSrv))
	server.Start()
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		server.Stop(ctx)
	}()

	// Waiting interruption signal
	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, os.Interrupt, syscall.SIGTERM, syscall.SIGINT)
	<-interrupt
}

func setupLogger(cfg *config.Config) {
	var logLevel slog.Level

	switch cfg.LogLevel {
	case "debug":
		logLevel = slog.LevelDebug
	case "info":
		logLevel = slog.LevelInfo
	case "warning":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	default:
		logLevel = slog.LevelInfo
	}

	log := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: logLevel}))
	slog.SetDefault(log)
}
