package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	appmarket "main/internal/application/service/market"
	appportfolio "main/internal/application/service/portfolio"
	"main/internal/config"
	"main/internal/domain/interfaces"
	"main/internal/engine"
	"main/internal/infrastructure/broker"
	"main/internal/infrastructure/ledger"
	"main/internal/infrastructure/metrics"
	"main/internal/infrastructure/quotes"
	infrahttp "main/internal/interfaces/http"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	_ = godotenv.Load()

	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})

	cfg, err := config.Load()
	if err != nil {
		logger.Fatalf("failed to load config: %v", err)
	}

	ledgerRepo, err := ledger.NewRepository(ctx, cfg.Postgres.DSN)
	if err != nil {
		logger.Fatalf("failed to init ledger repo: %v", err)
	}
	defer ledgerRepo.Close()

	var redisClient *redis.Client
	if cfg.Redis.Addr != "" {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err := redisClient.Ping(ctx).Err(); err != nil {
			logger.Fatalf("failed to connect to redis: %v", err)
		}
		defer redisClient.Close()
	}

	eng := engine.New(engine.Options{
		PublishInterval: cfg.Scheduler.PublishInterval,
		Logger:          logger,
	})

	providers := []interfaces.QuoteProvider{
		quotes.NewAerodromeProvider(),
		quotes.NewJupiterProvider(cfg.Market.JupiterURL, cfg.Market.QuoteTimeout),
	}

	marketService := appmarket.NewService(ledgerRepo, providers, nil, logger)
	portfolioService := appportfolio.NewService(ledgerRepo, eng, logger)

	if cfg.Broker.Enabled() {
		publisher, err := broker.NewPublisher(cfg.Broker, logger)
		if err != nil {
			logger.Fatalf("failed to init tick publisher: %v", err)
		}
		defer publisher.Close()

		eng.Subscribe(func() {
			if err := publisher.PublishTicks(ctx, eng.Commodities()); err != nil {
				logger.WithError(err).Warn("tick publish failed")
			} else {
				metrics.TicksPublished.Add(float64(len(eng.Commodities())))
			}
		})
	}
	eng.Subscribe(func() {
		metrics.RefreshPasses.Inc()
		for _, record := range eng.Oracles() {
			metrics.OraclePublishes.WithLabelValues(record.Network).Inc()
		}
	})

	scheduler := engine.NewScheduler(eng, cfg.Scheduler.RefreshInterval, logger)
	scheduler.Start(ctx)
	defer scheduler.Stop()

	cacheTTL := time.Duration(cfg.Cache.TTLSeconds) * time.Second
	handler := infrahttp.NewHandler(eng, scheduler, marketService, portfolioService, redisClient, cacheTTL)

	server := &http.Server{
		Addr:    cfg.HTTP.Addr(),
		Handler: handler,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Infof("HTTP server listening on %s", cfg.HTTP.Addr())
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down server")

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		return server.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		logger.Fatalf("server stopped with error: %v", err)
	}
	logger.Info("server stopped")
}
