package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"storefront/internal/catalog"
	"storefront/internal/config"
	"storefront/internal/events"
	"storefront/internal/httpserver"
	"storefront/internal/logx"
	"storefront/internal/service/checkout"
	"storefront/internal/session"
	"storefront/internal/storage"
)

const sessionSweepInterval = time.Minute

func main() {
	_ = godotenv.Load()

	cfg, err := config.FromEnv()
	if err != nil {
		bootLogger := logx.New(logx.Development, "api")
		bootLogger.Fatal().Err(err).Msg("load config")
	}
	logger := logx.New(logx.ParseEnvironment(cfg.Environment), "api")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	products, err := loadCatalog(cfg.CatalogFile)
	if err != nil {
		logger.Fatal().Err(err).Msg("load catalog")
	}
	logger.Info().Int("products", products.Len()).Msg("catalog loaded")

	backend, err := storage.Open(ctx, cfg.Storage, logger)
	if err != nil {
		logger.Fatal().Err(err).Str("driver", cfg.Storage.Driver).Msg("open storage")
	}
	defer backend.Close()

	publisher, closePublisher := newPublisher(cfg.Kafka, logger)
	defer closePublisher()

	sessions := session.NewManager(backend, cfg.SessionIdleTTL, logger)
	srv, err := httpserver.New(cfg.HTTPAddr, logger, httpserver.Deps{
		Catalog:  products,
		Sessions: sessions,
		Checkout: checkout.New(publisher, logger),
		Storage:  backend,
	}, cfg.CORSOrigins)
	if err != nil {
		logger.Fatal().Err(err).Msg("init server")
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		return sessions.Run(gctx, sessionSweepInterval)
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info().Msg("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		logger.Error().Err(err).Msg("server stopped with error")
		return
	}
	logger.Info().Msg("server stopped")
}

func loadCatalog(path string) (*catalog.Store, error) {
	if path == "" {
		return catalog.Default()
	}
	return catalog.Load(path)
}

func newPublisher(cfg config.KafkaConfig, logger zerolog.Logger) (events.Publisher, func()) {
	if len(cfg.Brokers) == 0 {
		logger.Info().Msg("kafka brokers not configured, order events disabled")
		return events.Noop{}, func() {}
	}
	producer, err := events.NewKafkaProducer(cfg.Brokers)
	if err != nil {
		logger.Fatal().Err(err).Strs("brokers", cfg.Brokers).Msg("connect kafka")
	}
	publisher := events.NewKafkaPublisher(producer, cfg.Topic, logger)
	return publisher, func() {
		if err := publisher.Close(); err != nil {
			logger.Warn().Err(err).Msg("close kafka producer")
		}
	}
}
