package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/ferialibre/catalog-service/internal/adapter/httpapi"
	"github.com/ferialibre/catalog-service/internal/adapter/messaging/nats"
	"github.com/ferialibre/catalog-service/internal/adapter/repository/cache"
	"github.com/ferialibre/catalog-service/internal/adapter/repository/mongodb"
	"github.com/ferialibre/catalog-service/internal/adapter/storage/s3"
	"github.com/ferialibre/catalog-service/internal/catalog/domain"
	"github.com/ferialibre/catalog-service/internal/catalog/usecase"
	"github.com/ferialibre/catalog-service/internal/config"
	"github.com/ferialibre/catalog-service/internal/mailer"
	"github.com/ferialibre/catalog-service/internal/platform/logger"
	"github.com/ferialibre/catalog-service/internal/platform/metrics"
	"github.com/ferialibre/catalog-service/internal/platform/tracer"
)

func main() {
	log := logger.NewLogger()
	defer log.Sync()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("failed to load config", "error", err.Error())
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	tp, err := tracer.InitTracer(ctx, cfg.OTELEndpoint)
	if err != nil {
		log.Warn("tracing disabled", "error", err.Error())
	} else {
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := tp.Shutdown(shutdownCtx); err != nil {
				log.Warn("tracer shutdown failed", "error", err.Error())
			}
		}()
	}

	mongoClient, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		log.Fatal("failed to connect to MongoDB", "error", err.Error())
	}
	defer mongoClient.Disconnect(context.Background())
	db := mongoClient.Database(cfg.MongoDatabase)

	store := mongodb.NewListingRepository(db, log)
	if err := store.EnsureIndexes(ctx); err != nil {
		log.Fatal("failed to ensure indexes", "error", err.Error())
	}

	listingCache, err := cache.NewListingCache(cfg.RedisAddress)
	if err != nil {
		log.Fatal("failed to connect to Redis", "error", err.Error())
	}
	defer listingCache.Close()

	publisher, err := nats.NewPublisher(cfg.NATSURL)
	if err != nil {
		log.Fatal("failed to connect to NATS", "error", err.Error())
	}
	defer publisher.Close()

	images, err := s3.NewS3Storage(cfg.MinIOEndpoint, cfg.MinIOAccessKey, cfg.MinIOSecretKey,
		cfg.MinIOBucket, cfg.MinIOUseSSL, log)
	if err != nil {
		log.Fatal("failed to initialize image storage", "error", err.Error())
	}

	notifier := mailer.New(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPEmail, cfg.SMTPPassword, log)

	uc := usecase.NewCatalogUsecase(store, listingCache, publisher, images, notifier,
		domain.DefaultFamilies(), log)

	handler := httpapi.NewCatalogHandler(uc, log)
	router := httpapi.NewRouter(handler, cfg.JWTSecret, log)

	go func() {
		log.Info("metrics server listening", "port", cfg.MetricsPort)
		if err := metrics.StartMetricsServer(":" + cfg.MetricsPort); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("metrics server stopped", "error", err.Error())
		}
	}()

	srv := &http.Server{
		Addr:    ":" + cfg.HTTPPort,
		Handler: router,
	}

	go func() {
		log.Info("catalog API listening", "port", cfg.HTTPPort)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("server stopped unexpectedly", "error", err.Error())
		}
	}()

	<-ctx.Done()
	log.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("graceful shutdown failed", "error", err.Error())
	}
}
