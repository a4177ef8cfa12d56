package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"ar-dashboard/internal/clients"
	"ar-dashboard/internal/config"
	"ar-dashboard/internal/demo"
	"ar-dashboard/internal/migrations"
	"ar-dashboard/internal/repository"
	"ar-dashboard/internal/service"
	"ar-dashboard/internal/transport/auth"
	"ar-dashboard/internal/transport/rest"
	"ar-dashboard/internal/transport/websocket"
	"ar-dashboard/pkg/database/postgres"
	"ar-dashboard/pkg/logger"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func main() {
	envErr := godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.NewLogger(cfg.App.LogMode, cfg.App.LogLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()
	zap.ReplaceGlobals(log)

	if envErr != nil {
		log.Debug("no .env file found, using system env or defaults")
	}

	loc, err := cfg.Location()
	if err != nil {
		log.Fatal("timezone", zap.Error(err))
	}

	// top-level context which we can cancel on shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	db := initBackend(ctx, cfg.Backend, log)
	defer func() { _ = postgres.Close(db) }()

	redisClient := initRedis(ctx, cfg.Redis, log)
	defer redisClient.Close()

	storageClient, err := clients.NewLocalStorage(cfg.Storage.Dir, cfg.Storage.PublicPrefix, cfg.Storage.ExternalURL)
	if err != nil {
		log.Fatal("storage init", zap.Error(err))
	}
	files := initFileStore(ctx, cfg.S3, storageClient, log)

	wsHub := websocket.NewHub(log)
	go wsHub.Run(ctx)
	wsClient := clients.NewWebSocketClient(wsHub)

	// a nil *repository.Store must not reach the selector as a non-nil interface
	var live service.LiveStore
	if db != nil {
		live = repository.NewStore(db)
	}
	selector := service.NewSourceSelector(live, demo.NewStore(), cfg.Backend.Missing(), cfg.Backend.ProbeTimeout, log)

	dashboardSvc := service.NewDashboardService(selector, loc, log)
	recordSvc := service.NewRecordService(selector, dashboardSvc, log)
	exportSvc := service.NewExportService(dashboardSvc, redisClient, files, wsClient, cfg.Export.TTL, log)

	keys := auth.NewKeyStore(cfg.App.APIKeys)
	if !keys.Enabled() {
		log.Warn("no API keys configured, every request runs as operator " + auth.LocalOperator)
	}

	handler := rest.NewHandler(
		dashboardSvc,
		recordSvc,
		exportSvc,
		exportSvc,
		storageClient,
		wsHub,
		rest.Options{RequestTimeout: cfg.App.RequestTimeout, RateLimit: cfg.App.RateLimit},
		log,
	)
	router := handler.InitRouterWithAuth(auth.APIKeyMiddleware(keys, log))

	srv := &http.Server{
		Addr:         ":" + cfg.App.Port,
		Handler:      rest.WithCORS(router, cfg.App.CORSOrigins),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: cfg.App.RequestTimeout + 5*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Run HTTP server in goroutine so we can listen for shutdown signals
	srvErr := make(chan error, 1)
	go func() {
		log.Info("HTTP server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			srvErr <- err
			return
		}
		srvErr <- nil
	}()

	go runCleaner(ctx, storageClient, cfg.Export, log)

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-srvErr:
		if err != nil {
			log.Fatal("HTTP server error", zap.Error(err))
		}
	case sig := <-stop:
		log.Info("shutdown signal received", zap.String("signal", sig.String()))

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Error("HTTP server shutdown", zap.Error(err))
		}

		// stops the websocket hub and the cleaner
		cancel()

		log.Info("shutdown complete")
	}
}

// initBackend opens the pool without dialing; reachability is the selector's
// concern. Nil means the backend settings are missing.
func initBackend(ctx context.Context, cfg config.BackendConfig, log *zap.Logger) *sql.DB {
	if !cfg.Configured() {
		log.Warn("backend not configured, serving demo data", zap.Strings("missing_settings", cfg.Missing()))
		return nil
	}

	db, err := postgres.OpenDB(postgres.ConnectionInfo{
		URL:             cfg.URL,
		AccessKey:       cfg.AccessKey,
		MaxOpenConns:    cfg.MaxOpenConns,
		MaxIdleConns:    cfg.MaxIdleConns,
		ConnMaxLifetime: cfg.ConnMaxLifetime,
		ConnectTimeout:  cfg.ProbeTimeout,
	})
	if err != nil {
		log.Error("backend settings invalid, serving demo data", zap.Error(err))
		return nil
	}

	if cfg.AutoMigrate {
		pingCtx, cancel := context.WithTimeout(ctx, cfg.ProbeTimeout)
		defer cancel()

		if err := postgres.Ping(pingCtx, db); err != nil {
			log.Error("skip migrations, backend unreachable", zap.Error(err))
		} else if err := migrations.RunMigrations(db, log.Named("migrations")); err != nil {
			log.Error("migrations failed", zap.Error(err))
		}
	}

	return db
}

func initRedis(ctx context.Context, cfg config.RedisConfig, log *zap.Logger) *clients.RedisClient {
	if !cfg.Enabled {
		log.Info("redis disabled, export tracking unavailable")
		return nil
	}

	client, err := clients.NewRedisClient(ctx, clients.RedisConfig{
		Addr:        cfg.Addr,
		Password:    cfg.Password,
		DB:          cfg.DB,
		MaxRetries:  cfg.MaxRetries,
		DialTimeout: cfg.DialTimeout,
		Timeout:     cfg.Timeout,
		Prefix:      cfg.Prefix,
	})
	if err != nil {
		log.Warn("redis unavailable, export tracking disabled", zap.String("addr", cfg.Addr), zap.Error(err))
		return nil
	}
	return client
}

func initFileStore(ctx context.Context, cfg config.S3Config, local *clients.StorageClient, log *zap.Logger) service.FileStore {
	if !cfg.Enabled {
		return local
	}

	s3, err := clients.NewS3Client(clients.S3Config{
		Endpoint:        cfg.Endpoint,
		AccessKeyID:     cfg.AccessKey,
		SecretAccessKey: cfg.SecretKey,
		Bucket:          cfg.Bucket,
		UseSSL:          cfg.UseSSL,
		Region:          cfg.Region,
		Prefix:          cfg.Prefix,
		URLExpiry:       cfg.URLExpiry,
	})
	if err != nil {
		log.Error("s3 init failed, keeping exports on local disk", zap.Error(err))
		return local
	}

	bucketCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := s3.EnsureBucket(bucketCtx, cfg.Region); err != nil {
		log.Error("s3 bucket unavailable, keeping exports on local disk", zap.String("bucket", cfg.Bucket), zap.Error(err))
		return local
	}

	log.Info("exports stored in s3", zap.String("endpoint", cfg.Endpoint), zap.String("bucket", cfg.Bucket))
	return s3
}

// runCleaner deletes local export files past their retention.
func runCleaner(ctx context.Context, storage *clients.StorageClient, cfg config.ExportConfig, log *zap.Logger) {
	interval := cfg.CleanInterval
	if interval <= 0 {
		interval = 5 * time.Minute
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n, err := storage.CleanupOlderThan(cfg.FileRetention)
			if err != nil {
				log.Warn("storage cleanup", zap.Error(err))
				continue
			}
			if n > 0 {
				log.Info("removed expired exports", zap.Int("files", n))
			}
		}
	}
}
