package main

import (
	"context"
	"errors"
	"io"
	"io/fs"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ignatzorin/projexnest-backend/internal/app"
	"github.com/ignatzorin/projexnest-backend/internal/config"
	"github.com/ignatzorin/projexnest-backend/internal/db"
	httpHandlers "github.com/ignatzorin/projexnest-backend/internal/http/handlers"
	"github.com/ignatzorin/projexnest-backend/internal/http/middleware"
	httpRouter "github.com/ignatzorin/projexnest-backend/internal/http/router"
	"github.com/ignatzorin/projexnest-backend/internal/logger"
	"github.com/ignatzorin/projexnest-backend/internal/service"
	"github.com/ignatzorin/projexnest-backend/internal/storage"
	"github.com/ignatzorin/projexnest-backend/internal/worker"
	"github.com/ignatzorin/projexnest-backend/internal/ws"
	"github.com/ignatzorin/projexnest-backend/migrations"
)

func main() {
	// Готовим контекст для graceful shutdown.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("main: ошибка загрузки конфигурации: %v", err)
	}
	logger.Init(cfg.LogLevel, cfg.IsDevelopment())
	appLog := logger.Component("main")

	// Подключение к базе и миграции.
	pool := db.DefaultPoolOptions
	pool.MaxOpenConns = cfg.DBMaxOpenConns
	pool.MaxIdleConns = cfg.DBMaxIdleConns
	dbConn, err := db.NewPostgres(ctx, cfg.DatabaseURL, pool)
	if err != nil {
		appLog.WithError(err).Fatal("ошибка подключения к базе")
	}
	defer safeClose(dbConn)

	var migrationFS fs.FS = migrations.Files
	if cfg.MigrationsPath != "" {
		migrationFS = os.DirFS(cfg.MigrationsPath)
	}
	applied, err := db.RunMigrations(ctx, dbConn, migrationFS)
	if err != nil {
		appLog.WithError(err).Fatal("ошибка миграций")
	}
	appLog.WithField("applied", applied).Info("миграции применены")

	// WebSocket hub для событий организаций.
	hub := ws.NewHub(ctx)
	go hub.Run()

	opts := app.Options{Events: hub}
	if cfg.Storage.Enabled() {
		artifacts, err := storage.NewArtifactStorage(storage.Options{
			Endpoint:     cfg.Storage.Endpoint,
			AccessKey:    cfg.Storage.AccessKey,
			SecretKey:    cfg.Storage.SecretKey,
			UseSSL:       cfg.Storage.UseSSL,
			Bucket:       cfg.Storage.Bucket,
			Region:       cfg.Storage.Region,
			PresignedTTL: cfg.Storage.PresignedTTL,
		})
		if err != nil {
			appLog.WithError(err).Fatal("не удалось подготовить хранилище PDF")
		}
		if err := artifacts.EnsureBucket(ctx); err != nil {
			appLog.WithError(err).Fatal("не удалось создать бакет для PDF")
		}
		opts.Artifacts = artifacts
	} else {
		appLog.Warn("S3 не настроен, архивирование PDF отключено")
	}

	container := app.NewContainer(cfg, dbConn, opts)
	tokenManager := service.NewTokenManager(cfg.JWTSecret, time.Hour)

	rateStore, closeRateStore, err := middleware.NewRateLimitStore(ctx, cfg.RedisURL)
	if err != nil {
		appLog.WithError(err).Fatal("не удалось подготовить хранилище лимитов")
	}
	defer safeClose(closerFunc(closeRateStore))

	deps := httpRouter.Dependencies{
		Tokens:         tokenManager,
		RateLimitStore: rateStore,
		Organizations:  container.OrganizationHandler(),
		Proposals:      container.ProposalHandler(),
		Signing:        container.SigningHandler(),
		Health:         httpHandlers.NewHealthHandler(dbConn),
		WS:             httpHandlers.NewWSHandler(hub, tokenManager, container.Guard, cfg.AllowedOrigins),
	}
	if cfg.IsDevelopment() {
		deps.Seed = httpHandlers.NewSeedHandler(container.Seeder(0))
	}

	// Фоновое закрытие просроченных ссылок.
	expirerDone := worker.NewSessionExpirer(container.ExpireSessions, cfg.SessionSweepInterval, cfg.StoreTimeout).Start(ctx)

	server := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           httpRouter.SetupRouter(cfg, deps),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		appLog.WithField("port", cfg.HTTPPort).Info("HTTP сервер запущен")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			appLog.WithError(err).Fatal("ошибка HTTP сервера")
		}
	}()

	<-ctx.Done()
	appLog.Info("получен сигнал остановки")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		appLog.WithError(err).Error("ошибка остановки сервера")
	}
	<-expirerDone
}

type closerFunc func() error

func (f closerFunc) Close() error {
	if f == nil {
		return nil
	}
	return f()
}

func safeClose(c io.Closer) {
	if err := c.Close(); err != nil {
		logger.Component("main").WithError(err).Warn("ошибка при закрытии ресурса")
	}
}
