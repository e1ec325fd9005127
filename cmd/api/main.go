package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/shoplist/api/internal/api"
	"github.com/shoplist/api/internal/api/handlers"
	"github.com/shoplist/api/internal/api/validators"
	"github.com/shoplist/api/internal/auth"
	"github.com/shoplist/api/internal/repository"
	"github.com/shoplist/api/internal/services"
	"github.com/shoplist/api/pkg/config"
	"github.com/shoplist/api/pkg/database"
	"github.com/shoplist/api/pkg/logger"
	"go.uber.org/zap"
)

func main() {
	// Load configuration
	cfg := config.MustLoad()

	// Initialize logger
	log, err := logger.Init(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	log.Info("Starting shopping list API",
		zap.String("env", cfg.AppEnv),
		zap.String("addr", cfg.HTTPAddr),
		zap.String("db_driver", cfg.DatabaseDriver),
	)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Connect to database
	db, err := database.Open(ctx, cfg.DatabaseDriver, cfg.DatabaseURL, database.Options{Verbose: cfg.IsDevelopment()})
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() { _ = database.Close(db) }()
	log.Info("Database connected successfully")

	if cfg.AutoMigrate {
		if err := repository.Migrate(db); err != nil {
			log.Fatal("migration failed", zap.Error(err))
		}
		log.Info("schema migrated")
	}

	// Initialize repositories
	userRepo := repository.NewUserRepository(db)
	itemRepo := repository.NewItemRepository(db)

	tokens := auth.NewTokenService([]byte(cfg.JWTSigningKey), cfg.JWTIssuer, cfg.JWTAudience)

	// Initialize services
	authSvc := services.NewAuthService(userRepo, tokens)
	itemSvc := services.NewItemService(itemRepo)
	importSvc := services.NewImportService(itemRepo)

	// Initialize handlers
	v := validators.New()
	router := api.NewRouter(ctx, api.Dependencies{
		Tokens:        tokens,
		AuthHandler:   handlers.NewAuthHandler(authSvc, v),
		ItemsHandler:  handlers.NewItemsHandler(itemSvc, v),
		UploadHandler: handlers.NewUploadHandler(importSvc, cfg.MaxUploadBytes),
		HealthHandler: handlers.NewHealthHandler(handlers.PingerFunc(func(ctx context.Context) error {
			return database.Ping(ctx, db)
		})),
		AllowedOrigins: cfg.AllowedOrigins(),
		RateLimitRPS:   cfg.RateLimitRPS,
		RateLimitBurst: cfg.RateLimitBurst,
		TrustProxy:     cfg.TrustProxy,
	})

	// Create HTTP server
	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       90 * time.Second,
	}

	// Start server in goroutine
	errCh := make(chan error, 1)
	go func() {
		log.Info("HTTP server starting", zap.String("addr", cfg.HTTPAddr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	// Graceful shutdown
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		log.Info("shutdown signal received", zap.String("signal", sig.String()))
	case err := <-errCh:
		log.Error("server error", zap.Error(err))
	}

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancelShutdown()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("server shutdown error", zap.Error(err))
	} else {
		log.Info("server exited gracefully")
	}
}
