package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"lensfolio/api/analytics"
	"lensfolio/api/auth"
	"lensfolio/api/config"
	"lensfolio/api/database"
	"lensfolio/api/handlers"
	"lensfolio/api/logger"
	"lensfolio/api/ratelimit"
	"lensfolio/api/store"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(fmt.Sprintf("Failed to load config: %v", err))
	}

	log, err := logger.New(cfg.Environment)
	if err != nil {
		panic(fmt.Sprintf("Failed to initialize logger: %v", err))
	}
	defer func() { _ = log.Sync() }()

	if cfg.GinMode == gin.ReleaseMode || cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx := context.Background()

	// --- Sessions live in PostgreSQL ---
	dbClient, err := database.NewPostgresDB(ctx, cfg.DatabaseURL, log)
	if err != nil {
		log.Fatal("Failed to initialize PostgreSQL database", zap.Error(err))
	}
	defer dbClient.Close()

	// --- Events live in ClickHouse ---
	chClient, err := database.NewClickHouseDB(ctx, cfg.ClickHouse, log)
	if err != nil {
		log.Fatal("Failed to initialize ClickHouse database", zap.Error(err))
	}
	defer chClient.Close()

	analyticsStore := store.NewAnalyticsStore(chClient, log)
	sessionStore := store.NewSessionStore(dbClient.DB)
	if err := analyticsStore.Migrate(ctx); err != nil {
		log.Fatal("Failed to migrate event store", zap.Error(err))
	}
	if err := sessionStore.Migrate(ctx); err != nil {
		log.Fatal("Failed to migrate session store", zap.Error(err))
	}

	var limiter ratelimit.Limiter = ratelimit.NewMemoryLimiter()
	if cfg.RedisURL != "" {
		rdb, err := database.NewRedis(ctx, cfg.RedisURL)
		if err != nil {
			log.Fatal("Failed to connect to Redis", zap.Error(err))
		}
		defer rdb.Close()
		limiter = ratelimit.NewRedisLimiter(rdb, log)
		log.Info("Rate limits shared through Redis")
	}

	verifier, err := auth.NewVerifier(cfg.AdminEmail, cfg.AdminPassword, cfg.AdminPasswordHash, cfg.JWTSecret)
	if err != nil {
		log.Fatal("Failed to initialize credential verifier", zap.Error(err))
	}

	recorder := analytics.NewRecorder(analyticsStore, analytics.NewStitcher(sessionStore), cfg.IPHashSalt, log)
	reporter := analytics.NewReporter(analyticsStore, sessionStore, analytics.NewAggregator())

	router, err := handlers.NewRouter(handlers.RouterConfig{
		Recorder:       recorder,
		Reporter:       reporter,
		Auth:           verifier,
		Limiter:        limiter,
		AllowedOrigins: cfg.AllowedOrigins(),
		TrustedProxies: cfg.TrustedProxies,
		SecureCookies:  cfg.IsProduction(),
		Log:            log,
	})
	if err != nil {
		log.Fatal("Failed to build router", zap.Error(err))
	}

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info("API server starting", zap.String("address", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("API server failed to start", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
	}

	// Let in-flight session updates land before the stores close.
	recorder.Wait()
	log.Info("Server exiting")
}
