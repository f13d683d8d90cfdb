// Package main is the entry point for the frostdesk API server.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"frostdesk/internal/domain/auth"
	v1 "frostdesk/internal/infrastructure/http/v1"
	"frostdesk/internal/infrastructure/numerator"
	"frostdesk/internal/infrastructure/storage/postgres"
	"frostdesk/internal/infrastructure/storage/postgres/auth_repo"
	"frostdesk/pkg/logger"
)

const version = "1.0.0"

func main() {
	log, err := logger.New(logger.Config{
		Level:       getEnv("LOG_LEVEL", "info"),
		Development: getEnv("APP_ENV", "development") == "development",
	})
	if err != nil {
		fmt.Printf("failed to initialize logger: %v\n", err)
		os.Exit(1)
	}

	ctx := context.Background()
	log.Info("starting frostdesk server")

	// --- Database connection ---
	dsn := mustEnv("DATABASE_URL")
	poolCfg := postgres.DefaultPoolConfig(dsn)
	if maxConns := getEnvInt("DB_MAX_CONNS", 0); maxConns > 0 {
		poolCfg.MaxConns = int32(maxConns)
	}

	pool, err := postgres.NewPool(ctx, poolCfg)
	if err != nil {
		log.Fatalw("failed to connect to database", "error", err)
	}
	defer pool.Close()
	log.Info("database connection established")

	txManager := postgres.NewTxManager(pool)

	// --- Numerator ---
	numeratorService := numerator.New(pool.Pool)

	// --- Auth ---
	jwtSecret := mustEnv("JWT_SECRET")
	jwtTTL := getEnvDuration("JWT_TTL", 12*time.Hour)
	tokens := auth.NewTokenManager(jwtSecret, jwtTTL)

	userRepo := auth_repo.NewUserRepo(txManager)
	authService := auth.NewService(userRepo, tokens, txManager)

	if email := getEnv("BOOTSTRAP_ADMIN_EMAIL", ""); email != "" {
		bootstrapAdmin(ctx, log, authService, email, mustEnv("BOOTSTRAP_ADMIN_PASSWORD"))
	}

	// --- Router ---
	router, err := v1.NewRouter(v1.RouterConfig{
		Pool:               pool,
		TxManager:          txManager,
		Logger:             log,
		AuthService:        authService,
		Numerator:          numeratorService,
		QuoteAutosaveDelay: getEnvDuration("QUOTE_AUTOSAVE_DELAY", 2*time.Second),
		Version:            version,
	})
	if err != nil {
		log.Fatalw("failed to build router", "error", err)
	}
	defer router.Close()

	// --- HTTP Server ---
	port := getEnv("APP_PORT", "8080")
	server := &http.Server{
		Addr:         ":" + port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Infow("server starting", "port", port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalw("server failed", "error", err)
		}
	}()

	// --- Graceful shutdown ---
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatalw("server forced to shutdown", "error", err)
	}

	log.Info("server stopped")
}

// bootstrapAdmin ensures the initial admin account exists. A duplicate on
// startup is the normal case after the first run.
func bootstrapAdmin(ctx context.Context, log *logger.Logger, svc *auth.Service, email, password string) {
	_, err := svc.Register(ctx, email, password, "Administrator", auth.RoleAdmin)
	if err != nil {
		log.Infow("bootstrap admin skipped", "email", email, "reason", err.Error())
		return
	}
	log.Infow("bootstrap admin created", "email", email)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func mustEnv(key string) string {
	value := os.Getenv(key)
	if value == "" {
		fmt.Printf("required environment variable %s not set\n", key)
		os.Exit(1)
	}
	return value
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		var result int
		if _, err := fmt.Sscanf(value, "%d", &result); err == nil {
			return result
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
