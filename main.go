package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/acamposr/devjobs-be/internal/api"
	"github.com/acamposr/devjobs-be/internal/auth"
	"github.com/acamposr/devjobs-be/internal/config"
	"github.com/acamposr/devjobs-be/internal/database"
	"github.com/acamposr/devjobs-be/internal/logger"
	"github.com/acamposr/devjobs-be/internal/monitoring"
	"github.com/acamposr/devjobs-be/internal/notify"
	"github.com/acamposr/devjobs-be/internal/services"
	"github.com/acamposr/devjobs-be/internal/storage"
	"github.com/acamposr/devjobs-be/internal/websocket"
)

func main() {
	logger.Init()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	if cfg.JWTSecret == "" {
		log.Fatal("JWT_SECRET must be set")
	}

	// Set up database
	db, err := database.New(cfg.DatabasePath)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	if err := database.Migrate(db); err != nil {
		log.Fatalf("Failed to apply database migrations: %v", err)
	}

	// Set up Redis for sessions and outbound notifications
	rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
	pingCtx, cancelPing := context.WithTimeout(context.Background(), 5*time.Second)
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		cancelPing()
		log.Fatalf("Failed to connect to Redis at %s: %v", cfg.RedisAddr, err)
	}
	cancelPing()
	defer rdb.Close()

	// Set up the upload file store
	files, err := storage.NewDiskStore(cfg.UploadDir)
	if err != nil {
		log.Fatalf("Failed to initialize file store: %v", err)
	}

	// Set up WebSocket Hub
	hub := websocket.NewHub()
	go hub.Run()

	// Set up the auth building blocks
	hasher := auth.NewBcryptHasher(cfg.BcryptCost)
	issuer := auth.NewTokenIssuer()
	sessions := auth.NewRedisSessionStore(rdb, 24*time.Hour)
	guard := auth.NewGuard()

	// Set up services
	userService := services.NewUserService(db, hasher)
	eventService := services.NewEventService(db, hub)
	jobService := services.NewJobService(db, guard, eventService)

	var notifier notify.Notifier
	if cfg.AppEnv == "production" {
		notifier = notify.NewRedisNotifier(rdb)
	} else {
		notifier = notify.NewLogNotifier()
	}
	resetService := services.NewResetService(userService, issuer, hasher, notifier, eventService, cfg.BaseURL)

	authenticator := auth.NewAuthenticator(userService, hasher, sessions)
	tokens := auth.NewTokenManager(cfg.JWTSecret, authenticator)

	// Set up and run the background maintenance loop
	maintenance, err := monitoring.NewMaintenance(userService, eventService, cfg.MaintenanceCron)
	if err != nil {
		log.Fatalf("Invalid MAINTENANCE_CRON expression: %v", err)
	}
	go maintenance.Run()

	// Set up router
	isProd := cfg.AppEnv == "production"
	router := api.NewRouter(hub, authenticator, tokens, guard, userService, jobService, resetService, eventService, files, isProd)

	// Set up server
	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.ServerPort),
		Handler: router,
	}

	// Graceful shutdown
	go func() {
		log.Printf("Server starting on port %d\n", cfg.ServerPort)
		if err := srv.ListenAndServe(); err != http.ErrServerClosed {
			log.Fatalf("ListenAndServe(): %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	maintenance.Stop()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Println("Server exiting")
}
