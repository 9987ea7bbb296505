package main

import (
	"context"
	"ctchen222/Hex/internal/api/controller"
	apirepository "ctchen222/Hex/internal/api/repository"
	"ctchen222/Hex/internal/api/service"
	"ctchen222/Hex/internal/config"
	"ctchen222/Hex/internal/db"
	"ctchen222/Hex/internal/events"
	"ctchen222/Hex/internal/hub"
	"ctchen222/Hex/internal/logger"
	"ctchen222/Hex/internal/repository"
	"ctchen222/Hex/internal/server"
	"ctchen222/Hex/internal/telemetry"
	"errors"
	"flag"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
)

var version = "dev"

func main() {
	profile := flag.String("profile", os.Getenv("APP_PROFILE"), "configuration profile (development, production, testing)")
	flag.Parse()

	cfg, err := config.Load(*profile)
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Initialize telemetry
	shutdown, err := telemetry.InitOtel(ctx, cfg)
	if err != nil {
		log.Fatalf("failed to initialize telemetry: %v", err)
	}
	defer func() {
		if err := shutdown(context.Background()); err != nil {
			log.Printf("Error shutting down telemetry: %v", err)
		}
	}()

	logger.Init(cfg.Debug)
	if !cfg.Debug {
		gin.SetMode(gin.ReleaseMode)
	}
	slog.Info("Starting hex server", "version", version, "profile", cfg.Profile, "storage.type", cfg.StorageType)

	// Initialize Redis when it backs storage and events
	var rdb *redis.Client
	if cfg.StorageType == repository.StorageRedis {
		rdb, err = db.NewRedisClient(ctx, cfg.RedisAddr)
		if err != nil {
			log.Fatalf("failed to initialize redis: %v", err)
		}
		defer rdb.Close()
	}

	// Initialize SQLite DB
	DB, err := db.Connect(ctx, cfg.SQLiteDSN)
	if err != nil {
		log.Fatalf("failed to initialize sqlite db: %v", err)
	}
	defer DB.Close()

	// Create repositories
	gameRepo, err := repository.NewGameRepository(cfg.StorageType, cfg.StorageDir, rdb)
	if err != nil {
		log.Fatalf("failed to create game repository: %v", err)
	}
	resultRepo := repository.NewResultRepository(DB)
	userRepo := apirepository.NewUserRepository(DB)

	var broker events.Broker = events.NewLocalBroker()
	if rdb != nil {
		broker = events.NewRedisBroker(rdb)
	}

	// Create hub
	h, err := hub.NewHub(hub.Options{
		MaxGames:     cfg.MaxGames,
		MinBoardSize: cfg.MinBoardSize,
		MaxBoardSize: cfg.MaxBoardSize,
		SaveDir:      cfg.SaveDir,
		StorageType:  cfg.StorageType,
	}, gameRepo, resultRepo, broker)
	if err != nil {
		log.Fatalf("failed to create hub: %v", err)
	}
	hubDone := make(chan struct{})
	go func() {
		defer close(hubDone)
		if err := h.Run(ctx); err != nil {
			slog.Error("Hub stopped with error", "error", err)
		}
	}()

	// Create services and controllers
	gameController := controller.NewGameController(
		service.NewGameService(h, cfg.DefaultBoardSize), version, cfg.StorageType, cfg.Public())
	userController := controller.NewUserController(service.NewUserService(userRepo, cfg.JWTSecret, 0))

	// Create the Gin-based server
	srv := server.NewServer(h, gameController, userController, cfg.CORSOrigins)

	httpServer := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           srv.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		slog.Info("HTTP server started", "http.addr", cfg.HTTPAddr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("ListenAndServe: %v", err)
		}
	}()

	<-ctx.Done()
	slog.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		slog.Error("Server forced to shutdown", "error", err)
	}
	<-hubDone

	slog.Info("Server exiting")
}
