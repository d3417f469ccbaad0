package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	v1 "go-parley/cmd/api/router/v1"
	"go-parley/internal/infrastructure/auth"
	cacheAdapter "go-parley/internal/infrastructure/cache/adapter"
	"go-parley/internal/infrastructure/config"
	"go-parley/internal/infrastructure/database"
	queueAdapter "go-parley/internal/infrastructure/queue/adapter"
	"go-parley/internal/infrastructure/realtime"
	"go-parley/internal/pkg/chat/application/service"
	"go-parley/internal/pkg/chat/application/task"
	repoAdapter "go-parley/internal/pkg/chat/persistence/repository/adapter"
	httpHandler "go-parley/internal/pkg/chat/presentation/http"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

func main() {
	// Load .env file
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: .env file not found or could not be loaded: %v", err)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	logger := newLogger(cfg.LogLevel)
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	connectCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	pool, err := database.Connect(connectCtx, cfg.DatabaseURL)
	cancel()
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}
	defer pool.Close()

	cache, err := cacheAdapter.NewRedisAdapter(cfg.RedisURL)
	if err != nil {
		log.Fatalf("failed to connect to redis: %v", err)
	}
	defer cache.Close()

	qclient, err := queueAdapter.NewAsynqClient(cfg.RedisURL)
	if err != nil {
		log.Fatalf("failed to create queue client: %v", err)
	}
	defer qclient.Close()

	qserver, err := queueAdapter.NewAsynqServer(cfg.RedisURL, cfg.QueueConcurrency, logger)
	if err != nil {
		log.Fatalf("failed to create queue server: %v", err)
	}

	// Repositories.
	messageCache := repoAdapter.NewCacheMessageRepository(cache)
	messageArchive := repoAdapter.NewPgMessageArchive(pool)
	presenceRepo := repoAdapter.NewCachePresenceRepository(cache)
	conversations := repoAdapter.NewPgConversationRepository(pool)
	users := repoAdapter.NewPgUserDirectory(pool)

	// Services.
	store := service.NewMessageStore(messageCache, messageArchive, logger)
	presence := service.NewPresence(presenceRepo, users, logger)
	throttle := service.NewThrottle(store, logger)
	cleanup := service.NewCleanup(store, presence, logger)
	sessions := auth.NewSessionStore(cache, users, cfg.SessionTTL)

	hub := realtime.NewHub()

	task.RegisterConversationEventTask(qserver, hub, logger)
	go func() {
		if err := qserver.Run(ctx); err != nil {
			logger.Error("queue server stopped", "err", err)
		}
	}()

	r := gin.Default()

	r.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status": "OK",
			"groups": hub.Groups(),
		})
	})

	v1.RegisterRoutes(r, httpHandler.Deps{
		Hub:               hub,
		Sessions:          sessions,
		Conversations:     conversations,
		Store:             store,
		Presence:          presence,
		Throttle:          throttle,
		Cleanup:           cleanup,
		Queue:             qclient,
		Log:               logger,
		ThrottlePerSecond: cfg.ThrottlePerSecond,
		ThrottlePerMinute: cfg.ThrottlePerMinute,
	})

	srv := &http.Server{Addr: cfg.HTTPAddr, Handler: r}

	go func() {
		logger.Info("listening", "addr", cfg.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server stopped", "err", err)
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http shutdown failed", "err", err)
	}
	if err := qserver.Stop(shutdownCtx); err != nil {
		logger.Error("queue shutdown failed", "err", err)
	}
}

func newLogger(level string) *slog.Logger {
	var lvl slog.Level
	switch strings.ToLower(level) {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}
	return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: lvl}))
}
