package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	goredis "github.com/redis/go-redis/v9"

	"giveaway-bot/internal/common/config"
	"giveaway-bot/internal/common/logger"
	giveawayhttp "giveaway-bot/internal/features/giveaway/delivery/http"
	"giveaway-bot/internal/features/giveaway/registry"
	archiveredis "giveaway-bot/internal/features/giveaway/repository/redis"
	"giveaway-bot/internal/features/giveaway/service"
	"giveaway-bot/internal/platform/chat/console"
)

func main() {
	cfg := config.Load()
	logger.Init("giveaway-bot", cfg.Debug)

	logger.Info().
		Bool("debug", cfg.Debug).
		Bool("redis", cfg.Redis.Enabled).
		Msg("starting giveaway bot")

	var ctrlArchive service.Archive
	var closedReader giveawayhttp.ClosedReader
	if cfg.Redis.Enabled {
		redisClient := goredis.NewClient(&goredis.Options{
			Addr:     fmt.Sprintf("%s:%d", cfg.Redis.Host, cfg.Redis.Port),
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer redisClient.Close()

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		if err := redisClient.Ping(ctx).Err(); err != nil {
			cancel()
			logger.Fatal().Err(err).Msg("failed to connect to redis")
		}
		cancel()
		archive := archiveredis.NewArchive(redisClient, cfg.Redis.ArchiveSize, cfg.Redis.ArchiveTTL)
		ctrlArchive = archive
		closedReader = archive
		logger.Info().Msg("closed-giveaway archive enabled")
	}

	reg := registry.NewMemory()
	sched := service.NewScheduler()
	defer sched.Stop()

	// The console client is the development adapter; a real platform adapter
	// implements chat.Client against its SDK and is swapped in here.
	chatClient := console.New(os.Stdin)
	ctrl := service.NewController(cfg, chatClient, reg, sched, ctrlArchive)

	replCtx, replCancel := context.WithCancel(context.Background())
	defer replCancel()
	go repl(replCtx, ctrl, chatClient, reg)

	if !cfg.Debug {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = []string{cfg.Server.Origin}
	corsConfig.AllowMethods = []string{"GET", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Content-Type", "Accept"}
	router.Use(cors.New(corsConfig))

	giveawayhttp.Health(router)
	api := router.Group("/api/v1")
	giveawayhttp.NewGiveawayHandler(reg, closedReader).RegisterRoutes(api)

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info().Int("port", cfg.Server.Port).Msg("status API listening")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("failed to start status API")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info().Msg("shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		logger.Error().Err(err).Msg("forced shutdown of status API")
	}

	logger.Info().Msg("stopped")
}
