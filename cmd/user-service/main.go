package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	usercmd "github.com/userdesk/user-service/internal/command"
	"github.com/userdesk/user-service/internal/config"
	"github.com/userdesk/user-service/internal/handler"
	"github.com/userdesk/user-service/internal/logger"
	"github.com/userdesk/user-service/internal/migrate"
	userqry "github.com/userdesk/user-service/internal/query"
	"github.com/userdesk/user-service/internal/repository"
	"github.com/userdesk/user-service/shared/events"
	"github.com/userdesk/user-service/shared/middleware"
	redisClient "github.com/userdesk/user-service/shared/redis"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("invalid configuration", "error", err)
		os.Exit(1)
	}
	log := logger.New("user-service", cfg.LogLevel)
	slog.SetDefault(log)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Database connection (record store)
	db, err := repository.Open(ctx, cfg.DatabaseDriver, cfg.DatabaseURL)
	if err != nil {
		log.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	if cfg.AutoMigrate {
		runner, err := migrate.New(db, cfg.DatabaseDriver, log)
		if err != nil {
			log.Error("failed to configure migrations", "error", err)
			os.Exit(1)
		}
		if err := runner.Up(ctx); err != nil {
			log.Error("migrations failed", "error", err)
			os.Exit(1)
		}
	}

	// Redis connection (notification stream + view cache)
	redis, err := redisClient.NewClient(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	if err != nil {
		log.Error("failed to connect to redis", "error", err)
		os.Exit(1)
	}
	defer redis.Close()

	store := repository.NewSQLStore(db)
	cache := repository.NewUserViewCache(redis.Client, cfg.UserViewCacheTTL, log)

	commandSvc := usercmd.NewUserCommandService(store, cache, log)
	querySvc := userqry.NewUserQueryService(store, cache, log)

	notifier := events.NewUserNotifier(events.NewPublisher(redis.Client), cfg.UserEventsStream, cfg.EventsPublishTimeout, log)
	defer notifier.Wait()

	userHandler := handler.NewUserHandler(commandSvc, querySvc, notifier, log)

	templates, err := handler.LoadTemplates()
	if err != nil {
		log.Error("failed to parse templates", "error", err)
		os.Exit(1)
	}

	gin.SetMode(cfg.GinMode)
	router := gin.New()
	router.Use(gin.Recovery(), middleware.LoggingMiddleware(log), middleware.MetricsMiddleware())
	router.SetHTMLTemplate(templates)

	userHandler.RegisterRoutes(router)

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errorCh := make(chan error, 1)
	go func() {
		log.Info("user service starting", "port", cfg.Port)
		errorCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		log.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Error("graceful shutdown failed", "error", err)
		}
	case err := <-errorCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server error", "error", err)
			os.Exit(1)
		}
	}
}
