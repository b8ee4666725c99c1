// Command user-events consumes the user notification stream and logs each
// created/deleted event. It is the reference consumer for the topic the
// user service publishes to.
package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/userdesk/user-service/internal/config"
	"github.com/userdesk/user-service/internal/logger"
	"github.com/userdesk/user-service/shared/events"
	redisClient "github.com/userdesk/user-service/shared/redis"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.New("user-events", slog.LevelInfo).Error("invalid configuration", "error", err)
		os.Exit(1)
	}
	log := logger.New("user-events", cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	redis, err := redisClient.NewClient(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	if err != nil {
		log.Error("failed to connect to redis", "error", err)
		os.Exit(1)
	}
	defer redis.Close()

	subscriber := events.NewSubscriber(redis.Client, events.SubscriberConfig{
		Group:    cfg.EventsConsumerGroup,
		Consumer: cfg.EventsConsumerName,
		Stream:   cfg.UserEventsStream,
		Logger:   log,
		Handler: func(ctx context.Context, msg events.Message) error {
			switch msg.Event.Type {
			case events.UserCreated, events.UserDeleted:
				data, err := events.DecodeUserEmail(msg.Event)
				if err != nil {
					return err
				}
				log.Info("user notification", "type", msg.Event.Type, "email", data.Email, "id", msg.ID)
			default:
				log.Warn("ignoring unknown event", "type", msg.Event.Type, "id", msg.ID)
			}
			return nil
		},
	})

	if err := subscriber.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
		log.Error("subscriber stopped", "error", err)
		os.Exit(1)
	}
}
