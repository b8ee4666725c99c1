package events

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

// Message is one decoded stream entry.
type Message struct {
	ID    string
	Key   string
	Event Event
}

type Handler func(ctx context.Context, msg Message) error

// Subscriber reads a stream through a consumer group and acknowledges every
// message its handler accepts. Messages left pending longer than claimMinIdle,
// by this consumer or a dead one, are claimed and handled again before each
// read of new entries.
type Subscriber struct {
	client        *redis.Client
	group         string
	consumer      string
	stream        string
	handler       Handler
	batchSize     int64
	blockDuration time.Duration
	claimMinIdle  time.Duration
	log           *slog.Logger
}

type SubscriberConfig struct {
	Group         string
	Consumer      string
	Stream        string
	Handler       Handler
	BatchSize     int64
	BlockDuration time.Duration
	// ClaimMinIdle is how long a message must sit unacknowledged before it
	// is redelivered. Defaults to 30s.
	ClaimMinIdle time.Duration
	Logger       *slog.Logger
}

func NewSubscriber(client *redis.Client, config SubscriberConfig) *Subscriber {
	if config.BatchSize == 0 {
		config.BatchSize = 10
	}
	if config.BlockDuration == 0 {
		config.BlockDuration = 5 * time.Second
	}
	if config.ClaimMinIdle == 0 {
		config.ClaimMinIdle = 30 * time.Second
	}
	if config.Logger == nil {
		config.Logger = slog.Default()
	}

	return &Subscriber{
		client:        client,
		group:         config.Group,
		consumer:      config.Consumer,
		stream:        config.Stream,
		handler:       config.Handler,
		batchSize:     config.BatchSize,
		blockDuration: config.BlockDuration,
		claimMinIdle:  config.ClaimMinIdle,
		log:           config.Logger,
	}
}

// Start blocks until ctx is cancelled.
func (s *Subscriber) Start(ctx context.Context) error {
	err := s.client.XGroupCreateMkStream(ctx, s.stream, s.group, "0").Err()
	if err != nil && !strings.HasPrefix(err.Error(), "BUSYGROUP") {
		return fmt.Errorf("failed to create consumer group: %w", err)
	}

	s.log.Info("subscriber started", "stream", s.stream, "group", s.group, "consumer", s.consumer)

	for {
		select {
		case <-ctx.Done():
			s.log.Info("subscriber stopping", "stream", s.stream)
			return ctx.Err()
		default:
			if err := s.reclaimPending(ctx); err != nil && ctx.Err() == nil {
				s.log.Error("error reclaiming pending messages", "stream", s.stream, "error", err)
			}
			if err := s.readMessages(ctx); err != nil {
				if ctx.Err() != nil {
					continue
				}
				s.log.Error("error reading messages", "stream", s.stream, "error", err)
				time.Sleep(time.Second)
			}
		}
	}
}

func (s *Subscriber) readMessages(ctx context.Context) error {
	streams, err := s.client.XReadGroup(ctx, &redis.XReadGroupArgs{
		Group:    s.group,
		Consumer: s.consumer,
		Streams:  []string{s.stream, ">"},
		Count:    s.batchSize,
		Block:    s.blockDuration,
	}).Result()

	if errors.Is(err, redis.Nil) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to read from stream: %w", err)
	}

	for _, stream := range streams {
		s.handleMessages(ctx, stream.Messages)
	}

	return nil
}

// reclaimPending takes over messages whose handler failed, or whose consumer
// died, and runs them through the handler again.
func (s *Subscriber) reclaimPending(ctx context.Context) error {
	start := "0-0"
	for {
		messages, next, err := s.client.XAutoClaim(ctx, &redis.XAutoClaimArgs{
			Stream:   s.stream,
			Group:    s.group,
			Consumer: s.consumer,
			MinIdle:  s.claimMinIdle,
			Start:    start,
			Count:    s.batchSize,
		}).Result()
		if err != nil {
			return fmt.Errorf("failed to claim pending messages: %w", err)
		}
		if len(messages) > 0 {
			s.log.Info("redelivering pending messages", "stream", s.stream, "count", len(messages))
			s.handleMessages(ctx, messages)
		}
		if next == "0-0" || next == "" {
			return nil
		}
		start = next
	}
}

func (s *Subscriber) handleMessages(ctx context.Context, messages []redis.XMessage) {
	for _, message := range messages {
		msg, err := decodeMessage(message)
		if err == nil {
			err = s.handler(ctx, msg)
		}
		if err != nil {
			s.log.Error("failed to process message", "id", message.ID, "error", err)
			continue
		}
		if err := s.client.XAck(ctx, s.stream, s.group, message.ID).Err(); err != nil {
			s.log.Error("failed to ack message", "id", message.ID, "error", err)
		}
	}
}

func decodeMessage(message redis.XMessage) (Message, error) {
	eventData, ok := message.Values["event"].(string)
	if !ok {
		return Message{}, fmt.Errorf("invalid message format")
	}

	var event Event
	if err := json.Unmarshal([]byte(eventData), &event); err != nil {
		return Message{}, fmt.Errorf("failed to unmarshal event: %w", err)
	}

	key, _ := message.Values["key"].(string)
	return Message{ID: message.ID, Key: key, Event: event}, nil
}

// DecodeUserEmail extracts the payload of a user.created or user.deleted event.
func DecodeUserEmail(event Event) (UserEmailEvent, error) {
	var data UserEmailEvent
	raw, err := json.Marshal(event.Data)
	if err != nil {
		return data, fmt.Errorf("failed to marshal %s payload: %w", event.Type, err)
	}
	if err := json.Unmarshal(raw, &data); err != nil {
		return data, fmt.Errorf("failed to unmarshal %s payload: %w", event.Type, err)
	}
	return data, nil
}
