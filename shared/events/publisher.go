package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// Publisher appends events to Redis streams.
type Publisher struct {
	client *redis.Client
	now    func() time.Time
}

func NewPublisher(client *redis.Client) *Publisher {
	return &Publisher{client: client, now: time.Now}
}

// Publish writes one entry to stream. key travels next to the event so
// consumers can route without decoding the payload.
func (p *Publisher) Publish(ctx context.Context, stream, eventType, key string, data any) error {
	args, err := p.buildArgs(stream, eventType, key, data)
	if err != nil {
		return err
	}
	if _, err := p.client.XAdd(ctx, args).Result(); err != nil {
		return fmt.Errorf("failed to publish event: %w", err)
	}
	return nil
}

func (p *Publisher) buildArgs(stream, eventType, key string, data any) (*redis.XAddArgs, error) {
	eventJSON, err := json.Marshal(Event{
		ID:        uuid.NewString(),
		Type:      eventType,
		Timestamp: p.now().UTC(),
		Data:      data,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal event: %w", err)
	}
	return &redis.XAddArgs{
		Stream: stream,
		Values: map[string]any{
			"key":   key,
			"event": string(eventJSON),
		},
	}, nil
}
