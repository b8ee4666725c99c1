package events

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestSubscriber(t *testing.T, handler Handler) (*Subscriber, *redis.Client) {
	t.Helper()
	srv := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: srv.Addr()})
	t.Cleanup(func() { client.Close() })

	s := NewSubscriber(client, SubscriberConfig{
		Group:         "user-events",
		Consumer:      "consumer-1",
		Stream:        UserEventsStream,
		Handler:       handler,
		BlockDuration: 50 * time.Millisecond,
		ClaimMinIdle:  time.Millisecond,
		Logger:        slog.New(slog.NewTextHandler(io.Discard, nil)),
	})
	ctx := context.Background()
	require.NoError(t, client.XGroupCreateMkStream(ctx, UserEventsStream, "user-events", "0").Err())

	args, err := NewPublisher(client).buildArgs(UserEventsStream, UserDeleted, "gone@test.com", UserEmailEvent{Email: "gone@test.com"})
	require.NoError(t, err)
	require.NoError(t, client.XAdd(ctx, args).Err())
	return s, client
}

func pendingCount(t *testing.T, client *redis.Client) int64 {
	t.Helper()
	pending, err := client.XPending(context.Background(), UserEventsStream, "user-events").Result()
	require.NoError(t, err)
	return pending.Count
}

func TestSubscriber_AcksHandledMessages(t *testing.T) {
	var got []Message
	s, client := newTestSubscriber(t, func(_ context.Context, msg Message) error {
		got = append(got, msg)
		return nil
	})

	require.NoError(t, s.readMessages(context.Background()))

	require.Len(t, got, 1)
	assert.Equal(t, "gone@test.com", got[0].Key)
	assert.Equal(t, UserDeleted, got[0].Event.Type)
	assert.Zero(t, pendingCount(t, client))
}

func TestSubscriber_RedeliversFailedMessages(t *testing.T) {
	calls := 0
	s, client := newTestSubscriber(t, func(_ context.Context, msg Message) error {
		calls++
		if calls == 1 {
			return errors.New("downstream unavailable")
		}
		return nil
	})
	ctx := context.Background()

	require.NoError(t, s.readMessages(ctx))
	assert.Equal(t, 1, calls)
	assert.Equal(t, int64(1), pendingCount(t, client))

	// Nothing new on the stream; only the pending entry can come back.
	require.NoError(t, s.readMessages(ctx))
	assert.Equal(t, 1, calls)

	time.Sleep(10 * time.Millisecond)
	require.NoError(t, s.reclaimPending(ctx))
	assert.Equal(t, 2, calls)
	assert.Zero(t, pendingCount(t, client))
}
