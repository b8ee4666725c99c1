package events

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/userdesk/user-service/shared/metrics"
)

// StreamPublisher is the part of Publisher the notifier depends on.
type StreamPublisher interface {
	Publish(ctx context.Context, stream, eventType, key string, data any) error
}

// UserNotifier publishes user notifications in the background. Callers never
// wait on the broker and never see a publish error.
type UserNotifier struct {
	publisher StreamPublisher
	stream    string
	timeout   time.Duration
	log       *slog.Logger
	wg        sync.WaitGroup
}

func NewUserNotifier(publisher StreamPublisher, stream string, timeout time.Duration, log *slog.Logger) *UserNotifier {
	if stream == "" {
		stream = UserEventsStream
	}
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	if log == nil {
		log = slog.Default()
	}
	return &UserNotifier{publisher: publisher, stream: stream, timeout: timeout, log: log}
}

func (n *UserNotifier) PublishCreated(email string) {
	n.publishAsync(UserCreated, email)
}

func (n *UserNotifier) PublishDeleted(email string) {
	n.publishAsync(UserDeleted, email)
}

// Wait blocks until every publish started so far has finished.
func (n *UserNotifier) Wait() {
	n.wg.Wait()
}

func (n *UserNotifier) publishAsync(eventType, email string) {
	n.wg.Add(1)
	go func() {
		defer n.wg.Done()
		ctx, cancel := context.WithTimeout(context.Background(), n.timeout)
		defer cancel()

		if err := n.publisher.Publish(ctx, n.stream, eventType, email, UserEmailEvent{Email: email}); err != nil {
			metrics.RecordEventPublished(eventType, "error")
			n.log.Error("failed to publish user event", "type", eventType, "stream", n.stream, "error", err)
			return
		}
		metrics.RecordEventPublished(eventType, "ok")
		n.log.Info("user event published", "type", eventType, "stream", n.stream)
	}()
}
