package redis

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/redis/go-redis/v9"

	"github.com/glide-ceylon/gidz-uni-path-sub000/internal/ports"
)

// AuthEvents broadcasts identity-changed notifications over a Redis pub/sub
// channel. Every instance subscribed to the channel fans messages out to its
// in-process subscribers, so a logout on one instance invalidates cached
// views everywhere.
type AuthEvents struct {
	client  redis.UniversalClient
	channel string
	logger  *slog.Logger

	mu     sync.Mutex
	subs   map[int]func(scope string)
	nextID int

	cancel context.CancelFunc
	done   chan struct{}
}

// AuthEventsOptions groups constructor parameters for AuthEvents.
type AuthEventsOptions struct {
	Client  redis.UniversalClient
	Channel string
	Logger  *slog.Logger
}

// NewAuthEvents creates the event channel and starts the receive loop.
// Call Close to stop it.
func NewAuthEvents(opts AuthEventsOptions) *AuthEvents {
	channel := opts.Channel
	if channel == "" {
		channel = "auth:changed"
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	ctx, cancel := context.WithCancel(context.Background())
	e := &AuthEvents{
		client:  opts.Client,
		channel: channel,
		logger:  logger.With("component", "auth_events"),
		subs:    make(map[int]func(scope string)),
		cancel:  cancel,
		done:    make(chan struct{}),
	}
	go e.receive(ctx)
	return e
}

// PublishChanged announces that the identity for a scope changed. Local
// subscribers are notified via the Redis round trip like everyone else.
func (e *AuthEvents) PublishChanged(ctx context.Context, scope string) error {
	if err := e.client.Publish(ctx, e.channel, scope).Err(); err != nil {
		return fmt.Errorf("publish auth change: %w", err)
	}
	return nil
}

// Subscribe registers a callback invoked with the changed scope. The returned
// function unsubscribes.
func (e *AuthEvents) Subscribe(fn func(scope string)) (unsubscribe func()) {
	e.mu.Lock()
	id := e.nextID
	e.nextID++
	e.subs[id] = fn
	e.mu.Unlock()

	return func() {
		e.mu.Lock()
		delete(e.subs, id)
		e.mu.Unlock()
	}
}

// Close stops the receive loop and waits for it to finish.
func (e *AuthEvents) Close() error {
	e.cancel()
	<-e.done
	return nil
}

func (e *AuthEvents) receive(ctx context.Context) {
	defer close(e.done)

	sub := e.client.Subscribe(ctx, e.channel)
	defer func() {
		if err := sub.Close(); err != nil {
			e.logger.Warn("failed to close subscription", "err", err)
		}
	}()

	ch := sub.Channel()
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			e.dispatch(msg.Payload)
		}
	}
}

func (e *AuthEvents) dispatch(scope string) {
	e.mu.Lock()
	fns := make([]func(string), 0, len(e.subs))
	for _, fn := range e.subs {
		fns = append(fns, fn)
	}
	e.mu.Unlock()

	// Callbacks run outside the lock so a subscriber may unsubscribe itself.
	for _, fn := range fns {
		fn(scope)
	}
}

var _ ports.AuthEvents = (*AuthEvents)(nil)
