package refresh

import (
	"context"
	"errors"
	"time"

	"github.com/winterhq/socialboard/internal/cache"
)

const (
	// DefaultChannel is the pub/sub channel refresh bumps are announced on
	DefaultChannel = "socialboard:refresh"
	// DefaultFallbackKey holds the latest announcement for instances whose
	// pub/sub connection dropped; they pick it up by polling.
	DefaultFallbackKey = "socialboard:refresh:last"

	fallbackTTL      = time.Hour
	fallbackInterval = 2 * time.Second
)

// RedisAnnouncer propagates refresh announcements over two independent
// Redis paths: a PUBLISH on Channel, and a write to FallbackKey that
// listeners poll. Either path alone is enough for delivery; the bus
// collapses duplicates.
type RedisAnnouncer struct {
	Redis        *cache.RedisClient
	Channel      string
	FallbackKey  string
	PollInterval time.Duration
}

// NewRedisAnnouncer creates an announcer with the default channel, key
// and poll interval.
func NewRedisAnnouncer(rc *cache.RedisClient) *RedisAnnouncer {
	return &RedisAnnouncer{
		Redis:        rc,
		Channel:      DefaultChannel,
		FallbackKey:  DefaultFallbackKey,
		PollInterval: fallbackInterval,
	}
}

// Announce sends the payload on both paths. Each path is attempted even
// if the other failed; the joined error is returned for logging.
func (a *RedisAnnouncer) Announce(ctx context.Context, payload string) error {
	pubErr := a.Redis.Publish(ctx, a.Channel, payload)
	setErr := a.Redis.SetEx(ctx, a.FallbackKey, payload, fallbackTTL)
	return errors.Join(pubErr, setErr)
}

// Listen delivers payloads from the pub/sub channel and the fallback key
// until ctx is done. The fallback poller delivers a payload only when the
// key's value changes, so a quiet system costs one GET per interval.
func (a *RedisAnnouncer) Listen(ctx context.Context, deliver func(payload string)) {
	pubsub := a.Redis.Subscribe(ctx, a.Channel)
	defer pubsub.Close()

	go a.pollFallback(ctx, deliver)

	ch := pubsub.Channel()
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			deliver(msg.Payload)
		}
	}
}

func (a *RedisAnnouncer) pollFallback(ctx context.Context, deliver func(payload string)) {
	ticker := time.NewTicker(a.PollInterval)
	defer ticker.Stop()

	// seed with whatever announcement predates this listener so it is
	// not replayed as new
	last, _ := a.Redis.Get(ctx, a.FallbackKey)
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			val, err := a.Redis.Get(ctx, a.FallbackKey)
			if err != nil || val == "" || val == last {
				continue
			}
			last = val
			deliver(val)
		}
	}
}
