// Package invalidation broadcasts job-context cache evictions between
// replicas over Redis pub/sub. Each process holds its own in-memory context
// cache; a job update handled by one replica must evict everywhere.
package invalidation

import (
	"context"
	"log/slog"

	"github.com/redis/go-redis/v9"
)

// evictAllToken is published when the whole cache must be dropped.
const evictAllToken = "*"

// RedisBroadcaster publishes and consumes cache eviction events.
type RedisBroadcaster struct {
	rdb     *redis.Client
	channel string
}

// New constructs a broadcaster from a Redis URL and pub/sub channel name.
func New(redisURL, channel string) (*RedisBroadcaster, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, err
	}
	return &RedisBroadcaster{rdb: redis.NewClient(opts), channel: channel}, nil
}

// NewWithClient wraps an existing client; used by tests.
func NewWithClient(rdb *redis.Client, channel string) *RedisBroadcaster {
	return &RedisBroadcaster{rdb: rdb, channel: channel}
}

// PublishEvict broadcasts an eviction for jobID; an empty jobID evicts all.
func (b *RedisBroadcaster) PublishEvict(ctx context.Context, jobID string) error {
	payload := jobID
	if payload == "" {
		payload = evictAllToken
	}
	return b.rdb.Publish(ctx, b.channel, payload).Err()
}

// Subscribe consumes eviction events until ctx is done, invoking evict with
// the job id, or with an empty string for evict-all. It blocks; run it in a
// goroutine.
func (b *RedisBroadcaster) Subscribe(ctx context.Context, evict func(jobID string)) {
	sub := b.rdb.Subscribe(ctx, b.channel)
	defer func() { _ = sub.Close() }()
	ch := sub.Channel()
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			id := msg.Payload
			if id == evictAllToken {
				id = ""
			}
			slog.Info("cache invalidation received", slog.String("job_id", id))
			evict(id)
		}
	}
}

// Ping verifies connectivity; used by readiness checks.
func (b *RedisBroadcaster) Ping(ctx context.Context) error {
	return b.rdb.Ping(ctx).Err()
}

// Close releases the underlying client.
func (b *RedisBroadcaster) Close() error { return b.rdb.Close() }
