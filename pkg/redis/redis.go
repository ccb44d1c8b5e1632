// Package redis carries cache invalidation signals between server instances.
// Each process keeps its own in-memory caches; a content change published on
// the invalidation channel expires tagged entries everywhere at once.
package redis

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/baliyoga/baliyoga-backend/pkg/logger"
	"github.com/redis/go-redis/v9"
)

const invalidationChannel = "cache:invalidate"

// Config holds the Redis connection settings.
type Config struct {
	Host     string
	Port     string
	Password string
	DB       int
}

// Broadcaster publishes and receives cache tag invalidations over Redis
// pub/sub. It is optional: a nil Broadcaster means single-instance operation.
type Broadcaster struct {
	client *redis.Client
	pubsub *redis.PubSub
}

// NewBroadcaster connects to Redis and verifies the connection.
func NewBroadcaster(cfg Config) (*Broadcaster, error) {
	logger.Info("Connecting to Redis", map[string]interface{}{
		"host": cfg.Host,
		"port": cfg.Port,
		"db":   cfg.DB,
	})

	client := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%s", cfg.Host, cfg.Port),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &Broadcaster{client: client}, nil
}

// PublishTagInvalidation announces that every cache entry carrying tag must be
// dropped.
func (b *Broadcaster) PublishTagInvalidation(ctx context.Context, tag string) error {
	return b.client.Publish(ctx, invalidationChannel, "tag:"+tag).Err()
}

// PublishKeyInvalidation announces that every cache entry under the logical
// key must be dropped.
func (b *Broadcaster) PublishKeyInvalidation(ctx context.Context, key string) error {
	return b.client.Publish(ctx, invalidationChannel, "key:"+key).Err()
}

// Listen subscribes to the invalidation channel and calls the handlers for
// each received signal until ctx is cancelled. It runs in its own goroutine.
func (b *Broadcaster) Listen(ctx context.Context, onTag func(tag string), onKey func(key string)) {
	b.pubsub = b.client.Subscribe(ctx, invalidationChannel)
	ch := b.pubsub.Channel()

	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-ch:
				if !ok {
					return
				}
				switch {
				case strings.HasPrefix(msg.Payload, "tag:"):
					onTag(strings.TrimPrefix(msg.Payload, "tag:"))
				case strings.HasPrefix(msg.Payload, "key:"):
					onKey(strings.TrimPrefix(msg.Payload, "key:"))
				default:
					logger.Warn("Unrecognized cache invalidation payload", map[string]interface{}{
						"payload": msg.Payload,
					})
				}
			}
		}
	}()
}

// Close shuts down the subscription and the client.
func (b *Broadcaster) Close() error {
	if b.pubsub != nil {
		if err := b.pubsub.Close(); err != nil {
			logger.Error("Failed to close Redis subscription", err)
		}
	}
	return b.client.Close()
}
