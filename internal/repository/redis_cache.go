package repository

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

const persistedQueryKeyPrefix = "apq:"

// RedisPersistedQueryStore keeps GraphQL query documents keyed by their
// sha256 hash. Only query text is stored, never resolved data.
type RedisPersistedQueryStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisPersistedQueryStore creates a new persisted query store
func NewRedisPersistedQueryStore(client *redis.Client, ttl time.Duration) *RedisPersistedQueryStore {
	return &RedisPersistedQueryStore{
		client: client,
		ttl:    ttl,
	}
}

// HashQuery returns the hex sha256 of a query document
func HashQuery(query string) string {
	sum := sha256.Sum256([]byte(query))
	return hex.EncodeToString(sum[:])
}

// Get returns the query registered under hash, or ErrCacheMiss
func (r *RedisPersistedQueryStore) Get(ctx context.Context, hash string) (string, error) {
	tracer := otel.Tracer("redis")
	ctx, span := tracer.Start(ctx, "redis.Get",
		trace.WithAttributes(attribute.String("apq.hash", hash)),
	)
	defer span.End()

	query, err := r.client.Get(ctx, persistedQueryKeyPrefix+hash).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			span.SetAttributes(attribute.String("cache.result", "miss"))
			return "", ErrCacheMiss
		}
		span.RecordError(err)
		return "", fmt.Errorf("redis get error: %w", err)
	}

	span.SetAttributes(attribute.String("cache.result", "hit"))
	return query, nil
}

// Set registers query under hash with the store TTL
func (r *RedisPersistedQueryStore) Set(ctx context.Context, hash, query string) error {
	tracer := otel.Tracer("redis")
	ctx, span := tracer.Start(ctx, "redis.Set",
		trace.WithAttributes(
			attribute.String("apq.hash", hash),
			attribute.Int64("cache.ttl_seconds", int64(r.ttl.Seconds())),
		),
	)
	defer span.End()

	if err := r.client.Set(ctx, persistedQueryKeyPrefix+hash, query, r.ttl).Err(); err != nil {
		span.RecordError(err)
		return fmt.Errorf("redis set error: %w", err)
	}
	return nil
}
