package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"course-enrollment/internal/domain"

	"github.com/go-redis/redis/v8"
)

const defaultIdempotencyTTL = 24 * time.Hour

var _ domain.IdempotencyRepository = (*RedisIdempotencyRepository)(nil)

type RedisIdempotencyRepository struct {
	client redis.UniversalClient
	prefix string
}

func NewRedisIdempotencyRepository(client redis.UniversalClient) *RedisIdempotencyRepository {
	return &RedisIdempotencyRepository{
		client: client,
		prefix: "idempotency_key:",
	}
}

// Create stores the record only if the key is free (SETNX). It reports
// whether this call won the key.
func (r *RedisIdempotencyRepository) Create(ctx context.Context, record *domain.IdempotencyRecord, ttl time.Duration) (bool, error) {
	if ttl <= 0 {
		ttl = defaultIdempotencyTTL
	}

	data, err := json.Marshal(record)
	if err != nil {
		return false, fmt.Errorf("failed to marshal idempotency record: %w", err)
	}

	created, err := r.client.SetNX(ctx, r.getRedisKey(record.Key), data, ttl).Result()
	if err != nil {
		return false, fmt.Errorf("failed to store idempotency key in Redis: %w", err)
	}
	return created, nil
}

func (r *RedisIdempotencyRepository) GetByKey(ctx context.Context, key string) (*domain.IdempotencyRecord, error) {
	val, err := r.client.Get(ctx, r.getRedisKey(key)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, fmt.Errorf("%w: idempotency key %s", domain.ErrNotFound, key)
		}
		return nil, fmt.Errorf("failed to get idempotency key from Redis: %w", err)
	}

	var record domain.IdempotencyRecord
	if err := json.Unmarshal([]byte(val), &record); err != nil {
		return nil, fmt.Errorf("failed to unmarshal idempotency record: %w", err)
	}
	return &record, nil
}

func (r *RedisIdempotencyRepository) Delete(ctx context.Context, key string) error {
	if err := r.client.Del(ctx, r.getRedisKey(key)).Err(); err != nil {
		return fmt.Errorf("failed to delete idempotency key from Redis: %w", err)
	}
	return nil
}

func (r *RedisIdempotencyRepository) getRedisKey(key string) string {
	return r.prefix + key
}
