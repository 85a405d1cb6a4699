package discovery

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"time"

	"course-enrollment/internal/domain/enrollment"
	"course-enrollment/pkg/logger"

	"github.com/go-redis/redis/v8"
)

const defaultRegistryPrefix = "discovery"

// RedisRegistry keeps one key per live instance, <prefix>:<service>:<id>,
// with a TTL. An instance that stops heartbeating drops out when its key expires.
type RedisRegistry struct {
	client redis.UniversalClient
	prefix string
	ttl    time.Duration
}

var _ enrollment.ServiceLocator = (*RedisRegistry)(nil)

func NewRedisRegistry(client redis.UniversalClient, ttl time.Duration) *RedisRegistry {
	if ttl <= 0 {
		ttl = 30 * time.Second
	}
	return &RedisRegistry{
		client: client,
		prefix: defaultRegistryPrefix,
		ttl:    ttl,
	}
}

func (r *RedisRegistry) key(service, id string) string {
	return fmt.Sprintf("%s:%s:%s", r.prefix, service, id)
}

// Register writes (or refreshes) the instance key.
func (r *RedisRegistry) Register(ctx context.Context, inst Instance) error {
	if inst.Service == "" || inst.ID == "" {
		return errors.New("instance needs a service name and an id")
	}

	data, err := json.Marshal(inst)
	if err != nil {
		return fmt.Errorf("failed to marshal instance: %w", err)
	}
	if err := r.client.Set(ctx, r.key(inst.Service, inst.ID), data, r.ttl).Err(); err != nil {
		return fmt.Errorf("failed to register %s/%s: %w", inst.Service, inst.ID, err)
	}
	return nil
}

func (r *RedisRegistry) Deregister(ctx context.Context, inst Instance) error {
	if err := r.client.Del(ctx, r.key(inst.Service, inst.ID)).Err(); err != nil {
		return fmt.Errorf("failed to deregister %s/%s: %w", inst.Service, inst.ID, err)
	}
	return nil
}

// Resolve lists the live instances of a service.
func (r *RedisRegistry) Resolve(ctx context.Context, serviceName string) ([]Instance, error) {
	pattern := r.key(serviceName, "*")

	var keys []string
	var cursor uint64
	for {
		batch, next, err := r.client.Scan(ctx, cursor, pattern, 100).Result()
		if err != nil {
			return nil, fmt.Errorf("failed to scan registry: %w", err)
		}
		keys = append(keys, batch...)
		cursor = next
		if cursor == 0 {
			break
		}
	}
	if len(keys) == 0 {
		return nil, nil
	}
	sort.Strings(keys)

	values, err := r.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to read registry: %w", err)
	}

	instances := make([]Instance, 0, len(values))
	for i, val := range values {
		s, ok := val.(string)
		if !ok {
			// expired between SCAN and MGET
			continue
		}
		var inst Instance
		if err := json.Unmarshal([]byte(s), &inst); err != nil {
			logger.Warn("Skipping malformed registry entry %s: %v", keys[i], err)
			continue
		}
		instances = append(instances, inst)
	}
	return instances, nil
}

// IsAvailable treats a registry failure as "no instance".
func (r *RedisRegistry) IsAvailable(ctx context.Context, serviceName string) bool {
	instances, err := r.Resolve(ctx, serviceName)
	if err != nil {
		logger.Warn("Service lookup for %s failed: %v", serviceName, err)
		return false
	}
	return len(instances) > 0
}

// Heartbeat registers inst and refreshes it every interval until ctx is
// cancelled, then removes it. It blocks; run it in its own goroutine.
func (r *RedisRegistry) Heartbeat(ctx context.Context, inst Instance, interval time.Duration) {
	if interval <= 0 || interval >= r.ttl {
		interval = r.ttl / 3
	}

	if err := r.Register(ctx, inst); err != nil {
		logger.Warn("Initial registration failed: %v", err)
	} else {
		logger.Info("Registered %s instance %s at %s", inst.Service, inst.ID, inst.Addr)
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			cleanupCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			if err := r.Deregister(cleanupCtx, inst); err != nil {
				logger.Warn("Deregistration failed: %v", err)
			}
			cancel()
			return
		case <-ticker.C:
			if err := r.Register(ctx, inst); err != nil && !errors.Is(err, context.Canceled) {
				logger.Warn("Heartbeat for %s/%s failed: %v", inst.Service, inst.ID, err)
			}
		}
	}
}
