package discovery

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStaticLocator(t *testing.T) {
	l := NewStaticLocator(map[string][]string{
		"catalog-service": {"http://b:8081", "http://a:8081"},
		"user-service":    {},
	})
	ctx := context.Background()

	assert.True(t, l.IsAvailable(ctx, "catalog-service"))
	assert.False(t, l.IsAvailable(ctx, "user-service"))
	assert.False(t, l.IsAvailable(ctx, "unknown"))

	instances, err := l.Resolve(ctx, "catalog-service")
	require.NoError(t, err)
	require.Len(t, instances, 2)
	assert.Equal(t, "http://a:8081", instances[0].Addr)
}

func newRegistry(t *testing.T, ttl time.Duration) (*miniredis.Miniredis, *RedisRegistry) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return mr, NewRedisRegistry(client, ttl)
}

func TestRedisRegistry_RegisterResolveExpire(t *testing.T) {
	ctx := context.Background()
	mr, reg := newRegistry(t, 10*time.Second)

	assert.False(t, reg.IsAvailable(ctx, "user-service"))

	require.NoError(t, reg.Register(ctx, Instance{Service: "user-service", ID: "u1", Addr: "10.0.0.1:8082"}))
	require.NoError(t, reg.Register(ctx, Instance{Service: "user-service", ID: "u2", Addr: "10.0.0.2:8082"}))
	require.NoError(t, reg.Register(ctx, Instance{Service: "catalog-service", ID: "c1", Addr: "10.0.0.3:8081"}))

	instances, err := reg.Resolve(ctx, "user-service")
	require.NoError(t, err)
	require.Len(t, instances, 2)
	assert.Equal(t, "u1", instances[0].ID)
	assert.True(t, reg.IsAvailable(ctx, "user-service"))

	require.NoError(t, reg.Deregister(ctx, Instance{Service: "user-service", ID: "u1"}))
	instances, err = reg.Resolve(ctx, "user-service")
	require.NoError(t, err)
	require.Len(t, instances, 1)

	mr.FastForward(11 * time.Second)
	assert.False(t, reg.IsAvailable(ctx, "user-service"))
	assert.False(t, reg.IsAvailable(ctx, "catalog-service"))
}

func TestRedisRegistry_RegisterValidates(t *testing.T) {
	_, reg := newRegistry(t, time.Second)
	require.Error(t, reg.Register(context.Background(), Instance{Service: "user-service"}))
}

func TestRedisRegistry_UnreachableRedisIsUnavailable(t *testing.T) {
	mr, reg := newRegistry(t, time.Second)
	mr.Close()
	assert.False(t, reg.IsAvailable(context.Background(), "user-service"))
}

func TestRedisRegistry_HeartbeatDeregistersOnCancel(t *testing.T) {
	mr, reg := newRegistry(t, 3*time.Second)
	ctx, cancel := context.WithCancel(context.Background())

	inst := Instance{Service: "enrollment-service", ID: "e1", Addr: "10.0.0.4:8083"}
	done := make(chan struct{})
	go func() {
		reg.Heartbeat(ctx, inst, 20*time.Millisecond)
		close(done)
	}()

	require.Eventually(t, func() bool {
		return reg.IsAvailable(context.Background(), "enrollment-service")
	}, time.Second, 10*time.Millisecond)

	cancel()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatalf("heartbeat did not stop")
	}

	assert.False(t, mr.Exists("discovery:enrollment-service:e1"))
}
