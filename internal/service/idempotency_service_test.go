package service

import (
	"context"
	"testing"
	"time"

	"course-enrollment/internal/domain"
	"course-enrollment/internal/infrastructure/repository"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newIdempotencyService(t *testing.T) *IdempotencyService {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return NewIdempotencyService(repository.NewRedisIdempotencyRepository(client), time.Hour)
}

func TestIdempotencyService_ReplayAndReuse(t *testing.T) {
	svc := newIdempotencyService(t)
	ctx := context.Background()
	body := []byte(`{"courseId":"CS101","studentId":"S1"}`)
	scope := "POST /api/enrollments"

	rec, dup, err := svc.CheckDuplicateRequest(ctx, "key-1", scope, body)
	require.NoError(t, err)
	assert.False(t, dup)
	assert.Nil(t, rec)

	require.NoError(t, svc.StoreProcessedRequest(ctx, "key-1", scope, body, 201, []byte(`{"success":true}`)))

	rec, dup, err = svc.CheckDuplicateRequest(ctx, "key-1", scope, body)
	require.NoError(t, err)
	require.True(t, dup)
	assert.Equal(t, 201, rec.StatusCode)
	assert.JSONEq(t, `{"success":true}`, rec.ResponseBody)

	_, _, err = svc.CheckDuplicateRequest(ctx, "key-1", scope, []byte(`{"courseId":"CS102","studentId":"S1"}`))
	require.ErrorIs(t, err, domain.ErrIdempotencyKeyReused)
}

func TestIdempotencyService_EmptyKeyIsNoop(t *testing.T) {
	svc := newIdempotencyService(t)
	ctx := context.Background()

	_, dup, err := svc.CheckDuplicateRequest(ctx, "", "scope", nil)
	require.NoError(t, err)
	assert.False(t, dup)
	require.NoError(t, svc.StoreProcessedRequest(ctx, "", "scope", nil, 200, nil))
}

func TestIdempotencyService_FirstStoreWins(t *testing.T) {
	svc := newIdempotencyService(t)
	ctx := context.Background()
	body := []byte(`{}`)

	require.NoError(t, svc.StoreProcessedRequest(ctx, "k", "s", body, 201, []byte(`"first"`)))
	require.NoError(t, svc.StoreProcessedRequest(ctx, "k", "s", body, 409, []byte(`"second"`)))

	rec, dup, err := svc.CheckDuplicateRequest(ctx, "k", "s", body)
	require.NoError(t, err)
	require.True(t, dup)
	assert.Equal(t, 201, rec.StatusCode)
}
