package domain

import (
	"context"
	"errors"
	"time"
)

// ErrIdempotencyKeyReused is returned when an Idempotency-Key comes back
// with a different request body than the one it was first stored with.
var ErrIdempotencyKeyReused = errors.New("idempotency key already used with different request data")

// IdempotencyRecord is the stored outcome of a request made with an Idempotency-Key.
type IdempotencyRecord struct {
	Key          string    `json:"key"`
	RequestHash  string    `json:"request_hash"`
	StatusCode   int       `json:"status_code"`
	ResponseBody string    `json:"response_body"`
	ProcessedAt  time.Time `json:"processed_at"`
	ExpiresAt    time.Time `json:"expires_at"`
}

// IsExpired reports whether the record has outlived its retention window.
func (r *IdempotencyRecord) IsExpired() bool {
	return !r.ExpiresAt.IsZero() && time.Now().After(r.ExpiresAt)
}

// IdempotencyRepository stores request outcomes by key. Create reports
// false without overwriting when the key is already taken. GetByKey
// returns ErrNotFound for unknown keys.
type IdempotencyRepository interface {
	Create(ctx context.Context, record *IdempotencyRecord, ttl time.Duration) (bool, error)
	GetByKey(ctx context.Context, key string) (*IdempotencyRecord, error)
	Delete(ctx context.Context, key string) error
}
