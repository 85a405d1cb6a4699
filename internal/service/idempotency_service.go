package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"course-enrollment/internal/domain"
	"course-enrollment/pkg/logger"
)

const (
	DefaultIdempotencyTTL = 24 * time.Hour
)

// IdempotencyService remembers the response to a request sent with an
// Idempotency-Key so a retry gets the same answer instead of a second write.
type IdempotencyService struct {
	idempotencyRepo domain.IdempotencyRepository
	ttl             time.Duration
}

func NewIdempotencyService(idempotencyRepo domain.IdempotencyRepository, ttl time.Duration) *IdempotencyService {
	if ttl <= 0 {
		ttl = DefaultIdempotencyTTL
	}
	return &IdempotencyService{
		idempotencyRepo: idempotencyRepo,
		ttl:             ttl,
	}
}

// CheckDuplicateRequest returns the stored record when key was already used
// for the same scope and body. The same key with a different body is
// domain.ErrIdempotencyKeyReused.
func (s *IdempotencyService) CheckDuplicateRequest(ctx context.Context, key, scope string, body []byte) (*domain.IdempotencyRecord, bool, error) {
	if key == "" {
		return nil, false, nil
	}

	existing, err := s.idempotencyRepo.GetByKey(ctx, key)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, false, nil
		}
		logger.Error("Failed to check idempotency key: %v", err)
		return nil, false, fmt.Errorf("failed to check idempotency key: %w", err)
	}

	if existing.IsExpired() {
		if err := s.idempotencyRepo.Delete(ctx, key); err != nil {
			logger.Warn("Failed to delete expired idempotency key %s: %v", key, err)
		}
		return nil, false, nil
	}

	if existing.RequestHash != generateRequestHash(scope, body) {
		logger.Warn("Idempotency key %s used with different request data", key)
		return nil, false, domain.ErrIdempotencyKeyReused
	}

	logger.Info("Duplicate request detected for idempotency key: %s", key)
	return existing, true, nil
}

// StoreProcessedRequest saves the response. If another request stored the
// key first, that record is kept.
func (s *IdempotencyService) StoreProcessedRequest(ctx context.Context, key, scope string, body []byte, statusCode int, responseBody []byte) error {
	if key == "" {
		return nil
	}

	now := time.Now().UTC()
	record := &domain.IdempotencyRecord{
		Key:          key,
		RequestHash:  generateRequestHash(scope, body),
		StatusCode:   statusCode,
		ResponseBody: string(responseBody),
		ProcessedAt:  now,
		ExpiresAt:    now.Add(s.ttl),
	}

	created, err := s.idempotencyRepo.Create(ctx, record, s.ttl)
	if err != nil {
		logger.Error("Failed to store idempotency key %s: %v", key, err)
		return fmt.Errorf("failed to store idempotency key: %w", err)
	}
	if !created {
		logger.Info("Idempotency key %s was stored by a concurrent request", key)
		return nil
	}

	logger.Info("Stored idempotency key: %s", key)
	return nil
}

func generateRequestHash(scope string, body []byte) string {
	h := sha256.New()
	h.Write([]byte(scope))
	h.Write([]byte{0})
	h.Write(body)
	return hex.EncodeToString(h.Sum(nil))
}
