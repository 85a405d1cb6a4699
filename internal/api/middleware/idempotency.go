package middleware

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"

	"course-enrollment/internal/domain"
	"course-enrollment/pkg/logger"

	"github.com/gin-gonic/gin"
)

const (
	IdempotencyKeyHeader     = "Idempotency-Key"
	IdempotentReplayedHeader = "Idempotent-Replayed"
)

// IdempotencyStore is the part of the idempotency service the middleware needs.
type IdempotencyStore interface {
	CheckDuplicateRequest(ctx context.Context, key, scope string, body []byte) (*domain.IdempotencyRecord, bool, error)
	StoreProcessedRequest(ctx context.Context, key, scope string, body []byte, statusCode int, responseBody []byte) error
}

type capturingWriter struct {
	gin.ResponseWriter
	body bytes.Buffer
}

func (w *capturingWriter) Write(b []byte) (int, error) {
	w.body.Write(b)
	return w.ResponseWriter.Write(b)
}

func (w *capturingWriter) WriteString(s string) (int, error) {
	w.body.WriteString(s)
	return w.ResponseWriter.WriteString(s)
}

// Idempotency replays the stored response for a repeated Idempotency-Key.
// Requests without the header pass through untouched. When the store is
// unreachable the request is processed normally and nothing is recorded.
func Idempotency(store IdempotencyStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := c.GetHeader(IdempotencyKeyHeader)
		if key == "" || store == nil {
			c.Next()
			return
		}

		body, err := io.ReadAll(c.Request.Body)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
				"success": false,
				"message": "Invalid request body",
			})
			return
		}
		c.Request.Body = io.NopCloser(bytes.NewReader(body))

		scope := c.Request.Method + " " + c.FullPath()
		ctx := c.Request.Context()

		record, duplicate, err := store.CheckDuplicateRequest(ctx, key, scope, body)
		switch {
		case errors.Is(err, domain.ErrIdempotencyKeyReused):
			c.AbortWithStatusJSON(http.StatusUnprocessableEntity, gin.H{
				"success": false,
				"message": err.Error(),
			})
			return
		case err != nil:
			logger.Warn("Idempotency check failed for key %s, processing without it: %v", key, err)
			c.Next()
			return
		case duplicate:
			c.Header(IdempotentReplayedHeader, "true")
			c.Data(record.StatusCode, "application/json; charset=utf-8", []byte(record.ResponseBody))
			c.Abort()
			return
		}

		writer := &capturingWriter{ResponseWriter: c.Writer}
		c.Writer = writer

		c.Next()

		status := writer.Status()
		if status >= http.StatusInternalServerError {
			return
		}
		if err := store.StoreProcessedRequest(context.WithoutCancel(ctx), key, scope, body, status, writer.body.Bytes()); err != nil {
			logger.Warn("Failed to store idempotent response for key %s: %v", key, err)
		}
	}
}
