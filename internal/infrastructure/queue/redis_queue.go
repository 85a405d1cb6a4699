package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"course-enrollment/internal/domain/enrollment"
	"course-enrollment/pkg/logger"

	"github.com/go-redis/redis/v8"
)

const (
	SeatSyncQueueKeyPrefix = "queue:seat_sync"
	DefaultDequeueTimeout  = 2 * time.Second
	WorkerSleepDuration    = 50 * time.Millisecond
)

// RedisQueue keeps pending jobs in Redis lists, one list per shard, so they
// survive a restart of the enrollment service.
type RedisQueue struct {
	client         redis.UniversalClient
	updater        CourseUpdater
	shards         int
	jobTimeout     time.Duration
	dequeueTimeout time.Duration

	ctx     context.Context
	cancel  context.CancelFunc
	wg      sync.WaitGroup
	started bool
	mu      sync.Mutex
}

var _ enrollment.SeatCountPropagator = (*RedisQueue)(nil)

func NewRedisQueue(client redis.UniversalClient, updater CourseUpdater, workers int, jobTimeout time.Duration) *RedisQueue {
	if workers <= 0 {
		workers = 1
	}
	if jobTimeout <= 0 {
		jobTimeout = DefaultJobTimeout
	}

	ctx, cancel := context.WithCancel(context.Background())
	return &RedisQueue{
		client:         client,
		updater:        updater,
		shards:         workers,
		jobTimeout:     jobTimeout,
		dequeueTimeout: DefaultDequeueTimeout,
		ctx:            ctx,
		cancel:         cancel,
	}
}

func (rq *RedisQueue) shardKey(shard int) string {
	return fmt.Sprintf("%s:%d", SeatSyncQueueKeyPrefix, shard)
}

func (rq *RedisQueue) StartWorkers() {
	rq.mu.Lock()
	defer rq.mu.Unlock()

	if rq.started {
		return
	}

	logger.Info("Starting %d Redis seat sync workers", rq.shards)
	for i := 0; i < rq.shards; i++ {
		rq.wg.Add(1)
		go rq.worker(i)
	}
	rq.started = true
}

func (rq *RedisQueue) StopWorkers() {
	rq.mu.Lock()
	defer rq.mu.Unlock()

	if !rq.started {
		return
	}

	logger.Info("Stopping Redis seat sync workers...")
	rq.cancel()
	rq.wg.Wait()
	rq.started = false
	logger.Info("Redis seat sync workers stopped")
}

func (rq *RedisQueue) Enqueue(ctx context.Context, job SeatSyncJob) error {
	if job.EnqueuedAt.IsZero() {
		job.EnqueuedAt = time.Now().UTC()
	}

	data, err := json.Marshal(job)
	if err != nil {
		return fmt.Errorf("failed to marshal seat sync job: %w", err)
	}

	key := rq.shardKey(shardFor(job.CourseID, rq.shards))
	if err := rq.client.LPush(ctx, key, data).Err(); err != nil {
		return fmt.Errorf("failed to enqueue seat sync job: %w", err)
	}

	logger.Debug("Enqueued seat sync job %s on %s", job, key)
	return nil
}

// Dequeue blocks up to the dequeue timeout; it returns nil, nil when the shard stayed empty.
func (rq *RedisQueue) Dequeue(ctx context.Context, shard int) (*SeatSyncJob, error) {
	result, err := rq.client.BRPop(ctx, rq.dequeueTimeout, rq.shardKey(shard)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to dequeue seat sync job: %w", err)
	}

	var job SeatSyncJob
	if err := json.Unmarshal([]byte(result[1]), &job); err != nil {
		return nil, fmt.Errorf("failed to unmarshal seat sync job: %w", err)
	}
	return &job, nil
}

func (rq *RedisQueue) Propagate(ctx context.Context, courseID string, enrolled int) {
	if err := rq.Enqueue(context.WithoutCancel(ctx), SeatSyncJob{CourseID: courseID, Enrolled: enrolled}); err != nil {
		logger.Warn("Dropping seat count update for course %s (enrolled=%d): %v", courseID, enrolled, err)
	}
}

func (rq *RedisQueue) worker(shard int) {
	defer rq.wg.Done()

	logger.Debug("Redis seat sync worker %d started", shard)
	for {
		select {
		case <-rq.ctx.Done():
			logger.Debug("Redis seat sync worker %d stopped", shard)
			return
		default:
		}

		job, err := rq.Dequeue(rq.ctx, shard)
		if err != nil {
			if rq.ctx.Err() != nil {
				continue
			}
			logger.Error("Redis seat sync worker %d error: %v", shard, err)
			time.Sleep(WorkerSleepDuration)
			continue
		}
		if job == nil {
			continue
		}

		process(rq.ctx, rq.updater, rq.jobTimeout, shard, *job)
	}
}
