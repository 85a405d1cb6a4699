// Package queue runs seat-count propagation off the request path. Jobs for
// one course always land on the same worker, so updates to a course are
// applied in the order they were enqueued.
package queue

import (
	"context"
	"errors"
	"fmt"
	"hash/fnv"
	"sync"
	"time"

	"course-enrollment/internal/domain/enrollment"
	"course-enrollment/pkg/logger"
)

const DefaultJobTimeout = 10 * time.Second

// ErrQueueFull is returned by Enqueue when the course's shard has no room.
var ErrQueueFull = errors.New("seat sync queue is full")

// SeatSyncJob asks the catalog to set a course's enrolled count.
type SeatSyncJob struct {
	CourseID   string    `json:"course_id"`
	Enrolled   int       `json:"enrolled"`
	EnqueuedAt time.Time `json:"enqueued_at"`
}

// CourseUpdater applies a job. The catalog HTTP client satisfies it.
type CourseUpdater interface {
	UpdateEnrolled(ctx context.Context, courseID string, enrolled int) error
}

func shardFor(courseID string, shards int) int {
	h := fnv.New32a()
	h.Write([]byte(courseID))
	return int(h.Sum32() % uint32(shards))
}

// Queue is the in-memory propagation queue: one buffered channel and one
// worker per shard.
type Queue struct {
	shards     []chan SeatSyncJob
	updater    CourseUpdater
	jobTimeout time.Duration

	ctx     context.Context
	cancel  context.CancelFunc
	wg      sync.WaitGroup
	started bool
	mu      sync.Mutex
}

var _ enrollment.SeatCountPropagator = (*Queue)(nil)

func NewInMemoryQueue(updater CourseUpdater, bufferSize, workers int, jobTimeout time.Duration) *Queue {
	if workers <= 0 {
		workers = 1
	}
	if bufferSize <= 0 {
		bufferSize = 1
	}
	if jobTimeout <= 0 {
		jobTimeout = DefaultJobTimeout
	}

	ctx, cancel := context.WithCancel(context.Background())
	shards := make([]chan SeatSyncJob, workers)
	for i := range shards {
		shards[i] = make(chan SeatSyncJob, bufferSize)
	}

	return &Queue{
		shards:     shards,
		updater:    updater,
		jobTimeout: jobTimeout,
		ctx:        ctx,
		cancel:     cancel,
	}
}

func (q *Queue) StartWorkers() {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.started {
		return
	}

	logger.Info("Starting %d seat sync workers", len(q.shards))
	for i := range q.shards {
		q.wg.Add(1)
		go q.worker(i)
	}
	q.started = true
}

// StopWorkers stops the workers; jobs still buffered are dropped and logged.
func (q *Queue) StopWorkers() {
	q.mu.Lock()
	defer q.mu.Unlock()

	if !q.started {
		return
	}

	logger.Info("Stopping seat sync workers...")
	q.cancel()
	q.wg.Wait()
	q.started = false

	dropped := 0
	for _, shard := range q.shards {
		dropped += len(shard)
	}
	if dropped > 0 {
		logger.Warn("Dropped %d pending seat sync jobs on shutdown", dropped)
	}
	logger.Info("Seat sync workers stopped")
}

func (q *Queue) Enqueue(ctx context.Context, job SeatSyncJob) error {
	if job.EnqueuedAt.IsZero() {
		job.EnqueuedAt = time.Now().UTC()
	}

	select {
	case q.shards[shardFor(job.CourseID, len(q.shards))] <- job:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	default:
		return ErrQueueFull
	}
}

// Propagate enqueues the update and returns at once. A job that cannot be
// queued is logged and dropped; the next delete recount repairs the drift.
func (q *Queue) Propagate(ctx context.Context, courseID string, enrolled int) {
	if err := q.Enqueue(context.WithoutCancel(ctx), SeatSyncJob{CourseID: courseID, Enrolled: enrolled}); err != nil {
		logger.Warn("Dropping seat count update for course %s (enrolled=%d): %v", courseID, enrolled, err)
	}
}

func (q *Queue) worker(shard int) {
	defer q.wg.Done()

	logger.Debug("Seat sync worker %d started", shard)
	for {
		select {
		case <-q.ctx.Done():
			logger.Debug("Seat sync worker %d stopped", shard)
			return
		case job := <-q.shards[shard]:
			process(q.ctx, q.updater, q.jobTimeout, shard, job)
		}
	}
}

// process applies one job. Shared by the in-memory and Redis queues.
func process(parent context.Context, updater CourseUpdater, timeout time.Duration, workerID int, job SeatSyncJob) {
	ctx, cancel := context.WithTimeout(parent, timeout)
	defer cancel()

	if err := updater.UpdateEnrolled(ctx, job.CourseID, job.Enrolled); err != nil {
		logger.Error("Worker %d failed to update enrolled count for course %s to %d: %v",
			workerID, job.CourseID, job.Enrolled, err)
		return
	}
	logger.Debug("Worker %d set enrolled=%d for course %s", workerID, job.Enrolled, job.CourseID)
}

// String is used in logs.
func (j SeatSyncJob) String() string {
	return fmt.Sprintf("course=%s enrolled=%d", j.CourseID, j.Enrolled)
}
