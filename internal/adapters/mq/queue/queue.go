// Package queue holds the bounded FIFO of store mutations waiting for the
// single writer.
package queue

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/okian/talker/internal/domain/model"
	"github.com/okian/talker/pkg/metrics"
)

// Default queue configuration constants.
const (
	defaultCapacity = 64
)

// Mutation derives the next collection from the current one. It also
// returns the talker reported back to the caller. A nil next collection
// means nothing changed and the store is not rewritten; an error aborts
// the job without saving.
type Mutation func(current []model.Talker) (next []model.Talker, result model.Talker, err error)

// Result is the outcome of a job.
type Result struct {
	Talker model.Talker
	Err    error
}

// Job is one mutation travelling through the queue.
type Job struct {
	ID       string
	Op       string
	Mutate   Mutation
	Enqueued time.Time

	done chan Result
}

// NewJob wraps m into a job labelled op (e.g. "create", "update").
func NewJob(op string, m Mutation) *Job {
	return &Job{
		ID:     uuid.NewString(),
		Op:     op,
		Mutate: m,
		done:   make(chan Result, 1),
	}
}

// Complete delivers the job result. Only the first call has an effect.
func (j *Job) Complete(r Result) {
	select {
	case j.done <- r:
	default:
	}
}

// Wait blocks until the job completes or ctx ends.
func (j *Job) Wait(ctx context.Context) (model.Talker, error) {
	select {
	case r := <-j.done:
		return r.Talker, r.Err
	case <-ctx.Done():
		return model.Talker{}, ctx.Err()
	}
}

// Queue provides non-blocking enqueue and channel-based dequeue semantics.
type Queue interface {
	// Enqueue adds a job. It returns ErrFull or ErrClosed without blocking.
	Enqueue(ctx context.Context, j *Job) error

	// Dequeue returns the channel jobs arrive on. It is closed by Close.
	Dequeue(ctx context.Context) <-chan *Job

	// Len returns the number of waiting jobs.
	Len(ctx context.Context) int

	// Cap returns the queue capacity.
	Cap() int

	// Close stops accepting jobs; already queued jobs stay readable.
	Close() error

	// IsClosed returns true if the queue has been closed.
	IsClosed() bool
}

// InMemoryQueue implements Queue using a buffered channel.
type InMemoryQueue struct {
	jobs     chan *Job
	capacity int

	mu     sync.RWMutex
	closed bool
}

// NewInMemoryQueue creates a new in-memory queue with configuration options.
func NewInMemoryQueue(opts ...Option) *InMemoryQueue {
	q := &InMemoryQueue{capacity: defaultCapacity}
	for _, opt := range opts {
		opt(q)
	}
	q.jobs = make(chan *Job, q.capacity)

	metrics.UpdateWriteQueueCapacity(q.capacity)
	metrics.UpdateWriteQueueSize(0)
	return q
}

// Enqueue adds a job to the queue.
func (q *InMemoryQueue) Enqueue(ctx context.Context, j *Job) error {
	q.mu.RLock()
	defer q.mu.RUnlock()

	if q.closed {
		metrics.RecordWriteQueueRejected("closed")
		return ErrClosed
	}
	if err := ctx.Err(); err != nil {
		metrics.RecordWriteQueueRejected("context_cancelled")
		return err
	}

	j.Enqueued = time.Now()
	select {
	case q.jobs <- j:
		metrics.UpdateWriteQueueSize(len(q.jobs))
		return nil
	default:
		metrics.RecordWriteQueueRejected("full")
		return ErrFull
	}
}

// Dequeue returns the channel jobs are delivered on.
func (q *InMemoryQueue) Dequeue(_ context.Context) <-chan *Job {
	return q.jobs
}

// Len returns the current number of queued jobs.
func (q *InMemoryQueue) Len(_ context.Context) int {
	size := len(q.jobs)
	metrics.UpdateWriteQueueSize(size)
	return size
}

// Cap returns the queue capacity.
func (q *InMemoryQueue) Cap() int {
	return q.capacity
}

// Close gracefully shuts down the queue.
func (q *InMemoryQueue) Close() error {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return nil
	}
	close(q.jobs)
	q.closed = true
	return nil
}

// IsClosed returns true if the queue has been closed.
func (q *InMemoryQueue) IsClosed() bool {
	q.mu.RLock()
	defer q.mu.RUnlock()
	return q.closed
}
