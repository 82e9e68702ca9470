// Package worker runs the single writer that applies queued mutations to
// the talker store.
//
// Exactly one goroutine loads, mutates and saves the collection, so
// read-modify-write cycles from concurrent requests never interleave.
package worker

import (
	"context"
	"fmt"
	"time"

	"github.com/okian/talker/internal/adapters/mq/queue"
	"github.com/okian/talker/internal/domain/model"
	"github.com/okian/talker/pkg/logger"
	"github.com/okian/talker/pkg/metrics"
)

// Store is the persistence the writer mutates.
type Store interface {
	Load(ctx context.Context) ([]model.Talker, error)
	Save(ctx context.Context, talkers []model.Talker) error
}

// Queue defines how the writer receives jobs.
type Queue interface {
	Dequeue(ctx context.Context) <-chan *queue.Job
	Len(ctx context.Context) int
}

// Writer drains the queue and applies each job to the store.
type Writer struct {
	queue Queue
	store Store
	name  string

	done chan struct{}

	logger logger.Logger
}

// NewWriter creates a writer with configuration options.
func NewWriter(q Queue, s Store, opts ...Option) *Writer {
	w := &Writer{
		queue:  q,
		store:  s,
		name:   "writer",
		done:   make(chan struct{}),
		logger: logger.Nop(),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Run applies jobs until the queue is closed and drained, or ctx ends.
// Jobs still queued when ctx ends are completed with ErrStopped.
func (w *Writer) Run(ctx context.Context) {
	defer close(w.done)

	jobs := w.queue.Dequeue(ctx)
	for {
		select {
		case <-ctx.Done():
			w.abandon(jobs)
			return
		case job, ok := <-jobs:
			if !ok {
				return
			}
			w.apply(ctx, job)
		}
	}
}

// Done is closed once Run has returned.
func (w *Writer) Done() <-chan struct{} {
	return w.done
}

// Shutdown waits for Run to return or ctx to end. The queue must have been
// closed (or Run's context cancelled) beforehand.
func (w *Writer) Shutdown(ctx context.Context) error {
	select {
	case <-w.done:
		return nil
	case <-ctx.Done():
		w.logger.Warn(ctx, "writer shutdown timed out", logger.String("writer", w.name))
		return fmt.Errorf("writer shutdown timed out: %w", ctx.Err())
	}
}

// apply runs one load-mutate-save cycle and reports the outcome to the job.
func (w *Writer) apply(ctx context.Context, job *queue.Job) {
	start := time.Now()
	result, err := w.cycle(ctx, job)
	elapsed := time.Since(start)

	metrics.RecordWriterJob(err, float64(elapsed.Microseconds())/1000)
	metrics.UpdateWriteQueueSize(w.queue.Len(ctx))

	if err != nil {
		w.logger.Error(ctx, "mutation failed",
			logger.String("job_id", job.ID),
			logger.String("op", job.Op),
			logger.Error(err),
		)
	} else {
		w.logger.Debug(ctx, "mutation applied",
			logger.String("job_id", job.ID),
			logger.String("op", job.Op),
			logger.Int("talker_id", result.ID),
			logger.Duration("queued", start.Sub(job.Enqueued)),
			logger.Duration("took", elapsed),
		)
	}
	job.Complete(queue.Result{Talker: result, Err: err})
}

func (w *Writer) cycle(ctx context.Context, job *queue.Job) (model.Talker, error) {
	current, err := w.store.Load(ctx)
	if err != nil {
		return model.Talker{}, err
	}
	next, result, err := job.Mutate(current)
	if err != nil {
		return model.Talker{}, err
	}
	if next != nil {
		if err := w.store.Save(ctx, next); err != nil {
			return model.Talker{}, err
		}
	}
	return result, nil
}

// abandon completes every job already buffered without blocking.
func (w *Writer) abandon(jobs <-chan *queue.Job) {
	for {
		select {
		case job, ok := <-jobs:
			if !ok {
				return
			}
			job.Complete(queue.Result{Err: ErrStopped})
		default:
			return
		}
	}
}
