// Package service provides the core business service that implements
// the dependencies required by the HTTP API.
package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/okian/talker/internal/adapters/mq/queue"
	"github.com/okian/talker/internal/adapters/mq/worker"
	"github.com/okian/talker/internal/adapters/repository"
	"github.com/okian/talker/internal/domain/model"
	"github.com/okian/talker/internal/domain/token"
	"github.com/okian/talker/pkg/logger"
	"github.com/okian/talker/pkg/metrics"
)

const (
	defaultStorePath  = "talker.json"
	defaultQueueSize  = 64
	writerStopTimeout = 10 * time.Second
	statsLoadTimeout  = 2 * time.Second
	mutationCreate    = "create"
	mutationUpdate    = "update"
)

// Service implements the API dependencies for the talker manager.
type Service struct {
	mu sync.RWMutex

	// Core components
	store  repository.Store
	queue  *queue.InMemoryQueue
	writer *worker.Writer
	tokens *token.Generator

	// Configuration
	queueSize    int
	strictUpdate bool

	// State
	started bool
	cancel  context.CancelFunc

	// Logging
	logger logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithStore sets the talker store.
func WithStore(store repository.Store) Option {
	return func(s *Service) {
		if store != nil {
			s.store = store
		}
	}
}

// WithQueueSize sets the maximum number of waiting mutations.
func WithQueueSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.queueSize = size
		}
	}
}

// WithStrictUpdate makes Update fail with ErrNotFound for unknown ids
// instead of answering with the would-be record.
func WithStrictUpdate(strict bool) Option {
	return func(s *Service) {
		s.strictUpdate = strict
	}
}

// WithTokenGenerator sets the login token source.
func WithTokenGenerator(g *token.Generator) Option {
	return func(s *Service) {
		if g != nil {
			s.tokens = g
		}
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// New constructs a new Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		store:     repository.NewFileStore(defaultStorePath),
		tokens:    token.NewGenerator(),
		queueSize: defaultQueueSize,
		logger:    nil, // resolved in Start
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start launches the single writer.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}
	if s.logger == nil {
		s.logger = logger.Get().Named("service")
	}

	s.queue = queue.NewInMemoryQueue(queue.WithCapacity(s.queueSize))
	s.writer = worker.NewWriter(s.queue, s.store,
		worker.WithLogger(s.logger.Named("writer")),
	)

	// The writer outlives request and signal contexts; Stop ends it.
	runCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	s.cancel = cancel
	go s.writer.Run(runCtx)

	s.started = true
	s.logger.Info(ctx, "talker service started",
		logger.Int("queueSize", s.queueSize),
		logger.Bool("strictUpdate", s.strictUpdate),
	)
	return nil
}

// Stop closes the write queue, lets the writer drain it and waits for it.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}
	ctx := context.Background()
	s.logger.Info(ctx, "stopping talker service...")

	_ = s.queue.Close()
	stopCtx, cancel := context.WithTimeout(ctx, writerStopTimeout)
	defer cancel()
	if err := s.writer.Shutdown(stopCtx); err != nil {
		s.logger.Error(ctx, "writer did not stop cleanly", logger.Error(err))
	}
	s.cancel()

	s.started = false
	s.logger.Info(ctx, "talker service stopped")
}

// List returns every talker in insertion order.
func (s *Service) List(ctx context.Context) ([]model.Talker, error) {
	return s.store.Load(ctx)
}

// Get returns the talker with id or an error wrapping ErrNotFound.
func (s *Service) Get(ctx context.Context, id int) (model.Talker, error) {
	talkers, err := s.store.Load(ctx)
	if err != nil {
		return model.Talker{}, err
	}
	t, err := repository.Find(talkers, id)
	if err != nil {
		return model.Talker{}, fmt.Errorf("talker %d: %w", id, err)
	}
	return t, nil
}

// Create appends a talker with id len(store)+1.
func (s *Service) Create(ctx context.Context, f model.TalkerFields) (model.Talker, error) {
	return s.submit(ctx, mutationCreate, func(current []model.Talker) ([]model.Talker, model.Talker, error) {
		created := f.WithID(len(current) + 1)
		return append(current, created), created, nil
	})
}

// Update replaces the talker with id by a record built from f. Unknown ids
// leave the store untouched; they fail with ErrNotFound only in strict mode.
func (s *Service) Update(ctx context.Context, id int, f model.TalkerFields) (model.Talker, error) {
	strict := s.strictUpdate
	return s.submit(ctx, mutationUpdate, func(current []model.Talker) ([]model.Talker, model.Talker, error) {
		updated := f.WithID(id)
		for i := range current {
			if current[i].ID == id {
				current[i] = updated
				return current, updated, nil
			}
		}
		if strict {
			return nil, model.Talker{}, fmt.Errorf("talker %d: %w", id, ErrNotFound)
		}
		return nil, updated, nil
	})
}

// IssueToken returns a new session token.
func (s *Service) IssueToken(_ context.Context) (string, error) {
	tok, err := s.tokens.New()
	if err != nil {
		return "", err
	}
	metrics.RecordTokenIssued()
	return tok, nil
}

// submit hands a mutation to the writer and waits for its outcome.
func (s *Service) submit(ctx context.Context, op string, m queue.Mutation) (model.Talker, error) {
	s.mu.RLock()
	started, q := s.started, s.queue
	s.mu.RUnlock()
	if !started {
		return model.Talker{}, ErrNotStarted
	}

	job := queue.NewJob(op, m)
	if err := q.Enqueue(ctx, job); err != nil {
		switch {
		case errors.Is(err, queue.ErrFull):
			return model.Talker{}, fmt.Errorf("%s: %w", op, ErrBackpressure)
		case errors.Is(err, queue.ErrClosed):
			return model.Talker{}, fmt.Errorf("%s: %w", op, ErrNotStarted)
		default:
			return model.Talker{}, err
		}
	}
	return job.Wait(ctx)
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats(ctx context.Context) map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := map[string]interface{}{
		"started":       s.started,
		"queueCapacity": s.queueSize,
		"strictUpdate":  s.strictUpdate,
	}
	if s.started {
		stats["queueLength"] = s.queue.Len(ctx)
	}

	loadCtx, cancel := context.WithTimeout(ctx, statsLoadTimeout)
	defer cancel()
	if talkers, err := s.store.Load(loadCtx); err != nil {
		stats["storeError"] = err.Error()
	} else {
		stats["talkers"] = len(talkers)
	}
	return stats
}
