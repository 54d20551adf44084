package pipeline

import (
	"context"
	"log/slog"
	"sync"

	"github.com/tailorflow/tailorflow/internal/models"
)

// Pool is a bounded worker pool feeding tickets to the pipeline.
// Submissions beyond queue capacity fail fast with ErrOverloaded so
// callers can retry later instead of queueing unboundedly.
type Pool struct {
	pipeline *Pipeline
	queue    chan *TicketState
	logger   *slog.Logger

	wg     sync.WaitGroup
	cancel context.CancelFunc
	once   sync.Once

	mu     sync.Mutex
	closed bool
}

// NewPool creates a pool with the given worker count and queue capacity.
func NewPool(p *Pipeline, workers, capacity int, logger *slog.Logger) *Pool {
	if workers < 1 {
		workers = 1
	}
	if capacity < 1 {
		capacity = 1
	}
	if logger == nil {
		logger = slog.Default()
	}
	pool := &Pool{
		pipeline: p,
		queue:    make(chan *TicketState, capacity),
		logger:   logger,
	}
	ctx, cancel := context.WithCancel(context.Background())
	pool.cancel = cancel
	for i := 0; i < workers; i++ {
		pool.wg.Add(1)
		go pool.worker(ctx, i)
	}
	return pool
}

func (p *Pool) worker(ctx context.Context, id int) {
	defer p.wg.Done()
	for {
		select {
		case <-ctx.Done():
			return
		case st, ok := <-p.queue:
			if !ok {
				return
			}
			p.logger.Debug("worker picked up ticket",
				"worker", id, "ticket_id", st.Ticket().ID)
			p.pipeline.Process(ctx, st)
		}
	}
}

// Enqueue hands a ticket to the pool. Fails fast when the queue is full
// or the pool has been closed.
func (p *Pool) Enqueue(st *TicketState) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return models.ErrOverloaded
	}
	select {
	case p.queue <- st:
		return nil
	default:
		return models.ErrOverloaded
	}
}

// Close stops accepting work and waits for in-flight tickets.
func (p *Pool) Close() {
	p.once.Do(func() {
		p.mu.Lock()
		p.closed = true
		p.mu.Unlock()
		close(p.queue)
		p.wg.Wait()
		p.cancel()
	})
}
