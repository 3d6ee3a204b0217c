package dispatch

import (
	"context"

	"superlists/internal/domain/list"
)

// AsyncPublisher hands events to a WorkerPool so requests never wait on the
// downstream publisher. Events for one list are delivered in order.
type AsyncPublisher struct {
	pool *WorkerPool
	next list.Publisher
}

func NewAsyncPublisher(pool *WorkerPool, next list.Publisher) *AsyncPublisher {
	return &AsyncPublisher{pool: pool, next: next}
}

// Publish queues event. The error reports only whether it was queued.
func (p *AsyncPublisher) Publish(_ context.Context, event list.Event) error {
	return p.pool.Submit(publishJob{publisher: p.next, event: event})
}
