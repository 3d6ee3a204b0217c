// Package dispatch runs background jobs on a sharded pool of workers.
package dispatch

import (
	"context"
	"errors"
	"hash/fnv"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

const jobTimeout = 30 * time.Second

var (
	ErrQueueFull  = errors.New("job queue full")
	ErrPoolClosed = errors.New("worker pool closed")
)

var (
	jobTracer          = otel.Tracer("superlists/dispatch")
	jobMeter           = otel.Meter("superlists/dispatch")
	jobDuration, _     = jobMeter.Float64Histogram("dispatch.job.duration", metric.WithDescription("Job execution duration in seconds"), metric.WithUnit("s"))
	jobTotal, _        = jobMeter.Int64Counter("dispatch.job.total", metric.WithDescription("Total jobs executed by status"))
	jobQueueDropped, _ = jobMeter.Int64Counter("dispatch.job.queue_dropped", metric.WithDescription("Jobs dropped due to full queue"))
)

// WorkerPool runs jobs on a fixed set of workers. Each worker owns its own
// queue and a job's Key picks the worker.
type WorkerPool struct {
	queues []chan Job
	logger *log.Logger

	mu     sync.RWMutex
	closed bool

	wg     sync.WaitGroup
	ctx    context.Context
	cancel context.CancelFunc
}

// NewWorkerPool creates a pool of workerCount workers, each with a queue of
// queueSize jobs. Call Start before submitting.
func NewWorkerPool(workerCount, queueSize int, logger *log.Logger) *WorkerPool {
	if workerCount < 1 {
		workerCount = 1
	}
	if logger == nil {
		logger = log.Default()
	}

	ctx, cancel := context.WithCancel(context.Background())
	queues := make([]chan Job, workerCount)
	for i := range queues {
		queues[i] = make(chan Job, queueSize)
	}

	return &WorkerPool{
		queues: queues,
		logger: logger,
		ctx:    ctx,
		cancel: cancel,
	}
}

func (wp *WorkerPool) Start() {
	wp.logger.Debug("starting worker pool", "workers", len(wp.queues))

	for i, q := range wp.queues {
		wp.wg.Add(1)
		go wp.worker(i, q)
	}
}

func (wp *WorkerPool) worker(id int, jobs <-chan Job) {
	defer wp.wg.Done()

	for {
		select {
		case <-wp.ctx.Done():
			return
		case job, ok := <-jobs:
			if !ok {
				return
			}
			wp.processJob(id, job)
		}
	}
}

func (wp *WorkerPool) processJob(workerID int, job Job) {
	ctx, cancel := context.WithTimeout(wp.ctx, jobTimeout)
	defer cancel()

	ctx, span := jobTracer.Start(ctx, "job.execute",
		trace.WithAttributes(
			attribute.Int("worker.id", workerID),
			attribute.String("job.description", job.Description()),
			attribute.String("job.key", job.Key()),
		),
	)
	defer span.End()

	start := time.Now()
	err := job.Execute(ctx)
	jobDuration.Record(ctx, time.Since(start).Seconds())

	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		jobTotal.Add(ctx, 1, metric.WithAttributes(attribute.String("status", "error")))
		wp.logger.Warn("job failed", "worker", workerID, "job", job.Description(), "err", err)
		return
	}

	jobTotal.Add(ctx, 1, metric.WithAttributes(attribute.String("status", "success")))
	wp.logger.Debug("job done", "worker", workerID, "job", job.Description())
}

// Submit queues job without blocking. It returns ErrQueueFull when the job's
// worker is backed up and ErrPoolClosed after Shutdown.
func (wp *WorkerPool) Submit(job Job) error {
	wp.mu.RLock()
	defer wp.mu.RUnlock()

	if wp.closed {
		return ErrPoolClosed
	}

	select {
	case wp.queues[wp.shard(job.Key())] <- job:
		return nil
	default:
		jobQueueDropped.Add(context.Background(), 1)
		return ErrQueueFull
	}
}

func (wp *WorkerPool) shard(key string) int {
	h := fnv.New32a()
	h.Write([]byte(key))
	return int(h.Sum32() % uint32(len(wp.queues)))
}

// Shutdown stops accepting jobs and waits for queued ones to finish. If ctx
// expires first, running jobs are cancelled and ctx's error is returned.
func (wp *WorkerPool) Shutdown(ctx context.Context) error {
	wp.mu.Lock()
	if wp.closed {
		wp.mu.Unlock()
		return nil
	}
	wp.closed = true
	for _, q := range wp.queues {
		close(q)
	}
	wp.mu.Unlock()

	done := make(chan struct{})
	go func() {
		wp.wg.Wait()
		close(done)
	}()

	defer wp.cancel()

	select {
	case <-done:
		wp.logger.Debug("worker pool drained")
		return nil
	case <-ctx.Done():
		wp.logger.Warn("worker pool shutdown timed out, cancelling jobs")
		return ctx.Err()
	}
}
