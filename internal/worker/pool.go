// Package worker implements the buffered worker pool for async recording of
// interaction events (game completions, challenge completions, QR scans).
// Ledger mutations stay synchronous in the handlers; this pool only feeds
// the analytics sink and the relational records, so a dropped event never
// loses points.
package worker

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/ClickHouse/clickhouse-go/v2/lib/driver"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/synqtra/synqtra-api/internal/models"
)

// Prometheus metrics
var (
	eventsIngested = promauto.NewCounter(prometheus.CounterOpts{
		Name: "synqtra_events_ingested_total",
		Help: "Total number of interaction events enqueued",
	})

	eventsProcessed = promauto.NewCounter(prometheus.CounterOpts{
		Name: "synqtra_events_processed_total",
		Help: "Total number of interaction events processed by workers",
	})

	eventsFailed = promauto.NewCounter(prometheus.CounterOpts{
		Name: "synqtra_events_failed_total",
		Help: "Total number of interaction events that failed processing",
	})

	eventsDropped = promauto.NewCounter(prometheus.CounterOpts{
		Name: "synqtra_events_dropped_total",
		Help: "Total number of interaction events dropped",
	})

	queueDepth = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "synqtra_worker_queue_depth",
		Help: "Current depth of the worker queue",
	})

	batchInsertDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "synqtra_batch_insert_duration_seconds",
		Help:    "Duration of batch inserts to ClickHouse",
		Buckets: prometheus.DefBuckets,
	})
)

// Job represents a unit of work for the worker pool
type Job struct {
	Event     *models.InteractionEvent
	RawJSON   string
	Timestamp time.Time
}

// PoolConfig configures the worker pool
type PoolConfig struct {
	WorkerCount   int
	QueueSize     int
	BatchSize     int
	FlushInterval time.Duration
	ClickHouse    driver.Conn
	Postgres      *pgxpool.Pool
	Redis         *redis.Client
	Logger        *zap.Logger
}

// Pool manages a pool of workers for async event recording
type Pool struct {
	config   PoolConfig
	jobQueue chan Job
	wg       sync.WaitGroup
	ctx      context.Context
	cancel   context.CancelFunc
	logger   *zap.SugaredLogger
}

// NewPool creates a new worker pool
func NewPool(cfg PoolConfig) *Pool {
	if cfg.WorkerCount <= 0 {
		cfg.WorkerCount = 4
	}
	if cfg.QueueSize <= 0 {
		cfg.QueueSize = 1000
	}
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = 100
	}
	if cfg.FlushInterval <= 0 {
		cfg.FlushInterval = time.Second
	}

	pool := &Pool{
		config:   cfg,
		jobQueue: make(chan Job, cfg.QueueSize),
		logger:   cfg.Logger.Sugar(),
	}
	// Enqueue before Start must not dereference a nil context
	pool.ctx, pool.cancel = context.WithCancel(context.Background())
	return pool
}

// Start launches the worker goroutines
func (p *Pool) Start(ctx context.Context) {
	p.ctx, p.cancel = context.WithCancel(ctx)

	for i := 0; i < p.config.WorkerCount; i++ {
		p.wg.Add(1)
		go p.worker(i)
	}

	go p.reportQueueDepth()

	p.logger.Infow("Worker pool started",
		"workers", p.config.WorkerCount,
		"queueSize", p.config.QueueSize,
		"batchSize", p.config.BatchSize,
	)
}

// Stop gracefully shuts down the worker pool, flushing pending batches
func (p *Pool) Stop() {
	p.logger.Info("Stopping worker pool...")
	p.cancel()
	close(p.jobQueue)
	p.wg.Wait()
	p.logger.Info("Worker pool stopped")
}

// Enqueue adds an event to the queue. Returns false when the pool is
// shutting down or the queue is saturated.
func (p *Pool) Enqueue(event *models.InteractionEvent) bool {
	rawJSON, _ := json.Marshal(event)

	job := Job{
		Event:     event,
		RawJSON:   string(rawJSON),
		Timestamp: time.Now(),
	}

	// Protect against sending on closed channel
	defer func() {
		if r := recover(); r != nil {
			p.logger.Warnw("Failed to enqueue event (pool stopped)", "error", r)
		}
	}()

	select {
	case <-p.ctx.Done():
		eventsDropped.Inc()
		return false
	default:
	}

	select {
	case p.jobQueue <- job:
		eventsIngested.Inc()
		return true
	default:
		p.logger.Warnw("Worker queue full, dropping event", "type", event.Type)
		eventsDropped.Inc()
		return false
	}
}

// QueueDepth returns current queue size
func (p *Pool) QueueDepth() int {
	return len(p.jobQueue)
}

// worker processes jobs from the queue in batches
func (p *Pool) worker(id int) {
	defer p.wg.Done()

	batch := make([]Job, 0, p.config.BatchSize)
	ticker := time.NewTicker(p.config.FlushInterval)
	defer ticker.Stop()

	flush := func() {
		if len(batch) == 0 {
			return
		}

		start := time.Now()
		if err := p.processBatch(batch); err != nil {
			p.logger.Errorw("Batch processing failed",
				"worker", id,
				"batchSize", len(batch),
				"error", err,
			)
			eventsFailed.Add(float64(len(batch)))
		} else {
			eventsProcessed.Add(float64(len(batch)))
		}
		batchInsertDuration.Observe(time.Since(start).Seconds())

		batch = batch[:0]
	}

	for {
		select {
		case job, ok := <-p.jobQueue:
			if !ok {
				flush()
				return
			}

			batch = append(batch, job)
			if len(batch) >= p.config.BatchSize {
				flush()
			}

		case <-ticker.C:
			flush()

		case <-p.ctx.Done():
			// Keep draining until Stop closes the queue so already
			// accepted events are not lost on shutdown.
			for job := range p.jobQueue {
				batch = append(batch, job)
				if len(batch) >= p.config.BatchSize {
					flush()
				}
			}
			flush()
			return
		}
	}
}

// processBatch sends a batch to ClickHouse, then applies relational and
// Redis side effects.
func (p *Pool) processBatch(batch []Job) error {
	if len(batch) == 0 {
		return nil
	}

	// No analytics sink configured; events are observed via metrics only.
	if p.config.ClickHouse == nil {
		return nil
	}

	ctx := context.Background()

	chBatch, err := p.config.ClickHouse.PrepareBatch(ctx, `
		INSERT INTO synqtra.interaction_events (
			timestamp, event_type, wallet, counterparty, ref_id, points, raw_json
		)
	`)
	if err != nil {
		return err
	}

	for _, job := range batch {
		event := job.Event

		ts := event.Timestamp
		if ts.IsZero() {
			ts = job.Timestamp
		}

		if err := chBatch.Append(
			ts,
			string(event.Type),
			event.Wallet,
			event.Counterparty,
			event.RefID,
			event.Points,
			job.RawJSON,
		); err != nil {
			p.logger.Warnw("Failed to append event to batch", "error", err, "type", event.Type)
			continue
		}
	}

	// Side effects run against a copy because the slice is reused by the
	// worker loop.
	batchCopy := make([]Job, len(batch))
	copy(batchCopy, batch)
	go p.processBatchSideEffects(ctx, batchCopy)

	if err := chBatch.Send(); err != nil {
		p.logger.Errorw("Failed to send batch to ClickHouse", "error", err, "batchSize", len(batch))
		return err
	}

	return nil
}

// processBatchSideEffects records QR scan connections in Postgres and bumps
// per-type event counters in Redis. Challenge completion rows are written
// synchronously by the handler; the pool never touches them.
func (p *Pool) processBatchSideEffects(ctx context.Context, batch []Job) {
	pipe := p.config.Redis.Pipeline()

	for _, job := range batch {
		event := job.Event
		pipe.Incr(ctx, "synqtra:events:"+string(event.Type))

		if event.Type == models.EventQRScan {
			p.recordConnection(ctx, event)
		}
	}

	if _, err := pipe.Exec(ctx); err != nil && err != redis.Nil {
		p.logger.Errorw("Redis pipeline failed", "error", err)
	}
}

// recordConnection writes a QR scan connection row
func (p *Pool) recordConnection(ctx context.Context, event *models.InteractionEvent) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	_, err := p.config.Postgres.Exec(ctx, `
		INSERT INTO connections (id, from_wallet, to_wallet, challenge_id, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`, uuid.New(), event.Wallet, event.Counterparty, event.RefID, event.Timestamp)

	if err != nil {
		p.logger.Warnw("Failed to record connection",
			"from", event.Wallet, "to", event.Counterparty, "error", err)
	}
}

func (p *Pool) reportQueueDepth() {
	ticker := time.NewTicker(5 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			queueDepth.Set(float64(len(p.jobQueue)))
		case <-p.ctx.Done():
			return
		}
	}
}
