// Package dispatcher implements the bounded worker pool that fans
// enqueued lifecycle commands out across N workers, enforcing a global
// concurrency ceiling and a per-tenant fairness ceiling before ever
// calling into internal/lifecycle.
package dispatcher

import (
	"context"
	"errors"
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	"payment-gateway-core/internal/core/ports"
	"payment-gateway-core/pkg/apperror"

	"github.com/rs/zerolog"
	"golang.org/x/sync/semaphore"
)

const (
	defaultQueueCapacity    = 10_000
	defaultTenantCapacity   = 5
	defaultTeamAcquireDelay = 100 * time.Millisecond
	retrySweepPeriod        = 10 * time.Second
)

// Options configures a Dispatcher. Zero-valued fields fall back to the
// spec's documented defaults.
type Options struct {
	Workers                       int   // default runtime.NumCPU()
	QueueCapacity                 int   // default 10,000
	GlobalCapacity                int64 // default 2 * Workers
	PerTenantCapacity             int64 // default 5
	AllowConcurrentTeamProcessing bool
	MaxRetries                    int // default 3
}

func (o Options) withDefaults() Options {
	if o.Workers <= 0 {
		o.Workers = runtime.NumCPU()
	}
	if o.QueueCapacity <= 0 {
		o.QueueCapacity = defaultQueueCapacity
	}
	if o.GlobalCapacity <= 0 {
		o.GlobalCapacity = int64(2 * o.Workers)
	}
	if o.PerTenantCapacity <= 0 {
		o.PerTenantCapacity = defaultTenantCapacity
	}
	if o.MaxRetries <= 0 {
		o.MaxRetries = 3
	}
	return o
}

// job is one queued unit of work: a closure over a specific lifecycle
// call, plus the bookkeeping the dispatcher needs to enforce fairness,
// retries, and cancellation.
type job struct {
	teamSlug  string
	paymentID string
	execute   func(ctx context.Context) error
	ctx       context.Context
	cancel    context.CancelFunc
	done      chan error
	attempt   int
}

// Future is the caller's handle on an enqueued job's eventual outcome.
type Future struct {
	paymentID string
	done      chan error
	cancel    context.CancelFunc
	d         *Dispatcher
}

// Wait blocks until the job completes (successfully, terminally failed,
// or cancelled) or ctx is done first.
func (f *Future) Wait(ctx context.Context) error {
	select {
	case err := <-f.done:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Cancel propagates a cancellation signal into the job's context. An
// in-flight lifecycle call is interrupted at its next suspension point;
// the in-memory processing status for paymentID is marked CANCELLED,
// but the persisted payment status changes only if the lifecycle call
// already reached and committed its transaction.
func (f *Future) Cancel() {
	f.cancel()
	f.d.processing.Store(f.paymentID, "CANCELLED")
}

type retryEntry struct {
	job           *job
	nextAttemptAt time.Time
}

// Dispatcher is the bounded FIFO + worker pool described in spec.md
// §4.5. Build one with New, then call Start before Enqueue-ing work.
type Dispatcher struct {
	opts Options

	queue      chan *job
	globalSem  *semaphore.Weighted
	tenantMu   sync.Mutex
	tenantSems map[string]*semaphore.Weighted

	retryMu sync.Mutex
	retries map[string]*retryEntry

	processing sync.Map // paymentID -> status string

	queueLength int64 // atomic; mirrors payment_processing_queue_length gauge

	clock   ports.Clock
	metrics ports.MetricsSink
	log     zerolog.Logger

	stopCh chan struct{}
	wg     sync.WaitGroup
}

// New constructs a Dispatcher. Call Start to launch its workers and
// retry sweeper.
func New(opts Options, clock ports.Clock, metrics ports.MetricsSink, log zerolog.Logger) *Dispatcher {
	opts = opts.withDefaults()
	return &Dispatcher{
		opts:       opts,
		queue:      make(chan *job, opts.QueueCapacity),
		globalSem:  semaphore.NewWeighted(opts.GlobalCapacity),
		tenantSems: make(map[string]*semaphore.Weighted),
		retries:    make(map[string]*retryEntry),
		clock:      clock,
		metrics:    metrics,
		log:        log,
		stopCh:     make(chan struct{}),
	}
}

// Start launches the worker pool and the retry sweeper. It returns
// immediately; workers and the sweeper run until Stop is called.
func (d *Dispatcher) Start() {
	for i := 0; i < d.opts.Workers; i++ {
		d.wg.Add(1)
		go d.runWorker()
	}
	d.wg.Add(1)
	go d.runRetrySweeper()
}

// Stop signals workers and the sweeper to exit and waits for them.
func (d *Dispatcher) Stop() {
	close(d.stopCh)
	d.wg.Wait()
}

// Enqueue submits execute for asynchronous processing under teamSlug's
// fairness ceiling, blocking if the queue is at capacity (spec.md
// §4.5's "writers block when full").
func (d *Dispatcher) Enqueue(ctx context.Context, teamSlug, paymentID string, execute func(ctx context.Context) error) (*Future, error) {
	jobCtx, cancel := context.WithCancel(context.Background())
	j := &job{
		teamSlug:  teamSlug,
		paymentID: paymentID,
		execute:   execute,
		ctx:       jobCtx,
		cancel:    cancel,
		done:      make(chan error, 1),
	}
	d.processing.Store(paymentID, "QUEUED")

	select {
	case d.queue <- j:
		d.incQueueLength()
		return &Future{paymentID: paymentID, done: j.done, cancel: cancel, d: d}, nil
	case <-ctx.Done():
		cancel()
		d.processing.Delete(paymentID)
		return nil, ctx.Err()
	}
}

func (d *Dispatcher) incQueueLength() {
	n := atomic.AddInt64(&d.queueLength, 1)
	d.metrics.SetGauge("payment_processing_queue_length", float64(n), nil)
}

func (d *Dispatcher) decQueueLength() {
	n := atomic.AddInt64(&d.queueLength, -1)
	d.metrics.SetGauge("payment_processing_queue_length", float64(n), nil)
}

// ProcessingStatus reports the in-memory processing status of paymentID,
// if the dispatcher has any record of it.
func (d *Dispatcher) ProcessingStatus(paymentID string) (string, bool) {
	v, ok := d.processing.Load(paymentID)
	if !ok {
		return "", false
	}
	return v.(string), true
}

func (d *Dispatcher) runWorker() {
	defer d.wg.Done()
	for {
		select {
		case <-d.stopCh:
			return
		case j := <-d.queue:
			d.decQueueLength()
			d.process(j)
		}
	}
}

// process implements steps 2-6 of spec.md §4.5 for one drained job.
func (d *Dispatcher) process(j *job) {
	d.processing.Store(j.paymentID, "PROCESSING")

	if err := d.globalSem.Acquire(j.ctx, 1); err != nil {
		d.finalize(j, err)
		return
	}
	defer d.globalSem.Release(1)

	tenantSem := d.tenantSemaphore(j.teamSlug)
	if d.opts.AllowConcurrentTeamProcessing {
		acquireCtx, cancel := context.WithTimeout(j.ctx, defaultTeamAcquireDelay)
		err := tenantSem.Acquire(acquireCtx, 1)
		cancel()
		if err != nil {
			d.finalize(j, apperror.ErrTeamLimitExceeded())
			return
		}
	} else {
		if err := tenantSem.Acquire(j.ctx, 1); err != nil {
			d.finalize(j, err)
			return
		}
	}
	defer tenantSem.Release(1)

	err := j.execute(j.ctx)
	if err == nil {
		d.finalize(j, nil)
		d.metrics.IncCounter("dispatcher_jobs_total", map[string]string{"result": "ok"})
		return
	}

	if d.shouldRetry(err, j.attempt) {
		d.scheduleRetry(j, err)
		d.metrics.IncCounter("dispatcher_jobs_total", map[string]string{"result": "retry_scheduled"})
		return
	}

	d.finalize(j, err)
	d.metrics.IncCounter("dispatcher_jobs_total", map[string]string{"result": "failed"})
}

func (d *Dispatcher) shouldRetry(err error, attempt int) bool {
	if attempt >= d.opts.MaxRetries {
		return false
	}
	var appErr *apperror.AppError
	if !asAppError(err, &appErr) {
		return false
	}
	return appErr.Kind.DispatcherRetriable()
}

// scheduleRetry records a due-in-the-future retry in the retry map; the
// sweeper re-enqueues it once nextAttemptAt has passed. The caller's
// Future stays pending until a later attempt finalizes it.
func (d *Dispatcher) scheduleRetry(j *job, cause error) {
	j.attempt++
	delay := retryDelay(j.attempt)

	d.retryMu.Lock()
	d.retries[j.paymentID] = &retryEntry{job: j, nextAttemptAt: d.clock.Now().Add(delay)}
	d.retryMu.Unlock()

	d.log.Warn().Err(cause).Str("payment_id", j.paymentID).Int("attempt", j.attempt).Msg("lifecycle command scheduled for retry")
}

// retryDelay grows exponentially (base 2, from 1s), capped at 30s, with
// no jitter. The lifecycle engine's in-transaction retries use their
// own, separate backoff settings.
func retryDelay(attempt int) time.Duration {
	delay := time.Second
	for i := 1; i < attempt; i++ {
		delay *= 2
		if delay >= 30*time.Second {
			return 30 * time.Second
		}
	}
	return delay
}

func (d *Dispatcher) runRetrySweeper() {
	defer d.wg.Done()
	ticker := time.NewTicker(retrySweepPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-d.stopCh:
			return
		case <-ticker.C:
			d.sweepDueRetries()
		}
	}
}

func (d *Dispatcher) sweepDueRetries() {
	now := d.clock.Now()
	var due []*job

	d.retryMu.Lock()
	for paymentID, entry := range d.retries {
		if !now.Before(entry.nextAttemptAt) {
			due = append(due, entry.job)
			delete(d.retries, paymentID)
		}
	}
	d.retryMu.Unlock()

	for _, j := range due {
		select {
		case d.queue <- j:
			d.incQueueLength()
		case <-d.stopCh:
			return
		}
	}
}

func (d *Dispatcher) finalize(j *job, err error) {
	status := "DONE"
	if err != nil {
		status = "FAILED"
	}
	if j.ctx.Err() != nil {
		status = "CANCELLED"
	}
	d.processing.Store(j.paymentID, status)
	j.done <- err
}

func asAppError(err error, target **apperror.AppError) bool {
	return errors.As(err, target)
}

func (d *Dispatcher) tenantSemaphore(teamSlug string) *semaphore.Weighted {
	d.tenantMu.Lock()
	defer d.tenantMu.Unlock()
	sem, ok := d.tenantSems[teamSlug]
	if !ok {
		sem = semaphore.NewWeighted(d.opts.PerTenantCapacity)
		d.tenantSems[teamSlug] = sem
	}
	return sem
}
