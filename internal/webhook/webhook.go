// Package webhook implements the merchant notification delivery engine
// described in spec.md §4.6: HMAC-signed, retried, rate-limited webhook
// delivery decoupled from the lifecycle engine by ports.NotificationPublisher.
package webhook

import (
	"context"
	"encoding/json"
	"fmt"
	"runtime"
	"strconv"
	"sync"
	"time"

	"payment-gateway-core/internal/core/domain"
	"payment-gateway-core/internal/core/ports"
	"payment-gateway-core/internal/ratelimit"
	"payment-gateway-core/pkg/apperror"
	"payment-gateway-core/pkg/cryptoutil"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

const (
	defaultQueueCapacity = 2_000
	userAgent            = "payment-gateway-webhooks/1.0"

	// notificationNonceTTL bounds how long a caller-supplied
	// NotificationID is remembered for replay suppression.
	notificationNonceTTL = 24 * time.Hour
	// deliveryOutcomeTTL bounds how long a terminal delivery result
	// stays readable via Outcome after deliver finishes.
	deliveryOutcomeTTL = 24 * time.Hour

	outcomeCacheKeyPrefix = "webhook:outcome:"
)

// Config tunes the delivery engine's worker pool.
type Config struct {
	Workers       int // default runtime.NumCPU()
	QueueCapacity int // default 2,000
}

func (c Config) withDefaults() Config {
	if c.Workers <= 0 {
		c.Workers = runtime.NumCPU()
	}
	if c.QueueCapacity <= 0 {
		c.QueueCapacity = defaultQueueCapacity
	}
	return c
}

// Engine is the NotificationPublisher implementation: Publish admits a
// task past the per-(team,type) rate limit and hands it to a bounded
// worker pool that signs, delivers, retries, and logs every attempt.
type Engine struct {
	transport   ports.WebhookTransport
	teams       ports.TeamRegistry
	attempts    ports.WebhookAttemptStore
	limiter     *ratelimit.Limiter
	nonces      ports.NonceStore
	idempotency ports.IdempotencyCache
	ids         ports.IDGenerator
	clock       ports.Clock
	metrics     ports.MetricsSink
	log         zerolog.Logger

	cfg   Config
	queue chan *domain.NotificationTask

	pendingMu     sync.Mutex
	pendingCounts map[pendingKey]int // mirrors pending_notifications_total

	stopCh chan struct{}
	wg     sync.WaitGroup
}

// pendingKey groups the pending_notifications_total gauge by the same
// labels the metric is contracted to carry.
type pendingKey struct {
	team     string
	typ      string
	priority string
}

// New constructs an Engine and registers its rate-limit policies on
// limiter. nonces (ports.NonceStore) suppresses replays of a
// NotificationID and idempotency (ports.IdempotencyCache) holds the
// delivery outcomes Outcome reads back. Call Start before
// Publish-ing work.
func New(transport ports.WebhookTransport, teams ports.TeamRegistry, attempts ports.WebhookAttemptStore, limiter *ratelimit.Limiter, nonces ports.NonceStore, idempotency ports.IdempotencyCache, ids ports.IDGenerator, clock ports.Clock, metrics ports.MetricsSink, log zerolog.Logger, cfg Config) *Engine {
	registerRateLimitPolicies(limiter)
	return &Engine{
		transport:     transport,
		teams:         teams,
		attempts:      attempts,
		limiter:       limiter,
		nonces:        nonces,
		idempotency:   idempotency,
		ids:           ids,
		clock:         clock,
		metrics:       metrics,
		log:           log,
		cfg:           cfg.withDefaults(),
		queue:         make(chan *domain.NotificationTask, cfg.withDefaults().QueueCapacity),
		pendingCounts: make(map[pendingKey]int),
		stopCh:        make(chan struct{}),
	}
}

// Start launches the delivery worker pool.
func (e *Engine) Start() {
	for i := 0; i < e.cfg.Workers; i++ {
		e.wg.Add(1)
		go e.runWorker()
	}
}

// Stop signals workers to drain and exit, and waits for them.
func (e *Engine) Stop() {
	close(e.stopCh)
	e.wg.Wait()
}

// Publish is ports.NotificationPublisher. It denies admission once
// either the per-minute or per-hour rate-limit window for (task.TeamID,
// task.Type) is exhausted, then enqueues for asynchronous delivery.
func (e *Engine) Publish(ctx context.Context, task *domain.NotificationTask) error {
	minuteName, hourName := rateLimitPolicyNames(task.Type)
	if d := e.limiter.Allow(minuteName, task.TeamID); !d.Allowed {
		return apperror.ErrRateLimited(int64(d.RetryAfter.Seconds()))
	}
	if d := e.limiter.Allow(hourName, task.TeamID); !d.Allowed {
		return apperror.ErrRateLimited(int64(d.RetryAfter.Seconds()))
	}

	if task.NotificationID == "" {
		task.NotificationID = e.ids.NewID()
	} else {
		// A caller-supplied NotificationID marks a replay of a delivery
		// already published once (e.g. a lifecycle command retried after
		// an ambiguous error). CheckAndSet admits the first Publish for
		// this ID and rejects every later one within the TTL window.
		fresh, err := e.nonces.CheckAndSet(ctx, task.TeamID, task.NotificationID, notificationNonceTTL)
		if err != nil {
			return apperror.ErrInternal(err)
		}
		if !fresh {
			e.log.Debug().Str("notification_id", task.NotificationID).Msg("webhook: duplicate publish suppressed by nonce store")
			return nil
		}
	}
	task.CreatedAt = e.clock.Now()

	teamLabel := e.teamLabel(ctx, task.TeamID)
	select {
	case e.queue <- task:
		e.incPending(teamLabel, string(task.Type), task.Priority)
		return nil
	case <-ctx.Done():
		return ctx.Err()
	case <-e.stopCh:
		return apperror.ErrSystemOverload()
	}
}

// teamLabel resolves teamID to the slug used for metric labels,
// falling back to the raw ID when the team can't be looked up so a
// Publish-time increment and its matching deliver-time decrement always
// agree on the same label.
func (e *Engine) teamLabel(ctx context.Context, teamID string) string {
	team, err := e.teams.LookupByID(ctx, teamID)
	if err != nil || team == nil {
		return teamID
	}
	return team.Slug
}

func (e *Engine) incPending(team, typ string, priority int) {
	e.pendingMu.Lock()
	defer e.pendingMu.Unlock()
	key := pendingKey{team: team, typ: typ, priority: strconv.Itoa(priority)}
	e.pendingCounts[key]++
	e.metrics.SetGauge("pending_notifications_total", float64(e.pendingCounts[key]), map[string]string{"team": team, "type": typ, "priority": key.priority})
}

func (e *Engine) decPending(team, typ string, priority int) {
	e.pendingMu.Lock()
	defer e.pendingMu.Unlock()
	key := pendingKey{team: team, typ: typ, priority: strconv.Itoa(priority)}
	if e.pendingCounts[key] > 0 {
		e.pendingCounts[key]--
	}
	e.metrics.SetGauge("pending_notifications_total", float64(e.pendingCounts[key]), map[string]string{"team": team, "type": typ, "priority": key.priority})
}

func (e *Engine) runWorker() {
	defer e.wg.Done()
	for {
		select {
		case <-e.stopCh:
			return
		case task := <-e.queue:
			e.deliver(task)
		}
	}
}

// deliver runs the full per-type retry loop for one task, recording
// every attempt via the attempts store, mirroring the teacher's
// deliverWithRetries but bounded to this worker instead of an
// unbounded fire-and-forget goroutine.
func (e *Engine) deliver(task *domain.NotificationTask) {
	team, err := e.teams.LookupByID(context.Background(), task.TeamID)
	teamLabel := task.TeamID
	if team != nil {
		teamLabel = team.Slug
	}
	defer e.decPending(teamLabel, string(task.Type), task.Priority)

	if err != nil || team == nil || !team.EnableWebhooks || team.WebhookURL == "" {
		e.log.Debug().Str("team_id", task.TeamID).Msg("webhook: no active endpoint configured, dropping notification")
		return
	}

	policy := policyFor(task.Type)
	signature := "sha256=" + cryptoutil.HMACSHA256Hex(team.WebhookSecret, task.Payload)

	for attempt := 1; attempt <= policy.MaxAttempts; attempt++ {
		start := e.clock.Now()
		ctx, cancel := context.WithTimeout(context.Background(), team.WebhookTimeout())
		statusCode, _, deliverErr := e.transport.Deliver(ctx, team.WebhookURL, e.headers(task, signature, attempt), task.Payload, team.WebhookTimeout())
		cancel()
		duration := e.clock.Now().Sub(start)

		success := deliverErr == nil && statusCode >= 200 && statusCode < 300
		record := &domain.WebhookAttempt{
			NotificationID: task.NotificationID,
			AttemptNumber:  attempt,
			ResponseCode:   statusCode,
			Duration:       duration,
			CreatedAt:      e.clock.Now(),
		}
		if success {
			record.Status = "success"
		} else {
			record.Status = "failure"
		}
		if err := e.attempts.Append(context.Background(), record); err != nil {
			e.log.Warn().Err(err).Str("notification_id", task.NotificationID).Msg("webhook: failed to persist attempt log")
		}

		if success {
			e.metrics.IncCounter("notification_delivery_operations_total", map[string]string{"team": teamLabel, "type": string(task.Type), "result": "delivered"})
			e.metrics.ObserveHistogram("notification_delivery_duration_seconds", duration.Seconds(), map[string]string{"type": string(task.Type), "method": "webhook"})
			e.log.Info().Str("notification_id", task.NotificationID).Int("attempt", attempt).Int("status", statusCode).Msg("webhook delivered")
			e.cacheOutcome(task.NotificationID, "success", attempt)
			return
		}

		logEvt := e.log.Warn().Str("notification_id", task.NotificationID).Int("attempt", attempt).Int("status", statusCode)
		if deliverErr != nil {
			logEvt = logEvt.Err(deliverErr)
		}
		logEvt.Msg("webhook delivery attempt failed")

		if attempt == policy.MaxAttempts {
			break
		}
		time.Sleep(policy.delay(attempt))
	}

	e.metrics.IncCounter("notification_delivery_operations_total", map[string]string{"team": teamLabel, "type": string(task.Type), "result": "exhausted"})
	e.log.Error().Str("notification_id", task.NotificationID).Msg("webhook delivery exhausted all retry attempts")
	e.cacheOutcome(task.NotificationID, "exhausted", policy.MaxAttempts)
}

// DeliveryOutcome is the cached terminal result of one notification's
// delivery attempts.
type DeliveryOutcome struct {
	NotificationID string    `json:"notificationId"`
	Status         string    `json:"status"` // "success" or "exhausted"
	Attempts       int       `json:"attempts"`
	CompletedAt    time.Time `json:"completedAt"`
}

// cacheOutcome writes the terminal delivery result to the idempotency
// cache so Outcome can serve it without a round trip to the attempts
// store. Cache writes are best-effort; a failure here never blocks
// delivery, which has already completed.
func (e *Engine) cacheOutcome(notificationID, status string, attempts int) {
	outcome := DeliveryOutcome{
		NotificationID: notificationID,
		Status:         status,
		Attempts:       attempts,
		CompletedAt:    e.clock.Now(),
	}
	raw, err := json.Marshal(outcome)
	if err != nil {
		e.log.Warn().Err(err).Str("notification_id", notificationID).Msg("webhook: failed to marshal delivery outcome")
		return
	}
	if err := e.idempotency.Set(context.Background(), outcomeCacheKey(notificationID), raw, deliveryOutcomeTTL); err != nil {
		e.log.Warn().Err(err).Str("notification_id", notificationID).Msg("webhook: failed to cache delivery outcome")
	}
}

// Outcome returns the cached terminal result of a previously published
// notification, or ok=false if delivery has not yet completed (or the
// cache entry has expired).
func (e *Engine) Outcome(ctx context.Context, notificationID string) (outcome *DeliveryOutcome, ok bool, err error) {
	raw, err := e.idempotency.Get(ctx, outcomeCacheKey(notificationID))
	if err != nil {
		return nil, false, apperror.ErrInternal(err)
	}
	if raw == nil {
		return nil, false, nil
	}
	var out DeliveryOutcome
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, false, apperror.ErrInternal(err)
	}
	return &out, true, nil
}

func outcomeCacheKey(notificationID string) string {
	return outcomeCacheKeyPrefix + notificationID
}

func (e *Engine) headers(task *domain.NotificationTask, signature string, attempt int) map[string]string {
	h := map[string]string{
		"Content-Type":        "application/json",
		"X-Webhook-Signature": signature,
		"X-Webhook-Event":     string(task.Type),
		"X-Webhook-Delivery":  uuid.New().String(),
		"X-Webhook-Timestamp": fmt.Sprintf("%d", e.clock.Now().Unix()),
		"User-Agent":          userAgent,
	}
	for k, v := range task.Headers {
		h[k] = v
	}
	return h
}

