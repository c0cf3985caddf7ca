// Package lifecycle executes the payment state machine end-to-end:
// admission control, per-payment locking, state transition, persistence
// transaction, audit append, and webhook emission — one command, one
// atomic outcome.
package lifecycle

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"payment-gateway-core/internal/audit"
	"payment-gateway-core/internal/core/domain"
	"payment-gateway-core/internal/core/ports"
	"payment-gateway-core/internal/lock"
	"payment-gateway-core/internal/statemachine"
	"payment-gateway-core/pkg/apperror"
	"payment-gateway-core/pkg/clockid"

	"github.com/cenkalti/backoff/v4"
	"github.com/rs/zerolog"
	"golang.org/x/sync/semaphore"
)

// defaultPriority labels every processing-duration metric until payment
// commands carry their own priority the way notification tasks already
// do (domain.NotificationTask.Priority).
const defaultPriority = "normal"

// Config tunes the engine's timeouts and retry policy. Zero-valued
// fields fall back to the spec's documented defaults.
type Config struct {
	// LockTimeout bounds step 2, per-payment lock acquisition. Default 30s.
	LockTimeout time.Duration
	// ProcessingTimeout bounds the whole command, including the global
	// admission wait. Default 2 minutes.
	ProcessingTimeout time.Duration
	// GlobalConcurrency is the size of the admission semaphore. Default 256.
	GlobalConcurrency int64
	// MaxRetries bounds the transient-error retry loop around step 7. Default 3.
	MaxRetries uint64
}

func (c Config) withDefaults() Config {
	if c.LockTimeout <= 0 {
		c.LockTimeout = 30 * time.Second
	}
	if c.ProcessingTimeout <= 0 {
		c.ProcessingTimeout = 2 * time.Minute
	}
	if c.GlobalConcurrency <= 0 {
		c.GlobalConcurrency = 256
	}
	if c.MaxRetries == 0 {
		c.MaxRetries = 3
	}
	return c
}

// Engine is the lifecycle command processor. One Engine is shared by
// every worker in the dispatcher's pool.
type Engine struct {
	store    ports.PaymentStore
	teams    ports.TeamRegistry
	locks    *lock.Service
	notifier ports.NotificationPublisher
	network  ports.CardNetwork
	ids      ports.IDGenerator
	clock    ports.Clock
	audit    *audit.Builder
	metrics  ports.MetricsSink
	log      zerolog.Logger

	cfg Config
	sem *semaphore.Weighted

	activeProcessing int64 // atomic; mirrors active_payment_processing gauge

	idemMu    sync.Mutex
	idemCache map[string]*idemEntry
}

// idemEntry wraps a cached Result with the time it was stored, so a
// registered ports.Scheduler sweep can evict entries that have aged out.
type idemEntry struct {
	result   *Result
	storedAt time.Time
}

// Result is the outcome of a successfully executed lifecycle command.
type Result struct {
	PaymentID string
	Status    domain.PaymentStatus
}

// New constructs a lifecycle Engine.
func New(store ports.PaymentStore, teams ports.TeamRegistry, locks *lock.Service, notifier ports.NotificationPublisher, network ports.CardNetwork, ids ports.IDGenerator, clock ports.Clock, metrics ports.MetricsSink, log zerolog.Logger, cfg Config) *Engine {
	cfg = cfg.withDefaults()
	return &Engine{
		store:     store,
		teams:     teams,
		locks:     locks,
		notifier:  notifier,
		network:   network,
		ids:       ids,
		clock:     clock,
		audit:     audit.New(ids, clock),
		metrics:   metrics,
		log:       log,
		cfg:       cfg,
		sem:       semaphore.NewWeighted(cfg.GlobalConcurrency),
		idemCache: make(map[string]*idemEntry),
	}
}

// InitializeRequest starts a new payment in NEW status.
type InitializeRequest struct {
	TeamSlug          string
	OrderID           string
	Amount            int64
	Currency          string
	ExternalRequestID string
}

// AuthorizeRequest moves a payment from FORM_SHOWED to AUTHORIZED.
type AuthorizeRequest struct {
	PaymentID         string
	TeamSlug          string
	CardFingerprint   string
	ExternalRequestID string
}

// ConfirmRequest moves a payment from AUTHORIZED to CONFIRMED.
type ConfirmRequest struct {
	PaymentID         string
	TeamSlug          string
	ExternalRequestID string
}

// CancelRequest cancels, reverses, or refunds a payment depending on
// its current status (see statemachine.CancelResultStatus).
type CancelRequest struct {
	PaymentID         string
	TeamSlug          string
	Amount            *int64 // if set, must equal payment.Amount exactly (no partials)
	Reason            string
	ExternalRequestID string
}

// ShowFormRequest moves a payment from NEW to FORM_SHOWED.
type ShowFormRequest struct {
	PaymentID         string
	TeamSlug          string
	ExternalRequestID string
}

// admit acquires the global admission ticket, translating a denial or
// timeout into SYSTEM_OVERLOAD. The returned release func must always
// be called. Every command funnels through here, so this is also where
// the active_payment_processing gauge is kept current.
func (e *Engine) admit(ctx context.Context) (context.Context, func(), error) {
	ctx, cancel := context.WithTimeout(ctx, e.cfg.ProcessingTimeout)
	if err := e.sem.Acquire(ctx, 1); err != nil {
		cancel()
		return nil, func() {}, apperror.ErrSystemOverload()
	}
	n := atomic.AddInt64(&e.activeProcessing, 1)
	e.metrics.SetGauge("active_payment_processing", float64(n), nil)
	release := func() {
		remaining := atomic.AddInt64(&e.activeProcessing, -1)
		e.metrics.SetGauge("active_payment_processing", float64(remaining), nil)
		e.sem.Release(1)
		cancel()
	}
	return ctx, release, nil
}

// recordProcessing emits the processing-operation counter and duration
// histogram shared by every non-cancel command.
func (e *Engine) recordProcessing(teamSlug string, err error, start time.Time) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	e.metrics.IncCounter("payment_processing_operations_total", map[string]string{"team": teamSlug, "result": result, "priority": defaultPriority})
	e.metrics.ObserveHistogram("payment_processing_duration_seconds", e.clock.Now().Sub(start).Seconds(), map[string]string{"priority": defaultPriority})
}

// recordCancellation emits Cancel's own counter, distinct from the
// general processing one per the metrics contract.
func (e *Engine) recordCancellation(teamSlug string, err error, start time.Time) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	e.metrics.IncCounter("payment_cancellation_operations_total", map[string]string{"team": teamSlug, "result": result})
	e.metrics.ObserveHistogram("payment_processing_duration_seconds", e.clock.Now().Sub(start).Seconds(), map[string]string{"priority": defaultPriority})
}

// recordStateTransition emits the state-machine counter and its
// duration histogram for one committed (from, to) edge.
func (e *Engine) recordStateTransition(from, to domain.PaymentStatus, start time.Time) {
	e.metrics.IncCounter("payment_state_transitions_total", map[string]string{"from": string(from), "to": string(to)})
	e.metrics.ObserveHistogram("payment_state_transition_duration_seconds", e.clock.Now().Sub(start).Seconds(), nil)
}

// cachedResult returns a previously produced result for externalRequestID,
// if one exists.
func (e *Engine) cachedResult(externalRequestID string) (*Result, bool) {
	if externalRequestID == "" {
		return nil, false
	}
	e.idemMu.Lock()
	defer e.idemMu.Unlock()
	entry, ok := e.idemCache[externalRequestID]
	if !ok {
		return nil, false
	}
	return entry.result, true
}

func (e *Engine) storeResult(externalRequestID string, r *Result) {
	if externalRequestID == "" {
		return
	}
	e.idemMu.Lock()
	defer e.idemMu.Unlock()
	e.idemCache[externalRequestID] = &idemEntry{result: r, storedAt: e.clock.Now()}
}

// SweepIdempotencyCache evicts cached results last stored more than
// maxAge ago. Intended to be registered on a ports.Scheduler alongside
// the rate limiter's and lock backend's own sweeps — otherwise the
// cache grows without bound for the life of the process.
func (e *Engine) SweepIdempotencyCache(now time.Time, maxAge time.Duration) {
	e.idemMu.Lock()
	defer e.idemMu.Unlock()
	for key, entry := range e.idemCache {
		if now.Sub(entry.storedAt) > maxAge {
			delete(e.idemCache, key)
		}
	}
}

// Initialize creates a new payment in NEW status.
func (e *Engine) Initialize(ctx context.Context, req InitializeRequest) (res *Result, err error) {
	start := e.clock.Now()
	defer func() { e.recordProcessing(req.TeamSlug, err, start) }()

	if cached, ok := e.cachedResult(req.ExternalRequestID); ok {
		return cached, nil
	}

	ctx, release, err := e.admit(ctx)
	if err != nil {
		return nil, err
	}
	defer release()

	team, err := e.teams.LookupBySlug(ctx, req.TeamSlug)
	if err != nil {
		return nil, apperror.ErrInternal(err)
	}
	if team == nil {
		return nil, apperror.ErrNotFound("team")
	}

	transition := statemachine.Apply(domain.PaymentStatusInit, statemachine.EventInitialize)
	if !transition.Valid {
		return nil, apperror.ErrInvalidState()
	}

	now := e.clock.Now()
	payment := &domain.Payment{
		ID:        e.ids.NewID(),
		PaymentID: clockid.PaymentID(),
		TeamID:    team.ID,
		TeamSlug:  team.Slug,
		OrderID:   req.OrderID,
		Amount:    req.Amount,
		Currency:  req.Currency,
		Status:    transition.To,
		CreatedAt: now,
		UpdatedAt: now,
	}

	op := func(ctx context.Context) error {
		return e.store.ExecuteInTransaction(ctx, func(ctx context.Context) error {
			if err := e.store.CreatePayment(ctx, payment); err != nil {
				return err
			}
			previousHash, err := e.store.LastAuditHash(ctx, payment.PaymentID)
			if err != nil {
				return err
			}
			entry, err := e.audit.Entry(payment.PaymentID, "payment", domain.AuditActionInitialize, "", "", payment, previousHash, false)
			if err != nil {
				return err
			}
			return e.store.AppendAudit(ctx, entry)
		})
	}
	if err := e.runTransactional(ctx, op); err != nil {
		return nil, err
	}

	e.emit(ctx, team, domain.NotificationPaymentStatusChange, payment)
	e.recordStateTransition(domain.PaymentStatusInit, payment.Status, start)

	res = &Result{PaymentID: payment.PaymentID, Status: payment.Status}
	e.storeResult(req.ExternalRequestID, res)
	return res, nil
}

// ShowForm moves a payment from NEW to FORM_SHOWED.
func (e *Engine) ShowForm(ctx context.Context, req ShowFormRequest) (*Result, error) {
	return e.transition(ctx, req.PaymentID, req.TeamSlug, req.ExternalRequestID, []step{
		{event: statemachine.EventShowForm, action: domain.AuditActionInitialize, details: "form shown"},
	})
}

// Authorize moves a payment through FORM_SHOWED to AUTHORIZED, recording
// the caller-supplied card fingerprint (never the PAN itself). A
// payment left in NEW (ShowForm not called separately by the
// integration) is carried through FORM_SHOWED first, matching the
// webhook sequence NEW, FORM_SHOWED, AUTHORIZED documented for a single
// Authorize call.
func (e *Engine) Authorize(ctx context.Context, req AuthorizeRequest) (*Result, error) {
	return e.transition(ctx, req.PaymentID, req.TeamSlug, req.ExternalRequestID, []step{
		{event: statemachine.EventShowForm, action: domain.AuditActionInitialize, details: "form shown", optionalFrom: domain.PaymentStatusNew},
		{event: statemachine.EventAuthorize, action: domain.AuditActionAuthorize, details: "authorized", mutate: func(p *domain.Payment) {
			p.CardFingerprint = req.CardFingerprint
		}, before: func(ctx context.Context, p *domain.Payment) error {
			if e.network == nil {
				return nil
			}
			return e.network.Authorize(ctx, p)
		}},
	})
}

// Confirm moves a payment from AUTHORIZED to CONFIRMED.
func (e *Engine) Confirm(ctx context.Context, req ConfirmRequest) (*Result, error) {
	return e.transition(ctx, req.PaymentID, req.TeamSlug, req.ExternalRequestID, []step{
		{event: statemachine.EventConfirm, action: domain.AuditActionConfirm, details: "confirmed"},
	})
}

// step is one (event, side-effect) pair applied by transition. optionalFrom,
// when set, makes the step a no-op when the payment isn't currently in
// that status, instead of failing with INVALID_STATE — used to let
// Authorize fold in the ShowForm edge only when it hasn't already run.
type step struct {
	event        statemachine.Event
	action       domain.AuditAction
	details      string
	mutate       func(*domain.Payment)
	optionalFrom domain.PaymentStatus
	// before runs after the transition is validated but before it is
	// persisted; a non-nil error aborts the whole command and leaves
	// the payment at its prior status. Used by Authorize to consult
	// the card network before committing to AUTHORIZED.
	before func(ctx context.Context, payment *domain.Payment) error
}

// transition implements steps 1-9 for commands made of one or more
// sequential statemachine.Event applications against the same locked
// payment, committing one persistence transaction and audit row per
// event and emitting a webhook after each.
func (e *Engine) transition(ctx context.Context, paymentID, teamSlug, externalRequestID string, steps []step) (res *Result, err error) {
	start := e.clock.Now()
	defer func() { e.recordProcessing(teamSlug, err, start) }()

	if cached, ok := e.cachedResult(externalRequestID); ok {
		return cached, nil
	}

	ctx, release, err := e.admit(ctx)
	if err != nil {
		return nil, err
	}
	defer release()

	handle, err := e.locks.Acquire(ctx, lock.PaymentLockKey(paymentID), e.cfg.LockTimeout)
	if err != nil {
		return nil, err
	}
	defer e.locks.Release(ctx, handle)

	payment, err := e.store.GetPayment(ctx, paymentID)
	if err != nil {
		return nil, apperror.ErrInternal(err)
	}
	if payment == nil {
		return nil, apperror.ErrNotFound("payment")
	}
	if payment.TeamSlug != teamSlug {
		return nil, apperror.ErrAccessDenied()
	}

	team, err := e.teams.LookupBySlug(ctx, payment.TeamSlug)
	if err != nil {
		return nil, apperror.ErrInternal(err)
	}

	for _, s := range steps {
		from := payment.Status
		stepResult := statemachine.Apply(payment.Status, s.event)
		if !stepResult.Valid {
			if s.optionalFrom != "" && payment.Status != s.optionalFrom {
				continue
			}
			return nil, apperror.ErrInvalidState()
		}

		if s.before != nil {
			if err := s.before(ctx, payment); err != nil {
				return nil, apperror.ErrAuthorizationDeclined()
			}
		}

		if s.mutate != nil {
			s.mutate(payment)
		}
		payment.Status = stepResult.To
		payment.UpdatedAt = e.clock.Now()

		op := func(ctx context.Context) error {
			return e.store.ExecuteInTransaction(ctx, func(ctx context.Context) error {
				if err := e.store.UpdatePayment(ctx, payment); err != nil {
					return err
				}
				txn := &domain.Transaction{
					ID:        e.ids.NewID(),
					PaymentID: payment.PaymentID,
					Type:      domain.TransactionTypeStatusChange,
					Amount:    payment.Amount,
					CreatedAt: payment.UpdatedAt,
				}
				if err := e.store.AppendTransaction(ctx, txn); err != nil {
					return err
				}
				previousHash, err := e.store.LastAuditHash(ctx, payment.PaymentID)
				if err != nil {
					return err
				}
				entry, err := e.audit.Entry(payment.PaymentID, "payment", s.action, "", s.details, payment, previousHash, false)
				if err != nil {
					return err
				}
				return e.store.AppendAudit(ctx, entry)
			})
		}
		if err := e.runTransactional(ctx, op); err != nil {
			return nil, err
		}

		if team != nil {
			e.emit(ctx, team, domain.NotificationPaymentStatusChange, payment)
		}
		e.recordStateTransition(from, payment.Status, start)
	}

	res = &Result{PaymentID: payment.PaymentID, Status: payment.Status}
	e.storeResult(externalRequestID, res)
	return res, nil
}

// Cancel cancels, reverses, or refunds a payment depending on its
// current status: NEW/FORM_SHOWED/AUTHORIZED -> CANCELLED,
// CONFIRMED -> REFUNDED (Design Notes Q2).
func (e *Engine) Cancel(ctx context.Context, req CancelRequest) (res *Result, err error) {
	if cached, ok := e.cachedResult(req.ExternalRequestID); ok {
		return cached, nil
	}

	start := e.clock.Now()
	defer func() { e.recordCancellation(req.TeamSlug, err, start) }()

	ctx, release, err := e.admit(ctx)
	if err != nil {
		return nil, err
	}
	defer release()

	handle, err := e.locks.Acquire(ctx, lock.PaymentLockKey(req.PaymentID), e.cfg.LockTimeout)
	if err != nil {
		return nil, err
	}
	defer e.locks.Release(ctx, handle)

	payment, err := e.store.GetPayment(ctx, req.PaymentID)
	if err != nil {
		return nil, apperror.ErrInternal(err)
	}
	if payment == nil {
		return nil, apperror.ErrNotFound("payment")
	}
	if payment.TeamSlug != req.TeamSlug {
		return nil, apperror.ErrAccessDenied()
	}
	if req.Amount != nil && *req.Amount != payment.Amount {
		return nil, apperror.ErrPartialNotSupported()
	}

	from := payment.Status
	to, ok := statemachine.CancelResultStatus(payment.Status)
	if !ok {
		return nil, apperror.ErrInvalidState()
	}

	txnType := domain.TransactionTypeVoid
	action := domain.AuditActionCancel
	details := req.Reason
	if to == domain.PaymentStatusRefunded {
		txnType = domain.TransactionTypeRefund
		action = domain.AuditActionRefund
		if details == "" {
			details = "logical refund"
		}
	} else if from == domain.PaymentStatusAuthorized && details == "" {
		details = "logical reversal"
	}

	payment.Status = to
	payment.UpdatedAt = e.clock.Now()

	op := func(ctx context.Context) error {
		return e.store.ExecuteInTransaction(ctx, func(ctx context.Context) error {
			if err := e.store.UpdatePayment(ctx, payment); err != nil {
				return err
			}
			txn := &domain.Transaction{
				ID:        e.ids.NewID(),
				PaymentID: payment.PaymentID,
				Type:      txnType,
				Amount:    payment.Amount,
				CreatedAt: payment.UpdatedAt,
			}
			if err := e.store.AppendTransaction(ctx, txn); err != nil {
				return err
			}
			previousHash, err := e.store.LastAuditHash(ctx, payment.PaymentID)
			if err != nil {
				return err
			}
			entry, err := e.audit.Entry(payment.PaymentID, "payment", action, "", details, payment, previousHash, false)
			if err != nil {
				return err
			}
			return e.store.AppendAudit(ctx, entry)
		})
	}
	if err := e.runTransactional(ctx, op); err != nil {
		return nil, err
	}

	team, teamErr := e.teams.LookupBySlug(ctx, payment.TeamSlug)
	if teamErr == nil && team != nil {
		e.emit(ctx, team, domain.NotificationPaymentStatusChange, payment)
	}
	e.recordStateTransition(from, payment.Status, start)

	res = &Result{PaymentID: payment.PaymentID, Status: payment.Status}
	e.storeResult(req.ExternalRequestID, res)
	return res, nil
}

// Get loads a payment by its client-facing ID, scoped to teamSlug.
func (e *Engine) Get(ctx context.Context, paymentID, teamSlug string) (*domain.Payment, error) {
	payment, err := e.store.GetPayment(ctx, paymentID)
	if err != nil {
		return nil, apperror.ErrInternal(err)
	}
	if payment == nil {
		return nil, apperror.ErrNotFound("payment")
	}
	if payment.TeamSlug != teamSlug {
		return nil, apperror.ErrAccessDenied()
	}
	return payment, nil
}

// runTransactional retries op with exponential backoff, capped at 30s,
// for as long as the failure is Transient — step 7's documented retry
// policy. Apart from the cap it uses the backoff library's defaults:
// 500ms initial interval, growth factor 1.5, each delay randomized by
// ±50%.
func (e *Engine) runTransactional(ctx context.Context, op func(ctx context.Context) error) error {
	policy := backoff.NewExponentialBackOff()
	policy.MaxInterval = 30 * time.Second
	policy.MaxElapsedTime = 0 // bounded by MaxRetries below, not wall-clock

	attempts := uint64(0)
	wrapped := func() error {
		attempts++
		err := op(ctx)
		if err == nil {
			return nil
		}
		var appErr *apperror.AppError
		if ok := asAppError(err, &appErr); ok && appErr.Kind.Retriable() {
			if attempts > e.cfg.MaxRetries {
				return backoff.Permanent(err)
			}
			return err
		}
		return backoff.Permanent(err)
	}

	err := backoff.Retry(wrapped, backoff.WithContext(policy, ctx))
	if err == nil {
		return nil
	}
	var appErr *apperror.AppError
	if asAppError(err, &appErr) {
		return appErr
	}
	return apperror.ErrInternal(err)
}

// emit hands a status-change event off to the webhook engine. Emission
// failures are logged, never surfaced to the caller: the lifecycle
// command has already committed.
func (e *Engine) emit(ctx context.Context, team *domain.Team, notifType domain.NotificationType, payment *domain.Payment) {
	if e.notifier == nil || !team.EnableWebhooks || team.WebhookURL == "" {
		return
	}
	task := &domain.NotificationTask{
		NotificationID: clockid.NotificationID(),
		TeamID:         team.ID,
		Type:           notifType,
		Endpoint:       team.WebhookURL,
		Payload:        statusChangePayload(payment),
		Priority:       5,
		Headers:        map[string]string{"Content-Type": "application/json"},
		Timeout:        team.WebhookTimeout(),
		CreatedAt:      e.clock.Now(),
		NextAttemptAt:  e.clock.Now(),
	}
	if err := e.notifier.Publish(ctx, task); err != nil {
		e.log.Warn().Err(err).Str("payment_id", payment.PaymentID).Msg("failed to enqueue webhook notification")
	}
}

func statusChangePayload(payment *domain.Payment) []byte {
	return []byte(`{"paymentId":"` + payment.PaymentID + `","status":"` + string(payment.Status) + `"}`)
}

func asAppError(err error, target **apperror.AppError) bool {
	return errors.As(err, target)
}
