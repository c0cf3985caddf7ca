package ports

import (
	"context"
	"time"

	"payment-gateway-core/internal/core/domain"
)

// PaymentStore is the persistence contract for the payment lifecycle.
// ExecuteInTransaction gives callers a single atomic unit of work so the
// lifecycle engine never has to know whether the backing store is
// Postgres or the in-memory test double.
type PaymentStore interface {
	ExecuteInTransaction(ctx context.Context, fn func(ctx context.Context) error) error

	GetPayment(ctx context.Context, paymentID string) (*domain.Payment, error)
	CreatePayment(ctx context.Context, payment *domain.Payment) error
	UpdatePayment(ctx context.Context, payment *domain.Payment) error

	AppendTransaction(ctx context.Context, txn *domain.Transaction) error
	ListTransactions(ctx context.Context, paymentID string) ([]domain.Transaction, error)

	AppendAudit(ctx context.Context, entry *domain.AuditEntry) error
	LastAuditHash(ctx context.Context, entityID string) (string, error)

	// BulkDelete permanently deletes every payment of a team created
	// before olderThan, and its transactions, returning the number of
	// payments affected.
	// Implementations must delete transaction rows before payment rows
	// inside a single ExecuteInTransaction closure.
	BulkDelete(ctx context.Context, teamID string, olderThan time.Time) (int64, error)
}

// TeamRegistry resolves tenant credentials and webhook configuration.
type TeamRegistry interface {
	LookupBySlug(ctx context.Context, slug string) (*domain.Team, error)
	LookupByID(ctx context.Context, id string) (*domain.Team, error)
	Create(ctx context.Context, team *domain.Team) error
}

// TokenStore persists optional expiring tokens (spec §4.1). Save does
// not enforce a live-token budget; callers evict through CountLive and
// DeleteOldest.
type TokenStore interface {
	Save(ctx context.Context, token *domain.ExpiringToken) error
	Get(ctx context.Context, tokenID string) (*domain.ExpiringToken, error)
	GetByRefreshToken(ctx context.Context, refreshToken string) (*domain.ExpiringToken, error)
	CountLive(ctx context.Context, teamSlug string, now time.Time) (int, error)
	DeleteOldest(ctx context.Context, teamSlug string) error
	Delete(ctx context.Context, tokenID string) error
}

// IdempotencyCache is the fast-path store backing the webhook engine's
// per-notification outcome cache. Lifecycle ExternalRequestId replay
// uses the engine's own in-process cache, not this port.
type IdempotencyCache interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

// NonceStore enforces single-use request nonces for replay protection.
type NonceStore interface {
	// CheckAndSet atomically records nonce for teamSlug. Returns true
	// when the nonce was not previously seen (i.e. the request is valid).
	CheckAndSet(ctx context.Context, teamSlug, nonce string, ttl time.Duration) (bool, error)
}

// LockBackend is the shared store a distributed lock implementation sits
// on top of (Redis SET NX PX + Lua CAS release, or an in-memory map for
// single-process deployments).
type LockBackend interface {
	Acquire(ctx context.Context, key, owner string, ttl time.Duration) (bool, error)
	Release(ctx context.Context, key, owner string) (bool, error)
	Extend(ctx context.Context, key, owner string, ttl time.Duration) (bool, error)
}

// WebhookAttemptStore is the append-only delivery attempts log (spec.md
// §4.6): every attempt, successful or not, is recorded with its attempt
// number, status, response code and duration. Payload bytes are not
// stored.
type WebhookAttemptStore interface {
	Append(ctx context.Context, attempt *domain.WebhookAttempt) error
	List(ctx context.Context, notificationID string) ([]domain.WebhookAttempt, error)
}
