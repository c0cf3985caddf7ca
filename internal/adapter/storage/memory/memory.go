// Package memory implements ports.PaymentStore, ports.TeamRegistry, and
// ports.TokenStore with plain mutex-guarded maps — the default wiring
// for local dev bring-up and the end-to-end scenarios in
// tests/integration, standing in for the Postgres adapter exactly as
// the lifecycle engine expects (same ExecuteInTransaction contract).
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"payment-gateway-core/internal/core/domain"
	"payment-gateway-core/pkg/apperror"
)

// PaymentStore is an in-memory ports.PaymentStore. ExecuteInTransaction
// gives no cross-step atomicity: each method only guards the shared maps
// against concurrent access. Transitions of an existing payment are
// serialized by the per-payment distributed lock the lifecycle engine
// holds around them; Initialize takes no such lock, so its
// CreatePayment + AppendAudit steps are not isolated from other callers.
type PaymentStore struct {
	mu           sync.Mutex
	payments     map[string]*domain.Payment
	transactions map[string][]domain.Transaction
	audit        map[string][]domain.AuditEntry // keyed by EntityID
}

// NewPaymentStore constructs an empty PaymentStore.
func NewPaymentStore() *PaymentStore {
	return &PaymentStore{
		payments:     make(map[string]*domain.Payment),
		transactions: make(map[string][]domain.Transaction),
		audit:        make(map[string][]domain.AuditEntry),
	}
}

func (s *PaymentStore) ExecuteInTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

func (s *PaymentStore) GetPayment(ctx context.Context, paymentID string) (*domain.Payment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.payments[paymentID]
	if !ok || p.IsDeleted {
		return nil, nil
	}
	cp := *p
	return &cp, nil
}

func (s *PaymentStore) CreatePayment(ctx context.Context, payment *domain.Payment) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *payment
	s.payments[payment.PaymentID] = &cp
	return nil
}

func (s *PaymentStore) UpdatePayment(ctx context.Context, payment *domain.Payment) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.payments[payment.PaymentID]; !ok {
		return apperror.ErrNotFound("payment")
	}
	cp := *payment
	cp.UpdatedAt = time.Now().UTC()
	s.payments[payment.PaymentID] = &cp
	return nil
}

func (s *PaymentStore) AppendTransaction(ctx context.Context, txn *domain.Transaction) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.transactions[txn.PaymentID] = append(s.transactions[txn.PaymentID], *txn)
	return nil
}

func (s *PaymentStore) ListTransactions(ctx context.Context, paymentID string) ([]domain.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]domain.Transaction, len(s.transactions[paymentID]))
	copy(out, s.transactions[paymentID])
	return out, nil
}

func (s *PaymentStore) AppendAudit(ctx context.Context, entry *domain.AuditEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.audit[entry.EntityID] = append(s.audit[entry.EntityID], *entry)
	return nil
}

func (s *PaymentStore) LastAuditHash(ctx context.Context, entityID string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	entries := s.audit[entityID]
	if len(entries) == 0 {
		return "", nil
	}
	return entries[len(entries)-1].IntegrityHash, nil
}

// BulkDelete permanently deletes every payment (and its transactions)
// for teamID older than olderThan, matching the Postgres adapter's
// transactions-then-payments ordering (Design Note Q3).
func (s *PaymentStore) BulkDelete(ctx context.Context, teamID string, olderThan time.Time) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var deleted int64
	for id, p := range s.payments {
		if p.TeamID != teamID || !p.CreatedAt.Before(olderThan) {
			continue
		}
		delete(s.transactions, id)
		delete(s.payments, id)
		deleted++
	}
	return deleted, nil
}

// TeamRegistry is an in-memory ports.TeamRegistry.
type TeamRegistry struct {
	mu    sync.RWMutex
	teams map[string]*domain.Team // keyed by slug
	byID  map[string]*domain.Team
}

// NewTeamRegistry constructs an empty TeamRegistry.
func NewTeamRegistry() *TeamRegistry {
	return &TeamRegistry{
		teams: make(map[string]*domain.Team),
		byID:  make(map[string]*domain.Team),
	}
}

func (r *TeamRegistry) Create(ctx context.Context, team *domain.Team) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *team
	r.teams[team.Slug] = &cp
	r.byID[team.ID] = &cp
	return nil
}

func (r *TeamRegistry) LookupBySlug(ctx context.Context, slug string) (*domain.Team, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	t, ok := r.teams[slug]
	if !ok {
		return nil, nil
	}
	cp := *t
	return &cp, nil
}

func (r *TeamRegistry) LookupByID(ctx context.Context, id string) (*domain.Team, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	t, ok := r.byID[id]
	if !ok {
		return nil, nil
	}
	cp := *t
	return &cp, nil
}

// TokenStore is an in-memory ports.TokenStore.
type TokenStore struct {
	mu        sync.Mutex
	byID      map[string]*domain.ExpiringToken
	byRefresh map[string]string // refreshToken -> tokenID
}

// NewTokenStore constructs an empty TokenStore.
func NewTokenStore() *TokenStore {
	return &TokenStore{
		byID:      make(map[string]*domain.ExpiringToken),
		byRefresh: make(map[string]string),
	}
}

func (s *TokenStore) Save(ctx context.Context, token *domain.ExpiringToken) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *token
	s.byID[token.TokenID] = &cp
	s.byRefresh[token.RefreshToken] = token.TokenID
	return nil
}

func (s *TokenStore) Get(ctx context.Context, tokenID string) (*domain.ExpiringToken, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.byID[tokenID]
	if !ok {
		return nil, nil
	}
	cp := *t
	return &cp, nil
}

func (s *TokenStore) GetByRefreshToken(ctx context.Context, refreshToken string) (*domain.ExpiringToken, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id, ok := s.byRefresh[refreshToken]
	if !ok {
		return nil, nil
	}
	t := s.byID[id]
	if t == nil {
		return nil, nil
	}
	cp := *t
	return &cp, nil
}

func (s *TokenStore) CountLive(ctx context.Context, teamSlug string, now time.Time) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	count := 0
	for _, t := range s.byID {
		if t.TeamSlug == teamSlug && !t.Expired(now) {
			count++
		}
	}
	return count, nil
}

func (s *TokenStore) DeleteOldest(ctx context.Context, teamSlug string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var oldest *domain.ExpiringToken
	for _, t := range s.byID {
		if t.TeamSlug != teamSlug {
			continue
		}
		if oldest == nil || t.IssuedAt.Before(oldest.IssuedAt) {
			oldest = t
		}
	}
	if oldest == nil {
		return nil
	}
	delete(s.byID, oldest.TokenID)
	delete(s.byRefresh, oldest.RefreshToken)
	return nil
}

func (s *TokenStore) Delete(ctx context.Context, tokenID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.byID[tokenID]
	if !ok {
		return nil
	}
	delete(s.byID, tokenID)
	delete(s.byRefresh, t.RefreshToken)
	return nil
}

// WebhookAttemptStore is an in-memory ports.WebhookAttemptStore.
type WebhookAttemptStore struct {
	mu       sync.Mutex
	attempts map[string][]domain.WebhookAttempt
}

// NewWebhookAttemptStore constructs an empty WebhookAttemptStore.
func NewWebhookAttemptStore() *WebhookAttemptStore {
	return &WebhookAttemptStore{attempts: make(map[string][]domain.WebhookAttempt)}
}

func (s *WebhookAttemptStore) Append(ctx context.Context, attempt *domain.WebhookAttempt) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.attempts[attempt.NotificationID] = append(s.attempts[attempt.NotificationID], *attempt)
	return nil
}

func (s *WebhookAttemptStore) List(ctx context.Context, notificationID string) ([]domain.WebhookAttempt, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]domain.WebhookAttempt, len(s.attempts[notificationID]))
	copy(out, s.attempts[notificationID])
	sort.Slice(out, func(i, j int) bool { return out[i].AttemptNumber < out[j].AttemptNumber })
	return out, nil
}

// NonceStore is an in-memory ports.NonceStore, standing in for the
// Redis SET-NX adapter in local dev and tests. An entry counts as seen
// until ttl after it was set; expired entries are treated as unseen but
// stay in the map until overwritten.
type NonceStore struct {
	mu   sync.Mutex
	seen map[string]time.Time
}

// NewNonceStore constructs an empty NonceStore.
func NewNonceStore() *NonceStore {
	return &NonceStore{seen: make(map[string]time.Time)}
}

func (s *NonceStore) CheckAndSet(ctx context.Context, teamSlug, nonce string, ttl time.Duration) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := teamSlug + ":" + nonce
	if expiresAt, ok := s.seen[key]; ok && time.Now().Before(expiresAt) {
		return false, nil
	}
	s.seen[key] = time.Now().Add(ttl)
	return true, nil
}

// IdempotencyCache is an in-memory ports.IdempotencyCache, standing in
// for the Redis GET/SET adapter in local dev and tests.
type IdempotencyCache struct {
	mu    sync.Mutex
	store map[string]cachedValue
}

type cachedValue struct {
	value     []byte
	expiresAt time.Time
}

// NewIdempotencyCache constructs an empty IdempotencyCache.
func NewIdempotencyCache() *IdempotencyCache {
	return &IdempotencyCache{store: make(map[string]cachedValue)}
}

func (c *IdempotencyCache) Get(ctx context.Context, key string) ([]byte, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	entry, ok := c.store[key]
	if !ok || time.Now().After(entry.expiresAt) {
		return nil, nil
	}
	return entry.value, nil
}

func (c *IdempotencyCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.store[key] = cachedValue{value: value, expiresAt: time.Now().Add(ttl)}
	return nil
}
