// Package lock implements the per-payment distributed lock used by the
// lifecycle engine to serialize mutations to a single payment. The
// Service is backend-agnostic: it sits on top of ports.LockBackend,
// which has an in-memory (single process) and a Redis-backed
// (SET NX PX + Lua CAS release) implementation.
package lock

import (
	"context"
	"time"

	"payment-gateway-core/internal/core/domain"
	"payment-gateway-core/internal/core/ports"
	"payment-gateway-core/pkg/apperror"

	"github.com/google/uuid"
)

// Service acquires and releases named locks with fencing via a random
// owner token, so a release from a stale holder (past its TTL, its
// owner token already reused by someone else) is always a safe no-op.
type Service struct {
	backend ports.LockBackend
	clock   ports.Clock
}

// New constructs a lock Service over the given backend.
func New(backend ports.LockBackend, clock ports.Clock) *Service {
	return &Service{backend: backend, clock: clock}
}

// Acquire blocks (retrying with backoff) until key is acquired or
// timeout elapses, returning a LockHandle on success.
func (s *Service) Acquire(ctx context.Context, key string, timeout time.Duration) (*domain.LockHandle, error) {
	owner := uuid.NewString()
	deadline := s.clock.Now().Add(timeout)

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	backoff := 5 * time.Millisecond
	const maxBackoff = 100 * time.Millisecond

	for {
		ok, err := s.backend.Acquire(ctx, key, owner, timeout)
		if err != nil {
			return nil, apperror.ErrInternal(err)
		}
		if ok {
			return &domain.LockHandle{Key: key, Owner: owner, ExpiresAt: s.clock.Now().Add(timeout)}, nil
		}

		if !s.clock.Now().Before(deadline) {
			return nil, apperror.ErrLockTimeout(nil)
		}

		select {
		case <-ctx.Done():
			return nil, apperror.ErrLockTimeout(ctx.Err())
		case <-time.After(backoff):
		}
		if backoff < maxBackoff {
			backoff *= 2
		}
	}
}

// Release gives up a lock. A release carrying an Owner that does not
// match the current holder is a no-op (property P7).
func (s *Service) Release(ctx context.Context, handle *domain.LockHandle) error {
	if handle == nil {
		return nil
	}
	_, err := s.backend.Release(ctx, handle.Key, handle.Owner)
	if err != nil {
		return apperror.ErrInternal(err)
	}
	return nil
}

// Extend renews a held lock's TTL, used by long-running holders that
// need to keep a lock alive across a slow persistence commit.
func (s *Service) Extend(ctx context.Context, handle *domain.LockHandle, ttl time.Duration) error {
	ok, err := s.backend.Extend(ctx, handle.Key, handle.Owner, ttl)
	if err != nil {
		return apperror.ErrInternal(err)
	}
	if !ok {
		return apperror.ErrLockTimeout(nil)
	}
	handle.ExpiresAt = s.clock.Now().Add(ttl)
	return nil
}

// PaymentLockKey builds the canonical lock key for a payment.
func PaymentLockKey(paymentID string) string {
	return "payment:" + paymentID
}
