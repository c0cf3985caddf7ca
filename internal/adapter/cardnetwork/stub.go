// Package cardnetwork provides the reference implementation of
// ports.CardNetwork: a latency-only stub standing in for a real
// acquirer/issuer round trip (spec.md's card network is explicitly out
// of scope). It never declines — it exists to exercise the same
// context-cancellation and timing path a real network call would.
package cardnetwork

import (
	"context"
	"time"

	"payment-gateway-core/internal/core/domain"
)

// Stub simulates the fixed latency of an external authorization call.
type Stub struct {
	latency time.Duration
}

// New returns a Stub that sleeps for latency before returning, or the
// package default (150ms) if latency is zero.
func New(latency time.Duration) *Stub {
	if latency <= 0 {
		latency = 150 * time.Millisecond
	}
	return &Stub{latency: latency}
}

// Authorize blocks for the configured latency, honoring ctx
// cancellation, then always succeeds.
func (s *Stub) Authorize(ctx context.Context, payment *domain.Payment) error {
	timer := time.NewTimer(s.latency)
	defer timer.Stop()

	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
