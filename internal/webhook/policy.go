package webhook

import (
	"math/rand"
	"time"

	"payment-gateway-core/internal/core/domain"
	"payment-gateway-core/internal/ratelimit"
)

// retryPolicy is the per-notification-type attempt budget and backoff
// base, matching spec.md §4.6's retry table.
type retryPolicy struct {
	MaxAttempts int
	BaseDelay   time.Duration
}

var retryPolicies = map[domain.NotificationType]retryPolicy{
	domain.NotificationPaymentStatusChange: {MaxAttempts: 5, BaseDelay: 2 * time.Second},
	domain.NotificationPaymentSuccess:      {MaxAttempts: 3, BaseDelay: 1 * time.Second},
	domain.NotificationPaymentFailure:      {MaxAttempts: 5, BaseDelay: 1 * time.Second},
	domain.NotificationFraudAlert:          {MaxAttempts: 10, BaseDelay: 1 * time.Second},
	domain.NotificationSystemAlert:         {MaxAttempts: 8, BaseDelay: 5 * time.Second},
}

func policyFor(t domain.NotificationType) retryPolicy {
	if p, ok := retryPolicies[t]; ok {
		return p
	}
	return retryPolicy{MaxAttempts: 5, BaseDelay: 2 * time.Second}
}

// delay implements delay(attempt) = baseDelay * 2^attempt + jitter in
// [0, 1s). attempt is 1-indexed (the delay before the *next* attempt).
func (p retryPolicy) delay(attempt int) time.Duration {
	backoff := p.BaseDelay
	for i := 0; i < attempt; i++ {
		backoff *= 2
	}
	jitter := time.Duration(rand.Int63n(int64(time.Second)))
	return backoff + jitter
}

// rateLimitPolicyNames returns the (minute, hour) policy names
// registered for a notification type on a shared Limiter.
func rateLimitPolicyNames(t domain.NotificationType) (minute, hour string) {
	return "webhook:" + string(t) + ":minute", "webhook:" + string(t) + ":hour"
}

// registerRateLimitPolicies registers the minute+hour window policy pair
// for every known notification type on limiter. Both windows must allow
// a delivery for Publish to admit it; this mirrors the dual-cap shape
// other tenant-facing limits use elsewhere in the gateway.
func registerRateLimitPolicies(limiter *ratelimit.Limiter) {
	for t, p := range retryPolicies {
		_ = p
		minuteName, hourName := rateLimitPolicyNames(t)
		limiter.RegisterPolicy(domain.RateLimitPolicy{
			Name:          minuteName,
			MaxRequests:   120,
			WindowSize:    time.Minute,
			BlockDuration: 10 * time.Second,
		})
		limiter.RegisterPolicy(domain.RateLimitPolicy{
			Name:          hourName,
			MaxRequests:   3000,
			WindowSize:    time.Hour,
			BlockDuration: time.Minute,
		})
	}
}
