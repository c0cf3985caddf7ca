package ports

import (
	"context"
	"time"

	"payment-gateway-core/internal/core/domain"
)

// MetricsSink is the observability surface every component reports
// through. The Prometheus adapter in internal/metrics is the reference
// implementation; a no-op sink backs unit tests that don't care.
type MetricsSink interface {
	IncCounter(name string, labels map[string]string)
	ObserveHistogram(name string, value float64, labels map[string]string)
	SetGauge(name string, value float64, labels map[string]string)
}

// Scheduler runs a task on a fixed period until the context is
// cancelled. Periodic sweepers (idle rate-limit cleanup, idempotency
// eviction, expired-lock reaping) register through this single seam.
type Scheduler interface {
	Schedule(ctx context.Context, period time.Duration, task func(ctx context.Context))
}

// WebhookTransport is the narrow HTTP surface the webhook engine needs,
// kept as an interface so tests can swap in a recording stub.
type WebhookTransport interface {
	Deliver(ctx context.Context, endpoint string, headers map[string]string, body []byte, timeout time.Duration) (statusCode int, respBody []byte, err error)
}

// CardNetwork models the external authorization network as a
// latency-only stub per spec.md §1 (no real card network integration
// is in scope).
type CardNetwork interface {
	Authorize(ctx context.Context, payment *domain.Payment) error
}

// Clock abstracts time so tests can control expiry, window, and backoff
// behavior deterministically.
type Clock interface {
	Now() time.Time
}

// IDGenerator produces the opaque identifiers used for payment IDs,
// transaction IDs, and audit entry IDs.
type IDGenerator interface {
	NewID() string
}

// NotificationPublisher is how the lifecycle engine hands a status
// change off to the webhook delivery engine without depending on its
// internals directly.
type NotificationPublisher interface {
	Publish(ctx context.Context, task *domain.NotificationTask) error
}
