package dispatcher

import (
	"context"
	"testing"
	"time"

	"payment-gateway-core/pkg/apperror"
	"payment-gateway-core/pkg/clockid"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type noopMetrics struct{}

func (noopMetrics) IncCounter(string, map[string]string)               {}
func (noopMetrics) ObserveHistogram(string, float64, map[string]string) {}
func (noopMetrics) SetGauge(string, float64, map[string]string)        {}

func newTestDispatcher(t *testing.T, opts Options) *Dispatcher {
	t.Helper()
	d := New(opts, clockid.RealClock{}, noopMetrics{}, zerolog.Nop())
	d.Start()
	t.Cleanup(d.Stop)
	return d
}

func TestDispatcher_Enqueue_Success(t *testing.T) {
	d := newTestDispatcher(t, Options{Workers: 2})

	future, err := d.Enqueue(context.Background(), "acme", "pay_1", func(ctx context.Context) error {
		return nil
	})
	require.NoError(t, err)

	err = future.Wait(context.Background())
	assert.NoError(t, err)

	status, ok := d.ProcessingStatus("pay_1")
	assert.True(t, ok)
	assert.Equal(t, "DONE", status)
}

func TestDispatcher_Enqueue_NonRetriableFailureSurfacesImmediately(t *testing.T) {
	d := newTestDispatcher(t, Options{Workers: 2})

	future, err := d.Enqueue(context.Background(), "acme", "pay_2", func(ctx context.Context) error {
		return apperror.ErrAccessDenied()
	})
	require.NoError(t, err)

	err = future.Wait(context.Background())
	require.Error(t, err)
	var appErr *apperror.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "ACCESS_DENIED", appErr.Code)
}

func TestDispatcher_PerTenantFairness_TryAcquireTimesOut(t *testing.T) {
	d := newTestDispatcher(t, Options{Workers: 4, PerTenantCapacity: 1, AllowConcurrentTeamProcessing: true})

	release := make(chan struct{})
	started := make(chan struct{})
	first, err := d.Enqueue(context.Background(), "acme", "pay_first", func(ctx context.Context) error {
		close(started)
		<-release
		return nil
	})
	require.NoError(t, err)

	<-started // first job now holds the tenant slot

	second, err := d.Enqueue(context.Background(), "acme", "pay_second", func(ctx context.Context) error {
		return nil
	})
	require.NoError(t, err)

	err = second.Wait(context.Background())
	require.Error(t, err)
	var appErr *apperror.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "TEAM_LIMIT_EXCEEDED", appErr.Code)

	close(release)
	require.NoError(t, first.Wait(context.Background()))
}

func TestDispatcher_RetryOnTransientFailure(t *testing.T) {
	clock := clockid.FrozenClock{At: time.Now()}
	d := New(Options{Workers: 1, MaxRetries: 3}, clock, noopMetrics{}, zerolog.Nop())
	d.Start()
	defer d.Stop()

	attempts := 0
	future, err := d.Enqueue(context.Background(), "acme", "pay_retry", func(ctx context.Context) error {
		attempts++
		if attempts < 2 {
			return apperror.ErrLockTimeout(nil)
		}
		return nil
	})
	require.NoError(t, err)

	require.Eventually(t, func() bool {
		d.retryMu.Lock()
		_, scheduled := d.retries["pay_retry"]
		d.retryMu.Unlock()
		return scheduled
	}, time.Second, time.Millisecond)

	d.sweepDueRetries() // nothing due yet (clock frozen in the past relative to nextAttemptAt)

	status, _ := d.ProcessingStatus("pay_retry")
	assert.Equal(t, "PROCESSING", status)

	d.retryMu.Lock()
	for _, entry := range d.retries {
		entry.nextAttemptAt = clock.Now().Add(-time.Millisecond)
	}
	d.retryMu.Unlock()
	d.sweepDueRetries()

	err = future.Wait(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, attempts)
}

func TestDispatcher_Cancel_PropagatesToContext(t *testing.T) {
	d := newTestDispatcher(t, Options{Workers: 1})

	started := make(chan struct{})
	future, err := d.Enqueue(context.Background(), "acme", "pay_cancel", func(ctx context.Context) error {
		close(started)
		<-ctx.Done()
		return ctx.Err()
	})
	require.NoError(t, err)

	<-started
	future.Cancel()

	err = future.Wait(context.Background())
	require.Error(t, err)

	status, ok := d.ProcessingStatus("pay_cancel")
	require.True(t, ok)
	assert.Equal(t, "CANCELLED", status)
}

func TestRetryDelay_ExponentialCappedAt30s(t *testing.T) {
	assert.Equal(t, time.Second, retryDelay(1))
	assert.Equal(t, 2*time.Second, retryDelay(2))
	assert.Equal(t, 4*time.Second, retryDelay(3))
	assert.Equal(t, 30*time.Second, retryDelay(10))
}
