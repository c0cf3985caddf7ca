package cardnetwork

import (
	"context"
	"testing"
	"time"

	"payment-gateway-core/internal/core/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStub_Authorize_Succeeds(t *testing.T) {
	stub := New(time.Millisecond)

	start := time.Now()
	err := stub.Authorize(context.Background(), &domain.Payment{PaymentID: "p-1"})
	require.NoError(t, err)
	assert.GreaterOrEqual(t, time.Since(start), time.Millisecond)
}

func TestStub_Authorize_RespectsContextCancellation(t *testing.T) {
	stub := New(time.Hour)

	ctx, cancel := context.WithTimeout(context.Background(), time.Millisecond)
	defer cancel()

	err := stub.Authorize(ctx, &domain.Payment{PaymentID: "p-2"})
	require.Error(t, err)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestNew_DefaultsZeroLatency(t *testing.T) {
	stub := New(0)
	assert.Equal(t, 150*time.Millisecond, stub.latency)
}
