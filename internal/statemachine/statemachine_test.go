package statemachine

import (
	"testing"

	"payment-gateway-core/internal/core/domain"

	"github.com/stretchr/testify/assert"
)

func TestApply_HappyPathSequence(t *testing.T) {
	r := Apply(domain.PaymentStatusInit, EventInitialize)
	assert.True(t, r.Valid)
	assert.Equal(t, domain.PaymentStatusNew, r.To)

	r = Apply(domain.PaymentStatusNew, EventShowForm)
	assert.True(t, r.Valid)
	assert.Equal(t, domain.PaymentStatusFormShowed, r.To)

	r = Apply(domain.PaymentStatusFormShowed, EventAuthorize)
	assert.True(t, r.Valid)
	assert.Equal(t, domain.PaymentStatusAuthorized, r.To)

	r = Apply(domain.PaymentStatusAuthorized, EventConfirm)
	assert.True(t, r.Valid)
	assert.Equal(t, domain.PaymentStatusConfirmed, r.To)
}

func TestApply_IllegalFromRejected(t *testing.T) {
	r := Apply(domain.PaymentStatusNew, EventConfirm)
	assert.False(t, r.Valid)
	assert.Equal(t, KindIllegalFrom, r.Kind)
}

func TestApply_TerminalStateAcceptsNoEdges(t *testing.T) {
	for _, event := range []Event{EventCancel, EventConfirm, EventRefund, EventShowForm} {
		r := Apply(domain.PaymentStatusCancelled, event)
		assert.False(t, r.Valid, "event %s must be illegal from a terminal state", event)
		assert.Equal(t, KindIllegalFrom, r.Kind)
	}
}

func TestApply_CancelFromMultipleOrigins(t *testing.T) {
	for _, from := range []domain.PaymentStatus{domain.PaymentStatusNew, domain.PaymentStatusFormShowed, domain.PaymentStatusAuthorized} {
		r := Apply(from, EventCancel)
		assert.True(t, r.Valid)
		assert.Equal(t, domain.PaymentStatusCancelled, r.To)
	}
}

func TestApply_RejectFromNewOrFormShowed(t *testing.T) {
	for _, from := range []domain.PaymentStatus{domain.PaymentStatusNew, domain.PaymentStatusFormShowed} {
		r := Apply(from, EventReject)
		assert.True(t, r.Valid)
		assert.Equal(t, domain.PaymentStatusRejected, r.To)
	}
}

func TestApply_UnknownEvent(t *testing.T) {
	r := Apply(domain.PaymentStatusNew, Event("Bogus"))
	assert.False(t, r.Valid)
	assert.Equal(t, KindIllegalFrom, r.Kind)
}

func TestCancelResultStatus(t *testing.T) {
	tests := []struct {
		from   domain.PaymentStatus
		to     domain.PaymentStatus
		legal  bool
	}{
		{domain.PaymentStatusNew, domain.PaymentStatusCancelled, true},
		{domain.PaymentStatusAuthorized, domain.PaymentStatusCancelled, true},
		{domain.PaymentStatusConfirmed, domain.PaymentStatusRefunded, true},
		{domain.PaymentStatusCancelled, "", false},
		{domain.PaymentStatusRejected, "", false},
	}

	for _, tt := range tests {
		to, ok := CancelResultStatus(tt.from)
		assert.Equal(t, tt.legal, ok)
		assert.Equal(t, tt.to, to)
	}
}
