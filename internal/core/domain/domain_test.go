package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestPaymentStatus_IsTerminal(t *testing.T) {
	tests := []struct {
		name   string
		status PaymentStatus
		want   bool
	}{
		{"init", PaymentStatusInit, false},
		{"new", PaymentStatusNew, false},
		{"form_showed", PaymentStatusFormShowed, false},
		{"authorized", PaymentStatusAuthorized, false},
		{"confirmed", PaymentStatusConfirmed, true},
		{"cancelled", PaymentStatusCancelled, true},
		{"refunded", PaymentStatusRefunded, true},
		{"rejected", PaymentStatusRejected, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.status.IsTerminal())
		})
	}
}

func TestLockHandle_Expired(t *testing.T) {
	now := time.Now()
	h := LockHandle{Key: "payment:1", Owner: "o1", ExpiresAt: now.Add(time.Second)}
	assert.False(t, h.Expired(now))
	assert.True(t, h.Expired(now.Add(2*time.Second)))
}

func TestExpiringToken_Expired(t *testing.T) {
	now := time.Now()
	tok := ExpiringToken{ExpiresAt: now.Add(time.Minute)}
	assert.False(t, tok.Expired(now))
	assert.True(t, tok.Expired(now.Add(2*time.Minute)))
}

func TestTeam_WebhookTimeout(t *testing.T) {
	assert.Equal(t, 30*time.Second, (&Team{}).WebhookTimeout())
	assert.Equal(t, 5*time.Second, (&Team{WebhookTimeoutSeconds: 5}).WebhookTimeout())
}
