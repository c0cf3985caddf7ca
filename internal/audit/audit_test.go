package audit

import (
	"testing"
	"time"

	"payment-gateway-core/internal/core/domain"
	"payment-gateway-core/pkg/clockid"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuilder_Entry_Chains(t *testing.T) {
	clock := clockid.FrozenClock{At: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)}
	b := New(clockid.UUIDGenerator{}, clock)

	first, err := b.Entry("pay_1", "payment", domain.AuditActionInitialize, "", "", map[string]string{"status": "NEW"}, "", false)
	require.NoError(t, err)
	assert.Empty(t, first.PreviousHash)
	assert.True(t, Verify(first))

	second, err := b.Entry("pay_1", "payment", domain.AuditActionAuthorize, "", "", map[string]string{"status": "AUTHORIZED"}, first.IntegrityHash, false)
	require.NoError(t, err)
	assert.Equal(t, first.IntegrityHash, second.PreviousHash)
	assert.True(t, Verify(second))
	assert.NotEqual(t, first.IntegrityHash, second.IntegrityHash)
}

func TestVerify_DetectsTamper(t *testing.T) {
	clock := clockid.FrozenClock{At: time.Now()}
	b := New(clockid.UUIDGenerator{}, clock)

	entry, err := b.Entry("pay_1", "payment", domain.AuditActionConfirm, "", "original", "snap", "", false)
	require.NoError(t, err)
	assert.True(t, Verify(entry))

	entry.Details = "tampered"
	assert.False(t, Verify(entry))
}
