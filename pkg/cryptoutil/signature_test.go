package cryptoutil

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSign_DeterministicAndHexEncoded(t *testing.T) {
	params := CanonicalParams{"TeamSlug": "acme", "OrderId": "o-1", "Amount": "10000"}

	sig1 := Sign(params, "team-password")
	sig2 := Sign(params, "team-password")

	assert.Equal(t, sig1, sig2, "same params+password must produce the same signature")
	assert.Regexp(t, `^[0-9a-f]{64}$`, sig1)
}

func TestVerifySignature_WrongPassword(t *testing.T) {
	params := CanonicalParams{"TeamSlug": "acme", "OrderId": "o-1"}
	sig := Sign(params, "correct")
	assert.False(t, VerifySignature(params, "wrong", sig))
}

func TestVerifySignature_LengthMismatchRejectedFast(t *testing.T) {
	params := CanonicalParams{"TeamSlug": "acme"}
	assert.False(t, VerifySignature(params, "pw", "short"))
}

func TestBuildSignaturePayload_LexicographicOrder(t *testing.T) {
	params := CanonicalParams{"Beta": "b", "Alpha": "a"}
	payload := BuildSignaturePayload(params, "pw")
	// Sorted keys: Alpha, Beta, Password -> "a" + "b" + "pw"
	assert.Equal(t, "abpw", payload)
}

func TestBuildSignaturePayload_ExcludesTokenKeyCaseInsensitive(t *testing.T) {
	params := CanonicalParams{"Alpha": "a", "Token": "should-be-ignored", "token": "also-ignored"}
	payload := BuildSignaturePayload(params, "pw")
	assert.Equal(t, "apw", payload)
}

func TestBuildSignaturePayload_PaymentCheckQuirk(t *testing.T) {
	// Recognized as a status lookup: has PaymentId + TeamSlug, no Amount.
	params := CanonicalParams{
		"PaymentId": "P123",
		"TeamSlug":  "acme",
	}
	payload := BuildSignaturePayload(params, "secret")
	assert.Equal(t, "P123secretacme", payload, "status lookup must use fixed PaymentId|Password|TeamSlug order")
}

func TestBuildSignaturePayload_AmountPresentDisablesQuirk(t *testing.T) {
	params := CanonicalParams{
		"PaymentId": "P123",
		"TeamSlug":  "acme",
		"Amount":    "500",
	}
	payload := BuildSignaturePayload(params, "secret")
	// Lexicographic by Unicode code point: Amount, Password, PaymentId, TeamSlug
	assert.Equal(t, "500secretP123acme", payload)
}

func TestHMACSHA256Hex_VerifyRoundTrip(t *testing.T) {
	key := []byte("webhook-secret")
	body := []byte(`{"event":"PAYMENT_STATUS_CHANGE"}`)

	sig := HMACSHA256Hex(key, body)
	assert.Regexp(t, `^[0-9a-f]{64}$`, sig)
	assert.True(t, VerifyHMACSHA256Hex(key, body, sig))
	assert.False(t, VerifyHMACSHA256Hex([]byte("wrong-secret"), body, sig))
}

func TestHMACSHA512Hex_VerifyRoundTrip(t *testing.T) {
	key := []byte("webhook-secret")
	body := []byte(`{"event":"PAYMENT_STATUS_CHANGE"}`)

	sig := HMACSHA512Hex(key, body)
	assert.Regexp(t, `^[0-9a-f]{128}$`, sig)
	assert.True(t, VerifyHMACSHA512Hex(key, body, sig))
	assert.False(t, VerifyHMACSHA512Hex([]byte("wrong-secret"), body, sig))
}

func TestVerifyHMACSHA512Hex_RejectsMalformedHex(t *testing.T) {
	assert.False(t, VerifyHMACSHA512Hex([]byte("key"), []byte("body"), "not-hex"))
}
