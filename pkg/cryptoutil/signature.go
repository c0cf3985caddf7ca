package cryptoutil

import (
	"crypto/hmac"
	"crypto/sha256"
	"crypto/sha512"
	"crypto/subtle"
	"encoding/hex"
	"sort"
	"strings"
)

// reservedTokenKey is excluded from the canonical projection regardless
// of case, matching the source system's "Token"/"token" exclusion rule.
const reservedTokenKey = "token"

// CanonicalParams is the flattened (key, scalar) projection of a
// request used for both signing and validation. Values must already be
// stringified per the scalar rules (string | int | decimal | bool |
// timestamp-as-ISO8601); nested objects, arrays, and nulls are the
// caller's responsibility to have elided before this point.
type CanonicalParams map[string]string

// hasKey reports whether k is present, case-insensitively.
func (p CanonicalParams) hasKey(k string) bool {
	_, ok := p[k]
	if ok {
		return true
	}
	for existing := range p {
		if strings.EqualFold(existing, k) {
			return true
		}
	}
	return false
}

// isStatusLookup implements the PaymentCheck predicate (spec §4.1
// quirk): a request carrying PaymentId and TeamSlug but no Amount is
// recognised as a status-lookup call and signed with the non-
// lexicographic fixed order instead of the general lexicographic rule.
func isStatusLookup(p CanonicalParams) bool {
	return p.hasKey("PaymentId") && p.hasKey("TeamSlug") && !p.hasKey("Amount")
}

// BuildSignaturePayload assembles the exact byte sequence that gets
// SHA-256'd to produce a request signature. password is inserted under
// the reserved "Password" key; any key case-insensitively equal to
// "token" is excluded from the projection.
//
// Two concatenation orders exist and must both be implemented (Open
// Question Q1): the general case sorts all keys lexicographically by
// Unicode code point (Ordinal); the PaymentCheck quirk instead uses the
// fixed sequence PaymentId, Password, TeamSlug and ignores every other
// key, reproducing the source system's documented special case
// bit-exact.
func BuildSignaturePayload(params CanonicalParams, password string) string {
	projected := make(CanonicalParams, len(params)+1)
	for k, v := range params {
		if strings.EqualFold(k, reservedTokenKey) {
			continue
		}
		projected[k] = v
	}
	projected["Password"] = password

	if isStatusLookup(projected) {
		var b strings.Builder
		b.WriteString(projected["PaymentId"])
		b.WriteString(projected["Password"])
		b.WriteString(projected["TeamSlug"])
		return b.String()
	}

	keys := make([]string, 0, len(projected))
	for k := range projected {
		keys = append(keys, k)
	}
	sort.Strings(keys) // byte-wise, i.e. Unicode code-point ordinal order

	var b strings.Builder
	for _, k := range keys {
		b.WriteString(projected[k])
	}
	return b.String()
}

// Sign produces the lowercase hex SHA-256 signature over params+password.
func Sign(params CanonicalParams, password string) string {
	payload := BuildSignaturePayload(params, password)
	sum := sha256.Sum256([]byte(payload))
	return hex.EncodeToString(sum[:])
}

// VerifySignature recomputes the expected signature and compares it to
// candidate using a constant-time, equal-length byte compare. A length
// mismatch is rejected immediately without a timing-sensitive compare.
func VerifySignature(params CanonicalParams, password, candidate string) bool {
	expected := Sign(params, password)
	if len(expected) != len(candidate) {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(expected), []byte(candidate)) == 1
}

// HMACSHA256Hex computes HMAC-SHA256(key, payload) and returns lowercase
// hex, the scheme used for webhook body signing.
func HMACSHA256Hex(key []byte, payload []byte) string {
	mac := hmac.New(sha256.New, key)
	mac.Write(payload)
	return hex.EncodeToString(mac.Sum(nil))
}

// VerifyHMACSHA256Hex is the constant-time counterpart of HMACSHA256Hex.
func VerifyHMACSHA256Hex(key []byte, payload []byte, candidateHex string) bool {
	expected := HMACSHA256Hex(key, payload)
	return hmac.Equal([]byte(expected), []byte(candidateHex))
}

// HMACSHA512Hex computes HMAC-SHA512(key, payload) and returns lowercase
// hex, the stronger-digest counterpart used where a caller hands in a
// signature computed against a 512-bit MAC instead of webhook's 256-bit one.
func HMACSHA512Hex(key []byte, payload []byte) string {
	mac := hmac.New(sha512.New, key)
	mac.Write(payload)
	return hex.EncodeToString(mac.Sum(nil))
}

// VerifyHMACSHA512Hex is the constant-time counterpart of HMACSHA512Hex.
func VerifyHMACSHA512Hex(key []byte, payload []byte, candidateHex string) bool {
	expected, err := hex.DecodeString(candidateHex)
	if err != nil {
		return false
	}
	mac := hmac.New(sha512.New, key)
	mac.Write(payload)
	return hmac.Equal(mac.Sum(nil), expected)
}
