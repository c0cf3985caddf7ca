package domain

import "time"

// LockHandle is the receipt returned by a successful lock acquisition.
// A release carrying an Owner that does not match the current holder
// is a no-op (P7).
type LockHandle struct {
	Key       string
	Owner     string
	ExpiresAt time.Time
}

// Expired reports whether the handle's TTL has elapsed as of now.
func (h LockHandle) Expired(now time.Time) bool {
	return !now.Before(h.ExpiresAt)
}
