// Package audit builds the append-only, tamper-evident AuditEntry rows
// the lifecycle engine writes alongside every state mutation. Hashing
// lives here rather than on domain.AuditEntry itself so the domain
// package stays free of crypto imports.
package audit

import (
	"encoding/json"
	"strings"
	"time"

	"payment-gateway-core/internal/core/domain"
	"payment-gateway-core/internal/core/ports"
	"payment-gateway-core/pkg/cryptoutil"
)

// Builder constructs chained AuditEntry rows for a single entity.
type Builder struct {
	ids   ports.IDGenerator
	clock ports.Clock
}

// New constructs an audit Builder.
func New(ids ports.IDGenerator, clock ports.Clock) *Builder {
	return &Builder{ids: ids, clock: clock}
}

// Entry builds a new AuditEntry for entityID/entityType, chaining it to
// previousHash (the prior entry's IntegrityHash for this entity, or ""
// for the first entry). snapshot is the post-mutation entity, marshaled
// to JSON for SnapshotAfter.
//
// Invariant I4: integrityHash = SHA256(entityId|entityType|action|userId|
// timestamp-ISO8601|details|snapshotAfter); verification recomputes and
// compares.
func (b *Builder) Entry(entityID, entityType string, action domain.AuditAction, userID, details string, snapshot any, previousHash string, sensitive bool) (*domain.AuditEntry, error) {
	snapshotJSON, err := json.Marshal(snapshot)
	if err != nil {
		return nil, err
	}

	timestamp := b.clock.Now().UTC()
	entry := &domain.AuditEntry{
		ID:            b.ids.NewID(),
		EntityID:      entityID,
		EntityType:    entityType,
		Action:        string(action),
		UserID:        userID,
		Timestamp:     timestamp,
		Details:       details,
		SnapshotAfter: string(snapshotJSON),
		PreviousHash:  previousHash,
		IsSensitive:   sensitive,
	}
	entry.IntegrityHash = cryptoutil.IntegrityHash(canonicalForm(entry, timestamp))
	return entry, nil
}

// Verify recomputes entry's integrity hash and compares it against the
// stored value (property P6).
func Verify(entry *domain.AuditEntry) bool {
	return entry.IntegrityHash == cryptoutil.IntegrityHash(canonicalForm(entry, entry.Timestamp))
}

func canonicalForm(entry *domain.AuditEntry, timestamp time.Time) string {
	return strings.Join([]string{
		entry.EntityID,
		entry.EntityType,
		entry.Action,
		entry.UserID,
		timestamp.Format(time.RFC3339),
		entry.Details,
		entry.SnapshotAfter,
	}, "|")
}
