package domain

import "time"

// AuditEntry is an append-only, tamper-evident log row. IntegrityHash
// and PreviousHash are computed by internal/audit (kept out of this
// package so domain stays a pure data model, no crypto imports).
type AuditEntry struct {
	ID            string
	EntityID      string
	EntityType    string
	Action        string
	UserID        string // optional
	Timestamp     time.Time
	Details       string // free-form note, e.g. "reversal" for AUTHORIZED->CANCELLED (Q2)
	SnapshotAfter string // JSON snapshot of the entity post-mutation
	IntegrityHash string
	PreviousHash  string // chains entries for the same (EntityID, EntityType)
	IsSensitive   bool
}

// AuditAction names the audited lifecycle/administrative actions.
type AuditAction string

const (
	AuditActionInitialize AuditAction = "PAYMENT_INITIALIZE"
	AuditActionAuthorize  AuditAction = "PAYMENT_AUTHORIZE"
	AuditActionConfirm    AuditAction = "PAYMENT_CONFIRM"
	AuditActionCancel     AuditAction = "PAYMENT_CANCEL"
	AuditActionRefund     AuditAction = "PAYMENT_REFUND"
	AuditActionBulkDelete AuditAction = "ADMIN_BULK_DELETE"
)
