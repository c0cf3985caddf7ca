package domain

import "time"

// PaymentStatus is a tagged variant of the payment lifecycle FSM.
// Terminal states accept no outbound edges (see internal/statemachine).
type PaymentStatus string

const (
	PaymentStatusInit       PaymentStatus = "INIT"
	PaymentStatusNew        PaymentStatus = "NEW"
	PaymentStatusFormShowed PaymentStatus = "FORM_SHOWED"
	PaymentStatusAuthorized PaymentStatus = "AUTHORIZED"
	PaymentStatusConfirmed  PaymentStatus = "CONFIRMED"
	PaymentStatusCancelled  PaymentStatus = "CANCELLED"
	PaymentStatusRefunded   PaymentStatus = "REFUNDED"
	PaymentStatusRejected   PaymentStatus = "REJECTED"
)

// IsTerminal reports whether no further transitions are legal from s.
func (s PaymentStatus) IsTerminal() bool {
	switch s {
	case PaymentStatusConfirmed, PaymentStatusCancelled, PaymentStatusRefunded, PaymentStatusRejected:
		return true
	default:
		return false
	}
}

// Payment is exclusively owned by the lifecycle engine while the
// payment:{id} lock is held (see internal/lock).
type Payment struct {
	ID              string
	PaymentID       string // globally unique, client-facing
	TeamID          string
	TeamSlug        string
	OrderID         string // unique within (TeamID, OrderID)
	Amount          int64  // minor units, non-negative
	Currency        string // ISO-4217
	Status          PaymentStatus
	CardFingerprint string // opaque, set on Authorize — never the PAN
	CreatedAt       time.Time
	UpdatedAt       time.Time
	IsDeleted       bool
}

// TransactionType enumerates the kinds of ledger rows a lifecycle
// command appends.
type TransactionType string

const (
	TransactionTypeAuthorize    TransactionType = "authorize"
	TransactionTypeCapture      TransactionType = "capture"
	TransactionTypeVoid         TransactionType = "void"
	TransactionTypeRefund       TransactionType = "refund"
	TransactionTypeStatusChange TransactionType = "status_change"
)

// Transaction is an append-only child row of Payment; never updated
// after insert.
type Transaction struct {
	ID            string
	PaymentID     string
	Type          TransactionType
	Amount        int64
	CreatedAt     time.Time
	ResultCode    string
	ResultMessage string
}
