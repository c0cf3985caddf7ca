// Package statemachine enumerates and validates the legal payment
// lifecycle transitions. It is pure: no I/O, no locking, no clock —
// concurrent callers are already serialized by the per-payment lock
// held by the lifecycle engine before it consults this package.
package statemachine

import "payment-gateway-core/internal/core/domain"

// Event is one lifecycle command.
type Event string

const (
	EventInitialize Event = "Initialize"
	EventShowForm   Event = "ShowForm"
	EventAuthorize  Event = "Authorize"
	EventConfirm    Event = "Confirm"
	EventCancel     Event = "Cancel"
	EventRefund     Event = "Refund"
	EventReject     Event = "Reject"
)

// ErrorKind classifies why a transition was rejected.
type ErrorKind string

const (
	KindOK          ErrorKind = "OK"
	KindIllegalFrom ErrorKind = "IllegalFrom"
	KindGuardFailed ErrorKind = "GuardFailed"
)

// Result is the machine's answer for one (fromStatus, event) query.
type Result struct {
	Valid bool
	Kind  ErrorKind
	To    domain.PaymentStatus
}

// edge is one legal (from, event) -> to mapping. Cancel and Reject have
// multiple legal "from" states, hence the slice of edges per event.
type edge struct {
	from domain.PaymentStatus
	to   domain.PaymentStatus
}

var transitions = map[Event][]edge{
	EventInitialize: {{from: domain.PaymentStatusInit, to: domain.PaymentStatusNew}},
	EventShowForm:   {{from: domain.PaymentStatusNew, to: domain.PaymentStatusFormShowed}},
	EventAuthorize:  {{from: domain.PaymentStatusFormShowed, to: domain.PaymentStatusAuthorized}},
	EventConfirm:    {{from: domain.PaymentStatusAuthorized, to: domain.PaymentStatusConfirmed}},
	EventCancel: {
		{from: domain.PaymentStatusNew, to: domain.PaymentStatusCancelled},
		{from: domain.PaymentStatusFormShowed, to: domain.PaymentStatusCancelled},
		{from: domain.PaymentStatusAuthorized, to: domain.PaymentStatusCancelled},
	},
	EventRefund: {{from: domain.PaymentStatusConfirmed, to: domain.PaymentStatusRefunded}},
	EventReject: {
		{from: domain.PaymentStatusNew, to: domain.PaymentStatusRejected},
		{from: domain.PaymentStatusFormShowed, to: domain.PaymentStatusRejected},
	},
}

// Apply evaluates event against from and returns the resulting status
// plus an OK/IllegalFrom/GuardFailed verdict. Terminal states accept no
// outbound edges, so any event against one always comes back
// IllegalFrom.
func Apply(from domain.PaymentStatus, event Event) Result {
	edges, ok := transitions[event]
	if !ok {
		return Result{Valid: false, Kind: KindIllegalFrom}
	}

	if from.IsTerminal() {
		return Result{Valid: false, Kind: KindIllegalFrom}
	}

	for _, e := range edges {
		if e.from == from {
			return Result{Valid: true, Kind: KindOK, To: e.to}
		}
	}
	return Result{Valid: false, Kind: KindIllegalFrom}
}

// CancelResultStatus resolves which terminal state a Cancel call
// produces: NEW, FORM_SHOWED and AUTHORIZED go to CANCELLED, CONFIRMED
// goes to REFUNDED, and any other state is not cancellable. The source's
// separate "reversal" code path collapses to the single CANCELLED status
// here; audit entries still record the nature of the cancel via
// AuditEntry.Details (Design Notes Q2) rather than a distinct state.
func CancelResultStatus(from domain.PaymentStatus) (domain.PaymentStatus, bool) {
	switch from {
	case domain.PaymentStatusNew, domain.PaymentStatusFormShowed, domain.PaymentStatusAuthorized:
		return domain.PaymentStatusCancelled, true
	case domain.PaymentStatusConfirmed:
		return domain.PaymentStatusRefunded, true
	default:
		return "", false
	}
}
