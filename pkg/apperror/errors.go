package apperror

import (
	"fmt"
	"net/http"
)

// Kind is the retry-eligibility taxonomy from the error handling
// design: callers and the dispatcher branch on Kind, never on Code.
type Kind string

const (
	KindInput     Kind = "InputError"
	KindAuth      Kind = "AuthError"
	KindState     Kind = "StateError"
	KindConflict  Kind = "ConflictError"
	KindTransient Kind = "Transient"
	KindPermanent Kind = "Permanent"
	KindCancelled Kind = "Cancelled"
	KindInternal  Kind = "Internal"
)

// Retriable reports whether the lifecycle engine should retry an error
// of this kind internally (policy: only Transient is retried there).
func (k Kind) Retriable() bool {
	return k == KindTransient
}

// DispatcherRetriable reports whether the dispatcher's outer retry loop
// should re-enqueue an error of this kind (Transient and ConflictError).
func (k Kind) DispatcherRetriable() bool {
	return k == KindTransient || k == KindConflict
}

// AppError is a structured error that maps to a stable wire error code
// and an HTTP status. Err carries the wrapped internal cause, which is
// never exposed in a response body.
type AppError struct {
	Code       string `json:"errorCode"`
	Message    string `json:"errorMessage"`
	Kind       Kind   `json:"-"`
	HTTPStatus int    `json:"-"`
	Err        error  `json:"-"`
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// New creates a new AppError.
func New(code string, kind Kind, message string, httpStatus int) *AppError {
	return &AppError{Code: code, Kind: kind, Message: message, HTTPStatus: httpStatus}
}

// Wrap wraps an internal error with an AppError.
func Wrap(code string, kind Kind, message string, httpStatus int, err error) *AppError {
	return &AppError{Code: code, Kind: kind, Message: message, HTTPStatus: httpStatus, Err: err}
}

// ---- Stable wire error codes (spec.md §6) ----

func ErrInvalidState() *AppError {
	return New("INVALID_STATE", KindState, "payment is not in a state that allows this operation", http.StatusConflict)
}

func ErrLockTimeout(err error) *AppError {
	return Wrap("LOCK_TIMEOUT", KindConflict, "could not acquire payment lock in time", http.StatusServiceUnavailable, err)
}

func ErrSystemOverload() *AppError {
	return New("SYSTEM_OVERLOAD", KindConflict, "processing capacity exhausted, retry later", http.StatusServiceUnavailable)
}

func ErrNotFound(entity string) *AppError {
	return New("NOT_FOUND", KindInput, fmt.Sprintf("%s not found", entity), http.StatusNotFound)
}

func ErrAccessDenied() *AppError {
	return New("ACCESS_DENIED", KindAuth, "access denied", http.StatusForbidden)
}

func ErrPartialNotSupported() *AppError {
	return New("PARTIAL_NOT_SUPPORTED", KindState, "partial cancellation is not supported", http.StatusUnprocessableEntity)
}

func ErrAuthentication() *AppError {
	return New("AUTHENTICATION_ERROR", KindAuth, "authentication failed", http.StatusUnauthorized)
}

func ErrRateLimited(retryAfterSeconds int64) *AppError {
	return New("RATE_LIMITED", KindConflict, fmt.Sprintf("rate limit exceeded, retry after %ds", retryAfterSeconds), http.StatusTooManyRequests)
}

func ErrInternal(err error) *AppError {
	return Wrap("INTERNAL_ERROR", KindInternal, "internal server error", http.StatusInternalServerError, err)
}

// ---- Additional input/validation errors (not wire-numbered in §6,
// surfaced under INVALID_STATE's sibling InputError kind) ----

func ErrInvalidAmount() *AppError {
	return New("INVALID_AMOUNT", KindInput, "invalid amount", http.StatusBadRequest)
}

func ErrValidation(message string) *AppError {
	return New("VALIDATION_ERROR", KindInput, message, http.StatusBadRequest)
}

func ErrTimestampExpired() *AppError {
	return New("AUTHENTICATION_ERROR", KindAuth, "request timestamp expired", http.StatusForbidden)
}

func ErrNonceUsed() *AppError {
	return New("AUTHENTICATION_ERROR", KindAuth, "nonce has already been used", http.StatusForbidden)
}

func ErrCancelled() *AppError {
	return New("CANCELLED", KindCancelled, "operation was cancelled before commit", http.StatusConflict)
}

func ErrPermanent(message string, err error) *AppError {
	return Wrap("PERMANENT_FAILURE", KindPermanent, message, http.StatusUnprocessableEntity, err)
}

// ErrAuthorizationDeclined signals the card network declined or could
// not be reached in time for an Authorize command.
func ErrAuthorizationDeclined() *AppError {
	return New("AUTHORIZATION_DECLINED", KindState, "card network declined authorization", http.StatusUnprocessableEntity)
}

// ErrTeamLimitExceeded signals the dispatcher's per-tenant semaphore
// was exhausted (spec.md §4.5, allowConcurrentTeamProcessing=true
// try-acquire path).
func ErrTeamLimitExceeded() *AppError {
	return New("TEAM_LIMIT_EXCEEDED", KindConflict, "team concurrent processing limit exceeded", http.StatusTooManyRequests)
}
