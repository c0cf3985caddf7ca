package domain

import "time"

// NotificationType enumerates the webhook event kinds and drives the
// per-type retry policy (internal/webhook).
type NotificationType string

const (
	NotificationPaymentStatusChange NotificationType = "PAYMENT_STATUS_CHANGE"
	NotificationPaymentSuccess      NotificationType = "PAYMENT_SUCCESS"
	NotificationPaymentFailure      NotificationType = "PAYMENT_FAILURE"
	NotificationFraudAlert          NotificationType = "FRAUD_ALERT"
	NotificationSystemAlert         NotificationType = "SYSTEM_ALERT"
)

// NotificationTask is one webhook delivery unit of work.
type NotificationTask struct {
	NotificationID string
	TeamID         string
	Type           NotificationType
	Endpoint       string
	Payload        []byte
	Priority       int // 1..10
	AttemptCount   int
	Headers        map[string]string
	Timeout        time.Duration
	CreatedAt      time.Time
	NextAttemptAt  time.Time
}

// WebhookAttempt records one delivery attempt, append-only.
type WebhookAttempt struct {
	NotificationID string
	AttemptNumber  int
	Status         string // "success" | "failure"
	ResponseCode   int
	Duration       time.Duration
	CreatedAt      time.Time
}
