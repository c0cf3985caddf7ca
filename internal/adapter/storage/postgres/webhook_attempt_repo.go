package postgres

import (
	"context"
	"fmt"
	"time"

	"payment-gateway-core/internal/core/domain"
)

// WebhookAttemptRepo implements ports.WebhookAttemptStore: the
// append-only delivery attempts log every webhook.Engine delivery
// writes to, success or failure.
type WebhookAttemptRepo struct {
	pool Pool
}

// NewWebhookAttemptRepo creates a new WebhookAttemptRepo.
func NewWebhookAttemptRepo(pool Pool) *WebhookAttemptRepo {
	return &WebhookAttemptRepo{pool: pool}
}

func (r *WebhookAttemptRepo) Append(ctx context.Context, attempt *domain.WebhookAttempt) error {
	query := `INSERT INTO webhook_attempts (notification_id, attempt_number, status, response_code, duration_ms, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)`
	_, err := r.pool.Exec(ctx, query,
		attempt.NotificationID, attempt.AttemptNumber, attempt.Status,
		attempt.ResponseCode, attempt.Duration.Milliseconds(), attempt.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert webhook attempt: %w", err)
	}
	return nil
}

func (r *WebhookAttemptRepo) List(ctx context.Context, notificationID string) ([]domain.WebhookAttempt, error) {
	query := `SELECT notification_id, attempt_number, status, response_code, duration_ms, created_at
		FROM webhook_attempts WHERE notification_id = $1 ORDER BY attempt_number ASC`
	rows, err := r.pool.Query(ctx, query, notificationID)
	if err != nil {
		return nil, fmt.Errorf("list webhook attempts: %w", err)
	}
	defer rows.Close()

	var attempts []domain.WebhookAttempt
	for rows.Next() {
		var a domain.WebhookAttempt
		var durationMS int64
		if err := rows.Scan(&a.NotificationID, &a.AttemptNumber, &a.Status, &a.ResponseCode, &durationMS, &a.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan webhook attempt: %w", err)
		}
		a.Duration = time.Duration(durationMS) * time.Millisecond
		attempts = append(attempts, a)
	}
	return attempts, rows.Err()
}
