package postgres

import (
	"context"
	"testing"
	"time"

	"payment-gateway-core/internal/core/domain"

	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWebhookAttemptRepo_Append_BindsDurationAsMilliseconds(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	attempt := &domain.WebhookAttempt{
		NotificationID: "n-1", AttemptNumber: 1, Status: "success", ResponseCode: 200,
		Duration: 250 * time.Millisecond, CreatedAt: time.Now(),
	}

	mock.ExpectExec("INSERT INTO webhook_attempts").
		WithArgs(attempt.NotificationID, attempt.AttemptNumber, attempt.Status, attempt.ResponseCode,
			int64(250), attempt.CreatedAt).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	repo := NewWebhookAttemptRepo(mock)
	require.NoError(t, repo.Append(context.Background(), attempt))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestWebhookAttemptRepo_List_ReconstructsDurationAndOrder(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	now := time.Now()
	rows := mock.NewRows([]string{"notification_id", "attempt_number", "status", "response_code", "duration_ms", "created_at"}).
		AddRow("n-1", 1, "failure", 500, int64(100), now).
		AddRow("n-1", 2, "success", 200, int64(300), now)

	mock.ExpectQuery("SELECT .* FROM webhook_attempts WHERE notification_id").
		WithArgs("n-1").
		WillReturnRows(rows)

	repo := NewWebhookAttemptRepo(mock)
	attempts, err := repo.List(context.Background(), "n-1")
	require.NoError(t, err)
	require.Len(t, attempts, 2)
	assert.Equal(t, 1, attempts[0].AttemptNumber)
	assert.Equal(t, 100*time.Millisecond, attempts[0].Duration)
	assert.Equal(t, 2, attempts[1].AttemptNumber)
	assert.Equal(t, 300*time.Millisecond, attempts[1].Duration)
	require.NoError(t, mock.ExpectationsWereMet())
}
