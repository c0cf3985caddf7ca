package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"payment-gateway-core/internal/core/domain"

	"github.com/jackc/pgx/v5"
)

// PaymentRepo implements ports.PaymentStore. ExecuteInTransaction opens
// a single pgx.Tx and threads it through ctx (see txcontext.go) so
// every other method called from inside fn — GetPayment, UpdatePayment,
// AppendTransaction, AppendAudit — participates in the same atomic
// unit of work, matching the lifecycle engine's persist-then-audit step.
type PaymentRepo struct {
	pool Pool
}

// NewPaymentRepo creates a new PaymentRepo.
func NewPaymentRepo(pool Pool) *PaymentRepo {
	return &PaymentRepo{pool: pool}
}

func (r *PaymentRepo) ExecuteInTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}

	if err := fn(withTx(ctx, tx)); err != nil {
		if rbErr := tx.Rollback(ctx); rbErr != nil && !errors.Is(rbErr, pgx.ErrTxClosed) {
			return fmt.Errorf("%w (rollback also failed: %v)", err, rbErr)
		}
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

func (r *PaymentRepo) GetPayment(ctx context.Context, paymentID string) (*domain.Payment, error) {
	q := querierFrom(ctx, r.pool)
	query := `SELECT id, payment_id, team_id, team_slug, order_id, amount, currency, status, card_fingerprint, created_at, updated_at, is_deleted
		FROM payments WHERE payment_id = $1 AND is_deleted = false`
	return scanPayment(q.QueryRow(ctx, query, paymentID))
}

func (r *PaymentRepo) CreatePayment(ctx context.Context, payment *domain.Payment) error {
	q := querierFrom(ctx, r.pool)
	query := `INSERT INTO payments (id, payment_id, team_id, team_slug, order_id, amount, currency, status, card_fingerprint, created_at, updated_at, is_deleted)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`
	_, err := q.Exec(ctx, query,
		payment.ID, payment.PaymentID, payment.TeamID, payment.TeamSlug, payment.OrderID,
		payment.Amount, payment.Currency, payment.Status, payment.CardFingerprint,
		payment.CreatedAt, payment.UpdatedAt, payment.IsDeleted,
	)
	if err != nil {
		return fmt.Errorf("insert payment: %w", err)
	}
	return nil
}

func (r *PaymentRepo) UpdatePayment(ctx context.Context, payment *domain.Payment) error {
	q := querierFrom(ctx, r.pool)
	payment.UpdatedAt = time.Now().UTC()
	query := `UPDATE payments SET status=$1, card_fingerprint=$2, updated_at=$3 WHERE payment_id=$4`
	tag, err := q.Exec(ctx, query, payment.Status, payment.CardFingerprint, payment.UpdatedAt, payment.PaymentID)
	if err != nil {
		return fmt.Errorf("update payment: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("payment not found: %s", payment.PaymentID)
	}
	return nil
}

func (r *PaymentRepo) AppendTransaction(ctx context.Context, txn *domain.Transaction) error {
	q := querierFrom(ctx, r.pool)
	query := `INSERT INTO payment_transactions (id, payment_id, type, amount, created_at, result_code, result_message)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, err := q.Exec(ctx, query, txn.ID, txn.PaymentID, txn.Type, txn.Amount, txn.CreatedAt, txn.ResultCode, txn.ResultMessage)
	if err != nil {
		return fmt.Errorf("insert payment transaction: %w", err)
	}
	return nil
}

func (r *PaymentRepo) ListTransactions(ctx context.Context, paymentID string) ([]domain.Transaction, error) {
	q := querierFrom(ctx, r.pool)
	query := `SELECT id, payment_id, type, amount, created_at, result_code, result_message
		FROM payment_transactions WHERE payment_id = $1 ORDER BY created_at ASC`
	rows, err := q.Query(ctx, query, paymentID)
	if err != nil {
		return nil, fmt.Errorf("list payment transactions: %w", err)
	}
	defer rows.Close()

	var txns []domain.Transaction
	for rows.Next() {
		var t domain.Transaction
		if err := rows.Scan(&t.ID, &t.PaymentID, &t.Type, &t.Amount, &t.CreatedAt, &t.ResultCode, &t.ResultMessage); err != nil {
			return nil, fmt.Errorf("scan payment transaction: %w", err)
		}
		txns = append(txns, t)
	}
	return txns, rows.Err()
}

func (r *PaymentRepo) AppendAudit(ctx context.Context, entry *domain.AuditEntry) error {
	q := querierFrom(ctx, r.pool)
	query := `INSERT INTO audit_entries (id, entity_id, entity_type, action, user_id, timestamp, details, snapshot_after, integrity_hash, previous_hash, is_sensitive)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`
	_, err := q.Exec(ctx, query,
		entry.ID, entry.EntityID, entry.EntityType, entry.Action, entry.UserID, entry.Timestamp,
		entry.Details, entry.SnapshotAfter, entry.IntegrityHash, entry.PreviousHash, entry.IsSensitive,
	)
	if err != nil {
		return fmt.Errorf("insert audit entry: %w", err)
	}
	return nil
}

func (r *PaymentRepo) LastAuditHash(ctx context.Context, entityID string) (string, error) {
	q := querierFrom(ctx, r.pool)
	query := `SELECT integrity_hash FROM audit_entries WHERE entity_id = $1 ORDER BY timestamp DESC LIMIT 1`
	var hash string
	err := q.QueryRow(ctx, query, entityID).Scan(&hash)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", nil
		}
		return "", fmt.Errorf("get last audit hash: %w", err)
	}
	return hash, nil
}

// BulkDelete permanently deletes every payment for a team older than
// olderThan, along with their child transaction rows — transactions
// first, satisfying the FK ordering, both within the single
// ExecuteInTransaction closure the caller is required to open (Q3).
func (r *PaymentRepo) BulkDelete(ctx context.Context, teamID string, olderThan time.Time) (int64, error) {
	q := querierFrom(ctx, r.pool)

	_, err := q.Exec(ctx, `DELETE FROM payment_transactions WHERE payment_id IN (
		SELECT payment_id FROM payments WHERE team_id = $1 AND created_at < $2
	)`, teamID, olderThan)
	if err != nil {
		return 0, fmt.Errorf("bulk delete payment transactions: %w", err)
	}

	tag, err := q.Exec(ctx, `DELETE FROM payments WHERE team_id = $1 AND created_at < $2`, teamID, olderThan)
	if err != nil {
		return 0, fmt.Errorf("bulk delete payments: %w", err)
	}
	return tag.RowsAffected(), nil
}

func scanPayment(row pgx.Row) (*domain.Payment, error) {
	p := &domain.Payment{}
	err := row.Scan(
		&p.ID, &p.PaymentID, &p.TeamID, &p.TeamSlug, &p.OrderID,
		&p.Amount, &p.Currency, &p.Status, &p.CardFingerprint,
		&p.CreatedAt, &p.UpdatedAt, &p.IsDeleted,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("scan payment: %w", err)
	}
	return p, nil
}
