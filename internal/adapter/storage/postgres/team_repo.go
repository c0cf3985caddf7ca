package postgres

import (
	"context"
	"errors"
	"fmt"

	"payment-gateway-core/internal/core/domain"

	"github.com/jackc/pgx/v5"
)

// TeamRepo implements ports.TeamRegistry.
type TeamRepo struct {
	pool Pool
}

// NewTeamRepo creates a new TeamRepo.
func NewTeamRepo(pool Pool) *TeamRepo {
	return &TeamRepo{pool: pool}
}

func (r *TeamRepo) Create(ctx context.Context, team *domain.Team) error {
	query := `INSERT INTO teams (id, slug, password, dashboard_password_hash, webhook_url, webhook_secret, webhook_retry_attempts, webhook_timeout_seconds, enable_webhooks, is_active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`

	_, err := r.pool.Exec(ctx, query,
		team.ID, team.Slug, team.Password, team.DashboardPasswordHash, team.WebhookURL, team.WebhookSecret,
		team.WebhookRetryAttempts, team.WebhookTimeoutSeconds, team.EnableWebhooks, team.IsActive,
		team.CreatedAt, team.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert team: %w", err)
	}
	return nil
}

func (r *TeamRepo) LookupBySlug(ctx context.Context, slug string) (*domain.Team, error) {
	query := `SELECT id, slug, password, dashboard_password_hash, webhook_url, webhook_secret, webhook_retry_attempts, webhook_timeout_seconds, enable_webhooks, is_active, created_at, updated_at
		FROM teams WHERE slug = $1`
	return r.scanTeam(r.pool.QueryRow(ctx, query, slug))
}

func (r *TeamRepo) LookupByID(ctx context.Context, id string) (*domain.Team, error) {
	query := `SELECT id, slug, password, dashboard_password_hash, webhook_url, webhook_secret, webhook_retry_attempts, webhook_timeout_seconds, enable_webhooks, is_active, created_at, updated_at
		FROM teams WHERE id = $1`
	return r.scanTeam(r.pool.QueryRow(ctx, query, id))
}

func (r *TeamRepo) scanTeam(row pgx.Row) (*domain.Team, error) {
	t := &domain.Team{}
	err := row.Scan(
		&t.ID, &t.Slug, &t.Password, &t.DashboardPasswordHash, &t.WebhookURL, &t.WebhookSecret,
		&t.WebhookRetryAttempts, &t.WebhookTimeoutSeconds, &t.EnableWebhooks, &t.IsActive,
		&t.CreatedAt, &t.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("scan team: %w", err)
	}
	return t, nil
}
