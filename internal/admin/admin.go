// Package admin implements the operator-facing maintenance surface:
// bulk purging old payments and their transactions for a team (spec.md
// Design Note Q3), audited the same way every lifecycle command is
// audited, and bootstrapping new teams with a minted signing secret
// and an Argon2id-hashed dashboard password.
package admin

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"time"

	"payment-gateway-core/internal/audit"
	"payment-gateway-core/internal/core/domain"
	"payment-gateway-core/internal/core/ports"
	"payment-gateway-core/pkg/apperror"
	"payment-gateway-core/pkg/cryptoutil"

	"github.com/rs/zerolog"
)

// signingSecretBytes is the length of the random signing secret minted
// for a newly bootstrapped team, before hex-encoding.
const signingSecretBytes = 32

// Ops wires the PaymentStore's bulk delete and the TeamRegistry's
// operator-bootstrap path to the audit chain and metrics, giving the
// HTTP admin handler a single narrow entry point for both.
type Ops struct {
	store   ports.PaymentStore
	teams   ports.TeamRegistry
	ids     ports.IDGenerator
	clock   ports.Clock
	audit   *audit.Builder
	metrics ports.MetricsSink
	log     zerolog.Logger
}

// New constructs an Ops.
func New(store ports.PaymentStore, teams ports.TeamRegistry, ids ports.IDGenerator, clock ports.Clock, metrics ports.MetricsSink, log zerolog.Logger) *Ops {
	return &Ops{store: store, teams: teams, ids: ids, clock: clock, audit: audit.New(ids, clock), metrics: metrics, log: log}
}

// BulkDeleteRequest carries the operator-supplied purge boundary.
type BulkDeleteRequest struct {
	TeamID     string
	OlderThan  time.Time
	OperatorID string // authenticated operator, recorded on the audit entry
}

// BulkDeleteResult reports how many payments were purged.
type BulkDeleteResult struct {
	DeletedCount int64
}

// BulkDelete runs the operation inside a single ExecuteInTransaction
// closure: PaymentStore.BulkDelete deletes the rows, and the audit
// entry chains onto the team's existing audit history before commit —
// either both happen or neither does.
func (o *Ops) BulkDelete(ctx context.Context, req BulkDeleteRequest) (*BulkDeleteResult, error) {
	if req.TeamID == "" {
		return nil, apperror.ErrValidation("teamId is required")
	}

	var deleted int64
	op := func(ctx context.Context) error {
		n, err := o.store.BulkDelete(ctx, req.TeamID, req.OlderThan)
		if err != nil {
			return apperror.ErrInternal(err)
		}
		deleted = n

		previousHash, err := o.store.LastAuditHash(ctx, req.TeamID)
		if err != nil {
			return apperror.ErrInternal(err)
		}
		entry, err := o.audit.Entry(req.TeamID, "team", domain.AuditActionBulkDelete, req.OperatorID,
			"bulk delete older than "+req.OlderThan.UTC().Format(time.RFC3339), map[string]int64{"deletedCount": n}, previousHash, true)
		if err != nil {
			return apperror.ErrInternal(err)
		}
		return o.store.AppendAudit(ctx, entry)
	}

	if err := o.store.ExecuteInTransaction(ctx, op); err != nil {
		return nil, err
	}

	o.log.Info().Str("team_id", req.TeamID).Int64("deleted", deleted).Msg("bulk delete completed")
	o.metrics.IncCounter("admin_bulk_delete_total", map[string]string{"team_id": req.TeamID})
	return &BulkDeleteResult{DeletedCount: deleted}, nil
}

// RegisterTeamRequest carries the operator-supplied fields for
// bootstrapping a new team: Slug identifies the tenant, DashboardPassword
// is hashed with Argon2id and stored separately from the generated
// signing secret.
type RegisterTeamRequest struct {
	Slug              string
	DashboardPassword string
}

// RegisterTeamResult returns the minted signing secret once, in plain
// text — the only time it is ever exposed. The caller is responsible
// for delivering it to the team out of band. The team record keeps the
// same secret, unhashed, in Team.Password, where request-signature
// checks read it.
type RegisterTeamResult struct {
	TeamID        string
	Slug          string
	SigningSecret string
}

// RegisterTeam mints a random signing secret, hashes the operator-chosen
// dashboard password with Argon2id, and persists the new team as active.
func (o *Ops) RegisterTeam(ctx context.Context, req RegisterTeamRequest) (*RegisterTeamResult, error) {
	if req.Slug == "" {
		return nil, apperror.ErrValidation("slug is required")
	}
	if req.DashboardPassword == "" {
		return nil, apperror.ErrValidation("dashboardPassword is required")
	}

	secretBytes := make([]byte, signingSecretBytes)
	if _, err := rand.Read(secretBytes); err != nil {
		return nil, apperror.ErrInternal(err)
	}
	secret := hex.EncodeToString(secretBytes)

	passwordHash, err := cryptoutil.HashPassword(req.DashboardPassword)
	if err != nil {
		return nil, apperror.ErrInternal(err)
	}

	now := o.clock.Now()
	team := &domain.Team{
		ID:                    o.ids.NewID(),
		Slug:                  req.Slug,
		Password:              []byte(secret),
		DashboardPasswordHash: passwordHash,
		IsActive:              true,
		CreatedAt:             now,
		UpdatedAt:             now,
	}

	if err := o.teams.Create(ctx, team); err != nil {
		return nil, apperror.ErrInternal(err)
	}

	o.log.Info().Str("team_id", team.ID).Str("slug", team.Slug).Msg("team registered")
	o.metrics.IncCounter("admin_register_team_total", map[string]string{"slug": team.Slug})
	return &RegisterTeamResult{TeamID: team.ID, Slug: team.Slug, SigningSecret: secret}, nil
}
