// Package auth implements the request authentication and token signing
// protocol: canonical parameter projection, deterministic SHA-256
// signatures (including the PaymentCheck non-lexicographic quirk), and
// the optional expiring/refresh token layer.
package auth

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"payment-gateway-core/internal/core/domain"
	"payment-gateway-core/internal/core/ports"
	"payment-gateway-core/pkg/apperror"
	"payment-gateway-core/pkg/cryptoutil"

	"github.com/google/uuid"
)

// MaxTokensPerTeam bounds the number of simultaneously live expiring
// tokens per tenant (invariant I5); the oldest is evicted on overflow.
const MaxTokensPerTeam = 5

// Service produces and verifies per-request signatures, and manages the
// optional expiring-token layer.
type Service struct {
	teams  ports.TeamRegistry
	tokens ports.TokenStore
	clock  ports.Clock
}

// NewService constructs the authentication service.
func NewService(teams ports.TeamRegistry, tokens ports.TokenStore, clock ports.Clock) *Service {
	return &Service{teams: teams, tokens: tokens, clock: clock}
}

// VerifyRequest validates a request's signature against the named
// team's stored password. params must already exclude nested/array/null
// fields and the reserved Token key is ignored automatically.
func (s *Service) VerifyRequest(ctx context.Context, teamSlug string, params cryptoutil.CanonicalParams, signature string) error {
	if teamSlug == "" {
		return apperror.ErrAuthentication()
	}
	if signature == "" {
		return apperror.ErrAuthentication()
	}

	team, err := s.teams.LookupBySlug(ctx, teamSlug)
	if err != nil {
		return apperror.ErrAuthentication()
	}
	if team == nil || !team.IsActive {
		return apperror.ErrAuthentication()
	}

	if !cryptoutil.VerifySignature(params, string(team.Password), signature) {
		return apperror.ErrAuthentication()
	}
	return nil
}

// Sign produces the wire signature for an outbound or re-issued request,
// using the team's stored password.
func (s *Service) Sign(ctx context.Context, teamSlug string, params cryptoutil.CanonicalParams) (string, error) {
	team, err := s.teams.LookupBySlug(ctx, teamSlug)
	if err != nil || team == nil {
		return "", apperror.ErrAuthentication()
	}
	return cryptoutil.Sign(params, string(team.Password)), nil
}

// IssueToken mints a new expiring token for teamSlug, evicting the
// oldest live token first if the tenant is already at MaxTokensPerTeam.
func (s *Service) IssueToken(ctx context.Context, teamSlug string, ttl time.Duration, originalParams map[string]string) (*domain.ExpiringToken, error) {
	team, err := s.teams.LookupBySlug(ctx, teamSlug)
	if err != nil || team == nil {
		return nil, apperror.ErrAuthentication()
	}

	live, err := s.tokens.CountLive(ctx, teamSlug, s.clock.Now())
	if err != nil {
		return nil, apperror.ErrInternal(err)
	}
	if live >= MaxTokensPerTeam {
		if err := s.tokens.DeleteOldest(ctx, teamSlug); err != nil {
			return nil, apperror.ErrInternal(err)
		}
	}

	now := s.clock.Now()
	tokenID := uuid.NewString()

	projected := make(cryptoutil.CanonicalParams, len(originalParams)+3)
	for k, v := range originalParams {
		projected[k] = v
	}
	projected["TokenId"] = tokenID
	projected["IssuedAt"] = now.UTC().Format(time.RFC3339)
	projected["TeamSlug"] = teamSlug

	signed := cryptoutil.Sign(projected, string(team.Password))

	refresh, err := cryptoutil.NewRefreshToken()
	if err != nil {
		return nil, apperror.ErrInternal(err)
	}

	tok := &domain.ExpiringToken{
		TokenID:        tokenID,
		TeamSlug:       teamSlug,
		Token:          signed,
		RefreshToken:   refresh,
		IssuedAt:       now,
		ExpiresAt:      now.Add(ttl),
		OriginalParams: originalParams,
	}

	if err := s.tokens.Save(ctx, tok); err != nil {
		return nil, apperror.ErrInternal(err)
	}
	return tok, nil
}

// ValidateToken looks up tok by ID and checks expiry. The stored
// signature is not recomputed or compared here.
func (s *Service) ValidateToken(ctx context.Context, tokenID string) (*domain.ExpiringToken, error) {
	if tokenID == "" {
		return nil, tokenErr("TOKEN_MISSING")
	}

	tok, err := s.tokens.Get(ctx, tokenID)
	if err != nil || tok == nil {
		return nil, tokenErr("TOKEN_INVALID")
	}

	if tok.Expired(s.clock.Now()) {
		return nil, tokenErr("TOKEN_EXPIRED")
	}

	return tok, nil
}

// RefreshToken exchanges a single-use refresh token for a freshly
// re-signed token, always re-signing with the real team secret resolved
// through TeamRegistry.LookupBySlug — never a placeholder (Design
// Notes Q4).
func (s *Service) RefreshToken(ctx context.Context, refreshToken string, ttl time.Duration) (*domain.ExpiringToken, error) {
	old, err := s.tokens.GetByRefreshToken(ctx, refreshToken)
	if err != nil || old == nil {
		return nil, tokenErr("TOKEN_INVALID")
	}

	team, err := s.teams.LookupBySlug(ctx, old.TeamSlug)
	if err != nil || team == nil {
		return nil, tokenErr("TEAM_NOT_FOUND")
	}

	// Single-use: revoke before issuing the replacement.
	if err := s.tokens.Delete(ctx, old.TokenID); err != nil {
		return nil, apperror.ErrInternal(err)
	}

	return s.IssueToken(ctx, old.TeamSlug, ttl, old.OriginalParams)
}

func tokenErr(code string) error {
	return apperror.New(code, apperror.KindAuth, fmt.Sprintf("token error: %s", code), http.StatusUnauthorized)
}
