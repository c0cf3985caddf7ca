package domain

import "time"

// Team represents a merchant/tenant account. The registry that owns
// this record (lookup, creation, suspension) lives outside the core —
// see ports.TeamRegistry — this type only models the shape the core
// needs to read.
type Team struct {
	ID                    string
	Slug                  string
	Password              []byte // secret bytes folded into the signature per auth §4.1
	DashboardPasswordHash string // Argon2id hash, unrelated to Password above
	WebhookURL            string
	WebhookSecret         []byte
	WebhookRetryAttempts  int
	WebhookTimeoutSeconds int
	EnableWebhooks        bool
	IsActive              bool
	CreatedAt             time.Time
	UpdatedAt             time.Time
}

// WebhookTimeout returns the configured per-team delivery deadline.
func (t *Team) WebhookTimeout() time.Duration {
	if t.WebhookTimeoutSeconds <= 0 {
		return 30 * time.Second
	}
	return time.Duration(t.WebhookTimeoutSeconds) * time.Second
}
