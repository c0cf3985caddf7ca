package dto

// Every payment-lifecycle request body doubles as the signature's
// canonical parameter set (spec §4.1): field names are PascalCase
// because they are projected verbatim into the signed string, and
// Token carries the caller's signature over every other scalar field
// plus the team's password.

// InitPaymentRequest starts a new payment.
type InitPaymentRequest struct {
	TeamSlug          string `json:"TeamSlug" binding:"required,safe_id"`
	Amount            int64  `json:"Amount" binding:"required,gt=0"`
	OrderId           string `json:"OrderId" binding:"required,safe_id"`
	Currency          string `json:"Currency" binding:"required,len=3"`
	ExternalRequestId string `json:"ExternalRequestId,omitempty"`
	Token             string `json:"Token" binding:"required"`
}

// ShowFormRequest moves a payment into FORM_SHOWED.
type ShowFormRequest struct {
	TeamSlug          string `json:"TeamSlug" binding:"required,safe_id"`
	PaymentId         string `json:"PaymentId" binding:"required,safe_id"`
	ExternalRequestId string `json:"ExternalRequestId,omitempty"`
	Token             string `json:"Token" binding:"required"`
}

// AuthorizeRequest records the caller-supplied card fingerprint and
// moves the payment toward AUTHORIZED.
type AuthorizeRequest struct {
	TeamSlug          string `json:"TeamSlug" binding:"required,safe_id"`
	PaymentId         string `json:"PaymentId" binding:"required,safe_id"`
	CardFingerprint   string `json:"CardFingerprint" binding:"required"`
	ExternalRequestId string `json:"ExternalRequestId,omitempty"`
	Token             string `json:"Token" binding:"required"`
}

// ConfirmRequest moves an AUTHORIZED payment to CONFIRMED.
type ConfirmRequest struct {
	TeamSlug          string `json:"TeamSlug" binding:"required,safe_id"`
	PaymentId         string `json:"PaymentId" binding:"required,safe_id"`
	ExternalRequestId string `json:"ExternalRequestId,omitempty"`
	Token             string `json:"Token" binding:"required"`
}

// CancelRequest cancels, reverses, or refunds a payment depending on
// its current status. Amount, when present, must equal the payment's
// full amount — partial cancellation is not supported.
type CancelRequest struct {
	TeamSlug          string `json:"TeamSlug" binding:"required,safe_id"`
	PaymentId         string `json:"PaymentId" binding:"required,safe_id"`
	Amount            *int64 `json:"Amount,omitempty"`
	Reason            string `json:"Reason,omitempty"`
	ExternalRequestId string `json:"ExternalRequestId,omitempty"`
	Token             string `json:"Token" binding:"required"`
}

// GetStateRequest looks up a payment's current status. Carrying
// PaymentId and TeamSlug but never Amount is what makes this the
// PaymentCheck signature quirk's status-lookup predicate.
type GetStateRequest struct {
	TeamSlug  string `json:"TeamSlug" binding:"required,safe_id"`
	PaymentId string `json:"PaymentId" binding:"required,safe_id"`
	Token     string `json:"Token" binding:"required"`
}

// PaymentResponse is the wire shape for every lifecycle endpoint's
// success payload.
type PaymentResponse struct {
	Success   bool   `json:"Success"`
	TeamSlug  string `json:"TeamSlug"`
	PaymentId string `json:"PaymentId"`
	OrderId   string `json:"OrderId,omitempty"`
	Amount    int64  `json:"Amount,omitempty"`
	Currency  string `json:"Currency,omitempty"`
	Status    string `json:"Status"`
}

// BulkDeleteRequest is the operator-only admin purge request. It is
// authenticated by operator JWT, not by team signature, so it carries
// no Token field.
type BulkDeleteRequest struct {
	TeamId    string `json:"teamId" binding:"required,safe_id"`
	OlderThan string `json:"olderThan" binding:"required"` // RFC3339
}

// BulkDeleteResponse reports the purge outcome.
type BulkDeleteResponse struct {
	DeletedCount int64 `json:"deletedCount"`
}

// RegisterTeamRequest is the operator-only team bootstrap request. Like
// BulkDeleteRequest it is authenticated by operator JWT, not by team
// signature.
type RegisterTeamRequest struct {
	Slug              string `json:"slug" binding:"required,safe_id"`
	DashboardPassword string `json:"dashboardPassword" binding:"required,min=8"`
}

// RegisterTeamResponse returns the newly minted team's ID and signing
// secret. The secret is returned exactly once, here.
type RegisterTeamResponse struct {
	TeamId        string `json:"teamId"`
	Slug          string `json:"slug"`
	SigningSecret string `json:"signingSecret"`
}
