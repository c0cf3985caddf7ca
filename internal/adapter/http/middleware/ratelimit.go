package middleware

import (
"fmt"
"strconv"
"time"

redisStore "payment-gateway-core/internal/adapter/storage/redis"
"payment-gateway-core/internal/core/ports"
"payment-gateway-core/pkg/apperror"
"payment-gateway-core/pkg/response"

"github.com/gin-gonic/gin"
"github.com/rs/zerolog"
)

// RateLimitRule defines a rate limit for an endpoint group.
type RateLimitRule struct {
Limit  int64
Window time.Duration
}

// DefaultRateLimitRules returns the per-endpoint-group rate limits for
// the payment-lifecycle and admin HTTP surface.
func DefaultRateLimitRules() map[string]RateLimitRule {
return map[string]RateLimitRule{
"payments_init":      {Limit: 100, Window: time.Minute},
"payments_mutate":    {Limit: 60, Window: time.Minute},
"payments_state":     {Limit: 200, Window: time.Minute},
"admin_bulk_delete":  {Limit: 5, Window: time.Minute},
"admin_register_team": {Limit: 20, Window: time.Minute},
}
}

// RateLimiter creates a rate-limiting middleware for a given endpoint group.
// metrics may be nil in tests that don't care about the rate_limit_hits_total
// counter.
func RateLimiter(store *redisStore.RateLimitStore, group string, rule RateLimitRule, metrics ports.MetricsSink, log zerolog.Logger) gin.HandlerFunc {
return func(c *gin.Context) {
identifier, identifierType := extractIdentifier(c)
key := fmt.Sprintf("%s:%s", identifier, group)

result, err := store.Allow(c.Request.Context(), key, rule.Limit, rule.Window)
if err != nil {
log.Warn().Err(err).Str("group", group).Msg("rate limit check failed, allowing request (degraded mode)")
c.Next()
return
}

// Always set rate limit headers
c.Header("X-RateLimit-Limit", strconv.FormatInt(result.Limit, 10))
c.Header("X-RateLimit-Remaining", strconv.FormatInt(result.Remaining, 10))
c.Header("X-RateLimit-Reset", strconv.FormatInt(result.ResetAt, 10))

if !result.Allowed {
if metrics != nil {
metrics.IncCounter("rate_limit_hits_total", map[string]string{"policy": group, "identifier_type": identifierType})
}
retryAfter := result.ResetAt - time.Now().Unix()
if retryAfter < 1 {
retryAfter = 1
}
c.Header("Retry-After", strconv.FormatInt(retryAfter, 10))
response.Error(c, apperror.ErrRateLimited(retryAfter))
c.Abort()
return
}

c.Next()
}
}

// extractIdentifier determines the rate limit key source: the
// authenticated team slug once TeamSignatureAuth has run, else the
// operator ID once OperatorAuth has run, falling back to client IP for
// requests with neither (e.g. a malformed request that never reached
// an auth middleware's c.Set). The
// second return value labels which kind of identifier was used.
func extractIdentifier(c *gin.Context) (string, string) {
if slug, exists := c.Get(CtxTeamSlug); exists {
return fmt.Sprintf("%v", slug), "team"
}
if op, exists := c.Get(CtxOperatorID); exists {
return fmt.Sprintf("%v", op), "operator"
}
return c.ClientIP(), "ip"
}
