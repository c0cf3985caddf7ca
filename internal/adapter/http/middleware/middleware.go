package middleware

import (
	"context"
	"net/http"
	"strings"
	"time"

	"payment-gateway-core/pkg/apperror"
	"payment-gateway-core/pkg/cryptoutil"
	"payment-gateway-core/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"
)

// Verifier is the subset of auth.Service the signature middleware
// needs, kept narrow so tests can fake it.
type Verifier func(ctx context.Context, teamSlug string, params cryptoutil.CanonicalParams, signature string) error

// Context keys set by the auth middlewares below.
const (
	CtxTeamSlug   = "team_slug"
	CtxOperatorID = "operator_id"
)

// TeamSignatureAuth verifies the whole-body canonical-parameter SHA-256
// signature (spec §4.1) carried in every team-facing payment request.
// The body is read once here and restored so the handler's own
// ShouldBindJSON still sees it.
func TeamSignatureAuth(verify Verifier, log zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Body == nil {
			response.Error(c, apperror.ErrValidation("request body is required"))
			c.Abort()
			return
		}

		raw, restored, err := readAndRestoreBody(c.Request.Body)
		if err != nil {
			response.Error(c, apperror.ErrValidation("cannot read request body"))
			c.Abort()
			return
		}
		c.Request.Body = restored

		params, teamSlug, token, err := canonicalParamsFromBody(raw)
		if err != nil {
			response.Error(c, err)
			c.Abort()
			return
		}
		if teamSlug == "" || token == "" {
			response.Error(c, apperror.ErrAuthentication())
			c.Abort()
			return
		}

		if err := verify(c.Request.Context(), teamSlug, params, token); err != nil {
			log.Warn().Str("team_slug", teamSlug).Msg("request signature verification failed")
			response.Error(c, err)
			c.Abort()
			return
		}

		c.Set(CtxTeamSlug, teamSlug)
		c.Next()
	}
}

// OperatorAuth validates the Bearer JWT that authenticates the admin
// bulk-delete surface, distinct from a team's per-request signature
// (spec §6, operator identity recorded on the audit entry).
func OperatorAuth(secret []byte, log zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
			response.Error(c, apperror.ErrAuthentication())
			c.Abort()
			return
		}
		tokenStr := strings.TrimPrefix(authHeader, "Bearer ")

		claims := jwt.MapClaims{}
		_, err := jwt.ParseWithClaims(tokenStr, claims, func(t *jwt.Token) (interface{}, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, apperror.ErrAuthentication()
			}
			return secret, nil
		})
		if err != nil {
			log.Warn().Err(err).Msg("operator token rejected")
			response.Error(c, apperror.ErrAuthentication())
			c.Abort()
			return
		}

		operatorID, _ := claims["sub"].(string)
		if operatorID == "" {
			response.Error(c, apperror.ErrAuthentication())
			c.Abort()
			return
		}

		c.Set(CtxOperatorID, operatorID)
		c.Next()
	}
}

// RequestLogger creates a middleware that logs every HTTP request.
func RequestLogger(log zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		latency := time.Since(start)
		status := c.Writer.Status()

		event := log.Info()
		if status >= http.StatusInternalServerError {
			event = log.Error()
		} else if status >= http.StatusBadRequest {
			event = log.Warn()
		}

		event.
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Int("status", status).
			Dur("latency", latency).
			Str("client_ip", c.ClientIP()).
			Msg("http request")
	}
}

// Recovery creates a panic recovery middleware.
func Recovery(log zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if r := recover(); r != nil {
				log.Error().Interface("panic", r).Str("path", c.Request.URL.Path).Msg("panic recovered")
				c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
					"errorCode":    "INTERNAL_ERROR",
					"errorMessage": "internal server error",
				})
			}
		}()
		c.Next()
	}
}
