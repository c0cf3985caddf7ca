package middleware

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"payment-gateway-core/pkg/apperror"
	"payment-gateway-core/pkg/cryptoutil"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func alwaysVerify(err error) Verifier {
	return func(ctx context.Context, teamSlug string, params cryptoutil.CanonicalParams, signature string) error {
		return err
	}
}

func TestTeamSignatureAuth_MissingBody(t *testing.T) {
	log := zerolog.Nop()

	router := gin.New()
	router.POST("/test", TeamSignatureAuth(alwaysVerify(nil), log), func(c *gin.Context) {
		c.JSON(200, gin.H{"ok": true})
	})

	req := httptest.NewRequest(http.MethodPost, "/test", nil)
	req.Body = nil
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestTeamSignatureAuth_MissingTeamSlugOrToken(t *testing.T) {
	log := zerolog.Nop()

	router := gin.New()
	router.POST("/test", TeamSignatureAuth(alwaysVerify(nil), log), func(c *gin.Context) {
		c.JSON(200, gin.H{"ok": true})
	})

	body := `{"Amount":1000,"OrderId":"ord1"}`
	req := httptest.NewRequest(http.MethodPost, "/test", bytes.NewBufferString(body))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestTeamSignatureAuth_VerifierRejects(t *testing.T) {
	log := zerolog.Nop()

	router := gin.New()
	router.POST("/test", TeamSignatureAuth(alwaysVerify(apperror.ErrAuthentication()), log), func(c *gin.Context) {
		c.JSON(200, gin.H{"ok": true})
	})

	body := `{"TeamSlug":"acme","Amount":1000,"Token":"deadbeef"}`
	req := httptest.NewRequest(http.MethodPost, "/test", bytes.NewBufferString(body))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestTeamSignatureAuth_Success_ProjectsParamsAndRestoresBody(t *testing.T) {
	log := zerolog.Nop()

	var capturedTeamSlug string
	var capturedParams cryptoutil.CanonicalParams
	var capturedSig string

	verify := func(ctx context.Context, teamSlug string, params cryptoutil.CanonicalParams, signature string) error {
		capturedTeamSlug = teamSlug
		capturedParams = params
		capturedSig = signature
		return nil
	}

	router := gin.New()
	router.POST("/test", TeamSignatureAuth(verify, log), func(c *gin.Context) {
		slug, _ := c.Get(CtxTeamSlug)
		assert.Equal(t, "acme", slug)

		var decoded map[string]interface{}
		require.NoError(t, json.NewDecoder(c.Request.Body).Decode(&decoded))
		assert.Equal(t, "ord1", decoded["OrderId"])

		c.JSON(200, gin.H{"ok": true})
	})

	body := `{"TeamSlug":"acme","OrderId":"ord1","Amount":1050,"Token":"sig123"}`
	req := httptest.NewRequest(http.MethodPost, "/test", bytes.NewBufferString(body))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "acme", capturedTeamSlug)
	assert.Equal(t, "sig123", capturedSig)
	assert.Equal(t, "ord1", capturedParams["OrderId"])
	assert.Equal(t, "1050", capturedParams["Amount"])
	_, hasToken := capturedParams["Token"]
	assert.False(t, hasToken)
}

func signOperatorToken(t *testing.T, secret []byte, sub string, expired bool) string {
	t.Helper()
	exp := time.Now().Add(time.Hour)
	if expired {
		exp = time.Now().Add(-time.Hour)
	}
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": sub,
		"exp": exp.Unix(),
	})
	signed, err := tok.SignedString(secret)
	require.NoError(t, err)
	return signed
}

func TestOperatorAuth_MissingHeader(t *testing.T) {
	log := zerolog.Nop()

	router := gin.New()
	router.GET("/test", OperatorAuth([]byte("secret"), log), func(c *gin.Context) {
		c.JSON(200, gin.H{"ok": true})
	})

	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestOperatorAuth_InvalidToken(t *testing.T) {
	log := zerolog.Nop()

	router := gin.New()
	router.GET("/test", OperatorAuth([]byte("secret"), log), func(c *gin.Context) {
		c.JSON(200, gin.H{"ok": true})
	})

	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	req.Header.Set("Authorization", "Bearer not-a-jwt")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestOperatorAuth_ExpiredToken(t *testing.T) {
	log := zerolog.Nop()
	secret := []byte("secret")

	router := gin.New()
	router.GET("/test", OperatorAuth(secret, log), func(c *gin.Context) {
		c.JSON(200, gin.H{"ok": true})
	})

	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	req.Header.Set("Authorization", "Bearer "+signOperatorToken(t, secret, "op-1", true))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestOperatorAuth_WrongSecret(t *testing.T) {
	log := zerolog.Nop()

	router := gin.New()
	router.GET("/test", OperatorAuth([]byte("real-secret"), log), func(c *gin.Context) {
		c.JSON(200, gin.H{"ok": true})
	})

	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	req.Header.Set("Authorization", "Bearer "+signOperatorToken(t, []byte("wrong-secret"), "op-1", false))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestOperatorAuth_Success(t *testing.T) {
	log := zerolog.Nop()
	secret := []byte("secret")

	var capturedOperatorID string
	router := gin.New()
	router.GET("/test", OperatorAuth(secret, log), func(c *gin.Context) {
		id, _ := c.Get(CtxOperatorID)
		capturedOperatorID, _ = id.(string)
		c.JSON(200, gin.H{"ok": true})
	})

	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	req.Header.Set("Authorization", "Bearer "+signOperatorToken(t, secret, "op-42", false))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "op-42", capturedOperatorID)
}

func TestRecovery_PanicRecovered(t *testing.T) {
	log := zerolog.Nop()

	router := gin.New()
	router.Use(Recovery(log))
	router.GET("/panic", func(c *gin.Context) {
		panic("something went wrong")
	})

	req := httptest.NewRequest(http.MethodGet, "/panic", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	var resp map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "INTERNAL_ERROR", resp["errorCode"])
}
