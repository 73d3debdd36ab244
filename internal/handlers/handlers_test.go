package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sovereign/api/internal/async"
	"sovereign/api/internal/config"
	"sovereign/api/internal/security"
)

const testSecret = "test-secret"

// newTestRouter wires the full route table without backing stores; the
// cases below only exercise paths that never reach postgres or redis.
func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	adminHash, err := security.HashPassword("admin-pw", 4)
	require.NoError(t, err)

	cfg := &config.AppConfig{
		Environment: "test",
		Security: config.SecurityConfig{
			JWTSecret:         testSecret,
			UserTokenTTL:      24 * time.Hour,
			AdminTokenTTL:     8 * time.Hour,
			AdminEmail:        "admin@sovereign.btc",
			AdminPasswordHash: adminHash,
			BcryptCost:        4,
		},
	}

	handlerSet := NewHandlerSet(zerolog.Nop(), nil, nil, nil, async.NewRunner(zerolog.Nop()), cfg)
	engine := gin.New()
	handlerSet.Register(engine)
	return engine
}

func do(router *gin.Engine, method string, path string, body string, token string) *httptest.ResponseRecorder {
	var reader *strings.Reader
	if body == "" {
		reader = strings.NewReader("")
	} else {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestBanner(t *testing.T) {
	router := newTestRouter(t)

	rec := do(router, http.MethodGet, "/", "", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Sovereign BTC API")
}

func TestNotFoundEnvelope(t *testing.T) {
	router := newTestRouter(t)

	rec := do(router, http.MethodGet, "/no/such/route", "", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, false, body["success"])
	assert.Equal(t, "Not Found", body["error"])
}

func TestDashboardIsPublic(t *testing.T) {
	router := newTestRouter(t)

	rec := do(router, http.MethodGet, "/admin/dashboard", "", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "text/html")
	assert.Contains(t, rec.Body.String(), "Application Review")
}

func TestAffirmationsRequireToken(t *testing.T) {
	router := newTestRouter(t)

	rec := do(router, http.MethodGet, "/applications/affirmations", "", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAffirmationsWithToken(t *testing.T) {
	router := newTestRouter(t)

	token, err := security.IssueToken(testSecret, "u1", "a@x.com", "user", time.Hour)
	require.NoError(t, err)

	rec := do(router, http.MethodGet, "/applications/affirmations", "", token)
	assert.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Success bool `json:"success"`
		Data    struct {
			Protocols []struct {
				Key   string `json:"key"`
				Label string `json:"label"`
			} `json:"protocols"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.True(t, body.Success)
	assert.Len(t, body.Data.Protocols, 6)
	assert.Equal(t, "btc_only", body.Data.Protocols[0].Key)
}

func TestAdminRoutesGated(t *testing.T) {
	router := newTestRouter(t)

	// No token at all.
	assert.Equal(t, http.StatusUnauthorized, do(router, http.MethodGet, "/admin/applications", "", "").Code)

	// Valid token, wrong role.
	userToken, err := security.IssueToken(testSecret, "u1", "a@x.com", "user", time.Hour)
	require.NoError(t, err)
	assert.Equal(t, http.StatusForbidden, do(router, http.MethodGet, "/admin/applications", "", userToken).Code)

	// Expired admin token.
	expired, err := security.IssueToken(testSecret, "", "admin@sovereign.btc", "admin", -time.Minute)
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, do(router, http.MethodGet, "/admin/applications", "", expired).Code)
}

func TestAdminLogin(t *testing.T) {
	router := newTestRouter(t)

	t.Run("success returns token and expiry", func(t *testing.T) {
		rec := do(router, http.MethodPost, "/admin/login", `{"email":"admin@sovereign.btc","password":"admin-pw"}`, "")
		require.Equal(t, http.StatusOK, rec.Code)

		var body struct {
			Success bool `json:"success"`
			Data    struct {
				Token     string `json:"token"`
				ExpiresIn int    `json:"expiresIn"`
			} `json:"data"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.True(t, body.Success)
		assert.Equal(t, 28800, body.Data.ExpiresIn)

		claims, err := security.ParseToken(body.Data.Token, testSecret)
		require.NoError(t, err)
		assert.Equal(t, "admin", claims.Role)
	})

	t.Run("bad credentials are forbidden with a generic message", func(t *testing.T) {
		rec := do(router, http.MethodPost, "/admin/login", `{"email":"admin@sovereign.btc","password":"wrong"}`, "")
		assert.Equal(t, http.StatusForbidden, rec.Code)
		assert.Contains(t, rec.Body.String(), "Invalid credentials")
	})

	t.Run("malformed body", func(t *testing.T) {
		rec := do(router, http.MethodPost, "/admin/login", `{`, "")
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}
