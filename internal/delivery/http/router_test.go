package http

import (
	"crypto/ed25519"
	"encoding/hex"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tjbot/internal/adapters/auth"
	"tjbot/internal/delivery/http/controllers"
	"tjbot/internal/delivery/http/middleware"
	"tjbot/internal/metrics"
	"tjbot/internal/repository/memory"
	"tjbot/internal/services"
)

func newTestRouter(t *testing.T) (http.Handler, ed25519.PrivateKey) {
	t.Helper()
	pub, priv, err := ed25519.GenerateKey(nil)
	require.NoError(t, err)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	repo := memory.NewTagRepository()
	recorder := metrics.NewRecorder()
	interactions := controllers.NewInteractionController(logger, nil, nil, nil, nil, recorder, recorder)
	tags := controllers.NewTagController(logger, services.NewTagAdminService(repo))

	return NewRouter(RouterDeps{
		Logger:       logger,
		Interactions: interactions,
		Tags:         tags,
		Verifier:     auth.NewJWTVerifier("secret"),
		PublicKey:    pub,
		Metrics:      recorder,
	}), priv
}

func TestRouter_InteractionsRequireSignature(t *testing.T) {
	router, priv := newTestRouter(t)
	body := `{"id":"1","type":1}`

	req := httptest.NewRequest(http.MethodPost, "/interactions", strings.NewReader(body))
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	require.Equal(t, http.StatusUnauthorized, rr.Code)

	timestamp := "1700000000"
	req = httptest.NewRequest(http.MethodPost, "/interactions", strings.NewReader(body))
	req.Header.Set(middleware.SignatureHeader, hex.EncodeToString(ed25519.Sign(priv, []byte(timestamp+body))))
	req.Header.Set(middleware.SignatureTimestampHeader, timestamp)
	rr = httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"type":1}`, rr.Body.String())
	assert.NotEmpty(t, rr.Header().Get(middleware.RequestIDHeader))
}

func TestRouter_AdminRequiresToken(t *testing.T) {
	router, _ := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/admin/tags", nil)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	require.Equal(t, http.StatusUnauthorized, rr.Code)

	token, err := auth.NewJWTIssuer("secret").Issue("ops", time.Hour)
	require.NoError(t, err)

	req = httptest.NewRequest(http.MethodPut, "/admin/tags/foo", strings.NewReader(`{"content":"bar"}`))
	req.Header.Set("Authorization", "Bearer "+token)
	rr = httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	require.Equal(t, http.StatusOK, rr.Code)

	req = httptest.NewRequest(http.MethodGet, "/admin/tags/foo", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rr = httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `"content":"bar"`)
}

func TestRouter_MetricsAndHealth(t *testing.T) {
	router, _ := newTestRouter(t)

	req := httptest.NewRequest(http.MethodPost, "/interactions", strings.NewReader(`{}`))
	router.ServeHTTP(httptest.NewRecorder(), req)

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `tjbot_interactions_total{type="rejected",verified="false"} 1`)

	rr = httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusNoContent, rr.Code)
}
