package app

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-chi/chi/v5"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"

	"github.com/ledgerline/ledgerline/internal/shared"
)

func newStackRouter(t *testing.T) *chi.Mux {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	sessions := shared.NewSessionManager(client, "ledgerline_session", "session-secret", time.Hour, false)
	csrf := shared.NewCSRFManager("csrf-secret")

	require.NoError(t, mr.Set("session:sess-1", `{"values":{"csrf_token":"tok-1"},"user_id":""}`))

	r := chi.NewRouter()
	for _, mw := range MiddlewareStack(MiddlewareConfig{
		Logger:         slog.New(slog.NewTextHandler(io.Discard, nil)),
		Config:         &Config{},
		SessionManager: sessions,
		CSRFManager:    csrf,
	}) {
		r.Use(mw)
	}
	r.Post("/clients", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusCreated)
	})
	return r
}

func TestCSRFMiddlewareAcceptsHeaderToken(t *testing.T) {
	router := newStackRouter(t)

	req := httptest.NewRequest(http.MethodPost, "/clients", strings.NewReader(`{}`))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(shared.CSRFHeader, "tok-1")
	req.AddCookie(&http.Cookie{Name: "ledgerline_session", Value: "sess-1"})

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	require.Equal(t, http.StatusCreated, rr.Code)
}

func TestCSRFMiddlewareIgnoresFormBodyToken(t *testing.T) {
	router := newStackRouter(t)

	form := url.Values{"csrf_token": {"tok-1"}}
	req := httptest.NewRequest(http.MethodPost, "/clients", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.AddCookie(&http.Cookie{Name: "ledgerline_session", Value: "sess-1"})

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	require.Equal(t, http.StatusForbidden, rr.Code)
}

func TestCSRFMiddlewareRejectsMissingToken(t *testing.T) {
	router := newStackRouter(t)

	req := httptest.NewRequest(http.MethodPost, "/clients", strings.NewReader(`{}`))
	req.Header.Set("Content-Type", "application/json")
	req.AddCookie(&http.Cookie{Name: "ledgerline_session", Value: "sess-1"})

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	require.Equal(t, http.StatusForbidden, rr.Code)
}
