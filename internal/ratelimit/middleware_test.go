package ratelimit

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestMiddlewareAllowsUnderLimit(t *testing.T) {
	limiter := NewLimiter(NewMemoryStore(), 2, time.Minute, WithLogger(testLogger()))
	handler := limiter.Middleware(okHandler())

	req := httptest.NewRequest(http.MethodPost, "/documents/verify", nil)
	req.RemoteAddr = "10.0.0.1:51234"

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "2", rec.Header().Get("X-RateLimit-Limit"))
	assert.Equal(t, "1", rec.Header().Get("X-RateLimit-Remaining"))
	assert.NotEmpty(t, rec.Header().Get("X-RateLimit-Reset"))
}

func TestMiddlewareRejectsOverLimit(t *testing.T) {
	limiter := NewLimiter(NewMemoryStore(), 1, time.Minute, WithLogger(testLogger()))
	handler := limiter.Middleware(okHandler())

	req := httptest.NewRequest(http.MethodPost, "/documents/verify", nil)
	req.RemoteAddr = "10.0.0.1:51234"

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	require.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.NotEmpty(t, rec.Header().Get("Retry-After"))

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "rate_limited", body["error"])
}

func TestMiddlewareKeysByForwardedFor(t *testing.T) {
	limiter := NewLimiter(NewMemoryStore(), 1, time.Minute, WithLogger(testLogger()))
	handler := limiter.Middleware(okHandler())

	first := httptest.NewRequest(http.MethodGet, "/status/classify", nil)
	first.RemoteAddr = "172.16.0.9:40000"
	first.Header.Set("X-Forwarded-For", "203.0.113.7, 172.16.0.9")

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, first)
	require.Equal(t, http.StatusOK, rec.Code)

	// Same proxy, different origin client: its own window.
	second := httptest.NewRequest(http.MethodGet, "/status/classify", nil)
	second.RemoteAddr = "172.16.0.9:40001"
	second.Header.Set("X-Forwarded-For", "198.51.100.4")

	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, second)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, first)
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
}

type failingStore struct{}

func (failingStore) Allow(context.Context, string, int, time.Duration) (*Result, error) {
	return nil, errors.New("redis gone")
}

func TestMiddlewareFailsOpenOnStoreError(t *testing.T) {
	limiter := NewLimiter(failingStore{}, 1, time.Minute, WithLogger(testLogger()))
	handler := limiter.Middleware(okHandler())

	req := httptest.NewRequest(http.MethodPost, "/documents/verify", nil)
	req.RemoteAddr = "10.0.0.1:51234"

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestNewLimiterPanics(t *testing.T) {
	assert.Panics(t, func() { NewLimiter(nil, 1, time.Minute) })
	assert.Panics(t, func() { NewLimiter(NewMemoryStore(), 0, time.Minute) })
	assert.Panics(t, func() { NewLimiter(NewMemoryStore(), 1, 0) })
}
