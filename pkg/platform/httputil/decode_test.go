package httputil

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dErrors "seacrew/pkg/domain-errors"
)

type classifyRequest struct {
	ExpiryDate string `json:"expiry_date"`
	GraceDays  int    `json:"grace_period_days"`
}

type verifyRequest struct {
	DocumentID string `json:"document_id"`
	normalized bool
}

func (r *verifyRequest) Normalize() {
	r.normalized = true
}

func (r *verifyRequest) Validate() error {
	if r.DocumentID == "" {
		return dErrors.New(dErrors.CodeBadRequest, "document_id is required")
	}
	return nil
}

type plainErrorRequest struct {
	Name string `json:"name"`
}

func (r *plainErrorRequest) Validate() error {
	if r.Name == "" {
		return errors.New("name is required")
	}
	return nil
}

func TestDecodeJSON(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	ctx := context.Background()

	t.Run("successful decode", func(t *testing.T) {
		body := `{"expiry_date":"2030-05-20","grace_period_days":7}`
		req := httptest.NewRequest(http.MethodPost, "/", bytes.NewBufferString(body))
		w := httptest.NewRecorder()

		result, ok := DecodeJSON[classifyRequest](w, req, logger, ctx, "rid-1")

		assert.True(t, ok)
		require.NotNil(t, result)
		assert.Equal(t, "2030-05-20", result.ExpiryDate)
		assert.Equal(t, 7, result.GraceDays)
	})

	t.Run("malformed body", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/", bytes.NewBufferString("{not json"))
		w := httptest.NewRecorder()

		result, ok := DecodeJSON[classifyRequest](w, req, logger, ctx, "rid-1")

		assert.False(t, ok)
		assert.Nil(t, result)
		assert.Equal(t, http.StatusBadRequest, w.Code)

		var errResp map[string]string
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &errResp))
		assert.Equal(t, "bad_request", errResp["error"])
	})

	t.Run("empty body", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/", bytes.NewBufferString(""))
		w := httptest.NewRecorder()

		_, ok := DecodeJSON[classifyRequest](w, req, logger, ctx, "rid-1")
		assert.False(t, ok)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestDecodeAndPrepare(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	ctx := context.Background()

	t.Run("normalizes then validates", func(t *testing.T) {
		body := `{"document_id":"d1"}`
		req := httptest.NewRequest(http.MethodPost, "/", bytes.NewBufferString(body))
		w := httptest.NewRecorder()

		result, ok := DecodeAndPrepare[verifyRequest](w, req, logger, ctx, "rid-2")

		assert.True(t, ok)
		require.NotNil(t, result)
		assert.True(t, result.normalized)
	})

	t.Run("domain error code preserved", func(t *testing.T) {
		body := `{"document_id":""}`
		req := httptest.NewRequest(http.MethodPost, "/", bytes.NewBufferString(body))
		w := httptest.NewRecorder()

		result, ok := DecodeAndPrepare[verifyRequest](w, req, logger, ctx, "rid-2")

		assert.False(t, ok)
		assert.Nil(t, result)
		assert.Equal(t, http.StatusBadRequest, w.Code)

		var errResp map[string]string
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &errResp))
		assert.Equal(t, "bad_request", errResp["error"])
		assert.Contains(t, errResp["error_description"], "document_id is required")
	})

	t.Run("plain validation error wrapped as validation_error", func(t *testing.T) {
		body := `{"name":""}`
		req := httptest.NewRequest(http.MethodPost, "/", bytes.NewBufferString(body))
		w := httptest.NewRecorder()

		_, ok := DecodeAndPrepare[plainErrorRequest](w, req, logger, ctx, "rid-3")

		assert.False(t, ok)
		assert.Equal(t, http.StatusBadRequest, w.Code)

		var errResp map[string]string
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &errResp))
		assert.Equal(t, "validation_error", errResp["error"])
	})
}

func TestWriteErrorFallback(t *testing.T) {
	w := httptest.NewRecorder()
	WriteError(w, errors.New("disk on fire"))

	assert.Equal(t, http.StatusInternalServerError, w.Code)

	var errResp map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &errResp))
	assert.Equal(t, "internal_error", errResp["error"])
	// Raw internal error text never leaks to clients.
	assert.NotContains(t, w.Body.String(), "disk on fire")
}
