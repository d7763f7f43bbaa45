package domainerrors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorMessage(t *testing.T) {
	err := New(CodeDocumentExpired, "passport expired on 2025-01-01")
	assert.Equal(t, "passport expired on 2025-01-01", err.Error())

	bare := &Error{Code: CodeNotFound}
	assert.Equal(t, "not_found", bare.Error())
}

func TestIsMatchesByCode(t *testing.T) {
	err := New(CodeDuplicateDocumentNumber, "number already claimed")
	assert.True(t, errors.Is(err, &Error{Code: CodeDuplicateDocumentNumber}))
	assert.False(t, errors.Is(err, &Error{Code: CodeNotFound}))
}

func TestWrapPreservesExistingCode(t *testing.T) {
	inner := New(CodeExtractionFailed, "all providers failed")
	wrapped := Wrap(inner, CodeInternal, "verify document")

	assert.True(t, HasCode(wrapped, CodeExtractionFailed))
	assert.False(t, HasCode(wrapped, CodeInternal))
	assert.True(t, errors.Is(wrapped, inner) || errors.Unwrap(wrapped) == inner)
}

func TestWrapPlainError(t *testing.T) {
	cause := fmt.Errorf("connection refused")
	wrapped := Wrap(cause, CodeInternal, "store unavailable")

	assert.True(t, HasCode(wrapped, CodeInternal))
	assert.ErrorIs(t, wrapped, cause)
}

func TestHasCodeOnPlainError(t *testing.T) {
	assert.False(t, HasCode(errors.New("boom"), CodeInternal))
	assert.False(t, HasCode(nil, CodeInternal))
}
