// Package httputil centralizes JSON response writing and domain error
// translation for HTTP handlers.
package httputil

import (
	"encoding/json"
	"errors"
	"net/http"

	dErrors "seacrew/pkg/domain-errors"
)

func WriteJSON(w http.ResponseWriter, status int, response any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	// Errors after WriteHeader cannot change the status code, so we ignore encoding errors.
	// The response body may be incomplete, but headers are already sent.
	_ = json.NewEncoder(w).Encode(response)
}

// WriteError centralizes domain error translation to HTTP responses.
// It translates transport-agnostic domain errors into HTTP status codes and error responses.
func WriteError(w http.ResponseWriter, err error) {
	var domainErr *dErrors.Error
	if errors.As(err, &domainErr) {
		status := DomainCodeToHTTPStatus(domainErr.Code)
		response := map[string]string{
			"error": DomainCodeToHTTPCode(domainErr.Code),
		}
		if domainErr.Message != "" {
			response["error_description"] = domainErr.Message
		}
		WriteJSON(w, status, response)
		return
	}

	// Fallback for unexpected errors
	WriteJSON(w, http.StatusInternalServerError, map[string]string{
		"error": DomainCodeToHTTPCode(dErrors.CodeInternal),
	})
}

// DomainCodeToHTTPStatus translates domain error codes to HTTP status codes.
func DomainCodeToHTTPStatus(code dErrors.Code) int {
	switch code {
	case dErrors.CodeNotFound:
		return http.StatusNotFound
	case dErrors.CodeBadRequest, dErrors.CodeValidation, dErrors.CodeInvalidInput, dErrors.CodeInvariantViolation:
		return http.StatusBadRequest
	case dErrors.CodeConflict:
		return http.StatusConflict
	case dErrors.CodeTimeout:
		return http.StatusGatewayTimeout
	case dErrors.CodeRateLimited:
		return http.StatusTooManyRequests
	// Extraction outages surface to clients as an upstream dependency failure.
	case dErrors.CodeExtractionUnavailable:
		return http.StatusBadGateway
	case dErrors.CodeExtractionFailed:
		return http.StatusUnprocessableEntity
	// Compliance findings returned as errors (rather than result values) are
	// precondition failures on the requested transition.
	case dErrors.CodeMissingMandatoryDocument, dErrors.CodeDocumentExpired,
		dErrors.CodeInsufficientValidityWindow, dErrors.CodeComplianceGracePeriodActive,
		dErrors.CodeFieldMismatch, dErrors.CodeDuplicateDocumentNumber:
		return http.StatusPreconditionFailed
	case dErrors.CodeInternal:
		return http.StatusInternalServerError
	default:
		return http.StatusInternalServerError
	}
}

// DomainCodeToHTTPCode translates domain error codes to stable error strings
// for the JSON response body.
func DomainCodeToHTTPCode(code dErrors.Code) string {
	switch code {
	case dErrors.CodeNotFound:
		return "not_found"
	case dErrors.CodeBadRequest, dErrors.CodeInvalidInput:
		return "bad_request"
	case dErrors.CodeValidation, dErrors.CodeInvariantViolation:
		return "validation_error"
	case dErrors.CodeConflict:
		return "conflict"
	case dErrors.CodeTimeout:
		return "timeout"
	case dErrors.CodeRateLimited:
		return "rate_limited"
	case dErrors.CodeExtractionUnavailable:
		return "extraction_unavailable"
	case dErrors.CodeExtractionFailed:
		return "extraction_failed"
	case dErrors.CodeFieldMismatch:
		return "field_mismatch"
	case dErrors.CodeDuplicateDocumentNumber:
		return "duplicate_document_number"
	case dErrors.CodeMissingMandatoryDocument:
		return "missing_mandatory_document"
	case dErrors.CodeDocumentExpired:
		return "document_expired"
	case dErrors.CodeInsufficientValidityWindow:
		return "insufficient_validity_window"
	case dErrors.CodeComplianceGracePeriodActive:
		return "grace_period_active"
	case dErrors.CodeInternal:
		return "internal_error"
	default:
		return "internal_error"
	}
}
