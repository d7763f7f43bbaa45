package providers

import (
	"errors"
	"fmt"
)

// ErrorCategory defines the normalized failure taxonomy for provider errors.
//
// All provider implementations use these categories to classify failures,
// allowing the pipeline to make consistent fallback decisions regardless of
// the underlying provider protocol or API.
type ErrorCategory string

const (
	// ErrorTimeout indicates the provider took too long to respond.
	ErrorTimeout ErrorCategory = "timeout"

	// ErrorBadData indicates the provider returned invalid or unusable data.
	ErrorBadData ErrorCategory = "bad_data"

	// ErrorAuthentication indicates credential or permission issues.
	ErrorAuthentication ErrorCategory = "authentication"

	// ErrorProviderOutage indicates the provider is unavailable.
	ErrorProviderOutage ErrorCategory = "provider_outage"

	// ErrorUnsupportedMedia indicates the provider cannot process this input format.
	ErrorUnsupportedMedia ErrorCategory = "unsupported_media"

	// ErrorInternal indicates an unexpected internal error.
	ErrorInternal ErrorCategory = "internal"
)

// ProviderError wraps provider failures with normalized categorization.
type ProviderError struct {
	Category   ErrorCategory
	ProviderID string
	Message    string
	Underlying error
}

// Error implements the error interface.
func (e *ProviderError) Error() string {
	if e.Underlying != nil {
		return fmt.Sprintf("provider %s [%s]: %s: %v", e.ProviderID, e.Category, e.Message, e.Underlying)
	}
	return fmt.Sprintf("provider %s [%s]: %s", e.ProviderID, e.Category, e.Message)
}

// Unwrap supports error unwrapping.
func (e *ProviderError) Unwrap() error {
	return e.Underlying
}

// NewProviderError creates a normalized provider error.
func NewProviderError(category ErrorCategory, providerID, message string, underlying error) *ProviderError {
	return &ProviderError{
		Category:   category,
		ProviderID: providerID,
		Message:    message,
		Underlying: underlying,
	}
}

// GetCategory extracts the error category from an error.
func GetCategory(err error) ErrorCategory {
	var pe *ProviderError
	if errors.As(err, &pe) {
		return pe.Category
	}
	return ErrorInternal
}

// Sentinel errors for pipeline-level failures. These are distinct from
// ProviderError, which wraps individual provider failures.
var (
	ErrNoProvidersAvailable = errors.New("no providers available for this media type")
	ErrAllProvidersFailed   = errors.New("all providers failed")
)
