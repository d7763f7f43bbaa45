// Package providers defines the contract all OCR capability sources implement.
//
// Implementations wrap external OCR services (or the offline fallback) behind
// a common interface so the pipeline can order, try, and replace them without
// coupling to their protocols.
package providers

import (
	"context"

	dom "seacrew/pkg/domain"
)

// MediaType identifies the input format of a document file.
type MediaType string

const (
	MediaPDF   MediaType = "pdf"
	MediaImage MediaType = "image"
)

// Tier ranks providers by capability and cost. The pipeline prefers TierFull
// for PDFs (layout-aware, slower) and TierFast for images (lower latency),
// with TierOffline as the terminal best-effort fallback.
type Tier int

const (
	TierFull Tier = iota
	TierFast
	TierOffline
)

func (t Tier) String() string {
	switch t {
	case TierFull:
		return "full"
	case TierFast:
		return "fast"
	case TierOffline:
		return "offline"
	}
	return "unknown"
}

// Capabilities describes what a provider supports.
type Capabilities struct {
	Tier      Tier
	Networked bool
	Media     []MediaType
}

// Supports reports whether the provider accepts the given media type.
func (c Capabilities) Supports(media MediaType) bool {
	for _, m := range c.Media {
		if m == media {
			return true
		}
	}
	return false
}

// Input is one extraction request.
type Input struct {
	Data  []byte
	Media MediaType
	Kind  dom.DocumentKind
	// JurisdictionHint is an optional ISO 3166-1 alpha-3 code (typically the
	// holder's nationality) used for format-specific post-processing.
	JurisdictionHint string
}

// RawExtraction is the provider-level result before normalization. Dates stay
// as strings here; the pipeline owns parsing so all providers normalize the
// same way.
type RawExtraction struct {
	Number     string
	IssueDate  string
	ExpiryDate string
	HolderName string
	MRZLine1   string
	MRZLine2   string
	Confidence float64
}

// Provider is the universal interface all OCR capability sources implement.
type Provider interface {
	// ID returns a unique identifier for this provider instance
	// (e.g. "deepscan-v1").
	ID() string

	// Capabilities returns the provider's tier, reachability, and supported media.
	Capabilities() Capabilities

	// Extract runs OCR over the input. Returns a ProviderError on failure with
	// normalized error categories for fallback decisions.
	Extract(ctx context.Context, in Input) (*RawExtraction, error)
}
