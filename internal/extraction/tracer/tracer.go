// Package tracer provides a lightweight tracing abstraction for the
// extraction pipeline.
//
// The pipeline emits spans around each provider call and the overall
// extraction without depending on OpenTelemetry APIs directly. Tests use
// NoopTracer; production wires OTelTracer.
package tracer

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"time"
)

// Span represents an active trace span.
type Span interface {
	// End completes the span, recording any error that occurred.
	// End must be called exactly once, typically via defer.
	End(err error)

	// SetAttributes adds key-value pairs to the span.
	SetAttributes(attrs ...Attribute)

	// AddEvent records a timestamped event within the span.
	AddEvent(name string, attrs ...Attribute)
}

// Tracer creates spans for distributed tracing.
// Implementations must be safe for concurrent use.
type Tracer interface {
	Start(ctx context.Context, name string, attrs ...Attribute) (context.Context, Span)
}

// Attribute represents a key-value pair attached to spans.
type Attribute struct {
	Key   string
	Value any
}

// String creates a string attribute.
func String(key, value string) Attribute {
	return Attribute{Key: key, Value: value}
}

// Bool creates a boolean attribute.
func Bool(key string, value bool) Attribute {
	return Attribute{Key: key, Value: value}
}

// Int64 creates an int64 attribute.
func Int64(key string, value int64) Attribute {
	return Attribute{Key: key, Value: value}
}

// Float64 creates a float64 attribute.
func Float64(key string, value float64) Attribute {
	return Attribute{Key: key, Value: value}
}

// Duration creates a duration attribute in milliseconds.
func Duration(key string, value time.Duration) Attribute {
	return Attribute{Key: key, Value: value.Milliseconds()}
}

// HashDocumentNumber returns a short SHA-256 hash of a document number for
// safe inclusion in traces. Traces must never carry raw document numbers.
func HashDocumentNumber(number string) string {
	if number == "" {
		return ""
	}
	hash := sha256.Sum256([]byte(number))
	return hex.EncodeToString(hash[:8])
}

// Span names used by the extraction pipeline.
const (
	SpanExtract      = "extraction.extract"
	SpanProviderCall = "extraction.provider.call"
	SpanMRZParse     = "extraction.mrz.parse"
)

// Attribute keys used by the extraction pipeline.
const (
	AttrProviderID   = "provider_id"
	AttrProviderTier = "provider_tier"
	AttrMediaType    = "media_type"
	AttrDocumentKind = "document_kind"
	AttrDegraded     = "degraded"
	AttrConfidence   = "confidence"
	AttrCorrections  = "corrections"
)

// Event names used by the extraction pipeline.
const (
	EventProviderFallback  = "provider.fallback"
	EventCorrectionApplied = "correction.applied"
)
