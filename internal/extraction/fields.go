// Package extraction turns an uploaded document file into a normalized field
// set by orchestrating OCR capability providers with type-aware priority and
// fallback, then applying jurisdiction-specific post-processing.
package extraction

import (
	"time"

	dom "seacrew/pkg/domain"
)

// FieldSet is the normalized extraction output. The Kind discriminator travels
// with the values so downstream comparisons can never pair fields from
// different document kinds.
type FieldSet struct {
	Kind       dom.DocumentKind
	Number     string
	IssueDate  *time.Time
	ExpiryDate *time.Time
	HolderName string
	// MRZ is set only for passport-like kinds where a machine-readable zone
	// was recovered and parsed cleanly.
	MRZ        *MRZ
	Confidence float64
}

// MRZ holds the parsed machine-readable zone plus the raw lines for audit.
type MRZ struct {
	Line1          string
	Line2          string
	DocumentNumber string
	HolderName     string
	Nationality    string
	ExpiryDate     *time.Time
}

// Correction records a post-processing overwrite of an extracted field.
// MRZConfirmed corrections were validated against the machine-readable zone;
// LowConfidence ones were applied on format statistics alone and must be
// surfaced distinctly to reviewers.
type Correction struct {
	Field         string
	From          string
	To            string
	MRZConfirmed  bool
	LowConfidence bool
}

// Result is the pipeline output for one document.
type Result struct {
	Fields     FieldSet
	ProviderID string
	// Degraded marks results produced by the offline tier: no networked OCR
	// capability was reachable, so fields are best-effort and possibly empty.
	Degraded    bool
	Corrections []Correction
}
