// Package verification reconciles declared document data with scan evidence
// and produces a field-by-field verdict with a match score.
package verification

import (
	"seacrew/internal/extraction/providers"
	"seacrew/pkg/domain"
)

// Blocking fields. A mismatch on any of these invalidates the document
// regardless of how well the rest matched.
const (
	FieldDocumentNumber = "documentNumber"
	FieldExpiryDate     = "expiryDate"
	FieldIssueDate      = "issueDate"
	FieldHolderName     = "holderName"
)

// Evidence sources reported on comparisons.
const (
	SourceFreshScan  = "fresh_scan"
	SourceCachedScan = "cached_scan"
)

// Request asks for one document verification.
type Request struct {
	DocumentID domain.DocumentID

	// FileData, when present, triggers a fresh extraction which both feeds
	// the comparison and is recorded as the document's new active scan.
	// Without it the cached active scan is the evidence.
	FileData []byte
	Media    providers.MediaType

	// EditedFields names the fields the caller is actively changing. With
	// file data present, edited fields compare against the fresh extraction
	// while untouched fields keep comparing against the prior active scan
	// where one exists, so the shadow truth still cross-checks values the
	// user did not touch. Empty means the whole document is being entered
	// and every field counts as edited.
	EditedFields []string

	// RequestID correlates the audit trail with the originating request.
	RequestID string
}

// FieldComparison is one claimed-versus-evidence field check.
type FieldComparison struct {
	Field    string
	Claimed  string
	Evidence string
	Source   string
	Match    bool
	Blocking bool
}

// Result is the verification verdict for one document.
type Result struct {
	DocumentID domain.DocumentID

	// IsValid is false when any blocking field mismatched, the number is
	// duplicated, or no usable evidence could be obtained.
	IsValid bool

	// MatchScore is matched comparisons over performed comparisons, 0-100.
	// Fields the evidence could not provide are excluded, not counted as
	// mismatches.
	MatchScore float64

	Comparisons []FieldComparison
	Warnings    []string

	// EvidenceSource says where the evidence came from; empty when no
	// evidence was available at all.
	EvidenceSource string

	// Degraded mirrors the extraction provenance: evidence produced by the
	// offline tier is flagged so reviewers can weigh it accordingly.
	Degraded bool

	// DuplicateOf lists other crew members' documents of the same kind
	// carrying the same number. Any entry invalidates the document; the
	// holder's own retained records with this number do not count.
	DuplicateOf []domain.DocumentID
}
