// Package audit captures the compliance decision trail. Every verification
// and gating decision emits an event; port state inspections and flag state
// audits both start from this trail.
package audit

import (
	"context"
	"time"

	"github.com/google/uuid"

	"seacrew/pkg/domain"
)

// Event is emitted from domain logic to capture key actions. Keep it
// transport-agnostic so stores and sinks can fan out.
//
// Events must never carry raw document numbers or full holder names; callers
// mask them (see internal/platform/privacy) before emitting.
type Event struct {
	ID           uuid.UUID
	Timestamp    time.Time
	Category     string
	Action       string
	Decision     string
	Reason       string
	DocumentID   *domain.DocumentID
	CrewMemberID *domain.CrewMemberID
	ContractID   *domain.ContractID
	// Details carries masked, low-cardinality context (masked numbers,
	// match scores, blocker codes).
	Details map[string]string
	// RequestID is the correlation ID from the HTTP request context.
	RequestID string
}

// Event categories.
const (
	CategoryVerification = "verification"
	CategoryCompliance   = "compliance"
	CategoryExtraction   = "extraction"
)

// Event actions.
const (
	ActionScanRecorded       = "scan_recorded"
	ActionDocumentVerified   = "document_verified"
	ActionExtractionDegraded = "extraction_degraded"
	ActionSignOnEvaluated    = "sign_on_evaluated"
	ActionExtensionEvaluated = "extension_evaluated"
	ActionSignOffEvaluated   = "sign_off_evaluated"
)

// Store persists audit events append-only.
type Store interface {
	Append(ctx context.Context, event Event) error
	ListByDocument(ctx context.Context, docID domain.DocumentID) ([]Event, error)
	ListByCrewMember(ctx context.Context, crewID domain.CrewMemberID) ([]Event, error)
}
