// Package compliance gates the three crew lifecycle transitions (sign-on,
// contract extension, mandatory sign-off) on document validity. All checks
// are read-only; callers own any resulting state change.
package compliance

import (
	"time"

	"seacrew/pkg/domain"
)

// validityBufferDays is the minimum gap required between a document's expiry
// and a contract boundary for the document to count as sufficient.
const validityBufferDays = 30

// IssueCode identifies a compliance finding.
type IssueCode string

const (
	IssueMissingDocument        IssueCode = "missing_mandatory_document"
	IssueNoExpiryDate           IssueCode = "no_expiry_date"
	IssueDocumentExpired        IssueCode = "document_expired"
	IssueInsufficientValidity   IssueCode = "insufficient_validity_window"
	IssueExpiresWithinContract  IssueCode = "expires_within_contract"
	IssueExpiresShortlyAfterEnd IssueCode = "expires_shortly_after_contract"
	IssueGracePeriodActive      IssueCode = "grace_period_active"
)

// Severity grades a gating decision.
type Severity string

const (
	SeverityWarning Severity = "warning"
	SeverityError   Severity = "error"
)

// Issue is one finding against one mandatory document kind.
type Issue struct {
	Code   IssueCode
	Kind   domain.DocumentKind
	Detail string
	// ExpiryDate is the offending document's expiry, when one exists.
	ExpiryDate *time.Time
}

// Result is the outcome of a sign-on validation: hard blockers and soft
// warnings, evaluated across the whole mandatory set.
type Result struct {
	IsValid  bool
	Blockers []Issue
	Warnings []Issue
}

// Decision is the outcome of an extension or sign-off check. Unlike Result
// it carries a single reason: these checks short-circuit on the first
// failing document.
type Decision struct {
	Allowed  bool
	Severity Severity
	// Code identifies the finding that produced the decision, empty when
	// allowed.
	Code   IssueCode
	Reason string
	// RequiredAction tells the operator what resolves the finding.
	RequiredAction string
	// GracePeriodAvailable distinguishes "must act within days" from "must
	// act now" on sign-off decisions.
	GracePeriodAvailable bool
	// Kind is the document kind that triggered the decision, empty when
	// allowed.
	Kind domain.DocumentKind
}

// MandatoryKinds is the document set every crew member must hold to sign on.
// Officers additionally need a certificate of competency unless waived.
var MandatoryKinds = []domain.DocumentKind{
	domain.KindPassport,
	domain.KindSeamansBook,
	domain.KindMedical,
}

// ExtensionCheckOrder is the evaluation order for contract extension checks.
// The first failing kind decides; this ordering is a stated contract, not an
// implementation accident.
var ExtensionCheckOrder = []domain.DocumentKind{
	domain.KindPassport,
	domain.KindSeamansBook,
	domain.KindMedical,
	domain.KindCompetency,
}
