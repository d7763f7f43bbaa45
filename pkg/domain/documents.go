package domain

import dErrors "seacrew/pkg/domain-errors"

// DocumentKind enumerates the compliance-bearing credential types carried by
// crew members. The set is closed: verification and compliance rules switch on
// it, so new kinds must be added here first.
type DocumentKind string

const (
	KindPassport    DocumentKind = "passport"
	KindSeamansBook DocumentKind = "seamans_book"
	KindCompetency  DocumentKind = "certificate_of_competency"
	KindMedical     DocumentKind = "medical_certificate"
	KindVisa        DocumentKind = "visa"
)

// ParseDocumentKind validates a kind string at trust boundaries.
//
// Errors: returns CodeInvalidInput for unknown kinds.
func ParseDocumentKind(s string) (DocumentKind, error) {
	switch DocumentKind(s) {
	case KindPassport, KindSeamansBook, KindCompetency, KindMedical, KindVisa:
		return DocumentKind(s), nil
	default:
		return "", dErrors.New(dErrors.CodeInvalidInput, "unknown document kind: "+s)
	}
}

// HasMRZ reports whether documents of this kind carry a machine-readable zone
// usable as an independent cross-check source.
func (k DocumentKind) HasMRZ() bool {
	return k == KindPassport || k == KindSeamansBook
}

// IndividuallyIssued reports whether documents of this kind are issued to one
// person, which makes their numbers unique across the fleet. All current kinds
// qualify; the predicate exists so the uniqueness check reads as a rule, not
// an assumption.
func (k DocumentKind) IndividuallyIssued() bool {
	switch k {
	case KindPassport, KindSeamansBook, KindCompetency, KindMedical, KindVisa:
		return true
	}
	return false
}
