package compliance

import (
	"fmt"
	"time"

	"seacrew/internal/fleet"
	"seacrew/pkg/domain"
)

// EvaluateSignOn checks a crew member's document set against a proposed
// contract window. Pure: all inputs explicit, `now` injected.
//
// Per mandatory kind, in order of severity: missing document, no expiry
// date, and already-expired are blockers; expiry inside the first 30 days of
// the contract is a blocker (insufficient validity window); expiry strictly
// inside the contract is a blocker for every kind except medical
// certificates, which are renewable mid-contract and warn instead; expiry
// within 30 days after contract end warns.
func EvaluateSignOn(member *fleet.CrewMember, docs []*fleet.Document, contractStart time.Time, durationDays int, now time.Time) Result {
	today := domain.Midnight(now)
	start := domain.Midnight(contractStart)
	end := start.AddDate(0, 0, durationDays)

	required := make([]domain.DocumentKind, 0, len(MandatoryKinds)+1)
	required = append(required, MandatoryKinds...)
	if requiresCompetency(member) {
		required = append(required, domain.KindCompetency)
	}

	result := Result{IsValid: true}
	for _, kind := range required {
		doc := latestOfKind(docs, kind)
		issue, blocking := evaluateKindForSignOn(kind, doc, today, start, end)
		if issue == nil {
			continue
		}
		if blocking {
			result.IsValid = false
			result.Blockers = append(result.Blockers, *issue)
		} else {
			result.Warnings = append(result.Warnings, *issue)
		}
	}
	return result
}

func evaluateKindForSignOn(kind domain.DocumentKind, doc *fleet.Document, today, start, end time.Time) (issue *Issue, blocking bool) {
	if doc == nil {
		return &Issue{
			Code:   IssueMissingDocument,
			Kind:   kind,
			Detail: fmt.Sprintf("no %s on file", kind),
		}, true
	}
	if doc.ExpiryDate == nil {
		return &Issue{
			Code:   IssueNoExpiryDate,
			Kind:   kind,
			Detail: fmt.Sprintf("%s has no expiry date recorded", kind),
		}, true
	}

	expiry := domain.Midnight(*doc.ExpiryDate)
	switch {
	case expiry.Before(today):
		return &Issue{
			Code:       IssueDocumentExpired,
			Kind:       kind,
			Detail:     fmt.Sprintf("%s expired on %s", kind, expiry.Format("2006-01-02")),
			ExpiryDate: doc.ExpiryDate,
		}, true

	case expiry.Before(start.AddDate(0, 0, validityBufferDays)):
		return &Issue{
			Code: IssueInsufficientValidity,
			Kind: kind,
			Detail: fmt.Sprintf("%s expires %s, less than %d days into the contract",
				kind, expiry.Format("2006-01-02"), validityBufferDays),
			ExpiryDate: doc.ExpiryDate,
		}, true

	case expiry.Before(end):
		// Medical certificates are renewable mid-contract; everything else
		// must outlast the engagement.
		issue := &Issue{
			Code: IssueExpiresWithinContract,
			Kind: kind,
			Detail: fmt.Sprintf("%s expires %s, before the contract ends",
				kind, expiry.Format("2006-01-02")),
			ExpiryDate: doc.ExpiryDate,
		}
		return issue, kind != domain.KindMedical

	case expiry.Before(end.AddDate(0, 0, validityBufferDays)):
		return &Issue{
			Code: IssueExpiresShortlyAfterEnd,
			Kind: kind,
			Detail: fmt.Sprintf("%s expires %s, within %d days of contract end",
				kind, expiry.Format("2006-01-02"), validityBufferDays),
			ExpiryDate: doc.ExpiryDate,
		}, false
	}
	return nil, false
}

// latestOfKind picks the document of the given kind with the furthest
// expiry, treating any dated document as newer than an undated one. Crew
// members can hold a lapsed document alongside its renewal.
func latestOfKind(docs []*fleet.Document, kind domain.DocumentKind) *fleet.Document {
	var best *fleet.Document
	for _, doc := range docs {
		if doc.Kind != kind {
			continue
		}
		if best == nil {
			best = doc
			continue
		}
		if doc.ExpiryDate == nil {
			continue
		}
		if best.ExpiryDate == nil || doc.ExpiryDate.After(*best.ExpiryDate) {
			best = doc
		}
	}
	return best
}
