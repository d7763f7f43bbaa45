package compliance

import (
	"fmt"
	"time"

	"seacrew/internal/fleet"
	"seacrew/pkg/domain"
)

// EvaluateExtension checks whether a contract can be extended to newEnd.
// Every mandatory document must stay valid for at least 30 days past the new
// end date. The first failing kind in ExtensionCheckOrder decides and the
// check stops there.
//
// A shortfall inside the buffer (document outlives the contract but by less
// than 30 days) still disallows the extension, graded as a warning so the
// operator can override; a document that would expire before the new end
// date is a hard error.
func EvaluateExtension(member *fleet.CrewMember, docs []*fleet.Document, newEnd time.Time, now time.Time) Decision {
	today := domain.Midnight(now)
	end := domain.Midnight(newEnd)

	for _, kind := range ExtensionCheckOrder {
		if kind == domain.KindCompetency && !requiresCompetency(member) {
			continue
		}

		doc := latestOfKind(docs, kind)
		if doc == nil {
			return Decision{
				Severity:       SeverityError,
				Code:           IssueMissingDocument,
				Reason:         fmt.Sprintf("no %s on file", kind),
				RequiredAction: fmt.Sprintf("register a valid %s before extending", kind),
				Kind:           kind,
			}
		}
		if doc.ExpiryDate == nil {
			return Decision{
				Severity:       SeverityError,
				Code:           IssueNoExpiryDate,
				Reason:         fmt.Sprintf("%s has no expiry date recorded", kind),
				RequiredAction: fmt.Sprintf("record the %s expiry date before extending", kind),
				Kind:           kind,
			}
		}

		expiry := domain.Midnight(*doc.ExpiryDate)
		switch {
		case expiry.Before(today) || expiry.Before(end):
			return Decision{
				Severity: SeverityError,
				Code:     IssueDocumentExpired,
				Reason: fmt.Sprintf("%s expires %s, before the extended contract ends",
					kind, expiry.Format("2006-01-02")),
				RequiredAction: fmt.Sprintf("renew the %s before extending", kind),
				Kind:           kind,
			}
		case expiry.Before(end.AddDate(0, 0, validityBufferDays)):
			return Decision{
				Severity: SeverityWarning,
				Code:     IssueInsufficientValidity,
				Reason: fmt.Sprintf("%s expires %s, less than %d days after the extended contract ends",
					kind, expiry.Format("2006-01-02"), validityBufferDays),
				RequiredAction: fmt.Sprintf("plan a %s renewal during the extension", kind),
				Kind:           kind,
			}
		}
	}

	return Decision{Allowed: true}
}
