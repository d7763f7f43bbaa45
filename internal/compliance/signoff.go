package compliance

import (
	"fmt"
	"sort"
	"time"

	"seacrew/internal/fleet"
	"seacrew/pkg/domain"
)

// EvaluateSignOff checks whether a serving crew member must be signed off
// because a document has expired. Only crew currently on board are subject
// to it; everyone else trivially passes.
//
// Whether the vessel is at sea is an explicit input, not derived here:
// vessel movement data lives outside this engine. At sea, a grace period of
// gracePeriodDays from expiry downgrades the block to a warning requiring
// sign-off at the next port. Once the grace period lapses, or when not at
// sea, the decision is a hard error requiring immediate sign-off.
//
// The earliest-expired document decides; later expiries cannot improve on
// it.
func EvaluateSignOff(member *fleet.CrewMember, docs []*fleet.Document, atSea bool, gracePeriodDays int, now time.Time) Decision {
	if !member.OnBoard {
		return Decision{Allowed: true}
	}

	today := domain.Midnight(now)

	expired := make([]*fleet.Document, 0, len(docs))
	for _, doc := range docs {
		if doc.ExpiryDate != nil && domain.Midnight(*doc.ExpiryDate).Before(today) {
			expired = append(expired, doc)
		}
	}
	if len(expired) == 0 {
		return Decision{Allowed: true}
	}
	sort.Slice(expired, func(i, j int) bool {
		return expired[i].ExpiryDate.Before(*expired[j].ExpiryDate)
	})

	doc := expired[0]
	daysExpired := -domain.DaysUntil(today, *doc.ExpiryDate)

	if atSea && daysExpired <= gracePeriodDays {
		return Decision{
			Severity: SeverityWarning,
			Code:     IssueGracePeriodActive,
			Reason: fmt.Sprintf("%s expired %d day(s) ago; within the %d-day at-sea grace period",
				doc.Kind, daysExpired, gracePeriodDays),
			RequiredAction:       "sign off at the next port of call",
			GracePeriodAvailable: true,
			Kind:                 doc.Kind,
		}
	}

	return Decision{
		Severity: SeverityError,
		Code:     IssueDocumentExpired,
		Reason: fmt.Sprintf("%s expired %d day(s) ago",
			doc.Kind, daysExpired),
		RequiredAction: "sign off immediately at the current port",
		Kind:           doc.Kind,
	}
}
