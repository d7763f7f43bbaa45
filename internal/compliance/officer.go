package compliance

import (
	"strings"

	"seacrew/internal/fleet"
)

// officerRankTerms is the vocabulary matched against free-text ranks. Rank
// strings come from operator input, so matching is containment on the
// lowercased rank rather than exact equality ("2nd Officer", "Chief Officer
// (acting)").
var officerRankTerms = []string{
	"master",
	"captain",
	"chief officer",
	"first officer",
	"second officer",
	"third officer",
	"chief engineer",
	"first engineer",
	"second engineer",
	"third engineer",
	"chief mate",
	"electro-technical officer",
}

// IsOfficerRank reports whether a rank string names an officer position.
func IsOfficerRank(rank string) bool {
	folded := strings.ToLower(rank)
	for _, term := range officerRankTerms {
		if strings.Contains(folded, term) {
			return true
		}
	}
	return false
}

// requiresCompetency reports whether the member needs a certificate of
// competency to sign on. The stored Officer flag takes precedence; the rank
// vocabulary catches members created before the flag existed.
func requiresCompetency(member *fleet.CrewMember) bool {
	if member.CompetencyWaived {
		return false
	}
	return member.Officer || IsOfficerRank(member.Rank)
}
