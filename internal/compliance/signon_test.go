package compliance_test

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"seacrew/internal/compliance"
	"seacrew/internal/fleet"
	"seacrew/pkg/domain"
)

var testNow = time.Date(2025, time.September, 1, 10, 30, 0, 0, time.UTC)

func docWithExpiry(kind domain.DocumentKind, expiry time.Time) *fleet.Document {
	return &fleet.Document{
		ID:         domain.DocumentID(uuid.New()),
		Kind:       kind,
		Number:     "DOC-" + string(kind),
		ExpiryDate: &expiry,
	}
}

// fullDocSet returns passport, seaman's book, and medical all valid well
// past the given horizon.
func fullDocSet(expiry time.Time) []*fleet.Document {
	return []*fleet.Document{
		docWithExpiry(domain.KindPassport, expiry),
		docWithExpiry(domain.KindSeamansBook, expiry),
		docWithExpiry(domain.KindMedical, expiry),
	}
}

func rating() *fleet.CrewMember {
	return &fleet.CrewMember{
		ID:       domain.CrewMemberID(uuid.New()),
		FullName: "Maria Silva",
		Rank:     "Able Seaman",
	}
}

func TestSignOnAllDocumentsValid(t *testing.T) {
	docs := fullDocSet(testNow.AddDate(2, 0, 0))

	res := compliance.EvaluateSignOn(rating(), docs, testNow, 90, testNow)

	assert.True(t, res.IsValid)
	assert.Empty(t, res.Blockers)
	assert.Empty(t, res.Warnings)
}

// Medical expiring 20 days out with a 90-day contract starting today: the
// expiry lands inside the first 30 days of the contract.
func TestSignOnMedicalInsufficientValidityWindow(t *testing.T) {
	docs := fullDocSet(testNow.AddDate(2, 0, 0))
	docs[2] = docWithExpiry(domain.KindMedical, testNow.AddDate(0, 0, 20))

	res := compliance.EvaluateSignOn(rating(), docs, testNow, 90, testNow)

	assert.False(t, res.IsValid)
	require.Len(t, res.Blockers, 1)
	assert.Equal(t, compliance.IssueInsufficientValidity, res.Blockers[0].Code)
	assert.Equal(t, domain.KindMedical, res.Blockers[0].Kind)
}

// Medical expiring 60 days into a 90-day contract: renewable mid-contract,
// so a warning, not a blocker.
func TestSignOnMedicalMidContractExpiryWarns(t *testing.T) {
	docs := fullDocSet(testNow.AddDate(2, 0, 0))
	docs[2] = docWithExpiry(domain.KindMedical, testNow.AddDate(0, 0, 60))

	res := compliance.EvaluateSignOn(rating(), docs, testNow, 90, testNow)

	assert.True(t, res.IsValid)
	assert.Empty(t, res.Blockers)
	require.Len(t, res.Warnings, 1)
	assert.Equal(t, compliance.IssueExpiresWithinContract, res.Warnings[0].Code)
	assert.Equal(t, domain.KindMedical, res.Warnings[0].Kind)
}

// A passport with the same mid-contract expiry blocks: only medicals get
// the renewable-mid-contract exemption.
func TestSignOnPassportMidContractExpiryBlocks(t *testing.T) {
	docs := fullDocSet(testNow.AddDate(2, 0, 0))
	docs[0] = docWithExpiry(domain.KindPassport, testNow.AddDate(0, 0, 60))

	res := compliance.EvaluateSignOn(rating(), docs, testNow, 90, testNow)

	assert.False(t, res.IsValid)
	require.Len(t, res.Blockers, 1)
	assert.Equal(t, compliance.IssueExpiresWithinContract, res.Blockers[0].Code)
	assert.Equal(t, domain.KindPassport, res.Blockers[0].Kind)
}

func TestSignOnExpiryShortlyAfterContractEndWarns(t *testing.T) {
	docs := fullDocSet(testNow.AddDate(2, 0, 0))
	// Contract ends at day 90; seaman's book expires at day 100.
	docs[1] = docWithExpiry(domain.KindSeamansBook, testNow.AddDate(0, 0, 100))

	res := compliance.EvaluateSignOn(rating(), docs, testNow, 90, testNow)

	assert.True(t, res.IsValid)
	require.Len(t, res.Warnings, 1)
	assert.Equal(t, compliance.IssueExpiresShortlyAfterEnd, res.Warnings[0].Code)
}

func TestSignOnMissingAndExpiredAndUndated(t *testing.T) {
	expired := testNow.AddDate(0, 0, -10)
	docs := []*fleet.Document{
		docWithExpiry(domain.KindPassport, expired),
		{ID: domain.DocumentID(uuid.New()), Kind: domain.KindSeamansBook, Number: "SB1"},
		// no medical at all
	}

	res := compliance.EvaluateSignOn(rating(), docs, testNow, 90, testNow)

	assert.False(t, res.IsValid)
	require.Len(t, res.Blockers, 3)

	byKind := map[domain.DocumentKind]compliance.IssueCode{}
	for _, b := range res.Blockers {
		byKind[b.Kind] = b.Code
	}
	assert.Equal(t, compliance.IssueDocumentExpired, byKind[domain.KindPassport])
	assert.Equal(t, compliance.IssueNoExpiryDate, byKind[domain.KindSeamansBook])
	assert.Equal(t, compliance.IssueMissingDocument, byKind[domain.KindMedical])
}

func TestSignOnOfficerRequiresCompetency(t *testing.T) {
	officer := &fleet.CrewMember{
		ID:       domain.CrewMemberID(uuid.New()),
		FullName: "Jan Kowalski",
		Rank:     "Second Officer",
	}
	docs := fullDocSet(testNow.AddDate(2, 0, 0))

	res := compliance.EvaluateSignOn(officer, docs, testNow, 90, testNow)

	assert.False(t, res.IsValid)
	require.Len(t, res.Blockers, 1)
	assert.Equal(t, compliance.IssueMissingDocument, res.Blockers[0].Code)
	assert.Equal(t, domain.KindCompetency, res.Blockers[0].Kind)

	docs = append(docs, docWithExpiry(domain.KindCompetency, testNow.AddDate(2, 0, 0)))
	res = compliance.EvaluateSignOn(officer, docs, testNow, 90, testNow)
	assert.True(t, res.IsValid)
}

func TestSignOnCompetencyWaiverExemptsOfficer(t *testing.T) {
	officer := &fleet.CrewMember{
		ID:               domain.CrewMemberID(uuid.New()),
		FullName:         "Jan Kowalski",
		Rank:             "Chief Engineer",
		CompetencyWaived: true,
	}
	docs := fullDocSet(testNow.AddDate(2, 0, 0))

	res := compliance.EvaluateSignOn(officer, docs, testNow, 90, testNow)
	assert.True(t, res.IsValid)
}

// A lapsed passport next to its renewal must not block: the furthest expiry
// of each kind is the one evaluated.
func TestSignOnRenewalShadowsLapsedDocument(t *testing.T) {
	docs := fullDocSet(testNow.AddDate(2, 0, 0))
	docs = append(docs, docWithExpiry(domain.KindPassport, testNow.AddDate(0, 0, -30)))

	res := compliance.EvaluateSignOn(rating(), docs, testNow, 90, testNow)
	assert.True(t, res.IsValid)
}

func TestIsOfficerRank(t *testing.T) {
	tests := []struct {
		rank string
		want bool
	}{
		{"Master", true},
		{"Chief Officer", true},
		{"chief officer (acting)", true},
		{"Second Engineer", true},
		{"Able Seaman", false},
		{"Cook", false},
		{"", false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, compliance.IsOfficerRank(tt.rank), "rank %q", tt.rank)
	}
}
