package compliance_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"seacrew/internal/compliance"
	"seacrew/internal/fleet"
	"seacrew/pkg/domain"
)

func onBoard() *fleet.CrewMember {
	m := rating()
	m.OnBoard = true
	return m
}

// Expired 5 days ago while at sea: inside the 7-day grace period, so the
// member may stay aboard until the next port.
func TestSignOffAtSeaWithinGracePeriod(t *testing.T) {
	docs := fullDocSet(testNow.AddDate(2, 0, 0))
	docs[2] = docWithExpiry(domain.KindMedical, testNow.AddDate(0, 0, -5))

	d := compliance.EvaluateSignOff(onBoard(), docs, true, 7, testNow)

	assert.False(t, d.Allowed)
	assert.Equal(t, compliance.SeverityWarning, d.Severity)
	assert.True(t, d.GracePeriodAvailable)
	assert.Equal(t, domain.KindMedical, d.Kind)
	assert.Contains(t, d.RequiredAction, "next port")
}

// The same document expired 10 days ago: the grace period has lapsed.
func TestSignOffGracePeriodLapsed(t *testing.T) {
	docs := fullDocSet(testNow.AddDate(2, 0, 0))
	docs[2] = docWithExpiry(domain.KindMedical, testNow.AddDate(0, 0, -10))

	d := compliance.EvaluateSignOff(onBoard(), docs, true, 7, testNow)

	assert.False(t, d.Allowed)
	assert.Equal(t, compliance.SeverityError, d.Severity)
	assert.False(t, d.GracePeriodAvailable)
	assert.Contains(t, d.RequiredAction, "immediately")
}

// In port there is no grace period at all.
func TestSignOffNoGracePeriodInPort(t *testing.T) {
	docs := fullDocSet(testNow.AddDate(2, 0, 0))
	docs[2] = docWithExpiry(domain.KindMedical, testNow.AddDate(0, 0, -1))

	d := compliance.EvaluateSignOff(onBoard(), docs, false, 7, testNow)

	assert.False(t, d.Allowed)
	assert.Equal(t, compliance.SeverityError, d.Severity)
	assert.False(t, d.GracePeriodAvailable)
}

func TestSignOffNotOnBoardPasses(t *testing.T) {
	docs := fullDocSet(testNow.AddDate(2, 0, 0))
	docs[0] = docWithExpiry(domain.KindPassport, testNow.AddDate(0, 0, -30))

	d := compliance.EvaluateSignOff(rating(), docs, true, 7, testNow)
	assert.True(t, d.Allowed)
}

func TestSignOffNoExpiredDocuments(t *testing.T) {
	d := compliance.EvaluateSignOff(onBoard(), fullDocSet(testNow.AddDate(2, 0, 0)), true, 7, testNow)
	assert.True(t, d.Allowed)
}

// With several expired documents the earliest expiry decides; a fresher
// expiry cannot soften the verdict.
func TestSignOffEarliestExpiryDecides(t *testing.T) {
	docs := fullDocSet(testNow.AddDate(2, 0, 0))
	docs[0] = docWithExpiry(domain.KindPassport, testNow.AddDate(0, 0, -20))
	docs[2] = docWithExpiry(domain.KindMedical, testNow.AddDate(0, 0, -2))

	d := compliance.EvaluateSignOff(onBoard(), docs, true, 7, testNow)

	assert.Equal(t, compliance.SeverityError, d.Severity)
	assert.Equal(t, domain.KindPassport, d.Kind)
}

// An undated document never triggers sign-off; that omission is a sign-on
// problem, not a sign-off one.
func TestSignOffIgnoresUndatedDocuments(t *testing.T) {
	docs := []*fleet.Document{
		{Kind: domain.KindPassport, Number: "P1"},
	}
	d := compliance.EvaluateSignOff(onBoard(), docs, true, 7, testNow)
	assert.True(t, d.Allowed)
}
