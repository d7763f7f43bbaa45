package compliance_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"seacrew/internal/compliance"
	"seacrew/pkg/domain"
)

// New end 2025-12-01, passport expires 2025-12-15: the document outlives
// the contract but by less than the 30-day buffer. Disallowed, but only as
// a warning.
func TestExtensionShortfallInsideBufferWarns(t *testing.T) {
	now := time.Date(2025, time.September, 1, 0, 0, 0, 0, time.UTC)
	newEnd := time.Date(2025, time.December, 1, 0, 0, 0, 0, time.UTC)

	docs := fullDocSet(now.AddDate(2, 0, 0))
	docs[0] = docWithExpiry(domain.KindPassport, time.Date(2025, time.December, 15, 0, 0, 0, 0, time.UTC))

	d := compliance.EvaluateExtension(rating(), docs, newEnd, now)

	assert.False(t, d.Allowed)
	assert.Equal(t, compliance.SeverityWarning, d.Severity)
	assert.Equal(t, domain.KindPassport, d.Kind)
}

// Passport expires 2025-11-20, before the new end date: hard error.
func TestExtensionExpiryBeforeNewEndBlocks(t *testing.T) {
	now := time.Date(2025, time.September, 1, 0, 0, 0, 0, time.UTC)
	newEnd := time.Date(2025, time.December, 1, 0, 0, 0, 0, time.UTC)

	docs := fullDocSet(now.AddDate(2, 0, 0))
	docs[0] = docWithExpiry(domain.KindPassport, time.Date(2025, time.November, 20, 0, 0, 0, 0, time.UTC))

	d := compliance.EvaluateExtension(rating(), docs, newEnd, now)

	assert.False(t, d.Allowed)
	assert.Equal(t, compliance.SeverityError, d.Severity)
	assert.Equal(t, domain.KindPassport, d.Kind)
}

func TestExtensionAllDocumentsSufficient(t *testing.T) {
	now := time.Date(2025, time.September, 1, 0, 0, 0, 0, time.UTC)
	newEnd := now.AddDate(0, 6, 0)

	d := compliance.EvaluateExtension(rating(), fullDocSet(now.AddDate(2, 0, 0)), newEnd, now)

	assert.True(t, d.Allowed)
	assert.Empty(t, d.Reason)
}

// With both the passport and the medical failing, the passport decides:
// ExtensionCheckOrder puts it first and the check short-circuits.
func TestExtensionShortCircuitsInCheckOrder(t *testing.T) {
	now := time.Date(2025, time.September, 1, 0, 0, 0, 0, time.UTC)
	newEnd := now.AddDate(0, 6, 0)

	docs := fullDocSet(now.AddDate(2, 0, 0))
	docs[0] = docWithExpiry(domain.KindPassport, now.AddDate(0, 1, 0))
	docs[2] = docWithExpiry(domain.KindMedical, now.AddDate(0, 1, 0))

	d := compliance.EvaluateExtension(rating(), docs, newEnd, now)

	assert.False(t, d.Allowed)
	assert.Equal(t, domain.KindPassport, d.Kind)
}

// Non-officers are not checked for a certificate of competency on
// extension; officers are.
func TestExtensionCompetencyOnlyForOfficers(t *testing.T) {
	now := time.Date(2025, time.September, 1, 0, 0, 0, 0, time.UTC)
	newEnd := now.AddDate(0, 6, 0)
	docs := fullDocSet(now.AddDate(2, 0, 0))

	d := compliance.EvaluateExtension(rating(), docs, newEnd, now)
	assert.True(t, d.Allowed)

	officer := rating()
	officer.Rank = "Third Officer"
	d = compliance.EvaluateExtension(officer, docs, newEnd, now)
	assert.False(t, d.Allowed)
	assert.Equal(t, compliance.SeverityError, d.Severity)
	assert.Equal(t, domain.KindCompetency, d.Kind)
	assert.Equal(t, compliance.IssueMissingDocument, d.Code)
}
