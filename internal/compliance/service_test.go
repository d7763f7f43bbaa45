package compliance_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"seacrew/internal/audit"
	"seacrew/internal/compliance"
	"seacrew/internal/fleet"
	"seacrew/pkg/domain"
)

type fakeCrewReader struct {
	members   map[domain.CrewMemberID]*fleet.CrewMember
	contracts map[domain.ContractID]*fleet.Contract
	docs      map[domain.CrewMemberID][]*fleet.Document
}

func (f *fakeCrewReader) FindCrewMember(_ context.Context, id domain.CrewMemberID) (*fleet.CrewMember, error) {
	m, ok := f.members[id]
	if !ok {
		return nil, fleet.ErrNotFound
	}
	return m, nil
}

func (f *fakeCrewReader) FindContract(_ context.Context, id domain.ContractID) (*fleet.Contract, error) {
	c, ok := f.contracts[id]
	if !ok {
		return nil, fleet.ErrNotFound
	}
	return c, nil
}

func (f *fakeCrewReader) ListDocumentsByCrewMember(_ context.Context, id domain.CrewMemberID) ([]*fleet.Document, error) {
	return f.docs[id], nil
}

type captureAuditor struct {
	events []audit.Event
}

func (c *captureAuditor) Emit(_ context.Context, event audit.Event) error {
	c.events = append(c.events, event)
	return nil
}

func TestServiceValidateSignOnEmitsAudit(t *testing.T) {
	member := rating()
	crew := &fakeCrewReader{
		members: map[domain.CrewMemberID]*fleet.CrewMember{member.ID: member},
		docs: map[domain.CrewMemberID][]*fleet.Document{
			member.ID: fullDocSet(testNow.AddDate(2, 0, 0)),
		},
	}
	auditor := &captureAuditor{}
	svc := compliance.New(crew, auditor, compliance.WithClock(func() time.Time { return testNow }))

	res, err := svc.ValidateSignOn(context.Background(), member.ID, testNow, 90, "req-7")
	require.NoError(t, err)
	assert.True(t, res.IsValid)

	require.Len(t, auditor.events, 1)
	event := auditor.events[0]
	assert.Equal(t, audit.CategoryCompliance, event.Category)
	assert.Equal(t, audit.ActionSignOnEvaluated, event.Action)
	assert.Equal(t, "allowed", event.Decision)
	assert.Equal(t, "req-7", event.RequestID)
	require.NotNil(t, event.CrewMemberID)
	assert.Equal(t, member.ID, *event.CrewMemberID)
}

func TestServiceValidateExtensionResolvesContract(t *testing.T) {
	member := rating()
	contract := &fleet.Contract{
		ID:           domain.ContractID(uuid.New()),
		CrewMemberID: member.ID,
		StartDate:    testNow.AddDate(0, -3, 0),
		EndDate:      testNow.AddDate(0, 3, 0),
		Status:       fleet.ContractActive,
	}
	crew := &fakeCrewReader{
		members:   map[domain.CrewMemberID]*fleet.CrewMember{member.ID: member},
		contracts: map[domain.ContractID]*fleet.Contract{contract.ID: contract},
		docs: map[domain.CrewMemberID][]*fleet.Document{
			member.ID: fullDocSet(testNow.AddDate(0, 4, 0)),
		},
	}
	auditor := &captureAuditor{}
	svc := compliance.New(crew, auditor, compliance.WithClock(func() time.Time { return testNow }))

	// Documents expire 4 months out; extending 6 months out must block.
	d, err := svc.ValidateExtension(context.Background(), contract.ID, testNow.AddDate(0, 6, 0), "req-8")
	require.NoError(t, err)
	assert.False(t, d.Allowed)
	assert.Equal(t, compliance.SeverityError, d.Severity)

	require.Len(t, auditor.events, 1)
	assert.Equal(t, audit.ActionExtensionEvaluated, auditor.events[0].Action)
	assert.Equal(t, "blocked", auditor.events[0].Decision)
	require.NotNil(t, auditor.events[0].ContractID)
	assert.Equal(t, contract.ID, *auditor.events[0].ContractID)
}

func TestServiceCheckSignOffUnknownCrew(t *testing.T) {
	svc := compliance.New(&fakeCrewReader{}, &captureAuditor{})

	_, err := svc.CheckSignOff(context.Background(), domain.CrewMemberID(uuid.New()), true, "")
	assert.ErrorIs(t, err, fleet.ErrNotFound)
}

func TestServiceNewPanicsOnNilPorts(t *testing.T) {
	assert.Panics(t, func() { compliance.New(nil, &captureAuditor{}) })
	assert.Panics(t, func() { compliance.New(&fakeCrewReader{}, nil) })
}
