package seeder_test

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"seacrew/internal/fleet"
	"seacrew/internal/seeder"
	"seacrew/pkg/domain"
)

type recordingStore struct {
	vessels   []*fleet.Vessel
	members   []*fleet.CrewMember
	contracts []*fleet.Contract
	documents []*fleet.Document
}

func (r *recordingStore) SaveVessel(_ context.Context, v *fleet.Vessel) error {
	r.vessels = append(r.vessels, v)
	return nil
}

func (r *recordingStore) SaveCrewMember(_ context.Context, m *fleet.CrewMember) error {
	r.members = append(r.members, m)
	return nil
}

func (r *recordingStore) SaveContract(_ context.Context, c *fleet.Contract) error {
	r.contracts = append(r.contracts, c)
	return nil
}

func (r *recordingStore) SaveDocument(_ context.Context, d *fleet.Document) error {
	r.documents = append(r.documents, d)
	return nil
}

func TestSeedAllWritesConsistentFleet(t *testing.T) {
	store := &recordingStore{}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	err := seeder.New(store, logger).SeedAll(context.Background())
	require.NoError(t, err)

	require.Len(t, store.vessels, 1)
	require.NotEmpty(t, store.members)
	require.NotEmpty(t, store.documents)

	memberIDs := map[domain.CrewMemberID]*fleet.CrewMember{}
	for _, m := range store.members {
		memberIDs[m.ID] = m
	}

	for _, d := range store.documents {
		assert.Contains(t, memberIDs, d.CrewMemberID, "documents belong to seeded members")
		require.NotNil(t, d.ExpiryDate)
		require.NotNil(t, d.IssueDate)
		assert.True(t, d.IssueDate.Before(*d.ExpiryDate))
		assert.NotEmpty(t, d.Number)
		assert.NotEmpty(t, d.IssuingCountry)
	}

	onBoard := 0
	for _, m := range store.members {
		if m.OnBoard {
			onBoard++
		}
	}
	assert.Greater(t, onBoard, 0)
	assert.Len(t, store.contracts, onBoard, "every on-board member gets a contract")

	for _, c := range store.contracts {
		assert.Contains(t, memberIDs, c.CrewMemberID)
		assert.Equal(t, store.vessels[0].ID, c.VesselID)
		assert.Equal(t, fleet.ContractActive, c.Status)
		assert.True(t, c.StartDate.Before(c.EndDate))
	}
}

func TestSeedIncludesComplianceProblemCases(t *testing.T) {
	store := &recordingStore{}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	err := seeder.New(store, logger).SeedAll(context.Background())
	require.NoError(t, err)

	kindsByMember := map[domain.CrewMemberID]map[domain.DocumentKind]bool{}
	for _, d := range store.documents {
		if kindsByMember[d.CrewMemberID] == nil {
			kindsByMember[d.CrewMemberID] = map[domain.DocumentKind]bool{}
		}
		kindsByMember[d.CrewMemberID][d.Kind] = true
	}

	var officerWithoutCompetency, memberWithoutSeamansBook bool
	for _, m := range store.members {
		kinds := kindsByMember[m.ID]
		if m.Officer && !kinds[domain.KindCompetency] {
			officerWithoutCompetency = true
		}
		if !kinds[domain.KindSeamansBook] {
			memberWithoutSeamansBook = true
		}
	}
	assert.True(t, officerWithoutCompetency, "the demo fleet includes an officer missing a certificate of competency")
	assert.True(t, memberWithoutSeamansBook, "the demo fleet includes a member missing a seaman's book")
}
