//go:build integration

package fleet_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"

	"seacrew/internal/fleet"
	"seacrew/pkg/domain"
	"seacrew/pkg/testutil/containers"
)

type FleetPostgresSuite struct {
	suite.Suite
	postgres *containers.PostgresContainer
	store    *fleet.PostgresStore
}

func TestFleetPostgresSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(FleetPostgresSuite))
}

func (s *FleetPostgresSuite) SetupSuite() {
	mgr := containers.GetManager()
	s.postgres = mgr.GetPostgres(s.T())
	s.store = fleet.NewPostgres(s.postgres.DB)
}

func (s *FleetPostgresSuite) SetupTest() {
	err := s.postgres.TruncateModuleTables(context.Background())
	s.Require().NoError(err)
}

func (s *FleetPostgresSuite) saveCrewMember(rank string, officer bool) *fleet.CrewMember {
	now := time.Now().UTC().Truncate(time.Microsecond)
	member := &fleet.CrewMember{
		ID:          domain.CrewMemberID(uuid.New()),
		FullName:    "Maria Silva",
		Nationality: "IDN",
		Rank:        rank,
		Officer:     officer,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	s.Require().NoError(s.store.SaveCrewMember(context.Background(), member))
	return member
}

func (s *FleetPostgresSuite) saveDocument(crewID domain.CrewMemberID, kind domain.DocumentKind, number string, expiry time.Time) *fleet.Document {
	now := time.Now().UTC().Truncate(time.Microsecond)
	issue := expiry.AddDate(-10, 0, 0)
	doc := &fleet.Document{
		ID:             domain.DocumentID(uuid.New()),
		CrewMemberID:   crewID,
		Kind:           kind,
		Number:         number,
		IssueDate:      &issue,
		ExpiryDate:     &expiry,
		IssuingCountry: "IDN",
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	s.Require().NoError(s.store.SaveDocument(context.Background(), doc))
	return doc
}

func (s *FleetPostgresSuite) TestCrewMemberRoundTrip() {
	ctx := context.Background()
	member := s.saveCrewMember("Chief Officer", true)

	found, err := s.store.FindCrewMember(ctx, member.ID)
	s.Require().NoError(err)
	s.Equal("Maria Silva", found.FullName)
	s.Equal("Chief Officer", found.Rank)
	s.True(found.Officer)
	s.False(found.OnBoard)
}

func (s *FleetPostgresSuite) TestFindCrewMemberNotFound() {
	_, err := s.store.FindCrewMember(context.Background(), domain.CrewMemberID(uuid.New()))
	s.ErrorIs(err, fleet.ErrNotFound)
}

func (s *FleetPostgresSuite) TestDocumentRoundTrip() {
	ctx := context.Background()
	member := s.saveCrewMember("Able Seaman", false)
	expiry := time.Date(2030, 5, 20, 0, 0, 0, 0, time.UTC)
	doc := s.saveDocument(member.ID, domain.KindPassport, "U1234567", expiry)

	found, err := s.store.FindDocument(ctx, doc.ID)
	s.Require().NoError(err)
	s.Equal(domain.KindPassport, found.Kind)
	s.Equal("U1234567", found.Number)
	s.Require().NotNil(found.ExpiryDate)
	s.True(found.ExpiryDate.Equal(expiry))
	s.Nil(found.LastNotifiedAt)
}

func (s *FleetPostgresSuite) TestListDocumentsByCrewMember() {
	ctx := context.Background()
	member := s.saveCrewMember("Able Seaman", false)
	other := s.saveCrewMember("Bosun", false)
	expiry := time.Date(2028, 1, 10, 0, 0, 0, 0, time.UTC)

	s.saveDocument(member.ID, domain.KindPassport, "U1234567", expiry)
	s.saveDocument(member.ID, domain.KindMedical, "MED-1", expiry)
	s.saveDocument(other.ID, domain.KindPassport, "Z7654321", expiry)

	docs, err := s.store.ListDocumentsByCrewMember(ctx, member.ID)
	s.Require().NoError(err)
	s.Len(docs, 2)
}

func (s *FleetPostgresSuite) TestFindDocumentsByNumberSpansCrewMembers() {
	ctx := context.Background()
	first := s.saveCrewMember("Able Seaman", false)
	second := s.saveCrewMember("Oiler", false)
	expiry := time.Date(2029, 3, 1, 0, 0, 0, 0, time.UTC)

	// Same passport number declared on two crew members is legal at the
	// schema level. Verification flags it as a duplicate finding.
	s.saveDocument(first.ID, domain.KindPassport, "U1234567", expiry)
	s.saveDocument(second.ID, domain.KindPassport, "U1234567", expiry)
	s.saveDocument(second.ID, domain.KindSeamansBook, "U1234567", expiry)

	docs, err := s.store.FindDocumentsByNumber(ctx, domain.KindPassport, "U1234567")
	s.Require().NoError(err)
	s.Len(docs, 2)

	empty, err := s.store.FindDocumentsByNumber(ctx, domain.KindPassport, "")
	s.Require().NoError(err)
	s.Empty(empty)
}

func (s *FleetPostgresSuite) TestMarkNotified() {
	ctx := context.Background()
	member := s.saveCrewMember("Able Seaman", false)
	expiry := time.Date(2025, 10, 1, 0, 0, 0, 0, time.UTC)
	doc := s.saveDocument(member.ID, domain.KindMedical, "MED-2", expiry)

	at := time.Now().UTC().Truncate(time.Microsecond)
	s.Require().NoError(s.store.MarkNotified(ctx, doc.ID, at))

	found, err := s.store.FindDocument(ctx, doc.ID)
	s.Require().NoError(err)
	s.Require().NotNil(found.LastNotifiedAt)
	s.True(found.LastNotifiedAt.Equal(at))

	err = s.store.MarkNotified(ctx, domain.DocumentID(uuid.New()), at)
	s.ErrorIs(err, fleet.ErrNotFound)
}

func (s *FleetPostgresSuite) TestContractRoundTrip() {
	ctx := context.Background()
	member := s.saveCrewMember("Second Engineer", true)

	now := time.Now().UTC().Truncate(time.Microsecond)
	vessel := &fleet.Vessel{
		ID:        domain.VesselID(uuid.New()),
		Name:      "MV Coral Star",
		IMONumber: "IMO9074729",
		CreatedAt: now,
	}
	s.Require().NoError(s.store.SaveVessel(ctx, vessel))

	contract := &fleet.Contract{
		ID:           domain.ContractID(uuid.New()),
		CrewMemberID: member.ID,
		VesselID:     vessel.ID,
		StartDate:    time.Date(2025, 9, 15, 0, 0, 0, 0, time.UTC),
		EndDate:      time.Date(2025, 12, 14, 0, 0, 0, 0, time.UTC),
		Status:       fleet.ContractActive,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	s.Require().NoError(s.store.SaveContract(ctx, contract))

	found, err := s.store.FindContract(ctx, contract.ID)
	s.Require().NoError(err)
	s.Equal(member.ID, found.CrewMemberID)
	s.Equal(vessel.ID, found.VesselID)
	s.Equal(fleet.ContractActive, found.Status)

	listed, err := s.store.ListContractsByCrewMember(ctx, member.ID)
	s.Require().NoError(err)
	s.Len(listed, 1)
}
