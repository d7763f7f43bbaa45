// Package seeder populates the fleet store with demo data for local
// development. It is only wired when SEED_DEMO_DATA is set, typically
// alongside the in-memory stores.
package seeder

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"seacrew/internal/fleet"
	"seacrew/pkg/domain"
)

// FleetWriter is the writing surface of the fleet store the seeder needs.
type FleetWriter interface {
	SaveVessel(ctx context.Context, vessel *fleet.Vessel) error
	SaveCrewMember(ctx context.Context, member *fleet.CrewMember) error
	SaveContract(ctx context.Context, contract *fleet.Contract) error
	SaveDocument(ctx context.Context, doc *fleet.Document) error
}

// Seeder writes a small, internally consistent fleet: one vessel, a handful
// of crew members in various compliance states, and their documents.
type Seeder struct {
	store  FleetWriter
	logger *slog.Logger
	now    func() time.Time
}

// New creates a seeder over the given store.
func New(store FleetWriter, logger *slog.Logger) *Seeder {
	return &Seeder{
		store:  store,
		logger: logger,
		now:    time.Now,
	}
}

// SeedAll writes the demo fleet. It is idempotent per process run but uses
// fresh IDs each time, so it should not run against a persistent database
// repeatedly.
func (s *Seeder) SeedAll(ctx context.Context) error {
	s.logger.Info("seeding demo fleet data")

	vessel, err := s.seedVessel(ctx)
	if err != nil {
		return fmt.Errorf("seed vessel: %w", err)
	}

	count, err := s.seedCrew(ctx, vessel)
	if err != nil {
		return fmt.Errorf("seed crew: %w", err)
	}

	s.logger.Info("demo fleet seeded",
		"vessel", vessel.Name,
		"crew_members", count,
	)
	return nil
}

func (s *Seeder) seedVessel(ctx context.Context) (*fleet.Vessel, error) {
	vessel := &fleet.Vessel{
		ID:        domain.VesselID(uuid.New()),
		Name:      "MV Coral Star",
		IMONumber: "IMO9074729",
		CreatedAt: s.now().UTC(),
	}
	if err := s.store.SaveVessel(ctx, vessel); err != nil {
		return nil, err
	}
	return vessel, nil
}

// demoCrew describes one seeded crew member with relative document expiries.
// Offsets are in days from seeding time; nil means the document is absent.
type demoCrew struct {
	fullName    string
	nationality string
	rank        string
	officer     bool
	onBoard     bool

	passportExpiry *int
	seamansExpiry  *int
	medicalExpiry  *int
	// competencyExpiry only matters for officers.
	competencyExpiry *int
}

func days(n int) *int { return &n }

func (s *Seeder) seedCrew(ctx context.Context, vessel *fleet.Vessel) (int, error) {
	crew := []demoCrew{
		// Fully compliant rating, currently on board.
		{
			fullName: "Maria Silva", nationality: "IDN", rank: "Able Seaman", onBoard: true,
			passportExpiry: days(1700), seamansExpiry: days(1200), medicalExpiry: days(500),
		},
		// Officer with everything in order.
		{
			fullName: "Jorge Santos", nationality: "PHL", rank: "Chief Officer", officer: true, onBoard: true,
			passportExpiry: days(2100), seamansExpiry: days(1500), medicalExpiry: days(400), competencyExpiry: days(900),
		},
		// Medical expires inside a standard 90 day contract.
		{
			fullName: "Elena Costa", nationality: "BRA", rank: "Cook",
			passportExpiry: days(1400), seamansExpiry: days(1000), medicalExpiry: days(45),
		},
		// Passport already expired, still on board. Sign-off scenarios.
		{
			fullName: "Paulo Ferreira", nationality: "PRT", rank: "Oiler", onBoard: true,
			passportExpiry: days(-5), seamansExpiry: days(800), medicalExpiry: days(300),
		},
		// Officer missing the certificate of competency.
		{
			fullName: "Ana Pereira", nationality: "BRA", rank: "Second Engineer", officer: true,
			passportExpiry: days(1900), seamansExpiry: days(1300), medicalExpiry: days(600),
		},
		// Missing seaman's book entirely.
		{
			fullName: "Carlos Oliveira", nationality: "IDN", rank: "Wiper",
			passportExpiry: days(1100), medicalExpiry: days(700),
		},
	}

	for i, dc := range crew {
		member, err := s.seedMember(ctx, dc)
		if err != nil {
			return i, err
		}
		if dc.onBoard {
			if err := s.seedContract(ctx, member, vessel); err != nil {
				return i, err
			}
		}
	}
	return len(crew), nil
}

func (s *Seeder) seedMember(ctx context.Context, dc demoCrew) (*fleet.CrewMember, error) {
	now := s.now().UTC()
	member := &fleet.CrewMember{
		ID:          domain.CrewMemberID(uuid.New()),
		FullName:    dc.fullName,
		Nationality: dc.nationality,
		Rank:        dc.rank,
		Officer:     dc.officer,
		OnBoard:     dc.onBoard,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.store.SaveCrewMember(ctx, member); err != nil {
		return nil, err
	}

	docs := []struct {
		kind   domain.DocumentKind
		prefix string
		expiry *int
	}{
		{domain.KindPassport, "P", dc.passportExpiry},
		{domain.KindSeamansBook, "SB", dc.seamansExpiry},
		{domain.KindMedical, "MED", dc.medicalExpiry},
		{domain.KindCompetency, "COC", dc.competencyExpiry},
	}
	for _, d := range docs {
		if d.expiry == nil {
			continue
		}
		if err := s.seedDocument(ctx, member, d.kind, d.prefix, *d.expiry); err != nil {
			return nil, err
		}
	}
	return member, nil
}

func (s *Seeder) seedDocument(ctx context.Context, member *fleet.CrewMember, kind domain.DocumentKind, prefix string, expiryDays int) error {
	now := s.now().UTC()
	expiry := domain.Midnight(now.AddDate(0, 0, expiryDays))
	issue := expiry.AddDate(-5, 0, 0)

	doc := &fleet.Document{
		ID:             domain.DocumentID(uuid.New()),
		CrewMemberID:   member.ID,
		Kind:           kind,
		Number:         fmt.Sprintf("%s%07d", prefix, uuid.New().ID()%10000000),
		IssueDate:      &issue,
		ExpiryDate:     &expiry,
		IssuingCountry: member.Nationality,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	return s.store.SaveDocument(ctx, doc)
}

func (s *Seeder) seedContract(ctx context.Context, member *fleet.CrewMember, vessel *fleet.Vessel) error {
	now := s.now().UTC()
	start := domain.Midnight(now.AddDate(0, 0, -30))
	contract := &fleet.Contract{
		ID:           domain.ContractID(uuid.New()),
		CrewMemberID: member.ID,
		VesselID:     vessel.ID,
		StartDate:    start,
		EndDate:      start.AddDate(0, 0, 90),
		Status:       fleet.ContractActive,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	return s.store.SaveContract(ctx, contract)
}
