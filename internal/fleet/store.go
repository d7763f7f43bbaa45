package fleet

import (
	"context"
	"time"

	"seacrew/internal/sentinel"
	"seacrew/pkg/domain"
	domerrors "seacrew/pkg/domain-errors"
)

// ErrNotFound keeps storage-specific 404s consistent across implementations.
var ErrNotFound = domerrors.Wrap(sentinel.ErrNotFound, domerrors.CodeNotFound, "record not found")

// DocumentStore persists declared document records.
type DocumentStore interface {
	SaveDocument(ctx context.Context, doc *Document) error
	FindDocument(ctx context.Context, docID domain.DocumentID) (*Document, error)
	ListDocumentsByCrewMember(ctx context.Context, crewID domain.CrewMemberID) ([]*Document, error)

	// FindDocumentsByNumber returns every document of the given kind carrying
	// this number, across all crew members. Used for duplicate detection;
	// individually issued documents must never share a number.
	FindDocumentsByNumber(ctx context.Context, kind domain.DocumentKind, number string) ([]*Document, error)

	// MarkNotified stamps the document's last reminder timestamp.
	MarkNotified(ctx context.Context, docID domain.DocumentID, at time.Time) error
}

// CrewStore persists crew member records.
type CrewStore interface {
	SaveCrewMember(ctx context.Context, member *CrewMember) error
	FindCrewMember(ctx context.Context, crewID domain.CrewMemberID) (*CrewMember, error)
}

// ContractStore persists contract records.
type ContractStore interface {
	SaveContract(ctx context.Context, contract *Contract) error
	FindContract(ctx context.Context, contractID domain.ContractID) (*Contract, error)
	ListContractsByCrewMember(ctx context.Context, crewID domain.CrewMemberID) ([]*Contract, error)
}

// VesselStore persists vessel records.
type VesselStore interface {
	SaveVessel(ctx context.Context, vessel *Vessel) error
	FindVessel(ctx context.Context, vesselID domain.VesselID) (*Vessel, error)
}

// Store is the full fleet persistence surface. Both the memory and the
// Postgres implementations satisfy it; consumers should depend on the
// narrowest interface above that covers their needs.
type Store interface {
	DocumentStore
	CrewStore
	ContractStore
	VesselStore
}
