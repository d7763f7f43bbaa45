package fleet

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"seacrew/pkg/domain"
)

// MemoryStore keeps fleet records in process memory. Used in tests and for
// single-node deployments without Postgres.
type MemoryStore struct {
	mu        sync.RWMutex
	documents map[domain.DocumentID]*Document
	crew      map[domain.CrewMemberID]*CrewMember
	contracts map[domain.ContractID]*Contract
	vessels   map[domain.VesselID]*Vessel
}

// NewMemoryStore creates an empty in-memory fleet store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		documents: make(map[domain.DocumentID]*Document),
		crew:      make(map[domain.CrewMemberID]*CrewMember),
		contracts: make(map[domain.ContractID]*Contract),
		vessels:   make(map[domain.VesselID]*Vessel),
	}
}

func (s *MemoryStore) SaveDocument(_ context.Context, doc *Document) error {
	if doc == nil {
		return fmt.Errorf("document is required")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.documents[doc.ID] = doc.Clone()
	return nil
}

func (s *MemoryStore) FindDocument(_ context.Context, docID domain.DocumentID) (*Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	doc, ok := s.documents[docID]
	if !ok {
		return nil, ErrNotFound
	}
	return doc.Clone(), nil
}

func (s *MemoryStore) ListDocumentsByCrewMember(_ context.Context, crewID domain.CrewMemberID) ([]*Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	docs := make([]*Document, 0)
	for _, doc := range s.documents {
		if doc.CrewMemberID == crewID {
			docs = append(docs, doc.Clone())
		}
	}
	sort.Slice(docs, func(i, j int) bool { return docs[i].CreatedAt.Before(docs[j].CreatedAt) })
	return docs, nil
}

func (s *MemoryStore) FindDocumentsByNumber(_ context.Context, kind domain.DocumentKind, number string) ([]*Document, error) {
	if number == "" {
		return []*Document{}, nil
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	docs := make([]*Document, 0)
	for _, doc := range s.documents {
		if doc.Kind == kind && doc.Number == number {
			docs = append(docs, doc.Clone())
		}
	}
	sort.Slice(docs, func(i, j int) bool { return docs[i].CreatedAt.Before(docs[j].CreatedAt) })
	return docs, nil
}

func (s *MemoryStore) MarkNotified(_ context.Context, docID domain.DocumentID, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	doc, ok := s.documents[docID]
	if !ok {
		return ErrNotFound
	}
	stamp := at
	doc.LastNotifiedAt = &stamp
	doc.UpdatedAt = at
	return nil
}

func (s *MemoryStore) SaveCrewMember(_ context.Context, member *CrewMember) error {
	if member == nil {
		return fmt.Errorf("crew member is required")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *member
	s.crew[member.ID] = &cp
	return nil
}

func (s *MemoryStore) FindCrewMember(_ context.Context, crewID domain.CrewMemberID) (*CrewMember, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	member, ok := s.crew[crewID]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *member
	return &cp, nil
}

func (s *MemoryStore) SaveContract(_ context.Context, contract *Contract) error {
	if contract == nil {
		return fmt.Errorf("contract is required")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *contract
	s.contracts[contract.ID] = &cp
	return nil
}

func (s *MemoryStore) FindContract(_ context.Context, contractID domain.ContractID) (*Contract, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	contract, ok := s.contracts[contractID]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *contract
	return &cp, nil
}

func (s *MemoryStore) ListContractsByCrewMember(_ context.Context, crewID domain.CrewMemberID) ([]*Contract, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	contracts := make([]*Contract, 0)
	for _, contract := range s.contracts {
		if contract.CrewMemberID == crewID {
			cp := *contract
			contracts = append(contracts, &cp)
		}
	}
	sort.Slice(contracts, func(i, j int) bool {
		return contracts[i].StartDate.Before(contracts[j].StartDate)
	})
	return contracts, nil
}

func (s *MemoryStore) SaveVessel(_ context.Context, vessel *Vessel) error {
	if vessel == nil {
		return fmt.Errorf("vessel is required")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *vessel
	s.vessels[vessel.ID] = &cp
	return nil
}

func (s *MemoryStore) FindVessel(_ context.Context, vesselID domain.VesselID) (*Vessel, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	vessel, ok := s.vessels[vesselID]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *vessel
	return &cp, nil
}

var _ Store = (*MemoryStore)(nil)
