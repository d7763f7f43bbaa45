package compliance

import (
	"context"

	"seacrew/internal/audit"
	"seacrew/internal/fleet"
	"seacrew/pkg/domain"
)

// CrewReader loads the crew member, contract, and document data a gating
// check evaluates. Defined here by the consumer; fleet stores satisfy it.
type CrewReader interface {
	FindCrewMember(ctx context.Context, crewID domain.CrewMemberID) (*fleet.CrewMember, error)
	FindContract(ctx context.Context, contractID domain.ContractID) (*fleet.Contract, error)
	ListDocumentsByCrewMember(ctx context.Context, crewID domain.CrewMemberID) ([]*fleet.Document, error)
}

// AuditPublisher records gating decisions on the audit trail.
type AuditPublisher interface {
	Emit(ctx context.Context, event audit.Event) error
}
