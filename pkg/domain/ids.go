// Package domain provides type-safe identifiers to prevent mixing up IDs at compile time.
package domain

import (
	"github.com/google/uuid"

	dErrors "seacrew/pkg/domain-errors"
)

// Distinct ID types - compiler prevents passing a DocumentID where a
// CrewMemberID is expected.
type (
	DocumentID   uuid.UUID
	CrewMemberID uuid.UUID
	ContractID   uuid.UUID
	VesselID     uuid.UUID
	ScanID       uuid.UUID
)

// Parse functions - use at trust boundaries (handlers, API inputs).

func ParseDocumentID(s string) (DocumentID, error) {
	id, err := parseUUID(s, "document ID")
	return DocumentID(id), err
}

func ParseCrewMemberID(s string) (CrewMemberID, error) {
	id, err := parseUUID(s, "crew member ID")
	return CrewMemberID(id), err
}

func ParseContractID(s string) (ContractID, error) {
	id, err := parseUUID(s, "contract ID")
	return ContractID(id), err
}

func ParseVesselID(s string) (VesselID, error) {
	id, err := parseUUID(s, "vessel ID")
	return VesselID(id), err
}

func ParseScanID(s string) (ScanID, error) {
	id, err := parseUUID(s, "scan ID")
	return ScanID(id), err
}

// NewScanID generates a fresh scan record identifier.
func NewScanID() ScanID { return ScanID(uuid.New()) }

// String methods - for logging and debugging.

func (id DocumentID) String() string   { return uuid.UUID(id).String() }
func (id CrewMemberID) String() string { return uuid.UUID(id).String() }
func (id ContractID) String() string   { return uuid.UUID(id).String() }
func (id VesselID) String() string     { return uuid.UUID(id).String() }
func (id ScanID) String() string       { return uuid.UUID(id).String() }

// IsNil checks - used for service-layer validation.

func (id DocumentID) IsNil() bool   { return uuid.UUID(id) == uuid.Nil }
func (id CrewMemberID) IsNil() bool { return uuid.UUID(id) == uuid.Nil }
func (id ContractID) IsNil() bool   { return uuid.UUID(id) == uuid.Nil }
func (id VesselID) IsNil() bool     { return uuid.UUID(id) == uuid.Nil }
func (id ScanID) IsNil() bool       { return uuid.UUID(id) == uuid.Nil }

// parseUUID is the shared validation logic.
// Note: Nil UUIDs are allowed here. Use IsNil() at the service layer for
// business validation, which allows store lookups to return proper
// "not found" errors for consistency.
func parseUUID(s, label string) (uuid.UUID, error) {
	if s == "" {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, label+" cannot be empty")
	}
	id, err := uuid.Parse(s)
	if err != nil {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, "invalid "+label+" format")
	}
	return id, nil
}
