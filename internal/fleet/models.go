// Package fleet holds the declared side of the crewing system: crew members,
// their contracts and vessels, and the document data entered by operators.
// Declared values are claims; the scan truth store holds the evidence they
// are verified against.
package fleet

import (
	"time"

	"seacrew/pkg/domain"
)

// ContractStatus tracks a contract through its lifecycle.
type ContractStatus string

const (
	ContractDraft     ContractStatus = "draft"
	ContractActive    ContractStatus = "active"
	ContractExtended  ContractStatus = "extended"
	ContractCompleted ContractStatus = "completed"
)

// Vessel is a ship crew members are assigned to.
type Vessel struct {
	ID        domain.VesselID
	Name      string
	IMONumber string
	CreatedAt time.Time
}

// CrewMember is a seafarer under management.
type CrewMember struct {
	ID          domain.CrewMemberID
	FullName    string
	Nationality string
	Rank        string
	// Officer marks ranks that require a certificate of competency on
	// sign-on unless individually waived.
	Officer bool
	// OnBoard reflects whether the member is currently serving at sea.
	OnBoard bool
	// CompetencyWaived exempts an officer from the competency requirement,
	// recorded per member by crewing managers.
	CompetencyWaived bool
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// Contract is an engagement of a crew member on a vessel for a date range.
type Contract struct {
	ID           domain.ContractID
	CrewMemberID domain.CrewMemberID
	VesselID     domain.VesselID
	StartDate    time.Time
	EndDate      time.Time
	Status       ContractStatus
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Document is the declared record of a crew member's document. Number and
// dates are operator-entered claims until verification reconciles them with
// scan evidence.
type Document struct {
	ID             domain.DocumentID
	CrewMemberID   domain.CrewMemberID
	Kind           domain.DocumentKind
	Number         string
	IssueDate      *time.Time
	ExpiryDate     *time.Time
	IssuingCountry string
	// LastNotifiedAt is the most recent expiry reminder sent for this
	// document, used to dedupe notifications to one per calendar day.
	LastNotifiedAt *time.Time
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// Clone returns a deep copy so store internals never alias caller memory.
func (d *Document) Clone() *Document {
	cp := *d
	if d.IssueDate != nil {
		t := *d.IssueDate
		cp.IssueDate = &t
	}
	if d.ExpiryDate != nil {
		t := *d.ExpiryDate
		cp.ExpiryDate = &t
	}
	if d.LastNotifiedAt != nil {
		t := *d.LastNotifiedAt
		cp.LastNotifiedAt = &t
	}
	return &cp
}
