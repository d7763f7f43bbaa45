// Package scantruth maintains the evidence side of every document: an
// append-only history of extraction results per document, with exactly one
// active record at a time. Declared document data lives in the fleet stores;
// what the scans actually showed lives here, and the two are only reconciled
// by the verification engine.
package scantruth

import (
	"time"

	"seacrew/internal/extraction"
	"seacrew/pkg/domain"
)

// ScanRecord is one extraction result bound to a document.
//
// Records are never mutated after creation except to close them out:
// recording a newer scan for the same document stamps SupersededAt and
// SupersededBy on the previously active record. A record with nil
// SupersededAt is the document's active scan.
type ScanRecord struct {
	ID         domain.ScanID
	DocumentID domain.DocumentID
	Fields     extraction.FieldSet
	// ProviderID and Degraded carry the extraction provenance so consumers
	// can weigh offline-tier evidence differently.
	ProviderID string
	Degraded   bool
	// OwnerValidated marks records whose fields a human confirmed against
	// the physical document.
	OwnerValidated bool
	RecordedAt     time.Time
	SupersededAt   *time.Time
	SupersededBy   *domain.ScanID
}

// Active reports whether this record is the document's current scan truth.
func (r *ScanRecord) Active() bool {
	return r.SupersededAt == nil
}

// Clone returns a deep copy so store internals never alias caller memory.
func (r *ScanRecord) Clone() *ScanRecord {
	cp := *r
	if r.SupersededAt != nil {
		t := *r.SupersededAt
		cp.SupersededAt = &t
	}
	if r.SupersededBy != nil {
		id := *r.SupersededBy
		cp.SupersededBy = &id
	}
	if r.Fields.IssueDate != nil {
		t := *r.Fields.IssueDate
		cp.Fields.IssueDate = &t
	}
	if r.Fields.ExpiryDate != nil {
		t := *r.Fields.ExpiryDate
		cp.Fields.ExpiryDate = &t
	}
	if r.Fields.MRZ != nil {
		mrz := *r.Fields.MRZ
		if mrz.ExpiryDate != nil {
			t := *mrz.ExpiryDate
			mrz.ExpiryDate = &t
		}
		cp.Fields.MRZ = &mrz
	}
	return &cp
}
