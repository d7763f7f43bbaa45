package verification

import (
	"context"

	"seacrew/internal/audit"
	"seacrew/internal/extraction"
	"seacrew/internal/extraction/providers"
	"seacrew/internal/fleet"
	"seacrew/internal/scantruth"
	"seacrew/pkg/domain"
)

// Ports are defined by this consumer; the fleet, scantruth, and extraction
// packages satisfy them without knowing about verification.

// DocumentReader loads declared document and crew data.
type DocumentReader interface {
	FindDocument(ctx context.Context, docID domain.DocumentID) (*fleet.Document, error)
	FindCrewMember(ctx context.Context, crewID domain.CrewMemberID) (*fleet.CrewMember, error)
	FindDocumentsByNumber(ctx context.Context, kind domain.DocumentKind, number string) ([]*fleet.Document, error)
}

// ScanStore reads and appends scan evidence.
type ScanStore interface {
	RecordScan(ctx context.Context, record *scantruth.ScanRecord) error
	ActiveScan(ctx context.Context, docID domain.DocumentID) (*scantruth.ScanRecord, error)
}

// Extractor runs the OCR pipeline over an uploaded file.
type Extractor interface {
	Extract(ctx context.Context, in providers.Input) (*extraction.Result, error)
}

// AuditPublisher records verification decisions on the audit trail.
type AuditPublisher interface {
	Emit(ctx context.Context, event audit.Event) error
}
